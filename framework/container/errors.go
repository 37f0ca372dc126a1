package container

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors. Every failure returned by the Container wraps exactly one
// of these, so callers can use errors.Is or the Is* helpers below.
var (
	// ErrInvalidKey is returned when a key is not a candidate key of the
	// instance's concrete type.
	ErrInvalidKey = errors.New("invalid key")

	// ErrReservedKey is returned when a capability interface is used as a
	// bind or resolve key.
	ErrReservedKey = errors.New("reserved key")

	// ErrDuplicateKey is returned when a key is already bound to a different
	// concrete type, or a second instance of a tracked type is bound.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnknownKey is returned when removing a key that is not bound.
	ErrUnknownKey = errors.New("unknown key")

	// ErrAlreadyRemoved is returned when tearing down a record that has
	// already been erased.
	ErrAlreadyRemoved = errors.New("already removed")

	// ErrConstruct is returned when the legacy construction path fails.
	ErrConstruct = errors.New("construction failed")
)

// KeyError carries the context of a rejected registry operation.
type KeyError struct {
	Op       string
	Key      reflect.Type
	Concrete reflect.Type
	Existing reflect.Type // concrete type currently holding Key, if any
	Err      error
}

func (e *KeyError) Error() string {
	msg := fmt.Sprintf("container: %s [%s]: %v", e.Op, typeName(e.Key), e.Err)
	if e.Concrete != nil {
		msg += fmt.Sprintf(" (instance %s)", typeName(e.Concrete))
	}
	if e.Existing != nil {
		msg += fmt.Sprintf(" (bound to %s)", typeName(e.Existing))
	}
	return msg
}

func (e *KeyError) Unwrap() error { return e.Err }

func (e *KeyError) Is(target error) bool { return target == e.Err }

// IsInvalidKey reports whether err is an ErrInvalidKey.
func IsInvalidKey(err error) bool { return errors.Is(err, ErrInvalidKey) }

// IsReservedKey reports whether err is an ErrReservedKey.
func IsReservedKey(err error) bool { return errors.Is(err, ErrReservedKey) }

// IsDuplicateKey reports whether err is an ErrDuplicateKey.
func IsDuplicateKey(err error) bool { return errors.Is(err, ErrDuplicateKey) }

// IsUnknownKey reports whether err is an ErrUnknownKey.
func IsUnknownKey(err error) bool { return errors.Is(err, ErrUnknownKey) }

// IsAlreadyRemoved reports whether err is an ErrAlreadyRemoved.
func IsAlreadyRemoved(err error) bool { return errors.Is(err, ErrAlreadyRemoved) }

// callerBug reports whether err belongs to the class that strict mode turns
// into a panic.
func callerBug(err error) bool {
	return IsInvalidKey(err) || IsReservedKey(err) || IsDuplicateKey(err)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
