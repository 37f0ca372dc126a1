package container

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// Construct calls ctor with a flat argument list and returns its first
// result. ctor must be a function returning the instance, optionally
// followed by an error. Arguments are matched positionally; a nil argument
// stands for the zero value of a nilable parameter.
//
//	inst, err := container.Construct(NewSpawner, 16, rng)
//
// Every failure wraps ErrConstruct: a non-function ctor, an argument count or
// type mismatch, a non-nil error result, a nil result or a panic inside ctor.
func Construct(ctor any, args ...any) (instance any, err error) {
	fv := reflect.ValueOf(ctor)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fmt.Errorf("%w: %T is not a constructor function", ErrConstruct, ctor)
	}
	ft := fv.Type()

	switch {
	case ft.NumOut() == 0 || ft.NumOut() > 2:
		return nil, fmt.Errorf("%w: %s must return (T) or (T, error)", ErrConstruct, ft)
	case ft.NumOut() == 2 && ft.Out(1) != errorType:
		return nil, fmt.Errorf("%w: %s second result must be error", ErrConstruct, ft)
	}

	in, err := constructArgs(ft, args)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			instance = nil
			err = fmt.Errorf("%w: %s panicked: %v", ErrConstruct, ft, p)
		}
	}()

	out := fv.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("%w: %w", ErrConstruct, out[1].Interface().(error))
	}
	if isNilValue(out[0]) {
		return nil, fmt.Errorf("%w: %s returned nil", ErrConstruct, ft)
	}
	return out[0].Interface(), nil
}

func constructArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	n := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < n-1 {
			return nil, fmt.Errorf("%w: %s wants at least %d arguments, got %d", ErrConstruct, ft, n-1, len(args))
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("%w: %s wants %d arguments, got %d", ErrConstruct, ft, n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := paramType(ft, i)
		if arg == nil {
			if !nilable(want) {
				return nil, fmt.Errorf("%w: argument %d: nil for %s", ErrConstruct, i, want)
			}
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(want) {
			return nil, fmt.Errorf("%w: argument %d: %s is not assignable to %s", ErrConstruct, i, v.Type(), want)
		}
		in[i] = v
	}
	return in, nil
}

func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

func isNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	return nilable(v.Type()) && v.IsNil()
}

// BindNew constructs an instance with Construct and binds it under key.
// Construction errors are returned as-is and nothing is bound.
func (c *Container) BindNew(key reflect.Type, ctor any, args ...any) (any, error) {
	instance, err := Construct(ctor, args...)
	if err != nil {
		c.log.Warn().Err(err).Str("key", typeName(key)).Msg("container: construction failed")
		return nil, err
	}
	if err := c.Bind(key, instance); err != nil {
		return nil, err
	}
	return instance, nil
}
