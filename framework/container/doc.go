// Package container provides a type-keyed instance registry with lifecycle
// broadcast for frame-driven programs.
//
// # Overview
//
// An instance is bound under one or more keys. A key is a reflect.Type: an
// interface the instance implements, the struct it embeds first (its base),
// or its own concrete type. All keys of one instance resolve to that same
// instance, and each concrete type is tracked at most once.
//
// On first bind the container checks which capability interfaces the
// instance implements (Tickable, FixedTickable, LateTickable, Disposable)
// and enrolls it in the matching broadcast lists. Capability interfaces are
// reserved: they can never be used as keys.
//
// # Binding
//
//	c := container.New()
//
//	// One key
//	c.Bind(container.KeyOf[Renderer](), r)
//	container.BindAs[Renderer](c, r)
//
//	// Its own type
//	c.BindSelf(r)
//
//	// Every declared interface plus the embedded base, with or without self
//	container.Declare[Renderer](c.Introspector())
//	c.BindInheritances(r)
//	c.BindInheritancesAndSelf(r)
//
// # Resolving
//
//	inst, ok, err := c.TryResolve(container.KeyOf[Renderer]())
//	r, ok := container.Resolve[Renderer](c)
//
// # Removing
//
//	// Drop one key; the instance is torn down when its last key goes.
//	c.Remove(container.KeyOf[Renderer]())
//
//	// Tear the instance down now, whatever keys remain.
//	c.RemoveInstance(container.KeyOf[Renderer]())
//
//	// Tear everything down.
//	c.RemoveAll()
//
// Teardown leaves the broadcast lists, calls Dispose once, and forgets every
// key of the instance.
//
// # Broadcasting
//
//	c.FixedTick(fixedStep)
//	c.Tick(dt)
//	c.LateTick(dt)
//
// Each broadcast walks a snapshot of its list in bind order, so instances
// may bind and remove (themselves included) from inside a callback.
//
// # Errors
//
// Operations never abort. Failures wrap ErrInvalidKey, ErrReservedKey,
// ErrDuplicateKey, ErrUnknownKey or ErrAlreadyRemoved and leave the registry
// unchanged. WithStrict(true) turns the first three into panics for
// development builds.
package container
