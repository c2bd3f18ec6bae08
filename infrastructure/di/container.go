// Package di provides a small runtime dependency container. Factories are
// registered explicitly per concrete type, interfaces are bound to the
// implementation that serves them, and every resolution is a singleton:
// one instance per type for the lifetime of the process.
//
// The container is built and resolved during startup, before the server
// accepts traffic, and is not safe for concurrent use.
package di

import (
	"fmt"
	"reflect"
	"strings"
)

// Container holds registered factories, interface bindings and resolved
// singletons.
type Container struct {
	factories  map[reflect.Type]func(*Container) (interface{}, error)
	bindings   map[reflect.Type]reflect.Type
	singletons map[reflect.Type]interface{}
	resolving  []reflect.Type
}

// New creates an empty Container.
func New() *Container {
	return &Container{
		factories:  make(map[reflect.Type]func(*Container) (interface{}, error)),
		bindings:   make(map[reflect.Type]reflect.Type),
		singletons: make(map[reflect.Type]interface{}),
	}
}

// typeOf returns the reflect.Type of T, working for interfaces too.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register records the factory producing T. Registering the same type
// twice replaces the factory; already-resolved singletons are kept.
func Register[T any](c *Container, factory func(c *Container) (T, error)) {
	c.factories[typeOf[T]()] = func(c *Container) (interface{}, error) {
		return factory(c)
	}
}

// Bind routes resolutions of the interface P to the registered concrete
// type T. Both resolve to the same singleton instance.
func Bind[P any, T any](c *Container) {
	port := typeOf[P]()
	impl := typeOf[T]()
	if port.Kind() != reflect.Interface {
		panic(fmt.Sprintf("di: Bind target %s is not an interface", port))
	}
	c.bindings[port] = impl
}

// Resolve returns the singleton instance of T, constructing it (and its
// transitive dependencies) on first use.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	v, err := c.resolve(typeOf[T]())
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("di: %s resolved to incompatible %T", typeOf[T](), v)
	}
	return out, nil
}

// MustResolve is Resolve for composition-root wiring, panicking on failure.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

func (c *Container) resolve(t reflect.Type) (interface{}, error) {
	// Follow interface bindings to the implementing type so both share
	// one singleton.
	target := t
	for {
		impl, ok := c.bindings[target]
		if !ok {
			break
		}
		target = impl
	}

	if v, ok := c.singletons[target]; ok {
		return v, nil
	}

	factory, ok := c.factories[target]
	if !ok {
		if target.Kind() == reflect.Interface {
			return nil, fmt.Errorf("di: no binding for interface %s; bind a concrete implementation", target)
		}
		return nil, fmt.Errorf("di: %s is not registered", target)
	}

	for _, inProgress := range c.resolving {
		if inProgress == target {
			return nil, fmt.Errorf("di: dependency cycle detected: %s", c.cyclePath(target))
		}
	}

	c.resolving = append(c.resolving, target)
	v, err := factory(c)
	c.resolving = c.resolving[:len(c.resolving)-1]
	if err != nil {
		return nil, fmt.Errorf("di: building %s: %w", target, err)
	}

	c.singletons[target] = v
	return v, nil
}

func (c *Container) cyclePath(repeat reflect.Type) string {
	names := make([]string, 0, len(c.resolving)+1)
	for _, t := range c.resolving {
		names = append(names, t.String())
	}
	names = append(names, repeat.String())
	return strings.Join(names, " -> ")
}
