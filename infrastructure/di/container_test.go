package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dialer struct{ addr string }

type greeter interface{ Greet() string }

type englishGreeter struct{ d *dialer }

func (g *englishGreeter) Greet() string { return "hello" }

type serviceA struct{ b *serviceB }
type serviceB struct{ a *serviceA }

func TestContainerSingleton(t *testing.T) {
	c := New()
	built := 0
	Register(c, func(*Container) (*dialer, error) {
		built++
		return &dialer{addr: "localhost"}, nil
	})

	first := MustResolve[*dialer](c)
	second := MustResolve[*dialer](c)

	assert.Same(t, first, second)
	assert.Equal(t, 1, built)
}

func TestContainerBinding(t *testing.T) {
	c := New()
	Register(c, func(*Container) (*dialer, error) {
		return &dialer{addr: "localhost"}, nil
	})
	Register(c, func(c *Container) (*englishGreeter, error) {
		d, err := Resolve[*dialer](c)
		if err != nil {
			return nil, err
		}
		return &englishGreeter{d: d}, nil
	})
	Bind[greeter, *englishGreeter](c)

	viaPort := MustResolve[greeter](c)
	viaImpl := MustResolve[*englishGreeter](c)

	assert.Equal(t, "hello", viaPort.Greet())
	assert.Same(t, viaImpl, viaPort)
}

func TestContainerUnregistered(t *testing.T) {
	c := New()

	_, err := Resolve[*dialer](c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not registered")
}

func TestContainerUnboundInterface(t *testing.T) {
	c := New()

	_, err := Resolve[greeter](c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no binding for interface")
}

func TestContainerCycleDetection(t *testing.T) {
	c := New()
	Register(c, func(c *Container) (*serviceA, error) {
		b, err := Resolve[*serviceB](c)
		if err != nil {
			return nil, err
		}
		return &serviceA{b: b}, nil
	})
	Register(c, func(c *Container) (*serviceB, error) {
		a, err := Resolve[*serviceA](c)
		if err != nil {
			return nil, err
		}
		return &serviceB{a: a}, nil
	})

	_, err := Resolve[*serviceA](c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency cycle detected")
	assert.Contains(t, err.Error(), "serviceA")
	assert.Contains(t, err.Error(), "serviceB")
}

func TestContainerFactoryError(t *testing.T) {
	c := New()
	Register(c, func(*Container) (*dialer, error) {
		return nil, assert.AnError
	})

	_, err := Resolve[*dialer](c)
	require.Error(t, err)

	// a failed build is not cached as a singleton
	Register(c, func(*Container) (*dialer, error) {
		return &dialer{addr: "ok"}, nil
	})
	d, err := Resolve[*dialer](c)
	require.NoError(t, err)
	assert.Equal(t, "ok", d.addr)
}
