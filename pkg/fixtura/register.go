package fixtura

import (
	"fmt"
	"reflect"

	"fixtura.dev/pkg/fixtura/internal/domain"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

// RegisterConstructor registers fn, a func(...) T or func(...) (T, error)
// where T is a struct or a pointer to a struct. Parameter names default to
// "arg0", "arg1", ... and are used to configure the parameters.
func (f *Fixture) RegisterConstructor(fn any, paramNames ...string) error {
	name, err := f.types.RegisterConstructor(fn, paramNames...)
	if err != nil {
		f.logger.Error("Failed to register constructor", "constructor", fmt.Sprintf("%T", fn), "error", err)
		return fmt.Errorf("failed to register constructor: %w", err)
	}

	f.logger.Debug("registered constructor", "type", name)

	return nil
}

// RegisterMock registers the factory of the testify mock used for interface T.
func RegisterMock[T any](f *Fixture, factory func() Mockable) error {
	iface := reflect.TypeFor[T]()

	if err := f.types.RegisterMock(iface, factory); err != nil {
		f.logger.Error("Failed to register mock", "interface", iface.String(), "error", err)
		return fmt.Errorf("failed to register mock: %w", err)
	}

	return nil
}

// RegisterEnum registers the declared values of a named base type. Unique
// values of the type cycle through them.
func (f *Fixture) RegisterEnum(values ...any) error {
	if err := f.types.RegisterEnum(values...); err != nil {
		return fmt.Errorf("failed to register enum: %w", err)
	}

	return nil
}

// RegisterType makes T known by name, which configuration files need to
// refer to it. Types used in code are registered on first use.
func RegisterType[T any](f *Fixture) TypeName {
	return f.types.RegisterType(reflect.TypeFor[T]())
}

// Provide registers factory as the explicit source of T (named, when a name
// is given). Provided items are never built by the fixture engine.
func Provide[T any](f *Fixture, factory func() (T, error), name ...string) {
	id := itemID[T](f, name...)

	f.container.Register(id, func(*domain.BuildContext, m.FixtureItemID) (any, error) {
		return factory()
	})
}

func itemID[T any](f *Fixture, name ...string) ItemID {
	id := m.NewFixtureItemID(RegisterType[T](f))
	if len(name) > 0 {
		id = id.WithName(name[0])
	}

	return id
}
