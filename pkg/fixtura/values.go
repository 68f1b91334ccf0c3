package fixtura

import (
	"reflect"
	"sync"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// Value is a literal member value.
func Value(v any) ValueDefinition {
	return m.RawValue{Value: v}
}

// Unique asks for a value never produced before for the member type.
func Unique() ValueDefinition {
	return m.UniqueValue{}
}

// Null sets the member to its zero value.
func Null() ValueDefinition {
	return m.Null
}

// Undefined leaves the member alone. Undefined mock methods are not set up,
// so calling them fails the test.
func Undefined() ValueDefinition {
	return m.Undefined
}

// Delegate computes the value with fn. For fields, properties and
// constructor parameters fn is a func() T or func() (T, error); for mock
// methods it has the method's signature and is called with the arguments.
func Delegate(fn any) ValueDefinition {
	return m.DelegateValue{Func: fn}
}

// Link resolves the member as the fixture item id.
func Link(id ItemID) ValueDefinition {
	return m.LinkValue{Target: id}
}

// LinkTo resolves the member as the fixture item of type T, named when a name is given.
func LinkTo[T any](name ...string) ValueDefinition {
	return m.LinkValue{Target: ID[T](name...)}
}

// typeNames maps the names handed out by ID and Item to their types, so a
// Fixture can describe types it has only seen by id.
var typeNames sync.Map

func remember(t reflect.Type) m.TypeFullName {
	name := m.TypeFullNameOf(t)
	typeNames.Store(name, t)

	return name
}

// ID returns the id of the fixture item of type T, named when a name is given.
func ID[T any](name ...string) ItemID {
	id := m.NewFixtureItemID(remember(reflect.TypeFor[T]()))
	if len(name) > 0 {
		id = id.WithName(name[0])
	}

	return id
}
