package domain

import (
	"fmt"
	"reflect"

	"github.com/stretchr/testify/mock"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

// mockCreator builds interface fixture items from registered testify mocks.
// Every wired call is optional (Maybe); Undefined members are not wired, so
// calling them fails the way testify fails unexpected calls.
type mockCreator struct {
	members *memberResolver
	types   adapter.TypeDescriptionAdapter
	unique  UniqueGenerator
}

func (c *mockCreator) CreateInstance(bc *BuildContext, node m.DefinitionNode) (any, error) {
	n, ok := node.(*m.MockNode)
	if !ok || n == nil {
		panic(fmt.Sprintf("domain: mock creator cannot build %T", node))
	}

	description := n.TypeDescription()
	if description.MockFactory == nil {
		return nil, m.NewResolveTypeError(n.FixtureItemID(), bc.Path(), "no mock is registered for the interface", nil)
	}

	instance := description.MockFactory()
	if instance == nil || !reflect.TypeOf(instance).Implements(description.Type) {
		return nil, m.NewResolveTypeError(n.FixtureItemID(), bc.Path(),
			fmt.Sprintf("mock %T does not implement %s", instance, description.FullName), nil)
	}

	for _, property := range n.Properties {
		if err := c.property(bc, n, instance, property); err != nil {
			return nil, err
		}
	}

	for _, method := range n.Methods {
		if err := c.method(bc, n, instance, method); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

// property wires a getter. With a setter both share one cell: the setter
// stores its argument and the getter returns a func reading the cell, which
// mockery style mocks call to obtain the result.
func (c *mockCreator) property(bc *BuildContext, n *m.MockNode, instance m.Mockable, property m.PropertyDefinition) error {
	value, defined, err := c.members.resolve(bc, n.FixtureItemID(), property.Name, property.Type, property.Value)
	if err != nil || !defined {
		return err
	}

	if !property.HasSetter() {
		instance.On(property.Name).Return(value.Interface()).Maybe()
		return nil
	}

	cell := reflect.New(property.Type).Elem()
	cell.Set(value)

	instance.On(property.Setter, mock.Anything).Run(func(args mock.Arguments) {
		if next, err := convertValue(args.Get(0), property.Type); err == nil {
			cell.Set(next)
		}
	}).Return().Maybe()

	getter := reflect.MakeFunc(reflect.FuncOf(nil, []reflect.Type{property.Type}, false), func([]reflect.Value) []reflect.Value {
		return []reflect.Value{cell}
	})

	instance.On(property.Name).Return(getter.Interface()).Maybe()

	return nil
}

// maxUnrolledVariadic bounds the variadic arguments matched for mocks that
// pass them to Called one by one, as mockery does by default.
const maxUnrolledVariadic = 16

func (c *mockCreator) method(bc *BuildContext, n *m.MockNode, instance m.Mockable, method m.MethodDefinition) error {
	if _, undefined := method.Value.(m.UndefinedValue); undefined || method.Value == nil {
		return nil
	}

	if delegate, ok := method.Value.(m.DelegateValue); ok {
		if reflect.TypeOf(delegate.Func) != method.FuncType() {
			return m.NewResolveTypeError(n.FixtureItemID(), joinPath(bc.Path(), method.Name),
				fmt.Sprintf("delegate %T does not match %s", delegate.Func, method.FuncType()), nil)
		}

		c.expect(instance, method, delegate.Func)

		return nil
	}

	results, err := c.results(bc, n, method)
	if err != nil {
		return err
	}

	c.expect(instance, method, results...)

	return nil
}

// expect registers optional expectations for every argument shape of the
// method. Callbacks run in registration order before results are returned.
func (c *mockCreator) expect(instance m.Mockable, method m.MethodDefinition, results ...any) {
	callbacks := method.Callbacks

	for _, arguments := range argumentSets(method.MethodDescription) {
		call := instance.On(method.Name, arguments...).Maybe()

		if len(callbacks) > 0 {
			call.Run(func(args mock.Arguments) {
				for _, callback := range callbacks {
					callback(args...)
				}
			})
		}

		call.Return(results...)
	}
}

// argumentSets lists the argument patterns a method is called with. A
// variadic method is matched with its slice passed as one argument and with
// up to maxUnrolledVariadic arguments passed one by one.
func argumentSets(method m.MethodDescription) [][]any {
	sets := [][]any{anything(len(method.In))}
	if !method.Variadic {
		return sets
	}

	fixed := len(method.In) - 1

	for unrolled := 0; unrolled <= maxUnrolledVariadic; unrolled++ {
		// one unrolled argument has the shape of the slice form
		if unrolled == 1 {
			continue
		}

		sets = append(sets, anything(fixed+unrolled))
	}

	return sets
}

func anything(n int) []any {
	arguments := make([]any, n)
	for i := range arguments {
		arguments[i] = mock.Anything
	}

	return arguments
}

// results resolves the configured result once. The remaining results get
// defaults: nil errors, unique base values and zero values otherwise.
func (c *mockCreator) results(bc *BuildContext, n *m.MockNode, method m.MethodDefinition) ([]any, error) {
	if len(method.Out) == 0 {
		return nil, nil
	}

	configured := 0

	for i, out := range method.Out {
		if out != m.ErrorType {
			configured = i
			break
		}
	}

	results := make([]any, len(method.Out))

	for i, out := range method.Out {
		if i == configured {
			value, _, err := c.members.resolve(bc, n.FixtureItemID(), method.Name, out, method.Value)
			if err != nil {
				return nil, err
			}

			results[i] = value.Interface()

			continue
		}

		results[i] = c.defaultResult(out)
	}

	return results, nil
}

func (c *mockCreator) defaultResult(out reflect.Type) any {
	if out == m.ErrorType {
		return nil
	}

	if description, err := c.types.DescribeType(out); err == nil && description.IsBaseType() && CanGenerateUnique(description) {
		if value, err := c.unique.Next(description); err == nil {
			return value
		}
	}

	return reflect.Zero(out).Interface()
}
