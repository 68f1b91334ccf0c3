package domain

import (
	"fmt"
	"log/slog"
	"reflect"
	"unsafe"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

type concreteTypeCreator struct {
	members *memberResolver
}

func (c *concreteTypeCreator) CreateInstance(bc *BuildContext, node m.DefinitionNode) (any, error) {
	n, ok := node.(*m.ClassNode)
	if !ok || n == nil {
		panic(fmt.Sprintf("domain: concrete type creator cannot build %T", node))
	}

	instance, err := c.construct(bc, n)
	if err != nil {
		return nil, err
	}

	target := instance
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}

	for _, field := range n.Fields {
		if err := c.assign(bc, n, target, field); err != nil {
			return nil, err
		}
	}

	for _, property := range n.Properties {
		if err := c.assign(bc, n, target, property); err != nil {
			return nil, err
		}
	}

	return instance.Interface(), nil
}

// construct calls the selected constructor, or allocates the zero value. The
// result is addressable so members can be assigned.
func (c *concreteTypeCreator) construct(bc *BuildContext, n *m.ClassNode) (reflect.Value, error) {
	t := n.TypeDescription().Type

	if n.Constructor == nil {
		if t.Kind() == reflect.Pointer {
			return reflect.New(t.Elem()), nil
		}

		return reflect.New(t).Elem(), nil
	}

	args := make([]reflect.Value, 0, len(n.ConstructorParameters))

	for _, param := range n.ConstructorParameters {
		if value, ok := bc.Parameter(m.FixtureItemID{Name: param.Name, TypeFullName: m.TypeFullNameOf(param.Type)}); ok {
			converted, err := convertValue(value, param.Type)
			if err != nil {
				return reflect.Value{}, m.NewResolveTypeError(n.FixtureItemID(), bc.Path(), "parameter "+param.Name, err)
			}

			args = append(args, converted)

			continue
		}

		value, defined, err := c.members.resolve(bc, n.FixtureItemID(), param.Name, param.Type, param.Value)
		if err != nil {
			return reflect.Value{}, err
		}

		if !defined {
			value = reflect.Zero(param.Type)
		}

		args = append(args, value)
	}

	out, err := call(n.Constructor, args)
	if err != nil {
		slog.Error("Failed to construct fixture item", "id", n.FixtureItemID().String(), "path", bc.Path(), "error", err)
		return reflect.Value{}, m.NewResolveTypeError(n.FixtureItemID(), bc.Path(), "constructor "+n.Constructor.Name+" failed", err)
	}

	result := out[0]
	if result.Kind() == reflect.Pointer {
		if result.IsNil() {
			return reflect.Value{}, m.NewResolveTypeError(n.FixtureItemID(), bc.Path(), "constructor "+n.Constructor.Name+" returned nil", nil)
		}

		return result, nil
	}

	addressable := reflect.New(t).Elem()
	addressable.Set(result)

	return addressable, nil
}

func (c *concreteTypeCreator) assign(bc *BuildContext, n *m.ClassNode, target reflect.Value, member m.FieldDefinition) error {
	value, defined, err := c.members.resolve(bc, n.FixtureItemID(), member.Name, member.Type, member.Value)
	if err != nil || !defined {
		return err
	}

	field := target.FieldByIndex(member.Index)
	if !field.CanSet() {
		field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	}

	field.Set(value)

	return nil
}

// call invokes a constructor, turning a returned error or a panic into an error.
func call(constructor *m.ConstructorDescription, args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	if constructor.Variadic {
		out = constructor.Func.CallSlice(args)
	} else {
		out = constructor.Func.Call(args)
	}

	if constructor.ReturnsError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	return out, nil
}
