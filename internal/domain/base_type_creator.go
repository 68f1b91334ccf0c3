package domain

import (
	"fmt"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

type baseTypeCreator struct {
	unique UniqueGenerator
}

// CreateInstance returns the Null and Undefined markers as they are so
// callers can tell them apart from produced values.
func (c *baseTypeCreator) CreateInstance(bc *BuildContext, node m.DefinitionNode) (any, error) {
	n, ok := node.(*m.BaseTypeNode)
	if !ok || n == nil {
		panic(fmt.Sprintf("domain: base type creator cannot build %T", node))
	}

	description := n.TypeDescription()

	switch def := n.ValueDefinition.(type) {
	case m.RawValue:
		value, err := convertValue(def.Value, description.Type)
		if err != nil {
			return nil, m.NewResolveTypeError(n.FixtureItemID(), bc.Path(), "invalid raw value", err)
		}

		return value.Interface(), nil
	case m.UniqueValue:
		if !CanGenerateUnique(description) {
			return nil, m.NewResolveTypeError(n.FixtureItemID(), bc.Path(),
				fmt.Sprintf("unique values cannot be generated for %s", description.FullName), nil)
		}

		value, err := c.unique.Next(description)
		if err != nil {
			return nil, m.NewResolveTypeError(n.FixtureItemID(), bc.Path(), "unique value generation failed", err)
		}

		return value, nil
	case m.NullValue:
		return m.Null, nil
	case m.UndefinedValue:
		return m.Undefined, nil
	default:
		return nil, m.NewResolveTypeError(n.FixtureItemID(), bc.Path(),
			fmt.Sprintf("%v is not supported for base types", def), nil)
	}
}
