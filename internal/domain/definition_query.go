package domain

import (
	"context"
	"fmt"
	"log/slog"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

// DefinitionQuery answers how a fixture item is to be built.
type DefinitionQuery interface {
	GetDefinitionNode(ctx context.Context, id m.FixtureItemID) (m.DefinitionNode, error)
}

type definitionQuery struct {
	types    adapter.TypeDescriptionAdapter
	user     UserConfigurationStore
	defaults *DefaultsBuilder
}

// NewDefinitionQuery constructs a DefinitionQuery combining type descriptions,
// system defaults and user configuration.
func NewDefinitionQuery(types adapter.TypeDescriptionAdapter, user UserConfigurationStore) DefinitionQuery {
	return &definitionQuery{
		types:    types,
		user:     user,
		defaults: NewDefaultsBuilder(types),
	}
}

func (q *definitionQuery) GetDefinitionNode(ctx context.Context, id m.FixtureItemID) (m.DefinitionNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	description, err := q.types.Describe(ctx, id.TypeFullName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", id, err)
	}

	var override *m.ConfigurationItem
	if item, ok := q.user.Lookup(id); ok {
		override = &item
	}

	constructor := ""
	if override != nil {
		constructor = override.FixtureConfiguration.Constructor
	}

	defaults, err := q.defaults.Build(id, description, constructor)
	if err != nil {
		return nil, err
	}

	merged, err := Merge(defaults, override)
	if err != nil {
		slog.Debug("configuration merge failed", "id", id.String(), "error", err)
		return nil, err
	}

	return NewDefinitionNode(merged, description), nil
}

// NewDefinitionNode converts a merged configuration into the node variant
// matching the type class.
func NewDefinitionNode(item m.ConfigurationItem, description *m.TypeDescription) m.DefinitionNode {
	switch description.Class {
	case m.ClassConcrete:
		return classNode(item, description)
	case m.ClassInterface:
		return mockNode(item, description)
	default:
		value := item.Value
		if value == nil {
			value = m.Null
		}

		return m.NewBaseTypeNode(item.ID, description, value)
	}
}

func classNode(item m.ConfigurationItem, description *m.TypeDescription) *m.ClassNode {
	node := m.NewClassNode(item.ID, description)

	if name := item.FixtureConfiguration.Constructor; name != "" {
		if constructor, ok := description.Constructor(name); ok {
			node.Constructor = &constructor

			for _, p := range constructor.Parameters {
				node.ConstructorParameters = append(node.ConstructorParameters, m.ParameterDefinition{
					ParameterDescription: p,
					Value:                valueOf(item.ConstructorParameters, p.Name),
				})
			}
		}
	}

	for _, field := range description.Fields {
		node.Fields = append(node.Fields, m.FieldDefinition{
			FieldDescription: field,
			Value:            valueOf(item.MemberConfigurations, field.Name),
		})
	}

	for _, property := range description.Properties {
		node.Properties = append(node.Properties, m.FieldDefinition{
			FieldDescription: property,
			Value:            valueOf(item.MemberConfigurations, property.Name),
		})
	}

	return node
}

func mockNode(item m.ConfigurationItem, description *m.TypeDescription) *m.MockNode {
	node := m.NewMockNode(item.ID, description)

	for _, property := range description.MockProperties {
		node.Properties = append(node.Properties, m.PropertyDefinition{
			PropertyDescription: property,
			Value:               valueOf(item.MemberConfigurations, property.Name),
		})
	}

	for _, method := range description.Methods {
		node.Methods = append(node.Methods, m.MethodDefinition{
			MethodDescription: method,
			Value:             valueOf(item.MemberConfigurations, method.Name),
			Callbacks:         item.Callbacks[method.Name],
		})
	}

	return node
}

func valueOf(members map[string]m.MemberConfiguration, name string) m.ValueDefinition {
	if member, ok := members[name]; ok && member.Value != nil {
		return member.Value
	}

	return m.Undefined
}
