package domain

import (
	"fmt"
	"reflect"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

// DefaultsBuilder computes the system default configuration of a type.
type DefaultsBuilder struct {
	types adapter.TypeDescriptionAdapter
}

// NewDefaultsBuilder constructs a DefaultsBuilder describing member types through types.
func NewDefaultsBuilder(types adapter.TypeDescriptionAdapter) *DefaultsBuilder {
	return &DefaultsBuilder{types: types}
}

// Build returns the default configuration of the item id described by
// description. constructor selects a constructor by name; when empty the one
// with the most parameters is used.
func (b *DefaultsBuilder) Build(id m.FixtureItemID, description *m.TypeDescription, constructor string) (m.ConfigurationItem, error) {
	item := m.NewConfigurationItem(id)

	switch description.Class {
	case m.ClassBase:
		item.Value = m.Null
		if CanGenerateUnique(description) {
			item.Value = m.UniqueValue{}
		}
	case m.ClassConcrete:
		if err := b.concrete(&item, description, constructor); err != nil {
			return m.ConfigurationItem{}, err
		}
	case m.ClassInterface:
		b.mock(&item, description)
	}

	return item, nil
}

func (b *DefaultsBuilder) concrete(item *m.ConfigurationItem, description *m.TypeDescription, constructor string) error {
	selected, ok := selectConstructor(description, constructor)
	if constructor != "" && !ok {
		return &m.InvalidConfigurationError{
			ID:     item.ID,
			Reason: fmt.Sprintf("constructor %q is not registered for %s", constructor, description.FullName),
		}
	}

	if ok {
		item.FixtureConfiguration.Constructor = selected.Name

		for _, p := range selected.Parameters {
			item.ConstructorParameters[p.Name] = b.member(item.ID, p.Name, m.MemberParameter, p.Type)
		}
	}

	for _, field := range description.Fields {
		member := b.member(item.ID, field.Name, m.MemberField, field.Type)
		member.Value = m.Undefined
		item.MemberConfigurations[field.Name] = member
	}

	for _, property := range description.Properties {
		member := b.member(item.ID, property.Name, m.MemberProperty, property.Type)
		if ok {
			member.Value = m.Undefined
		}

		item.MemberConfigurations[property.Name] = member
	}

	return nil
}

func (b *DefaultsBuilder) mock(item *m.ConfigurationItem, description *m.TypeDescription) {
	for _, property := range description.MockProperties {
		item.MemberConfigurations[property.Name] = b.member(item.ID, property.Name, m.MemberProperty, property.Type)
	}

	for _, method := range description.Methods {
		member := b.member(item.ID, method.Name, m.MemberMethod, method.ResultType())
		if method.ResultType() == nil {
			member.Value = m.Null
		}

		item.MemberConfigurations[method.Name] = member
	}
}

func (b *DefaultsBuilder) member(parent m.FixtureItemID, name string, kind m.MemberKind, t reflect.Type) m.MemberConfiguration {
	return m.MemberConfiguration{
		Name:   name,
		Kind:   kind,
		Type:   m.TypeFullNameOf(t),
		Value:  b.memberValue(parent, t),
		Source: m.SourceSystem,
	}
}

// memberValue picks the default definition for a member of type t.
func (b *DefaultsBuilder) memberValue(parent m.FixtureItemID, t reflect.Type) m.ValueDefinition {
	if t == nil || t == m.ErrorType {
		return m.Null
	}

	description, err := b.types.DescribeType(t)
	if err != nil {
		return m.Null
	}

	switch description.Class {
	case m.ClassBase:
		if CanGenerateUnique(description) {
			return m.UniqueValue{}
		}
	case m.ClassConcrete:
		return m.LinkValue{Target: m.FixtureItemIDOf(t).WithRootItemPath(parent.RootItemPath)}
	case m.ClassInterface:
		if description.MockFactory != nil {
			return m.LinkValue{Target: m.FixtureItemIDOf(t).WithRootItemPath(parent.RootItemPath)}
		}
	}

	return m.Null
}

// selectConstructor returns the named constructor, or the one with the most
// parameters when name is empty. Ties go to the first registered.
func selectConstructor(description *m.TypeDescription, name string) (*m.ConstructorDescription, bool) {
	if name != "" {
		constructor, ok := description.Constructor(name)
		return &constructor, ok
	}

	var selected *m.ConstructorDescription

	for i := range description.Constructors {
		if selected == nil || len(description.Constructors[i].Parameters) > len(selected.Parameters) {
			selected = &description.Constructors[i]
		}
	}

	return selected, selected != nil
}
