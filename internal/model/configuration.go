package model

import (
	"maps"
	"slices"
)

// MemberKind is the kind of member a configuration applies to.
type MemberKind string

const (
	// MemberField is an unexported struct field.
	MemberField MemberKind = "field"
	// MemberProperty is an exported struct field or an interface getter.
	MemberProperty MemberKind = "property"
	// MemberMethod is an interface method.
	MemberMethod MemberKind = "method"
	// MemberParameter is a constructor parameter.
	MemberParameter MemberKind = "parameter"
)

// ConfigurationSource tells where a member configuration came from.
type ConfigurationSource string

const (
	// SourceSystem marks defaults computed from the type description.
	SourceSystem ConfigurationSource = "system"
	// SourceUser marks configuration supplied by the user.
	SourceUser ConfigurationSource = "user"
)

// Callback is invoked with the call arguments every time a mocked method runs.
type Callback func(args ...any)

// MemberConfiguration configures one member. Type may be empty in user
// configuration, meaning "whatever the member is declared as".
type MemberConfiguration struct {
	Name   string
	Kind   MemberKind
	Type   TypeFullName
	Value  ValueDefinition
	Source ConfigurationSource
}

// FixtureConfiguration holds item-wide settings.
type FixtureConfiguration struct {
	// Constructor selects a registered constructor by name.
	Constructor string
}

// ConfigurationItem is the configuration of one fixture item.
type ConfigurationItem struct {
	ID                    FixtureItemID
	MemberConfigurations  map[string]MemberConfiguration
	ConstructorParameters map[string]MemberConfiguration
	FixtureConfiguration  FixtureConfiguration
	Callbacks             map[string][]Callback
	// Value is the item's own definition when it is a base type.
	Value ValueDefinition
}

// NewConfigurationItem creates an empty configuration for id.
func NewConfigurationItem(id FixtureItemID) ConfigurationItem {
	return ConfigurationItem{
		ID:                    id,
		MemberConfigurations:  map[string]MemberConfiguration{},
		ConstructorParameters: map[string]MemberConfiguration{},
		Callbacks:             map[string][]Callback{},
	}
}

// VariableMembers returns fields, properties and methods sorted by name.
func (c ConfigurationItem) VariableMembers() []MemberConfiguration {
	return sortedMembers(c.MemberConfigurations)
}

// ConstructorParameterMembers returns the constructor parameters sorted by name.
func (c ConfigurationItem) ConstructorParameterMembers() []MemberConfiguration {
	return sortedMembers(c.ConstructorParameters)
}

// Member looks up a variable member.
func (c ConfigurationItem) Member(name string) (MemberConfiguration, bool) {
	member, ok := c.MemberConfigurations[name]
	return member, ok
}

// Parameter looks up a constructor parameter.
func (c ConfigurationItem) Parameter(name string) (MemberConfiguration, bool) {
	param, ok := c.ConstructorParameters[name]
	return param, ok
}

// Clone returns a copy that shares no maps with c.
func (c ConfigurationItem) Clone() ConfigurationItem {
	clone := c
	clone.MemberConfigurations = maps.Clone(c.MemberConfigurations)
	clone.ConstructorParameters = maps.Clone(c.ConstructorParameters)
	clone.Callbacks = make(map[string][]Callback, len(c.Callbacks))

	for name, callbacks := range c.Callbacks {
		clone.Callbacks[name] = slices.Clone(callbacks)
	}

	if clone.MemberConfigurations == nil {
		clone.MemberConfigurations = map[string]MemberConfiguration{}
	}

	if clone.ConstructorParameters == nil {
		clone.ConstructorParameters = map[string]MemberConfiguration{}
	}

	return clone
}

func sortedMembers(members map[string]MemberConfiguration) []MemberConfiguration {
	names := slices.Sorted(maps.Keys(members))

	result := make([]MemberConfiguration, 0, len(names))
	for _, name := range names {
		result = append(result, members[name])
	}

	return result
}
