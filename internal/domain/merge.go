package domain

import (
	"fmt"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// Merge combines the system default configuration of a fixture item with the
// user's configuration of the same item. A nil override returns the default
// unchanged. User members replace default members wholly; callbacks append.
func Merge(systemDefault m.ConfigurationItem, userOverride *m.ConfigurationItem) (m.ConfigurationItem, error) {
	if userOverride == nil {
		return systemDefault, nil
	}

	if userOverride.ID.TypeFullName != systemDefault.ID.TypeFullName {
		return m.ConfigurationItem{}, &m.InvalidTypeDescriptionError{
			Type:   userOverride.ID.TypeFullName,
			Reason: fmt.Sprintf("configuration targets %s but the item is %s", userOverride.ID.TypeFullName, systemDefault.ID.TypeFullName),
		}
	}

	result := systemDefault.Clone()

	for name, member := range userOverride.MemberConfigurations {
		merged, err := mergeMember(systemDefault.ID, result.MemberConfigurations, name, member)
		if err != nil {
			return m.ConfigurationItem{}, err
		}

		result.MemberConfigurations[name] = merged
	}

	for name, param := range userOverride.ConstructorParameters {
		merged, err := mergeMember(systemDefault.ID, result.ConstructorParameters, name, param)
		if err != nil {
			return m.ConfigurationItem{}, err
		}

		result.ConstructorParameters[name] = merged
	}

	for name, callbacks := range userOverride.Callbacks {
		member, ok := result.MemberConfigurations[name]
		if !ok || member.Kind != m.MemberMethod {
			return m.ConfigurationItem{}, &m.InvalidConfigurationError{
				ID:     systemDefault.ID,
				Member: name,
				Reason: "callbacks can only be registered for methods",
			}
		}

		result.Callbacks[name] = append(result.Callbacks[name], callbacks...)
	}

	if selected := userOverride.FixtureConfiguration.Constructor; selected != "" && selected != result.FixtureConfiguration.Constructor {
		return m.ConfigurationItem{}, &m.InvalidConfigurationError{
			ID:     systemDefault.ID,
			Reason: fmt.Sprintf("constructor %q is not available", selected),
		}
	}

	if userOverride.Value != nil {
		if systemDefault.Value == nil {
			return m.ConfigurationItem{}, &m.InvalidConfigurationError{
				ID:     systemDefault.ID,
				Reason: "an item value can only be set for base types",
			}
		}

		result.Value = userOverride.Value
	}

	return result, nil
}

func mergeMember(id m.FixtureItemID, defaults map[string]m.MemberConfiguration, name string, user m.MemberConfiguration) (m.MemberConfiguration, error) {
	current, ok := defaults[name]
	if !ok {
		return m.MemberConfiguration{}, &m.InvalidConfigurationError{
			ID:     id,
			Member: name,
			Reason: "no such member",
		}
	}

	if user.Kind != "" && user.Kind != current.Kind {
		return m.MemberConfiguration{}, &m.InvalidConfigurationError{
			ID:     id,
			Member: name,
			Reason: fmt.Sprintf("configured as %s but the member is a %s", user.Kind, current.Kind),
		}
	}

	if user.Type != "" && user.Type != current.Type {
		return m.MemberConfiguration{}, &m.InvalidTypeDescriptionError{
			Type:   user.Type,
			Reason: fmt.Sprintf("member %s of %s is declared as %s", name, id, current.Type),
		}
	}

	merged := user
	merged.Name = name
	merged.Kind = current.Kind
	merged.Type = current.Type
	merged.Source = m.SourceUser

	if merged.Value == nil {
		merged.Value = current.Value
		merged.Source = current.Source
	}

	return merged, nil
}
