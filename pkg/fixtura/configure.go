package fixtura

import (
	"context"
	"fmt"
	"reflect"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// ItemBuilder accumulates the user configuration of one fixture item.
type ItemBuilder struct {
	item m.ConfigurationItem
}

// Item starts the configuration of the fixture item of type T.
func Item[T any]() *ItemBuilder {
	return &ItemBuilder{item: m.NewConfigurationItem(m.NewFixtureItemID(remember(reflect.TypeFor[T]())))}
}

// ItemFor starts the configuration of the fixture item id.
func ItemFor(id ItemID) *ItemBuilder {
	return &ItemBuilder{item: m.NewConfigurationItem(id)}
}

// Named restricts the configuration to the item named name.
func (b *ItemBuilder) Named(name string) *ItemBuilder {
	b.item.ID = b.item.ID.WithName(name)
	return b
}

// RootPath restricts the configuration to builds rooted at path.
func (b *ItemBuilder) RootPath(path string) *ItemBuilder {
	b.item.ID = b.item.ID.WithRootItemPath(path)
	return b
}

// Member configures a field, property or method.
func (b *ItemBuilder) Member(name string, value ValueDefinition) *ItemBuilder {
	b.item.MemberConfigurations[name] = m.MemberConfiguration{Name: name, Value: value, Source: m.SourceUser}
	return b
}

// Parameter configures a constructor parameter.
func (b *ItemBuilder) Parameter(name string, value ValueDefinition) *ItemBuilder {
	b.item.ConstructorParameters[name] = m.MemberConfiguration{
		Name:   name,
		Kind:   m.MemberParameter,
		Value:  value,
		Source: m.SourceUser,
	}

	return b
}

// Callback adds fn to the callbacks of a mocked method.
func (b *ItemBuilder) Callback(method string, fn Callback) *ItemBuilder {
	b.item.Callbacks[method] = append(b.item.Callbacks[method], fn)
	return b
}

// Constructor selects a registered constructor by name.
func (b *ItemBuilder) Constructor(name string) *ItemBuilder {
	b.item.FixtureConfiguration.Constructor = name
	return b
}

// Value sets the definition of a base type item itself.
func (b *ItemBuilder) Value(value ValueDefinition) *ItemBuilder {
	b.item.Value = value
	return b
}

// ID returns the id the builder configures.
func (b *ItemBuilder) ID() ItemID {
	return b.item.ID
}

// Configure adds user configuration. Later configuration of the same item
// replaces earlier member definitions and appends callbacks.
func (f *Fixture) Configure(items ...*ItemBuilder) {
	for _, b := range items {
		if b == nil {
			continue
		}

		f.learn(b.item.ID)

		for _, member := range b.item.MemberConfigurations {
			f.learnValue(member.Value)
		}

		for _, param := range b.item.ConstructorParameters {
			f.learnValue(param.Value)
		}

		f.user.Add(b.item.Clone())
		f.logger.Debug("configured fixture item", "id", b.item.ID.String())
	}
}

// LoadConfiguration loads configuration files. Paths may name files,
// directories or "dir/..." patterns.
func (f *Fixture) LoadConfiguration(ctx context.Context, paths ...string) error {
	files, err := f.fs.Expand(paths...)
	if err != nil {
		f.logger.Error("Failed to expand configuration paths", "paths", paths, "error", err)
		return fmt.Errorf("failed to expand configuration paths: %w", err)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("configuration loading cancelled: %w", err)
		}

		items, err := f.files.Load(file)
		if err != nil {
			f.logger.Error("Failed to load configuration", "file", file, "error", err)
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		f.user.Add(items...)
	}

	f.logger.Debug("loaded configuration", "files", len(files))

	return nil
}
