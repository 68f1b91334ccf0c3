// Package fixtura builds test fixtures: object graphs whose members are filled
// with unique values, linked fixture items and testify mocks, shaped by
// configuration supplied in code or in YAML files.
//
// A Fixture holds registrations and configuration and is safe for concurrent
// use. Instances are resolved through a Session, which is not.
package fixtura

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	"fixtura.dev/pkg/fixtura/internal/domain"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

type (
	// ItemID identifies a fixture item by type, optional name and optional root item path.
	ItemID = m.FixtureItemID
	// TypeName is the fully-qualified name of a Go type.
	TypeName = m.TypeFullName
	// ValueDefinition describes how the value of one member is produced.
	ValueDefinition = m.ValueDefinition
	// Callback runs with the call arguments every time a mocked method is called.
	Callback = m.Callback
	// Mockable is implemented by every type embedding testify's mock.Mock.
	Mockable = m.Mockable
	// Parameter is a value supplied to a single build.
	Parameter = m.Parameter

	// ResolveTypeError reports a fixture item that could not be built.
	ResolveTypeError = m.ResolveTypeError
	// InvalidConfigurationError reports configuration that does not fit its type.
	InvalidConfigurationError = m.InvalidConfigurationError
	// InvalidTypeDescriptionError reports a type that cannot be described or
	// disagrees with its configuration.
	InvalidTypeDescriptionError = m.InvalidTypeDescriptionError
)

// ErrInvalidOperation is returned for rejected overrides.
var ErrInvalidOperation = m.ErrInvalidOperation

// Fixture is the entry point: register types, configure items, then resolve
// instances through sessions.
type Fixture struct {
	settings  Settings
	logger    *slog.Logger
	types     *adapter.LocalTypeDescriptionAdapter
	fs        adapter.ConfigFSAdapter
	files     adapter.ConfigFileAdapter
	user      domain.UserConfigurationStore
	container domain.Container
}

// Option configures a Fixture.
type Option func(*Fixture)

// WithSettings replaces the default settings.
func WithSettings(settings Settings) Option {
	return func(f *Fixture) {
		f.settings = settings
	}
}

// WithLogger sets the logger used by the fixture. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fixture) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fixture and loads the configuration files named in its settings.
func New(opts ...Option) (*Fixture, error) {
	f := &Fixture{
		settings: DefaultSettings(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	types, err := adapter.NewLocalTypeDescriptionAdapter(f.settings.TypeDescriptionCacheSize)
	if err != nil {
		return nil, err
	}

	f.types = types
	f.fs = adapter.NewLocalConfigFSAdapter()
	f.files = adapter.NewLocalConfigFileAdapter(f.fs)
	f.user = domain.NewUserConfigurationStore()
	f.container = domain.NewContainer()
	f.container.AddSource(domain.NewRegistrationSource(domain.NewActivator(
		domain.NewDefinitionQuery(f.types, f.user),
		domain.NewCreatorProvider(f.types, domain.NewUniqueGenerator(f.settings.UniqueStringPrefix)),
	)))

	if len(f.settings.ConfigurationFiles) > 0 {
		if err := f.LoadConfiguration(context.Background(), f.settings.ConfigurationFiles...); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// MustNew is New for test setup: it panics on error.
func MustNew(opts ...Option) *Fixture {
	f, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("fixtura: %v", err))
	}

	return f
}

// Settings returns the settings the fixture was created with.
func (f *Fixture) Settings() Settings {
	return f.settings
}

// learn registers the type of id when it was handed out by ID, Item or LinkTo.
func (f *Fixture) learn(id ItemID) {
	if t, ok := typeNames.Load(id.TypeFullName); ok {
		f.types.RegisterType(t.(reflect.Type))
	}
}

func (f *Fixture) learnValue(value ValueDefinition) {
	if link, ok := value.(m.LinkValue); ok {
		f.learn(link.Target)
	}
}
