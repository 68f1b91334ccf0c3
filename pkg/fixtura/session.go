package fixtura

import (
	"context"
	"fmt"
	"reflect"

	"fixtura.dev/pkg/fixtura/internal/domain"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

// Session resolves fixture items. Overrides and named items live as long as
// the session; the instance paths of the last build are kept for InstanceAt.
//
// A Session is not safe for concurrent use. Parallel tests open one session each.
type Session struct {
	fixture *Fixture
	state   *domain.SessionState
	paths   *domain.PathCache
}

// NewSession opens a session on the fixture.
func (f *Fixture) NewSession() *Session {
	return &Session{
		fixture: f,
		state:   domain.NewSessionState(domain.NewOverrideStore(f.types)),
		paths:   domain.NewPathCache(),
	}
}

// Override makes every request for id return instance. Base types cannot be
// overridden and each id can be overridden once.
func (s *Session) Override(id ItemID, instance any) error {
	s.fixture.learn(id)

	if err := s.state.Overrides().Add(id, instance); err != nil {
		s.fixture.logger.Error("Failed to override fixture item", "id", id.String(), "error", err)
		return err
	}

	return nil
}

// OverrideInstance overrides the item of type T, named when a name is given.
func OverrideInstance[T any](s *Session, instance T, name ...string) error {
	return s.Override(itemID[T](s.fixture, name...), instance)
}

// ResolveID builds the item id. Parameters answer matching requests during
// this build only.
func (s *Session) ResolveID(ctx context.Context, id ItemID, parameters ...Parameter) (any, error) {
	s.fixture.learn(id)
	s.paths = domain.NewPathCache()

	bc := domain.NewBuildContext(ctx, s.fixture.container, s.state, s.paths, parameters...)

	instance, err := bc.Resolve(id)
	if err != nil {
		s.fixture.logger.Error("Failed to resolve fixture item", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to resolve %s: %w", id, err)
	}

	return instance, nil
}

// InstanceAt returns the instance the last build produced at path, as in
// "Cart" or "Cart.Store".
func (s *Session) InstanceAt(path string) (any, bool) {
	return s.paths.Get(path)
}

// Paths lists the instance paths of the last build.
func (s *Session) Paths() []string {
	return s.paths.Paths()
}

// Close drops overrides, named instances and instance paths.
func (s *Session) Close() {
	s.state.Clear()
	s.paths.Clear()
}

// BuildOption tunes a single Resolve or Build call.
type BuildOption func(*buildOptions)

type buildOptions struct {
	ctx        context.Context
	name       string
	rootPath   string
	parameters []Parameter
}

// Named resolves the named item.
func Named(name string) BuildOption {
	return func(o *buildOptions) {
		o.name = name
	}
}

// WithRootPath resolves the item scoped to the root item path, so
// configuration registered for that root applies.
func WithRootPath(path string) BuildOption {
	return func(o *buildOptions) {
		o.rootPath = path
	}
}

// WithParameter supplies value for every request of its dynamic type during
// the build, including constructor parameters of that type.
func WithParameter(value any) BuildOption {
	return func(o *buildOptions) {
		o.parameters = append(o.parameters, Parameter{TypeFullName: m.TypeFullNameOf(reflect.TypeOf(value)), Value: value})
	}
}

// WithTypedParameter is WithParameter for the static type T, which may be an interface.
func WithTypedParameter[T any](value T) BuildOption {
	return func(o *buildOptions) {
		o.parameters = append(o.parameters, Parameter{TypeFullName: m.TypeFullNameOf(reflect.TypeFor[T]()), Value: value})
	}
}

// WithNamedParameter supplies value for requests of its type carrying name:
// named items and constructor parameters called name.
func WithNamedParameter(name string, value any) BuildOption {
	return func(o *buildOptions) {
		o.parameters = append(o.parameters, Parameter{Name: name, TypeFullName: m.TypeFullNameOf(reflect.TypeOf(value)), Value: value})
	}
}

// WithContext sets the context the build runs under.
func WithContext(ctx context.Context) BuildOption {
	return func(o *buildOptions) {
		o.ctx = ctx
	}
}

// Resolve builds the item of type T in the session. Items configured as
// Null or Undefined resolve to the zero value of T.
func Resolve[T any](s *Session, opts ...BuildOption) (T, error) {
	var zero T

	o := buildOptions{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}

	id := itemID[T](s.fixture, o.name).WithRootItemPath(o.rootPath)

	instance, err := s.ResolveID(o.ctx, id, o.parameters...)
	if err != nil {
		return zero, err
	}

	if instance == nil || m.IsNull(instance) || m.IsUndefined(instance) {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, m.NewResolveTypeError(id, id.Path(), fmt.Sprintf("resolved %T", instance), nil)
	}

	return typed, nil
}

// Build resolves T in a session of its own.
func Build[T any](f *Fixture, opts ...BuildOption) (T, error) {
	s := f.NewSession()
	defer s.Close()

	return Resolve[T](s, opts...)
}

// MustBuild is Build for test setup: it panics on error.
func MustBuild[T any](f *Fixture, opts ...BuildOption) T {
	instance, err := Build[T](f, opts...)
	if err != nil {
		panic(fmt.Sprintf("fixtura: %v", err))
	}

	return instance
}
