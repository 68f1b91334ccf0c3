package domain

import (
	"errors"
	"log/slog"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

type activator struct {
	query    DefinitionQuery
	creators CreatorProvider
}

// NewActivator constructs the Activator that builds fixture items from their
// definition nodes.
func NewActivator(query DefinitionQuery, creators CreatorProvider) Activator {
	return &activator{query: query, creators: creators}
}

func (a *activator) Activate(bc *BuildContext, id m.FixtureItemID) (any, error) {
	path := bc.pathFor(id)

	if err := bc.Context().Err(); err != nil {
		return nil, m.NewResolveTypeError(id, path, "build cancelled", err)
	}

	if instance, ok := bc.Session().Overrides().Get(id); ok {
		bc.Paths().Register(path, instance)
		return instance, nil
	}

	if id.HasName() {
		if instance, ok := bc.Session().Instance(id); ok {
			bc.Paths().Register(path, instance)
			return instance, nil
		}
	}

	if bc.building(id) {
		return nil, m.NewResolveTypeError(id, path, "circular dependency", nil)
	}

	node, err := a.query.GetDefinitionNode(bc.Context(), id)
	if err != nil {
		err = withPath(err, path)
		slog.Error("Failed to query definition node", "id", id.String(), "path", path, "error", err)

		return nil, err
	}

	instance, err := a.creators.GetCreator(node).CreateInstance(bc.enter(id, path), node)
	if err != nil {
		return nil, err
	}

	bc.Paths().Register(path, instance)

	if id.HasName() {
		bc.Session().Remember(id, instance)
	}

	return instance, nil
}

type registrationSource struct {
	activator Activator
}

// NewRegistrationSource returns the source that serves every id the host
// container does not resolve explicitly.
func NewRegistrationSource(activator Activator) RegistrationSource {
	return &registrationSource{activator: activator}
}

func (s *registrationSource) RegistrationsFor(id m.FixtureItemID, isRegistered func(m.FixtureItemID) bool) (Activator, bool) {
	if isRegistered != nil && isRegistered(id) {
		return nil, false
	}

	return s.activator, true
}

// withPath fills in the build path of typed engine errors that lack one.
func withPath(err error, path string) error {
	var resolveErr *m.ResolveTypeError
	if errors.As(err, &resolveErr) && resolveErr.Path == "" {
		resolveErr.Path = path
	}

	var configErr *m.InvalidConfigurationError
	if errors.As(err, &configErr) && configErr.Path == "" {
		configErr.Path = path
	}

	var typeErr *m.InvalidTypeDescriptionError
	if errors.As(err, &typeErr) && typeErr.Path == "" {
		typeErr.Path = path
	}

	return err
}
