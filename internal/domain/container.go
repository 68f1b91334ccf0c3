package domain

import (
	"log/slog"
	"sync"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// Factory builds the instance of an explicitly registered id.
type Factory func(bc *BuildContext, id m.FixtureItemID) (any, error)

// Activator builds the instance of an id the container has no explicit
// registration for.
type Activator interface {
	Activate(bc *BuildContext, id m.FixtureItemID) (any, error)
}

// RegistrationSource supplies activators on demand for ids without explicit
// registration.
type RegistrationSource interface {
	// RegistrationsFor returns the activator for id, or false when the source
	// does not serve it. isRegistered reports explicit registrations.
	RegistrationsFor(id m.FixtureItemID, isRegistered func(m.FixtureItemID) bool) (Activator, bool)
}

// Container resolves fixture items. Caller parameters win, then explicit
// registrations, then registration sources in the order they were added.
type Container interface {
	Register(id m.FixtureItemID, factory Factory)
	AddSource(source RegistrationSource)
	IsRegistered(id m.FixtureItemID) bool
	Resolve(bc *BuildContext, id m.FixtureItemID) (any, error)
}

type container struct {
	mu            sync.RWMutex
	registrations map[m.FixtureItemID]Factory
	sources       []RegistrationSource
}

// NewContainer constructs an empty Container. Registration is safe for
// concurrent use.
func NewContainer() Container {
	return &container{registrations: make(map[m.FixtureItemID]Factory)}
}

func (c *container) Register(id m.FixtureItemID, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registrations[id] = factory
}

func (c *container) AddSource(source RegistrationSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sources = append(c.sources, source)
}

func (c *container) IsRegistered(id m.FixtureItemID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.registrations[id]

	return ok
}

func (c *container) Resolve(bc *BuildContext, id m.FixtureItemID) (any, error) {
	if value, ok := bc.Parameter(id); ok {
		bc.Paths().Register(bc.pathFor(id), value)
		return value, nil
	}

	c.mu.RLock()
	factory, registered := c.registrations[id]
	sources := c.sources
	c.mu.RUnlock()

	if registered {
		instance, err := factory(bc, id)
		if err != nil {
			return nil, m.NewResolveTypeError(id, bc.pathFor(id), "registered factory failed", err)
		}

		bc.Paths().Register(bc.pathFor(id), instance)

		return instance, nil
	}

	for _, source := range sources {
		if activator, ok := source.RegistrationsFor(id, c.IsRegistered); ok {
			return activator.Activate(bc, id)
		}
	}

	slog.Debug("no registration serves item", "id", id.String(), "path", bc.pathFor(id))

	return nil, m.NewResolveTypeError(id, bc.pathFor(id), "no registration serves this item", nil)
}
