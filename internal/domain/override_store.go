package domain

import (
	"context"
	"fmt"
	"log/slog"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

// OverrideStore holds caller supplied instances that replace generation for
// their fixture item id.
type OverrideStore interface {
	// Add registers instance for id. Base type ids and ids registered before
	// are rejected with ErrInvalidOperation.
	Add(id m.FixtureItemID, instance any) error

	// Get returns the instance registered for id. A registration without root
	// item path answers requests scoped to any root.
	Get(id m.FixtureItemID) (any, bool)

	// Clear removes every registration.
	Clear()
}

type overrideStore struct {
	types     adapter.TypeDescriptionAdapter
	instances map[m.FixtureItemID]any
}

// NewOverrideStore constructs an OverrideStore classifying ids through types.
func NewOverrideStore(types adapter.TypeDescriptionAdapter) OverrideStore {
	return &overrideStore{
		types:     types,
		instances: make(map[m.FixtureItemID]any),
	}
}

func (s *overrideStore) Add(id m.FixtureItemID, instance any) error {
	if id.TypeFullName == "" {
		panic("domain: override registered without a type")
	}

	description, err := s.types.Describe(context.Background(), id.TypeFullName)
	if err != nil {
		return fmt.Errorf("failed to register override for %s: %w", id, err)
	}

	if description.IsBaseType() {
		return fmt.Errorf("%w: cannot override base type %s, configure its value instead", m.ErrInvalidOperation, id)
	}

	if _, exists := s.instances[id]; exists {
		return fmt.Errorf("%w: override for %s is already registered", m.ErrInvalidOperation, id)
	}

	s.instances[id] = instance
	slog.Debug("registered override", "id", id.String())

	return nil
}

func (s *overrideStore) Get(id m.FixtureItemID) (any, bool) {
	if instance, ok := s.instances[id]; ok {
		return instance, true
	}

	if id.RootItemPath == "" {
		return nil, false
	}

	instance, ok := s.instances[id.WithRootItemPath("")]

	return instance, ok
}

func (s *overrideStore) Clear() {
	clear(s.instances)
}
