package domain

import (
	"cmp"
	"slices"
	"sync"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// UserConfigurationStore keeps the configuration users supplied per fixture item.
type UserConfigurationStore interface {
	// Add stores item, combining it with an earlier item for the same id.
	Add(items ...m.ConfigurationItem)

	// Get returns the configuration stored for exactly id.
	Get(id m.FixtureItemID) (m.ConfigurationItem, bool)

	// Lookup returns the configuration that applies to id: the exact id first,
	// then the same id without root item path.
	Lookup(id m.FixtureItemID) (m.ConfigurationItem, bool)

	// Items returns all stored items ordered by id.
	Items() []m.ConfigurationItem
}

type userConfigurationStore struct {
	mu    sync.RWMutex
	items map[m.FixtureItemID]m.ConfigurationItem
}

// NewUserConfigurationStore constructs an empty UserConfigurationStore. It is
// safe for concurrent use.
func NewUserConfigurationStore() UserConfigurationStore {
	return &userConfigurationStore{items: make(map[m.FixtureItemID]m.ConfigurationItem)}
}

func (s *userConfigurationStore) Add(items ...m.ConfigurationItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		existing, ok := s.items[item.ID]
		if !ok {
			s.items[item.ID] = item.Clone()
			continue
		}

		s.items[item.ID] = combine(existing, item)
	}
}

func (s *userConfigurationStore) Get(id m.FixtureItemID) (m.ConfigurationItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return m.ConfigurationItem{}, false
	}

	return item.Clone(), true
}

func (s *userConfigurationStore) Lookup(id m.FixtureItemID) (m.ConfigurationItem, bool) {
	if item, ok := s.Get(id); ok {
		return item, true
	}

	if id.RootItemPath == "" {
		return m.ConfigurationItem{}, false
	}

	return s.Get(id.WithRootItemPath(""))
}

func (s *userConfigurationStore) Items() []m.ConfigurationItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]m.ConfigurationItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item.Clone())
	}

	slices.SortFunc(items, func(a, b m.ConfigurationItem) int {
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return items
}

// combine layers later on top of earlier: members and parameters replace,
// callbacks append.
func combine(earlier, later m.ConfigurationItem) m.ConfigurationItem {
	result := earlier.Clone()

	for name, member := range later.MemberConfigurations {
		result.MemberConfigurations[name] = member
	}

	for name, param := range later.ConstructorParameters {
		result.ConstructorParameters[name] = param
	}

	for name, callbacks := range later.Callbacks {
		result.Callbacks[name] = append(result.Callbacks[name], callbacks...)
	}

	if later.FixtureConfiguration.Constructor != "" {
		result.FixtureConfiguration.Constructor = later.FixtureConfiguration.Constructor
	}

	if later.Value != nil {
		result.Value = later.Value
	}

	return result
}
