package domain

import (
	"context"
	"slices"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// SessionState is the state shared by the builds of one session: overrides
// and the instances of named fixture items. It is not safe for concurrent use.
type SessionState struct {
	overrides  OverrideStore
	identities map[m.FixtureItemID]any
}

// NewSessionState creates session state around overrides.
func NewSessionState(overrides OverrideStore) *SessionState {
	return &SessionState{
		overrides:  overrides,
		identities: make(map[m.FixtureItemID]any),
	}
}

// Overrides returns the session's override store.
func (s *SessionState) Overrides() OverrideStore {
	return s.overrides
}

// Instance returns the instance built earlier for the named id.
func (s *SessionState) Instance(id m.FixtureItemID) (any, bool) {
	instance, ok := s.identities[id]
	return instance, ok
}

// Remember records the instance of a named id.
func (s *SessionState) Remember(id m.FixtureItemID, instance any) {
	s.identities[id] = instance
}

// Clear drops overrides and remembered instances.
func (s *SessionState) Clear() {
	s.overrides.Clear()
	clear(s.identities)
}

// BuildContext carries everything one resolution needs and is threaded
// through every recursive creator call. Child contexts share the container,
// session, path cache and parameters but track their own path and
// resolution stack.
type BuildContext struct {
	ctx        context.Context
	container  Container
	session    *SessionState
	paths      *PathCache
	parameters []m.Parameter
	path       string
	stack      []m.FixtureItemID
}

// NewBuildContext creates the context of a top-level build.
func NewBuildContext(ctx context.Context, container Container, session *SessionState, paths *PathCache, parameters ...m.Parameter) *BuildContext {
	return &BuildContext{
		ctx:        ctx,
		container:  container,
		session:    session,
		paths:      paths,
		parameters: parameters,
	}
}

// Context returns the context the build runs under.
func (bc *BuildContext) Context() context.Context { return bc.ctx }

// Path returns the path of the item being built, empty at the top level.
func (bc *BuildContext) Path() string { return bc.path }

// Session returns the session state.
func (bc *BuildContext) Session() *SessionState { return bc.session }

// Paths returns the path cache of the build.
func (bc *BuildContext) Paths() *PathCache { return bc.paths }

// Parameters returns the caller supplied parameters.
func (bc *BuildContext) Parameters() []m.Parameter { return bc.parameters }

// Child returns the context of member of the current item.
func (bc *BuildContext) Child(member string) *BuildContext {
	child := *bc
	child.path = joinPath(bc.path, member)

	return &child
}

// Resolve resolves id through the container.
func (bc *BuildContext) Resolve(id m.FixtureItemID) (any, error) {
	return bc.container.Resolve(bc, id)
}

// Parameter returns the value of the first caller parameter matching id.
func (bc *BuildContext) Parameter(id m.FixtureItemID) (any, bool) {
	for _, p := range bc.parameters {
		if p.Matches(id) {
			return p.Value, true
		}
	}

	return nil, false
}

// pathFor returns the path id is built at: the current path, or the id's own
// root path at the top of a build.
func (bc *BuildContext) pathFor(id m.FixtureItemID) string {
	if bc.path != "" {
		return bc.path
	}

	return id.Path()
}

func (bc *BuildContext) building(id m.FixtureItemID) bool {
	return slices.Contains(bc.stack, id)
}

func (bc *BuildContext) enter(id m.FixtureItemID, path string) *BuildContext {
	next := *bc
	next.path = path
	next.stack = append(slices.Clip(bc.stack), id)

	return &next
}

func joinPath(parent, member string) string {
	if parent == "" {
		return member
	}

	return parent + "." + member
}
