package domain

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

type store struct {
	Name string
}

type cart struct {
	Owner string
	Total int
	Store *store
	note  string
}

func newCart(owner string, total int) *cart {
	return &cart{Owner: owner, Total: total}
}

func newEmptyCart() *cart {
	return &cart{}
}

func newFailingCart(owner string) (*cart, error) {
	return nil, errors.New("out of stock")
}

func newPanickingCart() *cart {
	panic("boom")
}

type gauge struct {
	Level  int8
	Ratio  int
	Count  uint16
	Weight float32
}

type node struct {
	Value int
	Next  *node
}

type calculator interface {
	Name() string
	Compute(a int) int
	Divide(a, b int) (int, error)
	Reset()
}

type calculatorMock struct {
	mock.Mock
}

func (_m *calculatorMock) Name() string {
	ret := _m.Called()

	if rf, ok := ret.Get(0).(func() string); ok {
		return rf()
	}

	return ret.Get(0).(string)
}

func (_m *calculatorMock) Compute(a int) int {
	ret := _m.Called(a)

	if rf, ok := ret.Get(0).(func(int) int); ok {
		return rf(a)
	}

	return ret.Get(0).(int)
}

func (_m *calculatorMock) Divide(a, b int) (int, error) {
	ret := _m.Called(a, b)

	if rf, ok := ret.Get(0).(func(int, int) (int, error)); ok {
		return rf(a, b)
	}

	return ret.Get(0).(int), ret.Error(1)
}

func (_m *calculatorMock) Reset() {
	_m.Called()
}

type account interface {
	Owner() string
	SetOwner(owner string)
}

type accountMock struct {
	mock.Mock
}

func (_m *accountMock) Owner() string {
	ret := _m.Called()

	if rf, ok := ret.Get(0).(func() string); ok {
		return rf()
	}

	return ret.Get(0).(string)
}

func (_m *accountMock) SetOwner(owner string) {
	_m.Called(owner)
}

type logger interface {
	Log(format string, args ...any) int
}

// unrolledLoggerMock passes variadic arguments to Called one by one.
type unrolledLoggerMock struct {
	mock.Mock
}

func (_m *unrolledLoggerMock) Log(format string, args ...any) int {
	var _ca []any
	_ca = append(_ca, format)
	_ca = append(_ca, args...)
	ret := _m.Called(_ca...)

	if rf, ok := ret.Get(0).(func(string, ...any) int); ok {
		return rf(format, args...)
	}

	return ret.Get(0).(int)
}

// loggerMock passes the variadic slice to Called as one argument.
type loggerMock struct {
	mock.Mock
}

func (_m *loggerMock) Log(format string, args ...any) int {
	ret := _m.Called(format, args)

	if rf, ok := ret.Get(0).(func(string, ...any) int); ok {
		return rf(format, args...)
	}

	return ret.Get(0).(int)
}

type checkout struct {
	Cart       *cart
	Calculator calculator
}

// engine wires the domain components the way the public package does.
type engine struct {
	types     *adapter.LocalTypeDescriptionAdapter
	user      UserConfigurationStore
	container Container
	session   *SessionState
	paths     *PathCache
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	types, err := adapter.NewLocalTypeDescriptionAdapter(16)
	require.NoError(t, err)

	require.NoError(t, types.RegisterMock(reflect.TypeFor[calculator](), func() m.Mockable { return &calculatorMock{} }))
	require.NoError(t, types.RegisterMock(reflect.TypeFor[account](), func() m.Mockable { return &accountMock{} }))

	user := NewUserConfigurationStore()
	container := NewContainer()
	container.AddSource(NewRegistrationSource(NewActivator(
		NewDefinitionQuery(types, user),
		NewCreatorProvider(types, NewUniqueGenerator("")),
	)))

	return &engine{
		types:     types,
		user:      user,
		container: container,
		session:   NewSessionState(NewOverrideStore(types)),
		paths:     NewPathCache(),
	}
}

func (e *engine) resolve(id m.FixtureItemID, parameters ...m.Parameter) (any, error) {
	e.paths = NewPathCache()
	bc := NewBuildContext(context.Background(), e.container, e.session, e.paths, parameters...)

	return bc.Resolve(id)
}

func idOf[T any]() m.FixtureItemID {
	return m.FixtureItemIDOf(reflect.TypeFor[T]())
}

func typeNameOf[T any]() m.TypeFullName {
	return m.TypeFullNameOf(reflect.TypeFor[T]())
}

// known makes T known to the engine and returns its unnamed id.
func known[T any](e *engine) m.FixtureItemID {
	return m.NewFixtureItemID(e.types.RegisterType(reflect.TypeFor[T]()))
}
