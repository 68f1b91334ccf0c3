package domain

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

func TestMockCreator_PropertyAndDelegate(t *testing.T) {
	e := newEngine(t)

	user := m.NewConfigurationItem(known[calculator](e))
	user.MemberConfigurations["Name"] = m.MemberConfiguration{Value: m.RawValue{Value: "X"}}
	user.MemberConfigurations["Compute"] = m.MemberConfiguration{Value: m.DelegateValue{Func: func(a int) int { return a * 2 }}}
	e.user.Add(user)

	instance, err := e.resolve(idOf[calculator]())
	require.NoError(t, err)

	calc, ok := instance.(calculator)
	require.True(t, ok)

	assert.Equal(t, "X", calc.Name())
	assert.Equal(t, 42, calc.Compute(21))

	mocked := instance.(*calculatorMock)
	mocked.AssertNumberOfCalls(t, "Compute", 1)
	mocked.AssertCalled(t, "Compute", 21)
}

func TestMockCreator_Defaults(t *testing.T) {
	e := newEngine(t)

	instance, err := e.resolve(known[calculator](e))
	require.NoError(t, err)

	calc := instance.(calculator)

	assert.NotEmpty(t, calc.Name())
	assert.Equal(t, calc.Compute(1), calc.Compute(2), "the result is resolved once at creation")

	quotient, err := calc.Divide(4, 2)
	require.NoError(t, err)
	assert.NotZero(t, quotient)

	assert.NotPanics(t, calc.Reset)
}

func TestMockCreator_UndefinedPanics(t *testing.T) {
	e := newEngine(t)

	user := m.NewConfigurationItem(known[calculator](e))
	user.MemberConfigurations["Compute"] = m.MemberConfiguration{Value: m.Undefined}
	e.user.Add(user)

	instance, err := e.resolve(idOf[calculator]())
	require.NoError(t, err)

	assert.Panics(t, func() { instance.(calculator).Compute(1) })
}

func TestMockCreator_NullAndRawResults(t *testing.T) {
	e := newEngine(t)
	failure := errors.New("division by zero")

	user := m.NewConfigurationItem(known[calculator](e))
	user.MemberConfigurations["Compute"] = m.MemberConfiguration{Value: m.Null}
	user.MemberConfigurations["Divide"] = m.MemberConfiguration{Value: m.DelegateValue{Func: func(a, b int) (int, error) {
		if b == 0 {
			return 0, failure
		}

		return a / b, nil
	}}}
	e.user.Add(user)

	instance, err := e.resolve(idOf[calculator]())
	require.NoError(t, err)

	calc := instance.(calculator)
	assert.Zero(t, calc.Compute(5))

	_, err = calc.Divide(1, 0)
	require.ErrorIs(t, err, failure)

	quotient, err := calc.Divide(9, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, quotient)
}

func TestMockCreator_Callbacks(t *testing.T) {
	e := newEngine(t)

	var calls []string

	user := m.NewConfigurationItem(known[calculator](e))
	user.MemberConfigurations["Compute"] = m.MemberConfiguration{Value: m.RawValue{Value: 1}}
	user.Callbacks["Compute"] = []m.Callback{
		func(args ...any) { calls = append(calls, "first") },
		func(args ...any) {
			calls = append(calls, "second")
			assert.Equal(t, []any{7}, args)
		},
	}
	e.user.Add(user)

	instance, err := e.resolve(idOf[calculator]())
	require.NoError(t, err)

	assert.Equal(t, 1, instance.(calculator).Compute(7))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestMockCreator_PropertyWithSetter(t *testing.T) {
	e := newEngine(t)

	user := m.NewConfigurationItem(known[account](e))
	user.MemberConfigurations["Owner"] = m.MemberConfiguration{Value: m.RawValue{Value: "alice"}}
	e.user.Add(user)

	instance, err := e.resolve(idOf[account]())
	require.NoError(t, err)

	acct := instance.(account)
	assert.Equal(t, "alice", acct.Owner())

	acct.SetOwner("bob")
	assert.Equal(t, "bob", acct.Owner())
}

func TestMockCreator_Failures(t *testing.T) {
	t.Run("delegate signature mismatch", func(t *testing.T) {
		e := newEngine(t)

		user := m.NewConfigurationItem(known[calculator](e))
		user.MemberConfigurations["Compute"] = m.MemberConfiguration{Value: m.DelegateValue{Func: func(a string) int { return 0 }}}
		e.user.Add(user)

		_, err := e.resolve(idOf[calculator]())

		var resolveErr *m.ResolveTypeError
		require.ErrorAs(t, err, &resolveErr)
		assert.Equal(t, "calculator.Compute", resolveErr.Path)
	})

	t.Run("no mock registered", func(t *testing.T) {
		e := newEngine(t)

		_, err := e.resolve(known[interface{ Ping() }](e))

		var resolveErr *m.ResolveTypeError
		require.ErrorAs(t, err, &resolveErr)
	})
}

func TestMockCreator_AsMember(t *testing.T) {
	e := newEngine(t)

	instance, err := e.resolve(known[*checkout](e))
	require.NoError(t, err)

	built := instance.(*checkout)
	require.NotNil(t, built.Calculator)
	require.NotNil(t, built.Cart)

	registered, ok := e.paths.Get("checkout.Calculator")
	require.True(t, ok)
	assert.Same(t, built.Calculator, registered)
}

func TestMockCreator_VariadicMethod(t *testing.T) {
	factories := []struct {
		name    string
		factory func() m.Mockable
	}{
		{name: "unrolled arguments", factory: func() m.Mockable { return &unrolledLoggerMock{} }},
		{name: "slice argument", factory: func() m.Mockable { return &loggerMock{} }},
	}

	for _, f := range factories {
		t.Run(f.name, func(t *testing.T) {
			newLogger := func(t *testing.T, value m.ValueDefinition, callbacks ...m.Callback) logger {
				t.Helper()

				e := newEngine(t)
				require.NoError(t, e.types.RegisterMock(reflect.TypeFor[logger](), f.factory))

				user := m.NewConfigurationItem(known[logger](e))
				user.MemberConfigurations["Log"] = m.MemberConfiguration{Value: value}
				if len(callbacks) > 0 {
					user.Callbacks["Log"] = callbacks
				}
				e.user.Add(user)

				instance, err := e.resolve(idOf[logger]())
				require.NoError(t, err)

				return instance.(logger)
			}

			t.Run("raw", func(t *testing.T) {
				log := newLogger(t, m.RawValue{Value: 7})

				assert.Equal(t, 7, log.Log("x"))
				assert.Equal(t, 7, log.Log("x", 1))
				assert.Equal(t, 7, log.Log("x", 1, 2))
				assert.Equal(t, 7, log.Log("x", 1, 2, 3, 4, 5))
			})

			t.Run("delegate", func(t *testing.T) {
				log := newLogger(t, m.DelegateValue{Func: func(format string, args ...any) int { return len(args) }})

				assert.Equal(t, 0, log.Log("x"))
				assert.Equal(t, 1, log.Log("x", "a"))
				assert.Equal(t, 3, log.Log("x", "a", "b", "c"))
			})

			t.Run("callback", func(t *testing.T) {
				calls := 0
				log := newLogger(t, m.RawValue{Value: 1}, func(args ...any) { calls++ })

				log.Log("x")
				log.Log("x", 1, 2)

				assert.Equal(t, 2, calls)
			})
		})
	}
}
