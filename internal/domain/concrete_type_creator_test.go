package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

func TestConcreteTypeCreator_ConstructorParameters(t *testing.T) {
	e := newEngine(t)

	_, err := e.types.RegisterConstructor(newCart, "p2", "p1")
	require.NoError(t, err)

	user := m.NewConfigurationItem(known[*cart](e))
	user.ConstructorParameters["p2"] = m.MemberConfiguration{Value: m.RawValue{Value: "abc"}}
	user.ConstructorParameters["p1"] = m.MemberConfiguration{Value: m.UniqueValue{}}
	e.user.Add(user)

	seen := map[int]bool{}

	for range 3 {
		instance, err := e.resolve(idOf[*cart]())
		require.NoError(t, err)

		built := instance.(*cart)
		assert.Equal(t, "abc", built.Owner)
		assert.False(t, seen[built.Total], "unique parameter %d repeated", built.Total)
		seen[built.Total] = true
	}
}

func TestConcreteTypeCreator_MembersWithoutConstructor(t *testing.T) {
	e := newEngine(t)

	user := m.NewConfigurationItem(known[*cart](e))
	user.MemberConfigurations["Total"] = m.MemberConfiguration{Value: m.DelegateValue{Func: func() int { return 99 }}}
	user.MemberConfigurations["note"] = m.MemberConfiguration{Value: m.RawValue{Value: "fragile"}}
	e.user.Add(user)

	instance, err := e.resolve(idOf[*cart]())
	require.NoError(t, err)

	built := instance.(*cart)
	assert.NotEmpty(t, built.Owner)
	assert.Equal(t, 99, built.Total)
	assert.Equal(t, "fragile", built.note, "unexported fields are assigned directly")
	require.NotNil(t, built.Store)
	assert.NotEmpty(t, built.Store.Name)

	for _, path := range []string{"cart", "cart.Owner", "cart.Store", "cart.Store.Name", "cart.note"} {
		_, ok := e.paths.Get(path)
		assert.True(t, ok, "path %s registered", path)
	}

	registered, _ := e.paths.Get("cart.Store")
	assert.Same(t, built.Store, registered)
}

func TestConcreteTypeCreator_ValueStruct(t *testing.T) {
	e := newEngine(t)

	instance, err := e.resolve(known[store](e))
	require.NoError(t, err)

	built, ok := instance.(store)
	require.True(t, ok)
	assert.NotEmpty(t, built.Name)
}

func TestConcreteTypeCreator_NullAndUndefined(t *testing.T) {
	e := newEngine(t)

	user := m.NewConfigurationItem(known[*cart](e))
	user.MemberConfigurations["Store"] = m.MemberConfiguration{Value: m.Null}
	user.MemberConfigurations["Owner"] = m.MemberConfiguration{Value: m.Undefined}
	e.user.Add(user)

	instance, err := e.resolve(idOf[*cart]())
	require.NoError(t, err)

	built := instance.(*cart)
	assert.Nil(t, built.Store)
	assert.Empty(t, built.Owner)
}

func TestConcreteTypeCreator_Failures(t *testing.T) {
	tests := []struct {
		name      string
		configure func(t *testing.T, e *engine)
		reason    string
	}{
		{
			name: "constructor error",
			configure: func(t *testing.T, e *engine) {
				_, err := e.types.RegisterConstructor(newFailingCart)
				require.NoError(t, err)
			},
			reason: "out of stock",
		},
		{
			name: "constructor panic",
			configure: func(t *testing.T, e *engine) {
				_, err := e.types.RegisterConstructor(newPanickingCart)
				require.NoError(t, err)
			},
			reason: "boom",
		},
		{
			name: "raw value of the wrong type",
			configure: func(t *testing.T, e *engine) {
				user := m.NewConfigurationItem(known[*cart](e))
				user.MemberConfigurations["Total"] = m.MemberConfiguration{Value: m.RawValue{Value: "many"}}
				e.user.Add(user)
			},
			reason: "cannot use string as int",
		},
		{
			name: "delegate of the wrong shape",
			configure: func(t *testing.T, e *engine) {
				user := m.NewConfigurationItem(known[*cart](e))
				user.MemberConfigurations["Total"] = m.MemberConfiguration{Value: m.DelegateValue{Func: func(int) int { return 0 }}}
				e.user.Add(user)
			},
			reason: "must have the shape",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			tt.configure(t, e)

			_, err := e.resolve(known[*cart](e))

			var resolveErr *m.ResolveTypeError
			require.ErrorAs(t, err, &resolveErr)
			assert.Contains(t, err.Error(), tt.reason)
			assert.Contains(t, err.Error(), `"cart`)
		})
	}
}

func TestConcreteTypeCreator_NumericValues(t *testing.T) {
	tests := []struct {
		name   string
		member string
		value  any
		want   gauge
		reason string
	}{
		{name: "int fits int8", member: "Level", value: int64(-100), want: gauge{Level: -100, Ratio: 1, Count: 1, Weight: 1}},
		{name: "whole float into int", member: "Ratio", value: 4.0, want: gauge{Level: 1, Ratio: 4, Count: 1, Weight: 1}},
		{name: "int into float", member: "Weight", value: 3, want: gauge{Level: 1, Ratio: 1, Count: 1, Weight: 3}},
		{name: "float64 into float32", member: "Weight", value: 0.5, want: gauge{Level: 1, Ratio: 1, Count: 1, Weight: 0.5}},
		{name: "int overflows int8", member: "Level", value: 300, reason: "300 cannot be represented as int8"},
		{name: "fraction into int", member: "Ratio", value: 3.9, reason: "3.9 cannot be represented as int"},
		{name: "negative into uint", member: "Count", value: -1, reason: "-1 cannot be represented as uint16"},
		{name: "uint overflows uint16", member: "Count", value: uint64(70000), reason: "70000 cannot be represented as uint16"},
		{name: "float overflows float32", member: "Weight", value: 1e40, reason: "cannot be represented as float32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)

			user := m.NewConfigurationItem(known[gauge](e))
			for _, member := range []string{"Level", "Ratio", "Count", "Weight"} {
				user.MemberConfigurations[member] = m.MemberConfiguration{Value: m.RawValue{Value: 1}}
			}

			user.MemberConfigurations[tt.member] = m.MemberConfiguration{Value: m.RawValue{Value: tt.value}}
			e.user.Add(user)

			instance, err := e.resolve(idOf[gauge]())
			if tt.reason != "" {
				var resolveErr *m.ResolveTypeError
				require.ErrorAs(t, err, &resolveErr)
				assert.Contains(t, err.Error(), tt.reason)
				assert.Contains(t, err.Error(), "gauge."+tt.member)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, instance.(gauge))
		})
	}
}
