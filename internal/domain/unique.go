// Package domain implements fixture generation: configuration merging,
// definition node queries, creators and the resolution container.
package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/google/uuid"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// UniqueGenerator produces values that are never repeated for the same type
// within the process.
type UniqueGenerator interface {
	// Next returns a fresh value of the described type.
	Next(description *m.TypeDescription) (any, error)
}

// ErrUniqueExhausted is returned when a type has no unused values left.
var ErrUniqueExhausted = errors.New("unique values exhausted")

// counters are shared by every generator so uniqueness holds process wide.
var counters = &counterSet{values: make(map[reflect.Type]uint64)}

type counterSet struct {
	mu     sync.Mutex
	values map[reflect.Type]uint64
}

func (c *counterSet) next(t reflect.Type) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[t]++

	return c.values[t]
}

type uniqueGenerator struct {
	stringPrefix string
}

// NewUniqueGenerator returns a generator prefixing strings with stringPrefix.
func NewUniqueGenerator(stringPrefix string) UniqueGenerator {
	return &uniqueGenerator{stringPrefix: stringPrefix}
}

// CanGenerateUnique reports whether unique values exist for the description.
func CanGenerateUnique(description *m.TypeDescription) bool {
	if description.IsEnum() {
		return true
	}

	switch description.Type.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

func (g *uniqueGenerator) Next(description *m.TypeDescription) (any, error) {
	t := description.Type

	if description.IsEnum() {
		n := counters.next(t)
		return description.EnumValues[(n-1)%uint64(len(description.EnumValues))], nil
	}

	value := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.Bool:
		// only two values exist, so they alternate
		value.SetBool(counters.next(t)%2 == 1)
	case reflect.String:
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate unique string: %w", err)
		}

		value.SetString(g.stringPrefix + id.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := counters.next(t)
		if n > math.MaxInt64 || value.OverflowInt(int64(n)) {
			return nil, fmt.Errorf("%w for %s", ErrUniqueExhausted, description.FullName)
		}

		value.SetInt(int64(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := counters.next(t)
		if value.OverflowUint(n) {
			return nil, fmt.Errorf("%w for %s", ErrUniqueExhausted, description.FullName)
		}

		value.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := exactFloat(t, counters.next(t), description.FullName)
		if err != nil {
			return nil, err
		}

		value.SetFloat(f)
	case reflect.Complex64, reflect.Complex128:
		f, err := exactFloat(t, counters.next(t), description.FullName)
		if err != nil {
			return nil, err
		}

		value.SetComplex(complex(f, 0))
	default:
		return nil, fmt.Errorf("unique values cannot be generated for %s", description.FullName)
	}

	return value.Interface(), nil
}

// exactFloat converts n and fails once the type can no longer represent it exactly.
func exactFloat(t reflect.Type, n uint64, name m.TypeFullName) (float64, error) {
	f := float64(n)

	switch t.Kind() {
	case reflect.Float32, reflect.Complex64:
		if uint64(float32(f)) != n {
			return 0, fmt.Errorf("%w for %s", ErrUniqueExhausted, name)
		}
	default:
		if uint64(f) != n {
			return 0, fmt.Errorf("%w for %s", ErrUniqueExhausted, name)
		}
	}

	return f, nil
}
