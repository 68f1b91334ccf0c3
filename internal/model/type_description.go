package model

import (
	"reflect"

	"github.com/stretchr/testify/mock"
)

// TypeClass classifies a type by the way fixtures of it are created.
type TypeClass string

const (
	// ClassBase covers predeclared kinds and everything that is not built
	// member by member (slices, maps, channels, funcs, arrays).
	ClassBase TypeClass = "base"
	// ClassConcrete covers structs and pointers to structs.
	ClassConcrete TypeClass = "concrete"
	// ClassInterface covers interfaces, which are mocked.
	ClassInterface TypeClass = "interface"
)

// Mockable is the part of a testify mock the engine wires behaviour into. Any
// type embedding mock.Mock satisfies it.
type Mockable interface {
	On(methodName string, arguments ...interface{}) *mock.Call
}

// MockFactory creates a fresh mock. The returned value must implement the
// interface the factory is registered for.
type MockFactory func() Mockable

// TypeDescription is the reflection metadata of one type.
type TypeDescription struct {
	Type         reflect.Type
	FullName     TypeFullName
	Class        TypeClass
	IsNullable   bool
	EnumValues   []any
	Constructors []ConstructorDescription
	Fields       []FieldDescription
	Properties   []FieldDescription
	Methods      []MethodDescription
	// MockProperties are the zero-argument getters of an interface.
	MockProperties []PropertyDescription
	MockFactory    MockFactory
}

// IsBaseType reports whether the type is created by the base type creator.
func (d *TypeDescription) IsBaseType() bool {
	return d.Class == ClassBase
}

// IsInterface reports whether the type is mocked.
func (d *TypeDescription) IsInterface() bool {
	return d.Class == ClassInterface
}

// IsEnum reports whether enum values were registered for the type.
func (d *TypeDescription) IsEnum() bool {
	return len(d.EnumValues) > 0
}

// StructType returns the struct type behind a concrete type.
func (d *TypeDescription) StructType() reflect.Type {
	if d.Type.Kind() == reflect.Pointer {
		return d.Type.Elem()
	}

	return d.Type
}

// Constructor looks up a constructor by name.
func (d *TypeDescription) Constructor(name string) (ConstructorDescription, bool) {
	for _, c := range d.Constructors {
		if c.Name == name {
			return c, true
		}
	}

	return ConstructorDescription{}, false
}

// ConstructorDescription is a registered Go constructor function.
type ConstructorDescription struct {
	Name       string
	Func       reflect.Value
	Parameters []ParameterDescription
	// ReturnsError is set for func(...) (T, error).
	ReturnsError bool
	Variadic     bool
}

// ParameterDescription is one constructor parameter.
type ParameterDescription struct {
	Name     string
	Position int
	Type     reflect.Type
}

// FieldDescription is a struct field. Exported fields are the properties of a
// concrete type, unexported ones its fields.
type FieldDescription struct {
	Name     string
	Index    []int
	Type     reflect.Type
	Exported bool
}

// MethodDescription is an interface method.
type MethodDescription struct {
	Name     string
	In       []reflect.Type
	Out      []reflect.Type
	Variadic bool
}

// FuncType returns the function type matching the method signature.
func (m MethodDescription) FuncType() reflect.Type {
	return reflect.FuncOf(m.In, m.Out, m.Variadic)
}

// ResultType returns the type whose value a definition configures: the first
// non-error result, or nil for methods returning nothing or only an error.
func (m MethodDescription) ResultType() reflect.Type {
	for _, out := range m.Out {
		if out != ErrorType {
			return out
		}
	}

	return nil
}

// PropertyDescription is an interface getter, optionally paired with a SetX setter.
type PropertyDescription struct {
	Name   string
	Type   reflect.Type
	Setter string
}

// HasSetter reports whether the property can be written.
func (p PropertyDescription) HasSetter() bool {
	return p.Setter != ""
}

// ErrorType is the reflect type of the error interface.
var ErrorType = reflect.TypeFor[error]()
