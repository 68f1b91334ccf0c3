package model

import (
	"fmt"
	"reflect"
)

// ValueDefinitionKind names a ValueDefinition variant.
type ValueDefinitionKind string

const (
	// KindRaw is a literal value.
	KindRaw ValueDefinitionKind = "raw"
	// KindUnique asks for a fresh, never repeated value.
	KindUnique ValueDefinitionKind = "unique"
	// KindNull is an explicit nil / zero value.
	KindNull ValueDefinitionKind = "null"
	// KindUndefined means the member is left alone.
	KindUndefined ValueDefinitionKind = "undefined"
	// KindDelegate computes the value with a caller supplied function.
	KindDelegate ValueDefinitionKind = "delegate"
	// KindLink resolves another fixture item.
	KindLink ValueDefinitionKind = "link"
)

// ValueDefinition describes how the value of one member is produced. The set of
// implementations is closed: RawValue, UniqueValue, NullValue, UndefinedValue,
// DelegateValue and LinkValue.
type ValueDefinition interface {
	Kind() ValueDefinitionKind
	isValueDefinition()
}

// RawValue is a literal. Value may be a *yaml.Node loaded from a configuration
// file, in which case it is decoded into the member type on creation.
type RawValue struct {
	Value any
}

// UniqueValue asks the unique value generator for the member type.
type UniqueValue struct{}

// NullValue is an explicit null. Creators return the Null marker for it.
type NullValue struct{}

// UndefinedValue tells creators to skip the member.
type UndefinedValue struct{}

// DelegateValue computes the member value with Func. For fields, properties
// and constructor parameters Func has the shape func() T; for methods it has
// the method's signature.
type DelegateValue struct {
	Func any
}

// LinkValue resolves Target as its own fixture item.
type LinkValue struct {
	Target FixtureItemID
}

func (RawValue) Kind() ValueDefinitionKind       { return KindRaw }
func (UniqueValue) Kind() ValueDefinitionKind    { return KindUnique }
func (NullValue) Kind() ValueDefinitionKind      { return KindNull }
func (UndefinedValue) Kind() ValueDefinitionKind { return KindUndefined }
func (DelegateValue) Kind() ValueDefinitionKind  { return KindDelegate }
func (LinkValue) Kind() ValueDefinitionKind      { return KindLink }

func (RawValue) isValueDefinition()       {}
func (UniqueValue) isValueDefinition()    {}
func (NullValue) isValueDefinition()      {}
func (UndefinedValue) isValueDefinition() {}
func (DelegateValue) isValueDefinition()  {}
func (LinkValue) isValueDefinition()      {}

func (v RawValue) String() string      { return fmt.Sprintf("raw(%v)", v.Value) }
func (UniqueValue) String() string     { return "unique" }
func (NullValue) String() string       { return "null" }
func (UndefinedValue) String() string  { return "undefined" }
func (v DelegateValue) String() string { return fmt.Sprintf("delegate(%T)", v.Func) }
func (v LinkValue) String() string     { return "link(" + v.Target.String() + ")" }

// Null is returned by creators for NullValue definitions. It is unwrapped to the
// typed zero value where the value is assigned or returned from a mock.
var Null = NullValue{}

// Undefined is returned by creators for UndefinedValue definitions.
var Undefined = UndefinedValue{}

// IsNull reports whether v is the Null marker.
func IsNull(v any) bool {
	_, ok := v.(NullValue)
	return ok
}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedValue)
	return ok
}

// EqualValueDefinitions compares two definitions structurally. Delegates are
// equal when they wrap the same function.
func EqualValueDefinitions(a, b ValueDefinition) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case RawValue:
		return reflect.DeepEqual(av.Value, b.(RawValue).Value)
	case DelegateValue:
		bf := b.(DelegateValue).Func
		if av.Func == nil || bf == nil {
			return av.Func == nil && bf == nil
		}

		return reflect.ValueOf(av.Func).Pointer() == reflect.ValueOf(bf).Pointer()
	case LinkValue:
		return av.Target == b.(LinkValue).Target
	default:
		return true
	}
}
