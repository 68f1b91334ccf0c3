package domain

import (
	"fmt"
	"math"
	"reflect"

	"gopkg.in/yaml.v3"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

// memberResolver turns the value definition of one member into a value of
// the member's declared type.
type memberResolver struct {
	types  adapter.TypeDescriptionAdapter
	unique UniqueGenerator
}

// resolve evaluates def for member of the item built under bc. It reports
// false for Undefined, meaning the member is left alone.
func (r *memberResolver) resolve(bc *BuildContext, owner m.FixtureItemID, member string, t reflect.Type, def m.ValueDefinition) (reflect.Value, bool, error) {
	child := bc.Child(member)

	value, defined, err := r.evaluate(child, member, t, def)
	if err != nil {
		return reflect.Value{}, false, withPath(wrapMemberError(owner, child.Path(), member, err), child.Path())
	}

	if defined {
		child.Paths().Register(child.Path(), value.Interface())
	}

	return value, defined, nil
}

func (r *memberResolver) evaluate(child *BuildContext, member string, t reflect.Type, def m.ValueDefinition) (reflect.Value, bool, error) {
	switch def := def.(type) {
	case nil, m.UndefinedValue:
		return reflect.Value{}, false, nil
	case m.NullValue:
		return reflect.Zero(t), true, nil
	case m.RawValue:
		value, err := convertValue(def.Value, t)
		return value, err == nil, err
	case m.UniqueValue:
		value, err := r.uniqueValue(t)
		return value, err == nil, err
	case m.LinkValue:
		instance, err := child.Resolve(def.Target)
		if err != nil {
			return reflect.Value{}, false, err
		}

		value, err := convertValue(instance, t)

		return value, err == nil, err
	case m.DelegateValue:
		value, err := callDelegate(def.Func, t)
		return value, err == nil, err
	default:
		return reflect.Value{}, false, fmt.Errorf("unsupported value definition %T for member %s", def, member)
	}
}

func (r *memberResolver) uniqueValue(t reflect.Type) (reflect.Value, error) {
	description, err := r.types.DescribeType(t)
	if err != nil {
		return reflect.Value{}, err
	}

	if !CanGenerateUnique(description) {
		return reflect.Value{}, fmt.Errorf("unique values cannot be generated for %s", description.FullName)
	}

	value, err := r.unique.Next(description)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(value), nil
}

// wrapMemberError keeps typed engine errors and wraps everything else.
func wrapMemberError(owner m.FixtureItemID, path, member string, err error) error {
	switch err.(type) {
	case *m.ResolveTypeError, *m.InvalidConfigurationError, *m.InvalidTypeDescriptionError:
		return err
	default:
		return m.NewResolveTypeError(owner, path, fmt.Sprintf("member %s", member), err)
	}
}

// convertValue makes value usable as a t. Null markers and nil become the
// zero value; *yaml.Node values are decoded into t.
func convertValue(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil || m.IsNull(value) || m.IsUndefined(value) {
		return reflect.Zero(t), nil
	}

	if node, ok := value.(*yaml.Node); ok {
		target := reflect.New(t)
		if err := node.Decode(target.Interface()); err != nil {
			return reflect.Value{}, fmt.Errorf("failed to decode configured value into %s: %w", t, err)
		}

		return target.Elem(), nil
	}

	v := reflect.ValueOf(value)

	if v.Type().AssignableTo(t) {
		return v, nil
	}

	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		return convertNumber(v, t)
	}

	if v.Kind() == reflect.String && t.Kind() == reflect.String {
		return v.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", value, t)
}

// convertNumber converts between numeric kinds and fails when the value
// would wrap around, overflow or lose its fraction.
func convertNumber(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	target := reflect.New(t).Elem()
	lossy := fmt.Errorf("%v cannot be represented as %s", v.Interface(), t)

	switch {
	case v.CanInt():
		i := v.Int()

		if target.CanInt() && target.OverflowInt(i) {
			return reflect.Value{}, lossy
		}

		if target.CanUint() && (i < 0 || target.OverflowUint(uint64(i))) {
			return reflect.Value{}, lossy
		}
	case v.CanUint():
		u := v.Uint()

		if target.CanInt() && (u > math.MaxInt64 || target.OverflowInt(int64(u))) {
			return reflect.Value{}, lossy
		}

		if target.CanUint() && target.OverflowUint(u) {
			return reflect.Value{}, lossy
		}
	case v.CanFloat():
		f := v.Float()

		if target.CanFloat() {
			if target.OverflowFloat(f) {
				return reflect.Value{}, lossy
			}

			break
		}

		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return reflect.Value{}, lossy
		}

		if target.CanInt() && (f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f))) {
			return reflect.Value{}, lossy
		}

		if target.CanUint() && (f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f))) {
			return reflect.Value{}, lossy
		}
	}

	return v.Convert(t), nil
}

// callDelegate invokes a func() T or func() (T, error) producing a value for t.
func callDelegate(fn any, t reflect.Type) (reflect.Value, error) {
	f := reflect.ValueOf(fn)
	if !f.IsValid() || f.Kind() != reflect.Func || f.IsNil() {
		return reflect.Value{}, fmt.Errorf("delegate must be a function, got %T", fn)
	}

	ft := f.Type()
	if ft.NumIn() != 0 || ft.NumOut() < 1 || ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != m.ErrorType) {
		return reflect.Value{}, fmt.Errorf("delegate %s must have the shape func() T or func() (T, error)", ft)
	}

	out := f.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, fmt.Errorf("delegate failed: %w", out[1].Interface().(error))
	}

	return convertValue(out[0].Interface(), t)
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
