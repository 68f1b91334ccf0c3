// Package adapter contains infrastructure adapters for the fixture engine:
// reflection metadata, configuration files and the file system.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	m "fixtura.dev/pkg/fixtura/internal/model"
)

// DefaultTypeDescriptionCacheSize bounds the number of cached type descriptions.
const DefaultTypeDescriptionCacheSize = 512

// TypeDescriptionAdapter supplies type metadata to the engine. Types are
// described through reflection; constructors, mocks and enum values cannot be
// discovered that way and are registered explicitly.
type TypeDescriptionAdapter interface {
	// Describe returns the description of a type known by name. A type becomes
	// known when it is registered or when it appears as a member of a
	// described type.
	Describe(ctx context.Context, name m.TypeFullName) (*m.TypeDescription, error)

	// DescribeType returns the description of t and makes it known by name.
	DescribeType(t reflect.Type) (*m.TypeDescription, error)

	// RegisterType makes t known by name without describing it.
	RegisterType(t reflect.Type) m.TypeFullName

	// RegisterConstructor registers fn, a func(...) T or func(...) (T, error)
	// where T is a struct or a pointer to a struct.
	RegisterConstructor(fn any, paramNames ...string) (m.TypeFullName, error)

	// RegisterMock registers the mock factory used for the interface iface.
	RegisterMock(iface reflect.Type, factory m.MockFactory) error

	// RegisterEnum registers the declared values of a named base type.
	RegisterEnum(values ...any) error
}

// LocalTypeDescriptionAdapter is a reflection backed TypeDescriptionAdapter.
// It is safe for concurrent use.
type LocalTypeDescriptionAdapter struct {
	mu           sync.RWMutex
	types        map[m.TypeFullName]reflect.Type
	constructors map[reflect.Type][]m.ConstructorDescription
	mocks        map[reflect.Type]m.MockFactory
	enums        map[reflect.Type][]any
	cache        *lru.Cache[reflect.Type, *m.TypeDescription]
}

// NewLocalTypeDescriptionAdapter constructs a LocalTypeDescriptionAdapter
// caching up to cacheSize descriptions.
func NewLocalTypeDescriptionAdapter(cacheSize int) (*LocalTypeDescriptionAdapter, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultTypeDescriptionCacheSize
	}

	cache, err := lru.New[reflect.Type, *m.TypeDescription](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create type description cache: %w", err)
	}

	return &LocalTypeDescriptionAdapter{
		types:        make(map[m.TypeFullName]reflect.Type),
		constructors: make(map[reflect.Type][]m.ConstructorDescription),
		mocks:        make(map[reflect.Type]m.MockFactory),
		enums:        make(map[reflect.Type][]any),
		cache:        cache,
	}, nil
}

// Describe implements TypeDescriptionAdapter.
func (a *LocalTypeDescriptionAdapter) Describe(ctx context.Context, name m.TypeFullName) (*m.TypeDescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	t, ok := a.types[name]
	a.mu.RUnlock()

	if !ok {
		return nil, &m.InvalidTypeDescriptionError{Type: name, Reason: "unknown type, register it before use"}
	}

	return a.DescribeType(t)
}

// DescribeType implements TypeDescriptionAdapter.
func (a *LocalTypeDescriptionAdapter) DescribeType(t reflect.Type) (*m.TypeDescription, error) {
	if t == nil {
		return nil, &m.InvalidTypeDescriptionError{Reason: "nil type"}
	}

	if description, ok := a.cache.Get(t); ok {
		return description, nil
	}

	a.RegisterType(t)

	description, err := a.describe(t)
	if err != nil {
		return nil, err
	}

	a.cache.Add(t, description)
	slog.Debug("described type", "type", description.FullName, "class", description.Class)

	return description, nil
}

// RegisterType implements TypeDescriptionAdapter.
func (a *LocalTypeDescriptionAdapter) RegisterType(t reflect.Type) m.TypeFullName {
	name := m.TypeFullNameOf(t)

	a.mu.Lock()
	a.types[name] = t
	a.mu.Unlock()

	return name
}

// RegisterConstructor implements TypeDescriptionAdapter.
func (a *LocalTypeDescriptionAdapter) RegisterConstructor(fn any, paramNames ...string) (m.TypeFullName, error) {
	value := reflect.ValueOf(fn)
	if !value.IsValid() || value.Kind() != reflect.Func || value.IsNil() {
		return "", &m.InvalidTypeDescriptionError{Reason: fmt.Sprintf("constructor must be a function, got %T", fn)}
	}

	fnType := value.Type()

	target, returnsError, err := constructorResult(fnType)
	if err != nil {
		return "", err
	}

	if len(paramNames) != 0 && len(paramNames) != fnType.NumIn() {
		return "", &m.InvalidTypeDescriptionError{
			Type:   m.TypeFullNameOf(target),
			Reason: fmt.Sprintf("constructor has %d parameters but %d names were given", fnType.NumIn(), len(paramNames)),
		}
	}

	description := m.ConstructorDescription{
		Name:         functionName(value),
		Func:         value,
		ReturnsError: returnsError,
		Variadic:     fnType.IsVariadic(),
	}

	for i := range fnType.NumIn() {
		name := fmt.Sprintf("arg%d", i)
		if len(paramNames) > 0 {
			name = paramNames[i]
		}

		description.Parameters = append(description.Parameters, m.ParameterDescription{
			Name:     name,
			Position: i,
			Type:     fnType.In(i),
		})
	}

	if err := checkUniqueParameterNames(target, description); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, existing := range a.constructors[target] {
		if existing.Name == description.Name {
			return "", &m.InvalidTypeDescriptionError{
				Type:   m.TypeFullNameOf(target),
				Reason: fmt.Sprintf("constructor %s is already registered", description.Name),
			}
		}
	}

	a.constructors[target] = append(a.constructors[target], description)
	a.types[m.TypeFullNameOf(target)] = target
	a.cache.Remove(target)

	return m.TypeFullNameOf(target), nil
}

// RegisterMock implements TypeDescriptionAdapter.
func (a *LocalTypeDescriptionAdapter) RegisterMock(iface reflect.Type, factory m.MockFactory) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return &m.InvalidTypeDescriptionError{Type: m.TypeFullNameOf(iface), Reason: "mocks can only be registered for interfaces"}
	}

	if factory == nil {
		return &m.InvalidTypeDescriptionError{Type: m.TypeFullNameOf(iface), Reason: "nil mock factory"}
	}

	sample := factory()
	if sample == nil || !reflect.TypeOf(sample).Implements(iface) {
		return &m.InvalidTypeDescriptionError{
			Type:   m.TypeFullNameOf(iface),
			Reason: fmt.Sprintf("mock %T does not implement the interface", sample),
		}
	}

	a.mu.Lock()
	a.mocks[iface] = factory
	a.types[m.TypeFullNameOf(iface)] = iface
	a.mu.Unlock()

	a.cache.Remove(iface)

	return nil
}

// RegisterEnum implements TypeDescriptionAdapter.
func (a *LocalTypeDescriptionAdapter) RegisterEnum(values ...any) error {
	if len(values) == 0 {
		return &m.InvalidTypeDescriptionError{Reason: "an enum needs at least one value"}
	}

	t := reflect.TypeOf(values[0])
	if t == nil || !isBaseKind(t.Kind()) || t.Kind() == reflect.Pointer {
		return &m.InvalidTypeDescriptionError{Type: m.TypeFullNameOf(t), Reason: "enum values must be of a primitive kind"}
	}

	for _, value := range values[1:] {
		if reflect.TypeOf(value) != t {
			return &m.InvalidTypeDescriptionError{
				Type:   m.TypeFullNameOf(t),
				Reason: fmt.Sprintf("enum value %v has type %T", value, value),
			}
		}
	}

	a.mu.Lock()
	a.enums[t] = append([]any(nil), values...)
	a.types[m.TypeFullNameOf(t)] = t
	a.mu.Unlock()

	a.cache.Remove(t)

	return nil
}

func (a *LocalTypeDescriptionAdapter) describe(t reflect.Type) (*m.TypeDescription, error) {
	description := &m.TypeDescription{
		Type:       t,
		FullName:   m.TypeFullNameOf(t),
		Class:      classify(t),
		IsNullable: isNullable(t.Kind()),
	}

	a.mu.RLock()
	description.EnumValues = a.enums[t]
	description.Constructors = append([]m.ConstructorDescription(nil), a.constructors[t]...)
	description.MockFactory = a.mocks[t]
	a.mu.RUnlock()

	switch description.Class {
	case m.ClassInterface:
		a.describeInterface(t, description)
	case m.ClassConcrete:
		a.describeStruct(description)
	case m.ClassBase:
	}

	for _, c := range description.Constructors {
		for _, p := range c.Parameters {
			a.RegisterType(p.Type)
		}
	}

	return description, nil
}

func (a *LocalTypeDescriptionAdapter) describeStruct(description *m.TypeDescription) {
	structType := description.StructType()

	for i := range structType.NumField() {
		field := structType.Field(i)
		if field.Name == "_" {
			continue
		}

		a.RegisterType(field.Type)

		fd := m.FieldDescription{
			Name:     field.Name,
			Index:    field.Index,
			Type:     field.Type,
			Exported: field.IsExported(),
		}

		if fd.Exported {
			description.Properties = append(description.Properties, fd)
		} else {
			description.Fields = append(description.Fields, fd)
		}
	}
}

func (a *LocalTypeDescriptionAdapter) describeInterface(t reflect.Type, description *m.TypeDescription) {
	methods := make(map[string]reflect.Method, t.NumMethod())

	for i := range t.NumMethod() {
		method := t.Method(i)
		if !method.IsExported() {
			continue
		}

		methods[method.Name] = method
	}

	setters := make(map[string]bool)

	for i := range t.NumMethod() {
		method := t.Method(i)
		if !method.IsExported() || !isGetter(method.Type) {
			continue
		}

		property := m.PropertyDescription{Name: method.Name, Type: method.Type.Out(0)}

		if setter, ok := methods["Set"+method.Name]; ok && isSetterOf(setter.Type, property.Type) {
			property.Setter = setter.Name
			setters[setter.Name] = true
		}

		a.RegisterType(property.Type)
		description.MockProperties = append(description.MockProperties, property)
	}

	for i := range t.NumMethod() {
		method := t.Method(i)
		if !method.IsExported() || isGetter(method.Type) || setters[method.Name] {
			continue
		}

		md := m.MethodDescription{Name: method.Name, Variadic: method.Type.IsVariadic()}

		for in := range method.Type.NumIn() {
			md.In = append(md.In, method.Type.In(in))
		}

		for out := range method.Type.NumOut() {
			md.Out = append(md.Out, method.Type.Out(out))
			a.RegisterType(method.Type.Out(out))
		}

		description.Methods = append(description.Methods, md)
	}
}

func constructorResult(fnType reflect.Type) (reflect.Type, bool, error) {
	switch {
	case fnType.NumOut() == 1:
	case fnType.NumOut() == 2 && fnType.Out(1) == m.ErrorType:
	default:
		return nil, false, &m.InvalidTypeDescriptionError{
			Reason: fmt.Sprintf("constructor %s must return T or (T, error)", fnType),
		}
	}

	target := fnType.Out(0)
	if classify(target) != m.ClassConcrete {
		return nil, false, &m.InvalidTypeDescriptionError{
			Type:   m.TypeFullNameOf(target),
			Reason: "constructors can only be registered for structs and pointers to structs",
		}
	}

	return target, fnType.NumOut() == 2, nil
}

func checkUniqueParameterNames(target reflect.Type, description m.ConstructorDescription) error {
	seen := make(map[string]bool, len(description.Parameters))

	for _, p := range description.Parameters {
		if p.Name == "" || seen[p.Name] {
			return &m.InvalidTypeDescriptionError{
				Type:   m.TypeFullNameOf(target),
				Reason: fmt.Sprintf("constructor %s has an empty or duplicate parameter name %q", description.Name, p.Name),
			}
		}

		seen[p.Name] = true
	}

	return nil
}

func functionName(fn reflect.Value) string {
	name := runtime.FuncForPC(fn.Pointer()).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return name
}

func classify(t reflect.Type) m.TypeClass {
	switch {
	case t.Kind() == reflect.Interface:
		return m.ClassInterface
	case t.Kind() == reflect.Struct:
		return m.ClassConcrete
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return m.ClassConcrete
	default:
		return m.ClassBase
	}
}

func isNullable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func isBaseKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

func isGetter(fnType reflect.Type) bool {
	return fnType.NumIn() == 0 && fnType.NumOut() == 1
}

func isSetterOf(fnType reflect.Type, valueType reflect.Type) bool {
	return fnType.NumIn() == 1 && fnType.NumOut() == 0 && fnType.In(0) == valueType
}
