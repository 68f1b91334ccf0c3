// Package model defines the data structures for fixture generation.
package model

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeFullName is the fully-qualified name of a Go type, e.g. "*example.com/shop.Cart".
type TypeFullName string

// TypeFullNameOf returns the full name of t. Pointers are prefixed with "*",
// predeclared and unnamed types use their reflect string.
func TypeFullNameOf(t reflect.Type) TypeFullName {
	if t == nil {
		return ""
	}

	if t.Kind() == reflect.Pointer && t.Name() == "" {
		return "*" + TypeFullNameOf(t.Elem())
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return TypeFullName(t.PkgPath() + "." + t.Name())
	}

	return TypeFullName(t.String())
}

// ShortName strips the package path, "*example.com/shop.Cart" becomes "Cart".
func (n TypeFullName) ShortName() string {
	name := strings.TrimLeft(string(n), "*")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return name
}

// FixtureItemID identifies a fixture item. Two ids are equal iff name, type and
// root item path are equal, so the struct can be used directly as a map key.
type FixtureItemID struct {
	Name         string
	TypeFullName TypeFullName
	RootItemPath string
}

// NewFixtureItemID creates a nameless id for the given type.
func NewFixtureItemID(typeFullName TypeFullName) FixtureItemID {
	return FixtureItemID{TypeFullName: typeFullName}
}

// FixtureItemIDOf creates a nameless id for t.
func FixtureItemIDOf(t reflect.Type) FixtureItemID {
	return NewFixtureItemID(TypeFullNameOf(t))
}

// WithName returns a copy of the id carrying name.
func (id FixtureItemID) WithName(name string) FixtureItemID {
	id.Name = name
	return id
}

// WithoutName returns a copy of the id without a name.
func (id FixtureItemID) WithoutName() FixtureItemID {
	id.Name = ""
	return id
}

// WithType returns a copy of the id for another type.
func (id FixtureItemID) WithType(typeFullName TypeFullName) FixtureItemID {
	id.TypeFullName = typeFullName
	return id
}

// WithRootItemPath returns a copy of the id scoped to rootItemPath.
func (id FixtureItemID) WithRootItemPath(rootItemPath string) FixtureItemID {
	id.RootItemPath = rootItemPath
	return id
}

// HasName reports whether the id is named.
func (id FixtureItemID) HasName() bool {
	return id.Name != ""
}

// Path is the display path of the item when it is the root of a build.
func (id FixtureItemID) Path() string {
	if id.HasName() {
		return id.Name
	}

	return id.TypeFullName.ShortName()
}

func (id FixtureItemID) String() string {
	var b strings.Builder

	b.WriteString(string(id.TypeFullName))

	if id.HasName() {
		fmt.Fprintf(&b, "#%s", id.Name)
	}

	if id.RootItemPath != "" {
		fmt.Fprintf(&b, "@%s", id.RootItemPath)
	}

	return b.String()
}

// Parameter is a value supplied by the caller of a top-level resolve. It
// matches every request for its type (and name, when set) during that build.
type Parameter struct {
	Name         string
	TypeFullName TypeFullName
	Value        any
}

// Matches reports whether the parameter answers a request for id.
func (p Parameter) Matches(id FixtureItemID) bool {
	if p.TypeFullName != id.TypeFullName {
		return false
	}

	return p.Name == "" || p.Name == id.Name
}
