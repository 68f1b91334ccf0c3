package domain

import (
	"fmt"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	m "fixtura.dev/pkg/fixtura/internal/model"
)

// Creator turns a definition node into a live instance.
type Creator interface {
	CreateInstance(bc *BuildContext, node m.DefinitionNode) (any, error)
}

// CreatorProvider selects the creator for a definition node.
type CreatorProvider interface {
	// GetCreator panics for a nil node or a node variant it does not know.
	GetCreator(node m.DefinitionNode) Creator
}

type creatorProvider struct {
	base     Creator
	concrete Creator
	mock     Creator
}

// NewCreatorProvider constructs the provider of the base type, concrete type
// and mock creators.
func NewCreatorProvider(types adapter.TypeDescriptionAdapter, unique UniqueGenerator) CreatorProvider {
	members := &memberResolver{types: types, unique: unique}

	return &creatorProvider{
		base:     &baseTypeCreator{unique: unique},
		concrete: &concreteTypeCreator{members: members},
		mock:     &mockCreator{members: members, types: types, unique: unique},
	}
}

func (p *creatorProvider) GetCreator(node m.DefinitionNode) Creator {
	switch n := node.(type) {
	case *m.BaseTypeNode:
		if n != nil {
			return p.base
		}
	case *m.ClassNode:
		if n != nil {
			return p.concrete
		}
	case *m.MockNode:
		if n != nil {
			return p.mock
		}
	case nil:
	default:
		panic(fmt.Sprintf("domain: no creator for definition node %T", node))
	}

	panic("domain: no creator for a nil definition node")
}
