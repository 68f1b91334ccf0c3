package model

// CreatorType selects the creation strategy for a definition node.
type CreatorType int

const (
	// CreatorBaseType creates primitive values.
	CreatorBaseType CreatorType = iota
	// CreatorConcreteType constructs structs through reflection.
	CreatorConcreteType
	// CreatorMock creates testify mocks for interfaces.
	CreatorMock
)

func (c CreatorType) String() string {
	switch c {
	case CreatorBaseType:
		return "base"
	case CreatorConcreteType:
		return "concrete"
	case CreatorMock:
		return "mock"
	default:
		return "unknown"
	}
}

// DefinitionNode describes how to build one fixture item. It is one of
// *BaseTypeNode, *ClassNode or *MockNode.
type DefinitionNode interface {
	TypeDescription() *TypeDescription
	FixtureItemID() FixtureItemID
	CreatorType() CreatorType
	isDefinitionNode()
}

type nodeHeader struct {
	description *TypeDescription
	id          FixtureItemID
}

func (h nodeHeader) TypeDescription() *TypeDescription { return h.description }
func (h nodeHeader) FixtureItemID() FixtureItemID      { return h.id }

// BaseTypeNode is a primitive fixture item.
type BaseTypeNode struct {
	nodeHeader
	ValueDefinition ValueDefinition
	IsNullable      bool
}

// NewBaseTypeNode creates a base type node.
func NewBaseTypeNode(id FixtureItemID, description *TypeDescription, value ValueDefinition) *BaseTypeNode {
	return &BaseTypeNode{
		nodeHeader:      nodeHeader{description: description, id: id},
		ValueDefinition: value,
		IsNullable:      description.IsNullable,
	}
}

// CreatorType implements DefinitionNode.
func (*BaseTypeNode) CreatorType() CreatorType { return CreatorBaseType }
func (*BaseTypeNode) isDefinitionNode()        {}

// ClassNode is a struct built through reflection.
type ClassNode struct {
	nodeHeader
	// Constructor is nil when the zero struct is allocated instead.
	Constructor           *ConstructorDescription
	ConstructorParameters []ParameterDefinition
	Fields                []FieldDefinition
	Properties            []FieldDefinition
	// Methods of concrete Go types cannot be replaced; kept for symmetry with
	// MockNode and always empty.
	Methods []MethodDefinition
}

// NewClassNode creates a class node.
func NewClassNode(id FixtureItemID, description *TypeDescription) *ClassNode {
	return &ClassNode{nodeHeader: nodeHeader{description: description, id: id}}
}

// CreatorType implements DefinitionNode.
func (*ClassNode) CreatorType() CreatorType { return CreatorConcreteType }
func (*ClassNode) isDefinitionNode()        {}

// MockNode is an interface fixture item.
type MockNode struct {
	nodeHeader
	Properties []PropertyDefinition
	Methods    []MethodDefinition
}

// NewMockNode creates a mock node.
func NewMockNode(id FixtureItemID, description *TypeDescription) *MockNode {
	return &MockNode{nodeHeader: nodeHeader{description: description, id: id}}
}

// CreatorType implements DefinitionNode.
func (*MockNode) CreatorType() CreatorType { return CreatorMock }
func (*MockNode) isDefinitionNode()        {}

// ParameterDefinition pairs a constructor parameter with its value definition.
type ParameterDefinition struct {
	ParameterDescription
	Value ValueDefinition
}

// FieldDefinition pairs a struct field with its value definition.
type FieldDefinition struct {
	FieldDescription
	Value ValueDefinition
}

// PropertyDefinition pairs an interface getter with its value definition.
type PropertyDefinition struct {
	PropertyDescription
	Value ValueDefinition
}

// MethodDefinition pairs an interface method with its value definition and callbacks.
type MethodDefinition struct {
	MethodDescription
	Value     ValueDefinition
	Callbacks []Callback
}
