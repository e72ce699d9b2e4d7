package ast

import (
	"sync/atomic"

	"lox/interpreter-go/pkg/lexer"
)

type NodeType string

const (
	NodeLiteralExpression    NodeType = "LiteralExpression"
	NodeGroupingExpression   NodeType = "GroupingExpression"
	NodeUnaryExpression      NodeType = "UnaryExpression"
	NodeBinaryExpression     NodeType = "BinaryExpression"
	NodeLogicalExpression    NodeType = "LogicalExpression"
	NodeVariableExpression   NodeType = "VariableExpression"
	NodeAssignmentExpression NodeType = "AssignmentExpression"
	NodeCallExpression       NodeType = "CallExpression"
	NodeGetExpression        NodeType = "GetExpression"
	NodeSetExpression        NodeType = "SetExpression"
	NodeThisExpression       NodeType = "ThisExpression"
	NodeSuperExpression      NodeType = "SuperExpression"
	NodeExpressionStatement  NodeType = "ExpressionStatement"
	NodePrintStatement       NodeType = "PrintStatement"
	NodeVarDeclaration       NodeType = "VarDeclaration"
	NodeBlockStatement       NodeType = "BlockStatement"
	NodeIfStatement          NodeType = "IfStatement"
	NodeWhileLoop            NodeType = "WhileLoop"
	NodeFunctionDeclaration  NodeType = "FunctionDeclaration"
	NodeReturnStatement      NodeType = "ReturnStatement"
	NodeClassDeclaration     NodeType = "ClassDeclaration"
)

// NodeID identifies one node allocation. Two structurally identical nodes
// never share an ID, which is what lets the resolver key on it.
type NodeID uint64

var lastNodeID atomic.Uint64

type Node interface {
	NodeType() NodeType
	ID() NodeID
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	id   NodeID
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind, id: NodeID(lastNodeID.Add(1))}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) ID() NodeID         { return n.id }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expressions

// LiteralExpression holds nil, a bool, a float64, or a string.
type LiteralExpression struct {
	nodeImpl
	expressionMarker

	Value any `json:"value"`
}

func NewLiteralExpression(value any) *LiteralExpression {
	return &LiteralExpression{nodeImpl: newNodeImpl(NodeLiteralExpression), Value: value}
}

type GroupingExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewGroupingExpression(inner Expression) *GroupingExpression {
	return &GroupingExpression{nodeImpl: newNodeImpl(NodeGroupingExpression), Expression: inner}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator lexer.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewUnaryExpression(operator lexer.Token, right Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Right: right}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression  `json:"left"`
	Operator lexer.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewBinaryExpression(left Expression, operator lexer.Token, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Left: left, Operator: operator, Right: right}
}

// LogicalExpression is a short-circuiting `and` or `or`.
type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Left     Expression  `json:"left"`
	Operator lexer.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewLogicalExpression(left Expression, operator lexer.Token, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Left: left, Operator: operator, Right: right}
}

type VariableExpression struct {
	nodeImpl
	expressionMarker

	Name lexer.Token `json:"name"`
}

func NewVariableExpression(name lexer.Token) *VariableExpression {
	return &VariableExpression{nodeImpl: newNodeImpl(NodeVariableExpression), Name: name}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Name  lexer.Token `json:"name"`
	Value Expression  `json:"value"`
}

func NewAssignmentExpression(name lexer.Token, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Name: name, Value: value}
}

// CallExpression keeps the closing parenthesis for runtime error positions.
type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Paren     lexer.Token  `json:"paren"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(callee Expression, paren lexer.Token, arguments []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Paren: paren, Arguments: arguments}
}

type GetExpression struct {
	nodeImpl
	expressionMarker

	Object Expression  `json:"object"`
	Name   lexer.Token `json:"name"`
}

func NewGetExpression(object Expression, name lexer.Token) *GetExpression {
	return &GetExpression{nodeImpl: newNodeImpl(NodeGetExpression), Object: object, Name: name}
}

type SetExpression struct {
	nodeImpl
	expressionMarker

	Object Expression  `json:"object"`
	Name   lexer.Token `json:"name"`
	Value  Expression  `json:"value"`
}

func NewSetExpression(object Expression, name lexer.Token, value Expression) *SetExpression {
	return &SetExpression{nodeImpl: newNodeImpl(NodeSetExpression), Object: object, Name: name, Value: value}
}

type ThisExpression struct {
	nodeImpl
	expressionMarker

	Keyword lexer.Token `json:"keyword"`
}

func NewThisExpression(keyword lexer.Token) *ThisExpression {
	return &ThisExpression{nodeImpl: newNodeImpl(NodeThisExpression), Keyword: keyword}
}

type SuperExpression struct {
	nodeImpl
	expressionMarker

	Keyword lexer.Token `json:"keyword"`
	Method  lexer.Token `json:"method"`
}

func NewSuperExpression(keyword lexer.Token, method lexer.Token) *SuperExpression {
	return &SuperExpression{nodeImpl: newNodeImpl(NodeSuperExpression), Keyword: keyword, Method: method}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewPrintStatement(expr Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Expression: expr}
}

// VarDeclaration has a nil Initializer for `var a;`.
type VarDeclaration struct {
	nodeImpl
	statementMarker

	Name        lexer.Token `json:"name"`
	Initializer Expression  `json:"initializer,omitempty"`
}

func NewVarDeclaration(name lexer.Token, initializer Expression) *VarDeclaration {
	return &VarDeclaration{nodeImpl: newNodeImpl(NodeVarDeclaration), Name: name, Initializer: initializer}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewBlockStatement(statements []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: statements}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition  Expression `json:"condition"`
	ThenBranch Statement  `json:"thenBranch"`
	ElseBranch Statement  `json:"elseBranch,omitempty"`
}

func NewIfStatement(condition Expression, thenBranch, elseBranch Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

// WhileLoop is also the target of `for` desugaring.
type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileLoop(condition Expression, body Statement) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// FunctionDeclaration is used for both `fun` declarations and class methods.
type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	Name   lexer.Token   `json:"name"`
	Params []lexer.Token `json:"params"`
	Body   []Statement   `json:"body"`
}

func NewFunctionDeclaration(name lexer.Token, params []lexer.Token, body []Statement) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), Name: name, Params: params, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Keyword lexer.Token `json:"keyword"`
	Value   Expression  `json:"value,omitempty"`
}

func NewReturnStatement(keyword lexer.Token, value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Keyword: keyword, Value: value}
}

type ClassDeclaration struct {
	nodeImpl
	statementMarker

	Name       lexer.Token            `json:"name"`
	Superclass *VariableExpression    `json:"superclass,omitempty"`
	Methods    []*FunctionDeclaration `json:"methods"`
}

func NewClassDeclaration(name lexer.Token, superclass *VariableExpression, methods []*FunctionDeclaration) *ClassDeclaration {
	return &ClassDeclaration{nodeImpl: newNodeImpl(NodeClassDeclaration), Name: name, Superclass: superclass, Methods: methods}
}
