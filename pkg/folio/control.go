package folio

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Statement is a node of a parsed template. Nodes own their children and
// are never modified after parsing.
type Statement interface {
	String() string
	render(r *renderer, s *scope)
}

// TextNode represents literal template text
type TextNode struct {
	Content string
}

func (n *TextNode) String() string {
	return fmt.Sprintf("Text(%q)", n.Content)
}

func (n *TextNode) render(r *renderer, s *scope) {
	r.out.WriteString(n.Content)
}

// VariableNode outputs the value of a variable, HTML-escaped unless Raw is set.
// Unknown variables render as the empty string.
type VariableNode struct {
	Name string
	Raw  bool
}

func (n *VariableNode) String() string {
	if n.Raw {
		return fmt.Sprintf("Variable(%s|raw)", n.Name)
	}
	return fmt.Sprintf("Variable(%s)", n.Name)
}

func (n *VariableNode) render(r *renderer, s *scope) {
	value, _ := s.lookup(n.Name)
	if n.Raw {
		r.out.WriteString(value)
		return
	}
	r.out.WriteString(html.EscapeString(value))
}

// IfNode represents an if statement with an optional else branch
type IfNode struct {
	Condition *Condition
	ThenBody  []Statement
	ElseBody  []Statement
}

func (n *IfNode) String() string {
	s := fmt.Sprintf("If(%s)%s", n.Condition, formatStatements(n.ThenBody))
	if n.ElseBody != nil {
		s += " Else" + formatStatements(n.ElseBody)
	}
	return s
}

func (n *IfNode) render(r *renderer, s *scope) {
	if n.Condition.evaluate(s) {
		renderStatements(n.ThenBody, r, s)
		return
	}
	renderStatements(n.ElseBody, r, s)
}

// ForEachNode iterates its body over the documents of a listing when it is
// not already inside a document, and otherwise over the words of the
// Collection variable.
type ForEachNode struct {
	Collection string
	Body       []Statement
}

func (n *ForEachNode) String() string {
	return fmt.Sprintf("ForEach(%s)%s", n.Collection, formatStatements(n.Body))
}

func (n *ForEachNode) render(r *renderer, s *scope) {
	if r.docs != nil && !s.document {
		for _, doc := range r.docs {
			renderStatements(n.Body, r, s.pushDocument(doc))
		}
		return
	}
	if value, ok := s.lookup(n.Collection); ok {
		for _, item := range strings.Fields(value) {
			renderStatements(n.Body, r, s.push(VariablesFrom(foreachItem, item)))
		}
	}
}

// BlockNode marks a named section. Its body always renders; callers pick a
// block with Template.Block when they want only that section.
type BlockNode struct {
	Name string
	Body []Statement
}

func (n *BlockNode) String() string {
	return fmt.Sprintf("Block(%s)%s", n.Name, formatStatements(n.Body))
}

func (n *BlockNode) render(r *renderer, s *scope) {
	renderStatements(n.Body, r, s)
}

func renderStatements(body []Statement, r *renderer, s *scope) {
	for _, stmt := range body {
		stmt.render(r, s)
	}
}

func formatStatements(body []Statement) string {
	parts := make([]string, len(body))
	for i, stmt := range body {
		parts[i] = stmt.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Operator is the comparison performed by a Condition
type Operator int

const (
	OpDefined Operator = iota
	OpNotDefined
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

var operatorSymbols = map[Operator]string{
	OpDefined:      "defined",
	OpNotDefined:   "not",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
}

func (o Operator) String() string {
	return operatorSymbols[o]
}

// OperandKind tells how an Operand's Value is interpreted
type OperandKind int

const (
	OperandIdentifier OperandKind = iota
	OperandString
	OperandInteger
)

// Operand is one side of a Condition
type Operand struct {
	Kind  OperandKind
	Value string
}

func (o Operand) String() string {
	if o.Kind == OperandString {
		return strconv.Quote(o.Value)
	}
	return o.Value
}

func (o Operand) resolve(s *scope) string {
	if o.Kind == OperandIdentifier {
		value, _ := s.lookup(o.Value)
		return value
	}
	return o.Value
}

// Condition is the test of an if statement. Right is nil for the
// defined and not-defined operators.
type Condition struct {
	Left  Operand
	Op    Operator
	Right *Operand
}

func (c *Condition) String() string {
	switch c.Op {
	case OpDefined:
		return c.Left.String()
	case OpNotDefined:
		return "not " + c.Left.String()
	}
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

// evaluate tests the condition against a scope. Presence tests look at key
// existence only; comparisons are numeric when both sides parse as integers
// and lexical otherwise.
func (c *Condition) evaluate(s *scope) bool {
	switch c.Op {
	case OpDefined:
		return c.Left.Kind != OperandIdentifier || s.defined(c.Left.Value)
	case OpNotDefined:
		return c.Left.Kind == OperandIdentifier && !s.defined(c.Left.Value)
	}

	cmp := compareValues(c.Left.resolve(s), c.Right.resolve(s))
	switch c.Op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	}
	return false
}

func compareValues(left, right string) int {
	l, lerr := strconv.Atoi(left)
	r, rerr := strconv.Atoi(right)
	if lerr == nil && rerr == nil {
		switch {
		case l < r:
			return -1
		case l > r:
			return 1
		}
		return 0
	}
	return strings.Compare(left, right)
}
