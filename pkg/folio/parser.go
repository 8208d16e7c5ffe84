package folio

// Template is a parsed template
type Template struct {
	Statements []Statement
}

func (t *Template) String() string {
	return formatStatements(t.Statements)
}

// Block returns a template made of the body of the first block named name,
// searching nested statements depth-first.
func (t *Template) Block(name string) (*Template, bool) {
	if body, ok := findBlock(t.Statements, name); ok {
		return &Template{Statements: body}, true
	}
	return nil, false
}

func findBlock(body []Statement, name string) ([]Statement, bool) {
	for _, stmt := range body {
		switch n := stmt.(type) {
		case *BlockNode:
			if n.Name == name {
				return n.Body, true
			}
			if found, ok := findBlock(n.Body, name); ok {
				return found, true
			}
		case *IfNode:
			if found, ok := findBlock(n.ThenBody, name); ok {
				return found, true
			}
			if found, ok := findBlock(n.ElseBody, name); ok {
				return found, true
			}
		case *ForEachNode:
			if found, ok := findBlock(n.Body, name); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// ParseTemplate parses template source into a Template. The first syntax
// error stops parsing and is returned as a *ParseError.
func ParseTemplate(src string) (*Template, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &templateParser{src: src, tokens: tokens}
	statements, _, err := p.parseBody(nil)
	if err != nil {
		return nil, err
	}

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithField("statements", len(statements)).Debug("Template parsed")
	}
	return &Template{Statements: statements}, nil
}

// templateParser builds statements from tokens
type templateParser struct {
	src    string
	tokens []Token
	pos    int
}

func (p *templateParser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *templateParser) current() Token {
	if p.atEnd() {
		return Token{Type: TokenText, Pos: len(p.src)}
	}
	return p.tokens[p.pos]
}

func (p *templateParser) advance() Token {
	tok := p.current()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *templateParser) errorAt(tok Token, format string, args ...interface{}) error {
	return NewParserError(p.src, tok.Pos, format, args...)
}

// expect consumes a token of the given type or fails at the token found instead.
func (p *templateParser) expect(typ TokenType, context string) (Token, error) {
	tok := p.current()
	if p.atEnd() || tok.Type != typ {
		return tok, p.errorAt(tok, "Expected %s %s.", typ, context)
	}
	return p.advance(), nil
}

// parseBody parses statements until one of the terminator keywords. The
// terminator tag is consumed and its keyword token returned. With a nil
// opener the body is the whole template and must run to the end.
func (p *templateParser) parseBody(opener *Token, terminators ...string) ([]Statement, Token, error) {
	var body []Statement

	for !p.atEnd() {
		tok := p.current()

		switch tok.Type {
		case TokenText:
			body = append(body, &TextNode{Content: tok.Value})
			p.advance()

		case TokenVariableOpen:
			node, err := p.parseVariable()
			if err != nil {
				return nil, Token{}, err
			}
			body = append(body, node)

		case TokenBlockOpen:
			p.advance()
			kw := p.current()
			if p.atEnd() || kw.Type != TokenKeyword {
				return nil, Token{}, p.errorAt(kw, "Expected a statement keyword after '{%%'.")
			}

			switch kw.Value {
			case "if", "ifdef", "ifndef":
				node, err := p.parseIf()
				if err != nil {
					return nil, Token{}, err
				}
				body = append(body, node)
			case "foreach":
				node, err := p.parseForEach()
				if err != nil {
					return nil, Token{}, err
				}
				body = append(body, node)
			case "block":
				node, err := p.parseBlock()
				if err != nil {
					return nil, Token{}, err
				}
				body = append(body, node)
			default:
				if !contains(terminators, kw.Value) {
					if opener == nil {
						return nil, Token{}, p.errorAt(kw, "Found '%s' without a matching opening statement.", kw.Value)
					}
					return nil, Token{}, p.errorAt(kw, "Found '%s' while '%s' statement is still open.", kw.Value, opener.Value)
				}
				p.advance()
				if _, err := p.expect(TokenBlockClose, "after '"+kw.Value+"'"); err != nil {
					return nil, Token{}, err
				}
				return body, kw, nil
			}

		default:
			return nil, Token{}, p.errorAt(tok, "Unexpected %s in template.", tok.Type)
		}
	}

	if opener != nil {
		return nil, Token{}, p.errorAt(*opener, "'%s' statement is never closed, expected '%s'.", opener.Value, terminators[len(terminators)-1])
	}
	return body, Token{}, nil
}

func (p *templateParser) parseVariable() (*VariableNode, error) {
	p.advance()
	name, err := p.expect(TokenIdentifier, "as variable name")
	if err != nil {
		return nil, err
	}
	node := &VariableNode{Name: name.Value}

	if tok := p.current(); tok.Type == TokenOperator && tok.Value == "|" {
		p.advance()
		modifier, err := p.expect(TokenIdentifier, "as output modifier")
		if err != nil {
			return nil, err
		}
		if modifier.Value != "raw" {
			return nil, p.errorAt(modifier, "Unknown output modifier '%s'.", modifier.Value)
		}
		node.Raw = true
	}

	if _, err := p.expect(TokenVariableClose, "after variable '"+name.Value+"'"); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *templateParser) parseIf() (*IfNode, error) {
	kw := p.advance()

	var cond *Condition
	var err error
	switch kw.Value {
	case "ifdef", "ifndef":
		name, err := p.expect(TokenIdentifier, "as variable name for '"+kw.Value+"'")
		if err != nil {
			return nil, err
		}
		cond = &Condition{Left: Operand{Kind: OperandIdentifier, Value: name.Value}, Op: OpDefined}
		if kw.Value == "ifndef" {
			cond.Op = OpNotDefined
		}
	default:
		cond, err = p.parseCondition()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenBlockClose, "after condition"); err != nil {
		return nil, err
	}

	node := &IfNode{Condition: cond}
	then, term, err := p.parseBody(&kw, "else", "endif")
	if err != nil {
		return nil, err
	}
	node.ThenBody = then

	if term.Value == "else" {
		elseBody, _, err := p.parseBody(&kw, "endif")
		if err != nil {
			return nil, err
		}
		if elseBody == nil {
			elseBody = []Statement{}
		}
		node.ElseBody = elseBody
	}
	return node, nil
}

func (p *templateParser) parseCondition() (*Condition, error) {
	if tok := p.current(); tok.Type == TokenKeyword && tok.Value == "not" {
		p.advance()
		name, err := p.expect(TokenIdentifier, "after 'not'")
		if err != nil {
			return nil, err
		}
		return &Condition{Left: Operand{Kind: OperandIdentifier, Value: name.Value}, Op: OpNotDefined}, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type == TokenBlockClose {
		return &Condition{Left: left, Op: OpDefined}, nil
	}

	opTok := p.current()
	op, ok := comparisonOperators[opTok.Value]
	if opTok.Type != TokenOperator || !ok {
		return nil, p.errorAt(opTok, "Expected a comparison operator in condition.")
	}
	p.advance()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &Condition{Left: left, Op: op, Right: &right}, nil
}

var comparisonOperators = map[string]Operator{
	"==": OpEqual,
	"!=": OpNotEqual,
	"<":  OpLess,
	"<=": OpLessEqual,
	">":  OpGreater,
	">=": OpGreaterEqual,
}

func (p *templateParser) parseOperand() (Operand, error) {
	tok := p.current()
	switch tok.Type {
	case TokenIdentifier:
		p.advance()
		return Operand{Kind: OperandIdentifier, Value: tok.Value}, nil
	case TokenString:
		p.advance()
		return Operand{Kind: OperandString, Value: tok.Value}, nil
	case TokenInteger:
		p.advance()
		return Operand{Kind: OperandInteger, Value: tok.Value}, nil
	}
	return Operand{}, p.errorAt(tok, "Expected a variable name or literal in condition, found %s.", tok.Type)
}

func (p *templateParser) parseForEach() (*ForEachNode, error) {
	kw := p.advance()
	name, err := p.expect(TokenIdentifier, "as 'foreach' collection name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenBlockClose, "after 'foreach' collection name"); err != nil {
		return nil, err
	}
	body, _, err := p.parseBody(&kw, "endforeach")
	if err != nil {
		return nil, err
	}
	return &ForEachNode{Collection: name.Value, Body: body}, nil
}

func (p *templateParser) parseBlock() (*BlockNode, error) {
	kw := p.advance()
	name, err := p.expect(TokenIdentifier, "as block name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenBlockClose, "after block name"); err != nil {
		return nil, err
	}
	body, _, err := p.parseBody(&kw, "endblock")
	if err != nil {
		return nil, err
	}
	return &BlockNode{Name: name.Value, Body: body}, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
