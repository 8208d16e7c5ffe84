package folio

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a template token
type TokenType int

const (
	TokenText TokenType = iota
	TokenVariableOpen
	TokenVariableClose
	TokenBlockOpen
	TokenBlockClose
	TokenKeyword
	TokenOperator
	TokenIdentifier
	TokenString
	TokenInteger
)

var tokenNames = map[TokenType]string{
	TokenText:          "text",
	TokenVariableOpen:  "'{{'",
	TokenVariableClose: "'}}'",
	TokenBlockOpen:     "'{%'",
	TokenBlockClose:    "'%}'",
	TokenKeyword:       "keyword",
	TokenOperator:      "operator",
	TokenIdentifier:    "identifier",
	TokenString:        "string",
	TokenInteger:       "integer",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token represents a lexed template token. Pos is the byte offset of the
// token in the template source and is only used for diagnostics.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

var keywords = map[string]bool{
	"if":         true,
	"ifdef":      true,
	"ifndef":     true,
	"else":       true,
	"endif":      true,
	"foreach":    true,
	"endforeach": true,
	"block":      true,
	"endblock":   true,
}

var operators = []string{"==", "!=", "<=", ">=", "<", ">", "|"}

// tokenizer scans a template in a single forward pass.
type tokenizer struct {
	src    string
	pos    int
	tokens []Token
}

// Tokenize splits a template string into tokens. The only failures are
// lexical: unterminated tags or strings and stray characters inside a tag.
func Tokenize(src string) ([]Token, error) {
	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithField("input_length", len(src)).Debug("Starting tokenization")
	}

	t := &tokenizer{src: src}
	for t.pos < len(t.src) {
		if err := t.scanText(); err != nil {
			return nil, err
		}
	}

	if logger.IsDebugMode() {
		logger.WithField("token_count", len(t.tokens)).Debug("Tokenization complete")
	}
	return t.tokens, nil
}

func (t *tokenizer) emit(typ TokenType, value string, pos int) {
	t.tokens = append(t.tokens, Token{Type: typ, Value: value, Pos: pos})
}

// scanText consumes literal text up to the next tag opener, then the tag.
func (t *tokenizer) scanText() error {
	rest := t.src[t.pos:]
	idx := indexTagOpen(rest)
	if idx == -1 {
		t.emit(TokenText, rest, t.pos)
		t.pos = len(t.src)
		return nil
	}
	if idx > 0 {
		t.emit(TokenText, rest[:idx], t.pos)
	}
	t.pos += idx
	return t.scanTag()
}

func indexTagOpen(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '{' && (s[i+1] == '{' || s[i+1] == '%') {
			return i
		}
	}
	return -1
}

func (t *tokenizer) scanTag() error {
	start := t.pos
	openType, closeType, closer := TokenVariableOpen, TokenVariableClose, "}}"
	if t.src[t.pos+1] == '%' {
		openType, closeType, closer = TokenBlockOpen, TokenBlockClose, "%}"
	}
	t.emit(openType, t.src[t.pos:t.pos+2], t.pos)
	t.pos += 2

	words := 0
	for {
		t.skipSpace()
		if t.pos >= len(t.src) {
			return NewParserError(t.src, start, "Template tag opened with %s is never closed.", t.src[start:start+2])
		}
		if strings.HasPrefix(t.src[t.pos:], closer) {
			t.emit(closeType, closer, t.pos)
			t.pos += 2
			return nil
		}

		c := t.src[t.pos]
		switch {
		case isIdentStart(c):
			word := t.scanIdentifier()
			typ := TokenIdentifier
			if openType == TokenBlockOpen && words == 0 && keywords[word] {
				typ = TokenKeyword
			} else if word == "not" && words == 1 && t.lastKeyword() == "if" {
				typ = TokenKeyword
			}
			t.emit(typ, word, t.pos-len(word))
		case isDigit(c) || (c == '-' && t.pos+1 < len(t.src) && isDigit(t.src[t.pos+1])):
			begin := t.pos
			t.pos++
			for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
				t.pos++
			}
			t.emit(TokenInteger, t.src[begin:t.pos], begin)
		case c == '"':
			if err := t.scanString(); err != nil {
				return err
			}
		default:
			op := t.matchOperator()
			if op == "" {
				return NewParserError(t.src, t.pos, "Unexpected character '%c' inside template tag.", c)
			}
			t.emit(TokenOperator, op, t.pos)
			t.pos += len(op)
		}
		words++
	}
}

func (t *tokenizer) lastKeyword() string {
	if n := len(t.tokens); n > 0 && t.tokens[n-1].Type == TokenKeyword {
		return t.tokens[n-1].Value
	}
	return ""
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.src) {
		switch t.src[t.pos] {
		case ' ', '\t', '\r', '\n':
			t.pos++
		default:
			return
		}
	}
}

func (t *tokenizer) scanIdentifier() string {
	begin := t.pos
	for t.pos < len(t.src) && (isIdentStart(t.src[t.pos]) || isDigit(t.src[t.pos])) {
		t.pos++
	}
	return t.src[begin:t.pos]
}

// scanString reads a double-quoted literal; \" and \\ are the only escapes.
func (t *tokenizer) scanString() error {
	begin := t.pos
	var value strings.Builder
	t.pos++
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		switch {
		case c == '\\' && t.pos+1 < len(t.src) && (t.src[t.pos+1] == '"' || t.src[t.pos+1] == '\\'):
			value.WriteByte(t.src[t.pos+1])
			t.pos += 2
		case c == '"':
			t.pos++
			t.emit(TokenString, value.String(), begin)
			return nil
		default:
			value.WriteByte(c)
			t.pos++
		}
	}
	return NewParserError(t.src, begin, "String literal is never closed.")
}

func (t *tokenizer) matchOperator() string {
	for _, op := range operators {
		if strings.HasPrefix(t.src[t.pos:], op) {
			return op
		}
	}
	return ""
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
