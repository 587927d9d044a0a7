package compiler

import (
	"fmt"
	"strings"
)

// Parser is responsible for converting expression text into a typed tree.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse tokenizes src and builds its expression tree.
// Any failure is a *SyntaxError.
func (p *Parser) Parse(src string) (Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}

	st := &parseState{tokens: tokens}
	node, err := st.expr()
	if err != nil {
		return nil, err
	}
	if tok := st.current(); tok.Kind != TokenEOF {
		return nil, st.unexpected(tok)
	}
	return node, nil
}

type parseState struct {
	tokens []Token
	pos    int
}

func (s *parseState) current() Token {
	return s.tokens[s.pos]
}

func (s *parseState) advance() Token {
	tok := s.tokens[s.pos]
	if tok.Kind != TokenEOF {
		s.pos++
	}
	return tok
}

func (s *parseState) unexpected(tok Token) error {
	if tok.Kind == TokenEOF {
		return &SyntaxError{Pos: tok.Pos, Msg: "unexpected end of input"}
	}
	return &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected %s %q", tok.Kind, tok.Text)}
}

// expr := term (('+' | '-') term)*
func (s *parseState) expr() (Node, error) {
	left, err := s.term()
	if err != nil {
		return nil, err
	}
	for {
		tok := s.current()
		if tok.Kind != TokenPlus && tok.Kind != TokenMinus {
			return left, nil
		}
		s.advance()
		right, err := s.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: rune(tok.Text[0]), X: left, Y: right}
	}
}

// term := unary (('*' | '/') unary)*
func (s *parseState) term() (Node, error) {
	left, err := s.unary()
	if err != nil {
		return nil, err
	}
	for {
		tok := s.current()
		if tok.Kind != TokenStar && tok.Kind != TokenSlash {
			return left, nil
		}
		s.advance()
		right, err := s.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: rune(tok.Text[0]), X: left, Y: right}
	}
}

// unary := ('+' | '-') unary | power
func (s *parseState) unary() (Node, error) {
	tok := s.current()
	if tok.Kind == TokenPlus || tok.Kind == TokenMinus {
		s.advance()
		x, err := s.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: rune(tok.Text[0]), X: x}, nil
	}
	return s.power()
}

// power := primary ('^' unary)?
// Right associative: 2^3^2 is 2^(3^2), and 2^-1 is allowed.
func (s *parseState) power() (Node, error) {
	base, err := s.primary()
	if err != nil {
		return nil, err
	}
	if s.current().Kind != TokenCaret {
		return base, nil
	}
	s.advance()
	exp, err := s.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: '^', X: base, Y: exp}, nil
}

// primary := NUMBER | CONST | FUNC '(' expr ')' | '(' expr ')'
func (s *parseState) primary() (Node, error) {
	tok := s.advance()
	switch tok.Kind {
	case TokenNumber:
		return &Number{Value: tok.Value}, nil

	case TokenLParen:
		inner, err := s.expr()
		if err != nil {
			return nil, err
		}
		if err := s.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenIdent:
		name := stripNamespace(tok.Text)
		if v, ok := constants[name]; ok {
			return &Constant{Name: name, Value: v}, nil
		}
		if _, ok := functions[name]; ok {
			if err := s.expect(TokenLParen); err != nil {
				return nil, err
			}
			arg, err := s.expr()
			if err != nil {
				return nil, err
			}
			if err := s.expect(TokenRParen); err != nil {
				return nil, err
			}
			return &Call{Func: name, Arg: arg}, nil
		}
		return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("undefined name %q", tok.Text)}
	}

	return nil, s.unexpected(tok)
}

func (s *parseState) expect(kind TokenKind) error {
	tok := s.current()
	if tok.Kind != kind {
		if tok.Kind == TokenEOF {
			return &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("expected %s, got end of input", kind)}
		}
		return &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("expected %s, got %q", kind, tok.Text)}
	}
	s.advance()
	return nil
}
