package compiler

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenIdent
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenCaret // '^' or '**'
	TokenLParen
	TokenRParen
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenNumber:
		return "number"
	case TokenIdent:
		return "identifier"
	case TokenPlus:
		return "'+'"
	case TokenMinus:
		return "'-'"
	case TokenStar:
		return "'*'"
	case TokenSlash:
		return "'/'"
	case TokenCaret:
		return "'^'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	}
	return "unknown"
}

// Token is a single lexical unit of an expression.
type Token struct {
	Kind  TokenKind
	Text  string
	Pos   int // byte offset in the source
	Value float64
}

// Lexer splits an expression into tokens.
type Lexer struct {
	src string
	pos int
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokenize scans the whole input. The last token is always TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
	}

	start := l.pos
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	r := l.peek()
	single := func(kind TokenKind) (Token, error) {
		l.pos++
		return Token{Kind: kind, Text: l.src[start:l.pos], Pos: start}, nil
	}

	switch {
	case r == '+':
		return single(TokenPlus)
	case r == '-':
		return single(TokenMinus)
	case r == '*':
		if l.peekAt(1) == '*' {
			l.pos += 2
			return Token{Kind: TokenCaret, Text: "**", Pos: start}, nil
		}
		return single(TokenStar)
	case r == '/':
		return single(TokenSlash)
	case r == '^':
		return single(TokenCaret)
	case r == '(':
		return single(TokenLParen)
	case r == ')':
		return single(TokenRParen)
	case isDigit(byte(r)) || (r == '.' && isDigit(l.peekAt(1))):
		return l.number()
	case unicode.IsLetter(r):
		return l.ident(), nil
	}

	return Token{}, &SyntaxError{Pos: start, Msg: "unexpected character " + strconv.QuoteRune(r)}
}

func (l *Lexer) number() (Token, error) {
	start := l.pos
	for isDigit(l.peekAt(0)) {
		l.pos++
	}
	if l.peekAt(0) == '.' {
		l.pos++
		for isDigit(l.peekAt(0)) {
			l.pos++
		}
	}
	// Exponent only when digits follow, so "2e" stays number + identifier.
	if c := l.peekAt(0); c == 'e' || c == 'E' {
		skip := 0
		switch next := l.peekAt(1); {
		case isDigit(next):
			skip = 1
		case (next == '+' || next == '-') && isDigit(l.peekAt(2)):
			skip = 2
		}
		if skip > 0 {
			l.pos += skip
			for isDigit(l.peekAt(0)) {
				l.pos++
			}
		}
	}

	text := l.src[start:l.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Out-of-range literals saturate like host numbers do.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return Token{Kind: TokenNumber, Text: text, Pos: start, Value: v}, nil
		}
		return Token{}, &SyntaxError{Pos: start, Msg: "malformed number " + strconv.Quote(text)}
	}
	return Token{Kind: TokenNumber, Text: text, Pos: start, Value: v}, nil
}

func (l *Lexer) ident() Token {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			l.pos += size
			continue
		}
		// Dotted names such as Math.PI; the dot must be followed by a letter.
		if r == '.' && l.pos+1 < len(l.src) {
			next, _ := utf8.DecodeRuneInString(l.src[l.pos+1:])
			if unicode.IsLetter(next) {
				l.pos += size
				continue
			}
		}
		break
	}
	return Token{Kind: TokenIdent, Text: l.src[start:l.pos], Pos: start}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// stripNamespace removes the optional "Math." qualifier from an identifier.
func stripNamespace(name string) string {
	return strings.TrimPrefix(name, "Math.")
}
