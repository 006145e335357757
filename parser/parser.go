// Package parser implements the recursive descent parser of spec.md §4.2:
// it drives a [lexer.Lexer] to build a [value.Value] tree, enforcing
// nesting depth, duplicate-key replacement, and trailing-data detection.
package parser

import (
	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/lexer"
	"go.jsontk.dev/jsontk/value"
)

// MaxDepth is the default combined object+array nesting limit
// (spec.md §4.2 recommends 1000).
const MaxDepth = 1000

// Parser consumes tokens from a [lexer.Lexer] and builds a [value.Value]
// tree, per the grammar:
//
//	value  = object | array | string | number | true | false | null
//	object = '{' [pair (',' pair)*] '}'
//	pair   = string ':' value
//	array  = '[' [value (',' value)*] ']'
type Parser struct {
	lex      *lexer.Lexer
	maxDepth int
	depth    int
	peeked   *lexer.Token
}

// New returns a Parser reading tokens from lex with the default
// [MaxDepth].
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex, maxDepth: MaxDepth}
}

// WithMaxDepth overrides the nesting limit.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth

	return p
}

// Parse parses a single document: exactly one top-level value followed by
// optional whitespace and EOF. Any non-whitespace byte after the top-level
// value is UNEXPECTED_TOKEN ("extra data"). On the first error, no partial
// Value is returned (spec.md §4.2's error policy).
func Parse(data []byte) (*value.Value, error) {
	p := New(lexer.New(data))

	return p.ParseDocument()
}

// ParseDocument parses one top-level value and checks for trailing data.
func (p *Parser) ParseDocument() (*value.Value, error) {
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	tok := p.next()
	if tok.Kind != lexer.EOF {
		return nil, jsonerr.New(jsonerr.UnexpectedToken, tok.Line, tok.Column, "unexpected data after top-level value")
	}

	return v, nil
}

func (p *Parser) next() lexer.Token {
	if p.peeked != nil {
		tok := *p.peeked
		p.peeked = nil

		return tok
	}

	return p.lex.Next()
}

func (p *Parser) peek() lexer.Token {
	if p.peeked == nil {
		tok := p.lex.Next()
		p.peeked = &tok
	}

	return *p.peeked
}

func (p *Parser) parseValue() (*value.Value, error) {
	tok := p.next()

	switch tok.Kind {
	case lexer.Error:
		return nil, tok.Err
	case lexer.EOF:
		return nil, jsonerr.New(jsonerr.UnexpectedEOF, tok.Line, tok.Column, "unexpected end of input")
	case lexer.Null:
		return value.NewNull(), nil
	case lexer.True:
		return value.NewBool(true), nil
	case lexer.False:
		return value.NewBool(false), nil
	case lexer.Number:
		n, err := value.NewNumber(tok.Num)
		if err != nil {
			return nil, jsonerr.New(jsonerr.NumberOutOfRange, tok.Line, tok.Column, "%v", err)
		}

		return n, nil
	case lexer.String:
		s, err := value.NewString(tok.Str)
		if err != nil {
			return nil, jsonerr.New(jsonerr.InvalidUTF8, tok.Line, tok.Column, "%v", err)
		}

		return s, nil
	case lexer.LBrace:
		return p.parseObject(tok)
	case lexer.LBracket:
		return p.parseArray(tok)
	default:
		return nil, jsonerr.New(jsonerr.UnexpectedToken, tok.Line, tok.Column, "unexpected token %v", tok.Kind)
	}
}

func (p *Parser) enter(tok lexer.Token) error {
	p.depth++
	if p.depth > p.maxDepth {
		return jsonerr.New(jsonerr.StackOverflow, tok.Line, tok.Column, "nesting exceeds limit of %d", p.maxDepth)
	}

	return nil
}

func (p *Parser) exit() { p.depth-- }

func (p *Parser) parseObject(open lexer.Token) (*value.Value, error) {
	if err := p.enter(open); err != nil {
		p.exit()

		return nil, err
	}

	defer p.exit()

	obj := value.NewObject()

	tok := p.peek()
	if tok.Kind == lexer.RBrace {
		p.next()

		return obj, nil
	}

	for {
		keyTok := p.next()
		if keyTok.Kind == lexer.Error {
			return nil, keyTok.Err
		}

		if keyTok.Kind != lexer.String {
			return nil, jsonerr.New(jsonerr.UnexpectedToken, keyTok.Line, keyTok.Column, "expected string key, got %v", keyTok.Kind)
		}

		colon := p.next()
		if colon.Kind == lexer.Error {
			return nil, colon.Err
		}

		if colon.Kind != lexer.Colon {
			return nil, jsonerr.New(jsonerr.UnexpectedToken, colon.Line, colon.Column, "expected ':', got %v", colon.Kind)
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		// Duplicate keys: the later value replaces the earlier one; no
		// error (spec.md §4.2). value.Value.Set already implements this
		// replace-in-place semantics.
		if err := obj.Set(keyTok.Str, val); err != nil {
			return nil, err
		}

		sep := p.next()
		if sep.Kind == lexer.Error {
			return nil, sep.Err
		}

		switch sep.Kind {
		case lexer.Comma:
			continue
		case lexer.RBrace:
			return obj, nil
		default:
			return nil, jsonerr.New(jsonerr.UnexpectedToken, sep.Line, sep.Column, "expected ',' or '}', got %v", sep.Kind)
		}
	}
}

func (p *Parser) parseArray(open lexer.Token) (*value.Value, error) {
	if err := p.enter(open); err != nil {
		p.exit()

		return nil, err
	}

	defer p.exit()

	arr := value.NewArray()

	tok := p.peek()
	if tok.Kind == lexer.RBracket {
		p.next()

		return arr, nil
	}

	for {
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		if err := arr.Append(val); err != nil {
			return nil, err
		}

		sep := p.next()
		if sep.Kind == lexer.Error {
			return nil, sep.Err
		}

		switch sep.Kind {
		case lexer.Comma:
			continue
		case lexer.RBracket:
			return arr, nil
		default:
			return nil, jsonerr.New(jsonerr.UnexpectedToken, sep.Line, sep.Column, "expected ',' or ']', got %v", sep.Kind)
		}
	}
}
