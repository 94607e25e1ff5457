// Package lexer converts UTL-X script source text into a stream of tokens.
// The token-kind enum and its String() method follow the style of
// other_examples/83b9f4fd...conduit/lexer/token.go — a flat
// iota-based TokenKind with a readable name for diagnostics — generalised
// to UTL-X's own token set.
package lexer

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	Error

	Identifier
	Number
	String

	// Punctuation
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	Comma
	Colon
	Semicolon
	Question
	Dot
	At
	Dollar

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	StarStar
	EqEq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr
	Bang
	Coalesce // ??
	Pipe     // |>
	FatArrow // =>
	Ellipsis // ...
	SafeNav  // ?.
	Assign   // = (let-bindings only, see DESIGN.md)

	// Keywords
	KwIf
	KwElse
	KwMatch
	KwLet
	KwTrue
	KwFalse
	KwNull
	KwInput
	KwOutput

	HeaderDirective // %utlx
	Separator       // ---
)

var names = map[Kind]string{
	EOF: "EOF", Error: "ERROR",
	Identifier: "IDENTIFIER", Number: "NUMBER", String: "STRING",
	LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	LParen: "(", RParen: ")", Comma: ",", Colon: ":", Semicolon: ";",
	Question: "?", Dot: ".", At: "@", Dollar: "$",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	StarStar: "**", EqEq: "==", NotEq: "!=", Lt: "<", LtEq: "<=",
	Gt: ">", GtEq: ">=", AndAnd: "&&", OrOr: "||", Bang: "!",
	Coalesce: "??", Pipe: "|>", FatArrow: "=>", Ellipsis: "...", SafeNav: "?.", Assign: "=",
	KwIf: "if", KwElse: "else", KwMatch: "match", KwLet: "let",
	KwTrue: "true", KwFalse: "false", KwNull: "null",
	KwInput: "input", KwOutput: "output",
	HeaderDirective: "%utlx", Separator: "---",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"if": KwIf, "else": KwElse, "match": KwMatch, "let": KwLet,
	"true": KwTrue, "false": KwFalse, "null": KwNull,
	"input": KwInput, "output": KwOutput,
}

// Token is a single lexical unit, tagged with its source position.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
	Offset int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}
