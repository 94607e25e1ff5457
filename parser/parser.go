package parser

import (
	"strconv"
	"strings"

	"github.com/utlx/utlx/errs"
	"github.com/utlx/utlx/lexer"
	"github.com/utlx/utlx/udm"
)

// Parser is a recursive-descent parser with Pratt-style precedence
// climbing for expressions. It stops at the first syntax error and
// returns it; it does not resynchronise at commas or closing braces, so
// at most one error is reported per parse.
type Parser struct {
	toks   []lexer.Token
	pos    int
	errors []error
}

// Parse tokenizes src and parses it into a Program.
func Parse(src string) (*Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	header, err := p.parseHeader()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing token %s", p.cur().Lexeme)
	}
	return &Program{Header: header, Body: body}, nil
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) atEOF() bool       { return p.cur().Kind == lexer.EOF }
func (p *Parser) loc() errs.Location {
	t := p.cur()
	return errs.Location{Line: t.Line, Column: t.Column, Offset: t.Offset}
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) match(k lexer.Kind) (lexer.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	return lexer.Token{}, errs.Newf(errs.KindSyntaxError, "expected %s, found %s %q", k, p.cur().Kind, p.cur().Lexeme).At(p.loc())
}

func (p *Parser) errorf(format string, args ...any) error {
	return errs.Newf(errs.KindSyntaxError, format, args...).At(p.loc())
}

// ---------------------------------------------------------------------
// Header
// ---------------------------------------------------------------------

var validFormats = map[string]bool{
	"json": true, "xml": true, "csv": true, "yaml": true,
	"xsd": true, "jsch": true, "auto": true,
}

func (p *Parser) parseHeader() (Header, error) {
	var h Header

	tok, err := p.expect(lexer.HeaderDirective)
	if err != nil {
		return h, errs.Wrap(errs.KindHeaderError, err, "script must begin with a %utlx version directive")
	}
	_ = tok
	verTok, err := p.expect(lexer.Number)
	if err != nil {
		return h, errs.New(errs.KindHeaderError, "expected version number after %utlx")
	}
	h.Version = verTok.Lexeme

	sawInput, sawOutput := false, false
	for {
		switch p.cur().Kind {
		case lexer.KwInput:
			if sawInput {
				return h, errs.New(errs.KindHeaderError, "duplicate 'input' declaration")
			}
			sawInput = true
			inputs, err := p.parseInputDecls()
			if err != nil {
				return h, err
			}
			h.Inputs = inputs
		case lexer.KwOutput:
			if sawOutput {
				return h, errs.New(errs.KindHeaderError, "duplicate 'output' declaration")
			}
			sawOutput = true
			out, err := p.parseOutputDecl()
			if err != nil {
				return h, err
			}
			h.Output = out
		case lexer.Separator:
			p.advance()
			if !sawOutput {
				return h, errs.New(errs.KindHeaderError, "missing required 'output' declaration")
			}
			return h, nil
		default:
			return h, errs.Newf(errs.KindHeaderError, "unexpected token %q in header", p.cur().Lexeme).At(p.loc())
		}
	}
}

// defaultInputName is the input name a single unnamed `input FORMAT`
// declaration is given: a script can write `input json`/`input xml` with
// no name at all and then refer to `$input` in the body. The colon-joined
// multi-input form always requires an explicit name per input.
const defaultInputName = "input"

func (p *Parser) parseInputDecls() ([]InputDecl, error) {
	p.advance() // consume 'input'
	if _, ok := p.match(lexer.Colon); ok {
		var decls []InputDecl
		for {
			d, err := p.parseOneInputDecl(false)
			if err != nil {
				return nil, err
			}
			decls = append(decls, d)
			if _, ok := p.match(lexer.Comma); !ok {
				break
			}
		}
		return decls, nil
	}
	d, err := p.parseOneInputDecl(true)
	if err != nil {
		return nil, err
	}
	return []InputDecl{d}, nil
}

// parseOneInputDecl parses `NAME FORMAT [opts]`. When allowImplicitName is
// set (the unqualified single-input form only) and what would otherwise
// be the name token is itself a recognised format with nothing but
// options/the header separator following, it is taken to be the format
// and the input is named defaultInputName instead — resolving the `NAME
// FORMAT` vs `FORMAT` ambiguity the same way a human reader would, by
// format-name recognition.
func (p *Parser) parseOneInputDecl(allowImplicitName bool) (InputDecl, error) {
	loc := p.loc()
	nameTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return InputDecl{}, errs.Wrap(errs.KindHeaderError, err, "expected input name")
	}
	if allowImplicitName && validFormats[nameTok.Lexeme] && !p.check(lexer.Identifier) {
		opts, err := p.parseOptionalOptions(nameTok.Lexeme)
		if err != nil {
			return InputDecl{}, err
		}
		return InputDecl{Name: defaultInputName, Format: nameTok.Lexeme, Options: opts, Loc: loc}, nil
	}
	fmtTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return InputDecl{}, errs.Wrap(errs.KindHeaderError, err, "expected input format")
	}
	if !validFormats[fmtTok.Lexeme] {
		return InputDecl{}, errs.Newf(errs.KindHeaderError, "unknown input format %q", fmtTok.Lexeme).At(p.loc())
	}
	opts, err := p.parseOptionalOptions(fmtTok.Lexeme)
	if err != nil {
		return InputDecl{}, err
	}
	return InputDecl{Name: nameTok.Lexeme, Format: fmtTok.Lexeme, Options: opts, Loc: loc}, nil
}

func (p *Parser) parseOutputDecl() (OutputDecl, error) {
	loc := p.loc()
	p.advance() // consume 'output'
	fmtTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return OutputDecl{}, errs.Wrap(errs.KindHeaderError, err, "expected output format")
	}
	if !validFormats[fmtTok.Lexeme] || fmtTok.Lexeme == "auto" {
		return OutputDecl{}, errs.Newf(errs.KindHeaderError, "unknown output format %q", fmtTok.Lexeme).At(p.loc())
	}
	opts, err := p.parseOptionalOptions(fmtTok.Lexeme)
	if err != nil {
		return OutputDecl{}, err
	}
	return OutputDecl{Format: fmtTok.Lexeme, Options: opts, Loc: loc}, nil
}

// recognisedOptions is the enumerated, per-format allow-list: unknown
// option keys are a header error, never silently ignored.
var recognisedOptions = map[string]map[string]bool{
	"csv":  {"headers": true, "delimiter": true, "quote": true, "lineBreak": true, "includeBOM": true},
	"xml":  {"encoding": true},
	"json": {"pretty": true, "indent": true, "sortKeys": true, "allowComments": true, "allowTrailingCommas": true},
	"yaml": {"flowStyle": true},
}

func (p *Parser) parseOptionalOptions(format string) (map[string]any, error) {
	if !p.check(lexer.LBrace) {
		return nil, nil
	}
	p.advance()
	opts := make(map[string]any)
	allowed := recognisedOptions[format]
	for !p.check(lexer.RBrace) {
		keyTok, err := p.expect(lexer.Identifier)
		if err != nil {
			return nil, errs.Wrap(errs.KindHeaderError, err, "expected option name")
		}
		if allowed != nil && !allowed[keyTok.Lexeme] {
			return nil, errs.Newf(errs.KindHeaderError, "unknown option %q for format %q", keyTok.Lexeme, format).At(p.loc())
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		val, err := p.parseOptionValue()
		if err != nil {
			return nil, err
		}
		opts[keyTok.Lexeme] = val
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, errs.Wrap(errs.KindHeaderError, err, "unterminated option map")
	}
	return opts, nil
}

func (p *Parser) parseOptionValue() (any, error) {
	switch p.cur().Kind {
	case lexer.KwTrue:
		p.advance()
		return true, nil
	case lexer.KwFalse:
		p.advance()
		return false, nil
	case lexer.String:
		t := p.advance()
		return t.Lexeme, nil
	case lexer.Number:
		t := p.advance()
		if strings.ContainsAny(t.Lexeme, ".eE") {
			f, err := strconv.ParseFloat(t.Lexeme, 64)
			return f, err
		}
		i, err := strconv.ParseInt(t.Lexeme, 10, 64)
		return i, err
	default:
		return nil, errs.Newf(errs.KindHeaderError, "invalid option value %q", p.cur().Lexeme).At(p.loc())
	}
}

// ---------------------------------------------------------------------
// Expressions (precedence table, tight to loose: member/unary/**/
// mul/add/compare/eq/&&/||/??/ternary/pipe)
// ---------------------------------------------------------------------

func (p *Parser) parseExpr() (Expr, error) {
	return p.parsePipe()
}

func (p *Parser) parsePipe() (Expr, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(lexer.Pipe)
		if !ok {
			return left, nil
		}
		right, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		left = &Pipe{baseExpr{loc(tok)}, left, right}
	}
}

func (p *Parser) parseTernary() (Expr, error) {
	cond, err := p.parseCoalesce()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.match(lexer.Question); ok {
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		els, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &Ternary{baseExpr{loc(tok)}, cond, then, els}, nil
	}
	return cond, nil
}

func (p *Parser) parseCoalesce() (Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(lexer.Coalesce)
		if !ok {
			return left, nil
		}
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		left = &Binary{baseExpr{loc(tok)}, "??", left, right}
	}
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(lexer.OrOr)
		if !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{baseExpr{loc(tok)}, "||", left, right}
	}
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(lexer.AndAnd)
		if !ok {
			return left, nil
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &Binary{baseExpr{loc(tok)}, "&&", left, right}
	}
}

func (p *Parser) parseEquality() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		var tok lexer.Token
		var ok bool
		if tok, ok = p.match(lexer.EqEq); ok {
			op = "=="
		} else if tok, ok = p.match(lexer.NotEq); ok {
			op = "!="
		} else {
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &Binary{baseExpr{loc(tok)}, op, left, right}
	}
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		var tok lexer.Token
		var ok bool
		if tok, ok = p.match(lexer.LtEq); ok {
			op = "<="
		} else if tok, ok = p.match(lexer.GtEq); ok {
			op = ">="
		} else if tok, ok = p.match(lexer.Lt); ok {
			op = "<"
		} else if tok, ok = p.match(lexer.Gt); ok {
			op = ">"
		} else {
			return left, nil
		}
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = &Binary{baseExpr{loc(tok)}, op, left, right}
	}
}

func (p *Parser) parseAdd() (Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		var tok lexer.Token
		var ok bool
		if tok, ok = p.match(lexer.Plus); ok {
			op = "+"
		} else if tok, ok = p.match(lexer.Minus); ok {
			op = "-"
		} else {
			return left, nil
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &Binary{baseExpr{loc(tok)}, op, left, right}
	}
}

func (p *Parser) parseMul() (Expr, error) {
	left, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		var tok lexer.Token
		var ok bool
		if tok, ok = p.match(lexer.Star); ok {
			op = "*"
		} else if tok, ok = p.match(lexer.Slash); ok {
			op = "/"
		} else if tok, ok = p.match(lexer.Percent); ok {
			op = "%"
		} else {
			return left, nil
		}
		right, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		left = &Binary{baseExpr{loc(tok)}, op, left, right}
	}
}

func (p *Parser) parsePow() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.match(lexer.StarStar); ok {
		right, err := p.parsePow() // right-associative
		if err != nil {
			return nil, err
		}
		return &Binary{baseExpr{loc(tok)}, "**", left, right}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if tok, ok := p.match(lexer.Minus); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{baseExpr{loc(tok)}, "-", operand}, nil
	}
	if tok, ok := p.match(lexer.Bang); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{baseExpr{loc(tok)}, "!", operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(lexer.Dot):
			tok := p.advance()
			if _, ok := p.match(lexer.At); ok {
				keyTok, err := p.expect(lexer.Identifier)
				if err != nil {
					return nil, err
				}
				expr = &AttributeAccess{baseExpr{loc(tok)}, expr, keyTok.Lexeme}
				continue
			}
			keyTok, err := p.expect(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			expr = &PropertyAccess{baseExpr{loc(tok)}, expr, keyTok.Lexeme}
		case p.check(lexer.SafeNav):
			tok := p.advance()
			keyTok, err := p.expect(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			expr = &SafeNav{baseExpr{loc(tok)}, expr, keyTok.Lexeme}
		case p.check(lexer.LBracket):
			tok := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			expr = &IndexAccess{baseExpr{loc(tok)}, expr, idx}
		case p.check(lexer.LParen):
			tok := p.advance()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			expr = &Call{baseExpr{loc(tok)}, expr, args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgList() ([]Expr, error) {
	var args []Expr
	for !p.check(lexer.RParen) {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.Number:
		p.advance()
		return parseNumberLiteral(tok)
	case lexer.String:
		p.advance()
		return &Literal{baseExpr{loc(tok)}, udm.String(tok.Lexeme)}, nil
	case lexer.KwTrue:
		p.advance()
		return &Literal{baseExpr{loc(tok)}, udm.Bool(true)}, nil
	case lexer.KwFalse:
		p.advance()
		return &Literal{baseExpr{loc(tok)}, udm.Bool(false)}, nil
	case lexer.KwNull:
		p.advance()
		return &Literal{baseExpr{loc(tok)}, udm.Null()}, nil
	case lexer.Dollar:
		p.advance()
		nameTok, err := p.expect(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		return &InputRef{baseExpr{loc(tok)}, nameTok.Lexeme}, nil
	case lexer.Identifier:
		p.advance()
		if fatTok, ok := p.match(lexer.FatArrow); ok {
			body, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &Lambda{baseExpr{loc(fatTok)}, []string{tok.Lexeme}, body}, nil
		}
		return &Identifier{baseExpr{loc(tok)}, tok.Lexeme}, nil
	case lexer.LParen:
		return p.parseParenOrLambda()
	case lexer.LBracket:
		return p.parseArrayLiteral()
	case lexer.LBrace:
		return p.parseObjectLiteral()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwMatch:
		return p.parseMatch()
	case lexer.KwLet:
		return p.parseLet()
	default:
		return nil, p.errorf("unexpected token %q", tok.Lexeme)
	}
}

func parseNumberLiteral(tok lexer.Token) (Expr, error) {
	if strings.ContainsAny(tok.Lexeme, ".eE") {
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, errs.Newf(errs.KindSyntaxError, "invalid number literal %q", tok.Lexeme).At(loc(tok))
		}
		return &Literal{baseExpr{loc(tok)}, udm.Float(f)}, nil
	}
	i, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		// Falls back to float when the integer literal overflows int64.
		f, ferr := strconv.ParseFloat(tok.Lexeme, 64)
		if ferr != nil {
			return nil, errs.Newf(errs.KindSyntaxError, "invalid number literal %q", tok.Lexeme).At(loc(tok))
		}
		return &Literal{baseExpr{loc(tok)}, udm.Float(f)}, nil
	}
	return &Literal{baseExpr{loc(tok)}, udm.Int(i)}, nil
}

// parseParenOrLambda disambiguates `(expr)` from `(a, b) => body` by
// tentatively scanning a parameter list and backtracking if it does not
// turn out to be followed by `=>`.
func (p *Parser) parseParenOrLambda() (Expr, error) {
	start := p.pos
	openTok := p.advance() // consume '('

	if params, ok := p.tryParseLambdaParams(); ok {
		if fatTok, isLambda := p.match(lexer.FatArrow); isLambda {
			body, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &Lambda{baseExpr{loc(fatTok)}, params, body}, nil
		}
	}
	// Not a lambda: rewind and parse a parenthesised expression instead.
	p.pos = start
	p.advance() // consume '(' again
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	_ = openTok
	return expr, nil
}

func (p *Parser) tryParseLambdaParams() ([]string, bool) {
	if p.check(lexer.RParen) {
		p.advance()
		return nil, true
	}
	var params []string
	for {
		if !p.check(lexer.Identifier) {
			return nil, false
		}
		params = append(params, p.advance().Lexeme)
		if _, ok := p.match(lexer.Comma); ok {
			continue
		}
		break
	}
	if !p.check(lexer.RParen) {
		return nil, false
	}
	p.advance()
	return params, true
}

func (p *Parser) parseArrayLiteral() (Expr, error) {
	tok := p.advance() // '['
	var elems []Expr
	for !p.check(lexer.RBracket) {
		if spreadTok, ok := p.match(lexer.Ellipsis); ok {
			target, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, &SpreadInArray{baseExpr{loc(spreadTok)}, target})
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return &ArrayLiteral{baseExpr{loc(tok)}, elems}, nil
}

func (p *Parser) parseObjectLiteral() (Expr, error) {
	tok := p.advance() // '{'
	var entries []ObjectEntry
	for !p.check(lexer.RBrace) {
		switch {
		case p.check(lexer.KwLet):
			p.advance()
			nameTok, err := p.expect(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.Assign); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.Semicolon); err != nil {
				return nil, err
			}
			entries = append(entries, ObjectEntry{Kind: EntryLet, Key: nameTok.Lexeme, Value: val})
			continue
		case p.check(lexer.Ellipsis):
			p.advance()
			target, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ObjectEntry{Kind: EntrySpread, Value: target})
		default:
			var key string
			switch {
			case p.check(lexer.Identifier):
				key = p.advance().Lexeme
			case p.check(lexer.String):
				key = p.advance().Lexeme
			default:
				return nil, p.errorf("expected object key, found %q", p.cur().Lexeme)
			}
			if _, err := p.expect(lexer.Colon); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ObjectEntry{Kind: EntryKeyValue, Key: key, Value: val})
		}
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return &ObjectLiteral{baseExpr{loc(tok)}, entries}, nil
}

// parseIf parses `if (cond) thenExpr else elseExpr` — UTL-X has no bare statement
// form, so If is always a fully-applied expression with a mandatory else
// branch, mirroring Ternary.
func (p *Parser) parseIf() (Expr, error) {
	tok := p.advance() // 'if'
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KwElse); err != nil {
		return nil, errs.Wrap(errs.KindSyntaxError, err, "'if' requires an 'else' branch")
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &If{baseExpr{loc(tok)}, cond, then, els}, nil
}

func (p *Parser) parseMatch() (Expr, error) {
	tok := p.advance() // 'match'
	subject, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	var arms []MatchArm
	for !p.check(lexer.RBrace) {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var guard Expr
		if _, ok := p.match(lexer.KwIf); ok {
			guard, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.FatArrow); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arms = append(arms, MatchArm{Pattern: pat, Guard: guard, Body: body})
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return &Match{baseExpr{loc(tok)}, subject, arms}, nil
}

func (p *Parser) parsePattern() (Pattern, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.Identifier:
		if tok.Lexeme == "_" {
			p.advance()
			return PatternWildcard{}, nil
		}
		p.advance()
		return PatternIdentifier{Name: tok.Lexeme}, nil
	case lexer.Number:
		p.advance()
		lit, err := parseNumberLiteral(tok)
		if err != nil {
			return nil, err
		}
		return PatternLiteral{Value: lit.(*Literal).Value}, nil
	case lexer.String:
		p.advance()
		return PatternLiteral{Value: udm.String(tok.Lexeme)}, nil
	case lexer.KwTrue:
		p.advance()
		return PatternLiteral{Value: udm.Bool(true)}, nil
	case lexer.KwFalse:
		p.advance()
		return PatternLiteral{Value: udm.Bool(false)}, nil
	case lexer.KwNull:
		p.advance()
		return PatternLiteral{Value: udm.Null()}, nil
	default:
		return nil, p.errorf("invalid match pattern %q", tok.Lexeme)
	}
}

func (p *Parser) parseLet() (Expr, error) {
	tok := p.advance() // 'let'
	nameTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Let{baseExpr{loc(tok)}, nameTok.Lexeme, val, body}, nil
}

func loc(t lexer.Token) errs.Location {
	return errs.Location{Line: t.Line, Column: t.Column, Offset: t.Offset}
}
