package stdlib

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "parseNumber", MinArity: 1, MaxArity: 2, Call: parseNumberFn})
	register(Func{Name: "formatNumber", MinArity: 2, MaxArity: 3, Call: formatNumberFn})
}

// regionalStyle names the grouping/decimal separator convention a
// region uses, matching the two families most host locales fall into.
type regionalStyle struct {
	group   byte
	decimal byte
}

var regionalStyles = map[string]regionalStyle{
	"en-US": {group: ',', decimal: '.'},
	"en-GB": {group: ',', decimal: '.'},
	"de-DE": {group: '.', decimal: ','},
	"fr-FR": {group: ' ', decimal: ','},
	"de-CH": {group: '\'', decimal: '.'},
}

func styleFor(locale string) regionalStyle {
	if s, ok := regionalStyles[locale]; ok {
		return s
	}
	return regionalStyles["en-US"]
}

// parseNumberFn parses a regionally-formatted numeric string (e.g.
// "1.234,56" under de-DE) into an int or float UDM scalar, defaulting to
// the en-US convention when no locale argument is given. Unlike
// formatNumberFn, this can't be built on golang.org/x/text/number: its
// Formatter type only implements fmt.Formatter for rendering output and
// exports no inverse Parse, so the regional separator table below stays
// the decode path.
func parseNumberFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("parseNumber", args[0])
	if err != nil {
		return nil, err
	}
	locale := "en-US"
	if len(args) == 2 {
		if locale, err = asStr("parseNumber", args[1]); err != nil {
			return nil, err
		}
	}
	style := styleFor(locale)
	normalised := strings.ReplaceAll(s, string(style.group), "")
	if style.decimal != '.' {
		normalised = strings.ReplaceAll(normalised, string(style.decimal), ".")
	}
	normalised = strings.TrimSpace(normalised)
	if i, ierr := strconv.ParseInt(normalised, 10, 64); ierr == nil {
		return udm.Int(i), nil
	}
	f, ferr := strconv.ParseFloat(normalised, 64)
	if ferr != nil {
		return nil, argErr("parseNumber", "could not parse \""+s+"\" as a number for locale "+locale)
	}
	return udm.Float(f), nil
}

// formatNumberFn renders a numeric value with a locale's real CLDR
// grouping and decimal separators via golang.org/x/text/number, with an
// optional fixed decimal-places count. Unknown or malformed locale tags
// fall back to en-US, matching parseNumberFn's default.
func formatNumberFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	n, _, err := asNumeric("formatNumber", args[0])
	if err != nil {
		return nil, err
	}
	locale, err := asStr("formatNumber", args[1])
	if err != nil {
		return nil, err
	}
	places := -1
	if len(args) == 3 {
		if args[2].ScalarKind() != udm.ScalarInt {
			return nil, typeErr("formatNumber", "decimal places must be an integer")
		}
		places = int(args[2].AsInt())
	}
	tag, tagErr := language.Parse(locale)
	if tagErr != nil {
		tag = language.AmericanEnglish
	}
	p := message.NewPrinter(tag)
	var opts []number.Option
	if places >= 0 {
		opts = append(opts, number.Scale(places))
	}
	var formatted string
	if places < 0 && args[0].ScalarKind() == udm.ScalarInt {
		formatted = p.Sprintf("%v", number.Decimal(args[0].AsInt(), opts...))
	} else {
		formatted = p.Sprintf("%v", number.Decimal(n, opts...))
	}
	return udm.String(formatted), nil
}
