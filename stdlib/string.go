package stdlib

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "upper", MinArity: 1, MaxArity: 1, Call: strUpper})
	register(Func{Name: "lower", MinArity: 1, MaxArity: 1, Call: strLower})
	register(Func{Name: "trim", MinArity: 1, MaxArity: 1, Call: strTrim})
	register(Func{Name: "trimStart", MinArity: 1, MaxArity: 1, Call: strTrimStart})
	register(Func{Name: "trimEnd", MinArity: 1, MaxArity: 1, Call: strTrimEnd})
	register(Func{Name: "substring", MinArity: 2, MaxArity: 3, Call: strSubstring})
	register(Func{Name: "split", MinArity: 2, MaxArity: 2, Call: strSplit})
	register(Func{Name: "join", MinArity: 2, MaxArity: 2, Call: strJoin})
	register(Func{Name: "replace", MinArity: 3, MaxArity: 3, Call: strReplace})
	register(Func{Name: "replaceAll", MinArity: 3, MaxArity: 3, Call: strReplaceAll})
	register(Func{Name: "startsWith", MinArity: 2, MaxArity: 2, Call: strStartsWith})
	register(Func{Name: "endsWith", MinArity: 2, MaxArity: 2, Call: strEndsWith})
	register(Func{Name: "contains", MinArity: 2, MaxArity: 2, Call: strContains})
	register(Func{Name: "length", MinArity: 1, MaxArity: 1, Call: strLength})
	register(Func{Name: "pad", MinArity: 3, MaxArity: 3, Call: strPad})
	register(Func{Name: "padStart", MinArity: 3, MaxArity: 3, Call: strPadStart})
	register(Func{Name: "repeat", MinArity: 2, MaxArity: 2, Call: strRepeat})
	register(Func{Name: "indexOf", MinArity: 2, MaxArity: 2, Call: strIndexOf})
	register(Func{Name: "capitalize", MinArity: 1, MaxArity: 1, Call: strCapitalize})
	register(Func{Name: "camelCase", MinArity: 1, MaxArity: 1, Call: strCamelCase})
	register(Func{Name: "snakeCase", MinArity: 1, MaxArity: 1, Call: strSnakeCase})
	register(Func{Name: "kebabCase", MinArity: 1, MaxArity: 1, Call: strKebabCase})
	register(Func{Name: "matches", MinArity: 2, MaxArity: 2, Call: strMatches})
	register(Func{Name: "replaceRegex", MinArity: 3, MaxArity: 3, Call: strReplaceRegex})
	register(Func{Name: "splitRegex", MinArity: 2, MaxArity: 2, Call: strSplitRegex})
	register(Func{Name: "matchAll", MinArity: 2, MaxArity: 2, Call: strMatchAll})
}

func asStr(fn string, v *udm.Value) (string, error) {
	if v == nil || v.ScalarKind() != udm.ScalarString {
		return "", typeErr(fn, "expected a string argument, got "+v.TypeName())
	}
	return v.AsString(), nil
}

func strUpper(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("upper", args[0])
	if err != nil {
		return nil, err
	}
	return udm.String(cases.Upper(language.Und).String(s)), nil
}

func strLower(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("lower", args[0])
	if err != nil {
		return nil, err
	}
	return udm.String(cases.Lower(language.Und).String(s)), nil
}

func strTrim(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("trim", args[0])
	if err != nil {
		return nil, err
	}
	return udm.String(strings.TrimSpace(s)), nil
}

func strTrimStart(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("trimStart", args[0])
	if err != nil {
		return nil, err
	}
	return udm.String(strings.TrimLeftFunc(s, unicode.IsSpace)), nil
}

func strTrimEnd(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("trimEnd", args[0])
	if err != nil {
		return nil, err
	}
	return udm.String(strings.TrimRightFunc(s, unicode.IsSpace)), nil
}

// strSubstring operates on rune offsets, not bytes, matching the UDM's
// UTF-8 codepoint discipline. An omitted end takes the remainder.
func strSubstring(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("substring", args[0])
	if err != nil {
		return nil, err
	}
	if args[1].ScalarKind() != udm.ScalarInt {
		return nil, typeErr("substring", "start must be an integer")
	}
	runes := []rune(s)
	start := int(args[1].AsInt())
	end := len(runes)
	if len(args) == 3 {
		if args[2].ScalarKind() != udm.ScalarInt {
			return nil, typeErr("substring", "end must be an integer")
		}
		end = int(args[2].AsInt())
	}
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		return nil, errRangeOf("substring", start, end)
	}
	return udm.String(string(runes[start:end])), nil
}

func errRangeOf(fn string, start, end int) error {
	return argErr(fn, "start index must not exceed end index")
}

func strSplit(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("split", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := asStr("split", args[1])
	if err != nil {
		return nil, err
	}
	var parts []string
	if sep == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(s, sep)
	}
	out := make([]*udm.Value, len(parts))
	for i, p := range parts {
		out[i] = udm.String(p)
	}
	return udm.Array(out...), nil
}

func strJoin(_ *Context, args []*udm.Value) (*udm.Value, error) {
	arr, err := asArray("join", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := asStr("join", args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(arr))
	for i, e := range arr {
		if e.ScalarKind() != udm.ScalarString {
			return nil, typeErr("join", "array elements must be strings")
		}
		parts[i] = e.AsString()
	}
	return udm.String(strings.Join(parts, sep)), nil
}

func strReplace(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("replace", args[0])
	if err != nil {
		return nil, err
	}
	old, err := asStr("replace", args[1])
	if err != nil {
		return nil, err
	}
	n, err := asStr("replace", args[2])
	if err != nil {
		return nil, err
	}
	return udm.String(strings.Replace(s, old, n, 1)), nil
}

func strReplaceAll(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("replaceAll", args[0])
	if err != nil {
		return nil, err
	}
	old, err := asStr("replaceAll", args[1])
	if err != nil {
		return nil, err
	}
	n, err := asStr("replaceAll", args[2])
	if err != nil {
		return nil, err
	}
	return udm.String(strings.ReplaceAll(s, old, n)), nil
}

func strStartsWith(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("startsWith", args[0])
	if err != nil {
		return nil, err
	}
	p, err := asStr("startsWith", args[1])
	if err != nil {
		return nil, err
	}
	return udm.Bool(strings.HasPrefix(s, p)), nil
}

func strEndsWith(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("endsWith", args[0])
	if err != nil {
		return nil, err
	}
	p, err := asStr("endsWith", args[1])
	if err != nil {
		return nil, err
	}
	return udm.Bool(strings.HasSuffix(s, p)), nil
}

func strContains(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("contains", args[0])
	if err != nil {
		return nil, err
	}
	p, err := asStr("contains", args[1])
	if err != nil {
		return nil, err
	}
	return udm.Bool(strings.Contains(s, p)), nil
}

func strLength(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("length", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Int(int64(utf8.RuneCountInString(s))), nil
}

func strReverse(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("reverse", args[0])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return udm.String(string(runes)), nil
}

func strPad(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return padImpl("pad", args, false)
}

func strPadStart(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return padImpl("padStart", args, true)
}

func padImpl(fn string, args []*udm.Value, atStart bool) (*udm.Value, error) {
	s, err := asStr(fn, args[0])
	if err != nil {
		return nil, err
	}
	if args[1].ScalarKind() != udm.ScalarInt {
		return nil, typeErr(fn, "length must be an integer")
	}
	width := int(args[1].AsInt())
	pad, err := asStr(fn, args[2])
	if err != nil {
		return nil, err
	}
	if pad == "" {
		return nil, argErr(fn, "pad string must not be empty")
	}
	cur := utf8.RuneCountInString(s)
	if cur >= width {
		return udm.String(s), nil
	}
	need := width - cur
	var b strings.Builder
	padRunes := []rune(pad)
	for b.Len() == 0 || utf8.RuneCountInString(b.String()) < need {
		for _, r := range padRunes {
			if utf8.RuneCountInString(b.String()) >= need {
				break
			}
			b.WriteRune(r)
		}
	}
	fill := string([]rune(b.String())[:need])
	if atStart {
		return udm.String(fill + s), nil
	}
	return udm.String(s + fill), nil
}

func strRepeat(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("repeat", args[0])
	if err != nil {
		return nil, err
	}
	if args[1].ScalarKind() != udm.ScalarInt || args[1].AsInt() < 0 {
		return nil, argErr("repeat", "count must be a non-negative integer")
	}
	return udm.String(strings.Repeat(s, int(args[1].AsInt()))), nil
}

func strIndexOf(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("indexOf", args[0])
	if err != nil {
		return nil, err
	}
	p, err := asStr("indexOf", args[1])
	if err != nil {
		return nil, err
	}
	byteIdx := strings.Index(s, p)
	if byteIdx < 0 {
		return udm.Int(-1), nil
	}
	return udm.Int(int64(utf8.RuneCountInString(s[:byteIdx]))), nil
}

func strCapitalize(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("capitalize", args[0])
	if err != nil {
		return nil, err
	}
	if s == "" {
		return udm.String(s), nil
	}
	r, size := utf8.DecodeRuneInString(s)
	return udm.String(string(unicode.ToUpper(r)) + s[size:]), nil
}

// strCamelCase, strSnakeCase and strKebabCase split on runs of
// non-alphanumerics plus camel-internal word boundaries, matching the
// word segmentation convention most config-key transformers in the
// corpus use.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
			cur = append(cur, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()
	return words
}

func strCamelCase(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("camelCase", args[0])
	if err != nil {
		return nil, err
	}
	words := splitWords(s)
	var b strings.Builder
	for i, w := range words {
		lw := strings.ToLower(w)
		if i == 0 {
			b.WriteString(lw)
			continue
		}
		r, size := utf8.DecodeRuneInString(lw)
		b.WriteString(string(unicode.ToUpper(r)) + lw[size:])
	}
	return udm.String(b.String()), nil
}

func strSnakeCase(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("snakeCase", args[0])
	if err != nil {
		return nil, err
	}
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return udm.String(strings.Join(words, "_")), nil
}

func strKebabCase(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("kebabCase", args[0])
	if err != nil {
		return nil, err
	}
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return udm.String(strings.Join(words, "-")), nil
}

// compileRegex centralises regexp2 compilation (IgnoreCase via an inline
// (?i) flag is left to the pattern author, matching ECMAScript-style regex
// conventions) so every regex-backed function reports the same error kind.
func compileRegex(fn, pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.Unicode)
	if err != nil {
		return nil, argErr(fn, "invalid regular expression: "+err.Error())
	}
	return re, nil
}

func strMatches(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("matches", args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := asStr("matches", args[1])
	if err != nil {
		return nil, err
	}
	re, err := compileRegex("matches", pattern)
	if err != nil {
		return nil, err
	}
	ok, err := re.MatchString(s)
	if err != nil {
		return nil, argErr("matches", "regex evaluation failed: "+err.Error())
	}
	return udm.Bool(ok), nil
}

func strReplaceRegex(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("replaceRegex", args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := asStr("replaceRegex", args[1])
	if err != nil {
		return nil, err
	}
	repl, err := asStr("replaceRegex", args[2])
	if err != nil {
		return nil, err
	}
	re, err := compileRegex("replaceRegex", pattern)
	if err != nil {
		return nil, err
	}
	out, err := re.Replace(s, repl, -1, -1)
	if err != nil {
		return nil, argErr("replaceRegex", "regex replacement failed: "+err.Error())
	}
	return udm.String(out), nil
}

func strSplitRegex(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("splitRegex", args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := asStr("splitRegex", args[1])
	if err != nil {
		return nil, err
	}
	re, err := compileRegex("splitRegex", pattern)
	if err != nil {
		return nil, err
	}
	var parts []string
	pos := 0
	m, err := re.FindStringMatch(s)
	for m != nil && err == nil {
		parts = append(parts, s[pos:m.Index])
		pos = m.Index + m.Length
		m, err = re.FindNextMatch(m)
	}
	parts = append(parts, s[pos:])
	out := make([]*udm.Value, len(parts))
	for i, p := range parts {
		out[i] = udm.String(p)
	}
	return udm.Array(out...), nil
}

func strMatchAll(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("matchAll", args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := asStr("matchAll", args[1])
	if err != nil {
		return nil, err
	}
	re, err := compileRegex("matchAll", pattern)
	if err != nil {
		return nil, err
	}
	var out []*udm.Value
	m, err := re.FindStringMatch(s)
	for m != nil && err == nil {
		out = append(out, udm.String(m.String()))
		m, err = re.FindNextMatch(m)
	}
	return udm.Array(out...), nil
}
