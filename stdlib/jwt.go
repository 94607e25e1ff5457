package stdlib

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "jwtDecode", MinArity: 1, MaxArity: 1, Call: jwtDecodeFn})
	register(Func{Name: "jwtHeader", MinArity: 1, MaxArity: 1, Call: jwtHeaderFn})
}

// jwtDecodeFn inspects a JWT's header and payload without verifying its
// signature: a transformation engine is not a security boundary, so this
// is deliberately "decode" rather than "verify" — it performs no
// cryptographic trust decisions on its own.
func jwtDecodeFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return jwtPart("jwtDecode", args[0], 1)
}

func jwtHeaderFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return jwtPart("jwtHeader", args[0], 0)
}

func jwtPart(fn string, v *udm.Value, idx int) (*udm.Value, error) {
	s, err := asStr(fn, v)
	if err != nil {
		return nil, err
	}
	segs := strings.Split(s, ".")
	if len(segs) != 3 {
		return nil, argErr(fn, "not a well-formed JWT (expected header.payload.signature)")
	}
	raw, derr := base64.RawURLEncoding.DecodeString(segs[idx])
	if derr != nil {
		return nil, argErr(fn, "invalid base64url segment: "+derr.Error())
	}
	var nv any
	if jerr := json.Unmarshal(raw, &nv); jerr != nil {
		return nil, argErr(fn, "segment is not valid JSON: "+jerr.Error())
	}
	return nativeToUDM(nv), nil
}
