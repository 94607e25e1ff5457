package stdlib

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/url"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "base64Encode", MinArity: 1, MaxArity: 1, Call: encBase64Encode})
	register(Func{Name: "base64Decode", MinArity: 1, MaxArity: 1, Call: encBase64Decode})
	register(Func{Name: "hexEncode", MinArity: 1, MaxArity: 1, Call: encHexEncode})
	register(Func{Name: "hexDecode", MinArity: 1, MaxArity: 1, Call: encHexDecode})
	register(Func{Name: "urlEncode", MinArity: 1, MaxArity: 1, Call: encURLEncode})
	register(Func{Name: "urlDecode", MinArity: 1, MaxArity: 1, Call: encURLDecode})
	register(Func{Name: "toJSON", MinArity: 1, MaxArity: 1, Call: encToJSON})
	register(Func{Name: "fromJSON", MinArity: 1, MaxArity: 1, Call: encFromJSON})
}

func asBinaryOrString(fn string, v *udm.Value) ([]byte, error) {
	switch {
	case v.Kind() == udm.KindBinary:
		return v.AsBinary(), nil
	case v.ScalarKind() == udm.ScalarString:
		return []byte(v.AsString()), nil
	default:
		return nil, typeErr(fn, "expected a string or binary argument, got "+v.TypeName())
	}
}

func encBase64Encode(_ *Context, args []*udm.Value) (*udm.Value, error) {
	b, err := asBinaryOrString("base64Encode", args[0])
	if err != nil {
		return nil, err
	}
	return udm.String(base64.StdEncoding.EncodeToString(b)), nil
}

func encBase64Decode(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("base64Decode", args[0])
	if err != nil {
		return nil, err
	}
	b, derr := base64.StdEncoding.DecodeString(s)
	if derr != nil {
		return nil, argErr("base64Decode", "invalid base64 input: "+derr.Error())
	}
	return udm.Binary(b), nil
}

func encHexEncode(_ *Context, args []*udm.Value) (*udm.Value, error) {
	b, err := asBinaryOrString("hexEncode", args[0])
	if err != nil {
		return nil, err
	}
	return udm.String(hex.EncodeToString(b)), nil
}

func encHexDecode(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("hexDecode", args[0])
	if err != nil {
		return nil, err
	}
	b, derr := hex.DecodeString(s)
	if derr != nil {
		return nil, argErr("hexDecode", "invalid hex input: "+derr.Error())
	}
	return udm.Binary(b), nil
}

func encURLEncode(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("urlEncode", args[0])
	if err != nil {
		return nil, err
	}
	return udm.String(url.QueryEscape(s)), nil
}

func encURLDecode(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("urlDecode", args[0])
	if err != nil {
		return nil, err
	}
	out, derr := url.QueryUnescape(s)
	if derr != nil {
		return nil, argErr("urlDecode", "invalid percent-encoding: "+derr.Error())
	}
	return udm.String(out), nil
}

// encToJSON and encFromJSON give transform authors an escape hatch to
// embed or extract a JSON fragment as a plain string field (distinct from
// the top-level JSON format adapter), grounded on the same
// encoding/json round-trip the adapter package itself uses.
func encToJSON(_ *Context, args []*udm.Value) (*udm.Value, error) {
	nv := udmToNative(args[0])
	b, err := json.Marshal(nv)
	if err != nil {
		return nil, argErr("toJSON", "could not encode value: "+err.Error())
	}
	return udm.String(string(b)), nil
}

func encFromJSON(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("fromJSON", args[0])
	if err != nil {
		return nil, err
	}
	var nv any
	if derr := json.Unmarshal([]byte(s), &nv); derr != nil {
		return nil, argErr("fromJSON", "invalid JSON: "+derr.Error())
	}
	return nativeToUDM(nv), nil
}

// udmToNative/nativeToUDM bridge Value to the plain any tree
// encoding/json expects, covering only the scalar/array/object shapes
// JSON itself can represent. Binary, date/time and lambda values are not
// rejected: udmToNative maps them to nil, so toJSON encodes them as null.
func udmToNative(v *udm.Value) any {
	switch v.Kind() {
	case udm.KindArray:
		arr := v.AsArray()
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = udmToNative(e)
		}
		return out
	case udm.KindObject:
		out := map[string]any{}
		v.AsObject().ForEach(func(k string, ev *udm.Value) bool {
			out[k] = udmToNative(ev)
			return true
		})
		return out
	default:
		switch v.ScalarKind() {
		case udm.ScalarNull:
			return nil
		case udm.ScalarBool:
			return v.AsBool()
		case udm.ScalarInt:
			return v.AsInt()
		case udm.ScalarFloat:
			return v.AsFloat()
		case udm.ScalarString:
			return v.AsString()
		}
		return nil
	}
}

func nativeToUDM(v any) *udm.Value {
	switch t := v.(type) {
	case nil:
		return udm.Null()
	case bool:
		return udm.Bool(t)
	case float64:
		if t == float64(int64(t)) {
			return udm.Int(int64(t))
		}
		return udm.Float(t)
	case string:
		return udm.String(t)
	case []any:
		elems := make([]*udm.Value, len(t))
		for i, e := range t {
			elems[i] = nativeToUDM(e)
		}
		return udm.Array(elems...)
	case map[string]any:
		b := udm.NewObjectBuilder()
		for k, e := range t {
			b.Set(k, nativeToUDM(e))
		}
		return udm.NewObject(b.Build())
	default:
		return udm.Null()
	}
}
