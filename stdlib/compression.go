package stdlib

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "gzipCompress", MinArity: 1, MaxArity: 1, Call: gzipCompressFn})
	register(Func{Name: "gzipDecompress", MinArity: 1, MaxArity: 1, Call: gzipDecompressFn})
	register(Func{Name: "deflateCompress", MinArity: 1, MaxArity: 1, Call: deflateCompressFn})
	register(Func{Name: "deflateDecompress", MinArity: 1, MaxArity: 1, Call: deflateDecompressFn})
	register(Func{Name: "zipEntries", MinArity: 1, MaxArity: 1, Call: zipEntriesFn})
}

func gzipCompressFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	b, err := asBinaryOrString("gzipCompress", args[0])
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, werr := w.Write(b); werr != nil {
		return nil, argErr("gzipCompress", "write failed: "+werr.Error())
	}
	if cerr := w.Close(); cerr != nil {
		return nil, argErr("gzipCompress", "close failed: "+cerr.Error())
	}
	return udm.Binary(buf.Bytes()), nil
}

func gzipDecompressFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	b, err := asBinaryOrString("gzipDecompress", args[0])
	if err != nil {
		return nil, err
	}
	r, rerr := gzip.NewReader(bytes.NewReader(b))
	if rerr != nil {
		return nil, argErr("gzipDecompress", "invalid gzip stream: "+rerr.Error())
	}
	defer r.Close()
	out, rerr := io.ReadAll(r)
	if rerr != nil {
		return nil, argErr("gzipDecompress", "decompression failed: "+rerr.Error())
	}
	return udm.Binary(out), nil
}

func deflateCompressFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	b, err := asBinaryOrString("deflateCompress", args[0])
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w, werr := flate.NewWriter(&buf, flate.DefaultCompression)
	if werr != nil {
		return nil, argErr("deflateCompress", werr.Error())
	}
	if _, werr := w.Write(b); werr != nil {
		return nil, argErr("deflateCompress", "write failed: "+werr.Error())
	}
	if cerr := w.Close(); cerr != nil {
		return nil, argErr("deflateCompress", "close failed: "+cerr.Error())
	}
	return udm.Binary(buf.Bytes()), nil
}

func deflateDecompressFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	b, err := asBinaryOrString("deflateDecompress", args[0])
	if err != nil {
		return nil, err
	}
	r := flate.NewReader(bytes.NewReader(b))
	defer r.Close()
	out, rerr := io.ReadAll(r)
	if rerr != nil {
		return nil, argErr("deflateDecompress", "decompression failed: "+rerr.Error())
	}
	return udm.Binary(out), nil
}

// zipEntriesFn lists a zip archive's entries as [{name, size, content}]
// with content decompressed to binary, letting a transform unpack a
// multi-file payload without a dedicated adapter.
func zipEntriesFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	b, err := asBinaryOrString("zipEntries", args[0])
	if err != nil {
		return nil, err
	}
	zr, zerr := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if zerr != nil {
		return nil, argErr("zipEntries", "invalid zip archive: "+zerr.Error())
	}
	var out []*udm.Value
	for _, f := range zr.File {
		rc, oerr := f.Open()
		if oerr != nil {
			return nil, argErr("zipEntries", "could not open entry "+f.Name+": "+oerr.Error())
		}
		content, rerr := io.ReadAll(rc)
		rc.Close()
		if rerr != nil {
			return nil, argErr("zipEntries", "could not read entry "+f.Name+": "+rerr.Error())
		}
		bld := udm.NewObjectBuilder()
		bld.Set("name", udm.String(f.Name))
		bld.Set("size", udm.Int(int64(f.UncompressedSize64)))
		bld.Set("content", udm.Binary(content))
		out = append(out, udm.NewObject(bld.Build()))
	}
	return udm.Array(out...), nil
}
