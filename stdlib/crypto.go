package stdlib

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "md5", MinArity: 1, MaxArity: 1, Call: hashMD5})
	register(Func{Name: "sha1", MinArity: 1, MaxArity: 1, Call: hashSHA1})
	register(Func{Name: "sha256", MinArity: 1, MaxArity: 1, Call: hashSHA256})
	register(Func{Name: "sha512", MinArity: 1, MaxArity: 1, Call: hashSHA512})
	register(Func{Name: "hmacSHA256", MinArity: 2, MaxArity: 2, Call: hmacSHA256Fn})
	register(Func{Name: "hmacSHA1", MinArity: 2, MaxArity: 2, Call: hmacSHA1Fn})
	register(Func{Name: "aesEncrypt", MinArity: 2, MaxArity: 2, Call: aesEncryptFn})
	register(Func{Name: "aesDecrypt", MinArity: 2, MaxArity: 2, Call: aesDecryptFn})
}

func digestHex(fn string, args []*udm.Value, newHash func() hash.Hash) (*udm.Value, error) {
	b, err := asBinaryOrString(fn, args[0])
	if err != nil {
		return nil, err
	}
	h := newHash()
	h.Write(b)
	return udm.String(hex.EncodeToString(h.Sum(nil))), nil
}

func hashMD5(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return digestHex("md5", args, md5.New)
}

func hashSHA1(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return digestHex("sha1", args, sha1.New)
}

func hashSHA256(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return digestHex("sha256", args, sha256.New)
}

func hashSHA512(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return digestHex("sha512", args, sha512.New)
}

func hmacDigest(fn string, args []*udm.Value, newHash func() hash.Hash) (*udm.Value, error) {
	msg, err := asBinaryOrString(fn, args[0])
	if err != nil {
		return nil, err
	}
	key, err := asBinaryOrString(fn, args[1])
	if err != nil {
		return nil, err
	}
	mac := hmac.New(newHash, key)
	mac.Write(msg)
	return udm.String(hex.EncodeToString(mac.Sum(nil))), nil
}

func hmacSHA256Fn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return hmacDigest("hmacSHA256", args, sha256.New)
}

func hmacSHA1Fn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	return hmacDigest("hmacSHA1", args, sha1.New)
}

// aesEncryptFn performs AES-256-GCM with a random nonce prepended to the
// ciphertext, the standard Go construction for authenticated encryption
// (see arturoeanton/go-xml's own cert.go for the same crypto/... import
// family). The key, a binary value or a string taken as its raw bytes (it
// is not base64-decoded), must be exactly 32 bytes.
func aesEncryptFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	plaintext, err := asBinaryOrString("aesEncrypt", args[0])
	if err != nil {
		return nil, err
	}
	key, err := asBinaryOrString("aesEncrypt", args[1])
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, rerr := io.ReadFull(rand.Reader, nonce); rerr != nil {
		return nil, argErr("aesEncrypt", "could not generate nonce: "+rerr.Error())
	}
	ct := gcm.Seal(nonce, nonce, plaintext, nil)
	return udm.Binary(ct), nil
}

func aesDecryptFn(_ *Context, args []*udm.Value) (*udm.Value, error) {
	ciphertext, err := asBinaryOrString("aesDecrypt", args[0])
	if err != nil {
		return nil, err
	}
	key, err := asBinaryOrString("aesDecrypt", args[1])
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, argErr("aesDecrypt", "ciphertext shorter than nonce size")
	}
	nonce, ct := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	pt, derr := gcm.Open(nil, nonce, ct, nil)
	if derr != nil {
		return nil, argErr("aesDecrypt", "decryption failed: authentication tag mismatch")
	}
	return udm.Binary(pt), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, argErr("aesEncrypt/aesDecrypt", "key must be exactly 32 bytes (AES-256)")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, argErr("aesEncrypt/aesDecrypt", "invalid key: "+err.Error())
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, argErr("aesEncrypt/aesDecrypt", "could not initialise GCM: "+err.Error())
	}
	return gcm, nil
}
