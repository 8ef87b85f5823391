// Package share encodes documents into URL-embeddable tokens and back.
//
// A token is the document's UTF-8 bytes in the base64 URL-safe alphabet without
// padding, so it can sit in a query parameter without further escaping.
package share

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Param is the query parameter that carries a token.
const Param = "content"

// DefaultMaxTokenLength caps accepted tokens (64 KiB of token text).
const DefaultMaxTokenLength = 64 << 10

// ErrMalformedToken is wrapped by every DecodeError.
var ErrMalformedToken = errors.New("malformed share token")

// Token is an encoded document.
type Token string

// DecodeError reports why a token could not be decoded.
type DecodeError struct {
	Cause string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedToken, e.Cause)
}

func (e *DecodeError) Unwrap() error { return ErrMalformedToken }

var encoding = base64.RawURLEncoding.Strict()

// Codec encodes and decodes tokens. The zero value uses DefaultMaxTokenLength.
type Codec struct {
	MaxTokenLength int
}

// Encode returns the token for raw. It never fails.
func (Codec) Encode(raw string) Token {
	return Token(encoding.EncodeToString([]byte(raw)))
}

// Decode returns the document for token. On error the document is always "".
func (c Codec) Decode(token string) (string, error) {
	limit := c.MaxTokenLength
	if limit <= 0 {
		limit = DefaultMaxTokenLength
	}
	if len(token) > limit {
		return "", &DecodeError{Cause: fmt.Sprintf("token is %d bytes (max %d)", len(token), limit)}
	}

	if i := strings.IndexFunc(token, notInAlphabet); i >= 0 {
		r, _ := utf8.DecodeRuneInString(token[i:])
		return "", &DecodeError{Cause: fmt.Sprintf("character %q at offset %d is outside the token alphabet", r, i)}
	}

	data, err := encoding.DecodeString(token)
	if err != nil {
		return "", &DecodeError{Cause: err.Error()}
	}
	if !utf8.Valid(data) {
		return "", &DecodeError{Cause: "decoded content is not valid UTF-8 text"}
	}
	return string(data), nil
}

func notInAlphabet(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return false
	}
	return true
}

var defaultCodec Codec

// Encode encodes raw with the default codec.
func Encode(raw string) Token { return defaultCodec.Encode(raw) }

// Decode decodes token with the default codec.
func Decode(token string) (string, error) { return defaultCodec.Decode(token) }

// URL builds the sharing address <origin>?content=<token>.
// Any query or fragment already on origin is replaced.
func URL(origin string, token Token) string {
	origin = strings.TrimRight(origin, "?#")
	if i := strings.IndexAny(origin, "?#"); i >= 0 {
		origin = origin[:i]
	}
	return origin + "?" + Param + "=" + string(token)
}

// TokenFrom reads the token from query values. present is true when the
// parameter key exists, even with an empty value.
func TokenFrom(q url.Values) (token string, present bool) {
	vals, ok := q[Param]
	if !ok {
		return "", false
	}
	if len(vals) == 0 {
		return "", true
	}
	return vals[0], true
}
