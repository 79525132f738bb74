// Package charset resolves IANA character set names and converts between
// them and Go's native UTF-8 strings.
package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	nativeCharsetNameConstant           = "native"
	unknownCharsetErrorTemplateConstant = "%w: %q"
	decodeErrorTemplateConstant         = "unable to decode output: %w"
	encodeErrorTemplateConstant         = "unable to encode text: %w"
)

// ErrUnknownCharset indicates a character set name the IANA index does not recognize.
var ErrUnknownCharset = errors.New("unknown charset")

// Native is the platform default; Go strings are UTF-8 so no conversion is applied.
var Native encoding.Encoding = unicode.UTF8

// Resolve returns the encoding registered under name. Blank names and "native" map to Native.
func Resolve(name string) (encoding.Encoding, error) {
	trimmedName := strings.TrimSpace(name)
	if len(trimmedName) == 0 || strings.EqualFold(trimmedName, nativeCharsetNameConstant) {
		return Native, nil
	}
	resolvedEncoding, lookupError := ianaindex.IANA.Encoding(trimmedName)
	if lookupError != nil || resolvedEncoding == nil {
		return nil, fmt.Errorf(unknownCharsetErrorTemplateConstant, ErrUnknownCharset, trimmedName)
	}
	return resolvedEncoding, nil
}

// Decode converts raw bytes in the given encoding into a UTF-8 string.
func Decode(sourceEncoding encoding.Encoding, raw []byte) (string, error) {
	if sourceEncoding == nil || sourceEncoding == Native {
		return string(raw), nil
	}
	decoded, decodeError := sourceEncoding.NewDecoder().Bytes(raw)
	if decodeError != nil {
		return "", fmt.Errorf(decodeErrorTemplateConstant, decodeError)
	}
	return string(decoded), nil
}

// Encode converts a UTF-8 string into bytes in the target encoding.
func Encode(targetEncoding encoding.Encoding, text string) ([]byte, error) {
	if targetEncoding == nil || targetEncoding == Native {
		return []byte(text), nil
	}
	encoded, encodeError := targetEncoding.NewEncoder().Bytes([]byte(text))
	if encodeError != nil {
		return nil, fmt.Errorf(encodeErrorTemplateConstant, encodeError)
	}
	return encoded, nil
}
