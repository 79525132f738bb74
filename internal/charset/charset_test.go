package charset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shellengine/internal/charset"
)

func TestResolveCharsetNames(testInstance *testing.T) {
	testCases := []struct {
		name         string
		charsetName  string
		expectNative bool
		expectError  bool
	}{
		{name: "blank", charsetName: "", expectNative: true},
		{name: "native_keyword", charsetName: "Native", expectNative: true},
		{name: "latin1", charsetName: "ISO-8859-1"},
		{name: "windows_codepage", charsetName: "windows-1252"},
		{name: "unknown", charsetName: "not-a-charset", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedEncoding, resolveError := charset.Resolve(testCase.charsetName)
			if testCase.expectError {
				require.ErrorIs(testInstance, resolveError, charset.ErrUnknownCharset)
				return
			}
			require.NoError(testInstance, resolveError)
			require.NotNil(testInstance, resolvedEncoding)
			if testCase.expectNative {
				require.Equal(testInstance, charset.Native, resolvedEncoding)
			}
		})
	}
}

func TestDecodeAndEncodeLatin1(testInstance *testing.T) {
	latin1Encoding, resolveError := charset.Resolve("ISO-8859-1")
	require.NoError(testInstance, resolveError)

	decoded, decodeError := charset.Decode(latin1Encoding, []byte{0x63, 0x61, 0x66, 0xe9})
	require.NoError(testInstance, decodeError)
	require.Equal(testInstance, "café", decoded)

	encoded, encodeError := charset.Encode(latin1Encoding, "café")
	require.NoError(testInstance, encodeError)
	require.Equal(testInstance, []byte{0x63, 0x61, 0x66, 0xe9}, encoded)
}

func TestNativeCharsetPassesBytesThrough(testInstance *testing.T) {
	decoded, decodeError := charset.Decode(charset.Native, []byte("héllo"))
	require.NoError(testInstance, decodeError)
	require.Equal(testInstance, "héllo", decoded)

	encoded, encodeError := charset.Encode(nil, "héllo")
	require.NoError(testInstance, encodeError)
	require.Equal(testInstance, []byte("héllo"), encoded)
}
