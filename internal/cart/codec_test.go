package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCodec(t *testing.T) {
	codec, err := NewCodec("test-secret")
	assert.NoError(t, err)
	assert.NotNil(t, codec)

	_, err = NewCodec("")
	assert.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	assert.NoError(t, err)

	for _, plain := range []string{"1", "42", "4294967295", ""} {
		encoded, err := codec.Encode(plain)
		assert.NoError(t, err)
		assert.NotEqual(t, plain, encoded)

		decoded, err := codec.Decode(encoded)
		assert.NoError(t, err)
		assert.Equal(t, plain, decoded)
	}
}

func TestCodec_EncodeIsNonDeterministic(t *testing.T) {
	codec, err := NewCodec("test-secret")
	assert.NoError(t, err)

	first, err := codec.Encode("42")
	assert.NoError(t, err)
	second, err := codec.Encode("42")
	assert.NoError(t, err)

	// Fresh nonce per call: same plaintext, different ciphertext.
	assert.NotEqual(t, first, second)
}

func TestCodec_DecodeFailures(t *testing.T) {
	codec, err := NewCodec("test-secret")
	assert.NoError(t, err)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{"not base64", "not-base64!!!"},
		{"too short", "YQ=="},
		{"garbage", "Z2FyYmFnZWdhcmJhZ2VnYXJiYWdlZ2FyYmFnZQ=="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.ciphertext)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}

	t.Run("wrong key", func(t *testing.T) {
		other, err := NewCodec("other-secret")
		assert.NoError(t, err)

		encoded, err := other.Encode("42")
		assert.NoError(t, err)

		_, err = codec.Decode(encoded)
		assert.ErrorIs(t, err, ErrDecode)
	})
}
