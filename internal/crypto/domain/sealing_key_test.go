package domain

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSealingKey(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		raw := []byte("wrapped-key-material")
		encoded := base64.StdEncoding.EncodeToString(raw)

		decoded, err := DecodeSealingKey("  " + encoded + "\n")

		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	})

	t.Run("Error_Empty", func(t *testing.T) {
		decoded, err := DecodeSealingKey("   ")

		assert.ErrorIs(t, err, ErrSealingKeyNotSet)
		assert.Nil(t, decoded)
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		decoded, err := DecodeSealingKey("not base64!!")

		assert.ErrorIs(t, err, ErrInvalidSealingKeyBase64)
		assert.Nil(t, decoded)
	})
}

func TestCheckKeySize(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		wantErr bool
	}{
		{name: "Valid32Bytes", key: make([]byte, 32), wantErr: false},
		{name: "TooShort", key: make([]byte, 16), wantErr: true},
		{name: "TooLong", key: make([]byte, 64), wantErr: true},
		{name: "Nil", key: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckKeySize(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKeySize)
				return
			}
			assert.NoError(t, err)
		})
	}
}
