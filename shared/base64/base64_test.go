package base64_test

import (
	b64 "encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"alojasys/shared/base64"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"pdf data uri", "data:application/pdf;base64,JVBERi0=", "application/pdf"},
		{"jpeg data uri", "data:image/jpeg;base64,/9j/4AAQ", "image/jpeg"},
		{"no marker", "JVBERi0=", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base64.GetContentType(tt.file))
		})
	}
}

func TestDecode(t *testing.T) {
	raw := []byte("receipt bytes")
	encoded := b64.StdEncoding.EncodeToString(raw)

	t.Run("with data uri prefix", func(t *testing.T) {
		data, err := base64.Decode("data:application/pdf;base64," + encoded)
		assert.NoError(t, err)
		assert.Equal(t, raw, data)
	})

	t.Run("bare payload", func(t *testing.T) {
		data, err := base64.Decode(encoded)
		assert.NoError(t, err)
		assert.Equal(t, raw, data)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := base64.Decode("data:application/pdf;base64,not-base64!!!")
		assert.Error(t, err)
	})
}
