package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"5KB", 5120},
		{"10MB", 10_485_760},
		{"1GB", 1_073_741_824},
		{"10mb", 10_485_760},
		{"  2 Mb ", 2 * 1024 * 1024},
		{"0KB", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSize_Invalid(t *testing.T) {
	for _, in := range []string{"10XB", "10", "MB", "-1MB", "1.5GB", "", "99999999999999999999GB"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseSize(in)
			assert.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}
