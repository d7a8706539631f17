package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "refresh token size", size: 32},
		{name: "short", size: 4},
		{name: "zero", size: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := MakeRandHexString(tt.size)
			require.NoError(t, err)
			assert.Len(t, s, tt.size*2)
			_, err = hex.DecodeString(s)
			assert.NoError(t, err)
		})
	}
}

func TestMakeRandHexString_Differs(t *testing.T) {
	a, err := MakeRandHexString(32)
	require.NoError(t, err)
	b, err := MakeRandHexString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateRandByteArray(t *testing.T) {
	buf := GenerateRandByteArray(24)
	require.NotNil(t, buf)
	assert.Len(t, buf, 24)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("hunter2")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 7), buf)

	WipeByteArray(nil)
}
