package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"))
	assert.True(t, IsValidAddress("0x1A2B3C4D5E6F7A8B9C0D1E2F3A4B5C6D7E8F9A0B"))

	assert.False(t, IsValidAddress(""))
	assert.False(t, IsValidAddress("0x1a2b"))
	assert.False(t, IsValidAddress("1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"))
	assert.False(t, IsValidAddress("0xZZ2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"))
	assert.False(t, IsValidAddress("0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1"))
	assert.False(t, IsValidAddress(" 0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"))
}

func TestCanonicalAddress(t *testing.T) {
	assert.Equal(t,
		"0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b",
		CanonicalAddress("  0x1A2B3C4D5E6F7A8B9C0D1E2F3A4B5C6D7E8F9A0B "))
}

func TestDefaultUsername(t *testing.T) {
	assert.Equal(t, "Player_0x1a2b3c", DefaultUsername("0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"))
	assert.Equal(t, "Player_0x1a", DefaultUsername("0x1a"))
}
