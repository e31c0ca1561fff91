package bcrypt_test

import (
	"SmartVision/pkg/bcrypt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	b := bcrypt.NewWithCost(4)

	hash, err := b.HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.NoError(t, b.ComparePassword(hash, "admin123"))
	assert.Error(t, b.ComparePassword(hash, "admin124"))
	assert.Error(t, b.ComparePassword(hash, ""))
}

func TestHashPasswordIsSalted(t *testing.T) {
	b := bcrypt.NewWithCost(4)

	first, err := b.HashPassword("admin123")
	require.NoError(t, err)
	second, err := b.HashPassword("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
