package cardid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_DeterministaPorSal(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	a, err := Hash("04A1B2C3", salt)
	require.NoError(t, err)
	b, err := Hash("04A1B2C3", salt)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	otra, err := NewSalt()
	require.NoError(t, err)
	c, err := Hash("04A1B2C3", otra)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestVerify(t *testing.T) {
	h, err := Hash("card-1", "salt")
	require.NoError(t, err)
	assert.True(t, Verify("card-1", "salt", h))
	assert.False(t, Verify("card-2", "salt", h))
	assert.False(t, Verify("", "salt", h))
}

func TestHash_Vacio(t *testing.T) {
	_, err := Hash("", "salt")
	assert.ErrorIs(t, err, ErrEmpty)
}
