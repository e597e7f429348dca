package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginHistory_Ring(t *testing.T) {
	h := NewLoginHistory(2)
	assert.Empty(t, h.Entries())

	h.Record(LoginEntry{UserID: 1})
	assert.Len(t, h.Entries(), 1)

	h.Record(LoginEntry{UserID: 2})
	h.Record(LoginEntry{UserID: 3})
	got := h.Entries()
	assert.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].UserID)
	assert.Equal(t, int64(2), got[1].UserID)
}

func TestNewLoginHistory_TamanoMinimo(t *testing.T) {
	h := NewLoginHistory(0)
	h.Record(LoginEntry{UserID: 1})
	h.Record(LoginEntry{UserID: 2})
	got := h.Entries()
	assert.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].UserID)
}
