package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "0,05", formatCents(5))
	assert.Equal(t, "3,00", formatCents(300))
	assert.Equal(t, "1.234,50", formatCents(123450))
	assert.Equal(t, "-12,00", formatCents(-1200))
}

func TestGenerate_DevuelvePDF(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 10, 0, 0, time.UTC)
	o := &entity.Order{ID: 12, ClientID: 1, Status: entity.OrderStatusValidated, CreatedAt: now, ValidatedAt: &now}
	client := &entity.User{ID: 1, FirstName: "Ana", Name: "Pérez"}
	items := []*entity.OrderLineItem{
		{OrderID: 12, ProductID: 1, Quantity: 3, UnitPrice: 100},
		{OrderID: 12, ProductID: 4, Quantity: 1, UnitPrice: 250},
	}

	doc, err := NewReceiptGenerator("OpenBar").Generate(o, client, items)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
