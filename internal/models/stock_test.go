package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		expected  StockStatus
	}{
		{"zero quantity is sold out", 0, 5, StockStatusSoldOut},
		{"negative quantity is sold out", -3, 5, StockStatusSoldOut},
		{"quantity at threshold is reserved", 5, 5, StockStatusReserved},
		{"quantity below threshold is reserved", 2, 5, StockStatusReserved},
		{"quantity above threshold is available", 6, 5, StockStatusAvailable},
		{"zero threshold leaves positive quantity available", 1, 0, StockStatusAvailable},
		{"zero quantity with zero threshold is sold out", 0, 0, StockStatusSoldOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStockStatus(tt.quantity, tt.threshold))
		})
	}
}

func TestAvailableQuantity(t *testing.T) {
	stock := VariationStock{Quantity: 10, ReservedQuantity: 3}
	assert.Equal(t, 7, stock.AvailableQuantity())

	overReserved := VariationStock{Quantity: 2, ReservedQuantity: 5}
	assert.Equal(t, 0, overReserved.AvailableQuantity())
}
