package repository

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOutstanding(t *testing.T) {
	tests := []struct {
		name           string
		total, settled string
		want           string
	}{
		{"unpaid", "15000000", "0", "15000000"},
		{"partly paid", "15000000", "5000000.50", "9999999.5"},
		{"settled", "200", "200", "0"},
		{"overpaid stays negative", "100", "250", "-150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Outstanding(decimal.RequireFromString(tt.total), decimal.RequireFromString(tt.settled))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Outstanding(%s, %s) = %s, want %s", tt.total, tt.settled, got, tt.want)
			}
		})
	}
}

func TestBalance(t *testing.T) {
	got := Balance(decimal.RequireFromString("1200.10"), decimal.RequireFromString("1500"))
	if want := decimal.RequireFromString("-299.9"); !got.Equal(want) {
		t.Errorf("Balance = %s, want %s", got, want)
	}
}

func TestMoneyRendersFloat(t *testing.T) {
	if got := money(decimal.RequireFromString("15000000.00")); got != 15000000.0 {
		t.Errorf("money = %v", got)
	}
	if got := nullMoney(decimal.NullDecimal{}); got != nil {
		t.Errorf("nullMoney(null) = %v, want nil", got)
	}
}
