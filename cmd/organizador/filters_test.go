package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/organizador/pkg/category"
	"github.com/yurifrl/organizador/pkg/models"
)

func tx(date, memo, amount string) *models.Transaction {
	d, _ := time.Parse("2006-01-02", date)
	raw := models.RawTransaction{Date: d, Memo: memo, Amount: decimal.RequireFromString(amount)}
	return models.Normalize(raw, category.Other)
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters filters
		tx      *models.Transaction
		want    bool
	}{
		{"no filters", filters{}, tx("2025-03-10", "UBER", "-10"), true},
		{"before start", filters{startDate: "2025/03/11"}, tx("2025-03-10", "UBER", "-10"), false},
		{"on start", filters{startDate: "2025/03/10"}, tx("2025-03-10", "UBER", "-10"), true},
		{"after end", filters{endDate: "2025/03/09"}, tx("2025-03-10", "UBER", "-10"), false},
		{"below min", filters{minAmount: -5}, tx("2025-03-10", "UBER", "-10"), false},
		{"above max", filters{maxAmount: 100}, tx("2025-03-10", "SALARIO", "3000"), false},
		{"payee match", filters{payee: "uber"}, tx("2025-03-10", "UBER TRIP", "-10"), true},
		{"payee miss", filters{payee: "ifood"}, tx("2025-03-10", "UBER TRIP", "-10"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.filters.toFilterFunc()
			if err != nil {
				t.Fatal(err)
			}
			if got := f(tt.tx); got != tt.want {
				t.Errorf("filter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFiltersInvalidDate(t *testing.T) {
	f := filters{startDate: "10/03/2025"}
	if _, err := f.toFilterFunc(); err == nil {
		t.Error("expected error for malformed start date")
	}
	if !f.active() {
		t.Error("expected filters to be active")
	}
}
