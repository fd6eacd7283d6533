package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/organizador/pkg/models"
	"github.com/yurifrl/organizador/pkg/service"
)

type filters struct {
	startDate string
	endDate   string
	minAmount float64
	maxAmount float64
	payee     string
}

func (f *filters) active() bool {
	return f.startDate != "" || f.endDate != "" || f.minAmount != 0 || f.maxAmount != 0 || f.payee != ""
}

func (f *filters) toFilterFunc() (service.FilterFunc, error) {
	var start, end time.Time
	var err error
	if f.startDate != "" {
		if start, err = time.Parse("2006/01/02", f.startDate); err != nil {
			return nil, fmt.Errorf("invalid --start date: %w", err)
		}
	}
	if f.endDate != "" {
		if end, err = time.Parse("2006/01/02", f.endDate); err != nil {
			return nil, fmt.Errorf("invalid --end date: %w", err)
		}
	}
	minAmount := decimal.NewFromFloat(f.minAmount)
	maxAmount := decimal.NewFromFloat(f.maxAmount)
	payee := strings.ToLower(f.payee)

	return func(t *models.Transaction) bool {
		if !start.IsZero() && t.Date().Before(start) {
			return false
		}
		if !end.IsZero() && t.Date().After(end) {
			return false
		}
		if f.minAmount != 0 && t.Amount().LessThan(minAmount) {
			return false
		}
		if f.maxAmount != 0 && t.Amount().GreaterThan(maxAmount) {
			return false
		}
		if payee != "" && !strings.Contains(strings.ToLower(t.Description()), payee) {
			return false
		}
		return true
	}, nil
}
