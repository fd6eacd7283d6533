// Package aggregate computes headline totals and per-category sums.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/organizador/pkg/category"
	"github.com/yurifrl/organizador/pkg/models"
)

// Totals are the headline sums. Neutral transactions are excluded; Net is
// Inflow plus Outflow since outflow amounts are already negative.
type Totals struct {
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Net     decimal.Decimal
}

// SummaryRow is the signed sum of one category and how many transactions
// went into it.
type SummaryRow struct {
	Category category.Category
	Total    decimal.Decimal
	Count    int
}

type Result struct {
	Totals  Totals
	Summary []SummaryRow
}

// Aggregate groups transactions by category. Every transaction counts in
// its category sum, neutral ones included. Rows are ordered by ascending
// total, ties by category label.
func Aggregate(txs []*models.Transaction) Result {
	var totals Totals
	index := make(map[string]int)
	var rows []SummaryRow

	for _, tx := range txs {
		switch tx.FlowKind() {
		case category.Inflow:
			totals.Inflow = totals.Inflow.Add(tx.Amount())
		case category.Outflow:
			totals.Outflow = totals.Outflow.Add(tx.Amount())
		}

		label := tx.Category().String()
		i, ok := index[label]
		if !ok {
			i = len(rows)
			index[label] = i
			rows = append(rows, SummaryRow{Category: tx.Category()})
		}
		rows[i].Total = rows[i].Total.Add(tx.Amount())
		rows[i].Count++
	}
	totals.Net = totals.Inflow.Add(totals.Outflow)

	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c < 0
		}
		return rows[i].Category.String() < rows[j].Category.String()
	})

	return Result{Totals: totals, Summary: rows}
}
