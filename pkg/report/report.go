// Package report shapes categorized transactions into the two tables handed
// to a renderer: the detail statement and the category summary, together
// with the style and chart intents the renderer must honour.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/organizador/pkg/aggregate"
	"github.com/yurifrl/organizador/pkg/category"
	"github.com/yurifrl/organizador/pkg/models"
)

const (
	DetailSheet           = "Extrato Detalhado"
	SummarySheet          = "Resumo Gerencial"
	DefaultCurrencyFormat = "R$ #,##0.00"
)

// Style is the conditional style intent of an amount cell.
type Style string

const (
	StyleNone     Style = ""
	StyleNeutral  Style = "neutral-style"
	StyleNegative Style = "negative-style"
	StylePositive Style = "positive-style"
)

// StyleFor picks the amount style. Neutral wins over the sign; a zero
// amount gets no conditional style.
func StyleFor(flow category.FlowKind, amount decimal.Decimal) Style {
	switch {
	case flow == category.Neutral:
		return StyleNeutral
	case amount.IsNegative():
		return StyleNegative
	case amount.IsPositive():
		return StylePositive
	}
	return StyleNone
}

// Table is one logical output table with an explicit header row.
type Table[T any] struct {
	Sheet        string
	TableName    string
	TableStyle   string
	Header       []string
	AmountColumn int
	Rows         []T
}

type DetailRow struct {
	Date        time.Time
	Description string
	Category    string
	Amount      decimal.Decimal
	FlowKind    category.FlowKind
	Source      string
	AmountStyle Style
}

// Fields returns the row as text cells in header order.
func (r DetailRow) Fields() []string {
	return []string{
		r.Date.Format("2006-01-02"),
		r.Description,
		r.Category,
		r.Amount.StringFixed(2),
		r.FlowKind.String(),
		r.Source,
	}
}

// SummaryRow is one category of the summary table. Count is shown in
// previews only; it is not a column of the table.
type SummaryRow struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

func (r SummaryRow) Fields() []string {
	return []string{r.Category, r.Total.StringFixed(2)}
}

// ChartIntent asks for a proportional chart of the summary table. Rows are
// zero-based with the header on row 0.
type ChartIntent struct {
	Type           string
	Title          string
	Sheet          string
	CategoryColumn int
	ValueColumn    int
	FirstRow       int
	LastRow        int
	Anchor         string
	LabelFormat    string
}

type Model struct {
	Detail         Table[DetailRow]
	Summary        Table[SummaryRow]
	Chart          *ChartIntent
	Totals         aggregate.Totals
	CurrencyFormat string
}

type Option func(*Model)

// WithCurrencyFormat overrides the number format hint of amount columns.
func WithCurrencyFormat(format string) Option {
	return func(m *Model) {
		if format != "" {
			m.CurrencyFormat = format
		}
	}
}

// Build produces the report model. An empty transaction list yields empty
// tables, zero totals and no chart.
func Build(txs []*models.Transaction, opts ...Option) *Model {
	agg := aggregate.Aggregate(txs)

	m := &Model{
		Detail: Table[DetailRow]{
			Sheet:        DetailSheet,
			TableName:    "TabelaExtrato",
			TableStyle:   "TableStyleMedium9",
			Header:       []string{"Data", "Descrição", "Categoria", "Valor", "Tipo", "Arquivo_Origem"},
			AmountColumn: 3,
			Rows:         make([]DetailRow, 0, len(txs)),
		},
		Summary: Table[SummaryRow]{
			Sheet:        SummarySheet,
			TableName:    "TabelaResumo",
			TableStyle:   "TableStyleMedium2",
			Header:       []string{"Categoria", "Valor"},
			AmountColumn: 1,
			Rows:         make([]SummaryRow, 0, len(agg.Summary)),
		},
		Totals:         agg.Totals,
		CurrencyFormat: DefaultCurrencyFormat,
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, tx := range txs {
		m.Detail.Rows = append(m.Detail.Rows, DetailRow{
			Date:        tx.Date(),
			Description: tx.Description(),
			Category:    tx.Category().String(),
			Amount:      tx.Amount(),
			FlowKind:    tx.FlowKind(),
			Source:      tx.SourceLabel(),
			AmountStyle: StyleFor(tx.FlowKind(), tx.Amount()),
		})
	}
	for _, row := range agg.Summary {
		m.Summary.Rows = append(m.Summary.Rows, SummaryRow{Category: row.Category.String(), Total: row.Total, Count: row.Count})
	}

	if n := len(m.Summary.Rows); n > 0 {
		m.Chart = &ChartIntent{
			Type:           "pie",
			Title:          "Balanço Financeiro",
			Sheet:          SummarySheet,
			CategoryColumn: 0,
			ValueColumn:    1,
			FirstRow:       1,
			LastRow:        n,
			Anchor:         "D2",
			LabelFormat:    "R$ #,##0",
		}
	}
	return m
}

// Empty reports whether the model holds no transactions.
func (m *Model) Empty() bool {
	return len(m.Detail.Rows) == 0
}
