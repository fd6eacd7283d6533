package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/organizador/pkg/category"
)

// NoDescription replaces a missing memo in the canonical record.
const NoDescription = "Sem Descrição"

// RawTransaction is a statement record as delivered by a parser.
type RawTransaction struct {
	Date        time.Time
	Memo        string
	Amount      decimal.Decimal
	SourceLabel string
	ExternalID  string
}

// Transaction is the canonical, categorized record. It is immutable once
// built.
type Transaction struct {
	date        time.Time
	description string
	category    category.Category
	amount      decimal.Decimal
	flow        category.FlowKind
	source      string
	externalID  string
}

// Normalize combines a raw record with its category into the canonical
// record, deriving the flow kind.
func Normalize(raw RawTransaction, c category.Category) *Transaction {
	desc := raw.Memo
	if desc == "" {
		desc = NoDescription
	}
	return &Transaction{
		date:        raw.Date,
		description: desc,
		category:    c,
		amount:      raw.Amount,
		flow:        category.FlowOf(c, raw.Amount),
		source:      raw.SourceLabel,
		externalID:  raw.ExternalID,
	}
}

func (t *Transaction) Date() time.Time {
	return t.date
}

func (t *Transaction) Description() string {
	return t.description
}

func (t *Transaction) Category() category.Category {
	return t.category
}

func (t *Transaction) Amount() decimal.Decimal {
	return t.amount
}

func (t *Transaction) FlowKind() category.FlowKind {
	return t.flow
}

func (t *Transaction) SourceLabel() string {
	return t.source
}

func (t *Transaction) ExternalID() string {
	return t.externalID
}
