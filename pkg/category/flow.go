package category

import "github.com/shopspring/decimal"

// FlowKind says whether a transaction is money in, money out, or excluded from
// the headline totals.
type FlowKind int

const (
	Outflow FlowKind = iota
	Inflow
	Neutral
)

func (f FlowKind) String() string {
	switch f {
	case Inflow:
		return "Entrada"
	case Neutral:
		return "Neutro"
	default:
		return "Saída"
	}
}

// FlowOf derives the flow kind of a categorized amount. Internal movements are
// neutral; everything else is an inflow only when strictly positive, so a zero
// amount lands in Outflow.
func FlowOf(c Category, amount decimal.Decimal) FlowKind {
	if c.Kind() == KindInternal {
		return Neutral
	}
	if amount.IsPositive() {
		return Inflow
	}
	return Outflow
}
