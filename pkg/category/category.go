package category

// Kind tags a Category so callers never compare free-form labels.
type Kind int

const (
	KindKeyword Kind = iota
	KindRenda
	KindIncome
	KindInternal
	KindOther
)

// Labels kept verbatim for compatibility with saved rule files and reports.
const (
	RendaLabel    = "Renda"
	IncomeLabel   = "Entradas/Renda"
	InternalLabel = "Movimentação Interna"
	OtherLabel    = "Outros"
)

// Category is the label assigned to a transaction.
type Category struct {
	kind  Kind
	label string
}

var (
	Renda    = Category{kind: KindRenda, label: RendaLabel}
	Income   = Category{kind: KindIncome, label: IncomeLabel}
	Internal = Category{kind: KindInternal, label: InternalLabel}
	Other    = Category{kind: KindOther, label: OtherLabel}
)

// Parse maps a label to its named variant, or to a keyword category when the
// label is not one of the reserved ones.
func Parse(label string) Category {
	switch label {
	case RendaLabel:
		return Renda
	case IncomeLabel:
		return Income
	case InternalLabel:
		return Internal
	case OtherLabel:
		return Other
	}
	return Category{kind: KindKeyword, label: label}
}

func (c Category) Kind() Kind {
	return c.kind
}

func (c Category) String() string {
	return c.label
}
