// Package categorizer assigns exactly one category to a transaction.
//
// Branches are evaluated in a fixed order and the first hit wins:
//
//  1. blank description: Outros
//  2. internal term present: Entradas/Renda if a "Renda" keyword is also
//     present, otherwise Movimentação Interna
//  3. positive amount: Entradas/Renda
//  4. first keyword rule contained in the description
//  5. Outros
//
// Matching is upper-cased substring containment with no word boundaries.
package categorizer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/organizador/pkg/category"
	"github.com/yurifrl/organizador/pkg/rules"
)

// Categorize classifies one transaction against a rule set snapshot.
func Categorize(description string, amount decimal.Decimal, rs *rules.RuleSet) category.Category {
	if strings.TrimSpace(description) == "" {
		return category.Other
	}
	desc := strings.ToUpper(description)

	if _, internal := rs.InternalKind(desc); internal {
		// income routed through an internal-sounding label still counts as income
		if rs.HasRendaKeyword(desc) {
			return category.Income
		}
		return category.Internal
	}

	if amount.IsPositive() {
		return category.Income
	}

	if c, ok := rs.KeywordCategory(desc); ok {
		return c
	}
	return category.Other
}
