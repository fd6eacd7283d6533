package models

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawBuilder assembles a RawTransaction from the string fields found in
// statement files. The first error sticks and is returned by Build.
type RawBuilder struct {
	raw     RawTransaction
	hasDate bool
	hasAmt  bool
	err     error
}

func NewRaw(memo string) *RawBuilder {
	return &RawBuilder{raw: RawTransaction{Memo: strings.TrimSpace(memo)}}
}

// SetDate parses a dd/mm/yyyy date.
func (b *RawBuilder) SetDate(s string) *RawBuilder {
	return b.setDate("02/01/2006", strings.TrimSpace(s))
}

// SetOFXDate parses an OFX datetime (YYYYMMDD[HHMMSS[.XXX]][[offset:TZ]]),
// keeping only the calendar date.
func (b *RawBuilder) SetOFXDate(s string) *RawBuilder {
	s = strings.TrimSpace(s)
	if len(s) < 8 {
		if b.err == nil {
			b.err = fmt.Errorf("invalid OFX date %q", s)
		}
		return b
	}
	return b.setDate("20060102", s[:8])
}

func (b *RawBuilder) setDate(layout, s string) *RawBuilder {
	if b.err != nil {
		return b
	}
	d, err := time.Parse(layout, s)
	if err != nil {
		b.err = fmt.Errorf("invalid date %q: %w", s, err)
		return b
	}
	b.raw.Date = d
	b.hasDate = true
	return b
}

// SetAmount parses a dot-decimal amount such as "-25.00". A lone comma is
// accepted as the decimal separator.
func (b *RawBuilder) SetAmount(s string) *RawBuilder {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return b.setAmount(s)
}

// SetValueFromExtrato parses a Brazilian formatted amount such as
// "-2.327,00" or "R$ 1.234,56".
func (b *RawBuilder) SetValueFromExtrato(s string) *RawBuilder {
	s = strings.TrimSpace(strings.ReplaceAll(s, "R$", ""))
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return b.setAmount(s)
}

func (b *RawBuilder) setAmount(s string) *RawBuilder {
	if b.err != nil {
		return b
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		b.err = fmt.Errorf("invalid amount %q: %w", s, err)
		return b
	}
	b.raw.Amount = d
	b.hasAmt = true
	return b
}

func (b *RawBuilder) SetSource(label string) *RawBuilder {
	b.raw.SourceLabel = label
	return b
}

func (b *RawBuilder) SetExternalID(id string) *RawBuilder {
	b.raw.ExternalID = strings.TrimSpace(id)
	return b
}

// Build validates the record. When the statement carries no identifier a
// short hash of date, memo and amount is used instead.
func (b *RawBuilder) Build() (RawTransaction, error) {
	if b.err != nil {
		return RawTransaction{}, b.err
	}
	if !b.hasDate {
		return RawTransaction{}, errors.New("transaction date is required")
	}
	if !b.hasAmt {
		return RawTransaction{}, errors.New("transaction amount is required")
	}
	if b.raw.ExternalID == "" {
		b.raw.ExternalID = generateTransactionID(b.raw)
	}
	return b.raw, nil
}

func generateTransactionID(raw RawTransaction) string {
	input := fmt.Sprintf("%s-%s-%s", raw.Date.Format("2006-01-02"), strings.ToLower(raw.Memo), raw.Amount.StringFixed(2))
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash)[:8]
}
