package parser

import (
	"strings"

	"github.com/yurifrl/organizador/pkg/models"
)

// ParseItauExtratoTXT parses the Itaú "dd/mm/yyyy;memo;-1.234,56" export.
// Unreadable lines are skipped.
func (p *Parser) ParseItauExtratoTXT(data []byte, label string) ([]models.RawTransaction, error) {
	var transactions []models.RawTransaction
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, ";")
		if len(fields) < 3 {
			p.logger.Debug("line has less than 3 fields, skipping", "line", i+1)
			continue
		}

		tx, err := models.NewRaw(fields[1]).
			SetDate(fields[0]).
			SetValueFromExtrato(fields[2]).
			SetSource(label).
			Build()
		if err != nil {
			p.logger.Debug("error building transaction", "line", i+1, "error", err)
			continue
		}

		transactions = append(transactions, tx)
	}

	return transactions, nil
}
