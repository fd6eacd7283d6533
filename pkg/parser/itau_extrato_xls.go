package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/extrame/xls"

	"github.com/yurifrl/organizador/pkg/models"
)

// ParseItauExtratoXLS parses the Itaú account statement spreadsheet. Rows
// after the "lançamentos" marker hold date, memo and value in columns A, B, D.
func (p *Parser) ParseItauExtratoXLS(data []byte, label string) ([]models.RawTransaction, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := workbook.ReadAllCells(1000)
	if len(rows) == 0 {
		return nil, errors.New("no data found in sheet")
	}

	return p.extratoRows(rows, label), nil
}

// extratoRows reads the transaction rows that follow the "lançamentos"
// marker. Balance lines and unreadable rows are skipped.
func (p *Parser) extratoRows(rows [][]string, label string) []models.RawTransaction {
	var transactions []models.RawTransaction
	var foundTransactions bool

	for i, row := range rows {
		if len(row) < 4 {
			continue
		}

		if isLancamentosMarker(row[0]) {
			foundTransactions = true
			continue
		}
		if !foundTransactions || isBalanceRow(row[1]) {
			continue
		}

		tx, err := models.NewRaw(row[1]).
			SetDate(row[0]).
			SetValueFromExtrato(row[3]).
			SetSource(label).
			Build()
		if err != nil {
			p.logger.Debug("error building transaction", "row", i, "error", err)
			continue
		}

		transactions = append(transactions, tx)
	}

	return transactions
}

func isLancamentosMarker(cell string) bool {
	cell = strings.TrimSpace(cell)
	return cell == "lançamentos" || cell == "lanÃ§amentos"
}

func isBalanceRow(memo string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(memo)), "SALDO")
}
