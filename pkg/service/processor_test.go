package service

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/organizador/pkg/category"
	"github.com/yurifrl/organizador/pkg/config"
	"github.com/yurifrl/organizador/pkg/models"
	"github.com/yurifrl/organizador/pkg/parser"
	"github.com/yurifrl/organizador/pkg/rules"
)

func ofx(trns ...string) []byte {
	var b strings.Builder
	b.WriteString("OFXHEADER:100\nDATA:OFXSGML\nCHARSET:1252\n\n<OFX><BANKTRANLIST>\n")
	for _, t := range trns {
		b.WriteString(t)
	}
	b.WriteString("</BANKTRANLIST></OFX>\n")
	return []byte(b.String())
}

func trn(date, amount, memo string) string {
	return "<STMTTRN><DTPOSTED>" + date + "<TRNAMT>" + amount + "<MEMO>" + memo + "</STMTTRN>\n"
}

func newProcessor(t *testing.T, opts ...Option) *Processor {
	t.Helper()
	logger := log.New(io.Discard)
	day := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	opts = append(opts, WithClock(func() time.Time { return day }))
	return NewProcessor(config.Default(), rules.NewBook(rules.Default()), logger, opts...)
}

func TestProcessPipeline(t *testing.T) {
	p := newProcessor(t)

	res := p.Process([]Input{
		{Name: "itau.ofx", Data: ofx(
			trn("20250317", "-25.00", "UBER TRIP 123"),
			trn("20250318", "3000.00", "TED RECEBIDA SALARIO EMPRESA"),
			trn("20250319", "-500.00", "APLICACAO AUTOMATICA CDB"),
		)},
		{Name: "nubank.ofx", Data: ofx(
			trn("20250320", "-42.00", ""),
		)},
	})

	require.Empty(t, res.Failed)
	require.Equal(t, 2, res.Files)
	require.Len(t, res.Transactions, 4)

	want := []struct {
		category string
		flow     category.FlowKind
		source   string
	}{
		{"Transporte", category.Outflow, "itau.ofx"},
		{"Entradas/Renda", category.Inflow, "itau.ofx"},
		{"Movimentação Interna", category.Neutral, "itau.ofx"},
		{"Outros", category.Outflow, "nubank.ofx"},
	}
	for i, w := range want {
		tx := res.Transactions[i]
		require.Equal(t, w.category, tx.Category().String(), "transaction %d", i)
		require.Equal(t, w.flow, tx.FlowKind(), "transaction %d", i)
		require.Equal(t, w.source, tx.SourceLabel(), "transaction %d", i)
	}
	require.Equal(t, models.NoDescription, res.Transactions[3].Description())

	m := res.Model
	require.True(t, m.Totals.Inflow.Equal(decimal.RequireFromString("3000")))
	require.True(t, m.Totals.Outflow.Equal(decimal.RequireFromString("-67")))
	require.True(t, m.Totals.Net.Equal(decimal.RequireFromString("2933")))
	require.Len(t, m.Summary.Rows, 4)
	require.NotNil(t, m.Chart)
}

func TestProcessIsolatesFailures(t *testing.T) {
	p := newProcessor(t)

	res := p.Process([]Input{
		{Name: "broken.ofx", Data: []byte("<OFX><STMTTRN><DTPOSTED>20250101<TRNAMT>x<MEMO>A</STMTTRN></OFX>")},
		{Name: "notes.pdf", Data: []byte("%PDF")},
		{Name: "ok.ofx", Data: ofx(trn("20250101", "-10", "NETFLIX"))},
	})

	require.Equal(t, 3, res.Files)
	require.Len(t, res.Failed, 2)
	require.Equal(t, "broken.ofx", res.Failed[0].File)
	require.True(t, errors.Is(res.Failed[1], parser.ErrUnknownFormat))
	require.Len(t, res.Transactions, 1)
	require.Equal(t, "Assinaturas", res.Transactions[0].Category().String())
}

func TestProcessUsesSnapshot(t *testing.T) {
	book := rules.NewBook(rules.Default())
	p := NewProcessor(config.Default(), book, log.New(io.Discard))

	input := []Input{{Name: "a.ofx", Data: ofx(trn("20250101", "-80", "ACADEMIA FIT"))}}
	require.Equal(t, "Outros", p.Process(input).Transactions[0].Category().String())

	require.NoError(t, book.Update(func(rs *rules.RuleSet) error {
		return rs.UpsertKeywordRule("academia", "Saúde")
	}))
	require.Equal(t, "Saúde", p.Process(input).Transactions[0].Category().String())
}

func TestProcessFilter(t *testing.T) {
	p := newProcessor(t, WithFilter(func(tx *models.Transaction) bool {
		return tx.Amount().IsNegative()
	}))

	res := p.Process([]Input{{Name: "a.ofx", Data: ofx(
		trn("20250101", "-10", "UBER"),
		trn("20250102", "10", "PIX RECEBIDO"),
	)}})
	require.Len(t, res.Transactions, 1)
	require.True(t, res.Model.Totals.Inflow.IsZero())
}

func TestProcessPathsAndWrite(t *testing.T) {
	dir := t.TempDir()
	statements := filepath.Join(dir, "extratos")
	require.NoError(t, os.MkdirAll(statements, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(statements, "a.ofx"), ofx(trn("20250101", "-25.00", "UBER TRIP")), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(statements, "b.txt"), []byte("02/01/2025;IFOOD;-30,00\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(statements, "readme.md"), []byte("ignored"), 0o644))

	p := newProcessor(t)
	res := p.ProcessPaths([]string{statements, filepath.Join(dir, "missing-*.ofx")})

	require.Equal(t, 3, res.Files)
	require.Len(t, res.Failed, 1)
	require.Len(t, res.Transactions, 2)

	out := filepath.Join(dir, "out")
	written, err := p.Write(res, out, []string{config.FormatXLSX, config.FormatCSV})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(out, "Financas_2026-10-19.xlsx"),
		filepath.Join(out, "Financas_2026-10-19_extrato.csv"),
		filepath.Join(out, "Financas_2026-10-19_resumo.csv"),
	}, written)
	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.NotZero(t, info.Size())
	}
}

func TestWriteEmptyBatch(t *testing.T) {
	p := newProcessor(t)
	res := p.Process(nil)

	require.Len(t, res.Model.Summary.Rows, 0)
	require.Nil(t, res.Model.Chart)
	require.True(t, res.Model.Totals.Net.IsZero())

	dir := t.TempDir()
	written, err := p.Write(res, dir, []string{config.FormatXLSX})
	require.ErrorIs(t, err, ErrNoTransactions)
	require.Empty(t, written)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
