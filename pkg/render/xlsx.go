package render

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/organizador/pkg/report"
)

// Fill colours of the amount style intents.
var styleColors = map[report.Style]struct{ font, fill string }{
	report.StyleNegative: {"#9C0006", "#FFC7CE"},
	report.StylePositive: {"#006100", "#C6EFCE"},
	report.StyleNeutral:  {"#333333", "#E0E0E0"},
}

// XLSXFileName is the workbook name for a report generated on day.
func XLSXFileName(day time.Time) string {
	return fmt.Sprintf("Financas_%s.xlsx", day.Format("2006-01-02"))
}

// WriteXLSX encodes the model as a two-sheet workbook.
func WriteXLSX(w io.Writer, m *report.Model) error {
	f, err := XLSX(m)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// XLSX builds the workbook: the detail sheet with per-cell amount styles
// and the summary sheet with its pie chart.
func XLSX(m *report.Model) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", m.Detail.Sheet); err != nil {
		return nil, fmt.Errorf("failed to name detail sheet: %w", err)
	}
	if _, err := f.NewSheet(m.Summary.Sheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	styles, err := newStyles(f, m.CurrencyFormat)
	if err != nil {
		return nil, err
	}
	if err := writeDetail(f, m, styles); err != nil {
		return nil, fmt.Errorf("failed to write detail sheet: %w", err)
	}
	if err := writeSummary(f, m, styles); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

type styleSet struct {
	date     int
	currency int
	byIntent map[report.Style]int
}

func newStyles(f *excelize.File, currencyFormat string) (*styleSet, error) {
	numFmt := currencyFormat
	dateFmt := "dd/mm/yyyy"

	s := &styleSet{byIntent: make(map[report.Style]int)}
	var err error
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return nil, fmt.Errorf("failed to create date style: %w", err)
	}
	if s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return nil, fmt.Errorf("failed to create currency style: %w", err)
	}
	for intent, c := range styleColors {
		id, err := f.NewStyle(&excelize.Style{
			CustomNumFmt: &numFmt,
			Font:         &excelize.Font{Color: c.font},
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.fill}},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", intent, err)
		}
		s.byIntent[intent] = id
	}
	return s, nil
}

func (s *styleSet) amount(intent report.Style) int {
	if id, ok := s.byIntent[intent]; ok {
		return id
	}
	return s.currency
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return name
}

func layoutColumns(f *excelize.File, sheet string, amountColumn int) error {
	if err := f.SetColWidth(sheet, "A", "Z", 20); err != nil {
		return err
	}
	col, err := excelize.ColumnNumberToName(amountColumn + 1)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, col, col, 18)
}

func writeHeader(f *excelize.File, sheet string, header []string) error {
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	return f.SetSheetRow(sheet, "A1", &values)
}

func addTable(f *excelize.File, sheet, name, style string, cols, rows int) error {
	if rows == 0 {
		return nil
	}
	return f.AddTable(sheet, &excelize.Table{
		Range:     fmt.Sprintf("A1:%s", cell(cols-1, rows)),
		Name:      name,
		StyleName: style,
	})
}

func writeDetail(f *excelize.File, m *report.Model, styles *styleSet) error {
	t := m.Detail
	if err := layoutColumns(f, t.Sheet, t.AmountColumn); err != nil {
		return err
	}
	if err := writeHeader(f, t.Sheet, t.Header); err != nil {
		return err
	}

	for i, r := range t.Rows {
		row := i + 1
		values := []interface{}{r.Date, r.Description, r.Category, r.Amount.InexactFloat64(), r.FlowKind.String(), r.Source}
		if err := f.SetSheetRow(t.Sheet, cell(0, row), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(t.Sheet, cell(0, row), cell(0, row), styles.date); err != nil {
			return err
		}
		amountCell := cell(t.AmountColumn, row)
		if err := f.SetCellStyle(t.Sheet, amountCell, amountCell, styles.amount(r.AmountStyle)); err != nil {
			return err
		}
	}

	return addTable(f, t.Sheet, t.TableName, t.TableStyle, len(t.Header), len(t.Rows))
}

func writeSummary(f *excelize.File, m *report.Model, styles *styleSet) error {
	t := m.Summary
	if err := layoutColumns(f, t.Sheet, t.AmountColumn); err != nil {
		return err
	}
	if err := writeHeader(f, t.Sheet, t.Header); err != nil {
		return err
	}

	for i, r := range t.Rows {
		row := i + 1
		values := []interface{}{r.Category, r.Total.InexactFloat64()}
		if err := f.SetSheetRow(t.Sheet, cell(0, row), &values); err != nil {
			return err
		}
		amountCell := cell(t.AmountColumn, row)
		if err := f.SetCellStyle(t.Sheet, amountCell, amountCell, styles.currency); err != nil {
			return err
		}
	}

	if err := addTable(f, t.Sheet, t.TableName, t.TableStyle, len(t.Header), len(t.Rows)); err != nil {
		return err
	}
	if m.Chart == nil {
		return nil
	}
	return addChart(f, m.Chart)
}

func addChart(f *excelize.File, c *report.ChartIntent) error {
	ref := func(col int) string {
		name, _ := excelize.ColumnNumberToName(col + 1)
		return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", c.Sheet, name, c.FirstRow+1, name, c.LastRow+1)
	}
	return f.AddChart(c.Sheet, c.Anchor, &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       c.Title,
			Categories: ref(c.CategoryColumn),
			Values:     ref(c.ValueColumn),
		}},
		Title: []excelize.RichTextRun{{Text: c.Title}},
		PlotArea: excelize.ChartPlotArea{
			ShowVal: true,
			NumFmt:  excelize.ChartNumFmt{CustomNumFmt: c.LabelFormat},
		},
	})
}
