package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yurifrl/organizador/pkg/csv"
	"github.com/yurifrl/organizador/pkg/report"
)

// WriteCSV writes the detail and summary tables as two CSV files in dir and
// returns their paths.
func WriteCSV(dir string, day time.Time, m *report.Model) ([]string, error) {
	base := fmt.Sprintf("Financas_%s", day.Format("2006-01-02"))

	detail, err := csv.Create(m.Detail.Header, m.Detail.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode detail table: %w", err)
	}
	summary, err := csv.Create(m.Summary.Header, m.Summary.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary table: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{base + "_extrato.csv", detail},
		{base + "_resumo.csv", summary},
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		if err := os.WriteFile(path, file.data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
