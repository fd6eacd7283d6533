package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/organizador/pkg/categorizer"
	"github.com/yurifrl/organizador/pkg/config"
	"github.com/yurifrl/organizador/pkg/models"
	"github.com/yurifrl/organizador/pkg/parser"
	"github.com/yurifrl/organizador/pkg/render"
	"github.com/yurifrl/organizador/pkg/report"
	"github.com/yurifrl/organizador/pkg/rules"
)

// ErrNoTransactions is returned when a batch produced nothing to write.
var ErrNoTransactions = errors.New("no transactions to report")

// FilterFunc keeps a transaction in the report when it returns true.
type FilterFunc func(*models.Transaction) bool

// Input is one statement file already read into memory.
type Input struct {
	Name string
	Data []byte
}

// FileError records a statement that could not be ingested.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one batch.
type Result struct {
	Files        int
	Transactions []*models.Transaction
	Failed       []FileError
	Model        *report.Model
}

type Processor struct {
	config *config.Config
	logger *log.Logger
	parser *parser.Parser
	book   *rules.Book
	filter FilterFunc
	now    func() time.Time
}

type Option func(*Processor)

func WithFilter(f FilterFunc) Option {
	return func(p *Processor) {
		p.filter = f
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

func NewProcessor(cfg *config.Config, book *rules.Book, logger *log.Logger, opts ...Option) *Processor {
	p := &Processor{
		config: cfg,
		logger: logger,
		parser: parser.New(logger, parser.WithCharset(cfg.Charset)),
		book:   book,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs the whole pipeline over a batch. Every file is isolated: a
// failing file is recorded in Result.Failed and the rest still count. The
// rule set is read once, so the batch sees a single consistent snapshot.
func (p *Processor) Process(inputs []Input) *Result {
	rs := p.book.Snapshot()
	res := &Result{}

	for _, in := range inputs {
		res.Files++
		raws, err := p.parser.ProcessBytes(in.Data, in.Name)
		if err != nil {
			p.fail(res, in.Name, err)
			continue
		}

		kept := 0
		for _, raw := range raws {
			tx := models.Normalize(raw, categorizer.Categorize(raw.Memo, raw.Amount, rs))
			if p.filter != nil && !p.filter(tx) {
				continue
			}
			res.Transactions = append(res.Transactions, tx)
			kept++
		}
		p.logger.Info("processed file", "file", in.Name, "transactions", len(raws), "kept", kept)
	}

	res.Model = report.Build(res.Transactions, report.WithCurrencyFormat(p.config.CurrencyFormat))
	return res
}

// ProcessPaths reads statement files from disk and processes them. Each
// argument may be a file, a directory or a glob pattern.
func (p *Processor) ProcessPaths(paths []string) *Result {
	var inputs []Input
	var failed []FileError

	for _, path := range paths {
		files, err := p.expand(path)
		if err != nil {
			failed = append(failed, p.logFailure(path, err))
			continue
		}
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				failed = append(failed, p.logFailure(file, fmt.Errorf("failed to read file: %w", err)))
				continue
			}
			inputs = append(inputs, Input{Name: file, Data: data})
		}
	}

	res := p.Process(inputs)
	res.Files += len(failed)
	res.Failed = append(failed, res.Failed...)
	return res
}

func (p *Processor) expand(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files found matching pattern %s", pattern)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, match)
			continue
		}

		entries, err := os.ReadDir(match)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || parser.DetectType(entry.Name()) == "" {
				continue
			}
			files = append(files, filepath.Join(match, entry.Name()))
		}
	}
	return files, nil
}

func (p *Processor) fail(res *Result, file string, err error) {
	res.Failed = append(res.Failed, p.logFailure(file, err))
}

func (p *Processor) logFailure(file string, err error) FileError {
	p.logger.Warn("failed to process file", "file", file, "error", err)
	return FileError{File: file, Err: err}
}

// Write renders the report in every configured format under dir. A report
// without transactions produces no artifact and returns ErrNoTransactions.
func (p *Processor) Write(res *Result, dir string, formats []string) ([]string, error) {
	if res.Model == nil || res.Model.Empty() {
		return nil, ErrNoTransactions
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	day := p.now()
	var written []string
	for _, format := range formats {
		switch format {
		case config.FormatXLSX:
			path := filepath.Join(dir, render.XLSXFileName(day))
			if err := writeXLSX(path, res.Model); err != nil {
				return written, err
			}
			written = append(written, path)
		case config.FormatCSV:
			paths, err := render.WriteCSV(dir, day, res.Model)
			written = append(written, paths...)
			if err != nil {
				return written, err
			}
		default:
			return written, fmt.Errorf("unknown output format %q", format)
		}
	}

	p.logger.Info("report written", "files", written)
	return written, nil
}

func writeXLSX(path string, m *report.Model) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer out.Close()

	if err := render.WriteXLSX(out, m); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return out.Close()
}

// ReportName is the workbook file name for a report generated now.
func (p *Processor) ReportName() string {
	return render.XLSXFileName(p.now())
}
