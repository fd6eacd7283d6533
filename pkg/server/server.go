package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/organizador/pkg/config"
	"github.com/yurifrl/organizador/pkg/csv"
	"github.com/yurifrl/organizador/pkg/render"
	"github.com/yurifrl/organizador/pkg/report"
	"github.com/yurifrl/organizador/pkg/rules"
	"github.com/yurifrl/organizador/pkg/service"
)

const maxUploadSize = 32 << 20

// Server exposes the report pipeline and the active rule set over HTTP.
// Every request classifies against its own snapshot of the rules, so a
// concurrent rules update never affects a report in progress.
type Server struct {
	config    *config.Config
	logger    *log.Logger
	mux       *http.ServeMux
	book      *rules.Book
	processor *service.Processor
	reports   sync.Map
	seq       atomic.Uint64
}

type cachedReport struct {
	name  string
	model *report.Model
}

// New creates a new HTTP server around book.
func New(cfg *config.Config, book *rules.Book, logger *log.Logger, opts ...service.Option) *Server {
	s := &Server{
		config:    cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		book:      book,
		processor: service.NewProcessor(cfg, book, logger, opts...),
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/process", s.withLogging(s.handleProcess))
	s.mux.HandleFunc("/api/files/", s.withLogging(s.handleFiles))
	s.mux.HandleFunc("/api/rules", s.withLogging(s.handleRules))
}

// Metrics are the headline totals, already formatted for display.
type Metrics struct {
	Inflow  string `json:"entradas"`
	Outflow string `json:"saidas"`
	Net     string `json:"saldo"`
}

type Row struct {
	Date        string `json:"data"`
	Description string `json:"descricao"`
	Category    string `json:"categoria"`
	Amount      string `json:"valor"`
	FlowKind    string `json:"tipo"`
	Source      string `json:"arquivo_origem"`
	Style       string `json:"style,omitempty"`
}

type SummaryRow struct {
	Category string `json:"categoria"`
	Total    string `json:"valor"`
	Count    int    `json:"lancamentos"`
}

type FailedFile struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type ProcessResponse struct {
	Status  string       `json:"status"`
	ID      string       `json:"id,omitempty"`
	File    string       `json:"file,omitempty"`
	Metrics Metrics      `json:"metrics"`
	Detail  []Row        `json:"detail"`
	Summary []SummaryRow `json:"summary"`
	Failed  []FailedFile `json:"failed,omitempty"`
}

// ---------------- report handler ----------------

// handleProcess classifies every uploaded "statement" part as one batch.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to parse upload", err)
		return
	}

	headers := r.MultipartForm.File["statement"]
	if len(headers) == 0 {
		s.respondError(w, r, http.StatusBadRequest, "statement file required", nil)
		return
	}

	inputs := make([]service.Input, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
			return
		}
		inputs = append(inputs, service.Input{Name: header.Filename, Data: data})
	}

	res := s.processor.Process(inputs)
	resp := newProcessResponse(res)
	if !res.Model.Empty() {
		resp.ID = strconv.FormatUint(s.seq.Add(1), 10)
		resp.File = s.processor.ReportName()
		s.reports.Store(resp.ID, cachedReport{name: resp.File, model: res.Model})
	}

	s.logger.Info("report built", "files", res.Files, "failed", len(res.Failed), "transactions", len(res.Transactions))
	if err := s.writeJSON(w, http.StatusOK, resp); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func newProcessResponse(res *service.Result) ProcessResponse {
	m := res.Model
	resp := ProcessResponse{
		Status: "success",
		Metrics: Metrics{
			Inflow:  render.FormatBRL(m.Totals.Inflow),
			Outflow: render.FormatBRL(m.Totals.Outflow),
			Net:     render.FormatBRL(m.Totals.Net),
		},
		Detail:  make([]Row, 0, len(m.Detail.Rows)),
		Summary: make([]SummaryRow, 0, len(m.Summary.Rows)),
	}
	for _, d := range m.Detail.Rows {
		f := d.Fields()
		resp.Detail = append(resp.Detail, Row{
			Date:        f[0],
			Description: f[1],
			Category:    f[2],
			Amount:      f[3],
			FlowKind:    f[4],
			Source:      f[5],
			Style:       string(d.AmountStyle),
		})
	}
	for _, row := range m.Summary.Rows {
		resp.Summary = append(resp.Summary, SummaryRow{Category: row.Category, Total: row.Total.StringFixed(2), Count: row.Count})
	}
	for _, fe := range res.Failed {
		resp.Failed = append(resp.Failed, FailedFile{File: fe.File, Error: fe.Err.Error()})
	}
	return resp
}

// ---------------- file download handler ----------------

// handleFiles serves a previously built report as a workbook, or as the
// detail CSV with ?format=csv.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/files/")
	if id == "" {
		s.respondError(w, r, http.StatusBadRequest, "report id required", nil)
		return
	}

	value, ok := s.reports.Load(id)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "report not found", nil)
		return
	}
	cached := value.(cachedReport)

	var buf bytes.Buffer
	name := cached.name
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	switch r.URL.Query().Get("format") {
	case "", config.FormatXLSX:
		if err := render.WriteXLSX(&buf, cached.model); err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "failed to render workbook", err)
			return
		}
	case config.FormatCSV:
		data, err := csv.Create(cached.model.Detail.Header, cached.model.Detail.Rows)
		if err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "failed to render csv", err)
			return
		}
		buf.Write(data)
		name = strings.TrimSuffix(name, ".xlsx") + "_extrato.csv"
		contentType = "text/csv"
	default:
		s.respondError(w, r, http.StatusBadRequest, "unknown format", nil)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("failed to write file response", "err", err)
	}
}

// ---------------- rules handler ----------------

// handleRules returns the active rules on GET and replaces them wholesale
// on PUT. A document that is rejected or cannot be saved leaves the active
// rules untouched.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var buf bytes.Buffer
		if err := s.book.Snapshot().Encode(&buf); err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "failed to encode rules", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(buf.Bytes()); err != nil {
			s.logger.Warn("failed to write rules response", "err", err)
		}
	case http.MethodPut:
		rs, err := rules.Decode(http.MaxBytesReader(w, r.Body, maxUploadSize))
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid rules document", err)
			return
		}
		if err := s.book.Commit(rs, s.saveRules); err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "failed to save rules", err)
			return
		}
		s.logger.Info("rules replaced", "file", s.config.RulesFile)
		if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"}); err != nil {
			s.logger.Warn("failed to write json response", "err", err)
		}
	default:
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

// saveRules persists rs to the configured rules file, if any.
func (s *Server) saveRules(rs *rules.RuleSet) error {
	if s.config.RulesFile == "" {
		return nil
	}
	return rs.SaveFile(s.config.RulesFile)
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
