package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMalformed is returned when a serialized rule set cannot be parsed.
var ErrMalformed = errors.New("malformed rules document")

// document is the persisted shape. Absent keys fall back to the defaults.
type document struct {
	Regras   *[]KeywordRule  `json:"regras" yaml:"regras"`
	Internos *[]InternalTerm `json:"internos" yaml:"internos"`
}

func (d document) ruleSet() *RuleSet {
	keywords := DefaultKeywordRules()
	if d.Regras != nil {
		keywords = *d.Regras
	}
	terms := DefaultInternalTerms()
	if d.Internos != nil {
		terms = *d.Internos
	}
	return New(keywords, terms)
}

func (rs *RuleSet) document() document {
	keywords := rs.KeywordRules()
	terms := rs.InternalTerms()
	return document{Regras: &keywords, Internos: &terms}
}

// Decode reads a JSON rules document. Anything after the document other
// than whitespace makes it malformed.
func Decode(r io.Reader) (*RuleSet, error) {
	dec := json.NewDecoder(r)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: extra data after document", ErrMalformed)
	}
	return doc.ruleSet(), nil
}

// DecodeYAML reads a YAML rules document with the same keys as the JSON one.
func DecodeYAML(r io.Reader) (*RuleSet, error) {
	dec := yaml.NewDecoder(r)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return doc.ruleSet(), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: extra data after document", ErrMalformed)
	}
	return doc.ruleSet(), nil
}

// Encode writes rs as an indented JSON rules document.
func (rs *RuleSet) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rs.document())
}

// EncodeYAML writes rs as a YAML rules document.
func (rs *RuleSet) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rs.document()); err != nil {
		return err
	}
	return enc.Close()
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadFile reads a rules file, choosing YAML or JSON by extension.
func LoadFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	if isYAML(path) {
		return DecodeYAML(bytes.NewReader(data))
	}
	return Decode(bytes.NewReader(data))
}

// SaveFile writes rs to path, choosing YAML or JSON by extension.
func (rs *RuleSet) SaveFile(path string) error {
	var buf bytes.Buffer
	encode := rs.Encode
	if isYAML(path) {
		encode = rs.EncodeYAML
	}
	if err := encode(&buf); err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create rules dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}
	return nil
}
