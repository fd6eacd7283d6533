package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Plan describes one report batch: which statements to read, which rules to
// classify them with and where the report goes.
type Plan struct {
	Rules      string      `yaml:"rules"`
	Output     string      `yaml:"output"`
	Formats    []string    `yaml:"formats"`
	Statements []Statement `yaml:"statements"`
}

type Statement struct {
	File string `yaml:"file"`
}

// Path returns the statement path with ~ expanded and, when relative,
// resolved against base.
func (s Statement) Path(base string) (string, error) {
	return resolve(s.File, base)
}

func resolve(path, base string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join(base, path), nil
}

// Load reads a YAML plan. Relative paths inside it are resolved against the
// plan's directory.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Statements) == 0 {
		return nil, fmt.Errorf("plan has no statements")
	}

	base := filepath.Dir(path)
	for i, st := range p.Statements {
		if p.Statements[i].File, err = st.Path(base); err != nil {
			return nil, err
		}
	}
	if p.Rules, err = resolve(p.Rules, base); err != nil {
		return nil, err
	}
	if p.Output, err = resolve(p.Output, base); err != nil {
		return nil, err
	}
	return &p, nil
}

// Files lists the resolved statement paths.
func (p *Plan) Files() []string {
	files := make([]string, 0, len(p.Statements))
	for _, st := range p.Statements {
		files = append(files, st.File)
	}
	return files
}

func (p *Plan) Print(w io.Writer) {
	rules := p.Rules
	if rules == "" {
		rules = "(default)"
	}
	fmt.Fprintf(w, "rules: %s\n", rules)
	for i, st := range p.Statements {
		fmt.Fprintf(w, "[%d] file=%s\n", i+1, st.File)
	}
}
