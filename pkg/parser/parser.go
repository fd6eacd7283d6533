package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/organizador/pkg/models"
)

var ErrUnknownFormat = errors.New("unknown statement format")

type FileType string

const (
	OFX            FileType = "ofx"
	ItauExtratoTXT FileType = "itau_extrato_txt"
	ItauExtratoXLS FileType = "itau_extrato_xls"
)

type Parser struct {
	logger  *log.Logger
	charset string
}

type Option func(*Parser)

// WithCharset sets the charset assumed for OFX files that do not declare one.
func WithCharset(name string) Option {
	return func(p *Parser) {
		p.charset = name
	}
}

func New(logger *log.Logger, opts ...Option) *Parser {
	p := &Parser{
		logger:  logger,
		charset: "ISO-8859-1",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessBytes parses one statement file. The file name selects the format
// and becomes the source label of every record.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]models.RawTransaction, error) {
	fileType := DetectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	label := filepath.Base(filename)
	switch fileType {
	case OFX:
		return p.ParseOFX(data, label)
	case ItauExtratoTXT:
		return p.ParseItauExtratoTXT(data, label)
	case ItauExtratoXLS:
		return p.ParseItauExtratoXLS(data, label)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, label)
	}
}

// DetectType picks the statement format from the file extension.
func DetectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ofx", ".qfx":
		return OFX
	case ".txt":
		return ItauExtratoTXT
	case ".xls":
		return ItauExtratoXLS
	}
	return ""
}
