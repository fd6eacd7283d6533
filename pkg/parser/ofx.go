package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/yurifrl/organizador/pkg/models"
)

var (
	trnRegex      = regexp.MustCompile(`(?s)<STMTTRN>(.*?)</STMTTRN>`)
	charsetRegex  = regexp.MustCompile(`(?m)^\s*CHARSET:\s*(\S+)`)
	encodingRegex = regexp.MustCompile(`(?im)^\s*ENCODING:\s*UTF-8`)
	xmlDeclRegex  = regexp.MustCompile(`<\?xml[^>]*\?>`)
	xmlEncRegex   = regexp.MustCompile(`encoding=["']([^"']+)["']`)
	fieldRegexes  = map[string]*regexp.Regexp{}
)

func init() {
	for _, tag := range []string{"DTPOSTED", "TRNAMT", "MEMO", "FITID"} {
		fieldRegexes[tag] = regexp.MustCompile(fmt.Sprintf(`<%s>([^<\r\n]*)`, tag))
	}
}

// ParseOFX extracts STMTTRN records from an OFX statement, SGML or XML.
// A record with a malformed date or amount fails the whole file.
func (p *Parser) ParseOFX(data []byte, label string) ([]models.RawTransaction, error) {
	content, err := p.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode statement: %w", err)
	}
	if !strings.Contains(strings.ToUpper(content), "<OFX>") {
		return nil, errors.New("not an OFX document")
	}

	matches := trnRegex.FindAllStringSubmatch(content, -1)
	transactions := make([]models.RawTransaction, 0, len(matches))

	for i, match := range matches {
		block := match[1]
		getField := func(tag string) string {
			if m := fieldRegexes[tag].FindStringSubmatch(block); len(m) > 1 {
				return strings.TrimSpace(m[1])
			}
			return ""
		}

		tx, err := models.NewRaw(unescapeSGML(getField("MEMO"))).
			SetOFXDate(getField("DTPOSTED")).
			SetAmount(getField("TRNAMT")).
			SetExternalID(getField("FITID")).
			SetSource(label).
			Build()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		transactions = append(transactions, tx)
	}

	p.logger.Debug("OFX parsing complete", "file", label, "transactions", len(transactions))
	return transactions, nil
}

// decode converts the statement to UTF-8. The OFX header decides the
// charset; undeclared files use the parser's default.
func (p *Parser) decode(data []byte) (string, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if encodingRegex.Match(head) {
		return string(data), nil
	}

	name := p.charset
	if decl := xmlDeclRegex.Find(head); decl != nil {
		// XML defaults to UTF-8 unless the declaration says otherwise
		name = "UTF-8"
		if m := xmlEncRegex.FindSubmatch(decl); m != nil {
			name = string(m[1])
		}
	} else if m := charsetRegex.FindSubmatch(head); len(m) > 1 && !bytes.EqualFold(m[1], []byte("NONE")) {
		name = string(m[1])
	}

	enc := lookupCharset(name)
	if enc == nil {
		return string(data), nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func lookupCharset(name string) encoding.Encoding {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "1252", "WINDOWS-1252", "CP1252":
		return charmap.Windows1252
	case "8859-1", "ISO-8859-1", "ISO8859-1", "LATIN1":
		return charmap.ISO8859_1
	}
	return nil
}

var sgmlEntities = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")

func unescapeSGML(s string) string {
	return sgmlEntities.Replace(s)
}
