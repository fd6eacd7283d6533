package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/organizador/pkg/models"
)

const sgmlOFX = "OFXHEADER:100\r\nDATA:OFXSGML\r\nVERSION:102\r\nENCODING:USASCII\r\nCHARSET:1252\r\n\r\n" +
	"<OFX><BANKMSGSRSV1><STMTTRNRS><STMTRS><BANKTRANLIST>\r\n" +
	"<STMTTRN>\r\n<TRNTYPE>DEBIT\r\n<DTPOSTED>20250317120000[-3:BRT]\r\n<TRNAMT>-25.00\r\n<FITID>0001\r\n<MEMO>UBER TRIP 123\r\n</STMTTRN>\r\n" +
	"<STMTTRN>\r\n<TRNTYPE>CREDIT\r\n<DTPOSTED>20250318\r\n<TRNAMT>3000,00\r\n<FITID>0002\r\n<MEMO>TED RECEBIDA SALARIO &amp; BONUS\r\n</STMTTRN>\r\n" +
	"<STMTTRN>\r\n<TRNTYPE>DEBIT\r\n<DTPOSTED>20250319\r\n<TRNAMT>-12.50\r\n<FITID>0003\r\n<MEMO>FARM\xc1CIA S\xc3O JO\xc3O\r\n</STMTTRN>\r\n" +
	"<STMTTRN>\r\n<TRNTYPE>DEBIT\r\n<DTPOSTED>20250320\r\n<TRNAMT>-1.00\r\n<FITID>0004\r\n</STMTTRN>\r\n" +
	"</BANKTRANLIST></STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>\r\n"

const xmlOFX = `<?xml version="1.0" encoding="UTF-8"?>
<?OFX OFXHEADER="200" VERSION="220"?>
<OFX><BANKMSGSRSV1><STMTTRNRS><STMTRS><BANKTRANLIST>
<STMTTRN><TRNTYPE>DEBIT</TRNTYPE><DTPOSTED>20250401</DTPOSTED><TRNAMT>-89.90</TRNAMT><FITID>X1</FITID><MEMO>FARMÁCIA</MEMO></STMTTRN>
</BANKTRANLIST></STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>`

func TestProcessBytesOFX(t *testing.T) {
	p := New(log.Default())
	output, err := p.ProcessBytes([]byte(sgmlOFX), "/tmp/Extrato.OFX")
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}

	expected := []struct {
		date   time.Time
		memo   string
		amount string
		id     string
	}{
		{time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), "UBER TRIP 123", "-25.00", "0001"},
		{time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), "TED RECEBIDA SALARIO & BONUS", "3000.00", "0002"},
		{time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC), "FARMÁCIA SÃO JOÃO", "-12.50", "0003"},
		{time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), "", "-1.00", "0004"},
	}

	if len(output) != len(expected) {
		t.Fatalf("Expected %d transactions, got %d", len(expected), len(output))
	}
	for i, exp := range expected {
		assertTransaction(t, output[i], exp.date, exp.memo, exp.amount)
		if output[i].ExternalID != exp.id {
			t.Errorf("Transaction %d: ExternalID = %q, want %q", i, output[i].ExternalID, exp.id)
		}
		if output[i].SourceLabel != "Extrato.OFX" {
			t.Errorf("Transaction %d: SourceLabel = %q", i, output[i].SourceLabel)
		}
	}
}

func TestParseOFXXML(t *testing.T) {
	p := New(log.Default())
	output, err := p.ParseOFX([]byte(xmlOFX), "extrato.ofx")
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(output))
	}
	assertTransaction(t, output[0], time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), "FARMÁCIA", "-89.90")
}

func TestParseOFXErrors(t *testing.T) {
	p := New(log.Default())

	if _, err := p.ParseOFX([]byte("just some text"), "x.ofx"); err == nil {
		t.Error("expected error for a non OFX document")
	}

	bad := "<OFX><STMTTRN><DTPOSTED>20250101<TRNAMT>abc<MEMO>X</STMTTRN></OFX>"
	if _, err := p.ParseOFX([]byte(bad), "x.ofx"); err == nil {
		t.Error("expected error for a malformed amount")
	}

	empty, err := p.ParseOFX([]byte("<OFX></OFX>"), "x.ofx")
	if err != nil || len(empty) != 0 {
		t.Errorf("got %v, %v; want no transactions and no error", empty, err)
	}
}

func TestProcessBytesTXT(t *testing.T) {
	content := []byte("17/03/2025;PIX TRANSF ID_A15/03;-2.327,00\r\n" +
		"17/03/2025;MOBILE PAG TIT 426XXXXXX;-287,00\n" +
		"garbage line\n" +
		"18/03/2025;SALDO;not a number\n" +
		"19/03/2025;PIX TRANSF ID_C19/03;1900,00\n")

	p := New(log.Default())
	output, err := p.ProcessBytes(content, "extrato.txt")
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if len(output) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(output))
	}

	assertTransaction(t, output[0], time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), "PIX TRANSF ID_A15/03", "-2327.00")
	assertTransaction(t, output[1], time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), "MOBILE PAG TIT 426XXXXXX", "-287.00")
	assertTransaction(t, output[2], time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC), "PIX TRANSF ID_C19/03", "1900.00")
}

func TestProcessBytesUnknown(t *testing.T) {
	p := New(log.Default())
	if _, err := p.ProcessBytes([]byte("x"), "notes.pdf"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("got %v, want ErrUnknownFormat", err)
	}
}

func TestDetectType(t *testing.T) {
	tests := map[string]FileType{
		"extrato.ofx":                   OFX,
		"EXTRATO.QFX":                   OFX,
		"Extrato Conta Corrente.txt":    ItauExtratoTXT,
		"Extrato Conta Corrente-01.xls": ItauExtratoXLS,
		"fatura.pdf":                    "",
	}
	for name, want := range tests {
		if got := DetectType(name); got != want {
			t.Errorf("DetectType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestWithCharset(t *testing.T) {
	// no CHARSET header: the configured default decides
	data := []byte("<OFX><STMTTRN><DTPOSTED>20250101<TRNAMT>-1<MEMO>CAF\xc9</STMTTRN></OFX>")

	latin := New(log.Default())
	out, err := latin.ParseOFX(data, "x.ofx")
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Memo != "CAFÉ" {
		t.Errorf("Memo = %q, want CAFÉ", out[0].Memo)
	}

	utf8 := New(log.Default(), WithCharset("UTF-8"))
	out, err = utf8.ParseOFX([]byte("<OFX><STMTTRN><DTPOSTED>20250101<TRNAMT>-1<MEMO>CAFÉ</STMTTRN></OFX>"), "x.ofx")
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Memo != "CAFÉ" {
		t.Errorf("Memo = %q, want CAFÉ", out[0].Memo)
	}
}

func assertTransaction(t *testing.T, tx models.RawTransaction, date time.Time, memo, amount string) {
	t.Helper()
	want := decimal.RequireFromString(amount)
	if !tx.Date.Equal(date) || tx.Memo != memo || !tx.Amount.Equal(want) {
		t.Errorf("Transaction mismatch:\nExpected: date=%s, memo=%s, amount=%s\nGot: date=%s, memo=%s, amount=%s",
			date.Format("2006/01/02"), memo, want,
			tx.Date.Format("2006/01/02"), tx.Memo, tx.Amount)
	}
}
