package rules

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeMissingKeysUseDefaults(t *testing.T) {
	rs, err := Decode(strings.NewReader(`{"regras": [{"Palavra_Chave": "ACADEMIA", "Categoria": "Saúde", "Extra": 1}]}`))
	if err != nil {
		t.Fatal(err)
	}

	want := []KeywordRule{{Keyword: "ACADEMIA", Category: "Saúde"}}
	if got := rs.KeywordRules(); !reflect.DeepEqual(got, want) {
		t.Errorf("keywords = %+v, want %+v", got, want)
	}
	if got := rs.InternalTerms(); !reflect.DeepEqual(got, DefaultInternalTerms()) {
		t.Errorf("internal terms = %+v, want defaults", got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	inputs := []string{
		``,
		`not json`,
		`[]`,
		`{"regras": "UBER"}`,
		`{"regras":[]} junk`,
		`{"regras": [], "internos": []} {"regras": []}`,
	}
	for _, in := range inputs {
		if _, err := Decode(strings.NewReader(in)); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rs := Default()
	_ = rs.UpsertKeywordRule("Academia", "Saúde")
	_ = rs.UpsertInternalTerm("Cofrinho", "Poupança")

	var buf bytes.Buffer
	if err := rs.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"Palavra_Chave": "Academia"`) {
		t.Errorf("unexpected encoding:\n%s", buf.String())
	}

	back, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.KeywordRules(), rs.KeywordRules()) {
		t.Errorf("keywords differ after round trip")
	}
	if !reflect.DeepEqual(back.InternalTerms(), rs.InternalTerms()) {
		t.Errorf("internal terms differ after round trip")
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rs := Default()
	_ = rs.RemoveKeywordRule("LUZ")

	for _, name := range []string{"config_financeiro.json", "regras.yaml"} {
		path := filepath.Join(dir, name)
		if err := rs.SaveFile(path); err != nil {
			t.Fatalf("SaveFile(%s): %v", name, err)
		}
		back, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		if !reflect.DeepEqual(back.KeywordRules(), rs.KeywordRules()) {
			t.Errorf("%s: keywords differ after round trip", name)
		}
		if !reflect.DeepEqual(back.InternalTerms(), rs.InternalTerms()) {
			t.Errorf("%s: internal terms differ after round trip", name)
		}
	}
}

func TestBookLoadFailureKeepsPrevious(t *testing.T) {
	custom := New([]KeywordRule{{Keyword: "ACADEMIA", Category: "Saúde"}}, nil)
	book := NewBook(custom)

	if err := book.Load(strings.NewReader(`{broken`)); err == nil {
		t.Fatal("expected error")
	}
	if got := book.Snapshot().KeywordRules(); !reflect.DeepEqual(got, custom.KeywordRules()) {
		t.Errorf("rule set changed after failed load: %+v", got)
	}

	if err := book.Load(strings.NewReader(`{"regras": [], "internos": []} this is not json`)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
	if got := book.Snapshot().KeywordRules(); !reflect.DeepEqual(got, custom.KeywordRules()) {
		t.Errorf("rule set changed after loading trailing data: %+v", got)
	}

	if err := book.Load(strings.NewReader(`{}`)); err != nil {
		t.Fatal(err)
	}
	if got := book.Snapshot().KeywordRules(); !reflect.DeepEqual(got, DefaultKeywordRules()) {
		t.Errorf("expected defaults after loading an empty document")
	}
}

func TestBookUpdateIsAllOrNothing(t *testing.T) {
	book := NewBook(nil)
	snap := book.Snapshot()

	err := book.Update(func(rs *RuleSet) error {
		if err := rs.UpsertKeywordRule("ACADEMIA", "Saúde"); err != nil {
			return err
		}
		return rs.RemoveKeywordRule("DOES NOT EXIST")
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if _, ok := book.Snapshot().KeywordCategory("ACADEMIA"); ok {
		t.Error("failed update was committed")
	}

	if err := book.Update(func(rs *RuleSet) error { return rs.UpsertKeywordRule("ACADEMIA", "Saúde") }); err != nil {
		t.Fatal(err)
	}
	if _, ok := snap.KeywordCategory("ACADEMIA"); ok {
		t.Error("earlier snapshot observed a later edit")
	}
	if _, ok := book.Snapshot().KeywordCategory("ACADEMIA"); !ok {
		t.Error("update was not committed")
	}
}

func TestDecodeYAMLMalformed(t *testing.T) {
	inputs := []string{
		"regras: UBER\n",
		"regras: []\n---\nregras: []\n",
	}
	for _, in := range inputs {
		if _, err := DecodeYAML(strings.NewReader(in)); !errors.Is(err, ErrMalformed) {
			t.Errorf("DecodeYAML(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}

func TestBookCommit(t *testing.T) {
	book := NewBook(nil)
	empty := New(nil, nil)

	saveErr := errors.New("disk full")
	if err := book.Commit(empty, func(*RuleSet) error { return saveErr }); !errors.Is(err, saveErr) {
		t.Fatalf("got %v, want %v", err, saveErr)
	}
	if got := book.Snapshot().KeywordRules(); !reflect.DeepEqual(got, DefaultKeywordRules()) {
		t.Errorf("failed commit changed the active rules: %+v", got)
	}

	var saved *RuleSet
	if err := book.Commit(empty, func(rs *RuleSet) error { saved = rs; return nil }); err != nil {
		t.Fatal(err)
	}
	if saved == nil || len(saved.KeywordRules()) != 0 {
		t.Error("persist did not receive the new rules")
	}
	if got := book.Snapshot().KeywordRules(); len(got) != 0 {
		t.Errorf("commit not applied: %+v", got)
	}
}
