// Package rules holds the user-editable rule base used to classify
// statement transactions: keyword rules mapping text fragments to categories
// and internal terms flagging transfers between the user's own accounts.
package rules

import (
	"errors"
	"strings"

	"github.com/yurifrl/organizador/pkg/category"
)

var (
	ErrEmptyKeyword = errors.New("keyword must not be blank")
	ErrNotFound     = errors.New("rule not found")
)

// KeywordRule maps a text fragment to a category name.
type KeywordRule struct {
	Keyword  string `json:"Palavra_Chave" yaml:"Palavra_Chave"`
	Category string `json:"Categoria" yaml:"Categoria"`
}

// InternalTerm marks descriptions that move money between own accounts.
type InternalTerm struct {
	Term string `json:"Termo" yaml:"Termo"`
	Kind string `json:"Tipo" yaml:"Tipo"`
}

type keywordEntry struct {
	rule     KeywordRule
	key      string
	category category.Category
}

type termEntry struct {
	term InternalTerm
	key  string
}

// RuleSet is an ordered collection of keyword rules and internal terms.
// Insertion order is the match priority. Keys are compared upper-cased.
// A RuleSet is not safe for concurrent mutation; use a Book to share one.
type RuleSet struct {
	keywords []keywordEntry
	terms    []termEntry
}

// New builds a RuleSet from ordered lists. Blank keywords and terms are
// dropped; a repeated key keeps its first position and its last value.
func New(keywords []KeywordRule, terms []InternalTerm) *RuleSet {
	rs := &RuleSet{}
	for _, k := range keywords {
		_ = rs.UpsertKeywordRule(k.Keyword, k.Category)
	}
	for _, t := range terms {
		_ = rs.UpsertInternalTerm(t.Term, t.Kind)
	}
	return rs
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// KeywordCategory returns the category of the first keyword, in insertion
// order, contained in text.
func (rs *RuleSet) KeywordCategory(text string) (category.Category, bool) {
	desc := strings.ToUpper(text)
	for _, e := range rs.keywords {
		if strings.Contains(desc, e.key) {
			return e.category, true
		}
	}
	return category.Category{}, false
}

// HasRendaKeyword reports whether any keyword mapped to "Renda" is contained
// in text. The whole rule list is scanned, not only the first match.
func (rs *RuleSet) HasRendaKeyword(text string) bool {
	desc := strings.ToUpper(text)
	for _, e := range rs.keywords {
		if e.category.Kind() == category.KindRenda && strings.Contains(desc, e.key) {
			return true
		}
	}
	return false
}

// InternalKind returns the kind of the first internal term contained in text.
func (rs *RuleSet) InternalKind(text string) (string, bool) {
	desc := strings.ToUpper(text)
	for _, e := range rs.terms {
		if strings.Contains(desc, e.key) {
			return e.term.Kind, true
		}
	}
	return "", false
}

// UpsertKeywordRule adds a rule at the end, or replaces the category of an
// existing rule in place.
func (rs *RuleSet) UpsertKeywordRule(keyword, cat string) error {
	key := normalize(keyword)
	if key == "" {
		return ErrEmptyKeyword
	}
	entry := keywordEntry{
		rule:     KeywordRule{Keyword: strings.TrimSpace(keyword), Category: cat},
		key:      key,
		category: category.Parse(cat),
	}
	for i, e := range rs.keywords {
		if e.key == key {
			rs.keywords[i] = entry
			return nil
		}
	}
	rs.keywords = append(rs.keywords, entry)
	return nil
}

func (rs *RuleSet) RemoveKeywordRule(keyword string) error {
	key := normalize(keyword)
	for i, e := range rs.keywords {
		if e.key == key {
			rs.keywords = append(rs.keywords[:i:i], rs.keywords[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// UpsertInternalTerm adds a term at the end, or replaces the kind of an
// existing term in place.
func (rs *RuleSet) UpsertInternalTerm(term, kind string) error {
	key := normalize(term)
	if key == "" {
		return ErrEmptyKeyword
	}
	entry := termEntry{term: InternalTerm{Term: strings.TrimSpace(term), Kind: kind}, key: key}
	for i, e := range rs.terms {
		if e.key == key {
			rs.terms[i] = entry
			return nil
		}
	}
	rs.terms = append(rs.terms, entry)
	return nil
}

func (rs *RuleSet) RemoveInternalTerm(term string) error {
	key := normalize(term)
	for i, e := range rs.terms {
		if e.key == key {
			rs.terms = append(rs.terms[:i:i], rs.terms[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// KeywordRules returns a copy of the keyword rules in priority order.
func (rs *RuleSet) KeywordRules() []KeywordRule {
	out := make([]KeywordRule, 0, len(rs.keywords))
	for _, e := range rs.keywords {
		out = append(out, e.rule)
	}
	return out
}

// InternalTerms returns a copy of the internal terms in order.
func (rs *RuleSet) InternalTerms() []InternalTerm {
	out := make([]InternalTerm, 0, len(rs.terms))
	for _, e := range rs.terms {
		out = append(out, e.term)
	}
	return out
}

func (rs *RuleSet) Clone() *RuleSet {
	return &RuleSet{
		keywords: append([]keywordEntry(nil), rs.keywords...),
		terms:    append([]termEntry(nil), rs.terms...),
	}
}
