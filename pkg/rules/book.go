package rules

import (
	"io"
	"sync"
)

// Book holds the active RuleSet of a session. Readers get an isolated
// snapshot, so a classification pass never observes a partial edit.
type Book struct {
	mu      sync.RWMutex
	current *RuleSet
}

func NewBook(rs *RuleSet) *Book {
	if rs == nil {
		rs = Default()
	}
	return &Book{current: rs.Clone()}
}

// Snapshot returns a private copy of the active rule set.
func (b *Book) Snapshot() *RuleSet {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current.Clone()
}

// Replace swaps the active rule set wholesale.
func (b *Book) Replace(rs *RuleSet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = rs.Clone()
}

// Update applies fn to a copy and commits it only if fn succeeds.
func (b *Book) Update(fn func(*RuleSet) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := b.current.Clone()
	if err := fn(next); err != nil {
		return err
	}
	b.current = next
	return nil
}

// Commit makes rs active once persist accepts it. When persist fails the
// previous rule set stays active. persist runs under the write lock, so
// concurrent commits reach disk in the order they become active.
func (b *Book) Commit(rs *RuleSet, persist func(*RuleSet) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := rs.Clone()
	if persist != nil {
		if err := persist(next); err != nil {
			return err
		}
	}
	b.current = next
	return nil
}

// Load replaces the active set from a JSON document. On error the previous
// rule set stays active.
func (b *Book) Load(r io.Reader) error {
	rs, err := Decode(r)
	if err != nil {
		return err
	}
	b.Replace(rs)
	return nil
}

// LoadFile is Load for a JSON or YAML file on disk.
func (b *Book) LoadFile(path string) error {
	rs, err := LoadFile(path)
	if err != nil {
		return err
	}
	b.Replace(rs)
	return nil
}
