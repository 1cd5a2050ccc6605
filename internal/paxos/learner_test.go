package paxos

import (
	"testing"

	"github.com/khanh101/paxoskv/internal/logx"
)

type fakeMutator struct {
	puts    map[string]string
	deleted []string
}

func newFakeMutator() *fakeMutator {
	return &fakeMutator{puts: make(map[string]string)}
}

func (f *fakeMutator) Put(key, value string) { f.puts[key] = value }

func (f *fakeMutator) Delete(key string) bool {
	if _, ok := f.puts[key]; !ok {
		return false
	}
	delete(f.puts, key)
	f.deleted = append(f.deleted, key)
	return true
}

func TestLearnAppliesPut(t *testing.T) {
	m := newFakeMutator()
	l := NewLearner(m, &logx.Logger{})

	l.Learn("PUT name Kohli")
	if m.puts["name"] != "Kohli" {
		t.Fatalf("puts[name] = %q, want %q", m.puts["name"], "Kohli")
	}
}

func TestLearnAppliesDelete(t *testing.T) {
	m := newFakeMutator()
	l := NewLearner(m, &logx.Logger{})

	l.Learn("PUT name Kohli")
	l.Learn("DELETE name")
	if _, ok := m.puts["name"]; ok {
		t.Fatal("key should have been deleted")
	}
}

func TestLearnIgnoresMalformedValue(t *testing.T) {
	m := newFakeMutator()
	l := NewLearner(m, &logx.Logger{})

	l.Learn("PUT onlykey")
	if len(m.puts) != 0 {
		t.Fatalf("malformed PUT should not apply, got %v", m.puts)
	}

	l.Learn("UNKNOWN foo bar")
	if len(m.puts) != 0 {
		t.Fatalf("unknown operation should not apply, got %v", m.puts)
	}
}
