package kvstore

import "testing"

func TestMemStoreGetSetDel(t *testing.T) {
	s := NewMemStore()

	s.Update(func(txn Txn) any {
		txn.Set("k", "v")
		return nil
	})

	type result struct {
		value string
		ok    bool
	}
	r := s.Update(func(txn Txn) any {
		v, ok := txn.Get("k")
		return result{v, ok}
	}).(result)
	if !r.ok || r.value != "v" {
		t.Fatalf("Get after Set = (%q, %v), want (%q, true)", r.value, r.ok, "v")
	}

	s.Update(func(txn Txn) any {
		txn.Del("k")
		return nil
	})

	missing := s.Update(func(txn Txn) any {
		_, ok := txn.Get("k")
		return ok
	}).(bool)
	if missing {
		t.Fatal("key still present after Del")
	}
}

func TestMemStoreKeys(t *testing.T) {
	s := NewMemStore()
	s.Update(func(txn Txn) any {
		txn.Set("a", "1")
		txn.Set("b", "2")
		return nil
	})

	keys := s.Keys()
	if len(keys) != 2 {
		t.Fatalf("Keys() = %v, want 2 entries", keys)
	}
}
