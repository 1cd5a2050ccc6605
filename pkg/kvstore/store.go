// Package kvstore is the replicated map's storage interface: a single
// string-keyed, string-valued table that every peer's kvservice.Service
// updates under Learner.Learn, plus the one alternate backend the debug
// snapshot exporter writes its read-only dump through. There is no
// generic Store[K,V] here — every value this cluster ever stores is the
// PUT/GET/DELETE grammar's string payload (spec.md §4.1), so the
// abstraction only needs to cover that one shape.
package kvstore

// Txn is the set of mutations visible to one Update call.
type Txn interface {
	Get(key string) (value string, ok bool)
	Set(key, value string)
	Del(key string)
}

// Store is a string-keyed table. Update runs fn with exclusive access and
// returns whatever fn returns. The in-memory store's Keys takes no lock of
// its own, so it is safe only inside Update or while no Update runs.
type Store interface {
	Update(fn func(txn Txn) any) any
	Keys() []string
}
