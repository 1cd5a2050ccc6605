package kvservice

import "sync"

// LeaderRegistry holds the process-wide "current leader proposer"
// handle spec.md §4.1 describes: the most recent winner of
// election.AssignLeadershipProposer, shared by every peer's KV Service
// in this process. It replaces the original's static field on
// KeyValueStoreImpl (§9: "global state becomes explicit").
type LeaderRegistry struct {
	mu   sync.RWMutex
	addr string
	set  bool
}

func NewLeaderRegistry() *LeaderRegistry {
	return &LeaderRegistry{}
}

func (r *LeaderRegistry) Set(addr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addr = addr
	r.set = true
}

func (r *LeaderRegistry) Get() (addr string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.addr, r.set
}
