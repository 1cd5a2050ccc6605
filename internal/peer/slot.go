// Package peer wires one cluster member's KV Service, Proposer, Acceptor
// and Learner onto a single rpcx.Server, the way RMIServerStarter binds
// the four objects under one peer's base URL in the original. Role is
// carried in the RPC method namespace rather than a separate binding —
// see SPEC_FULL.md §2.
package peer

import (
	"sync"

	"github.com/khanh101/paxoskv/internal/paxos"
)

// AcceptorSlot is the restart-safe indirection the failure injector
// operates on: Unexport drops the live Acceptor (every acceptor RPC that
// arrives while the slot is empty fails, which every caller already treats
// as REJECT, and acceptor.IsLeader reports false; a call that fetched the
// acceptor before Unexport runs to completion on it), Restart builds a
// fresh one at the same address. This is the Go
// equivalent of Naming.rebind after UnicastRemoteObject.unexportObject.
type AcceptorSlot struct {
	addr        string
	newAcceptor func() *paxos.Acceptor

	mu       sync.RWMutex
	acceptor *paxos.Acceptor
}

func NewAcceptorSlot(addr string, newAcceptor func() *paxos.Acceptor) *AcceptorSlot {
	return &AcceptorSlot{addr: addr, newAcceptor: newAcceptor, acceptor: newAcceptor()}
}

func (s *AcceptorSlot) Addr() string { return s.addr }

func (s *AcceptorSlot) Get() *paxos.Acceptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.acceptor
}

func (s *AcceptorSlot) IsExported() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.acceptor != nil
}

func (s *AcceptorSlot) Unexport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acceptor == nil {
		return
	}
	s.acceptor.Stop()
	s.acceptor = nil
}

func (s *AcceptorSlot) Restart() {
	fresh := s.newAcceptor()
	s.mu.Lock()
	s.acceptor = fresh
	s.mu.Unlock()
}
