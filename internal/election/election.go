// Package election implements the two independent leader-election
// routines from spec.md §4.5: one for proposers, one for acceptors. Each
// debounces against election storms and picks uniformly at random —
// faithfully reproducing the split-brain-under-churn risk §9 flags
// rather than silently hardening it with terms or epochs.
package election

import (
	"math/rand"
	"sync"
	"time"

	"github.com/khanh101/paxoskv/internal/cluster"
	"github.com/khanh101/paxoskv/internal/logx"
	"github.com/khanh101/paxoskv/internal/paxos"
	"github.com/khanh101/paxoskv/pkg/rpcx"
)

// MinInterval is MIN_INTERVAL_MS from spec.md §4.5.
const MinInterval = 1 * time.Second

type Election struct {
	ctx    cluster.Context
	logger *logx.Logger

	proposerMu   sync.Mutex
	lastProposer time.Time

	acceptorMu   sync.Mutex
	lastAcceptor time.Time
}

func New(ctx cluster.Context, logger *logx.Logger) *Election {
	return &Election{ctx: ctx, logger: logger}
}

// AssignLeadershipProposer picks a proposer uniformly at random, tells
// every proposer whether it won, and returns the winner's address. ok is
// false if the call is debounced (spec.md invariant 5).
func (e *Election) AssignLeadershipProposer() (leaderAddr string, ok bool) {
	e.proposerMu.Lock()
	defer e.proposerMu.Unlock()

	now := time.Now()
	if now.Sub(e.lastProposer) < MinInterval {
		return "", false
	}
	e.lastProposer = now

	addrs := e.ctx.ProposerAddrs()
	chosen := addrs[rand.Intn(len(addrs))]
	for _, addr := range addrs {
		_, err := rpcx.Call[paxos.SetLeaderRequest, paxos.SetLeaderResponse](
			addr, "proposer.SetLeader", &paxos.SetLeaderRequest{IsLeader: addr == chosen})
		if err != nil {
			e.logger.LogError("election: setLeader on proposer %s: %v", addr, err)
		}
	}
	e.logger.LogActivity("proposer leader elected: %s", chosen)
	return chosen, true
}

// AssignLeadershipAcceptor picks an acceptor uniformly at random and
// tells every acceptor whether it won.
func (e *Election) AssignLeadershipAcceptor() {
	e.acceptorMu.Lock()
	defer e.acceptorMu.Unlock()

	now := time.Now()
	if now.Sub(e.lastAcceptor) < MinInterval {
		return
	}
	e.lastAcceptor = now

	addrs := e.ctx.AcceptorAddrs()
	chosen := addrs[rand.Intn(len(addrs))]
	for _, addr := range addrs {
		_, err := rpcx.Call[paxos.SetLeaderRequest, paxos.SetLeaderResponse](
			addr, "acceptor.SetLeader", &paxos.SetLeaderRequest{IsLeader: addr == chosen})
		if err != nil {
			e.logger.LogError("election: setLeader on acceptor %s: %v", addr, err)
		}
	}
	e.logger.LogActivity("acceptor leader elected: %s", chosen)
}
