package paxos

import (
	"fmt"
	"sync"

	"github.com/khanh101/paxoskv/internal/cluster"
	"github.com/khanh101/paxoskv/internal/heartbeat"
	"github.com/khanh101/paxoskv/internal/logx"
	"github.com/khanh101/paxoskv/pkg/rpcx"
)

// Acceptor is the safety-critical Paxos role: it votes on Prepare/Accept
// requests and, while it is the elected leader-acceptor, drives the
// quorum fan-out on behalf of whichever proposer is asking. State layout
// follows spec.md §3: highestProposal never decreases, acceptedValue is
// nullable.
type Acceptor struct {
	ctx    cluster.Context
	logger *logx.Logger

	mu              sync.Mutex
	highestProposal ProposalNumber
	acceptedValue   *string
	leader          bool

	aliveFlag  *heartbeat.AliveFlag
	stopHeart  func()
	heartMu    sync.Mutex
	onReelect  func() // assignLeadershipAcceptor, injected to avoid an import cycle with election
	selfAddr   string
}

func NewAcceptor(ctx cluster.Context, selfAddr string, logger *logx.Logger, onReelect func()) *Acceptor {
	return &Acceptor{
		ctx:             ctx,
		logger:          logger,
		highestProposal: 0,
		aliveFlag:       heartbeat.NewAliveFlag(),
		onReelect:       onReelect,
		selfAddr:        selfAddr,
	}
}

// --- local vote operations, invariant 1 & 2 of spec.md §3 ---

// Prepare implements the PROMISE rule: it must be atomic with respect to
// every other Prepare/Accept on this acceptor.
func (a *Acceptor) Prepare(n ProposalNumber) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n > a.highestProposal {
		a.highestProposal = n
		return PromiseResult
	}
	return RejectResult
}

// Accept implements spec.md §4.3's acceptance rule using the original's
// `n >= highestProposal` comparison verbatim (see §9: a conventional
// Paxos acceptor would require `n >= promised`, i.e. reject a proposal
// number it has never promised in the first place is not the issue here
// — the issue is that `>=` lets an already-promised-higher proposal's
// *own* number be overwritten by an equal-numbered, later Accept. This is
// faithfully reproduced, not fixed.)
func (a *Acceptor) Accept(n ProposalNumber, v string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n >= a.highestProposal {
		a.highestProposal = n
		value := v
		a.acceptedValue = &value
		return AcceptResult
	}
	return RejectResult
}

func (a *Acceptor) HighestProposal() ProposalNumber {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.highestProposal
}

func (a *Acceptor) AcceptedValue() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.acceptedValue == nil {
		return "", false
	}
	return *a.acceptedValue, true
}

// --- coordinator operations, only meaningful on the leader-acceptor ---

// HandlePrepareRequest fans Prepare(n) out to every acceptor in the
// cluster, serially — spec.md §5 notes this can block for up to
// N*(lookup+RPC) under network slowness, which is accepted here exactly
// as the original accepts it.
func (a *Acceptor) HandlePrepareRequest(n ProposalNumber) string {
	a.logger.LogActivity("acceptor %s: prepare requested for proposal %d", a.selfAddr, n)
	promises := 0
	for _, addr := range a.ctx.AcceptorAddrs() {
		res, err := rpcx.Call[PrepareRequest, PrepareResponse](addr, "acceptor.Prepare", &PrepareRequest{Proposal: n})
		result := RejectResult
		if err == nil {
			result = res.Result
		}
		if result == PromiseResult {
			promises++
		}
	}
	result := RejectResult
	if promises > a.ctx.N()/2 {
		result = PromiseResult
	}
	a.logger.LogActivity("acceptor %s: prepare for proposal %d -> %s (%d/%d promises)", a.selfAddr, n, result, promises, a.ctx.N())
	return result
}

// HandleAcceptRequest symmetrically fans Accept(n,v) out to every
// acceptor and reports a strict majority.
func (a *Acceptor) HandleAcceptRequest(n ProposalNumber, v string) string {
	a.logger.LogActivity("acceptor %s: accept requested for proposal %d value %q", a.selfAddr, n, v)
	accepts := 0
	for _, addr := range a.ctx.AcceptorAddrs() {
		res, err := rpcx.Call[AcceptRequest, AcceptResponse](addr, "acceptor.Accept", &AcceptRequest{Proposal: n, Value: v})
		result := RejectResult
		if err == nil {
			result = res.Result
		}
		if result == AcceptResult {
			accepts++
		}
	}
	result := RejectResult
	if accepts > a.ctx.N()/2 {
		result = AcceptResult
	}
	a.logger.LogActivity("acceptor %s: accept for proposal %d -> %s (%d/%d accepts)", a.selfAddr, n, result, accepts, a.ctx.N())
	return result
}

// Learn broadcasts v to every learner, in cluster order. Per invariant 3,
// this is only called after a majority Accept. The first learner call that
// fails ends the broadcast with that error; learners later in the list are
// not asked.
func (a *Acceptor) Learn(v string) (string, error) {
	a.logger.LogActivity("acceptor %s: asking learners to learn %q", a.selfAddr, v)
	for _, addr := range a.ctx.LearnerAddrs() {
		if _, err := rpcx.Call[LearnRequest, LearnResponse](addr, "learner.Learn", &LearnRequest{Value: v}); err != nil {
			return "", fmt.Errorf("learn: learner %s: %w", addr, err)
		}
	}
	return "Learned: " + v, nil
}

// --- leadership plumbing ---

func (a *Acceptor) IsLeader() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.leader
}

// SetLeader flips leadership and (re)starts the matching background
// loop: a heartbeat emitter on the leader, a silence monitor on everyone
// else. Invariant 4: after electLeaders completes, exactly one acceptor
// has IsLeader() == true.
func (a *Acceptor) SetLeader(isLeader bool) {
	a.mu.Lock()
	a.leader = isLeader
	a.mu.Unlock()

	a.heartMu.Lock()
	defer a.heartMu.Unlock()
	if a.stopHeart != nil {
		a.stopHeart()
		a.stopHeart = nil
	}
	if isLeader {
		a.stopHeart = heartbeat.StartEmitter(heartbeat.EmitInterval, a.ctx.AcceptorAddrs(), func(addr string) {
			rpcx.Call[HeartbeatRequest, HeartbeatResponse](addr, "acceptor.ReceiveHeartbeat", &HeartbeatRequest{})
		})
	} else {
		a.aliveFlag.MarkAlive()
		a.stopHeart = heartbeat.StartMonitor(heartbeat.MonitorInterval, a.aliveFlag, func() {
			if a.onReelect != nil {
				a.onReelect()
			}
		})
	}
}

func (a *Acceptor) ReceiveHeartbeat() {
	a.aliveFlag.MarkAlive()
}

// Stop cancels whichever background loop is currently running. Used when
// the failure injector unexports this acceptor.
func (a *Acceptor) Stop() {
	a.heartMu.Lock()
	defer a.heartMu.Unlock()
	if a.stopHeart != nil {
		a.stopHeart()
		a.stopHeart = nil
	}
}
