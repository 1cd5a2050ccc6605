package paxos

import (
	"sync"

	"github.com/khanh101/paxoskv/internal/cluster"
	"github.com/khanh101/paxoskv/internal/logx"
	"github.com/khanh101/paxoskv/pkg/rpcx"
)

// Proposer drives Phase 1/2 of a round when it is the leader. One round
// is one call to Propose: a prepare fan-out followed, on success, by an
// accept fan-out and a learn fan-out — never retried automatically
// (spec.md §4.2, §7).
type Proposer struct {
	ctx      cluster.Context
	nodeID   uint32
	logger   *logx.Logger
	selfAddr string

	mu       sync.Mutex
	round    uint64
	value    string
	leader   bool
	leaderOK bool // mirrors the Java receiveHeartbeat bit; no monitor is driven off it, matching the original
}

func NewProposer(ctx cluster.Context, nodeID uint32, selfAddr string, logger *logx.Logger) *Proposer {
	return &Proposer{ctx: ctx, nodeID: nodeID, selfAddr: selfAddr, logger: logger, leaderOK: true}
}

func (p *Proposer) SetValue(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
}

func (p *Proposer) SetLeader(isLeader bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leader = isLeader
}

func (p *Proposer) IsLeader() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leader
}

// ReceiveHeartbeat marks the leader alive. Unlike the acceptor, no
// monitor timer is ever started off this flag — the original's Proposer
// has the same heartbeat-monitor code path commented out. A silent leader
// proposer is therefore not detected: the acceptors' heartbeat monitor
// re-elects only the leader acceptor, never the leader proposer.
func (p *Proposer) ReceiveHeartbeat() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leaderOK = true
}

// Propose runs one Paxos round for clientID using the value set by the
// most recent SetValue call. spec.md §5 requires prepare/accept/propose
// to serialize per-instance, matching the original's `synchronized`
// propose method (original_source/src/server/Proposer.java): the whole
// round, not just the counter bump, holds p.mu so two concurrent client
// writes routed to this proposer never interleave their RPC fan-outs.
func (p *Proposer) Propose(clientID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.leader {
		p.logger.LogError("proposer %s: not the leader, cannot propose for %s", p.selfAddr, clientID)
		return errNotLeader
	}
	p.round++
	proposal := compose(p.round, p.nodeID)
	value := p.value

	p.logger.LogActivity("proposer %s: proposal received from %s, number %d", p.selfAddr, clientID, proposal)

	driver := p.findLeaderAcceptor()
	if driver == "" {
		p.logger.LogError("proposer %s: no leader found among acceptors", p.selfAddr)
		return errNoLeaderAcceptor
	}

	p.logger.LogActivity("proposer %s: requesting prepare for proposal %d via %s", p.selfAddr, proposal, driver)
	prepareRes, err := rpcx.Call[PrepareRequest, PrepareResponse](driver, "acceptor.HandlePrepareRequest", &PrepareRequest{Proposal: proposal})
	if err != nil {
		p.logger.LogError("proposer %s: prepare phase failed: %v", p.selfAddr, err)
		return err
	}
	if prepareRes.Result != PromiseResult {
		p.logger.LogActivity("proposer %s: prepare for proposal %d rejected", p.selfAddr, proposal)
		return nil
	}

	p.logger.LogActivity("proposer %s: PROMISE received for proposal %d", p.selfAddr, proposal)
	acceptRes, err := rpcx.Call[AcceptRequest, AcceptResponse](driver, "acceptor.HandleAcceptRequest", &AcceptRequest{Proposal: proposal, Value: value})
	if err != nil {
		p.logger.LogError("proposer %s: accept phase failed: %v", p.selfAddr, err)
		return err
	}
	p.logger.LogActivity("proposer %s: acceptor lead responded %s to command %q", p.selfAddr, acceptRes.Result, value)
	if acceptRes.Result != AcceptResult {
		return nil
	}

	if _, err := rpcx.Call[LearnRequest, LearnResponse](driver, "acceptor.Learn", &LearnRequest{Value: value}); err != nil {
		p.logger.LogError("proposer %s: learn phase failed: %v", p.selfAddr, err)
		return err
	}
	return nil
}

// findLeaderAcceptor scans the acceptor URL list and returns the first
// one reporting IsLeader() == true, resolving it fresh on every call
// (spec.md §9: "do not cache remote handles across calls").
func (p *Proposer) findLeaderAcceptor() string {
	for _, a := range p.ctx.AcceptorAddrs() {
		res, err := rpcx.Call[IsLeaderRequest, IsLeaderResponse](a, "acceptor.IsLeader", &IsLeaderRequest{})
		if err != nil {
			continue
		}
		if res.IsLeader {
			return a
		}
	}
	return ""
}
