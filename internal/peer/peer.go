package peer

import (
	"github.com/khanh101/paxoskv/internal/cluster"
	"github.com/khanh101/paxoskv/internal/kvservice"
	"github.com/khanh101/paxoskv/internal/logx"
	"github.com/khanh101/paxoskv/internal/paxos"
	"github.com/khanh101/paxoskv/pkg/rpcx"
)

// Peer is everything that lives at one base address: the co-located KV
// Service, Proposer, restart-safe Acceptor and Learner, registered under
// namespaced method names on one rpcx.Server.
type Peer struct {
	Addr string

	Service      *kvservice.Service
	Proposer     *paxos.Proposer
	AcceptorSlot *AcceptorSlot
	Learner      *paxos.Learner

	dispatcher *rpcx.Dispatcher
	server     *rpcx.Server
}

// New builds a Peer and binds its listener at addr. onReelect is called
// by this peer's acceptor when its heartbeat monitor finds the leader
// silent; callers pass election.Election.AssignLeadershipAcceptor.
func New(
	ctx cluster.Context,
	nodeID uint32,
	addr string,
	logger *logx.Logger,
	leaderRegistry *kvservice.LeaderRegistry,
	onReelect func(),
) (*Peer, error) {
	newAcceptor := func() *paxos.Acceptor {
		return paxos.NewAcceptor(ctx, addr, logger, onReelect)
	}
	slot := NewAcceptorSlot(addr, newAcceptor)

	service := kvservice.New(addr, logger, leaderRegistry)
	learner := paxos.NewLearner(service, logger)
	proposer := paxos.NewProposer(ctx, nodeID, addr, logger)

	p := &Peer{
		Addr:         addr,
		Service:      service,
		Proposer:     proposer,
		AcceptorSlot: slot,
		Learner:      learner,
	}

	p.dispatcher = rpcx.NewDispatcher()
	p.register()

	server, err := rpcx.NewServer(addr, p.dispatcher)
	if err != nil {
		return nil, err
	}
	p.server = server
	return p, nil
}

// Serve blocks accepting connections. Run it in its own goroutine.
func (p *Peer) Serve() error {
	return p.server.Serve()
}

func (p *Peer) Close() error {
	return p.server.Close()
}

func (p *Peer) register() {
	p.dispatcher.Register("kv.Execute", func(req *kvservice.ExecuteRequest) (*kvservice.ExecuteResponse, error) {
		return &kvservice.ExecuteResponse{Result: p.Service.Execute(req.ClientID, req.Command)}, nil
	})

	p.dispatcher.Register("proposer.SetValue", func(req *paxos.SetValueRequest) (*paxos.SetValueResponse, error) {
		p.Proposer.SetValue(req.Value)
		return &paxos.SetValueResponse{}, nil
	})
	p.dispatcher.Register("proposer.Propose", func(req *paxos.ProposeRequest) (*paxos.ProposeResponse, error) {
		if err := p.Proposer.Propose(req.ClientID); err != nil {
			return nil, err
		}
		return &paxos.ProposeResponse{Result: "OK"}, nil
	})
	p.dispatcher.Register("proposer.SetLeader", func(req *paxos.SetLeaderRequest) (*paxos.SetLeaderResponse, error) {
		p.Proposer.SetLeader(req.IsLeader)
		return &paxos.SetLeaderResponse{}, nil
	})
	p.dispatcher.Register("proposer.ReceiveHeartbeat", func(req *paxos.HeartbeatRequest) (*paxos.HeartbeatResponse, error) {
		p.Proposer.ReceiveHeartbeat()
		return &paxos.HeartbeatResponse{}, nil
	})

	p.dispatcher.Register("acceptor.Prepare", func(req *paxos.PrepareRequest) (*paxos.PrepareResponse, error) {
		a := p.AcceptorSlot.Get()
		if a == nil {
			return nil, errAcceptorUnexported
		}
		return &paxos.PrepareResponse{Result: a.Prepare(req.Proposal)}, nil
	})
	p.dispatcher.Register("acceptor.Accept", func(req *paxos.AcceptRequest) (*paxos.AcceptResponse, error) {
		a := p.AcceptorSlot.Get()
		if a == nil {
			return nil, errAcceptorUnexported
		}
		return &paxos.AcceptResponse{Result: a.Accept(req.Proposal, req.Value)}, nil
	})
	p.dispatcher.Register("acceptor.HandlePrepareRequest", func(req *paxos.PrepareRequest) (*paxos.PrepareResponse, error) {
		a := p.AcceptorSlot.Get()
		if a == nil {
			return nil, errAcceptorUnexported
		}
		return &paxos.PrepareResponse{Result: a.HandlePrepareRequest(req.Proposal)}, nil
	})
	p.dispatcher.Register("acceptor.HandleAcceptRequest", func(req *paxos.AcceptRequest) (*paxos.AcceptResponse, error) {
		a := p.AcceptorSlot.Get()
		if a == nil {
			return nil, errAcceptorUnexported
		}
		return &paxos.AcceptResponse{Result: a.HandleAcceptRequest(req.Proposal, req.Value)}, nil
	})
	p.dispatcher.Register("acceptor.Learn", func(req *paxos.LearnRequest) (*paxos.LearnResponse, error) {
		a := p.AcceptorSlot.Get()
		if a == nil {
			return nil, errAcceptorUnexported
		}
		result, err := a.Learn(req.Value)
		if err != nil {
			return nil, err
		}
		return &paxos.LearnResponse{Result: result}, nil
	})
	p.dispatcher.Register("acceptor.IsLeader", func(req *paxos.IsLeaderRequest) (*paxos.IsLeaderResponse, error) {
		a := p.AcceptorSlot.Get()
		if a == nil {
			return &paxos.IsLeaderResponse{IsLeader: false}, nil
		}
		return &paxos.IsLeaderResponse{IsLeader: a.IsLeader()}, nil
	})
	p.dispatcher.Register("acceptor.SetLeader", func(req *paxos.SetLeaderRequest) (*paxos.SetLeaderResponse, error) {
		a := p.AcceptorSlot.Get()
		if a == nil {
			return nil, errAcceptorUnexported
		}
		a.SetLeader(req.IsLeader)
		return &paxos.SetLeaderResponse{}, nil
	})
	p.dispatcher.Register("acceptor.ReceiveHeartbeat", func(req *paxos.HeartbeatRequest) (*paxos.HeartbeatResponse, error) {
		a := p.AcceptorSlot.Get()
		if a == nil {
			return nil, errAcceptorUnexported
		}
		a.ReceiveHeartbeat()
		return &paxos.HeartbeatResponse{}, nil
	})

	p.dispatcher.Register("learner.Learn", func(req *paxos.LearnRequest) (*paxos.LearnResponse, error) {
		p.Learner.Learn(req.Value)
		return &paxos.LearnResponse{Result: "OK"}, nil
	})
}
