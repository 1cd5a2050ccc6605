// Package kvservice is the client-facing KV Service from spec.md §4.1:
// it tokenizes commands, routes PUT/DELETE through consensus, and serves
// GET from the local replica. It is adapted from the teacher's command
// tokenizing in main.go's dstore.ServeHTTP and dist_kvstore/http.go,
// generalized from the teacher's HTTP verb routing to the spec's
// three-token PUT/GET/DELETE grammar.
package kvservice

import (
	"strings"

	"github.com/khanh101/paxoskv/internal/logx"
	"github.com/khanh101/paxoskv/internal/paxos"
	"github.com/khanh101/paxoskv/pkg/kvstore"
	"github.com/khanh101/paxoskv/pkg/rpcx"
)

// Service holds one peer's replica of the key-value map and routes
// writes to whichever proposer the LeaderRegistry currently names.
type Service struct {
	selfAddr string
	logger   *logx.Logger
	leader   *LeaderRegistry
	data     kvstore.Store
}

func New(selfAddr string, logger *logx.Logger, leader *LeaderRegistry) *Service {
	return &Service{
		selfAddr: selfAddr,
		logger:   logger,
		leader:   leader,
		data:     kvstore.NewMemStore(),
	}
}

// Put and Delete implement paxos.Mutator so this Service can be handed
// to the co-located Learner without a true object cycle (spec.md §9).
func (s *Service) Put(key, value string) {
	s.data.Update(func(txn kvstore.Txn) any {
		txn.Set(key, value)
		return nil
	})
}

func (s *Service) Delete(key string) (existed bool) {
	return s.data.Update(func(txn kvstore.Txn) any {
		_, ok := txn.Get(key)
		if ok {
			txn.Del(key)
		}
		return ok
	}).(bool)
}

// Execute is the single client entry point: executeCommand(clientId,
// commandString) from spec.md §4.1.
func (s *Service) Execute(clientID, command string) string {
	parts := strings.SplitN(strings.TrimSpace(command), " ", 3)
	if len(parts) == 0 || parts[0] == "" {
		s.logger.LogError("%s: empty command at server %s", clientID, s.selfAddr)
		return "NULL"
	}
	operation := strings.ToUpper(parts[0])

	switch operation {
	case "PUT":
		if len(parts) == 3 && parts[1] != "" && parts[2] != "" {
			return s.commit(clientID, "PUT "+parts[1]+" "+parts[2], parts[1])
		}
	case "DELETE":
		if len(parts) == 2 && parts[1] != "" {
			return s.commit(clientID, "DELETE "+parts[1], parts[1])
		}
	case "GET":
		if len(parts) == 2 && parts[1] != "" {
			value, ok := s.lookup(parts[1])
			s.logger.LogActivity("%s GET command: key %q at server %s", clientID, parts[1], s.selfAddr)
			if ok {
				return value
			}
			return "NULL"
		}
		s.logger.LogError("%s: invalid operation format at server %s", clientID, s.selfAddr)
		return "NULL"
	default:
		s.logger.LogError("%s invalid command: %q at server %s", clientID, command, s.selfAddr)
		return "Invalid command"
	}
	return "NULL"
}

// Snapshot copies the current replica for the debug exporter (see
// SPEC_FULL.md §4). It is never consulted on startup: the cluster's
// only durable record of a value is the quorum of acceptors' votes.
func (s *Service) Snapshot() map[string]string {
	return s.data.Update(func(txn kvstore.Txn) any {
		keys := s.data.Keys()
		out := make(map[string]string, len(keys))
		for _, k := range keys {
			if v, ok := txn.Get(k); ok {
				out[k] = v
			}
		}
		return out
	}).(map[string]string)
}

func (s *Service) lookup(key string) (string, bool) {
	res := s.data.Update(func(txn kvstore.Txn) any {
		v, ok := txn.Get(key)
		return lookupResult{value: v, ok: ok}
	}).(lookupResult)
	return res.value, res.ok
}

type lookupResult struct {
	value string
	ok    bool
}

// commit routes a PUT/DELETE through consensus: setValue on the current
// leader proposer followed by propose(clientID) — spec.md §4.1's write
// path, verbatim.
func (s *Service) commit(clientID, value, key string) string {
	addr, ok := s.leader.Get()
	if !ok {
		s.logger.LogError("%s: no leader available for Paxos commit at server %s", clientID, s.selfAddr)
		return "ERROR: No leader Here"
	}

	if _, err := rpcx.Call[paxos.SetValueRequest, paxos.SetValueResponse](
		addr, "proposer.SetValue", &paxos.SetValueRequest{Value: value}); err != nil {
		s.logger.LogError("%s: error during Paxos commit: %v at server %s", clientID, err, s.selfAddr)
		return "ERROR"
	}
	if _, err := rpcx.Call[paxos.ProposeRequest, paxos.ProposeResponse](
		addr, "proposer.Propose", &paxos.ProposeRequest{ClientID: clientID}); err != nil {
		s.logger.LogError("%s: error during Paxos commit: %v at server %s", clientID, err, s.selfAddr)
		return "ERROR"
	}
	return key
}
