package peer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/khanh101/paxoskv/internal/cluster"
	"github.com/khanh101/paxoskv/internal/election"
	"github.com/khanh101/paxoskv/internal/kvservice"
	"github.com/khanh101/paxoskv/internal/logx"
	"github.com/khanh101/paxoskv/pkg/rpcx"
)

// TestThreeNodeClusterCommitsAndReplicates exercises one full Paxos round
// across three real peers on real TCP sockets: elect leaders, PUT through
// the first peer (which routes it to the elected leader proposer), then GET
// the value back from a different peer.
func TestThreeNodeClusterCommitsAndReplicates(t *testing.T) {
	bases := []string{"127.0.0.1:17601", "127.0.0.1:17602", "127.0.0.1:17603"}
	clusterCtx := cluster.New(bases)
	logger := logx.Open(filepath.Join(t.TempDir(), "peer_test.log"))
	defer logger.Close()

	leaderRegistry := kvservice.NewLeaderRegistry()
	elec := election.New(clusterCtx, logger)

	peers := make([]*Peer, len(bases))
	for i, addr := range bases {
		p, err := New(clusterCtx, uint32(i), addr, logger, leaderRegistry, elec.AssignLeadershipAcceptor)
		if err != nil {
			t.Fatalf("New(%s): %v", addr, err)
		}
		peers[i] = p
		go p.Serve()
		defer p.Close()
	}
	time.Sleep(50 * time.Millisecond)

	chosen, ok := elec.AssignLeadershipProposer()
	if !ok {
		t.Fatal("AssignLeadershipProposer should succeed on first call")
	}
	leaderRegistry.Set(chosen)
	elec.AssignLeadershipAcceptor()
	time.Sleep(50 * time.Millisecond)

	putRes, err := rpcx.Call[kvservice.ExecuteRequest, kvservice.ExecuteResponse](
		bases[0], "kv.Execute", &kvservice.ExecuteRequest{ClientID: "t1", Command: "PUT player Kohli"})
	if err != nil {
		t.Fatalf("PUT call: %v", err)
	}
	if putRes.Result != "player" {
		t.Fatalf("PUT result = %q, want %q", putRes.Result, "player")
	}

	getRes, err := rpcx.Call[kvservice.ExecuteRequest, kvservice.ExecuteResponse](
		bases[2], "kv.Execute", &kvservice.ExecuteRequest{ClientID: "t1", Command: "GET player"})
	if err != nil {
		t.Fatalf("GET call: %v", err)
	}
	if getRes.Result != "Kohli" {
		t.Fatalf("GET result from another peer = %q, want %q", getRes.Result, "Kohli")
	}
}
