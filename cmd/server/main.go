package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/khanh101/paxoskv/internal/cluster"
	"github.com/khanh101/paxoskv/internal/election"
	"github.com/khanh101/paxoskv/internal/failinject"
	"github.com/khanh101/paxoskv/internal/kvservice"
	"github.com/khanh101/paxoskv/internal/logx"
	"github.com/khanh101/paxoskv/internal/peer"
)

func main() {
	snapshotDir := flag.String("snapshot-dir", "", "optional badger directory for periodic debug snapshots of the replicated map")
	flag.Parse()
	args := flag.Args()
	if len(args) != 6 {
		fmt.Fprintln(os.Stderr, "usage: server <host> <port1> <port2> <port3> <port4> <port5>")
		os.Exit(1)
	}

	host := args[0]
	bases := make([]string, 5)
	for i := 0; i < 5; i++ {
		port, err := strconv.Atoi(args[i+1])
		if err != nil {
			panic(err)
		}
		bases[i] = fmt.Sprintf("%s:%d", host, port)
	}

	clusterCtx := cluster.New(bases)
	logger := logx.Open("serverLog.txt")
	defer logger.Close()

	leaderRegistry := kvservice.NewLeaderRegistry()
	elec := election.New(clusterCtx, logger)

	peers := make([]*peer.Peer, len(bases))
	for i, addr := range bases {
		p, err := peer.New(clusterCtx, uint32(i), addr, logger, leaderRegistry, elec.AssignLeadershipAcceptor)
		if err != nil {
			panic(err)
		}
		peers[i] = p

		go func(p *peer.Peer) {
			if err := p.Serve(); err != nil {
				logger.LogError("peer %s: serve stopped: %v", p.Addr, err)
			}
		}(p)

		logger.LogActivity("Server is running at %s", addr)
		fmt.Println("Server is running at", addr)
	}

	if chosen, ok := elec.AssignLeadershipProposer(); ok {
		leaderRegistry.Set(chosen)
	}
	elec.AssignLeadershipAcceptor()
	logger.LogActivity("Leaders elected")
	fmt.Println("Leaders elected")

	slots := make([]failinject.Slot, len(peers))
	for i, p := range peers {
		slots[i] = p.AcceptorSlot
	}
	injectorCtx, cancelInjector := context.WithCancel(context.Background())
	defer cancelInjector()
	failinject.New(slots, logger).Start(injectorCtx)

	var stopSnapshot func()
	if *snapshotDir != "" {
		stopSnapshot = startSnapshotExporter(*snapshotDir, peers[0], logger)
		defer stopSnapshot()
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	logger.LogActivity("server shutting down")
	fmt.Println("shutting down")
	for _, p := range peers {
		p.Close()
	}
}
