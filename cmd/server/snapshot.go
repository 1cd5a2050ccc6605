package main

import (
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/khanh101/paxoskv/internal/logx"
	"github.com/khanh101/paxoskv/internal/peer"
	"github.com/khanh101/paxoskv/pkg/kvstore"
)

const snapshotInterval = 30 * time.Second

// startSnapshotExporter periodically dumps one peer's replica into a
// Badger database under dir, purely for offline inspection — see
// SPEC_FULL.md §4's domain-stack entry for Badger. The cluster never
// reads this database back; the exported replica is always reconstructed
// from scratch by the consensus protocol itself.
func startSnapshotExporter(dir string, p *peer.Peer, logger *logx.Logger) (stop func()) {
	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		logger.LogError("snapshot exporter: opening badger at %s: %v", dir, err)
		return func() {}
	}
	snapshots := kvstore.NewBadgerSnapshotStore(db)

	ticker := time.NewTicker(snapshotInterval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				for k, v := range p.Service.Snapshot() {
					snapshots.Update(func(txn kvstore.Txn) any {
						txn.Set(k, v)
						return nil
					})
				}
				logger.LogActivity("snapshot exporter: wrote replica of %s to %s", p.Addr, dir)
			}
		}
	}()

	return func() {
		close(done)
		db.Close()
	}
}
