// Package heartbeat provides the two periodic loops spec.md §4.3 needs
// for acceptor leadership (proposers use neither): an emitter that pings
// every peer on a fixed cadence, and a monitor that watches for silence
// and fires once. Both are built on time.Ticker plus a
// context.CancelFunc, the same cancellation shape the teacher uses for
// its background update loop (pkg/dist_store.store.ListenAndServeRPC).
package heartbeat

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	EmitInterval    = 5 * time.Second
	MonitorInterval = 7 * time.Second
)

// AliveFlag is the "leaderAlive" bit from spec.md §3: set true whenever a
// heartbeat arrives, reset to false at the start of every monitor tick.
type AliveFlag struct {
	v atomic.Bool
}

func NewAliveFlag() *AliveFlag {
	f := &AliveFlag{}
	f.v.Store(true)
	return f
}

func (f *AliveFlag) MarkAlive()    { f.v.Store(true) }
func (f *AliveFlag) IsAlive() bool { return f.v.Load() }

// TestAndReset reports whether the flag was alive, then clears it — the
// monitor's "if leaderAlive is false ... else resets" step in one call.
func (f *AliveFlag) TestAndReset() bool {
	return f.v.Swap(false)
}

// StartEmitter pings every address in peers every interval until Stop is
// called. Individual ping failures are swallowed — a peer that is briefly
// unreachable just misses that tick, exactly like the original's
// best-effort per-peer try/catch around receiveHeartbeat.
func StartEmitter(interval time.Duration, peers []string, ping func(addr string)) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, addr := range peers {
					ping(addr)
				}
			}
		}
	}()
	return cancel
}

// StartMonitor checks flag every interval; the first time it finds the
// flag has gone silent since the last check, it calls onTimeout exactly
// once and stops itself — "cancel this monitor" in spec.md §4.3.
func StartMonitor(interval time.Duration, flag *AliveFlag, onTimeout func()) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !flag.TestAndReset() {
					onTimeout()
					cancel()
					return
				}
			}
		}
	}()
	return cancel
}
