// Package failinject is the cluster-wide background scheduler from
// spec.md §4.6: it periodically unexports a random acceptor and
// recreates it after a delay, to exercise the cluster's fault tolerance.
// It runs once per launcher process (not replicated per peer), mirroring
// RMIServerStarter.scheduleAcceptorFailure in the original.
package failinject

import (
	"context"
	"math/rand"
	"time"

	"github.com/khanh101/paxoskv/internal/logx"
)

const (
	MinDelay = 10 * time.Second
	MaxDelay = 20 * time.Second
)

// Slot is one peer's acceptor indirection: the failure injector can take
// it down (Unexport) and bring a fresh instance up at the same address
// (Restart), satisfying invariant 5 of spec.md §3 ("after re-creation,
// the list slot points at the new instance").
type Slot interface {
	Addr() string
	IsExported() bool
	Unexport()
	Restart()
}

type Injector struct {
	slots  []Slot
	logger *logx.Logger
}

func New(slots []Slot, logger *logx.Logger) *Injector {
	return &Injector{slots: slots, logger: logger}
}

func randomDelay() time.Duration {
	span := int64(MaxDelay - MinDelay)
	return MinDelay + time.Duration(rand.Int63n(span+1))
}

// Start schedules the first failure/restart cycle and keeps rescheduling
// until ctx is canceled.
func (inj *Injector) Start(ctx context.Context) {
	go inj.scheduleNext(ctx)
}

func (inj *Injector) scheduleNext(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	r := rand.Intn(len(inj.slots))
	slot := inj.slots[r]
	if !slot.IsExported() {
		// "If the selected acceptor reference is null, retry selection
		// immediately" — spec.md §4.6.
		inj.scheduleNext(ctx)
		return
	}

	delay := randomDelay()
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		inj.logger.LogError("acceptor %s is failing...", slot.Addr())
		slot.Unexport()
		inj.logger.LogActivity("acceptor %s has been shut down.", slot.Addr())

		restartDelay := randomDelay()
		select {
		case <-ctx.Done():
			return
		case <-time.After(restartDelay):
		}
		slot.Restart()
		inj.logger.LogActivity("acceptor has restarted.")
		inj.scheduleNext(ctx)
	}()
}
