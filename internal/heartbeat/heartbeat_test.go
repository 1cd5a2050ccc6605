package heartbeat

import (
	"testing"
	"time"
)

func TestAliveFlagTestAndReset(t *testing.T) {
	f := NewAliveFlag()
	if !f.TestAndReset() {
		t.Fatal("flag should start alive")
	}
	if f.TestAndReset() {
		t.Fatal("TestAndReset should have cleared the flag")
	}
	f.MarkAlive()
	if !f.IsAlive() {
		t.Fatal("MarkAlive should set the flag")
	}
}

func TestStartEmitterPingsEveryPeer(t *testing.T) {
	seen := make(chan string, 8)
	stop := StartEmitter(10*time.Millisecond, []string{"a", "b"}, func(addr string) {
		seen <- addr
	})
	defer stop()

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case addr := <-seen:
			got[addr] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for emitter pings")
		}
	}
	if !got["a"] || !got["b"] {
		t.Fatalf("expected pings to both peers, got %v", got)
	}
}

func TestStartMonitorFiresOnSilence(t *testing.T) {
	flag := NewAliveFlag()
	fired := make(chan struct{})
	stop := StartMonitor(10*time.Millisecond, flag, func() {
		close(fired)
	})
	defer stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("monitor never fired on silence")
	}
}

func TestStartMonitorDoesNotFireWhileAlive(t *testing.T) {
	flag := NewAliveFlag()
	fired := make(chan struct{}, 1)
	stop := StartMonitor(10*time.Millisecond, flag, func() {
		fired <- struct{}{}
	})
	defer stop()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(60 * time.Millisecond)
	for {
		select {
		case <-ticker.C:
			flag.MarkAlive()
		case <-fired:
			t.Fatal("monitor fired despite regular heartbeats")
		case <-deadline:
			return
		}
	}
}
