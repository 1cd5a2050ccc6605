package paxos

import (
	"testing"

	"github.com/khanh101/paxoskv/internal/cluster"
	"github.com/khanh101/paxoskv/internal/logx"
)

func newTestAcceptor() *Acceptor {
	ctx := cluster.New([]string{"127.0.0.1:1"})
	return NewAcceptor(ctx, "127.0.0.1:1", &logx.Logger{}, nil)
}

func TestPrepareOnlyPromisesHigherNumbers(t *testing.T) {
	a := newTestAcceptor()

	if got := a.Prepare(5); got != PromiseResult {
		t.Fatalf("first Prepare(5) = %s, want %s", got, PromiseResult)
	}
	if got := a.Prepare(3); got != RejectResult {
		t.Fatalf("Prepare(3) after Prepare(5) = %s, want %s", got, RejectResult)
	}
	if got := a.Prepare(5); got != RejectResult {
		t.Fatalf("Prepare(5) repeated = %s, want %s (strictly greater required)", got, RejectResult)
	}
	if got := a.Prepare(6); got != PromiseResult {
		t.Fatalf("Prepare(6) = %s, want %s", got, PromiseResult)
	}
}

func TestAcceptRecordsValueAndHighestProposal(t *testing.T) {
	a := newTestAcceptor()
	a.Prepare(10)

	if got := a.Accept(10, "v1"); got != AcceptResult {
		t.Fatalf("Accept(10, v1) = %s, want %s", got, AcceptResult)
	}
	v, ok := a.AcceptedValue()
	if !ok || v != "v1" {
		t.Fatalf("AcceptedValue() = (%q, %v), want (%q, true)", v, ok, "v1")
	}
	if a.HighestProposal() != 10 {
		t.Fatalf("HighestProposal() = %d, want 10", a.HighestProposal())
	}
}

func TestAcceptRejectsLowerProposal(t *testing.T) {
	a := newTestAcceptor()
	a.Prepare(10)
	a.Accept(10, "v1")

	if got := a.Accept(4, "v2"); got != RejectResult {
		t.Fatalf("Accept(4, v2) after Accept(10, v1) = %s, want %s", got, RejectResult)
	}
	v, _ := a.AcceptedValue()
	if v != "v1" {
		t.Fatalf("AcceptedValue() = %q, want unchanged %q", v, "v1")
	}
}

func TestProposalNumberComposeRoundTrips(t *testing.T) {
	n := compose(7, 3)
	if n.round() != 7 {
		t.Fatalf("round() = %d, want 7", n.round())
	}

	small := compose(1, 9)
	large := compose(2, 0)
	if !(small < large) {
		t.Fatalf("compose(1,9)=%d should be < compose(2,0)=%d", small, large)
	}
}
