package cluster

import "testing"

func TestQuorumAndIndexOf(t *testing.T) {
	ctx := New([]string{"a:1", "b:2", "c:3", "d:4", "e:5"})

	if ctx.N() != 5 {
		t.Errorf("N() = %d, want 5", ctx.N())
	}
	if ctx.Quorum() != 3 {
		t.Errorf("Quorum() = %d, want 3", ctx.Quorum())
	}
	if idx := ctx.IndexOf("c:3"); idx != 2 {
		t.Errorf("IndexOf(c:3) = %d, want 2", idx)
	}
	if idx := ctx.IndexOf("z:9"); idx != -1 {
		t.Errorf("IndexOf(z:9) = %d, want -1", idx)
	}
}

func TestContextIsACopy(t *testing.T) {
	bases := []string{"a:1", "b:2"}
	ctx := New(bases)
	bases[0] = "mutated"
	if ctx.Bases[0] != "a:1" {
		t.Errorf("New() did not defensively copy its input: got %q", ctx.Bases[0])
	}
}

func TestRoleAddrsShareTheSameList(t *testing.T) {
	ctx := New([]string{"a:1", "b:2"})
	p, a, l := ctx.ProposerAddrs(), ctx.AcceptorAddrs(), ctx.LearnerAddrs()
	for i := range p {
		if p[i] != a[i] || a[i] != l[i] {
			t.Fatalf("role address lists diverged at %d: %q %q %q", i, p[i], a[i], l[i])
		}
	}
}
