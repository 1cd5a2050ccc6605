// Package cluster holds the process-wide configuration a node's roles
// are built from: the fixed set of peer addresses and the URL lists
// derived from it. The teacher keeps this as a flat []string of peer
// addresses passed into each constructor (pkg/dist_store.NewStore); we
// thread it explicitly as a single value per the "global state becomes
// explicit" design note instead of relying on package-level statics the
// way the original Java (static fields on KeyValueStoreImpl) does.
package cluster

import "fmt"

// Context is the fixed, read-only view of the cluster every role is
// constructed with. It is built once at startup and never mutated —
// the "shared resources... read-only" rule in spec §5.
type Context struct {
	// Bases are the peer base addresses ("<host>:<port>"), in peer
	// order. ProposerAddrs/AcceptorAddrs/LearnerAddrs are the same
	// network address list: the role is carried in the RPC method
	// name namespace rather than a distinct socket (see SPEC_FULL §2).
	Bases []string
}

func New(bases []string) Context {
	cp := make([]string, len(bases))
	copy(cp, bases)
	return Context{Bases: cp}
}

func (c Context) ProposerAddrs() []string { return c.Bases }
func (c Context) AcceptorAddrs() []string { return c.Bases }
func (c Context) LearnerAddrs() []string  { return c.Bases }

func (c Context) N() int { return len(c.Bases) }

// Quorum is the minimum number of responses that counts as a strict
// majority of the cluster.
func (c Context) Quorum() int {
	return c.N()/2 + 1
}

// IndexOf returns the peer index for addr, or -1 if addr is not a member
// of this cluster.
func (c Context) IndexOf(addr string) int {
	for i, b := range c.Bases {
		if b == addr {
			return i
		}
	}
	return -1
}

func (c Context) String() string {
	return fmt.Sprintf("cluster%v", c.Bases)
}
