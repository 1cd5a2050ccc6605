package paxos

import "errors"

var (
	errNotLeader        = errors.New("paxos: proposer is not the leader")
	errNoLeaderAcceptor = errors.New("paxos: no leader acceptor found")
)
