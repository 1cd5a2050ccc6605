package peer

import "errors"

var errAcceptorUnexported = errors.New("peer: acceptor is currently unexported")
