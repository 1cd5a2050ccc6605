package rpcx

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

const dialTimeout = 5 * time.Second

// Server listens on one TCP address and dispatches every connection's
// single request/response through a Dispatcher.
type Server struct {
	dispatcher *Dispatcher
	listener   net.Listener
	closeOnce  sync.Once
}

func NewServer(bindAddr string, dispatcher *Dispatcher) (*Server, error) {
	listener, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{dispatcher: dispatcher, listener: listener}, nil
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.listener.Close()
	})
	return err
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	b, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		return
	}

	out, err := s.dispatcher.Handle(b)
	if err != nil {
		out, _ = json.Marshal(errorReply{Error: err.Error()})
	}
	conn.Write(out)
}

type errorReply struct {
	Error string `json:"error"`
}

// Call dials addr fresh, sends name/req, and decodes the reply into Res.
// It never reuses a connection across calls, so a peer resurrected at the
// same address is picked up transparently on the next Call.
func Call[Req any, Res any](addr string, name string, req *Req) (*Res, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	msgBody, err := json.Marshal(Message{Name: name, Body: body})
	if err != nil {
		return nil, err
	}

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(dialTimeout))

	if _, err := conn.Write(append(msgBody, '\n')); err != nil {
		return nil, err
	}
	respBody, err := io.ReadAll(conn)
	if err != nil {
		return nil, err
	}

	var errCheck errorReply
	if json.Unmarshal(respBody, &errCheck) == nil && errCheck.Error != "" {
		return nil, fmt.Errorf("rpcx: %s: %s", name, errCheck.Error)
	}

	var res Res
	if err := json.Unmarshal(respBody, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
