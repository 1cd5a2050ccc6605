package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"

	"github.com/khanh101/paxoskv/internal/kvservice"
	"github.com/khanh101/paxoskv/internal/logx"
	"github.com/khanh101/paxoskv/pkg/rpcx"
)

// prepopulate is the fixed warm-up sequence every client submits before
// dropping into its own REPL, carried over from the original's demo
// client (spec.md §5 supplemented feature).
var prepopulate = []string{
	"PUT player Kohli",
	"PUT position batting",
	"PUT strength placement",
	"PUT weakness leg spin",
	"PUT favorite aggression",
}

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: client <serverHost> <serverPort>")
		os.Exit(1)
	}
	port, err := strconv.Atoi(os.Args[2])
	if err != nil {
		panic(err)
	}
	addr := fmt.Sprintf("%s:%d", os.Args[1], port)

	clientID := uuid.New().String()
	logger := logx.Open("clientLog.txt")
	defer logger.Close()

	execute := func(command string) string {
		res, err := rpcx.Call[kvservice.ExecuteRequest, kvservice.ExecuteResponse](
			addr, "kv.Execute", &kvservice.ExecuteRequest{ClientID: clientID, Command: command})
		if err != nil {
			logger.LogError("%s: %v", clientID, err)
			return "ERROR"
		}
		return res.Result
	}

	logger.LogActivity("%s: client starting against %s", clientID, addr)
	for _, cmd := range prepopulate {
		result := execute(cmd)
		logger.LogActivity("%s: prepopulate %q -> %s", clientID, cmd, result)
		fmt.Println(result)
	}

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	fmt.Println("enter commands (PUT key value / GET key / DELETE key), or 'exit'")
loop:
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if line == "exit" {
				break loop
			}
			if line == "" {
				continue
			}
			result := execute(line)
			logger.LogActivity("%s: %q -> %s", clientID, line, result)
			fmt.Println(result)
		case <-sigCh:
			fmt.Println("\nshutting down")
			break loop
		}
	}
	logger.LogActivity("%s: client exiting", clientID)
}
