// Package rpc exposes a node over the plain REST-style HTTP surface
// spec'd in §6: one route per ledger operation, JSON bodies, no
// JSON-RPC envelope.
package rpc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/abhi0166/custom-crypto-coin/internal/log"
	"github.com/abhi0166/custom-crypto-coin/internal/node"
)

// maxBodySize bounds request bodies read by any handler (1 MiB).
const maxBodySize = 1 << 20

// Server is the HTTP front-end for a Node.
type Server struct {
	addr   string
	node   *node.Node
	server *http.Server
	ln     net.Listener
}

// New builds a Server bound to addr, routing requests to n.
func New(addr string, n *node.Node) *Server {
	s := &Server{addr: addr, node: n}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/chain", s.handleChain)
	mux.HandleFunc("/transactions/new", s.handleTransactionsNew)
	mux.HandleFunc("/transactions/receive", s.handleTransactionsReceive)
	mux.HandleFunc("/mine", s.handleMine)
	mux.HandleFunc("/blocks/receive", s.handleBlocksReceive)
	mux.HandleFunc("/nodes/register", s.handleNodesRegister)
	mux.HandleFunc("/nodes/resolve", s.handleNodesResolve)
	mux.HandleFunc("/wallet/balance", s.handleWalletBalance)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start begins listening and serving in a background goroutine, returning
// once the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("rpc listen: %w", err)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.RPC.Error().Err(err).Msg("rpc server stopped")
		}
	}()
	return nil
}

// Addr returns the listener's bound address (useful when addr was ":0").
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
