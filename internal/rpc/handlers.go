package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/abhi0166/custom-crypto-coin/internal/ledger/block"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/tx"
	"github.com/abhi0166/custom-crypto-coin/internal/log"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// readBody enforces maxBodySize and decodes JSON into target.
func readBody(r *http.Request, target interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return errors.New("request body too large")
	}
	return json.Unmarshal(body, target)
}

// handleRoot returns a one-line status string: node identity and known
// peer count. Carried over from the reference node's node UI page,
// reinstated as an operational convenience (see SPEC_FULL.md §5).
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	identity, err := s.node.Identity()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "node identity unavailable")
		return
	}
	peers := s.node.Peers.Len()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "node %s — %d peers\n", identity, peers)
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	blocks := s.node.FullChain()
	writeJSON(w, http.StatusOK, chainResponse{Chain: blocks, Length: len(blocks)})
}

func (s *Server) handleTransactionsNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var t tx.Transaction
	if err := readBody(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "malformed transaction body")
		return
	}
	if err := s.node.SubmitTransaction(r.Context(), &t); err != nil {
		log.RPC.Warn().Err(err).Msg("rejected submitted transaction")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, messageBody{Message: "Transaction will be added"})
}

func (s *Server) handleTransactionsReceive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var t tx.Transaction
	if err := readBody(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "malformed transaction body")
		return
	}
	if err := s.node.ReceiveTransaction(&t); err != nil {
		log.RPC.Warn().Err(err).Msg("rejected forwarded transaction")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, messageBody{Message: "Transaction added to mempool"})
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	mined, err := s.node.Mine(r.Context())
	if err != nil {
		log.RPC.Error().Err(err).Msg("mine failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, minedResponse{Block: mined, Message: "New Block Forged"})
}

func (s *Server) handleBlocksReceive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var b block.Block
	if err := readBody(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "malformed block body")
		return
	}
	if err := s.node.ReceiveBlock(&b); err != nil {
		log.RPC.Warn().Err(err).Msg("rejected broadcast block")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, messageBody{Message: "Block added to the chain"})
}

func (s *Server) handleNodesRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req registerRequest
	if err := readBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed register body")
		return
	}
	added, failed := s.node.RegisterPeers(req.Nodes)
	writeJSON(w, http.StatusCreated, registerResponse{
		NodesAdded:  added,
		NodesFailed: failed,
		TotalNodes:  s.node.Peers.Len(),
	})
}

func (s *Server) handleNodesResolve(w http.ResponseWriter, r *http.Request) {
	replaced, err := s.node.Resolve(r.Context())
	if err != nil {
		log.RPC.Error().Err(err).Msg("resolve failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	message := "Our chain is authoritative"
	if replaced {
		message = "Our chain was replaced"
	}
	writeJSON(w, http.StatusOK, resolveResponse{Message: message, Replaced: replaced, Chain: s.node.FullChain()})
}

func (s *Server) handleWalletBalance(w http.ResponseWriter, r *http.Request) {
	identity, err := s.node.Identity()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "node identity unavailable")
		return
	}
	balance, err := s.node.Balance()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{PublicKey: identity, Balance: balance})
}
