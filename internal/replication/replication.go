// Package replication implements transaction/block broadcast to peers and
// the longest-chain consensus pull, each governed by its own per-peer
// timeout so that a slow or unreachable peer cannot stall the others.
package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abhi0166/custom-crypto-coin/internal/ledger/block"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/tx"
)

const (
	txBroadcastTimeout    = 1 * time.Second
	blockBroadcastTimeout = 2 * time.Second
	chainPullTimeout      = 3 * time.Second
)

// Client broadcasts transactions/blocks to peers and pulls candidate
// chains during consensus resolution. It holds no peer list of its own —
// callers pass the peer set's current members in, since the peer set may
// change between calls.
type Client struct {
	httpClient *http.Client
}

// New returns a replication client. Its http.Client has no Timeout of its
// own — each call sets its own per-request timeout via context.
func New() *Client {
	return &Client{httpClient: &http.Client{}}
}

// BroadcastTransaction forwards t to every peer's /transactions/receive,
// one request per peer, each bounded by a 1s timeout. Failures are
// swallowed per peer — a broadcast failure to one peer must not block
// delivery to the others — and aggregated into the returned slice purely
// for logging by the caller.
func (c *Client) BroadcastTransaction(ctx context.Context, peers []string, t *tx.Transaction) []error {
	return c.broadcastAll(ctx, peers, "/transactions/receive", t, txBroadcastTimeout)
}

// BroadcastBlock forwards b to every peer's /blocks/receive, one request
// per peer, each bounded by a 2s timeout.
func (c *Client) BroadcastBlock(ctx context.Context, peers []string, b *block.Block) []error {
	return c.broadcastAll(ctx, peers, "/blocks/receive", b, blockBroadcastTimeout)
}

func (c *Client) broadcastAll(ctx context.Context, peers []string, path string, payload any, timeout time.Duration) []error {
	errs := make([]error, 0, len(peers))
	for _, peer := range peers {
		if err := c.postOne(ctx, peer, path, payload, timeout); err != nil {
			errs = append(errs, fmt.Errorf("peer %s: %w", peer, err))
		}
	}
	return errs
}

func (c *Client) postOne(ctx context.Context, peer, path string, payload any, timeout time.Duration) error {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	url := fmt.Sprintf("http://%s%s", peer, path)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// chainResponse is the decoded body of a peer's GET /chain.
type chainResponse struct {
	Chain  []*block.Block `json:"chain"`
	Length int            `json:"length"`
}

// FetchChain pulls a single peer's full chain, bounded by the 3s
// chain-pull timeout. Returns an error for any unreachable or
// non-200-responding peer so the caller can skip it.
func (c *Client) FetchChain(ctx context.Context, peer string) ([]*block.Block, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, chainPullTimeout)
	defer cancel()

	url := fmt.Sprintf("http://%s/chain", peer)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("peer %s returned status %d", peer, resp.StatusCode)
	}

	var decoded chainResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, 0, fmt.Errorf("decode chain response: %w", err)
	}
	return decoded.Chain, decoded.Length, nil
}

// ResolveResult is one peer's contribution to a consensus sweep, kept for
// logging even when the peer's chain is ultimately not adopted.
type ResolveResult struct {
	Peer   string
	Length int
	Err    error
}

// FetchAll pulls every peer's chain one peer at a time, each pull bounded
// by the 3s chain-pull timeout — matching the reference node's
// single-threaded resolve_conflicts loop, which simply continues past
// errors. Unreachable peers are skipped, never fatal.
func (c *Client) FetchAll(ctx context.Context, peers []string) ([]ResolveResult, map[string][]*block.Block) {
	results := make([]ResolveResult, 0, len(peers))
	chains := make(map[string][]*block.Block, len(peers))
	for _, peer := range peers {
		chain, length, err := c.FetchChain(ctx, peer)
		results = append(results, ResolveResult{Peer: peer, Length: length, Err: err})
		if err == nil {
			chains[peer] = chain
		}
	}
	return results, chains
}
