package rpc

import (
	"encoding/json"

	"github.com/abhi0166/custom-crypto-coin/internal/ledger/block"
)

// errorBody is the plain-text-flavored JSON error body returned for 4xx/5xx
// responses — a brief message, nothing else.
type errorBody struct {
	Message string `json:"message"`
}

// messageBody wraps the common {"message": "..."} acknowledgement shape
// spec.md §6 uses for the transaction/block intake endpoints.
type messageBody struct {
	Message string `json:"message"`
}

// chainResponse is the GET /chain response body.
type chainResponse struct {
	Chain  []*block.Block `json:"chain"`
	Length int            `json:"length"`
}

// minedResponse is the GET /mine response body: the full mined block dict
// (including its derived hash field) plus a message field, flattened into
// one JSON object per spec.md §6.
type minedResponse struct {
	*block.Block
	Message string `json:"message"`
}

// MarshalJSON flattens the embedded block's wire fields with Message.
// block.Block defines its own MarshalJSON (to add the derived hash
// field), which Go would otherwise promote wholesale onto minedResponse
// and silently drop Message — so this method re-merges the two JSON
// objects explicitly.
func (m minedResponse) MarshalJSON() ([]byte, error) {
	blockJSON, err := json.Marshal(m.Block)
	if err != nil {
		return nil, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(blockJSON, &merged); err != nil {
		return nil, err
	}
	messageJSON, err := json.Marshal(m.Message)
	if err != nil {
		return nil, err
	}
	merged["message"] = messageJSON
	return json.Marshal(merged)
}

// registerRequest is the POST /nodes/register request body.
type registerRequest struct {
	Nodes []string `json:"nodes"`
}

// registerResponse is the POST /nodes/register response body.
type registerResponse struct {
	NodesAdded  []string `json:"nodes_added"`
	NodesFailed []string `json:"nodes_failed"`
	TotalNodes  int      `json:"total_nodes"`
}

// resolveResponse is the GET /nodes/resolve response body. It carries the
// full chain under "new_chain" when the local chain was replaced, or
// under "chain" when it wasn't — matching the reference node's
// resolve_conflicts dual-key wire shape (spec.md §6: "chain or
// new_chain") so a reference client keyed off either name finds the
// chain it expects.
type resolveResponse struct {
	Message  string         `json:"message"`
	Replaced bool           `json:"-"`
	Chain    []*block.Block `json:"-"`
}

// MarshalJSON emits Chain under "new_chain" when Replaced, otherwise
// under "chain".
func (r resolveResponse) MarshalJSON() ([]byte, error) {
	key := "chain"
	if r.Replaced {
		key = "new_chain"
	}
	return json.Marshal(map[string]interface{}{
		"message": r.Message,
		key:       r.Chain,
	})
}

// balanceResponse is the GET /wallet/balance response body.
type balanceResponse struct {
	PublicKey string  `json:"public_key"`
	Balance   float64 `json:"balance"`
}
