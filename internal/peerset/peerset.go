// Package peerset maintains the flat set of known peer addresses that a
// node broadcasts transactions and blocks to, and pulls candidate chains
// from during consensus.
package peerset

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// PeerSet is a process-singleton set of unique "host:port" peer addresses.
type PeerSet struct {
	mu      sync.Mutex
	members map[string]struct{}
}

// New returns an empty peer set.
func New() *PeerSet {
	return &PeerSet{members: make(map[string]struct{})}
}

// Add normalizes and inserts address, accepting either "scheme://host:port"
// or a bare "host:port" — mirroring add_node's urlparse-netloc-or-path
// acceptance rule. Returns an error only for an empty address or one that
// has "://" but no host; any other string is stored as given.
func (p *PeerSet) Add(address string) (string, error) {
	normalized, err := Normalize(address)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.members[normalized] = struct{}{}
	return normalized, nil
}

// Normalize reduces a peer address to its bare "host:port" form.
func Normalize(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("peerset: invalid address %q", address)
	}
	parsed, err := url.Parse(address)
	if err == nil && parsed.Host != "" {
		return parsed.Host, nil
	}
	if strings.Contains(address, "://") {
		return "", fmt.Errorf("peerset: invalid address %q", address)
	}
	return address, nil
}

// Members returns every known peer address, sorted for deterministic
// iteration by callers such as internal/node's broadcast and resolve
// loops.
func (p *PeerSet) Members() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.members))
	for m := range p.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of known peers.
func (p *PeerSet) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.members)
}
