// Package model defines the core memory data types shared across the engine.
package model

import (
	"errors"
	"fmt"
	"time"
)

// Domain identifies one of the three vault key-value domains.
type Domain string

const (
	DomainMind Domain = "mind"
	DomainBody Domain = "body"
	DomainSoul Domain = "soul"
)

// Domains lists all vault domains in canonical order.
var Domains = []Domain{DomainMind, DomainBody, DomainSoul}

// ParseDomain validates a domain name. Unknown domains are a configuration
// error, not a runtime condition, so callers typically fail fast on it.
func ParseDomain(s string) (Domain, error) {
	switch Domain(s) {
	case DomainMind, DomainBody, DomainSoul:
		return Domain(s), nil
	}
	return "", fmt.Errorf("unknown vault domain %q (want mind, body or soul)", s)
}

// Layer identifies one of the five cortex memory layers.
type Layer string

const (
	LayerSTM Layer = "stm" // surface thoughts, fleeting
	LayerWM  Layer = "wm"  // working memory, active
	LayerLTM Layer = "ltm" // long-term wisdom
	LayerEPM Layer = "epm" // episodic life, past interactions
	LayerRFM Layer = "rfm" // reflexive instinct
)

// Layers lists all cortex layers in canonical order.
var Layers = []Layer{LayerSTM, LayerWM, LayerLTM, LayerEPM, LayerRFM}

// ParseLayer validates a layer name.
func ParseLayer(s string) (Layer, error) {
	switch Layer(s) {
	case LayerSTM, LayerWM, LayerLTM, LayerEPM, LayerRFM:
		return Layer(s), nil
	}
	return "", fmt.Errorf("unknown cortex layer %q (want stm, wm, ltm, epm or rfm)", s)
}

// VaultEntry is one key-value pair in a vault domain. Soul values are stored
// encrypted; the entry always carries plaintext.
type VaultEntry struct {
	ID        string    `json:"id"`
	Domain    Domain    `json:"domain"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CortexEntry is one payload in a cortex layer. Keys are hierarchical
// (e.g. "epm:dad:0001766000000") so prefix scans select a subject slice.
type CortexEntry struct {
	ID        string    `json:"id"`
	Layer     Layer     `json:"layer"`
	Key       string    `json:"key"`
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Error taxonomy. NotFound is an expected outcome, the rest are failures.
var (
	// ErrNotFound marks an absent key. Absence is common and callers are
	// expected to branch on it with errors.Is rather than treat it as a fault.
	ErrNotFound = errors.New("not found")

	// ErrStorage marks a backing store that could not be read or written.
	// Fatal to the triggering call.
	ErrStorage = errors.New("storage unavailable")

	// ErrCrypto marks a soul-domain encrypt/decrypt failure. Fatal; the vault
	// never returns ciphertext in place of a value.
	ErrCrypto = errors.New("encryption failure")

	// ErrRecording marks a failed post-turn exchange write. Recoverable: the
	// orchestrator logs it and never surfaces it to the user who already
	// received their response.
	ErrRecording = errors.New("recording failure")
)
