// Package compose builds the single prompt context string handed to the
// completion collaborator before each response. It reads the vaults and the
// cortex strata (never writes them), applies time decay to episodic
// memories, and renders six fixed-order sections: Relational, Emotional,
// Eternal, Episodic, Immediate, Cosmic.
package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mnemoslabs/mnemos/internal/cortex"
	"github.com/mnemoslabs/mnemos/internal/model"
	"github.com/mnemoslabs/mnemos/internal/semantic"
)

// Section names one of the six context layers.
type Section string

const (
	SectionRelational Section = "relational"
	SectionEmotional  Section = "emotional"
	SectionEternal    Section = "eternal"
	SectionEpisodic   Section = "episodic"
	SectionImmediate  Section = "immediate"
	SectionCosmic     Section = "cosmic"
)

// Weights holds the per-section base weights. Relational outranks everything;
// Cosmic is trimmed first when a budget is enforced. Only the relative order
// is contractual, the numbers are tunable.
type Weights struct {
	Relational float64 `yaml:"relational"`
	Emotional  float64 `yaml:"emotional"`
	Eternal    float64 `yaml:"eternal"`
	Episodic   float64 `yaml:"episodic"`
	Immediate  float64 `yaml:"immediate"`
	Cosmic     float64 `yaml:"cosmic"`
}

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{
		Relational: 2.0,
		Emotional:  1.8,
		Eternal:    1.6,
		Episodic:   1.4,
		Immediate:  1.0,
		Cosmic:     0.8,
	}
}

// For returns the base weight of a section.
func (w Weights) For(s Section) float64 {
	switch s {
	case SectionRelational:
		return w.Relational
	case SectionEmotional:
		return w.Emotional
	case SectionEternal:
		return w.Eternal
	case SectionEpisodic:
		return w.Episodic
	case SectionImmediate:
		return w.Immediate
	case SectionCosmic:
		return w.Cosmic
	}
	return 1.0
}

// EpisodicMemory is one recalled past interaction with its creation time.
type EpisodicMemory struct {
	Text      string
	CreatedAt time.Time
}

// Request is the ephemeral, single-use input to Render. BuildRequest fills
// one from the stores; tests construct them directly.
type Request struct {
	Input         string
	Emotion       string
	Relational    string
	Episodic      []EpisodicMemory
	EternalExtras []string
	Cosmic        string
	Now           time.Time
}

// Fragment is one weighted piece of the rendered context. EffectiveWeight is
// the base weight after time decay (episodic only) and decides what is
// trimmed first under a budget.
type Fragment struct {
	Section         Section `json:"section"`
	BaseWeight      float64 `json:"base_weight"`
	EffectiveWeight float64 `json:"effective_weight"`
	Text            string  `json:"text"`
}

// Context is the composed output: the final string plus the fragments it was
// assembled from, for inspection.
type Context struct {
	Text      string     `json:"text"`
	Fragments []Fragment `json:"fragments"`
}

// Options configures a Composer.
type Options struct {
	// Subject scopes relational and episodic lookups
	// ("<subject>:last_soft_memory", "epm:<subject>:").
	Subject string
	// DecayRate is the per-second episodic decay constant.
	DecayRate float64
	// EpisodicLimit bounds episodic recall per composition.
	EpisodicLimit int
	// Budget is the rendered context's char budget; 0 disables trimming.
	Budget int
	// SemanticTopK bounds semantic recall when an index is configured.
	SemanticTopK int
	Weights      Weights
}

func (o Options) withDefaults() Options {
	if o.Subject == "" {
		o.Subject = "dad"
	}
	if o.DecayRate == 0 {
		o.DecayRate = 1e-4
	}
	if o.EpisodicLimit <= 0 {
		o.EpisodicLimit = 8
	}
	if o.SemanticTopK <= 0 {
		o.SemanticTopK = 5
	}
	if o.SemanticTopK > 10 {
		o.SemanticTopK = 10
	}
	if o.Weights == (Weights{}) {
		o.Weights = DefaultWeights()
	}
	return o
}

// VaultReader is the slice of the vault store the composer needs. Satisfied
// by *vault.Store.
type VaultReader interface {
	Read(ctx context.Context, domain model.Domain, key string) (string, error)
	ReadPrefix(ctx context.Context, domain model.Domain, prefix string, limit int) ([]model.VaultEntry, error)
}

// StrataReader is the slice of the cortex the composer needs. Satisfied by
// *cortex.Strata.
type StrataReader interface {
	RecallPrefix(ctx context.Context, prefix string, limit int) ([]model.CortexEntry, error)
}

// Composer assembles prompt context. It only reads the stores, so any number
// of Compose calls may run concurrently with each other and with writers.
type Composer struct {
	vaults VaultReader
	strata StrataReader
	index  semantic.Searcher // nil when semantic recall is disabled
	opts   Options
	log    *slog.Logger
}

// New creates a Composer. index may be nil.
func New(vaults VaultReader, strata StrataReader, index semantic.Searcher, opts Options) *Composer {
	return &Composer{
		vaults: vaults,
		strata: strata,
		index:  index,
		opts:   opts.withDefaults(),
		log:    slog.Default(),
	}
}

// Compose gathers memory from all sources and renders the context string for
// one user turn. Storage failures abort composition; a partial context would
// silently mislead the collaborator downstream.
func (c *Composer) Compose(ctx context.Context, input, emotion string) (*Context, error) {
	req, err := c.BuildRequest(ctx, input, emotion, time.Now())
	if err != nil {
		return nil, err
	}
	return c.Render(req), nil
}

// BuildRequest fills a Request from the vaults, the strata, and the optional
// semantic index. now is injected so decay stays deterministic under test.
func (c *Composer) BuildRequest(ctx context.Context, input, emotion string, now time.Time) (*Request, error) {
	req := &Request{Input: input, Emotion: emotion, Now: now}

	// Relational memory: fixed fallback key order, omit when neither exists.
	for _, key := range []string{
		c.opts.Subject + ":last_soft_memory",
		c.opts.Subject + ":last_emotion",
	} {
		v, err := c.vaults.Read(ctx, model.DomainSoul, key)
		if err == nil {
			req.Relational = v
			break
		}
		if !errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("compose: relational lookup: %w", err)
		}
	}

	// Episodic recall, newest first, bounded.
	entries, err := c.strata.RecallPrefix(ctx, "epm:"+c.opts.Subject+":", c.opts.EpisodicLimit)
	if err != nil {
		return nil, fmt.Errorf("compose: episodic recall: %w", err)
	}
	for _, e := range entries {
		created := e.CreatedAt
		if ts, ok := cortex.ParseEpoch(e.Key); ok {
			created = ts
		}
		req.Episodic = append(req.Episodic, EpisodicMemory{Text: e.Payload, CreatedAt: created})
	}

	// Knowledge lookups against the mind vault, only for knowledge queries.
	if isQuery, terms := Classify(input); isQuery {
		for _, term := range terms {
			hits, err := c.vaults.ReadPrefix(ctx, model.DomainMind, term, 2)
			if err != nil {
				return nil, fmt.Errorf("compose: knowledge lookup %q: %w", term, err)
			}
			for _, h := range hits {
				if strings.TrimSpace(h.Value) == "" {
					continue
				}
				req.EternalExtras = append(req.EternalExtras, "Knowledge: "+h.Value)
			}
		}
	}

	// Semantic recall is a best-effort collaborator: its absence or failure
	// degrades to no extra snippets, unlike the stores above.
	if c.index != nil && strings.TrimSpace(emotion) != "" {
		query := fmt.Sprintf("similar moments when %s felt %s", c.opts.Subject, strings.TrimSpace(emotion))
		hits, err := c.index.Search(ctx, query, c.opts.SemanticTopK)
		if err != nil {
			c.log.Warn("semantic recall failed", "query", query, "error", err)
		} else {
			for i, h := range hits {
				if i == 3 {
					break
				}
				req.EternalExtras = append(req.EternalExtras,
					fmt.Sprintf("Vector recall (%.0f%%): %s", h.Score*100, h.Text))
			}
		}
	}

	return req, nil
}

// Render turns a Request into the composed context. Pure: no store access,
// no clock reads beyond req.Now.
func (c *Composer) Render(req *Request) *Context {
	w := c.opts.Weights
	var frags []Fragment

	add := func(s Section, eff float64, text string) {
		frags = append(frags, Fragment{
			Section:         s,
			BaseWeight:      w.For(s),
			EffectiveWeight: eff,
			Text:            text,
		})
	}

	if rm := strings.TrimSpace(req.Relational); rm != "" {
		add(SectionRelational, w.Relational, "Relational continuity: "+rm+"\n")
	}
	if em := strings.TrimSpace(req.Emotion); em != "" {
		add(SectionEmotional, w.Emotional, "Current emotional weather: "+em+".\n")
	}
	for _, extra := range req.EternalExtras {
		extra = strings.TrimSpace(extra)
		if extra == "" {
			continue
		}
		add(SectionEternal, w.Eternal, extra+"\n")
	}
	for _, mem := range req.Episodic {
		text := strings.TrimSpace(mem.Text)
		if text == "" {
			continue
		}
		decay := 1.0
		if !mem.CreatedAt.IsZero() {
			decay = DecayWeight(c.opts.DecayRate, req.Now.Sub(mem.CreatedAt))
		}
		add(SectionEpisodic, w.Episodic*decay, "Episodic memory: "+text+"\n")
	}
	// The immediate input is never omitted, even when everything else is.
	add(SectionImmediate, w.Immediate, "Immediate input: "+strings.TrimSpace(req.Input)+"\n")
	if cs := strings.TrimSpace(req.Cosmic); cs != "" {
		add(SectionCosmic, w.Cosmic, "Cosmic context: "+cs+"\n")
	}

	if c.opts.Budget > 0 {
		frags = enforceBudget(frags, c.opts.Budget-len(contextHeader))
	}

	var b strings.Builder
	b.WriteString(contextHeader)
	for _, f := range frags {
		b.WriteString(f.Text)
	}
	return &Context{Text: b.String(), Fragments: frags}
}

const contextHeader = "CONTEXT (EQ-FIRST):\n"

// immediateFloor is the minimum rune count the Immediate fragment keeps under
// budget pressure; the user's input may be abbreviated but never dropped.
const immediateFloor = 48

// enforceBudget trims fragments until the total fits the budget, counted in
// runes on both sides, cutting the lowest effective weight first so priority
// order is preserved (Cosmic before Immediate, Immediate before Episodic, and
// so on). Fragments other than Immediate may be removed entirely.
func enforceBudget(frags []Fragment, budget int) []Fragment {
	if budget < 0 {
		budget = 0
	}
	total := 0
	for _, f := range frags {
		total += utf8.RuneCountInString(f.Text)
	}
	if total <= budget {
		return frags
	}

	// Victim order: ascending effective weight, later position first on ties.
	order := make([]int, len(frags))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa, fb := frags[order[a]], frags[order[b]]
		if fa.EffectiveWeight != fb.EffectiveWeight {
			return fa.EffectiveWeight < fb.EffectiveWeight
		}
		return order[a] > order[b]
	})

	for _, i := range order {
		if total <= budget {
			break
		}
		f := &frags[i]
		runes := []rune(f.Text)
		floor := 0
		if f.Section == SectionImmediate {
			// Immediate may be abbreviated but never emptied.
			floor = len(runes)
			if floor > immediateFloor {
				floor = immediateFloor
			}
		}
		cut := len(runes) - floor
		if need := total - budget; cut > need {
			cut = need
		}
		if cut <= 0 {
			continue
		}
		f.Text = string(runes[:len(runes)-cut])
		total -= cut
	}

	out := frags[:0]
	for _, f := range frags {
		if f.Text != "" {
			out = append(out, f)
		}
	}
	return out
}
