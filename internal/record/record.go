// Package record writes each completed exchange into the cortex's episodic
// layer. Recording runs after the user already has their response, so a
// failure here is logged and reported as recoverable, never allowed to fail
// the turn.
package record

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mnemoslabs/mnemos/internal/cortex"
	"github.com/mnemoslabs/mnemos/internal/model"
	"github.com/mnemoslabs/mnemos/internal/semantic"
)

// DefaultTruncate is the stored-response length cap. The user input is never
// truncated; bounding the response bounds storage growth per turn.
const DefaultTruncate = 200

// StrataWriter is the slice of the cortex the recorder needs. Satisfied by
// *cortex.Strata.
type StrataWriter interface {
	Etch(ctx context.Context, layer model.Layer, key, payload string) error
}

// Options configures a Recorder.
type Options struct {
	// Subject scopes episodic keys ("epm:<subject>:<ts>").
	Subject string
	// AssistantName labels the response line in the stored payload.
	AssistantName string
	// Truncate caps the stored response length in runes; 0 means
	// DefaultTruncate.
	Truncate int
}

func (o Options) withDefaults() Options {
	if o.Subject == "" {
		o.Subject = "dad"
	}
	if o.AssistantName == "" {
		o.AssistantName = "Assistant"
	}
	if o.Truncate <= 0 {
		o.Truncate = DefaultTruncate
	}
	return o
}

// Recorder is the sole writer to the episodic layer during normal operation.
type Recorder struct {
	strata StrataWriter
	index  semantic.Indexer // nil when semantic indexing is disabled
	opts   Options
	log    *slog.Logger
	now    func() time.Time
}

// New creates a Recorder. index may be nil.
func New(strata StrataWriter, index semantic.Indexer, opts Options) *Recorder {
	return &Recorder{
		strata: strata,
		index:  index,
		opts:   opts.withDefaults(),
		log:    slog.Default(),
		now:    time.Now,
	}
}

// Record etches the exchange as "User: <input>\n<assistant>: <response>" into
// the episodic layer, keyed by the turn's timestamp. Failures are logged and
// returned wrapped in model.ErrRecording; the orchestrator must not re-raise
// them to the user, whose response was already delivered.
func (r *Recorder) Record(ctx context.Context, userInput, responseText string) error {
	payload := fmt.Sprintf("User: %s\n%s: %s",
		strings.TrimSpace(userInput),
		r.opts.AssistantName,
		truncateRunes(strings.TrimSpace(responseText), r.opts.Truncate))

	key := cortex.EpochKey(model.LayerEPM, r.opts.Subject, r.now())
	if err := r.strata.Etch(ctx, model.LayerEPM, key, payload); err != nil {
		r.log.Error("failed to record exchange", "key", key, "error", err)
		return fmt.Errorf("%w: %w", model.ErrRecording, err)
	}

	// Semantic indexing of the exchange is best effort on top of the
	// durable episodic write.
	if r.index != nil {
		if err := r.index.Add(ctx, key, payload); err != nil {
			r.log.Warn("failed to index exchange", "key", key, "error", err)
		}
	}
	return nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
