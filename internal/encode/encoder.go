package encode

import (
	"context"
	"log/slog"
	"os/exec"

	"trackmux/internal/config"
	"trackmux/internal/logging"
	"trackmux/internal/media/probe"
)

var commandContext = exec.CommandContext

// InspectFunc matches probe.Inspect and exists so tests can feed canned
// stream layouts without a real ffprobe binary.
type InspectFunc func(ctx context.Context, binary, path string) (probe.Result, error)

// Encoder drives the external encoder processes for one or more runs.
type Encoder struct {
	binaries config.Binaries
	logger   *slog.Logger
	inspect  InspectFunc
	observer func(StreamResult)
}

// New constructs an encoder using the configured binaries.
func New(binaries config.Binaries, logger *slog.Logger) *Encoder {
	return &Encoder{
		binaries: binaries,
		logger:   logging.NewComponentLogger(logger, "encode"),
		inspect:  probe.Inspect,
	}
}

// WithInspector replaces the stream inspection function, for tests.
func (e *Encoder) WithInspector(fn InspectFunc) {
	if e != nil && fn != nil {
		e.inspect = fn
	}
}

// WithStreamObserver registers a callback invoked once per successfully
// re-encoded stream, in stream order. Used for journaling.
func (e *Encoder) WithStreamObserver(fn func(StreamResult)) {
	if e != nil {
		e.observer = fn
	}
}

// SetLogger updates the encoder's logging destination.
func (e *Encoder) SetLogger(logger *slog.Logger) {
	if e == nil {
		return
	}
	e.logger = logging.NewComponentLogger(logger, "encode")
}
