package sanitize

import (
	"context"
	"log/slog"

	"github.com/imgscrub/imgscrub/internal/codec"
)

// Stage defines the interface for a single pipeline transform.
// Stages are executed in sequence; each receives exclusive ownership of
// the buffer and returns the buffer to pass to the next stage (usually
// the same one, mutated or with replaced pixels).
//
// Design decision: We use an interface rather than function types because
// it allows stages to carry configuration state (the bounder's max
// dimension) and provides a Name() method for logging.
type Stage interface {
	// Apply executes the transform. The returned buffer carries the
	// result; on error the input buffer must be considered consumed.
	Apply(ctx context.Context, buf *codec.Buffer) (*codec.Buffer, error)

	// Name returns the stage's name for logging purposes.
	Name() string
}

// Pipeline executes stages in order against a single buffer.
type Pipeline struct {
	// stages contains the ordered list of transforms to execute.
	stages []Stage

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a Pipeline with the given stages.
func NewPipeline(stages []Stage, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{stages: stages}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Run executes all stages in sequence.
// Cancellation is checked between stages rather than within them: the
// transforms are bounded CPU work, so the check granularity is adequate
// and stages stay free of context plumbing internally.
//
// There is no continue-on-error mode. A failed transform means the buffer
// cannot be trusted as sanitized, so the first error aborts the run.
func (p *Pipeline) Run(ctx context.Context, buf *codec.Buffer) (*codec.Buffer, error) {
	for _, stage := range p.stages {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"stage", stage.Name(),
				"reason", ctx.Err(),
			)
			return nil, ctx.Err()
		default:
		}

		next, err := stage.Apply(ctx, buf)
		if err != nil {
			p.logger.Error("stage failed",
				"stage", stage.Name(),
				"width", buf.Width,
				"height", buf.Height,
				"error", err,
			)
			return nil, err
		}

		p.logger.Debug("stage completed",
			"stage", stage.Name(),
			"width", next.Width,
			"height", next.Height,
			"mode", string(next.Mode),
		)
		buf = next
	}

	return buf, nil
}

// StageNames returns the names of all stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}
