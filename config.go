package consecution

import (
	"context"
	"io"

	"github.com/go-logr/logr"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGlobalState shares gs with every node of the pipeline. Defaults to an
// empty GlobalState.
var WithGlobalState = func(gs *GlobalState) Option {
	return func(p *Pipeline) {
		p.global = gs
	}
}

// WithLogr sets the logger for pipeline diagnostics.
var WithLogr = func(log logr.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithLogWriter sets where node log lines go. Defaults to os.Stdout.
var WithLogWriter = func(w io.Writer) Option {
	return func(p *Pipeline) {
		p.logWriter = w
	}
}

// WithHooks registers pipeline-level lifecycle hooks. h may implement any of
// PipelineBeginner, PipelineEnder and PipelineResetter.
var WithHooks = func(h any) Option {
	return func(p *Pipeline) {
		p.hooks = h
	}
}

// WithPlotter replaces the renderer used by Pipeline.Plot.
var WithPlotter = func(pl Plotter) Option {
	return func(p *Pipeline) {
		p.plotter = pl
	}
}

// PipelineBeginner runs before the nodes begin.
type PipelineBeginner interface {
	Begin(ctx context.Context, p *Pipeline) error
}

// PipelineEnder runs after the nodes have ended. Its result is returned from
// Pipeline.End and Pipeline.Consume.
type PipelineEnder interface {
	End(ctx context.Context, p *Pipeline) (any, error)
}

// PipelineResetter runs after the nodes have been reset.
type PipelineResetter interface {
	Reset(ctx context.Context, p *Pipeline) error
}

// HookFuncs builds pipeline hooks from functions; nil functions are skipped.
type HookFuncs struct {
	BeginFunc func(ctx context.Context, p *Pipeline) error
	EndFunc   func(ctx context.Context, p *Pipeline) (any, error)
	ResetFunc func(ctx context.Context, p *Pipeline) error
}

func (h HookFuncs) Begin(ctx context.Context, p *Pipeline) error {
	if h.BeginFunc == nil {
		return nil
	}
	return h.BeginFunc(ctx, p)
}

func (h HookFuncs) End(ctx context.Context, p *Pipeline) (any, error) {
	if h.EndFunc == nil {
		return nil, nil
	}
	return h.EndFunc(ctx, p)
}

func (h HookFuncs) Reset(ctx context.Context, p *Pipeline) error {
	if h.ResetFunc == nil {
		return nil
	}
	return h.ResetFunc(ctx, p)
}
