package projection

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/expression"
)

// Option configures ApplyBatch.
type Option func(*batchConfig)

type batchConfig struct {
	workers int
	vars    *expression.Variables
}

// WithWorkers bounds the number of documents projected at once.
// Values below one mean runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(cfg *batchConfig) {
		cfg.workers = n
	}
}

// WithVariables binds variables for computed fields.
func WithVariables(vars *expression.Variables) Option {
	return func(cfg *batchConfig) {
		cfg.vars = vars
	}
}

// ApplyBatch applies the tree to every document concurrently. Results keep
// the order of docs. The first failure cancels the remaining work and is
// returned with the index of the failing document.
func (n *Node) ApplyBatch(ctx context.Context, docs []*document.Document, opts ...Option) ([]*document.Document, error) {
	cfg := &batchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}

	out := make([]*document.Document, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			projected, err := n.Apply(doc, cfg.vars)
			if err != nil {
				return fmt.Errorf("projection: document %d: %w", i, err)
			}
			out[i] = projected
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
