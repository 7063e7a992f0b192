// Package network owns the currently served transit graph. A load replaces the
// whole graph at once; readers always see one complete, immutable generation.
package network

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/atharv3903/metronav/internal/graph"
)

// ErrNotLoaded is returned by Snapshot users before the first successful Load.
var ErrNotLoaded = errors.New("network: not loaded")

// Snapshot is one generation of the network.
type Snapshot struct {
	Graph *graph.Graph
	Epoch uint64
}

type Network struct {
	src    Source
	opts   []graph.Option
	logger *zap.Logger

	mu    sync.Mutex // serialises loads
	epoch uint64
	cur   atomic.Pointer[Snapshot]
}

// New returns a Network that loads from src. Nothing is read until Load.
func New(src Source, logger *zap.Logger, opts ...graph.Option) *Network {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Network{
		src:    src,
		logger: logger,
		opts:   append([]graph.Option{graph.WithLogger(logger)}, opts...),
	}
}

// Load reads the source and, if it parses, makes it the current generation.
// On error the previous generation stays in place.
func (n *Network) Load(ctx context.Context) (Snapshot, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	text, err := n.src.Text(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	g, err := graph.Load(text, n.opts...)
	if err != nil {
		n.logger.Warn("network rejected", zap.Stringer("source", n.src), zap.Error(err))
		return Snapshot{}, err
	}

	n.epoch++
	snap := &Snapshot{Graph: g, Epoch: n.epoch}
	n.cur.Store(snap)

	n.logger.Info("network loaded",
		zap.Stringer("source", n.src),
		zap.Int("stations", g.Len()),
		zap.Uint64("epoch", snap.Epoch),
	)
	return *snap, nil
}

// Current returns the served generation.
func (n *Network) Current() (Snapshot, error) {
	snap := n.cur.Load()
	if snap == nil {
		return Snapshot{}, ErrNotLoaded
	}
	return *snap, nil
}

func (n *Network) Source() Source { return n.src }
