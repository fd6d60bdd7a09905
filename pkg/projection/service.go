package projection

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
)

// Source is the read contract the service needs from a store.
type Source interface {
	Revision() uint64
	GraphView() *family.View
}

var _ Source = (*family.Store)(nil)

// Options configures a [Service].
type Options struct {
	// Radial tunes the radial layout; zero fields take the layout defaults.
	Radial layout.RadialOptions

	// Cache stores documents across processes. Nil disables it.
	Cache cache.Cache
	// Keyer derives document keys. Defaults to cache.DefaultKeyer.
	Keyer cache.Keyer
	// TTL is the document lifetime. Defaults to cache.DefaultTTL.
	TTL time.Duration

	Logger *log.Logger
}

// Service serves derived results for a [Source], recomputing them lazily
// once per revision. It is safe for concurrent use.
type Service struct {
	src    Source
	opts   Options
	logger *log.Logger

	mu    sync.RWMutex
	snap  *Snapshot
	group singleflight.Group
}

// NewService creates a service over src.
func NewService(src Source, opts Options) *Service {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL == 0 {
		opts.TTL = cache.DefaultTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Service{src: src, opts: opts, logger: logger}
}

// Snapshot returns the derived state for the current source revision.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rev := s.src.Revision()
	if snap := s.current(rev); snap != nil {
		return snap, nil
	}

	ch := s.group.DoChan(strconv.FormatUint(rev, 10), func() (any, error) {
		// Another caller may have finished while we waited for the lock.
		if snap := s.current(rev); snap != nil {
			return snap, nil
		}
		return s.compute(ctx), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		snap, ok := res.Val.(*Snapshot)
		if !ok {
			return nil, fmt.Errorf("unexpected type from snapshot group: got %T", res.Val)
		}
		return snap, nil
	}
}

// current returns the cached snapshot if it is at least as new as rev.
func (s *Service) current(rev uint64) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap != nil && s.snap.Revision >= rev {
		return s.snap
	}
	return nil
}

func (s *Service) compute(ctx context.Context) *Snapshot {
	start := time.Now()
	v := s.src.GraphView()
	done := track(ctx, "snapshot", v.Len())
	snap := newSnapshot(v, s.opts.Radial)
	done()

	s.mu.Lock()
	if s.snap == nil || snap.Revision > s.snap.Revision {
		s.snap = snap
	}
	s.mu.Unlock()

	s.logger.Debug("recomputed projection",
		"revision", snap.Revision,
		"persons", v.Len(),
		"generations", len(snap.Rows),
		"duration", time.Since(start))
	return snap
}

// View returns the graph view of the current revision.
func (s *Service) View(ctx context.Context) (*family.View, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.View, nil
}

// Generations returns the generation level of every active person.
func (s *Service) Generations(ctx context.Context) (map[string]int, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Levels, nil
}

// Tiered returns the tiered layout of the current revision.
func (s *Service) Tiered(ctx context.Context) (map[string]layout.Cell, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.tieredLayout(ctx), nil
}

// Radial returns the radial layout of the current revision.
func (s *Service) Radial(ctx context.Context) (map[string]layout.Point, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.radialLayout(ctx), nil
}
