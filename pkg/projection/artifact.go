package projection

import (
	"context"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/observability"
)

// Artifact returns an export of doc, such as a DOT or SVG diagram, from the
// cache. On a miss it calls render and stores the result. The key combines
// [Document.Hash] with opts, so a document only matches exports rendered
// from identical content and options.
func (s *Service) Artifact(ctx context.Context, doc *Document, opts cache.ArtifactKeyOpts,
	render func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	key := s.opts.Keyer.ArtifactKey(doc.Hash(), opts)
	hooks := observability.Cache()

	data, hit, err := s.opts.Cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("artifact cache read failed", "key", key, "err", err)
	}
	if err == nil && hit {
		hooks.OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, "artifact")

	data, err = render(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := s.opts.Cache.Set(ctx, key, data, s.opts.TTL); err != nil {
		s.logger.Warn("artifact cache write failed", "key", key, "err", err)
	} else {
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}
