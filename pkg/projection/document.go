package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/observability"
)

// VizType selects the layout carried by a [Document].
type VizType string

const (
	VizTiered VizType = "tiered"
	VizRadial VizType = "radial"
)

// ParseVizType validates a layout type name.
func ParseVizType(s string) (VizType, error) {
	switch v := VizType(s); v {
	case VizTiered, VizRadial:
		return v, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown layout type %q (want tiered or radial)", s)
	}
}

// DocPerson is the renderer-facing part of a person.
type DocPerson struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LocalizedName string `json:"localized_name,omitempty"`
	Gender        string `json:"gender"`
	Generation    int    `json:"generation"`
	Spouse        string `json:"spouse,omitempty"`
}

// Document is a self-contained layout for a renderer.
type Document struct {
	VizType  VizType     `json:"viz_type"`
	Revision uint64      `json:"revision"`
	ViewHash string      `json:"view_hash"`
	Persons  []DocPerson `json:"persons"`
	Rows     [][]string  `json:"rows"`

	// Tiered layouts.
	Cells      map[string]layout.Cell `json:"cells,omitempty"`
	Connectors []layout.Connector     `json:"connectors,omitempty"`

	// Radial layouts.
	Points map[string]layout.Point `json:"points,omitempty"`
	Lines  []layout.Line           `json:"lines,omitempty"`
}

// Marshal encodes the document as JSON.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// UnmarshalDocument decodes a document produced by [Document.Marshal].
func UnmarshalDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout document")
	}
	if _, err := ParseVizType(string(d.VizType)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout document")
	}
	return &d, nil
}

// Hash identifies the document content, excluding the revision.
func (d *Document) Hash() string {
	c := *d
	c.Revision = 0
	return cache.HashJSON(&c)
}

// Document returns the layout document of the given type for the current
// revision, reading and filling the configured cache.
func (s *Service) Document(ctx context.Context, viz VizType) (*Document, error) {
	doc, _, err := s.DocumentWithCacheInfo(ctx, viz)
	return doc, err
}

// DocumentWithCacheInfo is like [Service.Document] and also reports whether
// the document came from the cache.
func (s *Service) DocumentWithCacheInfo(ctx context.Context, viz VizType) (*Document, bool, error) {
	if _, err := ParseVizType(string(viz)); err != nil {
		return nil, false, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	key := s.opts.Keyer.LayoutKey(snap.Hash, s.layoutKeyOpts(viz))
	hooks := observability.Cache()

	data, hit, err := s.opts.Cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("layout cache read failed", "key", key, "err", err)
	}
	if err == nil && hit {
		if doc, err := UnmarshalDocument(data); err == nil && doc.ViewHash == snap.Hash {
			hooks.OnCacheHit(ctx, "layout")
			doc.Revision = snap.Revision
			return doc, true, nil
		}
		s.logger.Debug("discarding unreadable cached layout", "key", key)
	}
	hooks.OnCacheMiss(ctx, "layout")

	doc := s.build(ctx, snap, viz)
	data, err = doc.Marshal()
	if err != nil {
		return nil, false, fmt.Errorf("encode layout document: %w", err)
	}
	if err := s.opts.Cache.Set(ctx, key, data, s.opts.TTL); err != nil {
		s.logger.Warn("layout cache write failed", "key", key, "err", err)
	} else {
		hooks.OnCacheSet(ctx, "layout", len(data))
	}
	return doc, false, nil
}

func (s *Service) layoutKeyOpts(viz VizType) cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{VizType: string(viz)}
	if viz == VizRadial {
		r := s.opts.Radial.WithDefaults()
		opts.BaseRadius, opts.RadiusStep, opts.DepthStep = r.BaseRadius, r.RadiusStep, r.DepthStep
		opts.Flatten, opts.Decay = r.Flatten, r.Decay
	}
	return opts
}

func (s *Service) build(ctx context.Context, snap *Snapshot, viz VizType) *Document {
	doc := &Document{
		VizType:  viz,
		Revision: snap.Revision,
		ViewHash: snap.Hash,
		Persons:  make([]DocPerson, len(snap.View.Nodes)),
		Rows:     snap.Rows,
	}
	for i, n := range snap.View.Nodes {
		dp := DocPerson{
			ID:            n.ID(),
			Name:          n.Person.Name,
			LocalizedName: n.Person.LocalizedName,
			Gender:        string(n.Person.Gender),
			Generation:    snap.Levels[n.ID()],
		}
		if n.Spouse != nil {
			dp.Spouse = n.Spouse.ID()
		}
		doc.Persons[i] = dp
	}

	switch viz {
	case VizTiered:
		doc.Cells = snap.tieredLayout(ctx)
		doc.Connectors = layout.TieredConnectors(snap.View, doc.Cells)
	case VizRadial:
		doc.Points = snap.radialLayout(ctx)
		doc.Lines = layout.RadialLines(snap.View, doc.Points)
	}
	return doc
}
