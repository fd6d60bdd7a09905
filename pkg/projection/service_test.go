package projection

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/observability"
)

// countingSource counts GraphView calls.
type countingSource struct {
	*family.Store
	views atomic.Int32
}

func (c *countingSource) GraphView() *family.View {
	c.views.Add(1)
	return c.Store.GraphView()
}

func newStore() *family.Store {
	n := 0
	var mu sync.Mutex
	return family.NewStore(family.Options{NewID: func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("p%d", n)
	}})
}

func create(t *testing.T, s *family.Store, name string, g family.Gender, parents ...string) family.Person {
	t.Helper()
	p, err := s.CreatePerson(family.Fields{Name: name, Gender: g}, family.Relations{Parents: parents})
	require.NoError(t, err)
	return p
}

func TestServiceGenerations(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	p1 := create(t, s, "P1", family.GenderMale)
	p2 := create(t, s, "P2", family.GenderFemale)
	p3 := create(t, s, "P3", family.GenderMale, p1.ID, p2.ID)

	svc := NewService(s, Options{})
	levels, err := svc.Generations(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{p1.ID: 0, p2.ID: 0, p3.ID: 1}, levels)

	require.NoError(t, s.SoftDeletePerson(p3.ID))
	levels, err = svc.Generations(ctx)
	require.NoError(t, err)
	assert.NotContains(t, levels, p3.ID, "soft-deleted persons are excluded")

	tiered, err := svc.Tiered(ctx)
	require.NoError(t, err)
	assert.NotContains(t, tiered, p3.ID)
}

func TestServiceRecomputesPerRevision(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{Store: newStore()}
	create(t, src.Store, "A", family.GenderMale)
	svc := NewService(src, Options{})

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	second, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged revision must reuse the snapshot")
	assert.Equal(t, int32(1), src.views.Load())

	create(t, src.Store, "B", family.GenderFemale)
	third, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, src.Store.Revision(), third.Revision)
	assert.Equal(t, 2, third.View.Len())
	assert.Equal(t, first.View.Len(), 1, "old snapshots are never mutated")
}

func TestServiceConcurrentReadsComputeOnce(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{Store: newStore()}
	root := create(t, src.Store, "Root", family.GenderMale)
	for i := range 20 {
		create(t, src.Store, fmt.Sprintf("Child %d", i), family.GenderFemale, root.ID)
	}
	svc := NewService(src, Options{})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Radial(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), src.views.Load())
}

func TestServiceCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewService(newStore(), Options{})
	_, err := svc.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServiceRadialThreeChildren(t *testing.T) {
	s := newStore()
	root := create(t, s, "Root", family.GenderMale)
	var kids []family.Person
	for _, name := range []string{"A", "B", "C"} {
		kids = append(kids, create(t, s, name, family.GenderFemale, root.ID))
	}

	points, err := NewService(s, Options{}).Radial(context.Background())
	require.NoError(t, err)
	for i, k := range kids {
		angle := float64(i) * 2 * math.Pi / 3
		assert.InDelta(t, 200*math.Cos(angle), points[k.ID].X, 1e-9)
		assert.InDelta(t, 100*math.Sin(angle), points[k.ID].Y, 1e-9)
	}
}

func TestServiceDocument(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	dad := create(t, s, "Dad", family.GenderMale)
	mom := create(t, s, "Mom", family.GenderFemale)
	require.NoError(t, s.SetSpouse(dad.ID, mom.ID))
	kid := create(t, s, "Kid", family.GenderMale, dad.ID, mom.ID)

	svc := NewService(s, Options{})

	tiered, err := svc.Document(ctx, VizTiered)
	require.NoError(t, err)
	assert.Equal(t, VizTiered, tiered.VizType)
	assert.Equal(t, [][]string{{dad.ID, mom.ID}, {kid.ID}}, tiered.Rows)
	assert.Len(t, tiered.Connectors, 2)
	assert.Nil(t, tiered.Points)
	require.Len(t, tiered.Persons, 3)
	assert.Equal(t, mom.ID, tiered.Persons[0].Spouse)
	assert.Equal(t, 1, tiered.Persons[2].Generation)

	radial, err := svc.Document(ctx, VizRadial)
	require.NoError(t, err)
	assert.Len(t, radial.Points, 3)
	assert.Len(t, radial.Lines, 2)
	assert.Nil(t, radial.Cells)

	data, err := radial.Marshal()
	require.NoError(t, err)
	decoded, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, radial.Hash(), decoded.Hash())

	_, err = svc.Document(ctx, VizType("sunburst"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestServiceArtifact(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	s := newStore()
	root := create(t, s, "Root", family.GenderMale)
	create(t, s, "Kid", family.GenderFemale, root.ID)
	svc := NewService(s, Options{Cache: fc})
	doc, err := svc.Document(ctx, VizTiered)
	require.NoError(t, err)

	calls := 0
	render := func(context.Context) ([]byte, error) {
		calls++
		return []byte(fmt.Sprintf("diagram %d", calls)), nil
	}
	svg := cache.ArtifactKeyOpts{Format: "svg"}

	data, hit, err := svc.Artifact(ctx, doc, svg, render)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "diagram 1", string(data))

	data, hit, err = svc.Artifact(ctx, doc, svg, render)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "diagram 1", string(data))
	assert.Equal(t, 1, calls)

	_, hit, err = svc.Artifact(ctx, doc, cache.ArtifactKeyOpts{Format: "dot"}, render)
	require.NoError(t, err)
	assert.False(t, hit)

	// A changed tree hashes differently and misses.
	create(t, s, "Kid 2", family.GenderMale, root.ID)
	changed, err := svc.Document(ctx, VizTiered)
	require.NoError(t, err)
	_, hit, err = svc.Artifact(ctx, changed, svg, render)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, calls)

	failing := func(context.Context) ([]byte, error) {
		return nil, errors.New(errors.ErrCodeInternal, "graphviz failed")
	}
	_, _, err = svc.Artifact(ctx, doc, cache.ArtifactKeyOpts{Format: "svg", Detailed: true}, failing)
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))
}

// countingHooks records cache events.
type countingHooks struct {
	observability.NoopCacheHooks
	mu     sync.Mutex
	events map[string]int
}

func (h *countingHooks) record(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events[event]++
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.record("hit") }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.record("miss") }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.record("set") }

func TestServiceDocumentCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	hooks := &countingHooks{events: map[string]int{}}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newStore()
	root := create(t, s, "Root", family.GenderMale)
	create(t, s, "Kid", family.GenderFemale, root.ID)

	opts := Options{Cache: fc, Keyer: cache.NewScopedKeyer(nil, "test:"), TTL: time.Hour}
	doc, hit, err := NewService(s, opts).DocumentWithCacheInfo(ctx, VizRadial)
	require.NoError(t, err)
	assert.False(t, hit)

	// Same records in another store: same content hash, different revision.
	other := family.NewStore(family.Options{})
	require.NoError(t, other.Load(s.Records()))
	cached, hit, err := NewService(other, opts).DocumentWithCacheInfo(ctx, VizRadial)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, other.Revision(), cached.Revision)
	assert.Equal(t, doc.Points, cached.Points)

	assert.Equal(t, map[string]int{"miss": 1, "set": 1, "hit": 1}, hooks.events)

	// Different radial options never hit the tiered or default-radial entry.
	opts.Radial.BaseRadius = 10
	_, hit, err = NewService(other, opts).DocumentWithCacheInfo(ctx, VizRadial)
	require.NoError(t, err)
	assert.False(t, hit)
}
