package metrics

import (
	"context"
	"fmt"
	"io"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/gogpu/notation/internal/logging"
)

// Status is the outcome of EnsureMeasured.
type Status int

const (
	// StatusReady means every requested code point has a record.
	StatusReady Status = iota
	// StatusPending means the font is still loading; use Provisional records.
	StatusPending
	// StatusUnavailable means no font can be used; use Provisional records.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusPending:
		return "pending"
	case StatusUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// table is one published generation of records for a single font and size.
type table struct {
	font    *Font
	size    float64
	gen     uint64
	records map[rune]Record
}

// Snapshot is a consistent read-only view of the cache. A layout pass takes
// one snapshot and reads every record from it.
type Snapshot struct {
	t *table
}

// Lookup returns the record for cp.
func (s Snapshot) Lookup(cp rune) (Record, bool) {
	if s.t == nil {
		return Record{}, false
	}
	r, ok := s.t.records[cp]
	return r, ok
}

// Font returns the font the records were measured with, or nil.
func (s Snapshot) Font() *Font {
	if s.t == nil {
		return nil
	}
	return s.t.font
}

// Size returns the font size of the records.
func (s Snapshot) Size() float64 {
	if s.t == nil {
		return 0
	}
	return s.t.size
}

// Generation identifies the font/size configuration the snapshot belongs to.
func (s Snapshot) Generation() uint64 {
	if s.t == nil {
		return 0
	}
	return s.t.gen
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	if s.t == nil {
		return 0
	}
	return len(s.t.records)
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithFallback sets a font used when the primary font fails to load.
func WithFallback(f *Font) CacheOption {
	return func(c *Cache) { c.fallback = f }
}

// WithMeasurer replaces the default SurfaceMeasurer.
func WithMeasurer(m Measurer) CacheOption {
	return func(c *Cache) {
		if m != nil {
			c.measurer = m
		}
	}
}

// Cache memoizes glyph records for the current font and size.
//
// Readers never block: they load the published table through an atomic
// pointer. Writers are serialized by a mutex and publish a new table on
// every change, so a record is never modified after it is visible.
type Cache struct {
	measurer Measurer

	mu       sync.Mutex // serializes writers
	font     *Font
	fallback *Font
	gen      uint64

	active atomic.Pointer[table]
}

// NewCache creates a cache measuring with font. font may still be loading.
func NewCache(font *Font, opts ...CacheOption) *Cache {
	c := &Cache{font: font, gen: 1}
	for _, opt := range opts {
		opt(c)
	}
	if c.measurer == nil {
		c.measurer = NewSurfaceMeasurer()
	}
	return c
}

// Font returns the primary font.
func (c *Cache) Font() *Font {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.font
}

// Fallback returns the fallback font, or nil.
func (c *Cache) Fallback() *Font {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fallback
}

// Generation changes every time the cache is invalidated.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Snapshot returns the currently published records.
func (c *Cache) Snapshot() Snapshot {
	return Snapshot{t: c.active.Load()}
}

// Lookup returns the record for cp at size. It fails with ErrNotMeasured if
// the code point has not been measured at that size with the current font.
func (c *Cache) Lookup(cp rune, size float64) (Record, error) {
	t := c.active.Load()
	if t != nil && t.size == size {
		if r, ok := t.records[cp]; ok {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: U+%04X at %gpx", ErrNotMeasured, cp, size)
}

// SetFont replaces the primary font and drops every record.
func (c *Cache) SetFont(f *Font) {
	c.mu.Lock()
	old := c.font
	c.font = f
	c.invalidateLocked("font changed")
	c.mu.Unlock()

	if sm, ok := c.measurer.(*SurfaceMeasurer); ok && old != nil && old != f {
		sm.Forget(old)
	}
}

// SetFallback replaces the fallback font and drops every record.
func (c *Cache) SetFallback(f *Font) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = f
	c.invalidateLocked("fallback changed")
}

// Invalidate drops every record.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked("invalidated")
}

func (c *Cache) invalidateLocked(reason string) {
	c.gen++
	if c.active.Swap(nil) != nil {
		logging.Logger().Debug("metrics: cache dropped", "reason", reason, "generation", c.gen)
	}
}

// usableLocked picks the font to measure with.
// Caller must hold c.mu.
func (c *Cache) usableLocked() (*Font, Status, error) {
	if c.font == nil {
		if c.fallback != nil {
			return c.pickFallbackLocked(&FontError{Name: "", Err: fmt.Errorf("no font configured")})
		}
		return nil, StatusUnavailable, &FontError{Err: fmt.Errorf("no font configured")}
	}
	if !c.font.IsReady() {
		return nil, StatusPending, nil
	}
	if err := c.font.Err(); err != nil {
		return c.pickFallbackLocked(err)
	}
	return c.font, StatusReady, nil
}

func (c *Cache) pickFallbackLocked(primaryErr error) (*Font, Status, error) {
	if c.fallback == nil {
		return nil, StatusUnavailable, primaryErr
	}
	if !c.fallback.IsReady() {
		return nil, StatusPending, nil
	}
	if err := c.fallback.Err(); err != nil {
		return nil, StatusUnavailable, fmt.Errorf("%w; fallback: %w", primaryErr, err)
	}
	return c.fallback, StatusReady, nil
}

// EnsureMeasured measures every code point not yet in the cache at size.
// It never blocks on font loading: while the font is loading it returns
// StatusPending, and if no font can be used it returns StatusUnavailable
// with an error matching ErrFontUnavailable.
//
// A size different from the cached one drops the table first.
func (c *Cache) EnsureMeasured(cps []rune, size float64) (Status, error) {
	if size <= 0 {
		return StatusUnavailable, fmt.Errorf("%w: %g", ErrInvalidSize, size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f, status, err := c.usableLocked()
	if status != StatusReady {
		return status, err
	}

	cur := c.active.Load()
	if cur != nil && (cur.font != f || cur.size != size) {
		c.invalidateLocked("size or font changed")
		cur = nil
	}

	var missing []rune
	for _, cp := range cps {
		if cur != nil {
			if _, ok := cur.records[cp]; ok {
				continue
			}
		}
		missing = append(missing, cp)
	}
	if len(missing) == 0 && cur != nil {
		return StatusReady, nil
	}

	next := &table{font: f, size: size, gen: c.gen}
	if cur != nil {
		next.records = maps.Clone(cur.records)
	} else {
		next.records = make(map[rune]Record, len(missing))
	}
	for _, cp := range missing {
		if _, ok := next.records[cp]; ok {
			continue
		}
		rec, err := c.measurer.Measure(f, cp, size)
		if err != nil {
			// Publish what was measured so far.
			c.active.Store(next)
			return StatusUnavailable, err
		}
		next.records[cp] = rec
	}
	c.active.Store(next)
	logging.Logger().Debug("metrics: measured", "font", f.String(), "size", size,
		"new", len(missing), "total", len(next.records))
	return StatusReady, nil
}

// Await blocks until a usable font is ready or ctx is done, then measures.
func (c *Cache) Await(ctx context.Context, cps []rune, size float64) error {
	for {
		status, err := c.EnsureMeasured(cps, size)
		switch status {
		case StatusReady:
			return nil
		case StatusUnavailable:
			return err
		}
		select {
		case <-c.readyChan():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close releases the measurer's resources if it holds any. Records
// already published stay readable.
func (c *Cache) Close() error {
	if cl, ok := c.measurer.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Ready returns a channel closed once the font that EnsureMeasured is
// waiting on has finished loading. A pass blocked on StatusPending should
// wait on it.
func (c *Cache) Ready() <-chan struct{} { return c.readyChan() }

func (c *Cache) readyChan() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.font != nil && !c.font.IsReady() {
		return c.font.Ready()
	}
	if c.fallback != nil && !c.fallback.IsReady() {
		return c.fallback.Ready()
	}
	return closedChan
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()
