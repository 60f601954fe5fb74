package layout

import (
	"errors"
	"sync"
	"time"

	"github.com/gogpu/notation/decoration"
	"github.com/gogpu/notation/glyph"
	"github.com/gogpu/notation/internal/logging"
	"github.com/gogpu/notation/metrics"
)

// ErrClosed is returned for passes requested after Close.
var ErrClosed = errors.New("layout: session closed")

// Session lays out documents against one metrics cache.
//
// Session is safe for concurrent use.
type Session struct {
	cache    *metrics.Cache
	placer   *decoration.Placer
	cfg      Config
	brackets brackets
	glyphOf  glyphFunc

	sched      Scheduler
	onRelayout func(Result)
	onWarning  func(Warning)
	deadline   time.Duration

	mu        sync.Mutex
	latest    Document
	hasLatest bool
	gen       uint64

	// pass is the outstanding corrective pass, nil when none.
	pass *correctivePass

	warned map[WarningKind]bool
	closed bool
}

type correctivePass struct {
	cancel chan struct{}

	// slow is set under Session.mu once the deadline passed with the font
	// still loading.
	slow bool
}

// NewSession creates a session. reg supplies the beat-loop bracket glyphs
// and the placeholder for code points it cannot decode; it may be nil, in
// which case code points are measured as they are and groups cannot use
// brackets.
func NewSession(reg *glyph.Registry, cache *metrics.Cache, opts ...Option) *Session {
	s := &Session{
		cache:   cache,
		placer:  decoration.NewPlacer(decoration.DefaultConfig()),
		cfg:     DefaultConfig(),
		glyphOf: identity,
		sched:   GoScheduler,
		warned:  make(map[WarningKind]bool),
	}
	if reg != nil {
		s.brackets.open, _ = reg.Bracket(glyph.BracketOpen)
		s.brackets.close, _ = reg.Bracket(glyph.BracketClose)
		s.glyphOf = func(cp rune) rune {
			g, _ := reg.Glyph(cp)
			return g
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the session's metrics cache.
func (s *Session) Cache() *metrics.Cache { return s.cache }

// Layout lays out doc and returns immediately. If the font is still
// loading the result is provisional and one corrective pass is arranged;
// later calls made before that pass runs only replace the document it will
// lay out. A ready result cancels an outstanding pass.
func (s *Session) Layout(doc Document) Result {
	res, _ := s.layout(doc, 0, false)
	return res
}

// layout does the work of Layout. A corrective pass passes the generation
// at which it took its document; if another Layout has run since, the
// result is stale, the session state is left alone and ok is false.
func (s *Session) layout(doc Document, since uint64, fromPass bool) (res Result, ok bool) {
	status, err := s.cache.EnsureMeasured(doc.codepoints(s.glyphOf, []rune{s.brackets.open, s.brackets.close}), doc.FontSize)
	snap := s.cache.Snapshot()

	lookup := func(cp rune) metrics.Record {
		if status == metrics.StatusReady && snap.Size() == doc.FontSize {
			if r, ok := snap.Lookup(cp); ok {
				return r
			}
		}
		return metrics.Provisional(cp, doc.FontSize)
	}
	lines, height, provisional, lerr := assemble(doc, s.cfg, s.placer, s.brackets, s.glyphOf, lookup)

	var warn *Warning
	defer func() { s.emit(warn) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	res = Result{
		Lines:       lines,
		Height:      height,
		Status:      status,
		Provisional: provisional,
		Err:         lerr,
	}
	if fromPass && s.gen != since {
		return res, false
	}

	s.gen++
	s.latest = doc
	s.hasLatest = true
	res.Generation = s.gen

	switch status {
	case metrics.StatusReady:
		if err != nil {
			res.Err = errors.Join(res.Err, err)
		}
		s.cancelPassLocked()
	case metrics.StatusPending:
		if s.pass == nil && !s.closed {
			s.startPassLocked()
		}
	case metrics.StatusUnavailable:
		s.cancelPassLocked()
		warn = s.warnLocked(WarnFontUnavailable, err)
		res.Err = errors.Join(res.Err, err)
	}
	return res, true
}

func (s *Session) cancelPassLocked() {
	if s.pass != nil {
		close(s.pass.cancel)
		s.pass = nil
	}
}

// startPassLocked waits for the font in the background and then hands one
// corrective pass to the scheduler.
func (s *Session) startPassLocked() {
	p := &correctivePass{cancel: make(chan struct{})}
	s.pass = p
	ready := s.cache.Ready()
	deadline := s.deadline

	go func() {
		var timeout <-chan time.Time
		if deadline > 0 {
			t := time.NewTimer(deadline)
			defer t.Stop()
			timeout = t.C
		}
		for {
			select {
			case <-ready:
				s.sched.Schedule(func() { s.runPass(p) })
				return
			case <-p.cancel:
				return
			case <-timeout:
				timeout = nil
				select {
				case <-ready:
					continue
				default:
				}
				// Only noted here. Whether it is reported depends on how
				// the load ends.
				s.mu.Lock()
				if s.pass == p {
					p.slow = true
				}
				s.mu.Unlock()
				logging.Logger().Debug("layout: font still loading at deadline", "deadline", deadline)
			}
		}
	}()
}

func (s *Session) runPass(p *correctivePass) {
	s.mu.Lock()
	if s.pass != p || s.closed {
		s.mu.Unlock()
		return
	}
	s.pass = nil
	doc, gen, slow := s.latest, s.gen, p.slow
	s.mu.Unlock()

	res, ok := s.layout(doc, gen, true)
	if !ok {
		logging.Logger().Debug("layout: corrective pass superseded", "taken", gen)
		return
	}

	var warn *Warning
	switch res.Status {
	case metrics.StatusPending:
		// Waiting on a fallback font; layout arranged the next pass.
		s.mu.Lock()
		if slow && s.pass != nil {
			s.pass.slow = true
		}
		s.mu.Unlock()
		return
	case metrics.StatusUnavailable:
		if slow {
			s.mu.Lock()
			warn = s.warnLocked(WarnFontSlow, res.Err)
			s.mu.Unlock()
		}
	}
	s.emit(warn)

	logging.Logger().Info("layout: corrective pass", "generation", res.Generation,
		"status", res.Status.String(), "provisional", res.Provisional, "slow", slow)
	if s.onRelayout != nil {
		s.onRelayout(res)
	}
}

// warnLocked returns the warning to emit, or nil if kind was already reported.
func (s *Session) warnLocked(kind WarningKind, err error) *Warning {
	if s.warned[kind] {
		return nil
	}
	s.warned[kind] = true
	return &Warning{Kind: kind, Err: err}
}

// emit reports w outside the session lock.
func (s *Session) emit(w *Warning) {
	if w == nil {
		return
	}
	logging.Logger().Warn("layout: font warning", "kind", w.Kind.String(), "err", w.Err)
	if s.onWarning != nil {
		s.onWarning(*w)
	}
}

// Pending reports whether a corrective pass is outstanding.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pass != nil
}

// SetFont swaps the primary font, drops all metrics and re-lays out the
// latest document. The provisional result goes to the relayout callback;
// the corrective pass follows once the new font is ready.
func (s *Session) SetFont(f *metrics.Font) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.cancelPassLocked()
	doc, ok := s.latest, s.hasLatest
	s.mu.Unlock()

	s.cache.SetFont(f)
	if !ok {
		return nil
	}
	res := s.Layout(doc)
	if s.onRelayout != nil {
		s.onRelayout(res)
	}
	return nil
}

// Close cancels any outstanding pass. Layout still works after Close but
// no corrective passes are arranged.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.cancelPassLocked()
	return nil
}
