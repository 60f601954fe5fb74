package layout

import (
	"time"

	"github.com/gogpu/notation/decoration"
)

// Scheduler runs corrective passes. Schedule must not block; it is called
// from a background goroutine.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(fn func()) { f(fn) }

// GoScheduler runs each pass on a new goroutine.
var GoScheduler Scheduler = SchedulerFunc(func(fn func()) { go fn() })

// Config is the vertical and horizontal line geometry.
type Config struct {
	// LeftMargin is the x of the first cell.
	LeftMargin float64

	// Ascent and Descent are the cell extent above and below the baseline,
	// in em.
	Ascent  float64
	Descent float64

	// OverlineRoom is the space above the cell top reserved for overlines.
	OverlineRoom float64

	// LineGap separates the bottom of one line's decorations from the next line.
	LineGap float64

	// CellSpacing is added after every cell's advance.
	CellSpacing float64
}

// DefaultConfig returns the standard line geometry.
func DefaultConfig() Config {
	return Config{
		LeftMargin:   8,
		Ascent:       0.8,
		Descent:      0.25,
		OverlineRoom: 4,
		LineGap:      6,
	}
}

// WarningKind classifies session warnings.
type WarningKind int

const (
	// WarnFontUnavailable means no font could be loaded; layout stays provisional.
	WarnFontUnavailable WarningKind = iota
	// WarnFontSlow means the font was still loading at the deadline and
	// then failed to load. A slow font that loads is never reported.
	WarnFontSlow
)

func (k WarningKind) String() string {
	if k == WarnFontSlow {
		return "font-slow"
	}
	return "font-unavailable"
}

// Warning is reported at most once per kind and session.
type Warning struct {
	Kind WarningKind
	Err  error
}

// Option configures a Session.
type Option func(*Session)

// WithScheduler sets where corrective passes run. The default is GoScheduler.
func WithScheduler(s Scheduler) Option {
	return func(ss *Session) {
		if s != nil {
			ss.sched = s
		}
	}
}

// WithRelayout sets the callback receiving corrective pass results.
func WithRelayout(fn func(Result)) Option {
	return func(s *Session) { s.onRelayout = fn }
}

// WithFontDeadline sets how long a font may load before it counts as slow.
// A slow font is reported with WarnFontSlow only if its load then fails.
// Zero disables the notice.
func WithFontDeadline(d time.Duration) Option {
	return func(s *Session) { s.deadline = d }
}

// WithWarnings sets the callback receiving warnings.
func WithWarnings(fn func(Warning)) Option {
	return func(s *Session) { s.onWarning = fn }
}

// WithConfig sets the line geometry.
func WithConfig(cfg Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithPlacer sets the decoration placer.
func WithPlacer(p *decoration.Placer) Option {
	return func(s *Session) {
		if p != nil {
			s.placer = p
		}
	}
}
