package input

import (
	"fmt"

	"github.com/gogpu/notation/glyph"
	"github.com/gogpu/notation/internal/logging"
)

// State is the resolver state implied by the previous cell.
type State int

const (
	StateIdle State = iota
	StatePendingBase
	StatePendingBarlineHead
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingBase:
		return "pending-base"
	case StatePendingBarlineHead:
		return "pending-barline-head"
	}
	return "unknown"
}

// StateOf derives the resolver state from the previous cell.
func StateOf(prev *Cell) State {
	if prev == nil || !prev.open {
		return StateIdle
	}
	switch prev.Role {
	case RolePitch, RoleAccidentalCompound:
		return StatePendingBase
	case RoleBarline:
		return StatePendingBarlineHead
	case RoleText:
		if prev.Codepoint() == ':' {
			return StatePendingBarlineHead
		}
	}
	return StateIdle
}

// Action tells the caller how to apply a CellUpdate.
type Action int

const (
	// ActionAppend adds Cell after the previous cell, closing it.
	ActionAppend Action = iota
	// ActionReplace replaces the previous cell with Cell.
	ActionReplace
	// ActionReject leaves the line unchanged; Err says why.
	ActionReject
)

func (a Action) String() string {
	switch a {
	case ActionAppend:
		return "append"
	case ActionReplace:
		return "replace"
	case ActionReject:
		return "reject"
	}
	return "unknown"
}

// CellUpdate is the result of resolving one keystroke.
type CellUpdate struct {
	Action Action
	Cell   *Cell
	Err    error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithKeymap replaces the default key bindings.
func WithKeymap(k Keymap) Option {
	return func(r *Resolver) {
		if k != nil {
			r.keymap = k.Clone()
		}
	}
}

// Resolver fuses keystrokes into cells for one notation system. It holds no
// per-line state; the previous cell is passed to every call.
//
// Resolver is safe for concurrent use.
type Resolver struct {
	reg    *glyph.Registry
	system *glyph.NotationSystem
	keymap Keymap
}

// NewResolver creates a resolver for the named notation system.
func NewResolver(reg *glyph.Registry, system string, opts ...Option) (*Resolver, error) {
	if reg == nil {
		return nil, fmt.Errorf("input: nil registry")
	}
	sys, err := reg.System(system)
	if err != nil {
		return nil, err
	}
	r := &Resolver{reg: reg, system: sys, keymap: DefaultKeymap()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// System returns the resolver's notation system.
func (r *Resolver) System() *glyph.NotationSystem { return r.system }

// Registry returns the registry code points are allocated from.
func (r *Resolver) Registry() *glyph.Registry { return r.reg }

// Resolve computes the effect of key given the previous cell. prev is not
// modified; prev may be nil at the start of a line.
func (r *Resolver) Resolve(prev *Cell, key rune) CellUpdate {
	key = Fold(key)
	tok := r.keymap[key]

	switch StateOf(prev) {
	case StatePendingBase:
		if u, ok := r.modifyPitch(prev, key, tok); ok {
			return u
		}
	case StatePendingBarlineHead:
		if u, ok := r.fuseBarline(prev, key, tok); ok {
			return u
		}
	}
	return r.fresh(key, tok)
}

func (r *Resolver) modifyPitch(prev *Cell, key rune, tok Token) (CellUpdate, bool) {
	p := prev.pitch
	role := prev.Role
	switch tok.Kind {
	case TokenAccidental:
		p.Accidental = tok.Accidental
		role = RoleAccidentalCompound
	case TokenHalfFlat:
		if p.Accidental != glyph.Flat {
			return CellUpdate{}, false
		}
		p.Accidental = glyph.HalfFlat
	case TokenOctaveUp:
		p.Octave++
	case TokenOctaveDown:
		p.Octave--
	default:
		return CellUpdate{}, false
	}

	cp, err := r.allocatePitch(p)
	if err != nil {
		logging.Logger().Debug("input: modifier rejected",
			"key", string(key), "pitch", prev.pitch.String(), "err", err)
		return CellUpdate{Action: ActionReject, Err: err}, true
	}
	c := prev.derive(cp, role, key)
	c.pitch = p
	return CellUpdate{Action: ActionReplace, Cell: c}, true
}

func (r *Resolver) fuseBarline(prev *Cell, key rune, tok Token) (CellUpdate, bool) {
	var kind glyph.BarlineKind
	switch {
	case prev.Role == RoleBarline && tok.Kind == TokenBarline:
		kind = glyph.BarlineDouble
	case prev.Role == RoleBarline && tok.Kind == TokenColon:
		kind = glyph.BarlineRepeatLeft
	case prev.Role == RoleText && tok.Kind == TokenBarline:
		kind = glyph.BarlineRepeatRight
	default:
		return CellUpdate{}, false
	}
	cp, err := r.reg.Barline(kind)
	if err != nil {
		return CellUpdate{Action: ActionReject, Err: err}, true
	}
	c := prev.derive(cp, RoleBarlineCompound, key)
	c.open = false
	return CellUpdate{Action: ActionReplace, Cell: c}, true
}

// fresh evaluates key as the first keystroke of a new cell.
func (r *Resolver) fresh(key rune, tok Token) CellUpdate {
	c := &Cell{Source: string(key)}
	switch {
	case tok.Kind == TokenBarline:
		cp, err := r.reg.Barline(glyph.BarlineSingle)
		if err != nil {
			return CellUpdate{Action: ActionReject, Err: err}
		}
		c.Codepoints = []rune{cp}
		c.Role = RoleBarline
		c.open = true
	case tok.Kind == TokenColon:
		c.Codepoints = []rune{key}
		c.Role = RoleText
		c.open = true
	case tok.Kind == TokenAnchor:
		c.Codepoints = []rune{key}
		c.Role = RoleDecorationAnchor
	default:
		if _, ok := r.system.CharIndex(key); ok {
			p := glyph.Pitch{Char: key}
			cp, err := r.allocatePitch(p)
			if err != nil {
				return CellUpdate{Action: ActionReject, Err: err}
			}
			c.Codepoints = []rune{cp}
			c.Role = RolePitch
			c.pitch = p
			c.hasPitch = true
			c.open = true
			break
		}
		c.Codepoints = []rune{key}
		c.Role = RoleText
	}
	return CellUpdate{Action: ActionAppend, Cell: c}
}

func (r *Resolver) allocatePitch(p glyph.Pitch) (rune, error) {
	d, err := r.system.Pitch(p)
	if err != nil {
		return 0, err
	}
	return r.reg.Allocate(d)
}
