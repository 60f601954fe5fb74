package glyph

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxDimensions is the largest number of index dimensions a category may declare.
const MaxDimensions = 4

// Dimension is one axis of a category's code point matrix.
type Dimension struct {
	// Name is used in error messages and the registry dump.
	Name string

	// Size is the number of valid indices.
	Size int

	// Slots optionally relocates index i to block Slots[i]. Entries must be
	// distinct and lie in [0, Blocks). Nil means index i occupies block i.
	Slots []int

	// Blocks is the number of blocks the dimension reserves in the range.
	// Blocks not named by Slots are gaps. Zero means Size.
	Blocks int
}

// blocks returns the number of blocks the dimension spans.
func (d Dimension) blocks() int {
	if d.Blocks == 0 {
		return d.Size
	}
	return d.Blocks
}

// slot returns the block occupied by index i.
func (d Dimension) slot(i int) int {
	if d.Slots == nil {
		return i
	}
	return d.Slots[i]
}

// index returns the index occupying block s.
func (d Dimension) index(s int) (int, bool) {
	if d.Slots == nil {
		return s, s >= 0 && s < d.Size
	}
	for i, v := range d.Slots {
		if v == s {
			return i, true
		}
	}
	return 0, false
}

// Category is a contiguous code point range indexed row-major by its
// dimensions, most significant first.
//
// Category is immutable after construction and safe for concurrent use.
type Category struct {
	name    string
	base    rune
	dims    []Dimension
	strides []int
	span    int
	count   int
}

// NewCategory validates the dimensions and returns the category.
func NewCategory(name string, base rune, dims ...Dimension) (*Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidCategory)
	}
	if len(dims) == 0 || len(dims) > MaxDimensions {
		return nil, fmt.Errorf("%w: %q has %d dimensions, want 1..%d",
			ErrInvalidCategory, name, len(dims), MaxDimensions)
	}

	c := &Category{
		name:    name,
		base:    base,
		dims:    make([]Dimension, len(dims)),
		strides: make([]int, len(dims)),
	}
	for k, d := range dims {
		if d.Size <= 0 {
			return nil, fmt.Errorf("%w: %q dimension %d has size %d",
				ErrInvalidCategory, name, k, d.Size)
		}
		if d.Blocks != 0 && d.Blocks < d.Size {
			return nil, fmt.Errorf("%w: %q dimension %s has %d blocks for %d indices",
				ErrInvalidCategory, name, d.Name, d.Blocks, d.Size)
		}
		if d.Slots != nil {
			if err := checkSlots(d.Slots, d.Size, d.blocks()); err != nil {
				return nil, fmt.Errorf("%w: %q dimension %s: %v", ErrInvalidCategory, name, d.Name, err)
			}
			d.Slots = append([]int(nil), d.Slots...)
		} else if d.blocks() != d.Size {
			return nil, fmt.Errorf("%w: %q dimension %s has gaps but no slot table",
				ErrInvalidCategory, name, d.Name)
		}
		c.dims[k] = d
	}

	stride, count := 1, 1
	for k := len(c.dims) - 1; k >= 0; k-- {
		c.strides[k] = stride
		stride *= c.dims[k].blocks()
		count *= c.dims[k].Size
	}
	c.span, c.count = stride, count

	if base < 0 || int64(base)+int64(c.span)-1 > unicode.MaxRune {
		return nil, fmt.Errorf("%w: %q range U+%04X+%d exceeds Unicode",
			ErrInvalidCategory, name, base, c.span)
	}
	return c, nil
}

// checkSlots verifies that slots maps size indices to distinct blocks
// below blocks.
func checkSlots(slots []int, size, blocks int) error {
	if len(slots) != size {
		return fmt.Errorf("slot table has %d entries, want %d", len(slots), size)
	}
	seen := make([]bool, blocks)
	for i, s := range slots {
		if s < 0 || s >= blocks {
			return fmt.Errorf("slot %d of index %d outside [0,%d)", s, i, blocks)
		}
		if seen[s] {
			return fmt.Errorf("slot %d used twice", s)
		}
		seen[s] = true
	}
	return nil
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// Base returns the first code point of the category.
func (c *Category) Base() rune { return c.base }

// Span returns the length of the category's code point range, the product
// of the dimension block counts. It includes gaps.
func (c *Category) Span() int { return c.span }

// Count returns the number of valid descriptors, the product of the
// dimension sizes.
func (c *Category) Count() int { return c.count }

// Last returns the last code point of the category.
func (c *Category) Last() rune { return c.base + rune(c.span) - 1 }

// Contains reports whether cp lies within the category's range.
func (c *Category) Contains(cp rune) bool {
	return cp >= c.base && cp <= c.Last()
}

// Dimensions returns a copy of the category's dimensions.
func (c *Category) Dimensions() []Dimension {
	out := make([]Dimension, len(c.dims))
	for k, d := range c.dims {
		d.Slots = append([]int(nil), d.Slots...)
		if len(d.Slots) == 0 {
			d.Slots = nil
		}
		out[k] = d
	}
	return out
}

// Stride returns the code point distance between consecutive indices of dimension k.
func (c *Category) Stride(k int) int { return c.strides[k] }

// Descriptor builds a validated descriptor. It takes exactly one index per dimension.
func (c *Category) Descriptor(indices ...int) (Descriptor, error) {
	if len(indices) != len(c.dims) {
		return Descriptor{}, fmt.Errorf("%w: category %q takes %d indices, got %d",
			ErrInvalidDescriptor, c.name, len(c.dims), len(indices))
	}
	d := Descriptor{Category: c}
	copy(d.Indices[:], indices)
	if err := c.validate(d); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

func (c *Category) validate(d Descriptor) error {
	if d.Category != c {
		return fmt.Errorf("%w: descriptor category is not %q", ErrInvalidDescriptor, c.name)
	}
	for k := 0; k < MaxDimensions; k++ {
		i := d.Indices[k]
		if k >= len(c.dims) {
			if i != 0 {
				return &OutOfRangeError{Category: c.name, Dimension: fmt.Sprintf("unused#%d", k), Index: i, Size: 0}
			}
			continue
		}
		if i < 0 || i >= c.dims[k].Size {
			return &OutOfRangeError{Category: c.name, Dimension: c.dims[k].Name, Index: i, Size: c.dims[k].Size}
		}
	}
	return nil
}

// Allocate maps a descriptor of this category to its code point.
func (c *Category) Allocate(d Descriptor) (rune, error) {
	if err := c.validate(d); err != nil {
		return 0, err
	}
	offset := 0
	for k, dim := range c.dims {
		offset += dim.slot(d.Indices[k]) * c.strides[k]
	}
	return c.base + rune(offset), nil
}

// Decode is the inverse of Allocate.
func (c *Category) Decode(cp rune) (Descriptor, error) {
	if !c.Contains(cp) {
		return Descriptor{}, &UnknownCodepointError{Codepoint: cp}
	}
	rem := int(cp - c.base)
	d := Descriptor{Category: c}
	for k, dim := range c.dims {
		s := rem / c.strides[k]
		rem %= c.strides[k]
		i, ok := dim.index(s)
		if !ok {
			return Descriptor{}, &UnknownCodepointError{
				Codepoint: cp,
				Reason:    fmt.Sprintf("block %d of %s not in slot table of %q", s, dim.Name, c.name),
			}
		}
		d.Indices[k] = i
	}
	return d, nil
}

// String formats the category as used by the registry dump.
func (c *Category) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s base=U+%04X span=%d dims=[", c.name, c.base, c.span)
	for k, d := range c.dims {
		if k > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%d", d.Name, d.Size)
		if d.Slots != nil {
			fmt.Fprintf(&sb, "@%v", d.Slots)
		}
		if d.blocks() != d.Size {
			fmt.Fprintf(&sb, "/%d", d.blocks())
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// Descriptor is the logical (category, indices) tuple a code point represents.
// Indices beyond the category's dimension count are zero.
type Descriptor struct {
	Category *Category
	Indices  [MaxDimensions]int
}

// Index returns the index of dimension k.
func (d Descriptor) Index(k int) int { return d.Indices[k] }

// Valid reports whether the descriptor passes its category's bounds check.
func (d Descriptor) Valid() bool {
	return d.Category != nil && d.Category.validate(d) == nil
}

func (d Descriptor) String() string {
	if d.Category == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s%v", d.Category.name, d.Indices[:len(d.Category.dims)])
}
