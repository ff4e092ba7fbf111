package gf2

import "strconv"

// VarID names one variable in the shared universe [0, V).
type VarID int

const wordBits = 64

// Form is a linear combination of variables over GF(2): the set of
// variable ids whose XOR it names. Bit i set means variable i
// participates. The zero Form (no bits set) is the additive identity.
//
// Form is a value-ish type backed by a words slice; callers that need
// an independent copy must call Clone explicitly — Add and Reduce
// always allocate a fresh result and never mutate their operands.
type Form struct {
	width int      // number of variables this form is defined over (V)
	words []uint64 // ceil(width/64) words, bit i lives in words[i/64] bit i%64
}

// NewForm returns the zero Form over width variables.
//
// Complexity: O(width).
func NewForm(width int) Form {
	return Form{width: width, words: make([]uint64, wordCount(width))}
}

func wordCount(width int) int {
	return (width + wordBits - 1) / wordBits
}

// FormFromVars returns the Form naming exactly the given variables.
//
// Complexity: O(width + len(vars)).
func FormFromVars(width int, vars ...VarID) Form {
	f := NewForm(width)
	for _, v := range vars {
		f.Set(v)
	}
	return f
}

// Width reports the number of variables this form is defined over.
func (f Form) Width() int { return f.width }

// Set turns variable v on in-place.
func (f Form) Set(v VarID) {
	f.words[int(v)/wordBits] |= 1 << (uint(v) % wordBits)
}

// Clear turns variable v off in-place.
func (f Form) Clear(v VarID) {
	f.words[int(v)/wordBits] &^= 1 << (uint(v) % wordBits)
}

// Bit reports whether variable v participates in this form.
func (f Form) Bit(v VarID) byte {
	if f.words[int(v)/wordBits]&(1<<(uint(v)%wordBits)) != 0 {
		return 1
	}
	return 0
}

// IsZero reports whether this is the zero form (no variables).
//
// Complexity: O(width/64).
func (f Form) IsZero() bool {
	for _, w := range f.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Weight returns the number of variables participating in this form.
func (f Form) Weight() int {
	n := 0
	for _, w := range f.words {
		for w != 0 {
			w &= w - 1
			n++
		}
	}
	return n
}

// Clone returns an independent copy of f.
func (f Form) Clone() Form {
	out := Form{width: f.width, words: make([]uint64, len(f.words))}
	copy(out.words, f.words)
	return out
}

// Equal reports whether f and g name the same variables. Both must
// share the same width; forms over different universes are never
// equal, even if their set bits happen to coincide.
func (f Form) Equal(g Form) bool {
	if f.width != g.width {
		return false
	}
	for i := range f.words {
		if f.words[i] != g.words[i] {
			return false
		}
	}
	return true
}

// Add returns the XOR (a + b in GF(2)) of a and b as a new Form.
// a and b must share the same width.
//
// Complexity: O(width/64).
func Add(a, b Form) Form {
	out := Form{width: a.width, words: make([]uint64, len(a.words))}
	for i := range out.words {
		out.words[i] = a.words[i] ^ b.words[i]
	}
	return out
}

// Vars returns the sorted variable ids participating in f.
//
// Complexity: O(width).
func (f Form) Vars() []VarID {
	out := make([]VarID, 0, f.Weight())
	for i := 0; i < f.width; i++ {
		if f.Bit(VarID(i)) == 1 {
			out = append(out, VarID(i))
		}
	}
	return out
}

// String renders f using the .bdd grammar: "v1+v2+...+vk" in
// ascending variable order, or the empty string for the zero form.
func (f Form) String() string {
	vars := f.Vars()
	if len(vars) == 0 {
		return ""
	}
	var b []byte
	for i, v := range vars {
		if i > 0 {
			b = append(b, '+')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(b)
}
