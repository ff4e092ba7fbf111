package producer

import (
	"errors"
	"sort"

	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/soc"
)

// Sentinel errors for malformed producer input; fatal at this
// boundary, never raised from the core algorithms.
var (
	// ErrNoBits indicates a relation with no input and no output bits.
	ErrNoBits = errors.New("producer: relation has no bits")

	// ErrNoOutputs indicates a relation with no output bits; a truth
	// table that constrains nothing has no CRHS lifting.
	ErrNoOutputs = errors.New("producer: relation has no output bits")

	// ErrTooManyOutputs indicates more output bits than a table row byte holds.
	ErrTooManyOutputs = errors.New("producer: more than 8 output bits in one relation")

	// ErrBadTableSize indicates len(Table) != 2^len(InputVars).
	ErrBadTableSize = errors.New("producer: table size does not match input width")

	// ErrBadPresentSize indicates a Present mask whose length differs from the table's.
	ErrBadPresentSize = errors.New("producer: present mask size does not match table")

	// ErrTableValueRange indicates a table row with bits beyond the output width.
	ErrTableValueRange = errors.New("producer: table value exceeds output width")

	// ErrVarOutOfRange indicates a variable id outside the universe.
	ErrVarOutOfRange = errors.New("producer: variable outside the universe")

	// ErrDuplicateVar indicates the same variable used twice in one relation.
	ErrDuplicateVar = errors.New("producer: duplicate variable in relation")
)

// Relation is one truth table over a small number of input and output
// bits, together with the variables those bits refer to. Row r of
// Table (indexed by the input bits, InputVars[0] least significant)
// packs the output bits, OutputVars[0] in bit 0.
//
// Present, when non-nil, marks which rows the relation admits at all;
// a path selecting an absent row has no completion. A nil Present
// admits every row.
type Relation struct {
	InputVars  []gf2.VarID
	OutputVars []gf2.VarID
	Table      []byte
	Present    []bool
}

// SBox builds the relation "out = table[in]" for a bijective or
// non-bijective lookup table, the shape every SPN round reduces to.
func SBox(table []byte, in, out []gf2.VarID) Relation {
	return Relation{InputVars: in, OutputVars: out, Table: table}
}

// XOR builds the relation "c = x1 + x2 + ... + xn" over GF(2). Linear
// layers that level labels cannot carry directly (because each
// label names one variable) are reified through these.
func XOR(c gf2.VarID, xs ...gf2.VarID) Relation {
	table := make([]byte, 1<<len(xs))
	for r := range table {
		var parity byte
		for j := range xs {
			parity ^= byte(r>>j) & 1
		}
		table[r] = parity
	}
	return Relation{InputVars: xs, OutputVars: []gf2.VarID{c}, Table: table}
}

// validate checks the MalformedInput conditions against universe width.
func (rel Relation) validate(width int) error {
	k, m := len(rel.InputVars), len(rel.OutputVars)
	if k == 0 && m == 0 {
		return ErrNoBits
	}
	if m == 0 {
		return ErrNoOutputs
	}
	if m > 8 {
		return ErrTooManyOutputs
	}
	if len(rel.Table) != 1<<k {
		return ErrBadTableSize
	}
	if rel.Present != nil && len(rel.Present) != len(rel.Table) {
		return ErrBadPresentSize
	}
	for _, row := range rel.Table {
		if m < 8 && row >= 1<<m {
			return ErrTableValueRange
		}
	}
	seen := make(map[gf2.VarID]struct{}, k+m)
	for _, vars := range [][]gf2.VarID{rel.InputVars, rel.OutputVars} {
		for _, v := range vars {
			if int(v) < 0 || int(v) >= width {
				return ErrVarOutOfRange
			}
			if _, dup := seen[v]; dup {
				return ErrDuplicateVar
			}
			seen[v] = struct{}{}
		}
	}
	return nil
}

// RoundProducer is the capability set a cipher or sponge exposes to
// the core: the size of its variable universe and, per round, the
// truth-table relations encoding that round.
type RoundProducer interface {
	VariableCount() int
	Rounds() int
	RoundRelations(round int) []Relation
}

// Fixings maps variables to known bit values. An unknown bit is
// absent; no sentinel value exists at this layer (the CLI's `X`
// syntax is a presentation concern).
type Fixings map[gf2.VarID]byte

// Apply fixes every entry into s, in ascending variable order for
// determinism. A variable occurring in no equation is still recorded
// as fixed, so it surfaces in solve results.
func (f Fixings) Apply(s *soc.SOC) error {
	vars := make([]gf2.VarID, 0, len(f))
	for v := range f {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	for _, v := range vars {
		if _, err := s.FixVariable(v, f[v]); err != nil {
			return err
		}
	}
	return nil
}

// Merge returns a new Fixings combining f and g; g wins on overlap.
func (f Fixings) Merge(g Fixings) Fixings {
	out := make(Fixings, len(f)+len(g))
	for v, b := range f {
		out[v] = b
	}
	for v, b := range g {
		out[v] = b
	}
	return out
}
