package soc

import (
	"sort"

	"github.com/Simula-UiB/CRHS/crhs"
	"github.com/Simula-UiB/CRHS/gf2"
)

// Handles returns the live equation handles in ascending order, for
// deterministic iteration by strategies and serialisers.
func (s *SOC) Handles() []Handle {
	out := make([]Handle, 0, len(s.eqs))
	for h := range s.eqs {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EquationsWith returns, in ascending handle order, the equations in
// whose labels variable v currently occurs.
func (s *SOC) EquationsWith(v gf2.VarID) []Handle {
	row, ok := s.index[v]
	if !ok {
		return nil
	}
	out := make([]Handle, 0, len(row))
	for h := range row {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Insert takes ownership of eq, assigns it a fresh handle, and
// records its label variables in the inverted index.
func (s *SOC) Insert(eq *crhs.Equation) (Handle, error) {
	if eq == nil {
		return 0, ErrNilEquation
	}
	if eq.VarWidth() != s.varWidth {
		return 0, ErrWidthMismatch
	}
	h := s.next
	s.next++
	s.eqs[h] = eq
	s.addToIndex(h)
	if eq.IsUnsat() {
		s.unsat = true
	}
	return h, nil
}

// Drop retires h, removing its equation and every index entry that
// referred to it.
func (s *SOC) Drop(h Handle) error {
	if _, ok := s.eqs[h]; !ok {
		return ErrUnknownHandle
	}
	s.removeFromIndex(h)
	delete(s.eqs, h)
	return nil
}

// Swap exchanges levels i and i+1 of equation h. The label multiset
// is unchanged, so the index needs no update.
func (s *SOC) Swap(h Handle, i int) error {
	eq, ok := s.eqs[h]
	if !ok {
		return ErrUnknownHandle
	}
	return eq.Swap(i)
}

// Absorb applies the dependency d to equation h (crhs.Equation.Absorb)
// and folds the outcome into the SOC: an equation left without any
// source-to-sink path marks the whole SOC unsat, and an equation
// reduced to the canonical trivial form is dropped.
func (s *SOC) Absorb(h Handle, d gf2.Form) error {
	eq, ok := s.eqs[h]
	if !ok {
		return ErrUnknownHandle
	}
	// Absorption contracts the dependent level away, so h's label
	// variable set can shrink; reindex around the transform.
	s.removeFromIndex(h)
	if err := eq.Absorb(d); err != nil {
		s.addToIndex(h)
		return err
	}
	if eq.IsUnsat() {
		s.unsat = true
		return nil
	}
	if eq.IsTrivial() {
		delete(s.eqs, h)
		return nil
	}
	s.addToIndex(h)
	return nil
}

// Join replaces equations h1 and h2 with one whose relation is the
// conjunction of theirs, glued on a level both label shared.
// Both operand handles are retired; the result receives a
// fresh handle.
func (s *SOC) Join(h1, h2 Handle, shared gf2.Form) (Handle, error) {
	if h1 == h2 {
		return 0, ErrSameHandle
	}
	a, ok := s.eqs[h1]
	if !ok {
		return 0, ErrUnknownHandle
	}
	b, ok := s.eqs[h2]
	if !ok {
		return 0, ErrUnknownHandle
	}
	joined, err := crhs.Join(a, b, shared)
	if err != nil {
		return 0, err
	}
	if err := s.Drop(h1); err != nil {
		return 0, err
	}
	if err := s.Drop(h2); err != nil {
		return 0, err
	}
	return s.Insert(joined)
}

// FixVariable substitutes v := bit into every equation whose labels
// name v, records the fixing, and drops equations the substitution
// reduced to the trivial form. It returns the handles dropped.
// Fixing a variable to the bit it already holds is a no-op; fixing it
// to the other bit returns ErrAlreadyFixed.
func (s *SOC) FixVariable(v gf2.VarID, bit byte) ([]Handle, error) {
	if prev, done := s.fixed[v]; done {
		if prev != bit {
			return nil, ErrAlreadyFixed
		}
		return nil, nil
	}
	s.fixed[v] = bit

	var dropped []Handle
	for _, h := range s.EquationsWith(v) {
		eq := s.eqs[h]
		s.removeFromIndex(h)
		if err := eq.Fix(v, bit); err != nil {
			return dropped, err
		}
		if eq.IsUnsat() {
			s.unsat = true
			delete(s.eqs, h)
			dropped = append(dropped, h)
			continue
		}
		if eq.IsTrivial() {
			delete(s.eqs, h)
			dropped = append(dropped, h)
			continue
		}
		s.addToIndex(h)
	}
	return dropped, nil
}

// FindDependency reports whether the labels of equation h are
// linearly dependent. The returned form is the one to hand to Absorb:
// a non-trivial XOR of h's labels equals the zero form, so the form
// forced to zero is the zero form itself — Absorb re-derives which
// levels participate. Variables fixed earlier have already been
// substituted out of the labels by FixVariable, so a dependency "up
// to fixed variables" surfaces here as a plain internal one.
func (s *SOC) FindDependency(h Handle) (gf2.Form, bool) {
	eq, ok := s.eqs[h]
	if !ok {
		return gf2.Form{}, false
	}
	rr := gf2.RREF(eq.Labels())
	if len(rr.Dependencies) == 0 {
		return gf2.Form{}, false
	}
	return gf2.NewForm(s.varWidth), true
}

// SharedLabelPair finds the first (in ascending handle order) pair of
// distinct equations carrying a level with the same label, the
// precondition for Join. Returns ok == false when no such pair exists
// — the joining phase of a solve is then finished.
func (s *SOC) SharedLabelPair() (h1, h2 Handle, shared gf2.Form, ok bool) {
	handles := s.Handles()
	seen := make(map[string]Handle)
	for _, h := range handles {
		for _, label := range s.eqs[h].Labels() {
			if label.IsZero() {
				continue
			}
			key := label.String()
			if prev, hit := seen[key]; hit && prev != h {
				return prev, h, label, true
			}
			if _, hit := seen[key]; !hit {
				seen[key] = h
			}
		}
	}
	return 0, 0, gf2.Form{}, false
}

// addToIndex records every variable occurring in h's labels.
func (s *SOC) addToIndex(h Handle) {
	eq := s.eqs[h]
	for _, label := range eq.Labels() {
		for _, v := range label.Vars() {
			row, ok := s.index[v]
			if !ok {
				row = make(map[Handle]struct{})
				s.index[v] = row
			}
			row[h] = struct{}{}
		}
	}
}

// removeFromIndex erases every index entry referring to h. The index
// is consistent with the labels, so h's entries live exactly under
// the variables h's labels name; callers must invoke this before
// mutating those labels or retiring the equation.
func (s *SOC) removeFromIndex(h Handle) {
	eq := s.eqs[h]
	for _, label := range eq.Labels() {
		for _, v := range label.Vars() {
			row, ok := s.index[v]
			if !ok {
				continue
			}
			delete(row, h)
			if len(row) == 0 {
				delete(s.index, v)
			}
		}
	}
}
