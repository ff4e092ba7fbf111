package solver

import (
	"errors"
	"sort"

	"github.com/Simula-UiB/CRHS/crhs"
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/soc"
)

// Solve drives s toward a solved form under the configured strategy,
// then enumerates the surviving solutions.
//
// The deadline is consulted between primitive steps only; an
// individual step always runs to completion, and each kernel is
// atomic at the equation level, so on ErrCancelled the SOC is a valid
// intermediate state — the original relation intersected with every
// absorption completed so far.
//
// An unsatisfiable SOC is a normal result: Result.Unsat is set and
// the returned error is nil.
func Solve(s *soc.SOC, opts ...Option) (Result, error) {
	cfg := NewConfig(opts...)
	if cfg.Strategy == nil {
		return Result{}, ErrNilStrategy
	}

	var res Result
	for {
		if s.Unsat() {
			res.Unsat = true
			return res, nil
		}
		if cfg.Deadline != nil && cfg.Deadline() {
			res.Partial = true
			return res, ErrCancelled
		}
		step, ok := cfg.Strategy.Step(s)
		if !ok {
			break
		}
		if err := applyStep(s, step, cfg.Budget); err != nil {
			if errors.Is(err, ErrResourceExhausted) {
				res.Partial = true
			}
			return res, err
		}
		res.Steps++
		if cfg.Trace != nil {
			cfg.Trace(step)
		}
	}
	if s.Unsat() {
		res.Unsat = true
		return res, nil
	}

	base := Solution{}
	for v, b := range s.Fixed() {
		base[v] = b
	}
	acc := []Solution{base}
	for _, h := range s.Handles() {
		eq, _ := s.Equation(h)
		sols, trunc := equationSolutions(eq, cfg.SolutionLimit)
		res.Truncated = res.Truncated || trunc
		if len(sols) == 0 {
			res.Unsat = true
			return res, nil
		}
		var crossTrunc bool
		acc, crossTrunc = cross(acc, sols, cfg.SolutionLimit)
		res.Truncated = res.Truncated || crossTrunc
		if len(acc) == 0 {
			res.Unsat = !res.Truncated
			return res, nil
		}
	}
	res.Solutions = acc
	return res, nil
}

// applyStep executes one primitive step against s. The join budget is
// enforced here so a strategy without a lossy fallback surfaces
// ErrResourceExhausted instead of silently ballooning.
func applyStep(s *soc.SOC, step Step, budget int) error {
	switch st := step.(type) {
	case JoinPair:
		if budget > 0 && projectedJoinNodes(s, st.H1, st.H2) > budget {
			return ErrResourceExhausted
		}
		_, err := s.Join(st.H1, st.H2, st.Label)
		return err
	case Absorb:
		return s.Absorb(st.H, st.D)
	case Swap:
		return s.Swap(st.H, st.I)
	case Fix:
		_, err := s.FixVariable(st.V, st.B)
		return err
	case Drop:
		return s.Drop(st.H)
	default:
		return ErrUnknownStep
	}
}

// equationSolutions enumerates the variable assignments satisfying
// eq: each accepting path pins every label to the bit taken at its
// level, and the union over paths of those affine systems' solution
// sets is the equation's relation.
func equationSolutions(eq *crhs.Equation, limit int) ([]Solution, bool) {
	paths, truncated := eq.EnumeratePaths(limit)
	var out []Solution
	for _, p := range paths {
		remaining := limit - len(out)
		if remaining <= 0 {
			truncated = true
			break
		}
		sols, trunc := pathSolutions(eq, p.Bits, remaining)
		truncated = truncated || trunc
		out = append(out, sols...)
	}
	return out, truncated
}

// pathSolutions solves the affine system "label i evaluates to
// bits[i]" for one accepting path. The labels may be linearly
// dependent when the strategy stopped before absorbing everything; a
// path whose bits contradict a dependency contributes nothing.
func pathSolutions(eq *crhs.Equation, bits []byte, limit int) ([]Solution, bool) {
	labels := eq.Labels()
	rr := gf2.RREF(labels)

	for _, dep := range rr.Dependencies {
		if comboParity(dep, bits) != 0 {
			return nil, false
		}
	}

	rhs := make([]byte, len(rr.Rows))
	for i, combo := range rr.Combo {
		rhs[i] = comboParity(combo, bits)
	}

	pivotOf := make(map[gf2.VarID]int, len(rr.Pivots))
	for i, col := range rr.Pivots {
		pivotOf[gf2.VarID(col)] = i
	}

	occurring := map[gf2.VarID]struct{}{}
	for _, l := range labels {
		for _, v := range l.Vars() {
			occurring[v] = struct{}{}
		}
	}
	var free []gf2.VarID
	for v := range occurring {
		if _, isPivot := pivotOf[v]; !isPivot {
			free = append(free, v)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i] < free[j] })

	var out []Solution
	truncated := false
	total := uint64(1)
	if len(free) < 63 {
		total = uint64(1) << uint(len(free))
	}
	for c := uint64(0); ; c++ {
		if len(free) < 63 && c >= total {
			break
		}
		if len(out) >= limit {
			truncated = true
			break
		}
		sol := Solution{}
		for k, v := range free {
			sol[v] = byte((c >> uint(k)) & 1)
		}
		for i, row := range rr.Rows {
			val := rhs[i]
			for _, v := range row.Vars() {
				if v == gf2.VarID(rr.Pivots[i]) {
					continue
				}
				val ^= sol[v]
			}
			sol[gf2.VarID(rr.Pivots[i])] = val
		}
		out = append(out, sol)
	}
	return out, truncated
}

// comboParity evaluates the XOR of bits[j] over the rows j named by
// combo (a form over row indices, as RREF returns).
func comboParity(combo gf2.Form, bits []byte) byte {
	var parity byte
	for _, j := range combo.Vars() {
		parity ^= bits[int(j)]
	}
	return parity
}

// cross merges two solution sets into their product, capped at
// limit. A fully solved SOC has variable-disjoint equations, but a
// best-effort stop can leave overlap; pairs that disagree on a shared
// variable are no joint solution and are skipped.
func cross(a, b []Solution, limit int) ([]Solution, bool) {
	out := make([]Solution, 0, len(a)*len(b))
	truncated := false
	for _, sa := range a {
		for _, sb := range b {
			if len(out) >= limit {
				truncated = true
				return out, truncated
			}
			merged, consistent := merge(sa, sb)
			if !consistent {
				continue
			}
			out = append(out, merged)
		}
	}
	return out, truncated
}

// merge combines two partial assignments, failing on any variable
// they value differently.
func merge(a, b Solution) (Solution, bool) {
	out := Solution{}
	for v, bit := range a {
		out[v] = bit
	}
	for v, bit := range b {
		if prev, ok := out[v]; ok && prev != bit {
			return nil, false
		}
		out[v] = bit
	}
	return out, true
}
