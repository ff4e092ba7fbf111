package producer

import (
	"github.com/Simula-UiB/CRHS/crhs"
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/level"
	"github.com/Simula-UiB/CRHS/soc"
)

// Lift turns one truth-table relation into one CRHS equation of depth
// len(InputVars) + len(OutputVars) over the universe [0, width).
//
// The top len(InputVars) levels are row selectors, one per input bit,
// each labeled by that input variable alone; the bit taken walks the
// table row apart. The remaining levels, one per output bit, accept
// only the selected row's recorded output value — the "one label per
// output bit" shape. Input levels are reified rather than
// discarded because Join glues equations on a level both label the
// same way: a round's output equation and the next round's input
// equation meet exactly on these single-variable levels.
//
// Maximal sharing falls out of level.InsertNode: identical table
// suffixes collapse to one subgraph, so a linear relation lifts to a
// graph linear in its bit count, not in its row count.
func Lift(width int, rel Relation) (*crhs.Equation, error) {
	if err := rel.validate(width); err != nil {
		return nil, err
	}
	k, m := len(rel.InputVars), len(rel.OutputVars)

	levels := make([]*level.Level, k+m)
	for j, v := range rel.InputVars {
		lv, err := level.New(j, gf2.FormFromVars(width, v))
		if err != nil {
			return nil, err
		}
		levels[j] = lv
	}
	for j, v := range rel.OutputVars {
		lv, err := level.New(k+j, gf2.FormFromVars(width, v))
		if err != nil {
			return nil, err
		}
		levels[k+j] = lv
	}

	// Output chain: node on output level j for value out depends only
	// on bits j.. of out, so memoisation is by the shifted value.
	outMemo := make([]map[byte]level.NodeIndex, m)
	for j := range outMemo {
		outMemo[j] = make(map[byte]level.NodeIndex)
	}
	var buildOutput func(j int, out byte) (level.NodeIndex, error)
	buildOutput = func(j int, out byte) (level.NodeIndex, error) {
		key := out >> uint(j)
		if idx, ok := outMemo[j][key]; ok {
			return idx, nil
		}
		terminal := j == m-1
		next := level.SinkRef()
		if !terminal {
			child, err := buildOutput(j+1, out)
			if err != nil {
				return 0, err
			}
			next = level.ToNextRef(child)
		}
		e0, e1 := next, level.DanglingRef()
		if (out>>uint(j))&1 == 1 {
			e0, e1 = level.DanglingRef(), next
		}
		idx, err := levels[k+j].InsertNode(e0, e1, terminal)
		if err != nil {
			return 0, err
		}
		outMemo[j][key] = idx
		return idx, nil
	}

	rowRef := func(row int) (level.NodeRef, error) {
		if rel.Present != nil && !rel.Present[row] {
			return level.DanglingRef(), nil
		}
		idx, err := buildOutput(0, rel.Table[row])
		if err != nil {
			return level.NodeRef{}, err
		}
		return level.ToNextRef(idx), nil
	}

	// Input selector tree, built bottom-up over row prefixes;
	// InsertNode's sharing merges subtrees with identical completions.
	var buildInput func(j, prefix int) (level.NodeRef, error)
	buildInput = func(j, prefix int) (level.NodeRef, error) {
		childFor := func(bit int) (level.NodeRef, error) {
			next := prefix | bit<<uint(j)
			if j == k-1 {
				return rowRef(next)
			}
			return buildInput(j+1, next)
		}
		e0, err := childFor(0)
		if err != nil {
			return level.NodeRef{}, err
		}
		e1, err := childFor(1)
		if err != nil {
			return level.NodeRef{}, err
		}
		if e0.Kind == level.Dangling && e1.Kind == level.Dangling {
			// Whole subtree absent from the table: the edge into it
			// dangles instead of materialising a dead node.
			return level.DanglingRef(), nil
		}
		idx, err := levels[j].InsertNode(e0, e1, false)
		if err != nil {
			return level.NodeRef{}, err
		}
		return level.ToNextRef(idx), nil
	}

	var source level.NodeRef
	var err error
	if k == 0 {
		source, err = rowRef(0)
	} else {
		source, err = buildInput(0, 0)
	}
	if err != nil {
		return nil, err
	}
	if source.Kind == level.Dangling {
		return crhs.NewUnsatEquation(width), nil
	}
	return crhs.NewEquation(width, levels, source)
}

// BuildSOC lifts every relation of every round of p into a fresh SOC
// over p's variable universe.
func BuildSOC(p RoundProducer) (*soc.SOC, error) {
	s := soc.New(p.VariableCount())
	for round := 0; round < p.Rounds(); round++ {
		for _, rel := range p.RoundRelations(round) {
			eq, err := Lift(p.VariableCount(), rel)
			if err != nil {
				return nil, err
			}
			if _, err := s.Insert(eq); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}
