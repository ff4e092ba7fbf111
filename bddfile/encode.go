package bddfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/Simula-UiB/CRHS/crhs"
	"github.com/Simula-UiB/CRHS/level"
	"github.com/Simula-UiB/CRHS/soc"
)

// Encode writes s in the .bdd format, equations in ascending handle
// order, node ids assigned per level in live-index order.
func Encode(w io.Writer, s *soc.SOC) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", s.VarWidth())
	fmt.Fprintf(&b, "%d\n", s.Len())
	for _, h := range s.Handles() {
		eq, _ := s.Equation(h)
		encodeEquation(&b, uint64(h), eq)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func encodeEquation(b *strings.Builder, id uint64, eq *crhs.Equation) {
	n := eq.LevelCount()
	// level_count includes the explicit sink level.
	fmt.Fprintf(b, "%d %d\n", id, n+1)

	// File ids are 1-based and per level, in live-index order.
	ids := make([]map[level.NodeIndex]int, n)
	for i := 0; i < n; i++ {
		ids[i] = make(map[level.NodeIndex]int)
		for k, idx := range eq.Level(i).Nodes() {
			ids[i][idx] = k + 1
		}
	}

	refID := func(i int, ref level.NodeRef) int {
		switch ref.Kind {
		case level.ToSink:
			return 1 // the sink level's single node
		case level.ToNext:
			return ids[i+1][ref.Target]
		default:
			return 0
		}
	}

	for i := 0; i < n; i++ {
		lv := eq.Level(i)
		b.WriteString(lv.Label().String())
		b.WriteByte(':')
		for k, idx := range lv.Nodes() {
			if k > 0 {
				b.WriteByte(';')
			}
			node, _ := lv.Node(idx)
			fmt.Fprintf(b, "(%d;%d,%d)", ids[i][idx], refID(i, node.Edge0), refID(i, node.Edge1))
		}
		b.WriteByte('|')
	}
	b.WriteString(":(1;0,0)|\n")
	b.WriteString("---\n")
}
