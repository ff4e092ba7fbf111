package bddfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Simula-UiB/CRHS/crhs"
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/level"
	"github.com/Simula-UiB/CRHS/soc"
)

// Sentinel errors; all MalformedInput-class, fatal at this boundary.
var (
	// ErrSyntax indicates text that does not match the .bdd grammar.
	ErrSyntax = errors.New("bddfile: malformed input")

	// ErrBadNodeRef indicates an edge naming a node id absent from the
	// next level.
	ErrBadNodeRef = errors.New("bddfile: edge references unknown node")
)

type nodeRec struct {
	id, e0, e1 int
}

type levelRec struct {
	label gf2.Form
	nodes []nodeRec
}

// Decode parses a .bdd document into a fresh SOC. Equation ids in the
// file are not preserved: handles are reassigned on insert, which is
// the only identity the SOC guarantees anyway.
func Decode(r io.Reader) (*soc.SOC, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<26)

	width, err := intLine(sc, "variable count")
	if err != nil {
		return nil, err
	}
	count, err := intLine(sc, "equation count")
	if err != nil {
		return nil, err
	}

	s := soc.New(width)
	for e := 0; e < count; e++ {
		if err := decodeEquation(sc, s, width); err != nil {
			return nil, err
		}
	}
	return s, sc.Err()
}

func decodeEquation(sc *bufio.Scanner, s *soc.SOC, width int) error {
	header, err := line(sc, "equation header")
	if err != nil {
		return err
	}
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return fmt.Errorf("%w: equation header %q", ErrSyntax, header)
	}
	levelCount, err := strconv.Atoi(fields[1])
	if err != nil || levelCount < 2 {
		return fmt.Errorf("%w: level count %q", ErrSyntax, fields[1])
	}

	body, err := line(sc, "equation body")
	if err != nil {
		return err
	}
	chunks := strings.Split(body, "|")
	if len(chunks) != levelCount+1 || chunks[levelCount] != "" {
		return fmt.Errorf("%w: expected %d levels", ErrSyntax, levelCount)
	}

	recs := make([]levelRec, levelCount)
	for i, chunk := range chunks[:levelCount] {
		rec, err := parseLevel(chunk, width)
		if err != nil {
			return err
		}
		recs[i] = rec
	}
	sink := recs[levelCount-1]
	if !sink.label.IsZero() || len(sink.nodes) != 1 ||
		sink.nodes[0] != (nodeRec{id: 1}) {
		return fmt.Errorf("%w: equation must end with the sink level", ErrSyntax)
	}

	terminator, err := line(sc, "equation terminator")
	if err != nil {
		return err
	}
	if terminator != "---" {
		return fmt.Errorf("%w: expected ---, got %q", ErrSyntax, terminator)
	}

	eq, err := buildEquation(recs[:levelCount-1], width)
	if err != nil {
		return err
	}
	_, err = s.Insert(eq)
	return err
}

// buildEquation instantiates the real (non-sink) levels bottom-up so
// every edge target already has a live index when its source level is
// populated.
func buildEquation(recs []levelRec, width int) (*crhs.Equation, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: equation has no levels", ErrSyntax)
	}
	levels := make([]*level.Level, len(recs))
	ids := make([]map[int]level.NodeIndex, len(recs))

	for i := len(recs) - 1; i >= 0; i-- {
		var lv *level.Level
		if recs[i].label.IsZero() {
			// Zero labels are legal only on the sole level of the
			// canonical trivial/unsat equations; level.New would
			// reject them, the dedicated constructor does not.
			lv = level.NewTrivialSink(width)
			lv.SetPosition(i)
		} else {
			var err error
			lv, err = level.New(i, recs[i].label)
			if err != nil {
				return nil, err
			}
		}
		terminal := i == len(recs)-1
		ids[i] = make(map[int]level.NodeIndex, len(recs[i].nodes))
		for _, nr := range recs[i].nodes {
			e0, err := resolveRef(nr.e0, terminal, ids, i)
			if err != nil {
				return nil, err
			}
			e1, err := resolveRef(nr.e1, terminal, ids, i)
			if err != nil {
				return nil, err
			}
			idx, err := lv.InsertNode(e0, e1, terminal)
			if err != nil {
				return nil, err
			}
			ids[i][nr.id] = idx
		}
		levels[i] = lv
	}

	if len(recs[0].nodes) == 0 {
		return nil, fmt.Errorf("%w: first level has no nodes", ErrSyntax)
	}
	source := level.ToNextRef(ids[0][recs[0].nodes[0].id])
	return crhs.NewEquation(width, levels, source)
}

func resolveRef(id int, terminal bool, ids []map[int]level.NodeIndex, i int) (level.NodeRef, error) {
	if id == 0 {
		return level.DanglingRef(), nil
	}
	if terminal {
		if id != 1 {
			return level.NodeRef{}, fmt.Errorf("%w: sink id %d", ErrBadNodeRef, id)
		}
		return level.SinkRef(), nil
	}
	idx, ok := ids[i+1][id]
	if !ok {
		return level.NodeRef{}, fmt.Errorf("%w: id %d on level %d", ErrBadNodeRef, id, i+1)
	}
	return level.ToNextRef(idx), nil
}

func parseLevel(chunk string, width int) (levelRec, error) {
	parts := strings.SplitN(chunk, ":", 2)
	if len(parts) != 2 {
		return levelRec{}, fmt.Errorf("%w: level %q", ErrSyntax, chunk)
	}

	label := gf2.NewForm(width)
	if parts[0] != "" {
		for _, tok := range strings.Split(parts[0], "+") {
			v, err := strconv.Atoi(tok)
			if err != nil || v < 0 || v >= width {
				return levelRec{}, fmt.Errorf("%w: variable %q", ErrSyntax, tok)
			}
			label.Set(gf2.VarID(v))
		}
	}

	rec := levelRec{label: label}
	rhs := parts[1]
	for len(rhs) > 0 {
		if rhs[0] == ';' {
			rhs = rhs[1:]
		}
		end := strings.IndexByte(rhs, ')')
		if len(rhs) == 0 || rhs[0] != '(' || end < 0 {
			return levelRec{}, fmt.Errorf("%w: node record %q", ErrSyntax, rhs)
		}
		nr, err := parseNode(rhs[1:end])
		if err != nil {
			return levelRec{}, err
		}
		rec.nodes = append(rec.nodes, nr)
		rhs = rhs[end+1:]
	}
	return rec, nil
}

func parseNode(body string) (nodeRec, error) {
	parts := strings.SplitN(body, ";", 2)
	if len(parts) != 2 {
		return nodeRec{}, fmt.Errorf("%w: node %q", ErrSyntax, body)
	}
	edges := strings.SplitN(parts[1], ",", 2)
	if len(edges) != 2 {
		return nodeRec{}, fmt.Errorf("%w: node edges %q", ErrSyntax, parts[1])
	}
	id, err1 := strconv.Atoi(parts[0])
	e0, err2 := strconv.Atoi(edges[0])
	e1, err3 := strconv.Atoi(edges[1])
	if err1 != nil || err2 != nil || err3 != nil || id < 1 || e0 < 0 || e1 < 0 {
		return nodeRec{}, fmt.Errorf("%w: node (%s)", ErrSyntax, body)
	}
	return nodeRec{id: id, e0: e0, e1: e1}, nil
}

func line(sc *bufio.Scanner, what string) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: unexpected end of input reading %s", ErrSyntax, what)
	}
	return sc.Text(), nil
}

func intLine(sc *bufio.Scanner, what string) (int, error) {
	text, err := line(sc, what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrSyntax, what, text)
	}
	return n, nil
}
