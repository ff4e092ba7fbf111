package keccaksponge

import (
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/producer"
)

// chiTable is the per-bit chi row: out = b0 + (1 + b1) * b2 over
// GF(2), inputs packed b0 in bit 0.
var chiTable = []byte{0, 1, 0, 1, 1, 0, 0, 1}

// Producer emits one Keccak-p round per RoundRelations call, plus the
// sponge boundary: the first Rate state variables are the absorbed
// message block (the preimage, when searching), the remaining
// Capacity variables are pinned to zero by BaseFixings, and the
// digest is the first Output variables of the final state.
type Producer struct {
	params    Params
	width     int
	relations [][]producer.Relation
	one       gf2.VarID
	message   []gf2.VarID
	capacity  []gf2.VarID
	final     []gf2.VarID
}

// New builds the relation system for params.
func New(params Params) (*Producer, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	p := &Producer{params: params, relations: make([][]producer.Relation, params.Rounds)}
	alloc := func() gf2.VarID {
		v := gf2.VarID(p.width)
		p.width++
		return v
	}

	w := params.LaneBits
	stateBits := 25 * w

	p.one = alloc()
	st := make([]gf2.VarID, stateBits)
	for i := range st {
		st[i] = alloc()
		if i < params.Rate {
			p.message = append(p.message, st[i])
		} else {
			p.capacity = append(p.capacity, st[i])
		}
	}

	for r := 0; r < params.Rounds; r++ {
		var rel []producer.Relation

		// theta: column parities, then the plane XOR.
		c := make([][]gf2.VarID, 5)
		for x := 0; x < 5; x++ {
			c[x] = make([]gf2.VarID, w)
			for z := 0; z < w; z++ {
				c[x][z] = alloc()
				rel = append(rel, producer.XOR(c[x][z],
					st[params.bitIndex(x, 0, z)],
					st[params.bitIndex(x, 1, z)],
					st[params.bitIndex(x, 2, z)],
					st[params.bitIndex(x, 3, z)],
					st[params.bitIndex(x, 4, z)]))
			}
		}
		d := make([][]gf2.VarID, 5)
		for x := 0; x < 5; x++ {
			d[x] = make([]gf2.VarID, w)
			for z := 0; z < w; z++ {
				d[x][z] = alloc()
				rel = append(rel, producer.XOR(d[x][z], c[(x+4)%5][z], c[(x+1)%5][(z-1+w)%w]))
			}
		}
		thetaed := make([]gf2.VarID, stateBits)
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				for z := 0; z < w; z++ {
					idx := params.bitIndex(x, y, z)
					thetaed[idx] = alloc()
					rel = append(rel, producer.XOR(thetaed[idx], st[idx], d[x][z]))
				}
			}
		}

		// rho and pi: pure wiring into the chi input plane.
		b := make([]gf2.VarID, stateBits)
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				nx, ny := y, (2*x+3*y)%5
				off := rhoOffsets[x][y] % w
				for z := 0; z < w; z++ {
					b[params.bitIndex(nx, ny, z)] = thetaed[params.bitIndex(x, y, (z-off+w)%w)]
				}
			}
		}

		// chi, and iota folded onto lane (0, 0).
		rc := roundConstants[params.StartRound+r] & params.laneMask()
		next := make([]gf2.VarID, stateBits)
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				for z := 0; z < w; z++ {
					idx := params.bitIndex(x, y, z)
					next[idx] = alloc()
					rel = append(rel, producer.SBox(chiTable,
						[]gf2.VarID{b[idx], b[params.bitIndex((x+1)%5, y, z)], b[params.bitIndex((x+2)%5, y, z)]},
						[]gf2.VarID{next[idx]}))
				}
			}
		}
		for z := 0; z < w; z++ {
			if rc>>uint(z)&1 == 1 {
				idx := params.bitIndex(0, 0, z)
				nv := alloc()
				rel = append(rel, producer.XOR(nv, next[idx], p.one))
				next[idx] = nv
			}
		}

		st = next
		p.relations[r] = rel
	}
	p.final = st
	return p, nil
}

// VariableCount implements producer.RoundProducer.
func (p *Producer) VariableCount() int { return p.width }

// Rounds implements producer.RoundProducer.
func (p *Producer) Rounds() int { return p.params.Rounds }

// RoundRelations implements producer.RoundProducer.
func (p *Producer) RoundRelations(round int) []producer.Relation { return p.relations[round] }

// BaseFixings pins the always-1 constant and zeroes the capacity,
// the sponge's structural fixings; apply before any solve.
func (p *Producer) BaseFixings() producer.Fixings {
	f := make(producer.Fixings, 1+len(p.capacity))
	f[p.one] = 1
	for _, v := range p.capacity {
		f[v] = 0
	}
	return f
}

// FixMessage binds the absorbed block's Rate bits, packed
// least-significant-bit first.
func (p *Producer) FixMessage(block []byte) (producer.Fixings, error) {
	if len(block) != (p.params.Rate+7)/8 {
		return nil, ErrBadBlock
	}
	f := make(producer.Fixings, p.params.Rate)
	for i, v := range p.message {
		f[v] = block[i/8] >> uint(i%8) & 1
	}
	return f, nil
}

// FixDigest binds the Output digest bits to a target, for preimage
// search.
func (p *Producer) FixDigest(digest []byte) producer.Fixings {
	f := make(producer.Fixings, p.params.Output)
	for i := 0; i < p.params.Output; i++ {
		f[p.final[i]] = digest[i/8] >> uint(i%8) & 1
	}
	return f
}

// DigestFromAssignment reassembles the digest bits from a solution.
func (p *Producer) DigestFromAssignment(m map[gf2.VarID]byte) ([]byte, bool) {
	out := make([]byte, (p.params.Output+7)/8)
	for i := 0; i < p.params.Output; i++ {
		bit, ok := m[p.final[i]]
		if !ok {
			return nil, false
		}
		out[i/8] |= bit << uint(i%8)
	}
	return out, true
}

// MessageFromAssignment reassembles the absorbed block from a
// solution.
func (p *Producer) MessageFromAssignment(m map[gf2.VarID]byte) ([]byte, bool) {
	out := make([]byte, (p.params.Rate+7)/8)
	for i, v := range p.message {
		bit, ok := m[v]
		if !ok {
			return nil, false
		}
		out[i/8] |= bit << uint(i%8)
	}
	return out, true
}
