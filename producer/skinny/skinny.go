// Package skinny describes the SKINNY-64/128 tweakable block cipher
// as round relations for the CRHS core: S-box truth tables per cell,
// XOR relations for constants, tweakey addition and MixColumns, and
// pure variable wiring for ShiftRows and the tweakey permutation.
package skinny

import (
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/producer"
)

// FullRounds is the round count of SKINNY-64/128.
const FullRounds = 36

var sbox4 = [16]byte{0xC, 0x6, 0x9, 0x0, 0x1, 0xA, 0x2, 0xB, 0x3, 0x8, 0x5, 0xD, 0x4, 0xE, 0x7, 0xF}

// permTK is the tweakey cell permutation: cell i of the next tweakey
// state is cell permTK[i] of the current one.
var permTK = [16]int{9, 15, 8, 13, 10, 14, 12, 11, 0, 1, 2, 3, 4, 5, 6, 7}

// cell is the four variables of one 4-bit cell, least significant
// bit first.
type cell [4]gf2.VarID

// Producer emits the round relations of reduced- or full-round
// SKINNY-64/128. The ciphertext variables are the state cells after
// the last round's MixColumns; there is no final whitening.
type Producer struct {
	rounds    int
	width     int
	relations [][]producer.Relation
	one       gf2.VarID
	plaintext [16]cell
	final     [16]cell
	tk1, tk2  [16]cell
}

// New builds the relation system for the given number of rounds.
func New(rounds int) *Producer {
	p := &Producer{rounds: rounds, relations: make([][]producer.Relation, rounds)}
	alloc := func() gf2.VarID {
		v := gf2.VarID(p.width)
		p.width++
		return v
	}
	allocCell := func() cell {
		var c cell
		for b := range c {
			c[b] = alloc()
		}
		return c
	}

	p.one = alloc()
	for i := range p.plaintext {
		p.plaintext[i] = allocCell()
	}
	for i := range p.tk1 {
		p.tk1[i] = allocCell()
	}
	for i := range p.tk2 {
		p.tk2[i] = allocCell()
	}

	state := p.plaintext
	tk1, tk2 := p.tk1, p.tk2
	rc := 0
	for r := 0; r < rounds; r++ {
		var rel []producer.Relation
		rc = nextRC(rc)

		// SubCells.
		var subbed [16]cell
		for i := range state {
			subbed[i] = allocCell()
			rel = append(rel, producer.SBox(sbox4[:], state[i][:], subbed[i][:]))
		}

		// AddConstants: c0 into cell 0, c1 into cell 4, 0x2 into cell 8.
		consts := [16]byte{0: byte(rc & 0xF), 4: byte(rc >> 4 & 0x3), 8: 0x2}
		for i, c := range consts {
			for b := 0; b < 4; b++ {
				if c>>uint(b)&1 == 1 {
					nv := alloc()
					rel = append(rel, producer.XOR(nv, subbed[i][b], p.one))
					subbed[i][b] = nv
				}
			}
		}

		// AddRoundTweakey: rows 0 and 1 absorb TK1 + TK2.
		for i := 0; i < 8; i++ {
			var mixed cell
			for b := 0; b < 4; b++ {
				mixed[b] = alloc()
				rel = append(rel, producer.XOR(mixed[b], subbed[i][b], tk1[i][b], tk2[i][b]))
			}
			subbed[i] = mixed
		}

		// ShiftRows: row r rotates right by r — pure wiring.
		var shifted [16]cell
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				shifted[4*row+col] = subbed[4*row+(col-row+4)%4]
			}
		}

		// MixColumns: row 1 of the output is a plain copy, the rest
		// are column XORs.
		var next [16]cell
		for col := 0; col < 4; col++ {
			s0, s1, s2, s3 := shifted[col], shifted[4+col], shifted[8+col], shifted[12+col]
			next[4+col] = s0
			for b := 0; b < 4; b++ {
				n0 := alloc()
				rel = append(rel, producer.XOR(n0, s0[b], s2[b], s3[b]))
				next[col][b] = n0

				n2 := alloc()
				rel = append(rel, producer.XOR(n2, s1[b], s2[b]))
				next[8+col][b] = n2

				n3 := alloc()
				rel = append(rel, producer.XOR(n3, s0[b], s2[b]))
				next[12+col][b] = n3
			}
		}
		state = next

		// Tweakey schedule: permutation wiring, then the 4-bit LFSR on
		// the top two rows of TK2.
		var ntk1, ntk2 [16]cell
		for i := 0; i < 16; i++ {
			ntk1[i] = tk1[permTK[i]]
			ntk2[i] = tk2[permTK[i]]
		}
		for i := 0; i < 8; i++ {
			old := ntk2[i]
			var lf cell
			fb := alloc()
			rel = append(rel, producer.XOR(fb, old[3], old[2]))
			lf[0] = fb
			lf[1] = old[0]
			lf[2] = old[1]
			lf[3] = old[2]
			ntk2[i] = lf
		}
		tk1, tk2 = ntk1, ntk2

		p.relations[r] = rel
	}
	p.final = state
	return p
}

// nextRC advances the 6-bit round-constant LFSR.
func nextRC(rc int) int {
	fb := (rc>>5 ^ rc>>4 ^ 1) & 1
	return (rc<<1 | fb) & 0x3F
}

// VariableCount implements producer.RoundProducer.
func (p *Producer) VariableCount() int { return p.width }

// Rounds implements producer.RoundProducer.
func (p *Producer) Rounds() int { return p.rounds }

// RoundRelations implements producer.RoundProducer.
func (p *Producer) RoundRelations(round int) []producer.Relation { return p.relations[round] }

// BaseFixings pins the always-1 constant used by AddConstants.
func (p *Producer) BaseFixings() producer.Fixings {
	return producer.Fixings{p.one: 1}
}

// FixPlaintext binds the 16 plaintext cells; cell 0 is the most
// significant nibble of pt, matching the test-vector notation.
func (p *Producer) FixPlaintext(pt uint64) producer.Fixings {
	return fixCells(p.plaintext, pt)
}

// FixCiphertext binds the 16 final-state cells.
func (p *Producer) FixCiphertext(ct uint64) producer.Fixings {
	return fixCells(p.final, ct)
}

// FixKey binds all 32 tweakey cells. key[0..7] holds TK1, key[8..15]
// TK2, high nibble first within each byte.
func (p *Producer) FixKey(key [16]byte) producer.Fixings {
	f := make(producer.Fixings, 128)
	for i := 0; i < 16; i++ {
		fixCell(f, p.tk1[i], keyCell(key, i))
		fixCell(f, p.tk2[i], keyCell(key, 16+i))
	}
	return f
}

// KeyFromAssignment reassembles the tweakey from a solution.
func (p *Producer) KeyFromAssignment(m map[gf2.VarID]byte) ([16]byte, bool) {
	var key [16]byte
	for i := 0; i < 32; i++ {
		var c cell
		if i < 16 {
			c = p.tk1[i]
		} else {
			c = p.tk2[i-16]
		}
		var val byte
		for b := 0; b < 4; b++ {
			bit, ok := m[c[b]]
			if !ok {
				return key, false
			}
			val |= bit << uint(b)
		}
		if i%2 == 0 {
			key[i/2] |= val << 4
		} else {
			key[i/2] |= val
		}
	}
	return key, true
}

// CiphertextFromAssignment reassembles the final state word.
func (p *Producer) CiphertextFromAssignment(m map[gf2.VarID]byte) (uint64, bool) {
	var ct uint64
	for i := 0; i < 16; i++ {
		var val byte
		for b := 0; b < 4; b++ {
			bit, ok := m[p.final[i][b]]
			if !ok {
				return 0, false
			}
			val |= bit << uint(b)
		}
		ct |= uint64(val) << uint(4*(15-i))
	}
	return ct, true
}

func fixCells(cells [16]cell, word uint64) producer.Fixings {
	f := make(producer.Fixings, 64)
	for i := range cells {
		fixCell(f, cells[i], byte(word>>uint(4*(15-i))&0xF))
	}
	return f
}

func fixCell(f producer.Fixings, c cell, val byte) {
	for b := 0; b < 4; b++ {
		f[c[b]] = val >> uint(b) & 1
	}
}

// keyCell extracts tweakey cell i (0..31) from the 16-byte key, high
// nibble first.
func keyCell(key [16]byte, i int) byte {
	if i%2 == 0 {
		return key[i/2] >> 4
	}
	return key[i/2] & 0xF
}
