// Package present describes the PRESENT-80 block cipher as round
// relations for the CRHS core. The core never sees the cipher: it
// receives truth tables for the S-box layer, XOR relations for key
// addition and the key schedule, and variable wiring for the bit
// permutation, all over one shared universe.
package present

import (
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/producer"
)

// FullRounds is the round count of the full cipher.
const FullRounds = 31

var sbox = [16]byte{0xC, 0x5, 0x6, 0xB, 0x9, 0x0, 0xA, 0xD, 0x3, 0xE, 0xF, 0x8, 0x4, 0x7, 0x1, 0x2}

// pBit maps a state bit position through the pLayer (LSB = bit 0).
func pBit(i int) int {
	if i == 63 {
		return 63
	}
	return 16 * i % 63
}

// Producer emits the round relations of reduced- or full-round
// PRESENT-80. Variable allocation happens once in New; the relation
// groups are replayed from memory on every RoundRelations call.
//
// State and key-register bits follow the paper's numbering with b0 as
// the least significant bit. The round-counter XOR in the key
// schedule needs a constant, modeled with a dedicated always-1
// variable that BaseFixings pins.
type Producer struct {
	rounds     int
	width      int
	relations  [][]producer.Relation
	one        gf2.VarID
	plaintext  [64]gf2.VarID
	ciphertext [64]gf2.VarID
	key        [80]gf2.VarID
}

// New builds the relation system for the given number of rounds
// (1..FullRounds). Each round applies key addition, the S-box layer,
// and the pLayer; a final key whitening follows the last round, as in
// the full cipher.
func New(rounds int) *Producer {
	p := &Producer{rounds: rounds, relations: make([][]producer.Relation, rounds)}
	alloc := func() gf2.VarID {
		v := gf2.VarID(p.width)
		p.width++
		return v
	}

	p.one = alloc()
	for i := range p.plaintext {
		p.plaintext[i] = alloc()
	}
	var keyReg [80]gf2.VarID
	for j := range keyReg {
		keyReg[j] = alloc()
		p.key[j] = keyReg[j]
	}

	state := p.plaintext
	for r := 0; r < rounds; r++ {
		var rel []producer.Relation

		// addRoundKey: the round key is the register's top 64 bits.
		var sboxIn [64]gf2.VarID
		for i := 0; i < 64; i++ {
			sboxIn[i] = alloc()
			rel = append(rel, producer.XOR(sboxIn[i], state[i], keyReg[16+i]))
		}

		// sBoxLayer and pLayer fused: the S-box outputs land directly
		// on their permuted positions in the next state.
		var next [64]gf2.VarID
		for i := range next {
			next[i] = alloc()
		}
		for nib := 0; nib < 16; nib++ {
			in := []gf2.VarID{sboxIn[4*nib], sboxIn[4*nib+1], sboxIn[4*nib+2], sboxIn[4*nib+3]}
			out := []gf2.VarID{
				next[pBit(4*nib)],
				next[pBit(4*nib+1)],
				next[pBit(4*nib+2)],
				next[pBit(4*nib+3)],
			}
			rel = append(rel, producer.SBox(sbox[:], in, out))
		}
		state = next

		keyReg = p.scheduleStep(keyReg, r+1, &rel, alloc)

		if r == rounds-1 {
			// Final whitening with the freshly scheduled key.
			for i := 0; i < 64; i++ {
				p.ciphertext[i] = alloc()
				rel = append(rel, producer.XOR(p.ciphertext[i], state[i], keyReg[16+i]))
			}
		}
		p.relations[r] = rel
	}
	return p
}

// scheduleStep advances the key register: rotate left 61, S-box on
// the top nibble, round counter XORed onto bits 19..15. The rotation
// is pure wiring; only the S-box and the counter's set bits cost
// fresh variables.
func (p *Producer) scheduleStep(reg [80]gf2.VarID, counter int, rel *[]producer.Relation, alloc func() gf2.VarID) [80]gf2.VarID {
	var rot [80]gf2.VarID
	for j := 0; j < 80; j++ {
		rot[j] = reg[(j+19)%80]
	}

	in := []gf2.VarID{rot[76], rot[77], rot[78], rot[79]}
	out := make([]gf2.VarID, 4)
	for b := range out {
		out[b] = alloc()
	}
	*rel = append(*rel, producer.SBox(sbox[:], in, out))
	copy(rot[76:], out)

	for b := 0; b < 5; b++ {
		if counter>>uint(b)&1 == 1 {
			nv := alloc()
			*rel = append(*rel, producer.XOR(nv, rot[15+b], p.one))
			rot[15+b] = nv
		}
	}
	return rot
}

// VariableCount implements producer.RoundProducer.
func (p *Producer) VariableCount() int { return p.width }

// Rounds implements producer.RoundProducer.
func (p *Producer) Rounds() int { return p.rounds }

// RoundRelations implements producer.RoundProducer.
func (p *Producer) RoundRelations(round int) []producer.Relation { return p.relations[round] }

// BaseFixings pins the always-1 constant; apply it to every SOC built
// from this producer.
func (p *Producer) BaseFixings() producer.Fixings {
	return producer.Fixings{p.one: 1}
}

// FixPlaintext returns fixings binding the 64 plaintext bits.
func (p *Producer) FixPlaintext(pt uint64) producer.Fixings {
	f := make(producer.Fixings, 64)
	for i := 0; i < 64; i++ {
		f[p.plaintext[i]] = byte(pt >> uint(i) & 1)
	}
	return f
}

// FixCiphertext returns fixings binding the 64 ciphertext bits.
func (p *Producer) FixCiphertext(ct uint64) producer.Fixings {
	f := make(producer.Fixings, 64)
	for i := 0; i < 64; i++ {
		f[p.ciphertext[i]] = byte(ct >> uint(i) & 1)
	}
	return f
}

// FixKey returns fixings binding all 80 key bits. key[0] holds the
// register's most significant byte, matching the test-vector hex
// notation.
func (p *Producer) FixKey(key [10]byte) producer.Fixings {
	f := make(producer.Fixings, 80)
	for j := 0; j < 80; j++ {
		f[p.key[j]] = key[9-j/8] >> uint(j%8) & 1
	}
	return f
}

// KeyVars returns the 80 key-register variables, b0 first.
func (p *Producer) KeyVars() [80]gf2.VarID { return p.key }

// CiphertextFromAssignment reassembles the ciphertext word from a
// solution; ok is false when any ciphertext bit is unassigned.
func (p *Producer) CiphertextFromAssignment(m map[gf2.VarID]byte) (uint64, bool) {
	var ct uint64
	for i := 0; i < 64; i++ {
		b, ok := m[p.ciphertext[i]]
		if !ok {
			return 0, false
		}
		ct |= uint64(b) << uint(i)
	}
	return ct, true
}

// KeyFromAssignment reassembles the key register from a solution.
func (p *Producer) KeyFromAssignment(m map[gf2.VarID]byte) ([10]byte, bool) {
	var key [10]byte
	for j := 0; j < 80; j++ {
		b, ok := m[p.key[j]]
		if !ok {
			return key, false
		}
		key[9-j/8] |= b << uint(j%8)
	}
	return key, true
}
