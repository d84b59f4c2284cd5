package dedup

// invalidBase marks a byte that does not encode one of A, C, G, T.
const invalidBase = uint8(255)

// baseCode maps an ASCII byte to its 2-bit nucleotide encoding, or
// invalidBase for anything else (N, ambiguity codes, whitespace, ...).
var baseCode [256]uint8

func init() {
	for i := range baseCode {
		baseCode[i] = invalidBase
	}
	baseCode['A'] = 0
	baseCode['a'] = 0
	baseCode['C'] = 1
	baseCode['c'] = 1
	baseCode['G'] = 2
	baseCode['g'] = 2
	baseCode['T'] = 3
	baseCode['t'] = 3
}
