package wire

import "golang.org/x/crypto/blake2b"

// DeriveMagic computes a stable 32-bit magic from a table's fully-qualified
// (namespace-dotted) name. It backs the `flatwire magic <name>` CLI
// subcommand, which prints the value as 8 uppercase hex digits; this is an
// extension beyond spec.md's literal-only magics (see DESIGN.md). Schemas
// still carry only literal @XXXXXXXX magics and the compiler never calls
// DeriveMagic, so it does not affect any schema's wire contract.
//
// The low 32 bits of a blake2b-256 hash are taken rather than a 32-bit
// hash directly, since blake2b has no native 32-bit output size and a
// truncated 256-bit digest is still well distributed for this purpose.
func DeriveMagic(qualifiedName string) uint32 {
	sum := blake2b.Sum256([]byte(qualifiedName))
	v := uint32(sum[0]) | uint32(sum[1])<<8 | uint32(sum[2])<<16 | uint32(sum[3])<<24
	if v == 0 {
		v = 1 // 0 is reserved ("no magic"); an all-zero hash prefix is vanishingly unlikely but stay in [1, 2^32)
	}
	return v
}
