package serialize

import (
	"golang.org/x/crypto/blake2b"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
)

// Fingerprint hashes the serialized form of g with BLAKE2b-256. Two games
// with equal fingerprints write identical files.
func Fingerprint[L fixedmap.Key](g Game[L]) ([blake2b.Size256]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return [blake2b.Size256]byte{}, err
	}
	if err := g.Write(h); err != nil {
		return [blake2b.Size256]byte{}, err
	}
	var sum [blake2b.Size256]byte
	h.Sum(sum[:0])
	return sum, nil
}
