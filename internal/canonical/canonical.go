// Package canonical maps caller supplied identifiers onto the ledger's
// fixed-width 32-byte keys.
package canonical

import (
	"encoding/hex"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tansive/j832-go/pkg/types"
	"golang.org/x/crypto/sha3"
)

var canonicalRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// IsCanonical reports whether s is already a 0x-prefixed 32-byte hex value.
func IsCanonical(s string) bool {
	return canonicalRegex.MatchString(s)
}

// Canonicalize returns s unchanged when it is already canonical, otherwise
// the Keccak-256 digest of its UTF-8 bytes in lowercase hex.
func Canonicalize(s string) types.Hash {
	if IsCanonical(s) {
		return types.Hash(s)
	}
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(s))
	return types.Hash("0x" + hex.EncodeToString(h.Sum(nil)))
}

// ToHash canonicalizes s and decodes it into the ledger's bytes32 form.
func ToHash(s string) common.Hash {
	return common.HexToHash(string(Canonicalize(s)))
}
