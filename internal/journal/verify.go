package journal

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Verify checks every entry read from r: the hash covers payload and
// prevHash, each prevHash names the previous entry, and the signature was
// made by signer. It returns the number of entries checked.
func Verify(r io.Reader, signer common.Address) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	expectedPrevHash := ""

	for scanner.Scan() {
		lineNum++
		line := fmt.Sprintf("line %d", lineNum)

		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return lineNum - 1, ErrInvalidEntry.Suffix(line).Err(err)
		}

		hash, err := entryHash(entry)
		if err != nil {
			return lineNum - 1, err
		}
		if entry.Hash != hash {
			return lineNum - 1, ErrHashMismatch.Suffix(line)
		}
		if entry.PrevHash != expectedPrevHash {
			return lineNum - 1, ErrChainBroken.Suffix(line)
		}

		digest, err := signDigest(entry)
		if err != nil {
			return lineNum - 1, err
		}
		sig, err := hex.DecodeString(entry.Signature)
		if err != nil {
			return lineNum - 1, ErrBadSignature.Suffix(line).Err(err)
		}
		pub, err := crypto.SigToPub(digest, sig)
		if err != nil {
			return lineNum - 1, ErrBadSignature.Suffix(line).Err(err)
		}
		if crypto.PubkeyToAddress(*pub) != signer {
			return lineNum - 1, ErrBadSignature.Suffix(line)
		}

		expectedPrevHash = entry.Hash
	}

	if err := scanner.Err(); err != nil {
		return lineNum, ErrInvalidEntry.MsgErr("failed to read journal", err)
	}
	return lineNum, nil
}
