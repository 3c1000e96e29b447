// Package journal keeps a local, append-only record of the mutating calls a
// client submitted. Entries are JSON lines chained with SHA-256 and signed
// with the client's secp256k1 key, so the file can be checked offline with
// Verify.
package journal

import (
	"bufio"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Entry struct {
	Payload   map[string]any `json:"payload"`
	PrevHash  string         `json:"prevHash"`
	Hash      string         `json:"hash"`
	Signature string         `json:"signature"`
}

type hashInput struct {
	Payload  map[string]any `json:"payload"`
	PrevHash string         `json:"prevHash"`
}

type signInput struct {
	Payload  map[string]any `json:"payload"`
	PrevHash string         `json:"prevHash"`
	Hash     string         `json:"hash"`
}

// Writer appends signed entries to a journal file. It is safe for concurrent
// use.
type Writer struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	prevHash string
	key      *ecdsa.PrivateKey
	closed   bool
}

// Open opens or creates the journal at path. When the file already holds
// entries the chain continues from the last one.
func Open(path string, key *ecdsa.PrivateKey) (*Writer, error) {
	if key == nil {
		return nil, ErrOpen.Msg("a signing key is required")
	}
	prev, err := lastHash(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, ErrOpen.Err(err)
	}
	return &Writer{
		file:     f,
		path:     path,
		prevHash: prev,
		key:      key,
	}, nil
}

func lastHash(path string) (string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", ErrOpen.Err(err)
	}
	defer f.Close()

	var last string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return "", ErrOpen.Err(ErrInvalidEntry.Err(err))
		}
		last = entry.Hash
	}
	if err := scanner.Err(); err != nil {
		return "", ErrOpen.Err(err)
	}
	return last, nil
}

// Append writes one entry holding a copy of payload.
func (w *Writer) Append(payload map[string]any) (Entry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return Entry{}, ErrClosed
	}

	cloned := make(map[string]any, len(payload))
	for k, v := range payload {
		cloned[k] = v
	}
	entry, err := seal(cloned, w.prevHash, w.key)
	if err != nil {
		return Entry{}, err
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, ErrWrite.Err(err)
	}
	if _, err := w.file.Write(append(b, '\n')); err != nil {
		return Entry{}, ErrWrite.Err(err)
	}
	w.prevHash = entry.Hash
	return entry, nil
}

func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

func seal(payload map[string]any, prevHash string, key *ecdsa.PrivateKey) (Entry, error) {
	entry := Entry{
		Payload:  payload,
		PrevHash: prevHash,
	}
	hash, err := entryHash(entry)
	if err != nil {
		return Entry{}, err
	}
	entry.Hash = hash

	digest, err := signDigest(entry)
	if err != nil {
		return Entry{}, err
	}
	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return Entry{}, ErrWrite.Err(err)
	}
	entry.Signature = hex.EncodeToString(sig)
	return entry, nil
}

func entryHash(e Entry) (string, error) {
	data, err := json.Marshal(hashInput{Payload: e.Payload, PrevHash: e.PrevHash})
	if err != nil {
		return "", ErrInvalidEntry.Err(err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// signDigest is the Keccak-256 of payload, prevHash and hash.
func signDigest(e Entry) ([]byte, error) {
	data, err := json.Marshal(signInput{Payload: e.Payload, PrevHash: e.PrevHash, Hash: e.Hash})
	if err != nil {
		return nil, ErrInvalidEntry.Err(err)
	}
	return crypto.Keccak256(data), nil
}
