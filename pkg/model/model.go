// Package model persists trained co-occurrence tries.
//
// A model file is the 4-byte magic "WFMD", a little-endian uint16 format version,
// then the trie as one msgpack value. The body layout belongs to pkg/cooccur.
package model

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/wordfind/internal/utils"
	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Magic starts every model file.
const Magic = "WFMD"

// Version is the container version written by Write.
const Version uint16 = 1

// ErrNotModel is returned when input does not start with Magic.
var ErrNotModel = errors.New("not a wordfind model")

// Write encodes trie to w.
func Write(w io.Writer, trie *cooccur.Trie) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Magic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, Version); err != nil {
		return err
	}
	if err := msgpack.NewEncoder(bw).Encode(trie); err != nil {
		return fmt.Errorf("failed to encode trie: %w", err)
	}
	return bw.Flush()
}

// Read decodes a trie written by Write.
func Read(r io.Reader) (*cooccur.Trie, error) {
	br := bufio.NewReader(r)

	header := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotModel, err)
	}
	if string(header) != Magic {
		return nil, ErrNotModel
	}

	var version uint16
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read model version: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("unsupported model version %d", version)
	}

	trie := cooccur.New()
	if err := msgpack.NewDecoder(br).Decode(trie); err != nil {
		return nil, fmt.Errorf("failed to decode trie: %w", err)
	}
	return trie, nil
}

// Save writes trie to filename, replacing it atomically.
func Save(filename string, trie *cooccur.Trie) error {
	err := utils.WriteFileAtomic(filename, func(f *os.File) error {
		return Write(f, trie)
	})
	if err != nil {
		return fmt.Errorf("failed to save model %s: %w", filename, err)
	}
	log.Debugf("Saved model with %d nodes to %s", trie.Len(), filename)
	return nil
}

// Load reads a model file.
func Load(filename string) (*cooccur.Trie, error) {
	if err := ValidateFileFormat(filename, FormatModel); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open model %s: %w", filename, err)
	}
	defer file.Close()

	trie, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", filename, err)
	}
	log.Debugf("Loaded model with %d nodes from %s", trie.Len(), filename)
	return trie, nil
}
