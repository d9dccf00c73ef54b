package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// Marshal encodes a snapshot as indented JSON.
func Marshal(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a snapshot from JSON bytes.
func Unmarshal(data []byte) (Snapshot, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a snapshot as indented JSON to w.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON snapshot from r and checks its structure.
func Read(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// WriteFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(s, f)
}

// ReadFile reads a JSON snapshot file.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Validate checks that node ids are unique and that every parent appears
// before its children.
func (s *Snapshot) Validate() error {
	seen := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: missing id", i)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node %q", n.ID)
		}
		if n.Parent != "" && !seen[n.Parent] {
			return fmt.Errorf("node %q: parent %q not listed before it", n.ID, n.Parent)
		}
		seen[n.ID] = true
	}
	return nil
}
