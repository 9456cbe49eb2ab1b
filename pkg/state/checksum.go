package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// canonicalJSON renders v as UTF-8 JSON with 4-space indentation and a
// single trailing newline. This is the one encoding used both for hashing
// and for file output; it must stay byte-identical across releases because
// published state files embed digests of it. The trailing newline lets the
// digest be reproduced with common tools:
//
//	grep -v checksum state.json | sha256sum
func canonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to serialize configuration: %w", err)
	}
	return buf.Bytes(), nil
}

// Serialize returns the canonical serialization of the configuration,
// without the checksum envelope. These are exactly the bytes the checksum
// is computed over.
func (c *Configuration) Serialize() ([]byte, error) {
	return canonicalJSON(c)
}

// ComputeChecksum returns the lowercase hex SHA-256 digest of the canonical
// serialization of the configuration. The digest is always recomputed from
// the in-memory value; a checksum stored in a state file is never trusted.
func (c *Configuration) ComputeChecksum() (string, error) {
	data, err := canonicalJSON(c)
	if err != nil {
		return "", err
	}
	return checksumOf(data), nil
}

func checksumOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
