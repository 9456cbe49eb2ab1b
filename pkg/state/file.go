package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// stateFile is the on-disk envelope. The checksum is declared first so it
// appears as the first key of the written object, which lets tooling strip
// it with grep and hash the remaining bytes directly.
type stateFile struct {
	Checksum string `json:"checksum"`
	Configuration
}

// FromFile loads a configuration from a state file, verifying its schema,
// its cross-field invariants and its embedded checksum. It never returns a
// partially valid configuration.
func FromFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return FromBytes(data)
}

// FromBytes loads a configuration from the raw contents of a state file.
//
// The load protocol is: parse the JSON object, check that every key of
// RequestManager.chains parses as an integer chain ID, pop the checksum
// field, construct and validate the model, then verify the stored checksum
// verbatim. The stored value must match either the digest of the canonical
// serialization of the constructed model, or the digest of the file's own
// body with the checksum member stripped — the latter accepts files from
// writers that serialize object keys in insertion order instead of sorted.
// Any step failing aborts the load with a typed error.
func FromBytes(data []byte) (*Configuration, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FormatError{Msg: "malformed state file", Err: err}
	}

	if rm, ok := raw["RequestManager"]; ok {
		if err := checkChainKeys(rm); err != nil {
			return nil, err
		}
	}

	storedRaw, ok := raw["checksum"]
	if !ok {
		return nil, &FormatError{Msg: "missing checksum field"}
	}
	var stored string
	if err := json.Unmarshal(storedRaw, &stored); err != nil {
		return nil, &FormatError{Msg: "malformed checksum field", Err: err}
	}

	// Decode the remaining fields strictly: an unknown field would survive
	// the checksum comparison unnoticed, since the checksum only covers the
	// declared fields.
	delete(raw, "checksum")
	body, err := json.Marshal(raw)
	if err != nil {
		return nil, &FormatError{Msg: "malformed state file", Err: err}
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	var cfg Configuration
	if err := dec.Decode(&cfg); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaError{Findings: []Finding{{
				Path:    typeErr.Field,
				Message: fmt.Sprintf("cannot decode %s into %s", typeErr.Value, typeErr.Type),
			}}}
		}
		return nil, &FormatError{Msg: "malformed state file", Err: err}
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}

	computed, err := cfg.ComputeChecksum()
	if err != nil {
		return nil, err
	}
	if stored != computed && stored != rawBodyChecksum(data) {
		return nil, &ChecksumMismatchError{Stored: stored, Computed: computed}
	}
	return &cfg, nil
}

// rawBodyChecksum recovers the digest embedded by a writer that keeps
// object keys in insertion order rather than sorted. Such a writer hashes
// its own serialization, which survives verbatim in the file: the checksum
// member occupies a single line, so removing that line leaves exactly the
// hashed bytes. Returns "" if the file does not follow the
// one-member-per-line layout; the caller then falls back to the canonical
// digest alone.
func rawBodyChecksum(data []byte) string {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		// Top-level members are indented by exactly four spaces; a deeper
		// match would be a map key, not the checksum member.
		if bytes.HasPrefix(line, []byte(`    "checksum":`)) {
			body := bytes.Join(append(lines[:i:i], lines[i+1:]...), []byte("\n"))
			// The digest always covers a trailing newline, but writers are
			// not required to end the file with one.
			if !bytes.HasSuffix(body, []byte("\n")) {
				body = append(body, '\n')
			}
			return checksumOf(body)
		}
	}
	return ""
}

// ToFile writes the configuration to path in canonical form, checksum
// first. The file is written to a temporary sibling and renamed into place
// so a failed save never leaves a truncated state file behind.
func (c *Configuration) ToFile(path string) (err error) {
	checksum, err := c.ComputeChecksum()
	if err != nil {
		return err
	}
	data, err := canonicalJSON(stateFile{Checksum: checksum, Configuration: *c})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to flush state file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move state file into place: %w", err)
	}
	return nil
}

// checkChainKeys rejects RequestManager.chains keys that do not parse as
// integer chain IDs. The typed decode would reject them as well, but with
// an error that does not name the offending key.
func checkChainKeys(requestManager json.RawMessage) error {
	var rm struct {
		Chains map[string]json.RawMessage `json:"chains"`
	}
	if err := json.Unmarshal(requestManager, &rm); err != nil {
		// Not an object; the typed decode reports this with a field path.
		return nil
	}
	keys := make([]string, 0, len(rm.Chains))
	for key := range rm.Chains {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := strconv.ParseUint(key, 10, 64); err != nil {
			return &FormatError{Msg: fmt.Sprintf("invalid chain ID: %s", key)}
		}
	}
	return nil
}
