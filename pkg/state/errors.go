package state

import (
	"fmt"
	"strings"
)

// Finding locates a single violation inside a configuration. Path uses the
// external field names, e.g. "RequestManager.lp_fee_ppm" or
// "token_addresses.USDC".
type Finding struct {
	Path    string
	Message string
}

func (f Finding) String() string {
	return f.Path + ": " + f.Message
}

// SchemaError reports field values outside their declared ranges. It is
// returned by the constructors and carries every violated field, not just
// the first one.
type SchemaError struct {
	Findings []Finding
}

func (e *SchemaError) Error() string {
	return "schema violation:\n" + formatFindings(e.Findings)
}

// ValidationError reports cross-field violations found by Validate:
// malformed checksum addresses and token symbols without an address entry.
type ValidationError struct {
	Findings []Finding
}

func (e *ValidationError) Error() string {
	return "validation failed:\n" + formatFindings(e.Findings)
}

// ChecksumMismatchError means the checksum stored in a state file does not
// match the digest recomputed from the file's contents.
type ChecksumMismatchError struct {
	Stored   string
	Computed string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: %s (expected %s)", e.Stored, e.Computed)
}

// FormatError means the state file could not be understood at all: invalid
// JSON, a missing checksum field, or a chain ID key that is not an integer.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatFindings(findings []Finding) string {
	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = f.String()
	}
	return strings.Join(lines, "\n")
}
