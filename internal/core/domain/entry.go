// Package domain contains the core types of knob: cache entries, workflow
// steps and run reports.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// EntryType is the declared type of a cache entry.
type EntryType uint8

const (
	// TypeUninitialized is an entry set on the command line without a declared type.
	TypeUninitialized EntryType = iota
	// TypeBool is an ON/OFF switch.
	TypeBool
	// TypeString is free text.
	TypeString
	// TypePath is a directory path.
	TypePath
	// TypeFilePath is a file path.
	TypeFilePath
	// TypeInternal is bookkeeping written by the configure step. Never shown.
	TypeInternal
	// TypeStatic is a constant written by the configure step. Never shown.
	TypeStatic
)

var entryTypeNames = [...]string{
	TypeUninitialized: "UNINITIALIZED",
	TypeBool:          "BOOL",
	TypeString:        "STRING",
	TypePath:          "PATH",
	TypeFilePath:      "FILEPATH",
	TypeInternal:      "INTERNAL",
	TypeStatic:        "STATIC",
}

// String returns the persisted token for the type.
func (t EntryType) String() string {
	if int(t) < len(entryTypeNames) {
		return entryTypeNames[t]
	}
	return entryTypeNames[TypeUninitialized]
}

// Hidden reports whether entries of this type are kept out of the form.
func (t EntryType) Hidden() bool {
	return t == TypeInternal || t == TypeStatic
}

// ParseEntryType converts a persisted token into an EntryType.
// Matching is case-insensitive.
func ParseEntryType(s string) (EntryType, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range entryTypeNames {
		if name == token {
			return EntryType(i), nil
		}
	}
	return TypeUninitialized, zerr.With(zerr.Wrap(ErrInvalidEntryType, s), "type", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t EntryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EntryType) UnmarshalText(text []byte) error {
	parsed, err := ParseEntryType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Entry is one named, typed configuration value of the cache.
// Name never changes after creation.
type Entry struct {
	Name     string
	Type     EntryType
	Value    string
	Help     string
	Advanced bool
	// New marks entries introduced by the last configure pass. Not persisted.
	New bool
}

// Visible reports whether the entry is shown under the given filter.
func (e *Entry) Visible(advanced bool) bool {
	if e.Type.Hidden() {
		return false
	}
	return advanced || !e.Advanced
}

// ValidateEntryName checks that a name can be persisted in every store format.
func ValidateEntryName(name string) error {
	if name == "" || strings.ContainsAny(name, ":=\"\n\r") {
		return zerr.With(zerr.Wrap(ErrInvalidEntryName, "name must be non-empty and free of ':', '=', '\"' and newlines"), "name", name)
	}
	return nil
}

// Snapshot is the content of a cache store at one point in time.
type Snapshot struct {
	Entries Entries
	// Fingerprint identifies the exact bytes the entries were read from or written to.
	Fingerprint uint64
}
