package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

const (
	// BoolOn is the canonical true token.
	BoolOn = "ON"
	// BoolOff is the canonical false token.
	BoolOff = "OFF"
)

var (
	trueTokens  = map[string]bool{"ON": true, "TRUE": true, "YES": true, "Y": true, "1": true}
	falseTokens = map[string]bool{"OFF": true, "FALSE": true, "NO": true, "N": true, "0": true, "": true, "IGNORE": true, "NOTFOUND": true}
)

// IsOn reports whether a boolean value is one of the accepted true tokens.
func IsOn(value string) bool {
	return trueTokens[strings.ToUpper(strings.TrimSpace(value))]
}

// ToggleBool flips a boolean value and returns the canonical token.
func ToggleBool(value string) string {
	if IsOn(value) {
		return BoolOff
	}
	return BoolOn
}

// FixValue normalizes a value for its declared type.
// Booleans become ON or OFF, path values lose trailing separators,
// everything else is kept verbatim. Values may never span lines.
func FixValue(t EntryType, in string) (string, error) {
	if strings.ContainsAny(in, "\n\r") {
		return "", invalidValue(t, in, "value must be a single line")
	}

	switch t {
	case TypeBool:
		token := strings.ToUpper(strings.TrimSpace(in))
		switch {
		case trueTokens[token]:
			return BoolOn, nil
		case falseTokens[token], strings.HasSuffix(token, "-NOTFOUND"):
			return BoolOff, nil
		default:
			return "", invalidValue(t, in, "expected ON or OFF")
		}
	case TypePath, TypeFilePath:
		return trimTrailingSeparators(strings.TrimSpace(in)), nil
	default:
		return in, nil
	}
}

// Normalize returns a normalized deep copy of the entries.
// It fails on the first invalid value and never returns a partial list.
func Normalize(es Entries) (Entries, error) {
	out := es.Clone()
	for _, e := range out {
		if err := ValidateEntryName(e.Name); err != nil {
			return nil, err
		}
		fixed, err := FixValue(e.Type, e.Value)
		if err != nil {
			return nil, zerr.With(err, "entry", e.Name)
		}
		e.Value = fixed
	}
	return out, nil
}

func trimTrailingSeparators(p string) string {
	trimmed := strings.TrimRight(p, `/\`)
	if trimmed == "" && p != "" {
		// Keep a lone root separator.
		return p[:1]
	}
	return trimmed
}

func invalidValue(t EntryType, value, reason string) error {
	return zerr.With(zerr.With(zerr.Wrap(ErrInvalidValue, reason), "type", t.String()), "value", value)
}
