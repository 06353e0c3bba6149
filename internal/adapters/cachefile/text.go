package cachefile

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	helpPrefix     = "//"
	advancedSuffix = "-ADVANCED"
	textHeader     = `# This is the knob cache file.
# Edit it with "knob edit" or by hand. Lines are
#   KEY:TYPE=VALUE
# preceded by optional //help lines.
`
	advancedHeader = `
########################
# ADVANCED properties
########################
`
)

// textCodec reads and writes the CMakeCache.txt format.
type textCodec struct{}

func (textCodec) decode(data []byte) (domain.Entries, error) {
	var (
		entries  domain.Entries
		help     []string
		advanced = make(map[string]bool)
	)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			help = nil
			continue
		case strings.HasPrefix(trimmed, "#"):
			continue
		case strings.HasPrefix(trimmed, helpPrefix):
			help = append(help, strings.TrimPrefix(trimmed, helpPrefix))
			continue
		}

		name, typ, value, err := parseEntryLine(line)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCacheParse, err.Error()), "line", lineNo)
		}

		if strings.HasSuffix(name, advancedSuffix) && typ == domain.TypeInternal {
			advanced[strings.TrimSuffix(name, advancedSuffix)] = domain.IsOn(value)
			help = nil
			continue
		}

		e := &domain.Entry{Name: name, Type: typ, Value: value, Help: strings.Join(help, "\n")}
		help = nil
		if i := entries.Index(name); i >= 0 {
			entries[i] = e
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, domain.WrapKind(domain.ErrCacheRead, err)
	}

	for _, e := range entries {
		e.Advanced = advanced[e.Name]
	}
	return entries, nil
}

func (textCodec) encode(entries domain.Entries) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(textHeader)

	for _, e := range entries {
		b.WriteString("\n")
		if e.Help != "" {
			for _, line := range strings.Split(e.Help, "\n") {
				b.WriteString(helpPrefix + line + "\n")
			}
		}
		fmt.Fprintf(&b, "%s:%s=%s\n", quoteName(e.Name), e.Type, quoteValue(e.Value))
	}

	var adv []*domain.Entry
	for _, e := range entries {
		if e.Advanced {
			adv = append(adv, e)
		}
	}
	if len(adv) > 0 {
		b.WriteString(advancedHeader)
		for _, e := range adv {
			fmt.Fprintf(&b, "\n%sADVANCED property for variable: %s\n", helpPrefix, e.Name)
			fmt.Fprintf(&b, "%s:%s=1\n", quoteName(e.Name+advancedSuffix), domain.TypeInternal)
		}
	}
	return b.Bytes(), nil
}

// parseEntryLine splits KEY:TYPE=VALUE. KEY may be double quoted,
// VALUE may be single quoted to keep surrounding whitespace.
func parseEntryLine(line string) (string, domain.EntryType, string, error) {
	var name, rest string
	if strings.HasPrefix(line, `"`) {
		end := strings.Index(line[1:], `"`)
		if end < 0 {
			return "", 0, "", fmt.Errorf("unterminated quoted name")
		}
		name = line[1 : end+1]
		rest = line[end+2:]
		if !strings.HasPrefix(rest, ":") {
			return "", 0, "", fmt.Errorf("missing type after name %q", name)
		}
		rest = rest[1:]
	} else {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return "", 0, "", fmt.Errorf("expected KEY:TYPE=VALUE")
		}
		name, rest = line[:colon], line[colon+1:]
	}

	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return "", 0, "", fmt.Errorf("missing '=' after type of %q", name)
	}
	typ, err := domain.ParseEntryType(rest[:eq])
	if err != nil {
		return "", 0, "", err
	}
	if name == "" {
		return "", 0, "", fmt.Errorf("empty entry name")
	}
	return name, typ, unquoteValue(rest[eq+1:]), nil
}

func quoteName(name string) string {
	if strings.ContainsAny(name, " #") || strings.HasPrefix(name, helpPrefix) {
		return `"` + name + `"`
	}
	return name
}

func quoteValue(value string) string {
	if value != strings.TrimSpace(value) || strings.HasPrefix(value, "'") || strings.HasSuffix(value, "'") {
		return "'" + value + "'"
	}
	return value
}

func unquoteValue(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
		return value[1 : len(value)-1]
	}
	return value
}
