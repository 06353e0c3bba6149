package cachefile

import (
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// yamlDocument is the on-disk shape of a YAML cache.
type yamlDocument struct {
	Version string      `yaml:"version"`
	Entries []yamlEntry `yaml:"entries"`
}

type yamlEntry struct {
	Name     string           `yaml:"name"`
	Type     domain.EntryType `yaml:"type"`
	Value    string           `yaml:"value"`
	Help     string           `yaml:"help,omitempty"`
	Advanced bool             `yaml:"advanced,omitempty"`
}

const yamlVersion = "1"

// yamlCodec reads and writes YAML caches.
type yamlCodec struct{}

func (yamlCodec) decode(data []byte) (domain.Entries, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(domain.WrapKind(domain.ErrCacheParse, err), "format", "yaml")
	}

	entries := make(domain.Entries, 0, len(doc.Entries))
	for _, ye := range doc.Entries {
		e := &domain.Entry{
			Name:     ye.Name,
			Type:     ye.Type,
			Value:    ye.Value,
			Help:     ye.Help,
			Advanced: ye.Advanced,
		}
		var err error
		if entries, err = entries.Add(e); err != nil {
			return nil, domain.WrapKind(domain.ErrCacheParse, err)
		}
	}
	return entries, nil
}

func (yamlCodec) encode(entries domain.Entries) ([]byte, error) {
	doc := yamlDocument{
		Version: yamlVersion,
		Entries: make([]yamlEntry, len(entries)),
	}
	for i, e := range entries {
		doc.Entries[i] = yamlEntry{
			Name:     e.Name,
			Type:     e.Type,
			Value:    e.Value,
			Help:     e.Help,
			Advanced: e.Advanced,
		}
	}
	return yaml.Marshal(&doc)
}
