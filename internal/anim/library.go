package anim

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/evgenyvinnik/MCPlator-sub000/internal/calc"
)

// Library holds named, pre-scripted key sequences loaded from a YAML file.
// They back the /calculator/sequences/{name}/play endpoint for demos and
// regression scripts.
type Library struct {
	sequences map[string]librarySequence
}

type libraryFile struct {
	Sequences map[string]librarySequence `yaml:"sequences"`
}

type librarySequence struct {
	Keys       []string `yaml:"keys"`
	KeyDelayMs int      `yaml:"key_delay_ms"`
}

// EmptyLibrary returns a library with no entries.
func EmptyLibrary() *Library {
	return &Library{sequences: map[string]librarySequence{}}
}

// LoadLibrary reads the sequence library at path. A missing file yields an
// empty library; a malformed one is an error.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return EmptyLibrary(), nil
		}
		return nil, fmt.Errorf("read sequence library: %w", err)
	}

	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sequence library: %w", err)
	}
	if file.Sequences == nil {
		file.Sequences = map[string]librarySequence{}
	}

	return &Library{sequences: file.Sequences}, nil
}

// Sequence builds a playable sequence for name with a fresh id. The second
// return is false when name is not in the library.
func (l *Library) Sequence(name string) (Sequence, bool) {
	entry, ok := l.sequences[name]
	if !ok {
		return Sequence{}, false
	}
	keys := make([]calc.Key, 0, len(entry.Keys))
	for _, k := range entry.Keys {
		keys = append(keys, calc.Key(k))
	}
	return FromKeys("", keys, entry.KeyDelayMs), true
}

// Names lists the library entries in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.sequences))
	for name := range l.sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
