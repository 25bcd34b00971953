package resolve

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"
)

// MissReport is the exported list of files that could not be resolved.
type MissReport struct {
	Generated time.Time   `yaml:"generated"`
	Misses    []MissEntry `yaml:"misses"`
}

// MissEntry is one unresolved (file, hint) pair.
type MissEntry struct {
	File string `yaml:"file"`
	Hint string `yaml:"hint"`
}

// NewMissReport builds a report from cache keys.
func NewMissReport(keys []Key, generated time.Time) MissReport {
	report := MissReport{
		Generated: generated,
		Misses:    make([]MissEntry, 0, len(keys)),
	}
	for _, k := range keys {
		report.Misses = append(report.Misses, MissEntry{File: k.Name, Hint: k.Hint.String()})
	}
	return report
}

// Keys converts the entries back to cache keys.
func (r MissReport) Keys() ([]Key, error) {
	keys := make([]Key, 0, len(r.Misses))
	for _, m := range r.Misses {
		hint, err := ParseHint(m.Hint)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", m.File, err)
		}
		keys = append(keys, Key{Name: m.File, Hint: hint})
	}
	return keys, nil
}

// WriteMissReport encodes the report as YAML.
func WriteMissReport(w io.Writer, report MissReport) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding miss report: %w", err)
	}
	return nil
}

// ReadMissReport decodes a YAML report.
func ReadMissReport(r io.Reader) (MissReport, error) {
	var report MissReport
	if err := yaml.NewDecoder(r).Decode(&report); err != nil {
		return MissReport{}, fmt.Errorf("decoding miss report: %w", err)
	}
	return report, nil
}
