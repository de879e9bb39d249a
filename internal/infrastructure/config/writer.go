package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const schemaDirective = "#:schema ./" + schemaFileName + "\n\n"

var sectionRE = regexp.MustCompile(`^(\s*)\[([^\]]+)\]\s*$`)

// Render encodes cfg as TOML with fields in definition order and tables
// sorted by name.
func Render(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return []byte(sortTOMLSections(buf.String())), nil
}

// WriteConfigOrdered writes cfg to path along with the JSON schema next to
// it, so editors with TOML schema support can validate the file.
func WriteConfigOrdered(cfg *Config, path string) error {
	data, err := Render(cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := WriteSchemaFile(dir); err != nil {
		return err
	}

	out := append([]byte(schemaDirective), data...)
	if err := os.WriteFile(path, out, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// sortTOMLSections reorders table blocks alphabetically, keeping top-level
// keys first. Indented sub-tables sort by their dotted name.
func sortTOMLSections(content string) string {
	type section struct {
		header string
		nested bool
		lines  []string
	}

	var (
		sections []section
		current  *section
		preamble []string
	)
	for _, line := range strings.Split(content, "\n") {
		if match := sectionRE.FindStringSubmatch(line); match != nil {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &section{header: match[2], nested: match[1] != "", lines: []string{line}}
			continue
		}
		if current != nil {
			current.lines = append(current.lines, line)
		} else {
			preamble = append(preamble, line)
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].header < sections[j].header
	})

	var b strings.Builder
	for _, line := range preamble {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i, sec := range sections {
		if !sec.nested && (i > 0 || len(preamble) > 0) {
			if s := b.String(); s != "" && !strings.HasSuffix(s, "\n\n") {
				b.WriteString("\n")
			}
		}
		for _, line := range sec.lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	output := strings.TrimRight(b.String(), "\n")
	if output != "" {
		output += "\n"
	}
	return output
}
