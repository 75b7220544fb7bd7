// Package inspect extracts shallow metadata from command source files
// without executing or fully parsing them.
package inspect

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound indicates the source file does not exist.
var ErrNotFound = errors.New("source file not found")

// Meta is the shallow metadata peeked from a source file. Which fields
// are set depends on the format.
type Meta struct {
	Path   string `json:"path"`
	Format string `json:"format"`

	// YAML workflows
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`

	// XML documents
	Element    string            `json:"element,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`

	// Markdown documents
	Heading string `json:"heading,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

// Source reads the file at path and extracts metadata for its format.
// A missing file returns ErrNotFound; unparseable content degrades to
// format-only metadata rather than failing.
func Source(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	meta := &Meta{Path: path}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		meta.Format = "yaml"
		inspectYAML(data, meta)
	case ".xml":
		meta.Format = "xml"
		inspectXML(data, meta)
	default:
		meta.Format = "markdown"
		inspectMarkdown(data, meta)
	}

	return meta, nil
}

// Locate resolves a source reference against the given base directories
// in order. Absolute paths are checked directly.
func Locate(source string, bases ...string) (string, bool) {
	if source == "" {
		return "", false
	}
	if filepath.IsAbs(source) {
		if _, err := os.Stat(source); err == nil {
			return source, true
		}
		return "", false
	}
	for _, base := range bases {
		candidate := filepath.Join(base, source)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func inspectYAML(data []byte, meta *Meta) {
	var doc struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Author      string `yaml:"author"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return
	}
	meta.Name = doc.Name
	meta.Description = doc.Description
	meta.Author = doc.Author
}

func inspectXML(data []byte, meta *Meta) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		meta.Element = start.Name.Local
		if len(start.Attr) > 0 {
			meta.Attributes = make(map[string]string, len(start.Attr))
			for _, attr := range start.Attr {
				meta.Attributes[attr.Name.Local] = attr.Value
			}
		}
		return
	}
}

func inspectMarkdown(data []byte, meta *Meta) {
	lines := strings.Split(string(data), "\n")

	// Skip a leading frontmatter block.
	i := 0
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i = 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				i++
				break
			}
		}
	}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if meta.Heading == "" {
				meta.Heading = strings.TrimSpace(strings.TrimLeft(line, "#"))
			}
			continue
		}
		// First paragraph: consecutive non-empty, non-heading lines.
		var paragraph []string
		for ; i < len(lines); i++ {
			text := strings.TrimSpace(lines[i])
			if text == "" || strings.HasPrefix(text, "#") {
				break
			}
			paragraph = append(paragraph, text)
		}
		meta.Excerpt = strings.Join(paragraph, " ")
		return
	}
}
