package detect

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goatminify/goatminify/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed types.yaml
var embeddedTypes []byte

// TypeInfo describes one content type declaratively. Extensions are stored
// lowercase and without the leading dot.
type TypeInfo struct {
	// Type is the content type identifier (e.g., "js", "md")
	Type models.ContentType `yaml:"type"`

	// DisplayName is the human-readable label (e.g., "Markdown")
	DisplayName string `yaml:"display_name"`

	// Extensions lists filename extensions that hint at this type
	Extensions []string `yaml:"extensions"`

	// OutputExtension is used when naming minified output files
	OutputExtension string `yaml:"output_extension"`

	// MediaType selects the minification engine for this type
	MediaType string `yaml:"media_type"`
}

type typeTableFile struct {
	Types []TypeInfo `yaml:"types"`
}

// TypeTable indexes TypeInfo by content type and by extension.
type TypeTable struct {
	byType map[models.ContentType]TypeInfo
	byExt  map[string]models.ContentType
}

// ParseTypeTable parses YAML data into a TypeTable, validating each entry
// and normalizing extensions.
func ParseTypeTable(data []byte) (*TypeTable, error) {
	var file typeTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse type table: %w", err)
	}

	table := &TypeTable{
		byType: make(map[models.ContentType]TypeInfo, len(file.Types)),
		byExt:  make(map[string]models.ContentType),
	}

	for i, info := range file.Types {
		for j, ext := range info.Extensions {
			info.Extensions[j] = strings.TrimPrefix(strings.ToLower(ext), ".")
		}
		if err := info.Validate(); err != nil {
			return nil, fmt.Errorf("type table entry %d: %w", i, err)
		}
		if _, dup := table.byType[info.Type]; dup {
			return nil, fmt.Errorf("type table entry %d: duplicate type %q", i, info.Type)
		}
		table.byType[info.Type] = info
		for _, ext := range info.Extensions {
			if owner, dup := table.byExt[ext]; dup {
				return nil, fmt.Errorf("type table entry %d: extension %q already claimed by %q", i, ext, owner)
			}
			table.byExt[ext] = info.Type
		}
	}

	return table, nil
}

// Validate checks that all required fields are present and valid.
func (t TypeInfo) Validate() error {
	var missing []string

	if t.Type == "" {
		missing = append(missing, "type")
	}
	if t.DisplayName == "" {
		missing = append(missing, "display_name")
	}
	if len(t.Extensions) == 0 {
		missing = append(missing, "extensions")
	}
	if t.OutputExtension == "" {
		missing = append(missing, "output_extension")
	}
	if t.MediaType == "" {
		missing = append(missing, "media_type")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if !t.Type.IsValid() {
		return fmt.Errorf("unknown content type %q", t.Type)
	}

	return nil
}

var (
	defaultTableOnce sync.Once
	defaultTable     *TypeTable
)

// DefaultTypeTable returns the table compiled into the binary. The embedded
// data is validated by tests, so a parse failure here is a build defect.
func DefaultTypeTable() *TypeTable {
	defaultTableOnce.Do(func() {
		table, err := ParseTypeTable(embeddedTypes)
		if err != nil {
			panic(fmt.Sprintf("detect: invalid embedded type table: %v", err))
		}
		defaultTable = table
	})
	return defaultTable
}

// ByExtension returns the type claimed by ext. A leading dot is ignored and
// the lookup is case-insensitive.
func (tt *TypeTable) ByExtension(ext string) (models.ContentType, bool) {
	t, ok := tt.byExt[strings.TrimPrefix(strings.ToLower(ext), ".")]
	return t, ok
}

// Info returns the entry for t and whether one exists.
func (tt *TypeTable) Info(t models.ContentType) (TypeInfo, bool) {
	info, ok := tt.byType[t]
	return info, ok
}

// DisplayName returns the label for t, falling back to the upper-cased name.
func (tt *TypeTable) DisplayName(t models.ContentType) string {
	if info, ok := tt.byType[t]; ok {
		return info.DisplayName
	}
	return strings.ToUpper(string(t))
}

// OutputExtension returns the file extension for minified output of type t.
func (tt *TypeTable) OutputExtension(t models.ContentType) string {
	if info, ok := tt.byType[t]; ok {
		return info.OutputExtension
	}
	return "txt"
}

// MediaType returns the engine media type for t.
func (tt *TypeTable) MediaType(t models.ContentType) string {
	if info, ok := tt.byType[t]; ok {
		return info.MediaType
	}
	return "text/plain"
}

// AcceptedExtensions returns every known extension, sorted.
func (tt *TypeTable) AcceptedExtensions() []string {
	exts := make([]string, 0, len(tt.byExt))
	for ext := range tt.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsAccepted reports whether ext belongs to a known type.
func (tt *TypeTable) IsAccepted(ext string) bool {
	_, ok := tt.ByExtension(ext)
	return ok
}
