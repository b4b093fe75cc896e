package catalog

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/model"
)

// DefaultEntryID is the conventional id of the blank template.
const DefaultEntryID = "default"

// DefaultDisplayName is shown for DefaultEntryID when the index gives no name.
const DefaultDisplayName = "Empty/Blank"

// Entry is one selectable template in the catalog.
type Entry struct {
	// ID is unique within one listing.
	ID string
	// DisplayName is the human-readable name shown in the selection list.
	DisplayName string
	// Description is the one-line summary shown next to the name.
	Description string
	// SourcePath locates the template subtree relative to the catalog root. Untrusted.
	SourcePath string
}

// Label formats the entry for selection lists.
func (e Entry) Label() string {
	if e.Description == "" {
		return e.DisplayName
	}
	return e.DisplayName + " - " + e.Description
}

// ParseOptions controls how index entries are presented.
type ParseOptions struct {
	// StripPrefix is removed from the start of every description.
	StripPrefix string
	// ToolVersion is checked against the index "requires" constraint.
	// Non-semver versions such as "dev" skip the check.
	ToolVersion string
}

type rawEntry struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Path        *string `yaml:"path"`
}

// Parse decodes a catalog index (JSON or YAML) into entries in source order.
//
// Two shapes are accepted. The flake form maps ids to entries and is what
// `nix flake show --json` prints; an entry without a path key lives in the
// directory named by its id, while an explicit null path is rejected:
//
//	{"templates": {"rust": {"description": "Rust"}, "go": {"path": "golang"}}}
//
// The list form requires an explicit path:
//
//	templates:
//	  - id: rust
//	    path: rust
func Parse(data []byte, opts ParseOptions) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewFormatError(FormatSyntax, "failed to decode index", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, NewFormatError(FormatStructure, "index is empty", nil)
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, NewFormatError(FormatStructure, "index must be an object", nil)
	}

	var templates *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "templates":
			templates = value
		case "requires":
			if err := checkRequires(value.Value, opts.ToolVersion); err != nil {
				return nil, err
			}
		}
	}
	if templates == nil {
		return nil, NewFormatError(FormatStructure, `index has no "templates" field`, nil)
	}

	var raws []rawEntry
	switch templates.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(templates.Content); i += 2 {
			id := templates.Content[i].Value
			var raw rawEntry
			if err := templates.Content[i+1].Decode(&raw); err != nil {
				return nil, &FormatError{Type: FormatEntry, Message: "entry must be an object", EntryID: id, Index: i / 2, Cause: err}
			}
			raw.ID = id
			if hasNullField(templates.Content[i+1], "path") {
				return nil, NewEntryError(i/2, id, "entry has no source path")
			}
			if raw.Path == nil {
				path := id
				raw.Path = &path
			}
			raws = append(raws, raw)
		}
	case yaml.SequenceNode:
		for i, item := range templates.Content {
			var raw rawEntry
			if err := item.Decode(&raw); err != nil {
				return nil, &FormatError{Type: FormatEntry, Message: "entry must be an object", Index: i, Cause: err}
			}
			raws = append(raws, raw)
		}
	default:
		return nil, NewFormatError(FormatStructure, `"templates" must be an object or a list`, nil)
	}

	return buildEntries(raws, opts)
}

func buildEntries(raws []rawEntry, opts ParseOptions) ([]Entry, error) {
	entries := make([]Entry, 0, len(raws))
	ids := make(map[string]int, len(raws))
	paths := make(map[string]string, len(raws))

	for i, raw := range raws {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			return nil, NewEntryError(i, "", "entry has an empty id")
		}
		if first, dup := ids[id]; dup {
			return nil, NewEntryError(i, id, fmt.Sprintf("duplicate id (first defined as entry #%d)", first+1))
		}
		ids[id] = i

		if raw.Path == nil || strings.TrimSpace(*raw.Path) == "" {
			return nil, NewEntryError(i, id, "entry has no source path")
		}
		sourcePath := strings.TrimSpace(*raw.Path)

		// Aliases such as "default" point at a directory another entry already offers.
		key := sourcePath
		if normalized, err := model.ValidateRelPath(sourcePath); err == nil {
			key = normalized
		}
		if owner, aliased := paths[key]; aliased {
			debug.Debug("[catalog] Folding %s into %s (same source path %s)", id, owner, sourcePath)
			continue
		}
		paths[key] = id

		entries = append(entries, Entry{
			ID:          id,
			DisplayName: displayName(id, raw.Name),
			Description: cleanDescription(raw.Description, opts.StripPrefix),
			SourcePath:  sourcePath,
		})
	}
	return entries, nil
}

// hasNullField reports whether the mapping node sets key to an explicit null.
func hasNullField(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1].ShortTag() == "!!null"
		}
	}
	return false
}

func displayName(id, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if id == DefaultEntryID {
		return DefaultDisplayName
	}
	return id
}

func cleanDescription(desc, prefix string) string {
	desc = strings.TrimSpace(desc)
	if prefix != "" {
		desc = strings.TrimPrefix(desc, prefix)
	}
	return strings.TrimSpace(desc)
}

// checkRequires verifies the tool version satisfies the index constraint.
func checkRequires(requires, toolVersion string) error {
	if strings.TrimSpace(requires) == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(requires)
	if err != nil {
		return NewFormatError(FormatStructure, fmt.Sprintf("invalid requires constraint %q", requires), err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		debug.Debug("[catalog] Skipping requires check for non-release version %q", toolVersion)
		return nil
	}
	if !constraint.Check(v) {
		return NewFormatError(FormatUnsupported,
			fmt.Sprintf("catalog requires tpick %s, running %s", requires, toolVersion), nil)
	}
	return nil
}
