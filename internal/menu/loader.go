package menu

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/appetiteclub/apt"
)

//go:embed menu.json
var defaultMenu []byte

// Load builds the catalog from menu.file when set, otherwise from the
// embedded house menu. Priority dishes come from menu.priority.
func Load(config *apt.Config, logger apt.Logger) (*Catalog, error) {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	data := defaultMenu
	source := "embedded"
	priority := DefaultPriorityDishes

	if config != nil {
		if path, ok := config.GetString("menu.file"); ok && path != "" {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("cannot read menu file: %w", err)
			}
			data = raw
			source = path
		}
		priority = config.GetStringSliceOrDef("menu.priority", DefaultPriorityDishes)
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, err
	}

	catalog, err := NewCatalog(entries, priority)
	if err != nil {
		return nil, err
	}

	logger.Info("menu loaded", "source", source, "items", catalog.Len(), "priority_dishes", len(priority))
	return catalog, nil
}

// Parse decodes a JSON menu document.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("cannot parse menu: %w", err)
	}
	return entries, nil
}
