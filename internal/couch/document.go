package couch

import (
	"encoding/json"
	"strings"
)

const designPrefix = "_design/"

// Document is a fetched document. Fields holds the full body, including
// _id and _rev.
type Document struct {
	ID     string
	Rev    string
	Fields map[string]any
}

// View is a map/reduce pair from a design document
type View struct {
	Map    string `json:"map"`
	Reduce string `json:"reduce,omitempty"`
}

// IsDesignID reports whether id names a design document
func IsDesignID(id string) bool {
	return strings.HasPrefix(id, designPrefix)
}

// IsDesign reports whether this is a design document
func (d *Document) IsDesign() bool {
	return IsDesignID(d.ID)
}

// Views returns the views of a design document, or nil for regular
// documents and design documents without views.
func (d *Document) Views() map[string]View {
	if !d.IsDesign() {
		return nil
	}
	raw, ok := d.Fields["views"].(map[string]any)
	if !ok {
		return nil
	}
	views := make(map[string]View, len(raw))
	for name, v := range raw {
		def, ok := v.(map[string]any)
		if !ok {
			continue
		}
		mapFn, _ := def["map"].(string)
		reduceFn, _ := def["reduce"].(string)
		views[name] = View{Map: mapFn, Reduce: reduceFn}
	}
	return views
}

// MarshalJSON encodes the document body
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Fields)
}
