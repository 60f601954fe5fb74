package glyph

import (
	"encoding/json"
	"fmt"
)

// FontConfig is the code point summary handed to renderers and font
// tooling. Field names follow the font build's JSON format.
type FontConfig struct {
	Revision    string         `json:"revision"`
	Placeholder uint32         `json:"placeholder"`
	Systems     []SystemConfig `json:"systems"`
	Symbols     []SymbolInfo   `json:"symbols"`
}

// SystemConfig describes one notation system's code point range.
type SystemConfig struct {
	SystemName           string `json:"system_name"`
	PUABase              uint32 `json:"pua_base"`
	CharCount            int    `json:"char_count"`
	VariantsPerCharacter int    `json:"variants_per_character"`
	TotalGlyphs          int    `json:"total_glyphs"`
}

// SymbolInfo names a single symbol code point.
type SymbolInfo struct {
	Name      string `json:"name"`
	Codepoint uint32 `json:"codepoint"`
	Label     string `json:"label"`
}

// FontConfig summarizes the registry.
func (r *Registry) FontConfig() FontConfig {
	fc := FontConfig{
		Revision:    r.revision,
		Placeholder: uint32(r.placeholder),
		Systems:     make([]SystemConfig, 0, len(r.systems)),
	}
	for _, s := range r.systems {
		fc.Systems = append(fc.Systems, SystemConfig{
			SystemName:           s.name,
			PUABase:              uint32(s.Base()),
			CharCount:            s.CharCount(),
			VariantsPerCharacter: s.VariantsPerCharacter(),
			TotalGlyphs:          s.TotalGlyphs(),
		})
	}
	for _, set := range r.symbols {
		for i, v := range set.variants {
			label := v
			if set.label != "" {
				label = fmt.Sprintf("%s (%s)", set.label, v)
			}
			fc.Symbols = append(fc.Symbols, SymbolInfo{
				Name:      set.Name() + "." + v,
				Codepoint: uint32(set.category.base) + uint32(i),
				Label:     label,
			})
		}
	}
	return fc
}

// JSON encodes the configuration with indentation.
func (fc FontConfig) JSON() ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}
