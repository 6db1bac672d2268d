package assets

import "fmt"

// RawAsset is one chunk record as written by Vite in .vite/manifest.json.
type RawAsset struct {
	File           string   `json:"file"`
	Name           string   `json:"name,omitempty"`
	Src            string   `json:"src,omitempty"`
	IsEntry        bool     `json:"isEntry,omitempty"`
	IsDynamicEntry bool     `json:"isDynamicEntry,omitempty"`
	Imports        []string `json:"imports,omitempty"`
	DynamicImports []string `json:"dynamicImports,omitempty"`
	CSS            []string `json:"css,omitempty"`
	Assets         []string `json:"assets,omitempty"`
}

// Asset describes one compiled output unit of the manifest.
//
// Origin is the source path the manifest is keyed by ("main.js"), File the
// hashed output path relative to the output directory ("assets/main.12345.js").
// Slices are never nil. Assets are values; callers must not modify the slices
// they read from one.
type Asset struct {
	Origin         string
	File           string
	Name           string
	Src            string
	IsEntry        bool
	IsDynamicEntry bool
	Imports        []string
	DynamicImports []string
	CSS            []string
	Assets         []string
}

// NewAsset builds an Asset for origin from its raw manifest record.
//
// The record must carry a file. A record without one is a programming error
// (ParseManifest rejects such manifests before they get here) and panics.
func NewAsset(origin string, raw RawAsset) Asset {
	if raw.File == "" {
		panic(fmt.Sprintf("assets: manifest entry %q has no file", origin))
	}
	return Asset{
		Origin:         origin,
		File:           raw.File,
		Name:           raw.Name,
		Src:            raw.Src,
		IsEntry:        raw.IsEntry,
		IsDynamicEntry: raw.IsDynamicEntry,
		Imports:        cloneStrings(raw.Imports),
		DynamicImports: cloneStrings(raw.DynamicImports),
		CSS:            cloneStrings(raw.CSS),
		Assets:         cloneStrings(raw.Assets),
	}
}

// HasCSS reports whether the asset pulls in any stylesheet bundle.
func (a Asset) HasCSS() bool {
	return len(a.CSS) > 0
}

// cloneStrings copies s, turning nil into an empty slice.
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
