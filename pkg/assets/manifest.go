package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Manifest indexes the assets of a Vite manifest by origin.
// It is safe for concurrent use.
type Manifest struct {
	entries map[string]Asset
	mu      sync.RWMutex
}

// errNotObject is reported for manifests whose top level is not a JSON object.
var errNotObject = errors.New("manifest is not a JSON object")

// NewManifest builds a Manifest from decoded manifest records.
// Every record must carry a file; see NewAsset.
func NewManifest(raw map[string]RawAsset) *Manifest {
	m := &Manifest{entries: make(map[string]Asset, len(raw))}
	for origin, rec := range raw {
		m.Add(NewAsset(origin, rec))
	}
	return m
}

// ParseManifest decodes the contents of a .vite/manifest.json file.
//
// The top level must be a JSON object and every entry must name its output
// file. When a key appears twice the last occurrence wins.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw map[string]RawAsset
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return nil, fmt.Errorf("%w: found %s", errNotObject, typeErr.Value)
		}
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: found null", errNotObject)
	}

	var missing []string
	for origin, rec := range raw {
		if rec.File == "" {
			missing = append(missing, origin)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, fmt.Errorf("manifest entries without \"file\": %s", strings.Join(missing, ", "))
	}

	return NewManifest(raw), nil
}

// Add inserts an asset, replacing any asset with the same origin.
func (m *Manifest) Add(a Asset) *Manifest {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[a.Origin] = a
	return m
}

// Get returns the asset whose origin is the given source path.
func (m *Manifest) Get(origin string) (Asset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.entries[origin]
	return a, ok
}

// Has returns true if the manifest contains the given source path.
func (m *Manifest) Has(origin string) bool {
	_, ok := m.Get(origin)
	return ok
}

// Len returns the number of assets in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Assets returns all assets ordered by origin.
// The order is not the order of the manifest file.
func (m *Manifest) Assets() []Asset {
	m.mu.RLock()
	all := lo.Values(m.entries)
	m.mu.RUnlock()

	slices.SortFunc(all, func(a, b Asset) int {
		return strings.Compare(a.Origin, b.Origin)
	})
	return all
}

// Entries returns the build entry points ordered by origin.
func (m *Manifest) Entries() []Asset {
	return lo.Filter(m.Assets(), func(a Asset, _ int) bool {
		return a.IsEntry
	})
}

// Emitted reports whether file is an output the manifest references, as a
// chunk, a stylesheet or a static asset.
func (m *Manifest) Emitted(file string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.entries {
		if a.File == file || slices.Contains(a.CSS, file) || slices.Contains(a.Assets, file) {
			return true
		}
	}
	return false
}
