package assets

import (
	"encoding/json"
	"errors"
	"fmt"

	diag "github.com/vango-dev/vitelink/internal/errors"
)

// ErrorKind tells the resolution failures apart.
type ErrorKind int

const (
	// KindManifestNotFound: no manifest at the resolved path.
	KindManifestNotFound ErrorKind = iota + 1
	// KindInvalidManifest: the manifest exists but cannot be decoded.
	KindInvalidManifest
	// KindAssetNotFound: the manifest has no entry for the requested file.
	KindAssetNotFound
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindManifestNotFound:
		return "ManifestNotFound"
	case KindInvalidManifest:
		return "InvalidManifest"
	case KindAssetNotFound:
		return "AssetNotFound"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by the Resolver when a manifest or an asset cannot be
// found or read. Path is the manifest path for the manifest kinds and the
// requested source path for KindAssetNotFound.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrManifestNotFound = &Error{Kind: KindManifestNotFound}
	ErrInvalidManifest  = &Error{Kind: KindInvalidManifest}
	ErrAssetNotFound    = &Error{Kind: KindAssetNotFound}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindManifestNotFound:
		msg = "manifest not found at: " + e.Path
	case KindInvalidManifest:
		msg = "invalid JSON in manifest file: " + e.Path
	case KindAssetNotFound:
		msg = fmt.Sprintf("asset for file %q not found", e.Path)
	default:
		msg = e.Kind.String() + ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A target carrying a
// path only matches errors for that path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Path == "" || t.Path == e.Path)
}

// Diagnostic describes the error for terminal output.
func (e *Error) Diagnostic() *diag.Diagnostic {
	switch e.Kind {
	case KindManifestNotFound:
		return diag.New("E200").
			WithLocation(e.Path, 0, 0).
			WithSuggestion("Run 'vite build' with build.manifest enabled, or point the manifest setting at the file").
			Wrap(e.Err)
	case KindInvalidManifest:
		d := diag.New("E201").Wrap(e.Err)
		var syntaxErr *json.SyntaxError
		if errors.As(e.Err, &syntaxErr) {
			d.WithOffset(e.Path, syntaxErr.Offset)
		} else {
			d.WithLocation(e.Path, 0, 0)
		}
		return d.WithSuggestion("Rebuild the frontend to regenerate the manifest")
	case KindAssetNotFound:
		return diag.New("E202").
			WithDetail(fmt.Sprintf("No manifest entry for %q.", e.Path)).
			WithSuggestion("Check the path against the keys of the manifest, or add the file to build.rollupOptions.input")
	default:
		return diag.Newf(diag.CategoryManifest, "%s", e.Error())
	}
}

func manifestNotFound(path string, err error) error {
	return &Error{Kind: KindManifestNotFound, Path: path, Err: err}
}

func invalidManifest(path string, err error) error {
	return &Error{Kind: KindInvalidManifest, Path: path, Err: err}
}

func assetNotFound(filePath string) error {
	return &Error{Kind: KindAssetNotFound, Path: filePath}
}
