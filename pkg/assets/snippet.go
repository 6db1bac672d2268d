package assets

import (
	_ "embed"
	"strconv"
	"strings"
)

// DefaultSnippetTemplate is the React refresh preamble plus the Vite client,
// injected into pages while the dev server runs.
//
//go:embed react-refresh.html
var DefaultSnippetTemplate string

// portPlaceholder is replaced by the configured dev-server port.
const portPlaceholder = "{port}"

// renderSnippet substitutes every port placeholder in tmpl.
func renderSnippet(tmpl string, port int) string {
	return strings.ReplaceAll(tmpl, portPlaceholder, strconv.Itoa(port))
}
