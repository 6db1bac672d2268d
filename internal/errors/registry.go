package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Manifest and Asset Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryManifest,
		Message:  "Manifest not found",
		Detail:   "No Vite manifest exists at the configured path. When the path is a directory, .vite/manifest.json inside it is tried.",
		DocURL:   "https://vitelink.dev/docs/errors/E200",
	},
	"E201": {
		Category: CategoryManifest,
		Message:  "Invalid manifest",
		Detail:   "The manifest file exists but is not a JSON object of Vite chunks, or an entry has no \"file\".",
		DocURL:   "https://vitelink.dev/docs/errors/E201",
	},
	"E202": {
		Category: CategoryAsset,
		Message:  "Asset not found",
		Detail:   "The manifest has no entry for the requested source file. Only files reachable from the Vite build inputs appear in the manifest.",
		DocURL:   "https://vitelink.dev/docs/errors/E202",
	},

	// ============================================
	// Dev Server Errors (E220-E229)
	// ============================================

	"E220": {
		Category: CategoryDevServer,
		Message:  "Dev server unreachable",
		Detail:   "The Vite dev server did not answer the probe. Assets are resolved from the manifest instead.",
		DocURL:   "https://vitelink.dev/docs/errors/E220",
	},

	// ============================================
	// Configuration Errors (E240-E259)
	// ============================================

	"E240": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The vitelink configuration file is malformed.",
		DocURL:   "https://vitelink.dev/docs/errors/E240",
	},
	"E241": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   "https://vitelink.dev/docs/errors/E241",
	},
	"E242": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is outside 1-65535.",
		DocURL:   "https://vitelink.dev/docs/errors/E242",
	},
	"E243": {
		Category: CategoryConfig,
		Message:  "Invalid dev mode",
		Detail:   "dev.mode must be one of \"auto\", \"on\" or \"off\".",
		DocURL:   "https://vitelink.dev/docs/errors/E243",
	},
	"E244": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Durations are written the Go way, for example \"5s\" or \"250ms\".",
		DocURL:   "https://vitelink.dev/docs/errors/E244",
	},

	// ============================================
	// CLI Errors (E260-E279)
	// ============================================

	"E260": {
		Category: CategoryCLI,
		Message:  "Not a vitelink project",
		Detail:   "No vitelink configuration file was found in the current directory or any parent.",
		DocURL:   "https://vitelink.dev/docs/errors/E260",
	},
	"E261": {
		Category: CategoryCLI,
		Message:  "Unsupported output format",
		Detail:   "The requested output format is not supported by this command.",
		DocURL:   "https://vitelink.dev/docs/errors/E261",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
