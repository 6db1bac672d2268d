// Package errors provides structured, actionable diagnostics for vitelink.
//
// A Diagnostic carries a stable code, a category, a short message, an optional
// longer explanation, a hint on how to fix the problem and a link to the
// documentation. When the problem lives inside a file (a malformed manifest, a
// broken config file) the diagnostic also carries a source location and the
// surrounding lines.
//
// # Categories
//
//   - manifest: the bundler manifest is missing or unreadable
//   - asset: a requested source file has no compiled output
//   - devserver: the Vite dev server could not be reached
//   - config: vitelink.json / vitelink.toml / vitelink.yaml problems
//   - cli: command-line usage problems
//
// # Usage
//
//	err := errors.New("E201").
//	    WithOffset("public/build/.vite/manifest.json", 113).
//	    WithSuggestion("Run 'vite build' again to regenerate the manifest")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E201: Invalid manifest
//	//
//	//   public/build/.vite/manifest.json:4:18
//	//
//	//        2 │   "main.js": {
//	//        3 │     "file": "assets/main.12345.js",
//	//   →    4 │     "css": ["assets/main.67890.css",]
//	//          │                  ^
//	//
//	//   Hint: Run 'vite build' again to regenerate the manifest
package errors
