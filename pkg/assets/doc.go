// Package assets resolves Vite build outputs for server-rendered pages.
//
// A production build writes .vite/manifest.json into the output directory,
// mapping every source file to its hashed output:
//
//	{
//	  "main.js": {
//	    "file": "assets/main.12345.js",
//	    "isEntry": true,
//	    "css": ["assets/main.67890.css"]
//	  }
//	}
//
// A Resolver loads that manifest on first use and turns source paths into the
// paths to put into script and link tags:
//
//	r := assets.NewResolver(assets.Config{Dist: "public/dist"})
//	src, err := r.Resolve(ctx, "main.js")     // "dist/assets/main.12345.js"
//	css, err := r.StyleURLs(ctx, "main.js")   // ["dist/assets/main.67890.css"]
//
// When a Vite dev server answers on the configured host and port, Resolve
// returns dev server URLs instead ("http://localhost:5173/main.js") and
// DevInjectionSnippet returns the client preamble to place in the page head.
package assets
