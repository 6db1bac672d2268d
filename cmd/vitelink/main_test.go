package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vitelink/internal/config"
)

const testManifest = `{
  "main.js": {
    "file": "assets/main.12345.js",
    "src": "main.js",
    "isEntry": true,
    "imports": ["_vendor.js"],
    "css": ["assets/main.67890.css"]
  },
  "_vendor.js": {
    "file": "assets/vendor.aaaaa.js"
  },
  "entry-no-css.js": {
    "file": "assets/entry-no-css.abcde.js",
    "isEntry": true
  }
}`

// newProject writes a vitelink.json and a built manifest into a temp dir
// and returns the config path.
func newProject(t *testing.T, cfgJSON string) string {
	t.Helper()
	dir := t.TempDir()

	manifestPath := filepath.Join(dir, "dist", ".vite", "manifest.json")
	if err := os.MkdirAll(filepath.Dir(manifestPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(manifestPath, []byte(testManifest), 0644); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(dir, config.ConfigFileName)
	if err := os.WriteFile(cfgPath, []byte(cfgJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

// runCLI runs the CLI and returns exit code, stdout and stderr.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append(args, "--no-color"), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const prodConfig = `{"dist": "dist", "dev": {"mode": "off"}}`

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version", "--short")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if out != "dev\n" {
		t.Errorf("output = %q, want %q", out, "dev\n")
	}

	_, out, _ = runCLI(t, "version")
	for _, want := range []string{"Go:", "dist/.vite/manifest.json", "http://localhost:5173", "vitelink.toml"} {
		if !strings.Contains(out, want) {
			t.Errorf("full version output missing %q:\n%s", want, out)
		}
	}

	code, out, _ = runCLI(t, "version", "--json")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var info versionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if info.Version != "dev" || info.Manifest != "dist/.vite/manifest.json" || len(info.ConfigFiles) != 4 {
		t.Errorf("version --json = %+v", info)
	}
}

func TestResolve(t *testing.T) {
	cfg := newProject(t, prodConfig)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "production",
			args: []string{"resolve", "main.js"},
			want: "dist/assets/main.12345.js\n",
		},
		{
			name: "multiple files",
			args: []string{"resolve", "main.js", "entry-no-css.js"},
			want: "dist/assets/main.12345.js\ndist/assets/entry-no-css.abcde.js\n",
		},
		{
			name: "dev server forced on",
			args: []string{"resolve", "main.js", "--dev=on"},
			want: "http://localhost:5173/main.js\n",
		},
		{
			name: "dev server port override",
			args: []string{"resolve", "main.js", "--dev=on", "--port=3000", "--host=127.0.0.1"},
			want: "http://127.0.0.1:3000/main.js\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, append(tt.args, "--config", cfg)...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr:\n%s", code, errOut)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestResolve_JSON(t *testing.T) {
	cfg := newProject(t, prodConfig)

	code, out, _ := runCLI(t, "resolve", "main.js", "--json", "--config", cfg)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}

	var got []resolvedAsset
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := resolvedAsset{File: "main.js", URL: "dist/assets/main.12345.js"}
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %+v, want [%+v]", got, want)
	}
}

func TestResolve_Errors(t *testing.T) {
	cfg := newProject(t, prodConfig)

	t.Run("asset not found", func(t *testing.T) {
		code, out, errOut := runCLI(t, "resolve", "nope.js", "--config", cfg)
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		if out != "" {
			t.Errorf("stdout = %q, want empty", out)
		}
		if !strings.Contains(errOut, "E202") || !strings.Contains(errOut, "nope.js") {
			t.Errorf("stderr missing E202 diagnostic:\n%s", errOut)
		}
	})

	t.Run("manifest not found", func(t *testing.T) {
		code, _, errOut := runCLI(t, "resolve", "main.js", "--dist", t.TempDir(), "--config", cfg)
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		if !strings.Contains(errOut, "E200") {
			t.Errorf("stderr missing E200 diagnostic:\n%s", errOut)
		}
	})

	t.Run("json error", func(t *testing.T) {
		code, _, errOut := runCLI(t, "resolve", "nope.js", "--json", "--config", cfg)
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		var got struct {
			Code string `json:"code"`
		}
		// The last stderr line is the JSON diagnostic; earlier lines are logs.
		lines := strings.Split(strings.TrimSpace(errOut), "\n")
		if err := json.Unmarshal([]byte(lines[len(lines)-1]), &got); err != nil {
			t.Fatalf("decode %q: %v", errOut, err)
		}
		if got.Code != "E202" {
			t.Errorf("code = %q, want E202", got.Code)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		code, _, _ := runCLI(t, "resolve", "--config", cfg)
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
	})
}

func TestStyles(t *testing.T) {
	cfg := newProject(t, prodConfig)

	code, out, _ := runCLI(t, "styles", "main.js", "--config", cfg)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if out != "dist/assets/main.67890.css\n" {
		t.Errorf("output = %q", out)
	}

	// Stylesheets come from the manifest even with the dev server on.
	code, out, _ = runCLI(t, "styles", "main.js", "--dev=on", "--config", cfg)
	if code != 0 || out != "dist/assets/main.67890.css\n" {
		t.Errorf("dev styles = (%d, %q)", code, out)
	}

	code, out, _ = runCLI(t, "styles", "entry-no-css.js", "--json", "--config", cfg)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("json output = %q, want []", out)
	}
}

func TestSnippet(t *testing.T) {
	cfg := newProject(t, prodConfig)

	t.Run("inactive", func(t *testing.T) {
		code, out, _ := runCLI(t, "snippet", "--config", cfg)
		if code != 0 {
			t.Fatalf("exit code = %d", code)
		}
		if out != "" {
			t.Errorf("output = %q, want empty", out)
		}
	})

	t.Run("inactive required", func(t *testing.T) {
		code, _, errOut := runCLI(t, "snippet", "--require", "--config", cfg)
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		if !strings.Contains(errOut, "E220") {
			t.Errorf("stderr missing E220:\n%s", errOut)
		}
	})

	t.Run("active", func(t *testing.T) {
		code, out, _ := runCLI(t, "snippet", "--dev=on", "--port=5999", "--config", cfg)
		if code != 0 {
			t.Fatalf("exit code = %d", code)
		}
		if !strings.Contains(out, "http://localhost:5999/@vite/client") {
			t.Errorf("snippet missing client script:\n%s", out)
		}
		if strings.Contains(out, "{port}") {
			t.Errorf("snippet has unreplaced placeholder:\n%s", out)
		}
	})

	t.Run("custom template", func(t *testing.T) {
		dir := filepath.Dir(cfg)
		if err := os.WriteFile(filepath.Join(dir, "refresh.html"), []byte(`<script src="//localhost:{port}/x"></script>`), 0644); err != nil {
			t.Fatal(err)
		}
		custom := filepath.Join(dir, "custom.json")
		if err := os.WriteFile(custom, []byte(`{"dist": "dist", "snippet": "refresh.html", "dev": {"mode": "on"}}`), 0644); err != nil {
			t.Fatal(err)
		}

		code, out, errOut := runCLI(t, "snippet", "--config", custom)
		if code != 0 {
			t.Fatalf("exit code = %d, stderr:\n%s", code, errOut)
		}
		if out != `<script src="//localhost:5173/x"></script>` {
			t.Errorf("output = %q", out)
		}
	})
}

func TestStatus(t *testing.T) {
	cfg := newProject(t, prodConfig)

	code, out, _ := runCLI(t, "status", "--json", "--config", cfg)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}

	var got statusReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.DevServer || got.DevMode != "off" {
		t.Errorf("dev = (%v, %q)", got.DevServer, got.DevMode)
	}
	if got.DistBaseName != "dist" {
		t.Errorf("DistBaseName = %q", got.DistBaseName)
	}
	if got.Manifest != (manifestStatus{Loaded: true, Assets: 3, Entries: 2}) {
		t.Errorf("Manifest = %+v", got.Manifest)
	}

	// A missing manifest is reported, not fatal.
	code, out, _ = runCLI(t, "status", "--dist", t.TempDir(), "--config", cfg)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "manifest not found") {
		t.Errorf("status output missing manifest error:\n%s", out)
	}
}

func TestManifest(t *testing.T) {
	cfg := newProject(t, prodConfig)

	t.Run("table", func(t *testing.T) {
		code, out, _ := runCLI(t, "manifest", "--config", cfg)
		if code != 0 {
			t.Fatalf("exit code = %d", code)
		}
		for _, want := range []string{"SOURCE", "main.js", "assets/vendor.aaaaa.js", "assets/main.67890.css"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json entries", func(t *testing.T) {
		code, out, _ := runCLI(t, "manifest", "--entries", "--json", "--config", cfg)
		if code != 0 {
			t.Fatalf("exit code = %d", code)
		}
		var got []manifestEntry
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode %q: %v", out, err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d entries, want 2", len(got))
		}
		// Sorted by source path.
		if got[0].Origin != "entry-no-css.js" || got[1].Origin != "main.js" {
			t.Errorf("origins = %q, %q", got[0].Origin, got[1].Origin)
		}
		if got[1].URL != "dist/assets/main.12345.js" {
			t.Errorf("URL = %q", got[1].URL)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		code, out, _ := runCLI(t, "manifest", "--format=yaml", "--config", cfg)
		if code != 0 {
			t.Fatalf("exit code = %d", code)
		}
		for _, want := range []string{"origin: main.js", "file: assets/main.12345.js", "isEntry: true"} {
			if !strings.Contains(out, want) {
				t.Errorf("yaml missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		code, _, errOut := runCLI(t, "manifest", "--format=xml", "--config", cfg)
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		if !strings.Contains(errOut, "E261") {
			t.Errorf("stderr missing E261:\n%s", errOut)
		}
	})
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing config file", []string{"resolve", "main.js", "--config", filepath.Join(t.TempDir(), "vitelink.json")}, "E260"},
		{"invalid dev mode", []string{"resolve", "main.js", "--dev=maybe", "--config", newProject(t, prodConfig)}, "E243"},
		{"invalid port", []string{"resolve", "main.js", "--port=99999", "--config", newProject(t, prodConfig)}, "E242"},
		{"broken config", []string{"resolve", "main.js", "--config", newProject(t, `{"dist": `)}, "E240"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(errOut, tt.code) {
				t.Errorf("stderr missing %s:\n%s", tt.code, errOut)
			}
		})
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	code, out, errOut := runCLI(t, "init", dir, "--format=toml", "--dist=public/build", "--port=4000")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "Created") {
		t.Errorf("output = %q", out)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dist != "public/build" || cfg.Dev.Port != 4000 {
		t.Errorf("config = dist %q, port %d", cfg.Dist, cfg.Dev.Port)
	}

	code, _, _ = runCLI(t, "init", dir)
	if code != 1 {
		t.Errorf("second init exit code = %d, want 1", code)
	}

	code, _, errOut = runCLI(t, "init", dir, "--force")
	if code != 0 {
		t.Errorf("forced init exit code = %d, stderr:\n%s", code, errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Errorf("forced init did not write vitelink.json: %v", err)
	}

	code, _, errOut = runCLI(t, "init", t.TempDir(), "--format=ini")
	if code != 1 || !strings.Contains(errOut, "E261") {
		t.Errorf("unknown format = (%d, %q)", code, errOut)
	}
}
