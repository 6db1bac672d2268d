package errors

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "manifest not found",
			code:    "E200",
			wantMsg: "Manifest not found",
			wantCat: CategoryManifest,
		},
		{
			name:    "asset not found",
			code:    "E202",
			wantMsg: "Asset not found",
			wantCat: CategoryAsset,
		},
		{
			name:    "config error",
			code:    "E242",
			wantMsg: "Invalid port number",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "main.js")
	if err.Message != `file "main.js" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "main.js" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestDiagnostic_Error(t *testing.T) {
	err := New("E202")
	if got, want := err.Error(), "E202: Asset not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &Diagnostic{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}

	err3 := New("E200").WithLocation("dist/.vite/manifest.json", 0, 0)
	if got, want := err3.Error(), "E200: Manifest not found (dist/.vite/manifest.json)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDiagnostic_WithLocation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "manifest.json")
	content := "{\n  \"main.js\": {\n    \"file\": \"assets/main.js\",\n  }\n}\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E201").WithLocation(tmpFile, 3, 30)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile {
		t.Errorf("Location.File = %q, want %q", err.Location.File, tmpFile)
	}
	if err.Location.Line != 3 {
		t.Errorf("Location.Line = %d, want %d", err.Location.Line, 3)
	}
	if len(err.Context) == 0 {
		t.Error("Context should not be empty")
	}

	whole := New("E201").WithLocation(tmpFile, 0, 0)
	if len(whole.Context) != 0 {
		t.Errorf("Context = %v, want none for a whole-file location", whole.Context)
	}
}

func TestDiagnostic_WithOffset(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "manifest.json")
	content := "{\n  \"a\": 1,\n  oops\n}\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	// Offset 15 sits right after the "o" of "oops".
	err := New("E201").WithOffset(tmpFile, 15)
	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.Line != 3 || err.Location.Column != 3 {
		t.Errorf("Location = %d:%d, want 3:3", err.Location.Line, err.Location.Column)
	}

	missing := New("E201").WithOffset(filepath.Join(t.TempDir(), "nope.json"), 10)
	if missing.Location == nil || missing.Location.Line != 0 {
		t.Errorf("missing file should produce a whole-file location, got %+v", missing.Location)
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("ab\ncd\nef")
	tests := []struct {
		offset int64
		line   int
		col    int
	}{
		{1, 1, 1},
		{2, 1, 2},
		{4, 2, 1},
		{8, 3, 2},
		{100, 3, 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.offset), func(t *testing.T) {
			line, col := lineColumn(data, tt.offset)
			if line != tt.line || col != tt.col {
				t.Errorf("lineColumn(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
			}
		})
	}
}

func TestDiagnostic_WithSuggestion(t *testing.T) {
	err := New("E200").WithSuggestion("Run 'vite build'")
	if err.Suggestion != "Run 'vite build'" {
		t.Errorf("Suggestion = %q, want %q", err.Suggestion, "Run 'vite build'")
	}
}

func TestDiagnostic_WithDetail(t *testing.T) {
	err := New("E200").WithDetail("Custom detail")
	if err.Detail != "Custom detail" {
		t.Errorf("Detail = %q, want %q", err.Detail, "Custom detail")
	}
}

func TestDiagnostic_Wrap(t *testing.T) {
	inner := New("E201")
	outer := New("E200").Wrap(inner)

	if outer.Wrapped != inner {
		t.Error("Wrapped error mismatch")
	}
	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E200") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	d := New("E200")
	if FromError(d, "E201") != d {
		t.Error("FromError should return Diagnostic as-is")
	}

	stdErr := &testError{msg: "test error"}
	result := FromError(stdErr, "E200")
	if result.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

type diagnosingError struct{}

func (diagnosingError) Error() string { return "asset missing" }

func (diagnosingError) Diagnostic() *Diagnostic { return New("E202") }

func TestAs(t *testing.T) {
	d, ok := As(fmt.Errorf("outer: %w", New("E200")))
	if !ok || d.Code != "E200" {
		t.Errorf("As(wrapped diagnostic) = %v, %v", d, ok)
	}

	d, ok = As(fmt.Errorf("outer: %w", diagnosingError{}))
	if !ok || d.Code != "E202" {
		t.Errorf("As(diagnoser) = %v, %v", d, ok)
	}

	if _, ok := As(&testError{msg: "plain"}); ok {
		t.Error("As(plain error) should report false")
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{
			name: "nil location",
			loc:  nil,
			want: "",
		},
		{
			name: "with column",
			loc:  &Location{File: "manifest.json", Line: 10, Column: 5},
			want: "manifest.json:10:5",
		},
		{
			name: "without column",
			loc:  &Location{File: "manifest.json", Line: 10, Column: 0},
			want: "manifest.json:10",
		},
		{
			name: "whole file",
			loc:  &Location{File: "manifest.json"},
			want: "manifest.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.loc.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "manifest.json")
	content := "{\n  \"main.js\": {\n    \"file\": \"assets/main.js\",\n  }\n}\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E201").
		WithLocation(tmpFile, 4, 3).
		WithSuggestion("Rebuild with 'vite build'").
		Wrap(&testError{msg: "invalid character '}'"})

	formatted := err.Format()

	for _, want := range []string{"E201", "Invalid manifest", tmpFile, "Hint:", "Cause:", "Learn more:", "^"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format should contain %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E201").WithLocation("manifest.json", 10, 5)
	compact := err.FormatCompact()

	want := "manifest.json:10:5: E201: Invalid manifest"
	if compact != want {
		t.Errorf("FormatCompact() = %q, want %q", compact, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E201").WithLocation("manifest.json", 10, 5)
	json := err.FormatJSON()

	if !strings.Contains(json, `"code":"E201"`) {
		t.Error("JSON should contain code")
	}
	if !strings.Contains(json, `"category":"manifest"`) {
		t.Error("JSON should contain category")
	}
	if !strings.Contains(json, `"message":"Invalid manifest"`) {
		t.Error("JSON should contain message")
	}
	if !strings.Contains(json, `"location":{"file":"manifest.json","line":10,"column":5}`) {
		t.Errorf("JSON should contain location, got %s", json)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, diagnosingError{})
	if !strings.Contains(buf.String(), "ERROR E202: Asset not found") {
		t.Errorf("Fprint(diagnoser) = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, &testError{msg: "boom"})
	if !strings.Contains(buf.String(), "ERROR: boom") {
		t.Errorf("Fprint(plain) = %q", buf.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Error("GetAllCodes() should return codes")
	}

	found := false
	for _, code := range codes {
		if code == "E200" {
			found = true
			break
		}
	}
	if !found {
		t.Error("E200 should be in the codes list")
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("E200")
	if !ok {
		t.Error("E200 should exist")
	}
	if template.Message != "Manifest not found" {
		t.Error("Template message mismatch")
	}

	_, ok = GetTemplate("E999")
	if ok {
		t.Error("E999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryCLI,
		Message:  "Custom test error",
		Detail:   "This is a test error",
		DocURL:   "https://test.dev/E999",
	})
	defer delete(registry, "E999")

	err := New("E999")
	if err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	got = wrapText("", 10)
	if len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
