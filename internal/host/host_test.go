package host

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tstl/internal/lualib"
	"tstl/internal/source"
	"tstl/internal/transform"
	"tstl/internal/typeoracle/statictypes"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `[package]
name = "demo"

[compile]
luaTarget = "native"
luaLibImport = "require"
rootDir = "src"
strict = true
`
	if err := os.WriteFile(filepath.Join(dir, "tstl.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	// the manifest is found from a nested directory
	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest = (%v, %v)", ok, err)
	}
	if m.Config.Package.Name != "demo" {
		t.Fatalf("package name = %q", m.Config.Package.Name)
	}

	opts, err := m.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.LuaTarget != transform.TargetNative || !opts.Strict || opts.RootDir != "src" {
		t.Fatalf("options = %+v", opts)
	}
	if opts.LuaLibImport != lualib.ImportRequire {
		t.Fatalf("import kind = %v", opts.LuaLibImport)
	}
}

func TestLoadManifestRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tstl.toml"), []byte("[package]\nname = \"x\"\n[compile]\nluaTarget = \"bogus\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, ok, err := LoadManifest(dir)
	if err != nil || !ok {
		t.Fatalf("manifest load failed: %v", err)
	}
	if _, err := m.Options(); err == nil {
		t.Fatalf("bogus luaTarget accepted")
	}
}

func TestParseJSONModule(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("data.json", []byte(`{"b": [1, 2], "a": "x"}`), source.FileJSON)

	parsed, err := ParseJSONModule(fs.Get(id))
	if err != nil {
		t.Fatal(err)
	}
	if parsed.JSONValue == nil || parsed.Flags&source.FileJSON == 0 {
		t.Fatalf("json module not flagged: %+v", parsed)
	}

	checker := statictypes.NewChecker()
	checker.Bind(parsed)
	driver := NewDriver(transform.Options{LuaTarget: transform.TargetMid})
	results, err := driver.Compile(context.Background(), []Input{{File: parsed, Oracle: checker}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	// keys emit sorted for determinism
	want := "return {a = \"x\", b = {1, 2}}\n"
	if results[0].Lua != want {
		t.Fatalf("chunk = %q, want %q", results[0].Lua, want)
	}
}

func TestParseJSONModuleInvalid(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("bad.json", []byte("{nope"), source.FileJSON)
	if _, err := ParseJSONModule(fs.Get(id)); err == nil {
		t.Fatalf("invalid JSON accepted")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("tslc-test")
	if err != nil {
		t.Fatal(err)
	}

	key := DigestOf([]byte("content"), "opts-v1")
	payload := &CachePayload{
		Path:     "src/a.ts",
		Lua:      "return 1\n",
		Features: []string{"ArrayPush"},
	}
	if err := cache.Put(key, payload); err != nil {
		t.Fatal(err)
	}

	got, ok := cache.Get(key)
	if !ok {
		t.Fatalf("cache miss after put")
	}
	if got.Lua != payload.Lua || len(got.Features) != 1 || got.Features[0] != "ArrayPush" {
		t.Fatalf("payload mangled: %+v", got)
	}

	if _, ok := cache.Get(DigestOf([]byte("content"), "opts-v2")); ok {
		t.Fatalf("options fingerprint did not key the cache")
	}
	if err := cache.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get(key); ok {
		t.Fatalf("entry survived Clear")
	}
}

func TestDriverAlwaysImportKind(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("arr.json", []byte(`[1]`), source.FileJSON)
	parsed, err := ParseJSONModule(fs.Get(id))
	if err != nil {
		t.Fatal(err)
	}
	checker := statictypes.NewChecker()
	checker.Bind(parsed)

	driver := NewDriver(transform.Options{
		LuaTarget:    transform.TargetMid,
		LuaLibImport: lualib.ImportAlways,
	})
	results, err := driver.Compile(context.Background(), []Input{{File: parsed, Oracle: checker}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(results[0].Lua, "require(\"lualib_bundle\")\n") {
		t.Fatalf("always import kind missing require header:\n%s", results[0].Lua)
	}
}
