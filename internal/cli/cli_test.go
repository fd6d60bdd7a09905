package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	kio "github.com/matzehuels/kintree/pkg/io"
	"github.com/matzehuels/kintree/pkg/projection"
)

// isolate points the config and cache directories at fresh temp dirs.
func isolate(t *testing.T) (cacheDir string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	return filepath.Join(cacheHome, appName)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&out, &logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "kintree %s", strings.Join(args, " "))
	return out
}

func idOf(t *testing.T, path, name string) string {
	t.Helper()
	persons, err := kio.Import(path)
	require.NoError(t, err)
	for _, p := range persons {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("no person named %q in %s", name, path)
	return ""
}

// seedFamily writes Tom and Ann (married) with their son Joe.
func seedFamily(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "family.yaml")
	mustExecute(t, "person", "add", path, "--name", "Tom", "--gender", "male", "--birth", "1950-03-01")
	tom := idOf(t, path, "Tom")
	mustExecute(t, "person", "add", path, "--name", "Ann", "--gender", "female", "--spouse", tom)
	ann := idOf(t, path, "Ann")
	mustExecute(t, "person", "add", path, "--name", "Joe", "--gender", "male",
		"--parent", tom, "--parent", ann, "--birth", "1980-06-15")
	return path
}

func TestPersonAdd(t *testing.T) {
	isolate(t)
	path := seedFamily(t)

	persons, err := kio.Import(path)
	require.NoError(t, err)
	require.Len(t, persons, 3)
	joe := persons[2]
	assert.Equal(t, "Joe", joe.Name)
	assert.ElementsMatch(t, []string{persons[0].ID, persons[1].ID}, joe.Parents)
	assert.Equal(t, persons[1].ID, persons[0].Spouse)

	store := family.NewStore(family.Options{})
	require.NoError(t, store.Load(persons))
	assert.NoError(t, store.Verify())
}

func TestPersonAddRejections(t *testing.T) {
	isolate(t)
	path := seedFamily(t)
	joe := idOf(t, path, "Joe")
	tom := idOf(t, path, "Tom")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing gender", []string{"--name", "X"}, errors.ErrCodeInvalidInput},
		{"bad date", []string{"--name", "X", "--gender", "male", "--birth", "01/02/1990"}, errors.ErrCodeInvalidInput},
		{"duplicate name", []string{"--name", "Tom", "--gender", "male"}, errors.ErrCodeConflict},
		{"unknown parent", []string{"--name", "X", "--gender", "male", "--parent", "nobody"}, errors.ErrCodeNotFound},
		{"born before parent", []string{"--name", "X", "--gender", "male", "--parent", joe, "--birth", "1970-01-01"},
			errors.ErrCodeInvalidRelationship},
		{"two fathers", []string{"--name", "X", "--gender", "male", "--parent", tom, "--parent", joe},
			errors.ErrCodeInvalidRelationship},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"person", "add", path}, tt.args...)
			_, err := execute(t, args...)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("person add code = %v, want %v (err %v)", got, tt.code, err)
			}
		})
	}

	persons, err := kio.Import(path)
	require.NoError(t, err)
	assert.Len(t, persons, 3, "rejected adds must not touch the file")
}

func TestPersonDeleteAndLink(t *testing.T) {
	isolate(t)
	path := seedFamily(t)
	tom, joe := idOf(t, path, "Tom"), idOf(t, path, "Joe")

	out := mustExecute(t, "person", "link", path, joe, tom)
	assert.Contains(t, out, "Nothing changed")

	mustExecute(t, "person", "link", "--remove", path, joe, tom)
	persons, err := kio.Import(path)
	require.NoError(t, err)
	assert.NotContains(t, persons[2].Parents, tom)

	mustExecute(t, "person", "delete", path, joe)
	out = mustExecute(t, "generations", path)
	assert.NotContains(t, out, "Joe")
	assert.Contains(t, out, "Tom")

	_, err = execute(t, "person", "delete", path, joe)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "deleting twice: %v", err)
}

func TestCheckAndGenerations(t *testing.T) {
	isolate(t)
	path := seedFamily(t)

	out := mustExecute(t, "check", path)
	assert.Contains(t, out, "is consistent")
	assert.Contains(t, out, "3 active, 3 total")

	out = mustExecute(t, "generations", path)
	assert.Contains(t, out, "Tom, Ann")
	assert.Contains(t, out, "Joe")

	// A record that claims a parent without the mirrored child link.
	broken := filepath.Join(t.TempDir(), "broken.json")
	persons, err := kio.Import(path)
	require.NoError(t, err)
	persons[0].Children = nil
	require.NoError(t, kio.Export(broken, persons))

	_, err = execute(t, "check", broken)
	assert.True(t, errors.Is(err, errors.ErrCodeConsistency), "check broken file: %v", err)
}

func TestLayoutCommand(t *testing.T) {
	isolate(t)
	path := seedFamily(t)
	output := filepath.Join(t.TempDir(), "radial.json")

	out := mustExecute(t, "layout", path, "-t", "radial", "-o", output)
	assert.Contains(t, out, "fresh")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	doc, err := projection.UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, projection.VizRadial, doc.VizType)
	assert.Len(t, doc.Points, 3)

	out = mustExecute(t, "layout", path, "-t", "radial", "-o", output)
	assert.Contains(t, out, "cached")

	out = mustExecute(t, "layout", path)
	assert.Contains(t, out, strings.TrimSuffix(path, ".yaml")+".tiered.json")

	_, err = execute(t, "layout", path, "-t", "spiral")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRenderDOT(t *testing.T) {
	isolate(t)
	path := seedFamily(t)
	output := filepath.Join(t.TempDir(), "tree.dot")

	mustExecute(t, "render", path, "-o", output, "--detailed")
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rank=same")
	assert.Contains(t, string(data), "generation: 1")

	_, err = execute(t, "render", path, "-o", filepath.Join(t.TempDir(), "tree.pdf"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRenderCachesArtifact(t *testing.T) {
	isolate(t)
	path := seedFamily(t)
	first := filepath.Join(t.TempDir(), "first.dot")
	second := filepath.Join(t.TempDir(), "second.dot")

	out := mustExecute(t, "render", path, "-o", first)
	assert.Contains(t, out, "fresh")
	out = mustExecute(t, "render", path, "-o", second)
	assert.Contains(t, out, "cached")

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	out = mustExecute(t, "render", path, "-o", second, "--detailed")
	assert.Contains(t, out, "fresh", "different render options need their own entry")

	out = mustExecute(t, "render", path, "-o", second, "--no-cache")
	assert.Contains(t, out, "fresh")
}

func TestMetricsFile(t *testing.T) {
	isolate(t)
	path := seedFamily(t)
	metrics := filepath.Join(t.TempDir(), "kintree.prom")

	mustExecute(t, "--metrics-file", metrics, "layout", path, "--no-cache")
	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kintree_store_mutations_total{op="load",result="ok"} 1`)
	assert.Contains(t, string(data), "kintree_projection_computes_total")
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	path := seedFamily(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, os.WriteFile(cfg, []byte("[cache]\nbackend = \"none\"\n"), 0o644))
	output := filepath.Join(t.TempDir(), "out.json")
	mustExecute(t, "--config", cfg, "layout", path, "-o", output)
	out := mustExecute(t, "--config", cfg, "layout", path, "-o", output)
	assert.Contains(t, out, "fresh", "backend none never hits")

	require.NoError(t, os.WriteFile(cfg, []byte("[cache]\nbackend = \"tape\"\n"), 0o644))
	_, err := execute(t, "--config", cfg, "check", path)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)
	path := seedFamily(t)

	out := mustExecute(t, "cache", "path")
	assert.Equal(t, dir, strings.TrimSpace(out))

	mustExecute(t, "layout", path, "-o", filepath.Join(t.TempDir(), "a.json"))
	out = mustExecute(t, "cache", "clear")
	assert.Contains(t, out, "Cleared 1 cached entries")
}

func TestDerivedPath(t *testing.T) {
	tests := []struct{ in, suffix, want string }{
		{"family.yaml", ".svg", "family.svg"},
		{"dir/tree.json", ".tiered.json", "dir/tree.tiered.json"},
		{"noext", ".dot", "noext.dot"},
	}
	for _, tt := range tests {
		if got := derivedPath(tt.in, tt.suffix); got != tt.want {
			t.Errorf("derivedPath(%q, %q) = %q, want %q", tt.in, tt.suffix, got, tt.want)
		}
	}
}

func TestLayoutDocumentIsJSON(t *testing.T) {
	isolate(t)
	path := seedFamily(t)
	output := filepath.Join(t.TempDir(), "t.json")
	mustExecute(t, "layout", path, "-o", output, "--no-cache")

	var raw map[string]any
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "tiered", raw["viz_type"])
}

func TestExampleRecords(t *testing.T) {
	isolate(t)
	path := filepath.Join("..", "..", "examples", "family.yaml")
	cfg := filepath.Join("..", "..", "examples", "config.toml")

	out := mustExecute(t, "--config", cfg, "check", path)
	assert.Contains(t, out, "6 active, 6 total")

	out = mustExecute(t, "--config", cfg, "generations", "--ids", path)
	assert.Contains(t, out, "7d1e0c1a-5f0e-4c55-9a59-0b6a3c1d2e06")
}
