package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"stories/air.mdx":   "---\nname: Clearing the Air\nlink: \"::markdown [more](/data-catalog/no2)\"\n---\nStory body.\n",
		"datasets/no2.mdx":  "---\nid: no2\nname: NO2\nlayers:\n  - id: monthly\n---\nDataset body.\n",
		"datasets/skip.txt": "not content",
	}
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := NewDefaultConfig()
	cfg.Content.Root = root
	cfg.Site.BasePath = "/veda"
	cfg.App.LogLevel = slog.LevelError
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestBuild_WritesBundle(t *testing.T) {
	cfg := testConfig(t)
	out := filepath.Join(t.TempDir(), "content.json")

	if err := Build(context.Background(), WithConfig(cfg), WithOutput(out)); err != nil {
		t.Fatalf("Build: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var bundle struct {
		Stories      []map[string]any `json:"stories"`
		Datasets     []map[string]any `json:"datasets"`
		DatasetsList []map[string]any `json:"datasetsList"`
	}
	if err := json.Unmarshal(data, &bundle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bundle.Stories) != 1 || len(bundle.Datasets) != 1 || len(bundle.DatasetsList) != 1 {
		t.Fatalf("bundle sizes = %d/%d/%d", len(bundle.Stories), len(bundle.Datasets), len(bundle.DatasetsList))
	}

	story := bundle.Stories[0]
	if _, ok := story["content"]; ok {
		t.Error("metadata build should omit content")
	}
	link := story["metadata"].(map[string]any)["link"]
	if link != `<p><a href="/veda/data-catalog/no2">more</a></p>` {
		t.Errorf("link = %q", link)
	}

	entry := bundle.DatasetsList[0]
	if entry["slug"] != "no2" {
		t.Errorf("entry slug = %v", entry["slug"])
	}
	layer := entry["layers"].([]any)[0].(map[string]any)
	if layer["parentDataset"].(map[string]any)["id"] != "no2" {
		t.Errorf("layer = %v", layer)
	}
}

func TestBuild_FullToStdout(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer

	err := Build(context.Background(), WithConfig(cfg), WithOutput("-"), WithFull(true), WithStdout(&buf))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var bundle Bundle
	if err := json.Unmarshal(buf.Bytes(), &bundle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bundle.Stories[0].Content == nil || *bundle.Stories[0].Content != "Story body.\n" {
		t.Errorf("story content = %v", bundle.Stories[0].Content)
	}
}

func TestBuild_FailsOnBrokenFile(t *testing.T) {
	cfg := testConfig(t)
	broken := filepath.Join(cfg.Content.Root, "stories", "broken.mdx")
	if err := os.WriteFile(broken, []byte("---\nname: [oops\n---\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "content.json")

	if err := Build(context.Background(), WithConfig(cfg), WithOutput(out)); err == nil {
		t.Fatal("expected build error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output should not exist after failure: %v", err)
	}
}

func TestBuild_RequiresConfig(t *testing.T) {
	if err := Build(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
