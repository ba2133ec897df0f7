package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anaminus/parse"
	"github.com/qmuntal/gltf"
	"github.com/spaghettifunk/skelmesh/engine/config"
	"github.com/spaghettifunk/skelmesh/engine/inspect"
	"gopkg.in/yaml.v2"
)

// a minimal layout triangle without normals or uvs
func triangle(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := parse.NewBinaryWriter(&buf)
	for _, v := range []interface{}{
		uint16(3), []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		uint16(0),
		uint16(3), []uint16{0, 1, 2},
		uint16(0),
	} {
		if w.Number(v) {
			t.Fatal(w.Err())
		}
	}
	return buf.Bytes()
}

// version 1, no index map, clip "idle" without channels
var idleClip = []byte{1, 0, 4, 'i', 'd', 'l', 'e', 0, 0, 0, 0}

func writeAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"tri.sk1":   triangle(t),
		"idle.ska":  idleClip,
		"notes.txt": []byte("not an asset"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.AssetsDir = dir
	cfg.ExportDir = filepath.Join(dir, "out")
	cfg.Workers = 2
	return cfg
}

func TestInspectCommand(t *testing.T) {
	dir := writeAssets(t)
	var out bytes.Buffer
	if err := inspectCommand(testConfig(dir), nil, &out); err != nil {
		t.Fatal(err)
	}

	dec := yaml.NewDecoder(&out)
	var mesh inspect.Summary
	if err := dec.Decode(&mesh); err != nil {
		t.Fatal(err)
	}
	if mesh.Name != "tri" || mesh.Vertices != 3 || mesh.Triangles != 1 {
		t.Errorf("mesh summary: %+v", mesh)
	}
	var clip inspect.ClipSummary
	if err := dec.Decode(&clip); err != nil {
		t.Fatal(err)
	}
	if clip.Name != "idle" || clip.Path != filepath.Join(dir, "idle.ska") {
		t.Errorf("clip summary: %+v", clip)
	}
}

func TestInspectCommandReportsFailures(t *testing.T) {
	dir := writeAssets(t)
	broken := filepath.Join(dir, "broken.skm")
	if err := os.WriteFile(broken, []byte{3, 'E'}, 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := inspectCommand(testConfig(dir), []string{filepath.Join(dir, "tri.sk1"), broken}, &out)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Error("expected one failure, got ", err)
	}
	if !strings.Contains(out.String(), "error: ") {
		t.Errorf("failure not reported:\n%s", out.String())
	}

	if err := inspectCommand(testConfig(t.TempDir()), nil, &out); err == nil {
		t.Error("expected an error for an empty assets directory")
	}
}

func TestExportCommand(t *testing.T) {
	dir := writeAssets(t)
	cfg := testConfig(dir)

	out, err := exportCommand(cfg, []string{filepath.Join(dir, "tri.sk1"), filepath.Join(dir, "idle.ska")})
	if err != nil {
		t.Fatal(err)
	}
	if out != filepath.Join(cfg.ExportDir, "tri.glb") {
		t.Error("output: ", out)
	}
	doc, err := gltf.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Meshes) != 1 || doc.Meshes[0].Name != "tri" {
		t.Error("meshes: ", len(doc.Meshes))
	}

	if _, err := exportCommand(cfg, nil); err == nil {
		t.Error("expected an error without files")
	}
	if _, err := exportCommand(cfg, []string{filepath.Join(dir, "idle.ska")}); err == nil {
		t.Error("expected an error for a clip as mesh")
	}
	if _, err := exportCommand(cfg, []string{filepath.Join(dir, "tri.sk1"), filepath.Join(dir, "tri.sk1")}); err == nil {
		t.Error("expected an error for a mesh as clip")
	}
}

func TestPlayCommand(t *testing.T) {
	dir := writeAssets(t)
	cfg := testConfig(dir)
	cfg.DurationSeconds = 0.05
	cfg.TargetFPS = 100

	if err := playCommand(cfg, []string{filepath.Join(dir, "tri.sk1"), filepath.Join(dir, "idle.ska")}); err != nil {
		t.Fatal(err)
	}
	if err := playCommand(cfg, nil); err == nil {
		t.Error("expected an error without files")
	}
}

func TestRun(t *testing.T) {
	dir := writeAssets(t)
	if err := run([]string{"skelmesh", "-assets", dir, "-workers", "1", "-out", filepath.Join(dir, "out"), "export", filepath.Join(dir, "tri.sk1")}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "tri.glb")); err != nil {
		t.Error(err)
	}
	if err := run([]string{"skelmesh", "-assets", dir, "dance"}); err == nil {
		t.Error("expected an error for an unknown command")
	}
	if err := run([]string{"skelmesh"}); err == nil {
		t.Error("expected an error without a command")
	}
	if err := run([]string{"skelmesh", "-layout", "zigzag", "inspect"}); err == nil {
		t.Error("expected an error for an unknown layout")
	}
}
