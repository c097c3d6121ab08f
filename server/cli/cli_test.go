package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yeti47/vidfolio/server/core/config"
	"github.com/yeti47/vidfolio/server/core/videos"
)

type cliTestEnv struct {
	dir        string
	configPath string
}

func setupCLITestEnv(t *testing.T) cliTestEnv {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg := config.DefaultConfig()
	cfg.DatabasePath = filepath.Join(dir, "vidfolio.db")
	cfg.LogPath = filepath.Join(dir, "logs")
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.PublicDir = filepath.Join(dir, "public")

	configPath := filepath.Join(dir, "config.json")
	if err := cfg.SaveConfig(configPath); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	return cliTestEnv{dir: dir, configPath: configPath}
}

func runCLI(t *testing.T, env cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeImportFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write import file: %v", err)
	}
	return path
}

const importFixture = `[
  {
    "id": "yt-1",
    "title": "Channel Trailer",
    "description": "A trailer",
    "duration": "1:30",
    "resolution": "4K",
    "thumbnail": "/placeholder.svg?height=400&width=600",
    "youtubeId": "dQw4w9WgXcQ",
    "category": "youtube",
    "dateAdded": "2024-01-01T10:00:00Z"
  },
  {
    "id": "ad-1",
    "title": "Coffee Spot",
    "description": "A commercial",
    "duration": "0:30",
    "resolution": "1080p",
    "thumbnail": "data:image/png;base64,iVBORw0KGgo=",
    "videoUrl": "data:video/mp4;base64,AAAAIGZ0eXBpc29t",
    "category": "commercial",
    "dateAdded": "2024-02-01T10:00:00Z"
  }
]`

func TestVideosList_Empty(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env, "", "videos", "list")
	if err != nil {
		t.Fatalf("videos list: %v", err)
	}
	requireContains(t, stdout, "No videos")
}

func TestVideosImportListAndFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeImportFile(t, env.dir, "videos.json", importFixture)

	stdout, _, err := runCLI(t, env, "", "videos", "import", path)
	if err != nil {
		t.Fatalf("videos import: %v", err)
	}
	requireContains(t, stdout, "Imported 2 videos, skipped 0 existing")

	// a second import keeps the stored entries
	stdout, _, err = runCLI(t, env, "", "videos", "import", path)
	if err != nil {
		t.Fatalf("second videos import: %v", err)
	}
	requireContains(t, stdout, "Imported 0 videos, skipped 2 existing")

	stdout, _, err = runCLI(t, env, "", "videos", "list")
	if err != nil {
		t.Fatalf("videos list: %v", err)
	}
	requireContains(t, stdout, "Channel Trailer")
	requireContains(t, stdout, "Coffee Spot")
	requireContains(t, stdout, "youtube:dQw4w9WgXcQ")
	requireContains(t, stdout, "embedded")

	stdout, _, err = runCLI(t, env, "", "videos", "list", "--json", "--category", "commercial")
	if err != nil {
		t.Fatalf("videos list --json: %v", err)
	}
	var listed []videos.Video
	if err := json.Unmarshal([]byte(stdout), &listed); err != nil {
		t.Fatalf("decode list output: %v\n%s", err, stdout)
	}
	if len(listed) != 1 || listed[0].ID != "ad-1" {
		t.Fatalf("expected only the commercial, got %+v", listed)
	}

	if _, _, err := runCLI(t, env, "", "videos", "list", "--category", "music"); err == nil {
		t.Fatal("expected an unknown category to fail")
	}
}

func TestVideosImport_RejectsInvalidEntries(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeImportFile(t, env.dir, "bad.json", `[{"id":"x","title":"No category","description":"d","duration":"1:00","resolution":"4K"}]`)

	_, _, err := runCLI(t, env, "", "videos", "import", path)
	if err == nil {
		t.Fatal("expected import of an entry without category to fail")
	}
	requireContains(t, err.Error(), "entry 1")

	stdout, _, err := runCLI(t, env, "", "videos", "list")
	if err != nil {
		t.Fatalf("videos list: %v", err)
	}
	requireContains(t, stdout, "No videos")
}

func TestVideosExportAndReplace(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeImportFile(t, env.dir, "videos.json", importFixture)
	if _, _, err := runCLI(t, env, "", "videos", "import", path); err != nil {
		t.Fatalf("videos import: %v", err)
	}

	exportPath := filepath.Join(env.dir, "export.json")
	stdout, _, err := runCLI(t, env, "", "videos", "export", "--output", exportPath)
	if err != nil {
		t.Fatalf("videos export: %v", err)
	}
	requireContains(t, stdout, "Exported 2 videos")

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	requireContains(t, string(data), `"videoUrl": "data:video/mp4;base64,AAAAIGZ0eXBpc29t"`)

	replacement := writeImportFile(t, env.dir, "one.json", `[{"title":"Only One","description":"d","duration":"2:00","resolution":"720p","thumbnail":"","category":"documentary"}]`)
	stdout, _, err = runCLI(t, env, "", "videos", "import", "--replace", replacement)
	if err != nil {
		t.Fatalf("videos import --replace: %v", err)
	}
	requireContains(t, stdout, "Replaced video list with 1 videos")

	stdout, _, err = runCLI(t, env, "", "videos", "export")
	if err != nil {
		t.Fatalf("videos export to stdout: %v", err)
	}
	var exported []videos.Video
	if err := json.Unmarshal([]byte(stdout), &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(exported) != 1 || exported[0].Title != "Only One" {
		t.Fatalf("unexpected export after replace: %+v", exported)
	}
	if exported[0].ID == "" || exported[0].DateAdded.IsZero() {
		t.Errorf("expected id and date to be filled in, got %+v", exported[0])
	}
}

func TestVideosFeaturedAndDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeImportFile(t, env.dir, "videos.json", importFixture)
	if _, _, err := runCLI(t, env, "", "videos", "import", path); err != nil {
		t.Fatalf("videos import: %v", err)
	}

	stdout, _, err := runCLI(t, env, "", "videos", "featured", "--json")
	if err != nil {
		t.Fatalf("videos featured: %v", err)
	}
	var featured []videos.Video
	if err := json.Unmarshal([]byte(stdout), &featured); err != nil {
		t.Fatalf("decode featured: %v", err)
	}
	if len(featured) != 2 || featured[0].ID != "ad-1" {
		t.Fatalf("expected most recent first, got %+v", featured)
	}

	stdout, _, err = runCLI(t, env, "", "videos", "delete", "ad-1")
	if err != nil {
		t.Fatalf("videos delete: %v", err)
	}
	requireContains(t, stdout, "Deleted video ad-1")

	stdout, _, err = runCLI(t, env, "", "videos", "delete", "ad-1")
	if err != nil {
		t.Fatalf("repeated videos delete: %v", err)
	}
	requireContains(t, stdout, "No video with id ad-1")
}

func TestPasswordSetAndStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env, "", "password", "status")
	if err != nil {
		t.Fatalf("password status: %v", err)
	}
	requireContains(t, stdout, "not configured")

	if _, _, err := runCLI(t, env, "short\n", "password", "set"); err == nil {
		t.Fatal("expected a short password to be rejected")
	}
	if _, _, err := runCLI(t, env, "", "password", "set"); err == nil {
		t.Fatal("expected empty stdin to be rejected")
	}

	stdout, _, err = runCLI(t, env, "correct-horse\n", "password", "set")
	if err != nil {
		t.Fatalf("password set: %v", err)
	}
	requireContains(t, stdout, "Admin password updated")

	stdout, _, err = runCLI(t, env, "", "password", "status")
	if err != nil {
		t.Fatalf("password status: %v", err)
	}
	requireContains(t, stdout, "Admin password is configured")
}
