package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T, tmdbURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("SHELF_GIST_ID", "")

	configPath := filepath.Join(homeDir, ".config", "shelf", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, base, tmdbURL)
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func writeTestConfig(t *testing.T, path, base, tmdbURL string) {
	t.Helper()
	apiKey := ""
	if tmdbURL != "" {
		apiKey = "test-key"
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[storage]
backend = "file"

[tmdb]
api_key = %q
base_url = %q

[library]
default_sections = ["Фильмы", "Сериалы"]

[logging]
level = "error"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		apiKey,
		tmdbURL,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("shelf %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// addedID pulls the short id out of "Added <id> <text> to <section>".
func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "Added" {
		t.Fatalf("unexpected add output %q", out)
	}
	return fields[1]
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

func TestSectionsSeededOnFirstRun(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out := mustRun(t, env, "sections")
	requireContains(t, out, "Фильмы")
	requireContains(t, out, "Сериалы")

	if _, err := os.Stat(filepath.Join(env.baseDir, "data", "contents.json")); err != nil {
		t.Fatalf("expected seeded document: %v", err)
	}
}

func TestAddListRemoveUndo(t *testing.T) {
	env := setupCLITestEnv(t, "")

	first := addedID(t, mustRun(t, env, "add", "Фильмы", "Дюна (2021)"))
	second := addedID(t, mustRun(t, env, "add", "Сталкер (1979)"))

	out := mustRun(t, env, "list")
	requireContains(t, out, "Дюна (2021)")
	requireContains(t, out, "Сталкер (1979)")

	mustRun(t, env, "rm", first)
	out = mustRun(t, env, "rm", second)
	requireContains(t, out, "Deleted Сталкер (1979)")

	out = mustRun(t, env, "undo", "--peek")
	requireContains(t, out, "Can undo")

	out = mustRun(t, env, "undo")
	requireContains(t, out, "Undid")

	out = mustRun(t, env, "list")
	requireContains(t, out, "Сталкер (1979)")
	requireNotContains(t, out, "Дюна (2021)")

	out = mustRun(t, env, "undo")
	requireContains(t, out, "Nothing to undo")
}

func TestMoveAndSectionRename(t *testing.T) {
	env := setupCLITestEnv(t, "")

	id := addedID(t, mustRun(t, env, "add", "Фильмы", "Во все тяжкие"))
	out := mustRun(t, env, "mv", id, "Сериалы")
	requireContains(t, out, "Moved Во все тяжкие from Фильмы to Сериалы")

	mustRun(t, env, "sections", "add", "Аниме")
	out = mustRun(t, env, "sections", "rename", "Сериалы", "Аниме")
	requireContains(t, out, "Merged Сериалы into Аниме")

	out = mustRun(t, env, "list", "--section", "Аниме")
	requireContains(t, out, "Во все тяжкие")

	out = mustRun(t, env, "sections")
	requireNotContains(t, out, "Сериалы")
}

func TestTagsHideViewedMark(t *testing.T) {
	env := setupCLITestEnv(t, "")

	id := addedID(t, mustRun(t, env, "add", "Фильмы", "Сталкер (1979)"))
	mustRun(t, env, "tag", "add", id, "  Классика ")
	out := mustRun(t, env, "viewed", id)
	requireContains(t, out, "Viewed: yes")

	out = mustRun(t, env, "tags")
	requireContains(t, out, "классика")
	requireNotContains(t, out, "viewed")

	out = mustRun(t, env, "tag", "clear", id)
	requireContains(t, out, "Cleared tags")
	out = mustRun(t, env, "tags")
	requireContains(t, out, "No tags")

	mustRun(t, env, "undo")
	out = mustRun(t, env, "tags")
	requireContains(t, out, "классика")
}

func TestEditFromFile(t *testing.T) {
	env := setupCLITestEnv(t, "")

	mustRun(t, env, "add", "Фильмы", "Дюна")
	mustRun(t, env, "add", "Фильмы", "Сталкер")

	edited := filepath.Join(env.baseDir, "edited.txt")
	if err := os.WriteFile(edited, []byte("Дюна (2021)\n\nСолярис\nЗеркало\n"), 0o644); err != nil {
		t.Fatalf("write buffer: %v", err)
	}

	out := mustRun(t, env, "edit", "--from", edited, "--dry-run")
	requireContains(t, out, "--- current")
	requireContains(t, out, "+Дюна (2021)")
	requireContains(t, out, "Would apply: 1 created, 2 renamed, 0 deleted")

	out = mustRun(t, env, "list")
	requireContains(t, out, "Сталкер")
	requireNotContains(t, out, "Зеркало")

	out = mustRun(t, env, "edit", "--from", edited)
	requireContains(t, out, "Applied: 1 created, 2 renamed, 0 deleted")

	out = mustRun(t, env, "list")
	requireContains(t, out, "Дюна (2021)")
	requireContains(t, out, "Солярис")
	requireContains(t, out, "Зеркало")
	requireNotContains(t, out, "Сталкер")

	out = mustRun(t, env, "edit", "--from", edited)
	requireContains(t, out, "No changes")
}

func TestEditAllSectionsCreatesLabelledSection(t *testing.T) {
	env := setupCLITestEnv(t, "")

	mustRun(t, env, "add", "Фильмы", "Дюна")

	edited := filepath.Join(env.baseDir, "edited.txt")
	if err := os.WriteFile(edited, []byte("[Фильмы] Дюна\n[Документальное] Земля\n"), 0o644); err != nil {
		t.Fatalf("write buffer: %v", err)
	}
	out := mustRun(t, env, "edit", "--all", "--from", edited)
	requireContains(t, out, "New sections: Документальное")

	out = mustRun(t, env, "list", "--section", "Документальное")
	requireContains(t, out, "Земля")
}

func TestCatalogSearchAndPick(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(fakeTMDB))
	defer srv.Close()
	env := setupCLITestEnv(t, srv.URL)

	out := mustRun(t, env, "add", "Фильмы", "Матрица (1999)")
	id := addedID(t, out)
	requireContains(t, out, "Матрица / The Matrix (1999)")
	requireContains(t, out, "shelf pick "+id)

	out = mustRun(t, env, "pending")
	requireContains(t, out, "choose")

	out = mustRun(t, env, "pick", id, "1")
	requireContains(t, out, "Applied Матрица / The Matrix (1999)")

	out = mustRun(t, env, "list")
	requireContains(t, out, "боевик")
	requireContains(t, out, "united states")
	requireContains(t, out, "8.2")

	out = mustRun(t, env, "pending")
	requireContains(t, out, "Nothing pending")
}

func TestCatalogNoMatchLeavesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(fakeTMDB))
	defer srv.Close()
	env := setupCLITestEnv(t, srv.URL)

	out := mustRun(t, env, "add", "Фильмы", "Домашнее видео")
	requireContains(t, out, "No catalog matches")

	out = mustRun(t, env, "pending")
	requireContains(t, out, "Nothing pending")
	out = mustRun(t, env, "list")
	requireContains(t, out, "Домашнее видео")
}

func TestPickWithoutCandidatesFails(t *testing.T) {
	env := setupCLITestEnv(t, "")

	id := addedID(t, mustRun(t, env, "add", "Фильмы", "Матрица"))
	if _, _, err := runCLI(t, []string{"pick", id, "1"}, env.configPath); err == nil {
		t.Fatal("expected pick without a search to fail")
	}
	if _, _, err := runCLI(t, []string{"pick", id, "0"}, env.configPath); err == nil {
		t.Fatal("expected zero candidate number to be rejected")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out := mustRun(t, env, "config", "validate")
	requireContains(t, out, "Storage: file")
	requireContains(t, out, "Catalog: no")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func fakeTMDB(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("api_key") != "test-key" {
		http.Error(w, `{"status_message":"invalid key"}`, http.StatusUnauthorized)
		return
	}
	empty := map[string]any{"page": 1, "results": []any{}, "total_pages": 0, "total_results": 0}
	var payload any
	switch r.URL.Path {
	case "/search/movie":
		if r.URL.Query().Get("query") != "Матрица" {
			payload = empty
			break
		}
		payload = map[string]any{
			"page": 1,
			"results": []map[string]any{{
				"id":             603,
				"title":          "Матрица",
				"original_title": "The Matrix",
				"overview":       "Хакер узнаёт правду о мире.",
				"release_date":   "1999-03-30",
				"genre_ids":      []int{28, 878},
				"vote_average":   8.2,
				"vote_count":     25000,
			}},
			"total_pages":   1,
			"total_results": 1,
		}
	case "/search/tv":
		payload = empty
	case "/genre/movie/list":
		payload = map[string]any{"genres": []map[string]any{
			{"id": 28, "name": "Боевик"},
			{"id": 878, "name": "Фантастика"},
		}}
	case "/genre/tv/list":
		payload = map[string]any{"genres": []any{}}
	case "/movie/603":
		payload = map[string]any{
			"id":                   603,
			"genres":               []map[string]any{{"id": 28, "name": "Боевик"}, {"id": 878, "name": "Фантастика"}},
			"production_countries": []map[string]any{{"iso_3166_1": "US", "name": "United States of America"}},
		}
	default:
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
