package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"kanban-cli/internal/api/apitest"
	"kanban-cli/internal/dates"
	"kanban-cli/internal/gate"
	"kanban-cli/internal/model"
)

type cliEnv struct {
	t       *testing.T
	backend *apitest.Backend
	url     string
}

// newCLIEnv points the config dir at a temp dir (so the session file is private to the test)
// and starts a fake backend with two projects.
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("KANBAN_CONFIG_DIR", t.TempDir())
	t.Setenv("KANBAN_SESSION", "")
	t.Setenv("KANBAN_FORMAT", "")
	b := apitest.NewBackend()
	b.AddProject("Alpha", "Alpha", "1234")
	b.AddProject("Beta", "Beta", "5678")
	srv := b.Start(t)
	return &cliEnv{t: t, backend: b, url: apitest.BaseURL(srv)}
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func (e *cliEnv) run(args ...string) ([]byte, []byte, error) {
	e.t.Helper()
	return runCLI(e.t, append([]string{"--api-url", e.url}, args...))
}

// mustRun runs a command that has to succeed and returns the envelope's data.
func (e *cliEnv) mustRun(args ...string) any {
	e.t.Helper()
	stdout, stderr, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("command failed: kanban %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		e.t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, args)
	}
	data, ok := env["data"]
	if !ok {
		e.t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return data
}

func (e *cliEnv) unlock() {
	e.t.Helper()
	e.mustRun("projects", "use", "Alpha", "--pin", "1234")
}

func (e *cliEnv) requests(method, path string) []apitest.Request {
	var out []apitest.Request
	for _, r := range e.backend.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func asMap(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T: %#v", v, v)
	}
	return m
}

func asList(t *testing.T, v any) []any {
	t.Helper()
	xs, ok := v.([]any)
	if !ok {
		t.Fatalf("expected array, got %T: %#v", v, v)
	}
	return xs
}

func TestProjectsList(t *testing.T) {
	env := newCLIEnv(t)

	ps := asList(t, env.mustRun("projects", "list"))
	if len(ps) != 2 {
		t.Fatalf("expected 2 projects, got %#v", ps)
	}
	if name := asMap(t, ps[0])["name"]; name != "Alpha" {
		t.Fatalf("unexpected first project: %#v", ps[0])
	}
}

func TestCardsRequireUnlockedProject(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("cards", "list")
	if !errors.Is(err, gate.ErrNoProject) {
		t.Fatalf("expected ErrNoProject, got %v", err)
	}
	if n := len(env.requests(http.MethodGet, "/api/cards")); n != 0 {
		t.Fatalf("no card request should be made without a project, got %d", n)
	}
}

func TestProjectsUse_CurrentAndCardsList(t *testing.T) {
	env := newCLIEnv(t)
	env.backend.AddCard(model.Card{Title: "Mine", Column: model.ColumnTodo, ProjectID: "Alpha"})
	env.backend.AddCard(model.Card{Title: "Theirs", Column: model.ColumnTodo, ProjectID: "Beta"})
	env.backend.AddCard(model.Card{Title: "Old", Column: model.ColumnArchive, ProjectID: "Alpha"})

	p := asMap(t, env.mustRun("projects", "use", "Alpha", "--pin", "1234"))
	if p["name"] != "Alpha" {
		t.Fatalf("unexpected project: %#v", p)
	}
	cur := asMap(t, env.mustRun("projects", "current"))
	if cur["name"] != "Alpha" {
		t.Fatalf("current should be remembered across invocations, got %#v", cur)
	}

	cards := asList(t, env.mustRun("cards", "list"))
	if len(cards) != 1 || asMap(t, cards[0])["title"] != "Mine" {
		t.Fatalf("expected only the active project's board cards, got %#v", cards)
	}

	archived := asList(t, env.mustRun("cards", "list", "--column", "archive"))
	if len(archived) != 1 || asMap(t, archived[0])["title"] != "Old" {
		t.Fatalf("unexpected archived cards: %#v", archived)
	}
}

func TestProjectsUse_RejectsBadPIN(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("projects", "use", "Alpha", "--pin", "9999")
	if !errors.Is(err, gate.ErrPINMismatch) {
		t.Fatalf("expected ErrPINMismatch, got %v", err)
	}

	env.backend.ResetRequests()
	_, _, err = env.run("projects", "use", "Alpha", "--pin", "12a4")
	if !errors.Is(err, gate.ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
	if n := len(env.requests(http.MethodPost, "/api/projects/verify")); n != 0 {
		t.Fatalf("malformed PIN must not reach the backend, got %d requests", n)
	}

	if _, _, err := env.run("projects", "current"); !errors.Is(err, gate.ErrNoProject) {
		t.Fatalf("a failed unlock must not be remembered, got %v", err)
	}
}

func TestProjectsSwitchForgetsProject(t *testing.T) {
	env := newCLIEnv(t)
	env.unlock()

	ps := asList(t, env.mustRun("projects", "switch"))
	if len(ps) != 2 {
		t.Fatalf("switch should list projects, got %#v", ps)
	}
	if _, _, err := env.run("projects", "current"); !errors.Is(err, gate.ErrNoProject) {
		t.Fatalf("expected ErrNoProject after switch, got %v", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("--session", "a", "projects", "use", "Alpha", "--pin", "1234")

	if _, _, err := env.run("--session", "b", "projects", "current"); !errors.Is(err, gate.ErrNoProject) {
		t.Fatalf("session b should not see session a's project, got %v", err)
	}
}

func TestCardsCreate(t *testing.T) {
	env := newCLIEnv(t)
	env.unlock()

	c := asMap(t, env.mustRun("cards", "create", "--title", "  Ship it  ", "--type", "bug", "--priority", "high", "--start", "2024-01-10", "--end", "2024-01-12"))
	if c["title"] != "Ship it" || c["issue_type"] != "bug" || c["column_name"] != "todo" {
		t.Fatalf("unexpected card: %#v", c)
	}

	posts := env.requests(http.MethodPost, "/api/cards")
	if len(posts) != 1 {
		t.Fatalf("expected one create request, got %d", len(posts))
	}
	body := apitest.DecodeBody(posts[0])
	for _, absent := range []string{"description", "assignee", "label", "git_issue"} {
		if _, ok := body[absent]; ok {
			t.Fatalf("blank %s should be omitted: %v", absent, body)
		}
	}
	if body["start_date"] != "2024-01-10" {
		t.Fatalf("unexpected start_date: %v", body)
	}
}

func TestCardsCreate_ValidatesLocally(t *testing.T) {
	env := newCLIEnv(t)
	env.unlock()

	tests := []struct {
		name string
		args []string
	}{
		{name: "blank title", args: []string{"--title", "   "}},
		{name: "bad priority", args: []string{"--title", "x", "--priority", "urgent"}},
		{name: "bad date", args: []string{"--title", "x", "--start", "2024-13-01"}},
		{name: "end before start", args: []string{"--title", "x", "--start", "2024-01-10", "--end", "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.backend.ResetRequests()
			_, _, err := env.run(append([]string{"cards", "create"}, tt.args...)...)
			var fe *model.FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if n := len(env.requests(http.MethodPost, "/api/cards")); n != 0 {
				t.Fatalf("invalid input must not be sent, got %d requests", n)
			}
		})
	}
}

func TestCardsUpdate_SendsOnlyChangedFields(t *testing.T) {
	env := newCLIEnv(t)
	id := env.backend.AddCard(model.Card{Title: "Old", Description: "keep", Column: model.ColumnTodo, ProjectID: "Alpha"})
	env.unlock()

	c := asMap(t, env.mustRun("cards", "update", itoa(id), "--title", "New", "--priority", "low"))
	if c["title"] != "New" || c["description"] != "keep" {
		t.Fatalf("unexpected card: %#v", c)
	}

	patches := env.requests(http.MethodPatch, "/api/cards/"+itoa(id))
	if len(patches) != 1 {
		t.Fatalf("expected one PATCH, got %d", len(patches))
	}
	body := apitest.DecodeBody(patches[0])
	if len(body) != 2 || body["title"] != "New" || body["priority"] != "low" {
		t.Fatalf("patch should carry only the given flags: %v", body)
	}
}

func TestCardsMoveArchiveRestoreDelete(t *testing.T) {
	env := newCLIEnv(t)
	id := env.backend.AddCard(model.Card{Title: "Flow", Column: model.ColumnTodo, ProjectID: "Alpha"})
	env.unlock()
	sid := itoa(id)

	if _, _, err := env.run("cards", "archive", sid); err == nil {
		t.Fatalf("archiving a todo card should fail")
	}
	if n := len(env.requests(http.MethodPost, "/api/cards/"+sid+"/archive")); n != 0 {
		t.Fatalf("refused archive must not reach the backend, got %d", n)
	}

	c := asMap(t, env.mustRun("cards", "move", sid, "done"))
	if c["column_name"] != "done" {
		t.Fatalf("expected done, got %#v", c)
	}

	c = asMap(t, env.mustRun("cards", "archive", sid))
	if c["column_name"] != "archive" {
		t.Fatalf("expected archive, got %#v", c)
	}
	if got := asList(t, env.mustRun("archive", "list")); len(got) != 1 {
		t.Fatalf("expected one archived card, got %#v", got)
	}

	c = asMap(t, env.mustRun("archive", "restore", sid))
	if c["column_name"] != "done" {
		t.Fatalf("restore should return the card to done, got %#v", c)
	}

	if _, _, err := env.run("cards", "delete", sid); err == nil {
		t.Fatalf("delete without --yes should fail")
	}
	if _, ok := env.backend.Card(id); !ok {
		t.Fatalf("card deleted without confirmation")
	}
	env.mustRun("cards", "delete", sid, "--yes")
	if _, ok := env.backend.Card(id); ok {
		t.Fatalf("card should be gone")
	}
}

func TestCardsShow_NotFound(t *testing.T) {
	env := newCLIEnv(t)
	env.unlock()

	_, stderr, err := env.run("cards", "show", "404")
	var nf notFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected notFoundError, got %v", err)
	}
	if !strings.Contains(string(stderr), "card not found: 404") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestCardsMove_RejectsArchiveColumn(t *testing.T) {
	env := newCLIEnv(t)
	id := env.backend.AddCard(model.Card{Title: "x", Column: model.ColumnDone, ProjectID: "Alpha"})
	env.unlock()

	if _, _, err := env.run("cards", "move", itoa(id), "archive"); err == nil {
		t.Fatalf("move to archive should be refused")
	}
}

func TestBoardAndCalendarText(t *testing.T) {
	env := newCLIEnv(t)
	start, end := dates.MustParse("2024-01-10"), dates.MustParse("2024-01-12")
	env.backend.AddCard(model.Card{Title: "Sprint", Column: model.ColumnInProgress, ProjectID: "Alpha", StartDate: &start, EndDate: &end})
	env.backend.AddCard(model.Card{Title: "Docs", Column: model.ColumnTodo, ProjectID: "Alpha"})
	env.unlock()

	out, stderr, err := env.run("--format", "text", "board")
	if err != nil {
		t.Fatalf("board: %v\n%s", err, stderr)
	}
	for _, want := range []string{"Sprint", "Docs"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("board text missing %q:\n%s", want, out)
		}
	}

	out, _, err = env.run("--format", "text", "board", "--filter", "spr")
	if err != nil {
		t.Fatalf("board filter: %v", err)
	}
	if strings.Contains(string(out), "Docs") {
		t.Fatalf("filter should hide Docs:\n%s", out)
	}

	out, stderr, err = env.run("--format", "text", "calendar", "--date", "2024-01-15")
	if err != nil {
		t.Fatalf("calendar: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(out), "Sprint") {
		t.Fatalf("calendar text missing the dated card:\n%s", out)
	}
}

func TestCalendarJSON(t *testing.T) {
	env := newCLIEnv(t)
	env.unlock()

	g := asMap(t, env.mustRun("calendar", "--view", "week", "--date", "2024-01-17"))
	if g["view"] != "week" {
		t.Fatalf("unexpected view: %#v", g["view"])
	}
	if days := asList(t, g["days"]); len(days) != 7 {
		t.Fatalf("week view should have 7 days, got %d", len(days))
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	res := asMap(t, env.mustRun("--config", path, "config", "init"))
	if res["path"] != path {
		t.Fatalf("unexpected path: %#v", res)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(b), "[calendar]") {
		t.Fatalf("unexpected config file:\n%s", b)
	}

	if _, _, err := env.run("--config", path, "config", "init"); err == nil {
		t.Fatalf("init over an existing file should need --force")
	}
	env.mustRun("--config", path, "config", "init", "--force")

	show := asMap(t, env.mustRun("--config", path, "config", "show"))
	if show["path"] != path {
		t.Fatalf("show should report the file it read: %#v", show)
	}
	if api := asMap(t, show["api"]); api["url"] != env.url {
		t.Fatalf("--api-url should override api.url: %#v", api)
	}
}

func TestFormatEDN(t *testing.T) {
	env := newCLIEnv(t)
	id := env.backend.AddCard(model.Card{Title: "Edn", IssueType: model.IssueBug, Column: model.ColumnTodo, ProjectID: "Alpha"})
	env.unlock()

	out, stderr, err := env.run("--format", "edn", "cards", "show", itoa(id))
	if err != nil {
		t.Fatalf("show: %v\n%s", err, stderr)
	}
	for _, want := range []string{":data", ":issue-type \"bug\"", ":title \"Edn\""} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("edn output missing %q:\n%s", want, out)
		}
	}
}

func TestParseCardID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"#7", 7, true},
		{" 3 ", 3, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, err := parseCardID(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("parseCardID(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestDocs(t *testing.T) {
	env := newCLIEnv(t)

	res := asMap(t, env.mustRun("docs"))
	if topics := asList(t, res["topics"]); len(topics) == 0 {
		t.Fatalf("expected topics, got %#v", res)
	}

	out, _, err := env.run("docs", "keys", "--raw")
	if err != nil {
		t.Fatalf("docs keys: %v", err)
	}
	if !strings.HasPrefix(string(out), "# TUI keys") {
		t.Fatalf("unexpected raw docs:\n%s", out)
	}

	if _, _, err := env.run("docs", "nope"); err == nil {
		t.Fatalf("unknown topic should fail")
	}
}
