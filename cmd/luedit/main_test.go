package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"luedit/internal/diag"
	"luedit/internal/diagfmt"
	"luedit/internal/gateway"
	"luedit/internal/lufile"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes a fresh root command with an isolated luedit.toml.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "luedit.toml")
	if err := os.WriteFile(cfgPath, []byte("[diagnostics]\nmax = 0\n"), 0o600); err != nil {
		t.Fatalf("write luedit.toml: %v", err)
	}
	root, e := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--color", "off", "--config", cfgPath}, args...))
	err := root.Execute()
	e.teardown(&errOut)
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func fixture(name string) string {
	return filepath.Join("..", "..", "testdata", "lu", name)
}

// copyFixture copies a testdata file into a temp dir so it can be written.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(fixture(name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestParsePrettyPrintsIntentTree(t *testing.T) {
	res := runCLI(t, "", "parse", fixture("nested.lu"))
	if res.err != nil {
		t.Fatalf("parse failed: %v\nstderr: %s", res.err, res.stderr)
	}
	for _, want := range []string{
		"Booking lines 3-9\n",
		"  Flight lines 4-6 @ city\n",
		"  Hotel lines 8-9\n",
		"Help lines 11-12\n",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestParseJSONFromStdin(t *testing.T) {
	data, err := os.ReadFile(fixture("greeting.lu"))
	if err != nil {
		t.Fatal(err)
	}
	res := runCLI(t, string(data), "parse", "--format", "json", "-")
	if res.err != nil {
		t.Fatalf("parse failed: %v", res.err)
	}
	var doc lufile.Document
	if err := json.Unmarshal([]byte(res.stdout), &doc); err != nil {
		t.Fatalf("decode output: %v\n%s", err, res.stdout)
	}
	if doc.Content != string(data) {
		t.Fatalf("content does not round-trip")
	}
	greeting, ok := doc.Intent("Greeting")
	if !ok {
		t.Fatalf("Greeting missing from %+v", doc.Intents)
	}
	if len(greeting.Entities) != 1 || greeting.Entities[0] != "userName" {
		t.Fatalf("Greeting entities = %v, want [userName]", greeting.Entities)
	}
}

func TestParseYAML(t *testing.T) {
	res := runCLI(t, "", "parse", "--format", "yaml", fixture("nested.lu"))
	if res.err != nil {
		t.Fatalf("parse failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, "Booking/Hotel") {
		t.Fatalf("yaml output lacks flattened child:\n%s", res.stdout)
	}
}

func TestParseBrokenDocumentFails(t *testing.T) {
	res := runCLI(t, "", "parse", "--format", "json", fixture("broken.lu"))
	if res.err == nil {
		t.Fatalf("expected an error for a document with errors")
	}
	var doc lufile.Document
	if err := json.Unmarshal([]byte(res.stdout), &doc); err != nil {
		t.Fatalf("output must still be printed: %v", err)
	}
	if lufile.IsValid(doc.Diagnostics) {
		t.Fatalf("broken.lu reported as valid")
	}
}

func TestParseUnknownFormat(t *testing.T) {
	res := runCLI(t, "", "parse", "--format", "xml", fixture("greeting.lu"))
	if res.err == nil || !strings.Contains(res.err.Error(), "unknown format") {
		t.Fatalf("err = %v, want unknown format", res.err)
	}
}

func TestDiagShortReportsCodes(t *testing.T) {
	res := runCLI(t, "", "diag", "--format", "short", "--ui", "off", fixture("broken.lu"))
	if res.err == nil {
		t.Fatalf("expected diag to fail on broken.lu")
	}
	for _, code := range []string{"SYN1001", "SYN1002", "SYN1003"} {
		if !strings.Contains(res.stdout, code) {
			t.Fatalf("short output missing %s:\n%s", code, res.stdout)
		}
	}
	if !strings.Contains(res.stderr, "1 files:") {
		t.Fatalf("totals missing from stderr: %q", res.stderr)
	}
}

func TestDiagCleanFile(t *testing.T) {
	res := runCLI(t, "", "diag", "--ui", "off", fixture("greeting.lu"))
	if res.err != nil {
		t.Fatalf("diag failed: %v\n%s", res.err, res.stdout)
	}
	if !strings.Contains(res.stderr, "1 files: 0 errors, 0 warnings") {
		t.Fatalf("unexpected totals: %q", res.stderr)
	}
}

func TestDiagJSONOverDirectory(t *testing.T) {
	res := runCLI(t, "", "diag", "--format", "json", filepath.Join("..", "..", "testdata", "lu"))
	if res.err == nil {
		t.Fatalf("expected errors from broken.lu")
	}
	var payload diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, res.stdout)
	}
	if payload.Errors == 0 || payload.Count < payload.Errors {
		t.Fatalf("count=%d errors=%d", payload.Count, payload.Errors)
	}
}

func TestIntentAddWrite(t *testing.T) {
	path := copyFixture(t, "greeting.lu")
	res := runCLI(t, "", "intent", "add", "--name", "Help", "--body", `- help\n- assist`, "--write", path)
	if res.err != nil {
		t.Fatalf("intent add failed: %v\n%s", res.err, res.stderr)
	}
	if res.stdout != "" {
		t.Fatalf("--write must not print the document, got %q", res.stdout)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# Help\r\n- help\r\n- assist") {
		t.Fatalf("new intent not written:\n%q", data)
	}
	if !strings.HasPrefix(string(data), "> !# @app.name = demo\r\n") {
		t.Fatalf("model info was not preserved:\n%q", data)
	}
	doc := lufile.Parse(path, string(data))
	if _, ok := doc.Intent("Help"); !ok {
		t.Fatalf("Help missing after write")
	}
	if _, err := os.Stat(path + ".lock"); err != nil {
		t.Fatalf("lock file: %v", err)
	}
	if !strings.Contains(res.stderr, `intent "Help" added`) {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestIntentAddKeepsBOM(t *testing.T) {
	res := runCLI(t, "", "intent", "add", "--name", "Extra", "--body", "- more", fixture("unicode.lu"))
	if res.err != nil {
		t.Fatalf("intent add failed: %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "\xEF\xBB\xBF# Unicode\n") {
		t.Fatalf("BOM lost: %q", res.stdout)
	}
	if !strings.Contains(res.stdout, "# Extra\r\n- more") {
		t.Fatalf("intent not appended: %q", res.stdout)
	}
}

func TestIntentRemoveNestedChildFromStdin(t *testing.T) {
	data, err := os.ReadFile(fixture("nested.lu"))
	if err != nil {
		t.Fatal(err)
	}
	res := runCLI(t, string(data), "intent", "remove", "--name", "Booking/Flight", "-")
	if res.err != nil {
		t.Fatalf("intent remove failed: %v", res.err)
	}
	if strings.Contains(res.stdout, "## Flight") {
		t.Fatalf("Flight still present:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "## Hotel") || !strings.Contains(res.stdout, "# Help") {
		t.Fatalf("unrelated intents lost:\n%s", res.stdout)
	}
}

func TestIntentReplaceMissing(t *testing.T) {
	res := runCLI(t, "", "intent", "replace", "--name", "Missing", "--body", "- x", fixture("greeting.lu"))
	if !errors.Is(res.err, lufile.ErrIntentNotFound) {
		t.Fatalf("err = %v, want ErrIntentNotFound", res.err)
	}
}

func TestIntentUnsupportedName(t *testing.T) {
	res := runCLI(t, "", "intent", "update", "--name", "a/b/c", "--body", "- x", fixture("greeting.lu"))
	if !errors.Is(res.err, lufile.ErrUnsupportedName) {
		t.Fatalf("err = %v, want ErrUnsupportedName", res.err)
	}
}

func TestIntentChildOfPlainIntent(t *testing.T) {
	res := runCLI(t, "", "intent", "add", "--name", "Greeting/Sub", "--body", "- sub", fixture("greeting.lu"))
	if !errors.Is(res.err, lufile.ErrNotGroup) {
		t.Fatalf("err = %v, want ErrNotGroup", res.err)
	}
	if res.stdout != "" {
		t.Fatalf("nothing must be printed on failure, got %q", res.stdout)
	}
}

func TestIntentWriteNeedsFile(t *testing.T) {
	res := runCLI(t, "", "intent", "remove", "--name", "Bye", "--write", "-")
	if res.err == nil || !strings.Contains(res.err.Error(), "--write needs a file") {
		t.Fatalf("err = %v", res.err)
	}
}

func TestIntentAddNeedsBody(t *testing.T) {
	res := runCLI(t, "", "intent", "add", "--name", "Empty", fixture("greeting.lu"))
	if res.err == nil || !strings.Contains(res.err.Error(), "non-empty --body") {
		t.Fatalf("err = %v", res.err)
	}
}

func TestCheckValidIntent(t *testing.T) {
	res := runCLI(t, "", "check", "--name", "Greeting", "--body", `- hi\n- hello`)
	if res.err != nil {
		t.Fatalf("check failed: %v\n%s", res.err, res.stdout)
	}
	if !strings.Contains(res.stdout, `intent "Greeting" is valid`) {
		t.Fatalf("stdout = %q", res.stdout)
	}
}

func TestCheckInvalidIntent(t *testing.T) {
	res := runCLI(t, "", "check", "--name", "Greeting", "--body", "- {hi")
	if res.err == nil {
		t.Fatalf("expected an invalid intent")
	}
	if !strings.Contains(res.stdout, "SYN1003") {
		t.Fatalf("diagnostic not printed:\n%s", res.stdout)
	}
}

func TestVersionJSON(t *testing.T) {
	res := runCLI(t, "", "version", "--format", "json")
	if res.err != nil {
		t.Fatalf("version failed: %v", res.err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "luedit" || payload.Version == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestWorkerAnswersRequests(t *testing.T) {
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	enc.SetCustomStructTag("json")
	reqs := []gateway.Request{
		{ID: "1", Type: gateway.TypeParse, Payload: gateway.Payload{ID: "a.lu", Content: "# A\r\n- a"}},
		{ID: "2", Type: "format", Payload: gateway.Payload{ID: "b.lu"}},
	}
	for _, r := range reqs {
		if err := enc.Encode(r); err != nil {
			t.Fatal(err)
		}
	}

	res := runCLI(t, in.String(), "worker")
	if res.err != nil {
		t.Fatalf("worker failed: %v", res.err)
	}

	dec := msgpack.NewDecoder(strings.NewReader(res.stdout))
	dec.SetCustomStructTag("json")
	var first, second gateway.Response
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if first.ID != "1" || first.Payload == nil || len(first.Payload.Intents) != 1 {
		t.Fatalf("first = %+v", first)
	}
	if second.ID != "2" || second.Error == nil {
		t.Fatalf("second = %+v, want an error", second)
	}
}

func TestUnknownConfigKeyFails(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "luedit.toml")
	if err := os.WriteFile(cfgPath, []byte("[render]\nenable_section = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	root, e := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfgPath, "version"})
	err := root.Execute()
	e.teardown(&bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestTimingsSummary(t *testing.T) {
	res := runCLI(t, "", "--timings", "parse", fixture("greeting.lu"))
	if res.err != nil {
		t.Fatalf("parse failed: %v", res.err)
	}
	if !strings.Contains(res.stderr, "timings:") || !strings.Contains(res.stderr, "parse") {
		t.Fatalf("no timings on stderr: %q", res.stderr)
	}
}

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("readUIMode(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if !shouldUseTUI(uiModeOn, 1) || shouldUseTUI(uiModeOff, 10) {
		t.Fatalf("explicit ui modes ignored")
	}
}

func TestUseColor(t *testing.T) {
	if on, _ := useColor("on", nil); !on {
		t.Fatalf("on must force color")
	}
	if on, _ := useColor("off", nil); on {
		t.Fatalf("off must disable color")
	}
	if _, err := useColor("maybe", nil); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}

func TestFilterDiagnostics(t *testing.T) {
	diags := []diag.Diagnostic{
		{Message: "e", Severity: diag.SevError},
		{Message: "w", Severity: diag.SevWarning},
		{Message: "i", Severity: diag.SevInfo},
	}
	if got := filterDiagnostics(diags, diagOptions{}); len(got) != 3 {
		t.Fatalf("no options must keep everything, got %d", len(got))
	}
	got := filterDiagnostics(diags, diagOptions{noWarnings: true})
	if len(got) != 2 || got[1].Message != "i" {
		t.Fatalf("noWarnings = %+v", got)
	}
	got = filterDiagnostics(diags, diagOptions{warningsAsErrors: true})
	if len(got) != 3 || got[1].Severity != diag.SevError {
		t.Fatalf("warningsAsErrors = %+v", got)
	}
	if diags[1].Severity != diag.SevWarning {
		t.Fatalf("input slice was modified")
	}
}

func TestIntentRequestPayload(t *testing.T) {
	cases := []struct {
		req      intentRequest
		wantNil  bool
		wantName string
	}{
		{intentRequest{op: opRemove, name: "A"}, true, ""},
		{intentRequest{op: opUpdate, name: "A"}, true, ""},
		{intentRequest{op: opUpdate, name: "A", body: "- a"}, false, "A"},
		{intentRequest{op: opReplace, name: "A", rename: "B", body: "- b"}, false, "B"},
		{intentRequest{op: opAdd, name: "G/C", body: "- c"}, false, "G/C"},
	}
	for _, tc := range cases {
		got := tc.req.payload()
		if (got == nil) != tc.wantNil {
			t.Fatalf("%+v: payload nil = %v, want %v", tc.req, got == nil, tc.wantNil)
		}
		if got != nil && got.Name != tc.wantName {
			t.Fatalf("%+v: name = %q, want %q", tc.req, got.Name, tc.wantName)
		}
	}
}

func TestUpdateWithEmptyBodyDeletes(t *testing.T) {
	content := "# A\r\n- a\r\n\r\n# B\r\n- b"
	doc, err := intentRequest{op: opUpdate, name: "A"}.apply("x.lu", content)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.Intent("A"); ok {
		t.Fatalf("A must be deleted, content:\n%q", doc.Content)
	}
	if _, ok := doc.Intent("B"); !ok {
		t.Fatalf("B lost")
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := normalizeNewlines("a\nb\r\nc"); got != "a\r\nb\r\nc" {
		t.Fatalf("normalizeNewlines = %q", got)
	}
}
