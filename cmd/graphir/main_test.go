package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"graphir/internal/bf"
	"graphir/internal/types"
)

// execute runs the CLI in a scratch directory so no graphir.toml from the
// surrounding tree is picked up.
func execute(t *testing.T, dir string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	t.Chdir(dir)
	var out, errOut bytes.Buffer
	root := newRootCmd(&app{})
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestPrograms(t *testing.T) {
	out, _, err := execute(t, "", "programs")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"classify", "clamp", "countdown", "even", "fib", "gcd"} {
		if !strings.Contains(out, name) {
			t.Errorf("programs output missing %q:\n%s", name, out)
		}
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"fib", []string{"eval", "fib", "10"}, "55\n"},
		{"even", []string{"eval", "even", "7"}, "false\n"},
		{"clamp", []string{"eval", "clamp", "15", "0", "10"}, "10\n"},
		{"countdown emits", []string{"eval", "countdown", "3"}, "3\n2\n1\n"},
		{"gcd", []string{"eval", "gcd", "48", "18"}, "6\n"},
		{"each", []string{"eval", "--each", "--ui", "off", "--jobs", "2", "fib", "1", "2", "3"},
			"fib(1) = 1\nfib(2) = 1\nfib(3) = 2\n"},
		{"each multi", []string{"eval", "--each", "--ui", "off", "gcd", "4,6", "9,3"},
			"gcd(4,6) = 2\ngcd(9,3) = 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("err = %v\n%s", err, errOut)
			}
			if out != tt.want {
				t.Fatalf("stdout = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown program", []string{"eval", "nope"}, `unknown program "nope"`},
		{"missing argument", []string{"eval", "fib"}, "expected 1 argument(s), got 0"},
		{"bad literal", []string{"eval", "fib", "x"}, "argument 1"},
		{"depth", []string{"eval", "--max-depth", "3", "fib", "10"}, "EV1002"},
		{"config", []string{"--config", "missing.toml", "programs"}, "missing.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestConfigFileLimitsDepth(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "graphir.toml"), []byte("[eval]\nmax_depth = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, dir, "eval", "fib", "10"); err == nil {
		t.Fatal("config max_depth was ignored")
	}
	out, _, err := execute(t, dir, "eval", "--max-depth", "100", "fib", "10")
	if err != nil || out != "55\n" {
		t.Fatalf("flag did not override config: %q %v", out, err)
	}
}

func TestDumpAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	dump, _, err := execute(t, dir, "dump", "fib")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dump, "fib(n: u32) -> u32") {
		t.Fatalf("dump:\n%s", dump)
	}

	file := filepath.Join(dir, "fib.mp")
	out, _, err := execute(t, dir, "snapshot", "fib", "-o", file)
	if err != nil {
		t.Fatal(err)
	}
	if fields := strings.Fields(out); len(fields) != 2 || len(fields[0]) != 64 || fields[1] != "fib" {
		t.Fatalf("snapshot output = %q", out)
	}

	again, _, err := execute(t, dir, "dump", "--snapshot", file)
	if err != nil {
		t.Fatal(err)
	}
	if again != dump {
		t.Fatalf("dump from snapshot differs:\n%s\nvs\n%s", again, dump)
	}

	res, _, err := execute(t, dir, "eval", "--snapshot", file, "fib", "12")
	if err != nil || res != "144\n" {
		t.Fatalf("eval from snapshot = %q %v", res, err)
	}
}

func TestSnapshotCache(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	dir := t.TempDir()

	out, errOut, err := execute(t, dir, "snapshot", "--cache", "gcd")
	if err != nil {
		t.Fatalf("snapshot --cache: %v", err)
	}
	digest := strings.Fields(out)[0]
	entry := filepath.Join(cacheHome, "graphir", "graphs", digest+".mp")
	if _, err := os.Stat(entry); err != nil {
		t.Fatalf("cache entry missing: %v (%s)", err, errOut)
	}

	if _, _, err := execute(t, dir, "snapshot", "--drop-cache"); err != nil {
		t.Fatalf("snapshot --drop-cache: %v", err)
	}
	if _, err := os.Stat(entry); !os.IsNotExist(err) {
		t.Fatalf("cache entry survived --drop-cache: %v", err)
	}

	if _, _, err := execute(t, dir, "snapshot"); err == nil || !strings.Contains(err.Error(), "missing program") {
		t.Fatalf("snapshot without program: %v", err)
	}
}

func TestBF(t *testing.T) {
	dir := t.TempDir()
	hello := filepath.Join(dir, "hello.bf")
	if err := os.WriteFile(hello, bf.Text([]byte("hi there\n")), 0o600); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, dir, "bf", "run", hello)
	if err != nil || out != "hi there\n" {
		t.Fatalf("bf run = %q %v", out, err)
	}

	echo := filepath.Join(dir, "echo.bf")
	if err := os.WriteFile(echo, []byte(",.,."), 0o600); err != nil {
		t.Fatal(err)
	}
	out, _, err = execute(t, dir, "bf", "run", "--input", "ab", echo)
	if err != nil || out != "ab" {
		t.Fatalf("bf run --input = %q %v", out, err)
	}

	out, _, err = execute(t, dir, "bf", "text", "A")
	if err != nil || strings.TrimSpace(out) != string(bf.Text([]byte("A"))) {
		t.Fatalf("bf text = %q %v", out, err)
	}

	broken := filepath.Join(dir, "broken.bf")
	if err := os.WriteFile(broken, []byte("+["), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, dir, "bf", "run", broken); err == nil || !strings.Contains(err.Error(), "unmatched '['") {
		t.Fatalf("broken program: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"tool": "graphir"`) {
		t.Fatalf("version json = %s", out)
	}
}

func TestParseRow(t *testing.T) {
	params := []types.Type{types.U32, types.I32, types.Bool}
	row, err := parseRow(params, []string{"7", " -3", "true"})
	if err != nil {
		t.Fatal(err)
	}
	if row[0].Uint != 7 || row[1].Int != -3 || !row[2].Bool {
		t.Fatalf("row = %+v", row)
	}
	if _, err := parseRow(params, []string{"1"}); err == nil {
		t.Fatal("short row accepted")
	}
	if _, err := parseRow(params[:1], []string{"4294967296"}); err == nil {
		t.Fatal("overflowing u32 accepted")
	}
}

func TestReadColorMode(t *testing.T) {
	tests := []struct {
		in       string
		want     colorMode
		terminal bool
		enabled  bool
	}{
		{"", colorAuto, true, true},
		{"auto", colorAuto, false, false},
		{"ON", colorOn, false, true},
		{"off", colorOff, true, false},
	}
	for _, tt := range tests {
		got, err := readColorMode(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("readColorMode(%q) = %q, %v", tt.in, got, err)
		}
		if got.enabled(tt.terminal) != tt.enabled {
			t.Fatalf("%q.enabled(%v) != %v", got, tt.terminal, tt.enabled)
		}
	}
	if _, err := readColorMode("rainbow"); err == nil {
		t.Fatal("invalid mode accepted")
	}
}
