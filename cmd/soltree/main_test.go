package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fixture struct {
	root string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := &fixture{root: t.TempDir()}
	manifest := `[source]
dir = "node_modules/openzeppelin-solidity/contracts"

[artifacts]
dir = "node_modules/openzeppelin-solidity/build/contracts"

[output]
path = "out/tree.json"
`
	p.write(t, "soltree.toml", manifest)
	return p
}

func (p *fixture) write(t *testing.T, rel, body string) {
	t.Helper()
	path := filepath.Join(p.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// addContract writes the source file and its artifact.
func (p *fixture) addContract(t *testing.T, rel, source string) {
	t.Helper()
	p.write(t, "node_modules/openzeppelin-solidity/"+rel, source)
	name := filepath.Base(rel)
	artifact, err := json.Marshal(map[string]string{
		"contractName": strings.TrimSuffix(name, ".sol"),
		"source":       source,
		"sourcePath":   "/ci/node_modules/openzeppelin-solidity/" + rel,
	})
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	p.write(t, "node_modules/openzeppelin-solidity/build/contracts/"+strings.TrimSuffix(name, ".sol")+".json", string(artifact))
}

func (p *fixture) run(args ...string) (string, string, error) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--config", filepath.Join(p.root, "soltree.toml"), "--color", "off"))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestBuildWritesTree(t *testing.T) {
	p := newFixture(t)
	p.addContract(t, "contracts/Token.sol", "import \"./Lib.sol\";\ncontract Token {}")
	p.addContract(t, "contracts/Lib.sol", "library Lib {}")

	stdout, stderr, err := p.run("build", "--ui", "off")
	if err != nil {
		t.Fatalf("build: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "1 dirs, 2 files, 1 dependency edges") {
		t.Fatalf("stdout = %q", stdout)
	}

	data, err := os.ReadFile(filepath.Join(p.root, "out", "tree.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := `{"name":"contracts","id":0,"toggled":true,"children":[` +
		`{"name":"Lib.sol","id":1,"source":"library Lib {}","path":"contracts/Lib.sol","dependencies":[]},` +
		`{"name":"Token.sol","id":2,"source":"import \"./Lib.sol\";\ncontract Token {}","path":"contracts/Token.sol",` +
		`"dependencies":[{"fileName":"Lib.sol","absolutePath":"Lib.sol"}]}]}`
	if string(data) != want {
		t.Fatalf("tree = %s\nwant   %s", data, want)
	}
}

func TestBuildTimingsReportCacheHits(t *testing.T) {
	p := newFixture(t)
	p.addContract(t, "contracts/Token.sol", "import \"./Lib.sol\";")
	p.addContract(t, "contracts/Lib.sol", "")

	_, stderr, err := p.run("build", "--ui", "off", "--timings", "--artifact-cache", "8")
	if err != nil {
		t.Fatalf("build: %v\nstderr: %s", err, stderr)
	}
	// Lib.sol is read once for its own node and served from the cache for Token.sol.
	if !strings.Contains(stderr, "1 edges, 1 artifact cache hits") {
		t.Fatalf("stderr = %q, want the cache hit count in the build timing", stderr)
	}
}

func TestBuildMissingArtifactWarns(t *testing.T) {
	p := newFixture(t)
	p.addContract(t, "contracts/Token.sol", "contract Token {}")
	p.write(t, "node_modules/openzeppelin-solidity/contracts/Orphan.sol", "contract Orphan {}")

	out := filepath.Join(p.root, "custom.json")
	_, stderr, err := p.run("build", "--ui", "off", "--out", out)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(stderr, "IO4001") || !strings.Contains(stderr, "contracts/Orphan.sol") {
		t.Fatalf("stderr = %q, want a missing metadata warning", stderr)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestBuildRejectsUnknownFormat(t *testing.T) {
	p := newFixture(t)
	p.addContract(t, "contracts/A.sol", "")
	if _, _, err := p.run("build", "--ui", "off", "--format", "yaml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestBuildWritesTrace(t *testing.T) {
	p := newFixture(t)
	p.addContract(t, "contracts/A.sol", "")
	tracePath := filepath.Join(p.root, "trace.ndjson")
	if _, stderr, err := p.run("build", "--ui", "off", "--trace", tracePath, "--trace-level", "detail"); err != nil {
		t.Fatalf("build: %v\nstderr: %s", err, stderr)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if !strings.Contains(string(data), "file:A.sol") {
		t.Fatalf("trace = %s, want a file span", data)
	}
}

func TestDepsPrintsDependencies(t *testing.T) {
	p := newFixture(t)
	p.addContract(t, "contracts/token/Token.sol", "import \"../math/SafeMath.sol\";")
	p.addContract(t, "contracts/math/SafeMath.sol", "import \"./Base.sol\";")
	p.addContract(t, "contracts/math/Base.sol", "")

	stdout, stderr, err := p.run("deps", "contracts/token/Token.sol")
	if err != nil {
		t.Fatalf("deps: %v\nstderr: %s", err, stderr)
	}
	if stdout != "math/SafeMath.sol\nmath/Base.sol\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestDepsUnknownFile(t *testing.T) {
	p := newFixture(t)
	if _, _, err := p.run("deps", "Nope.sol"); err == nil {
		t.Fatalf("expected error for a file without artifact")
	}
}

func TestCheckReportsCyclesAndMissing(t *testing.T) {
	p := newFixture(t)
	p.addContract(t, "contracts/A.sol", "import \"./B.sol\";")
	p.addContract(t, "contracts/B.sol", "import \"./A.sol\";")
	p.write(t, "node_modules/openzeppelin-solidity/contracts/C.sol", "")

	stdout, stderr, err := p.run("check", "--jobs", "2")
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("check error = %v, want errCheckFailed", err)
	}
	if !strings.Contains(stdout, "checked 3 files: 1 without metadata, 2 on import cycles") {
		t.Fatalf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "PRJ5001") {
		t.Fatalf("stderr = %q, want a cycle diagnostic", stderr)
	}
}

func TestCheckOrder(t *testing.T) {
	p := newFixture(t)
	p.addContract(t, "contracts/Token.sol", "import \"./Lib.sol\";")
	p.addContract(t, "contracts/Lib.sol", "")

	stdout, stderr, err := p.run("check", "--order", "--quiet")
	if err != nil {
		t.Fatalf("check: %v\nstderr: %s", err, stderr)
	}
	if stdout != "contracts/Lib.sol\ncontracts/Token.sol\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"resolve", "../math/SafeMath.sol", "contracts/token/ERC20.sol"}, "contracts/math/SafeMath.sol\n"},
		{[]string{"resolve", "./Lib.sol", "contracts/Token.sol", "--trim", "contracts/"}, "Lib.sol\n"},
		{[]string{"resolve", "../a/b", "/x/y/z.sol"}, "/x/a/b\n"},
	}
	for _, tc := range cases {
		cmd := newRootCmd()
		var stdout bytes.Buffer
		cmd.SetOut(&stdout)
		cmd.SetArgs(tc.args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if stdout.String() != tc.want {
			t.Fatalf("%v = %q, want %q", tc.args, stdout.String(), tc.want)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"version", "--format", "json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload map[string]string
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		t.Fatalf("decode %q: %v", stdout.String(), err)
	}
	if payload["version"] == "" {
		t.Fatalf("payload = %v, want a version", payload)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}
