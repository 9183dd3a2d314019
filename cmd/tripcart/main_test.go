package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/tripcart/testutil/fakebackend"
)

// writeConfig writes a config file pointing at baseURL and returns its path.
func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "name: tripcart\n" +
		"api:\n  base_url: " + baseURL + "\n  retries: 0\n" +
		"identity:\n  backend: memory\n" +
		"logging:\n  level: error\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"--version"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "tripcart ") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"--no-such-flag"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Errorf("exit code %d", code)
	}
}

func TestRun_InvalidIdentityBackend(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := writeConfig(t, "http://127.0.0.1:1")
	code := run(context.Background(), []string{"--config", cfg, "--identity", "floppy", "help"}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stderr.String(), "backend must be one of") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_ShowConfigMasksSecrets(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := writeConfig(t, "http://127.0.0.1:1")
	code := run(context.Background(), []string{"--config", cfg, "--base-url", "http://api.test", "--show-config"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "http://api.test") {
		t.Errorf("base url override missing: %q", out)
	}
	if !strings.Contains(out, "TRIPCART_API_BASE_URL") {
		t.Errorf("env hint missing: %q", out)
	}
}

func TestRun_SingleCommand(t *testing.T) {
	_, srv := fakebackend.Start(t)
	var stdout, stderr bytes.Buffer
	args := []string{"--config", writeConfig(t, srv.URL), "locations", "dub"}
	if code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Dubai") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_Interactive(t *testing.T) {
	b, srv := fakebackend.Start(t)
	if _, err := b.CreateUser("Ada", "ada@example.com", password, false); err != nil {
		t.Fatal(err)
	}
	in := strings.NewReader(`login --email ada@example.com --password "` + password + `"` + "\nwhoami\nexit\n")
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"--config", writeConfig(t, srv.URL)}, in, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"Type 'help'", "Welcome back, Ada.", "ada@example.com", "tripcart (Ada)> "} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}
