package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

func TestMain(m *testing.M) {
	keyring.MockInit()
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestRenderCommand_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("env: docker\nstation: orders\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	raw := execute(t, "render", "--config", path,
		"--language", "Python", "--scenario", "produce",
		"--name", "billing", "--header", "env=prod", "--format", "json")

	var out snippet.Output
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, raw)
	}
	for _, want := range []string{"orders", "billing", "localhost", `"env"`, `"prod"`} {
		if !strings.Contains(out.Producer, want) {
			t.Fatalf("expected producer to contain %q:\n%s", want, out.Producer)
		}
	}
}

func TestSettingsSetThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	execute(t, "settings", "set", "--config", path, "account_id", "12")
	got := execute(t, "settings", "get", "--config", path, "account_id")
	if strings.TrimSpace(got) != "12" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestLanguagesCommand(t *testing.T) {
	raw := execute(t, "languages", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--protocol", "rest")
	if !strings.Contains(raw, "cURL") || !strings.Contains(raw, "default") {
		t.Fatalf("unexpected listing:\n%s", raw)
	}
	if strings.Contains(raw, "SDK") {
		t.Fatalf("expected REST only:\n%s", raw)
	}
}

func TestRenderCommand_PasswordFlagReplacesStoredCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("env: docker\nstation: orders\nusername: app\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	execute(t, "credential", "set", "--config", path, "stored-secret")
	t.Cleanup(func() {
		execute(t, "credential", "clear", "--config", path)
		flag := renderCmd.Flags().Lookup("password")
		_ = flag.Value.Set("")
		flag.Changed = false
	})

	decode := func(raw string) snippet.Output {
		t.Helper()
		var out snippet.Output
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			t.Fatalf("decode: %v\n%s", err, raw)
		}
		return out
	}

	stored := decode(execute(t, "render", "--config", path, "--language", "Python", "--format", "json"))
	if !strings.Contains(stored.Producer, "stored-secret") {
		t.Fatalf("expected the stored credential:\n%s", stored.Producer)
	}

	explicit := decode(execute(t, "render", "--config", path, "--language", "Python", "--password", "flag-secret", "--format", "json"))
	if !strings.Contains(explicit.Producer, "flag-secret") || strings.Contains(explicit.Producer, "stored-secret") {
		t.Fatalf("expected --password to replace the stored credential:\n%s", explicit.Producer)
	}
}
