package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) (home, cwd string) {
	t.Helper()
	home = t.TempDir()
	cwd = t.TempDir()
	t.Setenv("HOME", home)
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(cwd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return home, cwd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Batch.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Batch.Workers)
	}
	if cfg.Storage.Backend != BackendDrive {
		t.Errorf("expected drive backend, got %q", cfg.Storage.Backend)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.HTTP.Addr)
	}
	if cfg.Mail.FromName != "Certificate Issuer" {
		t.Errorf("unexpected from name %q", cfg.Mail.FromName)
	}
	want := filepath.Join(home, ".certbatch", "certbatch.db")
	if cfg.Database.Path != want {
		t.Errorf("expected database %s, got %s", want, cfg.Database.Path)
	}
}

func TestLoad_LayersFilesAndEnvironment(t *testing.T) {
	home, cwd := isolate(t)

	writeFile(t, filepath.Join(home, ".certbatch", "config.yaml"), `
batch:
  workers: 2
mail:
  host: smtp.global.example
  from_address: certs@example.com
`)
	writeFile(t, filepath.Join(cwd, ".certbatch", "config.yaml"), `
mail:
  host: smtp.project.example
database:
  path: ~/ledger.db
`)
	explicit := filepath.Join(t.TempDir(), "override.yaml")
	writeFile(t, explicit, `
http:
  addr: "127.0.0.1:9000"
`)
	t.Setenv("CERTBATCH_BATCH_WORKERS", "6")

	cfg, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Batch.Workers != 6 {
		t.Errorf("expected environment to win with 6 workers, got %d", cfg.Batch.Workers)
	}
	if cfg.Mail.Host != "smtp.project.example" {
		t.Errorf("expected project file to override host, got %q", cfg.Mail.Host)
	}
	if cfg.Mail.FromAddress != "certs@example.com" {
		t.Errorf("expected global from address to survive, got %q", cfg.Mail.FromAddress)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9000" {
		t.Errorf("expected explicit file addr, got %q", cfg.HTTP.Addr)
	}
	if cfg.Database.Path != filepath.Join(home, "ledger.db") {
		t.Errorf("expected ~ expansion, got %q", cfg.Database.Path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoad_TemplateOverride(t *testing.T) {
	_, cwd := isolate(t)

	writeFile(t, filepath.Join(cwd, ".certbatch", "config.yaml"), `
templates:
  - id: basic
    background: file:///srv/backgrounds/basic.png
    prefix: "BAS B#"
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	registry, err := cfg.TemplateRegistry()
	if err != nil {
		t.Fatalf("TemplateRegistry failed: %v", err)
	}
	all := registry.All()
	if len(all) != 1 || all[0].ID != "basic" || all[0].SerialPrefix != "BAS B#" {
		t.Errorf("unexpected catalog %+v", all)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "ftp" }, "unknown storage backend"},
		{"unknown provider", func(c *Config) { c.Secrets.Provider = "vault" }, "unknown secrets provider"},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }, "batch.workers"},
		{"duplicate prefix", func(c *Config) {
			c.Templates = []TemplateConfig{{ID: "a", Prefix: "X"}, {ID: "b", Prefix: "X"}}
		}, "invalid templates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

type stubResolver map[string]string

func (r stubResolver) Resolve(ctx context.Context, ref string) (string, error) {
	v, ok := r[ref]
	if !ok {
		return "", errors.New("secret not found")
	}
	return v, nil
}

func TestResolveSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mail.Password = "secret://certbatch/smtp#password"
	cfg.Storage.Drive.RefreshToken = "plain-token"

	if !cfg.HasSecretRefs() {
		t.Fatal("expected secret refs to be detected")
	}

	err := cfg.ResolveSecrets(context.Background(), stubResolver{"certbatch/smtp#password": "hunter2"})
	if err != nil {
		t.Fatalf("ResolveSecrets failed: %v", err)
	}
	if cfg.Mail.Password != "hunter2" {
		t.Errorf("expected resolved password, got %q", cfg.Mail.Password)
	}
	if cfg.Storage.Drive.RefreshToken != "plain-token" {
		t.Errorf("plain values must be left alone, got %q", cfg.Storage.Drive.RefreshToken)
	}
	if cfg.HasSecretRefs() {
		t.Error("expected no secret refs after resolution")
	}

	cfg.Mail.Username = "secret://missing"
	if err := cfg.ResolveSecrets(context.Background(), stubResolver{}); err == nil || !strings.Contains(err.Error(), "mail.username") {
		t.Errorf("expected error naming the field, got %v", err)
	}
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mail.Password = "hunter2"
	cfg.Storage.Drive.RefreshToken = "secret://drive"

	out := cfg.Redacted()

	if out.Mail.Password != "********" {
		t.Errorf("expected masked password, got %q", out.Mail.Password)
	}
	if out.Storage.Drive.RefreshToken != "secret://drive" {
		t.Errorf("expected secret ref to stay visible, got %q", out.Storage.Drive.RefreshToken)
	}
	if cfg.Mail.Password != "hunter2" {
		t.Error("Redacted must not modify the receiver")
	}
}

func TestWriteDefault(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("written default does not load: %v", err)
	}
	if cfg.Mail.Host != "smtp.gmail.com" {
		t.Errorf("expected mail host from file, got %q", cfg.Mail.Host)
	}
	if cfg.Blobs.Prefix != "uploads/" {
		t.Errorf("expected blobs prefix from file, got %q", cfg.Blobs.Prefix)
	}
}
