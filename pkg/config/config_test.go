package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port" env:"SAMPLE_PORT"`
	Base string `yaml:"base" env:"SAMPLE_BASE"`
}

func (s *sample) Validate() error {
	if s.Port < 0 {
		return errors.New("bad port")
	}
	return nil
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "veda")
	p := writeConfig(t, "name: ${SAMPLE_NAME}\nport: 9000\n")

	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "veda" || s.Port != 9000 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_EnvOverlayWins(t *testing.T) {
	t.Setenv("SAMPLE_BASE", "/app1")
	p := writeConfig(t, "base: /from-file\nport: 1\n")

	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatal(err)
	}
	if s.Base != "/app1" {
		t.Errorf("base = %q, want env value", s.Base)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	p := writeConfig(t, "port: -1\n")
	var s sample
	if err := Load(p, &s); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadOptional_KeepsDefaults(t *testing.T) {
	t.Setenv("SAMPLE_PORT", "7000")
	s := sample{Name: "default", Port: 1}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "default" || s.Port != 7000 {
		t.Errorf("got %+v", s)
	}

	s = sample{Name: "default"}
	if err := LoadOptional("", &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "default" {
		t.Errorf("name = %q", s.Name)
	}
}
