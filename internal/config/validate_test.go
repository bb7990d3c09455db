package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cheekylabs/cheeky/internal/core"
	"gopkg.in/yaml.v3"
)

type nopModule struct{ id core.ModuleID }

func (m *nopModule) ModuleInfo() core.ModuleInfo {
	id := m.id
	return core.ModuleInfo{
		ID:  id,
		New: func() core.Module { return &nopModule{id: id} },
	}
}

func TestValidate(t *testing.T) {
	core.RegisterModule(&nopModule{id: "test.known"})

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid",
			yaml: "version: \"1\"\nmodules:\n  test.known: {}\n",
		},
		{
			name:    "missing version",
			yaml:    "modules:\n  test.known: {}\n",
			wantErr: "version field is required",
		},
		{
			name:    "unsupported version",
			yaml:    "version: \"2\"\nmodules:\n  test.known: {}\n",
			wantErr: "unsupported version",
		},
		{
			name:    "no modules",
			yaml:    "version: \"1\"\n",
			wantErr: "at least one module",
		},
		{
			name:    "unknown module",
			yaml:    "version: \"1\"\nmodules:\n  nope.nothing: {}\n",
			wantErr: "unknown module",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			if err := yaml.Unmarshal([]byte(tt.yaml), &cfg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			err := Validate(&cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("CHEEKY_TEST_TOKEN", "12345:abcdef")

	path := filepath.Join(t.TempDir(), "cheeky.yaml")
	raw := "version: \"1\"\nmodules:\n  channel.telegram:\n    token: ${CHEEKY_TEST_TOKEN}\n    mode: ${CHEEKY_TEST_MODE:-polling}\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	node, ok := cfg.Modules["channel.telegram"]
	if !ok {
		t.Fatal("expected channel.telegram module section")
	}
	var parsed struct {
		Token string `yaml:"token"`
		Mode  string `yaml:"mode"`
	}
	if err := node.Decode(&parsed); err != nil {
		t.Fatal(err)
	}
	if parsed.Token != "12345:abcdef" {
		t.Errorf("token = %q, want env value", parsed.Token)
	}
	if parsed.Mode != "polling" {
		t.Errorf("mode = %q, want default %q", parsed.Mode, "polling")
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cheeky.yaml")
	raw := "version: \"1\"\nmodules:\n  x:\n    key: ${CHEEKY_DOES_NOT_EXIST}\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "CHEEKY_DOES_NOT_EXIST") {
		t.Fatalf("error = %v, want unresolved variable error", err)
	}
}

func TestResolve_SortedIDs(t *testing.T) {
	cfg := &Config{Modules: map[string]yaml.Node{
		"kv.redis":         {},
		"channel.telegram": {},
		"provider.openai":  {},
	}}
	ids := Resolve(cfg)
	want := []string{"channel.telegram", "kv.redis", "provider.openai"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}
