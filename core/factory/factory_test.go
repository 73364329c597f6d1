package factory

import (
	"strings"
	"testing"
)

type store struct {
	path string
	max  int
}

type storeConf struct {
	Path  string `json:"path"`
	MaxMB int    `json:"max_size_mb"`
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*store]()
	if err := reg.Register("jsonl", func(conf map[string]any) (*store, error) {
		var c storeConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &store{path: c.Path, max: c.MaxMB}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "runs.jsonl", "max_size_mb": 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.path != "runs.jsonl" || inst.max != 3 {
		t.Fatalf("unexpected instance %#v", inst)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("nil", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	_, err := reg.Create(ModuleConfig{Type: "y"})
	if err == nil || !strings.Contains(err.Error(), "x") {
		t.Fatalf("expected unknown type error listing known types, got %v", err)
	}
}

func TestRegistry_TypesSorted(t *testing.T) {
	reg := NewRegistry[int]()
	for _, n := range []string{"sqlite", "jsonl", "nop"} {
		_ = reg.Register(n, func(map[string]any) (int, error) { return 0, nil })
	}
	got := reg.Types()
	if strings.Join(got, ",") != "jsonl,nop,sqlite" {
		t.Fatalf("unexpected order %v", got)
	}
	if !reg.Has("nop") || reg.Has("influx") {
		t.Fatalf("Has mismatch")
	}
}

func TestDecode_WeakStrings(t *testing.T) {
	var c storeConf
	if err := Decode(map[string]any{"max_size_mb": "12"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.MaxMB != 12 {
		t.Fatalf("expected 12 got %d", c.MaxMB)
	}
}
