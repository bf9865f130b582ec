package factory

import (
	"errors"
	"testing"
)

type sample struct{ Limit float64 }

type sampleParams struct {
	Limit float64 `json:"limit"`
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("s", func(c ComponentConfig) (*sample, error) {
		var p sampleParams
		if err := Decode(c.Params, &p); err != nil {
			return nil, err
		}
		return &sample{Limit: p.Limit}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ComponentConfig{Type: "s", Params: map[string]any{"limit": 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Limit != 3 {
		t.Fatalf("expected 3 got %v", inst.Limit)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(ComponentConfig) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(ComponentConfig) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("y", nil); err == nil {
		t.Fatal("expected nil constructor error")
	}
	if _, err := reg.Create(ComponentConfig{Type: "missing"}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if got := reg.Types(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("unexpected types %v", got)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	var p sampleParams
	if err := Decode(map[string]any{"limt": 1}, &p); err == nil {
		t.Fatal("expected error for misspelled key")
	}
	if err := Decode(map[string]any{"limit": "2.5"}, &p); err != nil {
		t.Fatalf("weak decode: %v", err)
	}
	if p.Limit != 2.5 {
		t.Fatalf("expected 2.5 got %v", p.Limit)
	}
}
