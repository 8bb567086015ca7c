package guard

import (
	"reflect"
	"testing"
)

func TestGlobalRegistry_Builtins(t *testing.T) {
	registry := GlobalRegistry()

	for _, name := range []string{"standard", "token", "alphanumeric", "printable"} {
		profile, ok := registry.Resolve(name)
		if !ok {
			t.Fatalf("builtin profile %q missing", name)
		}
		if _, err := NewValidator(profile.Pattern); err != nil {
			t.Fatalf("builtin profile %q has unusable pattern: %v", name, err)
		}
	}

	want := []string{"alphanumeric", "printable", "standard", "token"}
	if got := registry.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected sorted names %v, got %v", want, got)
	}
}

func TestRegistry_ResolveIsCaseInsensitive(t *testing.T) {
	if _, ok := GlobalRegistry().Resolve("Standard"); !ok {
		t.Fatalf("expected case-insensitive resolution")
	}
}

func TestRegistry_RegisterValidatesPattern(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(Profile{Name: "loose", Pattern: `[a-z]+`})
	if err == nil {
		t.Fatalf("unanchored profile must not register")
	}

	err = registry.Register(Profile{Name: "", Pattern: `^[a-z]*$`})
	if err == nil {
		t.Fatalf("nameless profile must not register")
	}
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	registry := NewRegistry()

	profile := Profile{Name: "hex", Pattern: `^[0-9a-f]*$`, Description: "lowercase hex"}
	if err := registry.Register(profile); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	got, ok := registry.Resolve("HEX")
	if !ok {
		t.Fatalf("registered profile not resolvable")
	}
	if got.Pattern != profile.Pattern {
		t.Errorf("expected pattern %q, got %q", profile.Pattern, got.Pattern)
	}
}
