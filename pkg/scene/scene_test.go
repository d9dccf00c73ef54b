package scene

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/boxlayout/pkg/errors"
)

const hudScene = `
name = "hud"
ticks = 2

[root]
id = "screen"
size = [200.0, 100.0, 0.0]

[[root.children]]
id = "panel"
anchor_max = [1.0, 1.0, 0.0]
min_size = [10.0, -1.0, -1.0]

[[root.children.behaviors]]
kind = "aspect_fit"
mode = "parent_fit"
aspect_ratio = 0.5
padding = [4.0, 4.0, 2.0, 2.0]

[[root.children.children]]
anchor_max = [1.0, 1.0, 0.0]

[[root.children.children.behaviors]]
kind = "follow_parent"
`

func TestDecode(t *testing.T) {
	s, err := Decode([]byte(hudScene))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Name != "hud" || s.Ticks != 2 {
		t.Errorf("header = %q/%d, want hud/2", s.Name, s.Ticks)
	}
	if s.Root.ID != "screen" || *s.Root.Size != (Vec{200, 100, 0}) {
		t.Errorf("root = %q %v", s.Root.ID, s.Root.Size)
	}
	if s.Root.AnchorMin != nil || s.Root.Pivot != nil {
		t.Error("absent vectors should stay nil")
	}
	if got := s.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}

	panel := s.Root.Children[0]
	if len(panel.Behaviors) != 1 {
		t.Fatalf("panel behaviors = %d, want 1", len(panel.Behaviors))
	}
	b := panel.Behaviors[0]
	if b.Kind != KindAspectFit || b.Mode != "parent_fit" || b.AspectRatio != 0.5 {
		t.Errorf("behavior = %+v", b)
	}
	if b.Padding == nil || *b.Padding != [4]float64{4, 4, 2, 2} {
		t.Errorf("padding = %v", b.Padding)
	}

	leaf := panel.Children[0]
	if _, err := uuid.Parse(leaf.ID); err != nil {
		t.Errorf("missing id should be filled with a uuid, got %q", leaf.ID)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		code errors.Code
		want string
	}{
		{
			name: "syntax",
			toml: `name = `,
			code: errors.ErrCodeInvalidScene,
			want: "parse scene",
		},
		{
			name: "unknown key",
			toml: "[root]\nid = \"a\"\ncolour = \"red\"",
			code: errors.ErrCodeInvalidScene,
			want: "root.colour",
		},
		{
			name: "anchor out of range",
			toml: "[root]\nid = \"a\"\nanchor_max = [2.0, 1.0, 0.0]",
			code: errors.ErrCodeInvalidScene,
			want: `node "a"`,
		},
		{
			name: "negative size",
			toml: "[root]\nid = \"a\"\nsize = [-1.0, 0.0, 0.0]",
			code: errors.ErrCodeInvalidScene,
			want: "size",
		},
		{
			name: "bad constraint",
			toml: "[root]\nid = \"a\"\nmax_size = [-2.0, 0.0, 0.0]",
			code: errors.ErrCodeInvalidScene,
			want: "max_size",
		},
		{
			name: "duplicate id",
			toml: "[root]\nid = \"a\"\n[[root.children]]\nid = \"a\"",
			code: errors.ErrCodeInvalidScene,
			want: "duplicate",
		},
		{
			name: "bad id",
			toml: "[root]\nid = \"<a>\"",
			code: errors.ErrCodeInvalidScene,
			want: "invalid character",
		},
		{
			name: "too many ticks",
			toml: "ticks = 5000\n[root]\nid = \"a\"",
			code: errors.ErrCodeInvalidScene,
			want: "ticks",
		},
		{
			name: "unknown kind",
			toml: "[root]\nid = \"a\"\n[[root.behaviors]]\nkind = \"spin\"",
			code: errors.ErrCodeInvalidBehavior,
			want: `unknown behavior kind "spin"`,
		},
		{
			name: "unknown mode",
			toml: "[root]\nid = \"a\"\n[[root.behaviors]]\nkind = \"aspect_fit\"\nmode = \"cover\"\naspect_ratio = 1.0",
			code: errors.ErrCodeInvalidBehavior,
			want: "mode",
		},
		{
			name: "unknown padding unit",
			toml: "[root]\nid = \"a\"\n[[root.behaviors]]\nkind = \"aspect_fit\"\nmode = \"anchor_fit\"\naspect_ratio = 1.0\npadding_unit = \"em\"",
			code: errors.ErrCodeInvalidBehavior,
			want: "padding_unit",
		},
		{
			name: "missing ratio",
			toml: "[root]\nid = \"a\"\n[[root.behaviors]]\nkind = \"aspect_fit\"\nmode = \"anchor_fit\"",
			code: errors.ErrCodeInvalidBehavior,
			want: "aspect_ratio",
		},
		{
			name: "negative fixed length",
			toml: "[root]\nid = \"a\"\n[[root.behaviors]]\nkind = \"aspect_fit\"\nmode = \"fixed_width\"\naspect_ratio = 1.0\nfixed_length = -3.0",
			code: errors.ErrCodeInvalidBehavior,
			want: "fixed_length",
		},
		{
			name: "negative padding",
			toml: "[root]\nid = \"a\"\n[[root.behaviors]]\nkind = \"aspect_fit\"\nmode = \"anchor_fit\"\naspect_ratio = 1.0\npadding = [0.0, -1.0, 0.0, 0.0]",
			code: errors.ErrCodeInvalidBehavior,
			want: "padding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.toml))
			if err == nil {
				t.Fatal("Decode() error = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hud.toml")
	if err := os.WriteFile(path, []byte(hudScene), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "hud" {
		t.Errorf("Name = %q, want hud", s.Name)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	s, err := Decode([]byte(hudScene))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	data, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	again, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(Encode()): %v\n%s", err, data)
	}
	if again.Count() != s.Count() || again.Root.Children[0].Children[0].ID != s.Root.Children[0].Children[0].ID {
		t.Errorf("round trip lost nodes:\n%s", data)
	}
	if *again.Root.Children[0].MinSize != *s.Root.Children[0].MinSize {
		t.Errorf("min_size = %v, want %v", again.Root.Children[0].MinSize, s.Root.Children[0].MinSize)
	}
}

func TestRegistry(t *testing.T) {
	kinds := Kinds()
	for _, want := range []string{KindAspectFit, KindFollowParent} {
		if !slices.Contains(kinds, want) {
			t.Errorf("Kinds() = %v, missing %q", kinds, want)
		}
	}
	if !slices.IsSorted(kinds) {
		t.Errorf("Kinds() = %v, want sorted", kinds)
	}
	if _, ok := Lookup("missing"); ok {
		t.Error("Lookup(missing) should report false")
	}
	for _, k := range kinds {
		f, ok := Lookup(k)
		if !ok {
			t.Fatalf("Lookup(%q) failed", k)
		}
		spec := BehaviorSpec{Kind: k, Mode: "anchor_fit", AspectRatio: 1}
		if b := f(spec); b == nil {
			t.Errorf("factory for %q returned nil", k)
		}
	}
}
