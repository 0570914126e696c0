// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"context"
	"testing"
)

type stubTransformer struct{ out string }

func (s stubTransformer) Transform(context.Context, string) (string, error) { return s.out, nil }

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry(Binaries{}, nil)

	tests := []struct {
		ext    string
		wantOK bool
	}{
		{ext: "coffee", wantOK: true},
		{ext: ".scss", wantOK: true},
		{ext: "sass", wantOK: true},
		{ext: "js", wantOK: false},
		{ext: "css", wantOK: false},
		{ext: "txt", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			if _, ok := r.Lookup(tt.ext); ok != tt.wantOK {
				t.Errorf("Lookup(%q) ok = %v, want %v", tt.ext, ok, tt.wantOK)
			}
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	var r Registry
	r.Register(".coffee", stubTransformer{out: "stub"})

	tr, ok := r.Lookup("coffee")
	if !ok {
		t.Fatal("Lookup(coffee) after Register should succeed")
	}
	out, _ := tr.Transform(context.Background(), "x")
	if out != "stub" {
		t.Errorf("Transform() = %q, want %q", out, "stub")
	}
}

func TestFamilyOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext    string
		want   Family
		wantOK bool
	}{
		{ext: "js", want: FamilyJS, wantOK: true},
		{ext: "coffee", want: FamilyJS, wantOK: true},
		{ext: "css", want: FamilyCSS, wantOK: true},
		{ext: "sass", want: FamilyCSS, wantOK: true},
		{ext: "scss", want: FamilyCSS, wantOK: true},
		{ext: "html", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := FamilyOf(tt.ext)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FamilyOf(%q) = (%q, %v), want (%q, %v)", tt.ext, got, ok, tt.want, tt.wantOK)
		}
	}

	for _, ext := range Extensions {
		if _, ok := FamilyOf(ext); !ok {
			t.Errorf("served extension %q has no family", ext)
		}
	}
}
