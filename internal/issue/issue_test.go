// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	ids := []Id{
		SourceNotFoundId,
		SourceNotDirectoryId,
		ListenFailedId,
		ConfigLoadFailedId,
		CompilerNotInstalledId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true

		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if SourceNotFoundId != 1 {
		t.Errorf("SourceNotFoundId = %d, want 1", SourceNotFoundId)
	}
}

func TestValues_Ordered(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != 5 {
		t.Fatalf("Values() returned %d issues, want 5", len(values))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(ListenFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "Could not start the server") {
		t.Errorf("rendered issue missing heading:\n%s", out)
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	t.Parallel()

	msg := Get(SourceNotDirectoryId).MarkdownMsg()
	if !strings.Contains(string(msg), "info.yaml") {
		t.Errorf("layout example should mention info.yaml:\n%s", msg)
	}
}
