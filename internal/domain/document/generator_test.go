package document

import (
	"strings"
	"testing"
)

func TestGeneratePerCategory(t *testing.T) {
	g := NewGenerator(42)
	for cat := range categoryTemplates {
		draft := g.Generate("Toxina Botulínica", cat)
		if !strings.Contains(draft.Content, "Toxina Botulínica") {
			t.Errorf("%s: content does not mention the procedure", cat)
		}
		if !strings.Contains(draft.Content, closingParagraph) {
			t.Errorf("%s: content missing the closing paragraph", cat)
		}
	}
}

func TestGenerateUnknownCategoryFallsBack(t *testing.T) {
	g := NewGenerator(1)
	got := g.Generate("Peeling", "Inexistente")
	want := g.Generate("Peeling", "Outro")
	if got.Content != want.Content {
		t.Error("unknown category should use the generic template")
	}
}

func TestGenerateReadingTimeRange(t *testing.T) {
	g := NewGenerator(7)
	for i := 0; i < 100; i++ {
		draft := g.Generate("Laser", "Dermatológico")
		if draft.ReadingTimeMinutes < 3 || draft.ReadingTimeMinutes > 7 {
			t.Fatalf("reading time %d outside 3..7", draft.ReadingTimeMinutes)
		}
	}
}
