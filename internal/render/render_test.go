package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"dndtools/internal/domain"
)

func TestMapFileNameStableAndBounded(t *testing.T) {
	a := MapFileName("job1", "Sunken Crypt", 20, 20)
	b := MapFileName("job1", "Sunken Crypt", 20, 20)
	if a != b {
		t.Fatalf("filename not stable: %q vs %q", a, b)
	}
	if a != "map_Sunken_Crypt_20x20_job1.png" {
		t.Fatalf("unexpected filename %q", a)
	}

	long := strings.Repeat("Endless Halls of the Mountain King ", 5)
	name := MapFileName("job1", long, 20, 20)
	if len(name) > len("map_")+maxLocationNameLen+len("_20x20_job1.png") {
		t.Fatalf("filename not bounded: %q", name)
	}
}

func TestMapFileNamesDistinctPerLocation(t *testing.T) {
	a := MapFileName("job1", "Harbor", 20, 20)
	b := MapFileName("job1", "Keep", 20, 20)
	if a == b {
		t.Fatalf("distinct locations collided: %q", a)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Crypt of Echoes", "Crypt_of_Echoes"},
		{"  spaced   out  ", "spaced_out"},
		{"Café Morne", "Cafe_Morne"},
		{"../../etc/passwd", "etcpasswd"},
		{"", "location"},
		{"!!!", "location"},
	}
	for _, c := range cases {
		if got := SanitizeName(c.in); got != c.want {
			t.Fatalf("SanitizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMapRendererProducesPNG(t *testing.T) {
	data, err := MapRenderer{Seed: 7}.Map(10, 8)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG (%d bytes)", len(data))
	}
}

func TestMapRendererDefaultsSize(t *testing.T) {
	a, err := MapRenderer{Seed: 7}.Map(0, -3)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	b, err := MapRenderer{Seed: 7}.Map(DefaultMapSize, DefaultMapSize)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("non-positive dimensions should fall back to the default size")
	}
}

func TestDocumentRendersAllSections(t *testing.T) {
	pack := &domain.CampaignPack{
		Title:            "The Sunken Bell",
		Premise:          "A drowned chapel rings at midnight.",
		Tone:             "gothic",
		StartingLocation: "Graywharf",
		Locations:        []domain.Location{{Name: "Graywharf", Summary: "fog-bound port", Encounters: []string{"smugglers"}}},
		NPCs:             []domain.NPC{{Name: "Maren", Race: "human", Role: "bellkeeper", Secret: "she rang it first"}},
		Scenes: []domain.Scene{{
			Title: "Arrival", Location: "Graywharf", Setup: "The bell tolls.",
			PlayerOptions: []domain.PlayerOption{{Label: "dive", Outcome: "cold"}},
		}},
		Handouts: []domain.Handout{{Title: "Torn page", Content: "...the bell must never ring twice..."}},
	}

	data, err := DocumentRenderer{}.Document(pack, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (%d bytes)", len(data))
	}
}

func TestDocumentEmptyPack(t *testing.T) {
	data, err := DocumentRenderer{}.Document(&domain.CampaignPack{}, time.Now())
	if err != nil {
		t.Fatalf("Document() on empty pack error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty pack should still render a document")
	}
}

func TestPortraitsPDFMissingDir(t *testing.T) {
	if _, err := PortraitsPDF(t.TempDir()+"/missing", 2, 3); err != ErrNoPortraits {
		t.Fatalf("error = %v, want ErrNoPortraits", err)
	}
}

func TestPortraitsPDFEmptyDir(t *testing.T) {
	if _, err := PortraitsPDF(t.TempDir(), 2, 3); err != ErrNoPortraits {
		t.Fatalf("error = %v, want ErrNoPortraits", err)
	}
}
