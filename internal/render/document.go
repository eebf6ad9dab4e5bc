// Package render produces the derived artifacts of a campaign pack: the
// printable document, per-location raster maps, and the portraits sheet.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"dndtools/internal/domain"
)

// DefaultMaxSceneOptions caps how many player options are printed per scene.
const DefaultMaxSceneOptions = 6

// DocumentRenderer writes the printable campaign pack PDF. The zero value is
// usable; MaxSceneOptions defaults to DefaultMaxSceneOptions.
type DocumentRenderer struct {
	MaxSceneOptions int
}

// Document renders the full pack as a paginated A4 PDF. NPC secrets are
// printed in a distinct DM-only style but are not access-controlled; the
// document contains everything. Empty optional fields are omitted rather
// than rendered blank.
func (r DocumentRenderer) Document(pack *domain.CampaignPack, generatedAt time.Time) ([]byte, error) {
	maxOptions := r.MaxSceneOptions
	if maxOptions <= 0 {
		maxOptions = DefaultMaxSceneOptions
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := pack.Title
	if title == "" {
		title = "Campaign Pack"
	}
	pdf.SetFont("Helvetica", "", 16)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.MultiCell(0, 6, "Generated: "+generatedAt.UTC().Format("2006-01-02 15:04 UTC"), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)

	section := func(name string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, name, "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
	}
	body := func(text string) {
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
	}
	heading := func(text string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
	}

	section("Premise")
	body(pack.Premise)
	pdf.Ln(2)

	section("Tone")
	body(pack.Tone)
	pdf.Ln(2)

	section("Starting Location")
	body(pack.StartingLocation)
	pdf.Ln(2)

	section("Locations")
	for _, loc := range pack.Locations {
		heading("- " + loc.Name)
		if loc.Summary != "" {
			body(loc.Summary)
		}
		if len(loc.Encounters) > 0 {
			pdf.SetTextColor(60, 60, 60)
			body("Encounters: " + strings.Join(loc.Encounters, "; "))
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(1)
	}

	section("NPCs")
	for _, npc := range pack.NPCs {
		heading(fmt.Sprintf("- %s (%s) - %s", npc.Name, npc.Race, npc.Role))
		if npc.Motivation != "" {
			body("Motivation: " + npc.Motivation)
		}
		if npc.Secret != "" {
			pdf.SetTextColor(120, 0, 0)
			body("Secret (DM): " + npc.Secret)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(1)
	}

	section("Scenes")
	for _, scene := range pack.Scenes {
		heading(fmt.Sprintf("- %s (%s)", scene.Title, scene.Location))
		if scene.Setup != "" {
			body(scene.Setup)
		}
		if len(scene.PlayerOptions) > 0 {
			pdf.SetTextColor(60, 60, 60)
			options := scene.PlayerOptions
			if len(options) > maxOptions {
				options = options[:maxOptions]
			}
			for _, opt := range options {
				body(fmt.Sprintf("Option: %s -> %s", opt.Label, opt.Outcome))
			}
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(1)
	}

	section("Handouts")
	for _, h := range pack.Handouts {
		heading(h.Title)
		body(h.Content)
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}
