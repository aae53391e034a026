package export_test

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"playmaker/internal/board"
	"playmaker/internal/domain"
	"playmaker/internal/export"
)

func sampleBoard() []domain.Shape {
	return []domain.Shape{
		domain.Person{ID: "p1", X: 100, Y: 100, Size: 32, AssociatedPlayerID: "m1"},
		domain.Arrow{ID: "a1", From: &domain.Anchor{ID: "p1", X: 100, Y: 100}, To: &domain.Anchor{X: 200, Y: 100}},
		domain.Arrow{ID: "bad", From: &domain.Anchor{X: 0, Y: 0}},
	}
}

func newRenderer() *board.Renderer {
	r := board.NewRenderer(nil)
	r.SetRoster(domain.Roster{{ID: "m1", Name: "Ana <GK>", Number: 1}})
	return r
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    export.Format
		wantErr bool
	}{
		{"svg", export.FormatSVG, false},
		{".PNG", export.FormatPNG, false},
		{"pdf", export.FormatPDF, false},
		{"gif", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := export.ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSVG(t *testing.T) {
	r := newRenderer()
	var buf bytes.Buffer
	if err := export.SVG(&buf, r.Render(sampleBoard(), board.NoSelection), export.DefaultOptions); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") {
		t.Fatalf("not an svg document: %q", out[:min(40, len(out))])
	}
	if strings.Count(out, "<g ") != 2 {
		t.Errorf("expected 2 groups, got:\n%s", out)
	}
	if !strings.Contains(out, `d="M 100 100 L 200 100 M 200 100`) {
		t.Errorf("arrow path missing:\n%s", out)
	}
	if strings.Contains(out, "<GK>") || !strings.Contains(out, "&lt;GK&gt;") {
		t.Errorf("label not escaped:\n%s", out)
	}
	if strings.Contains(out, `id="bad"`) {
		t.Error("invalid arrow exported")
	}
}

func TestPNG(t *testing.T) {
	r := newRenderer()
	var buf bytes.Buffer
	if err := export.PNG(&buf, r.Render(sampleBoard(), board.Selected("a1")), export.DefaultOptions); err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() < 100 || b.Dy() < 32 {
		t.Errorf("image too small: %v", b)
	}
	// the marker is filled with the person colour somewhere in the image
	want, _ := board.ParseHex(board.DefaultTheme.Person)
	found := false
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(bl>>8) == want.B {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("person fill colour not found in image")
	}
}

func TestPNG_BadBackground(t *testing.T) {
	r := newRenderer()
	var buf bytes.Buffer
	err := export.PNG(&buf, r.Render(sampleBoard(), board.NoSelection), export.Options{Background: "white"})
	if err == nil {
		t.Fatal("expected error for non-hex background")
	}
}

func TestPDF(t *testing.T) {
	r := newRenderer()
	var buf bytes.Buffer
	if err := export.PDF(&buf, r.Render(sampleBoard(), board.NoSelection), export.DefaultOptions); err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("missing pdf header: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestWrite_EmptyBoard(t *testing.T) {
	r := board.NewRenderer(nil)
	for _, f := range []export.Format{export.FormatSVG, export.FormatPNG, export.FormatPDF} {
		var buf bytes.Buffer
		if err := export.Write(&buf, f, r.Render(nil, board.NoSelection), export.DefaultOptions); err != nil {
			t.Errorf("%s: %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("%s: empty output", f)
		}
	}
}
