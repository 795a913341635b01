package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/viz"
)

func TestSeriesToSVG_Path(t *testing.T) {
	var buf bytes.Buffer
	series := dynamo.Series{{0, 0, 1}, {1, 2, 3}, {2, 1, 0}}
	if err := SeriesToSVG(&buf, series, 0, 1, DefaultOptions()); err != nil {
		t.Fatalf("SeriesToSVG failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("not a complete SVG document")
	}
	if strings.Count(out, " L") != 2 {
		t.Errorf("expected 2 line segments in path:\n%s", out)
	}
}

func TestSeriesToSVG_Dots(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Dots = true
	if err := SeriesToSVG(&buf, dynamo.Series{{0.1, 0}, {0.986, 0.03}}, 0, 1, opts); err != nil {
		t.Fatalf("SeriesToSVG failed: %v", err)
	}
	if strings.Count(buf.String(), "<circle") != 2 {
		t.Error("expected one circle per state")
	}
}

func TestSeriesToSVG_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := SeriesToSVG(&buf, dynamo.Series{{1}}, 0, 1, DefaultOptions()); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected dimension mismatch, got %v", err)
	}
	if err := SeriesToSVG(&buf, nil, 0, 0, DefaultOptions()); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestCanvasToSVG(t *testing.T) {
	cv := viz.NewCanvas(2, 1)
	cv.Set(0, 0)
	cv.Set(3, 3)

	var buf bytes.Buffer
	if err := CanvasToSVG(&buf, cv, 4); err != nil {
		t.Fatalf("CanvasToSVG failed: %v", err)
	}
	if n := strings.Count(buf.String(), "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
}
