package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/dedx/internal/analysis"
	"github.com/san-kum/dedx/internal/stopping"
)

func curve(t *testing.T, model string) []stopping.Point {
	t.Helper()
	eng, err := stopping.NewWithModel(stopping.Proton, stopping.Water, model)
	if err != nil {
		t.Fatal(err)
	}
	energies, err := stopping.ReferenceGrid().Generate()
	if err != nil {
		t.Fatal(err)
	}
	points, err := eng.ComputeBatch(energies)
	if err != nil {
		t.Fatal(err)
	}
	return points
}

func TestRenderSamples(t *testing.T) {
	out := RenderSamples("FTFP_BERT", curve(t, "FTFP_BERT"))
	for _, want := range []string{"FTFP_BERT", "Energy (MeV)", "0.10", "10.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestRenderModels(t *testing.T) {
	out := RenderModels([]stopping.ModelInfo{stopping.NewICRU90().Info()})
	for _, want := range []string{"EM_option4", "ICRU90", "Barkas", "band"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestRenderComparison(t *testing.T) {
	c, err := analysis.Compare(curve(t, "FTFP_BERT"), curve(t, "EM_option4"))
	if err != nil {
		t.Fatal(err)
	}
	out := RenderComparison("FTFP_BERT", "EM_option4", c)
	if !strings.Contains(out, "max spread") {
		t.Errorf("missing max spread in\n%s", out)
	}
}

func TestPlotCurve(t *testing.T) {
	if PlotCurve(nil, "empty", false) != "" {
		t.Error("expected empty plot for no points")
	}
	out := PlotCurve(curve(t, "bethe_bloch"), "dE/dx", true)
	if !strings.Contains(out, "dE/dx (log10)") {
		t.Errorf("missing caption in\n%s", out)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("phosphor").Name != "phosphor" {
		t.Error("phosphor theme not found")
	}
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Errorf("expected %d names", len(Themes))
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 5); got != "─────" {
		t.Errorf("expected flat line, got %q", got)
	}
	out := Sparkline([]float64{1, 2, 3, 4}, 4)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("expected low and high blocks in %q", out)
	}
}
