package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dedx/internal/analysis"
	"github.com/san-kum/dedx/internal/report"
	"github.com/san-kum/dedx/internal/stopping"
)

const tableWidth = 80

// RenderSamples prints the sample rows of a curve.
func RenderSamples(title string, points []stopping.Point) string {
	var b strings.Builder
	b.WriteString(Banner(title, tableWidth))
	b.WriteByte('\n')
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%15s%20s%30s", "Energy (MeV)", "dE/dx (MeV/cm)", "Mass dE/dx (MeV·cm²/g)")))
	b.WriteByte('\n')
	for _, p := range analysis.Samples(points, analysis.SampleEnergies, analysis.SampleTolerance) {
		fmt.Fprintf(&b, "%15.2f%20.4f%30.4f\n", p.Energy, p.DEDX, p.MassDEDX)
	}
	return b.String()
}

func RenderSummary(meta report.Meta, s analysis.Summary) string {
	lines := []string{
		Title.Render(meta.Model) + Subtle.Render(fmt.Sprintf("  %s in %s", meta.Particle, meta.Material)),
		labelValue("points      ", fmt.Sprintf("%d", s.Count)),
		labelValue("energy range", fmt.Sprintf("%.2f - %.2f MeV", s.EMin, s.EMax)),
		labelValue("max dE/dx   ", fmt.Sprintf("%.4f MeV/cm at %.2f MeV", s.MaxDEDX, s.MaxAt)),
		labelValue("min dE/dx   ", fmt.Sprintf("%.4f MeV/cm at %.2f MeV", s.MinDEDX, s.MinAt)),
		labelValue("mean dE/dx  ", fmt.Sprintf("%.4f MeV/cm", s.MeanDEDX)),
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

func RenderModels(infos []stopping.ModelInfo) string {
	var b strings.Builder
	for i, info := range infos {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Title.Render(info.Name))
		b.WriteString(Subtle.Render(fmt.Sprintf("  %s / %s", info.Parametrization, info.EMConstructor)))
		b.WriteByte('\n')
		if len(info.Corrections) > 0 {
			b.WriteString("  " + labelValue("corrections", strings.Join(info.Corrections, ", ")) + "\n")
		}
		b.WriteString("  " + labelValue("range      ", info.EnergyRange) + "\n")
		b.WriteString("  " + labelValue("use        ", info.RecommendedFor) + "\n")
		for _, band := range info.Bands {
			fmt.Fprintf(&b, "  %s [%g, %g) MeV  factor %.4f → %.4f  offset %g\n",
				Subtle.Render("band"), band.Lower, band.Upper, band.FactorLower, band.FactorUpper, band.Offset)
		}
	}
	return b.String()
}

// RenderComparison prints the spread at the sample energies and its maximum.
func RenderComparison(nameA, nameB string, c analysis.Comparison) string {
	var b strings.Builder
	b.WriteString(Banner(fmt.Sprintf("%s vs %s", nameA, nameB), 50))
	b.WriteByte('\n')
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%15s%20s", "Energy (MeV)", "|ΔdE/dx| / dE/dx")))
	b.WriteByte('\n')
	for _, e := range analysis.SampleEnergies {
		for i, energy := range c.Energies {
			if math.Abs(energy-e) < analysis.SampleTolerance {
				fmt.Fprintf(&b, "%15.2f%19.3f%%\n", energy, 100*c.RelDiff[i])
				break
			}
		}
	}
	b.WriteString(labelValue("max spread", fmt.Sprintf("%.3f%% at %.2f MeV", 100*c.MaxRelDiff, c.MaxAt)))
	b.WriteByte('\n')
	b.WriteString(labelValue("above 10 MeV", fmt.Sprintf("%.3f%%", 100*c.SpreadAbove(10))))
	b.WriteByte('\n')
	b.WriteString(Sparkline(c.RelDiff, 60))
	return b.String()
}

// PlotCurve draws dE/dx against grid index. With logScale the values are
// plotted as log10.
func PlotCurve(points []stopping.Point, caption string, logScale bool) string {
	if len(points) == 0 {
		return ""
	}
	data := make([]float64, len(points))
	for i, p := range points {
		if logScale {
			data[i] = math.Log10(p.DEDX)
		} else {
			data[i] = p.DEDX
		}
	}
	if logScale {
		caption += " (log10)"
	}

	return asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
