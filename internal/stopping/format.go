package stopping

import (
	"fmt"
	"strings"
)

const (
	colEnergy   = 15
	colDEDX     = 25
	colMassDEDX = 35
)

// TableHeader is the fixed header line of FormatOutput.
var TableHeader = fmt.Sprintf("%*s%*s%*s",
	colEnergy, "Energy (MeV)",
	colDEDX, "Total dE/dx (MeV/cm)",
	colMassDEDX, "Total Mass dE/dx (MeV cm^2/g)")

// FormatOutput renders points as a column-aligned table with two decimals.
func FormatOutput(points []Point) string {
	var b strings.Builder
	b.WriteString(TableHeader)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", colEnergy+colDEDX+colMassDEDX))
	for _, p := range points {
		fmt.Fprintf(&b, "\n%*.2f%*.2f%*.2f",
			colEnergy, p.Energy,
			colDEDX, p.DEDX,
			colMassDEDX, p.MassDEDX)
	}
	return b.String()
}
