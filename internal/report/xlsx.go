package report

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/san-kum/dedx/internal/stopping"
)

const (
	dataSheet = "StoppingPower"
	infoSheet = "Info"
)

// WriteXLSX writes the table as a workbook with a data sheet and an info
// sheet holding the run metadata.
func WriteXLSX(w io.Writer, meta Meta, points []stopping.Point) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(dataSheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{"Energy (MeV)", "Total dE/dx (MeV/cm)", "Mass dE/dx (MeV cm2/g)"}); err != nil {
		return err
	}
	for i, p := range points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []interface{}{p.Energy, p.DEDX, p.MassDEDX}); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if _, err := f.NewSheet(infoSheet); err != nil {
		return err
	}
	info := [][]interface{}{
		{"Particle", meta.Particle},
		{"Material", meta.Material},
		{"Physics Model", meta.Model},
		{"Density (g/cm3)", meta.Density},
		{"Points", len(points)},
	}
	for i, row := range info {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(infoSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}
