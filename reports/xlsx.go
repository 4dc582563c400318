package reports

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

const (
	sheetInscrieri = "Inscrieri program"
	sheetFacultati = "Rezultate facultati"
)

// WriteXLSX writes both loaded reports as a workbook with one sheet each.
func (v *View) WriteXLSX(w io.Writer) error {
	snap := v.Snapshot()
	facultati := v.SortedFacultati()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetInscrieri); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	rows := [][]any{{"Program ID", "Program", "Facultate", "Inscrisi"}}
	for _, r := range snap.Programe {
		rows = append(rows, []any{r.ProgramID, r.ProgramNume, r.FacultateNume, r.Inscrisi})
	}
	if err := writeRows(f, sheetInscrieri, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetFacultati); err != nil {
		return errors.Wrap(err, "add sheet")
	}
	rows = [][]any{{"Facultate", "Admisi", "Respinsi"}}
	for _, r := range facultati {
		rows = append(rows, []any{r.FacultateNume, r.Admisi, r.Respinsi})
	}
	if err := writeRows(f, sheetFacultati, rows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write %s row %d", sheet, i+1)
		}
	}
	return nil
}
