// Package export writes incident search results as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/crime360/internal/models"
)

// SheetName is the worksheet incidents are written to.
const SheetName = "Incidents"

// Columns is the header row of an incident export.
var Columns = []string{
	"Dataset", "FIR Number", "Type", "Status", "Priority", "Date", "Resolved On",
	"Area", "Latitude", "Longitude", "Complainant", "Accused", "Officer", "Keywords", "Description",
}

func incidentRow(inc *models.Incident) []interface{} {
	resolved := ""
	if inc.ResolvedOn != nil {
		resolved = inc.ResolvedOn.String()
	}
	return []interface{}{
		inc.Dataset,
		inc.CaseNumber,
		inc.Type,
		string(inc.Status),
		string(inc.Priority),
		inc.Date.String(),
		resolved,
		inc.Location.Area,
		inc.Location.Coordinates.Lat,
		inc.Location.Coordinates.Lon,
		inc.Complainant.Name,
		inc.Accused.Name,
		inc.Officer,
		strings.Join(inc.Keywords, ", "),
		inc.Description,
	}
}

// WriteIncidentsXLSX writes one header row and one row per hit, in hit order.
func WriteIncidentsXLSX(w io.Writer, hits []models.Hit[models.Incident]) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i := range hits {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := incidentRow(&hits[i].Source)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
