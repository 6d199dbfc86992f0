package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// DefaultExportName is the download file name used for CSV exports.
const DefaultExportName = "wastepredict_davao_dataset.csv"

// Header is the column row written by the exporters.
var Header = []string{
	"month", "year", "population", "income", "urbanArea",
	"rainfall", "temperature", "trucks", "recycling", "waste",
}

const xlsxSheet = "Dataset"

// WriteCSV writes ds as comma-separated rows preceded by Header.
func WriteCSV(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range ds.records {
		if err := cw.Write(csvRow(r)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(r MonthlyRecord) []string {
	return []string{
		strconv.Itoa(r.Month),
		strconv.Itoa(r.Year),
		formatFloat(r.Population),
		formatFloat(r.Income),
		formatFloat(r.UrbanArea),
		formatFloat(r.Rainfall),
		formatFloat(r.Temperature),
		strconv.Itoa(r.Trucks),
		formatFloat(r.Recycling),
		formatFloat(r.Waste),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteXLSX writes ds as a single-sheet workbook with the same columns as WriteCSV.
func WriteXLSX(w io.Writer, ds Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range ds.records {
		row := []any{
			r.Month, r.Year, r.Population, r.Income, r.UrbanArea,
			r.Rainfall, r.Temperature, r.Trucks, r.Recycling, r.Waste,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
