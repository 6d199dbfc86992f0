package app

import (
	"fmt"
	"strings"

	"github.com/HatiCode/wastepredict/pkg/dataset"
)

// Format is a dataset export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses an export format. The empty string selects CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", dataset.ErrInvalidArgument, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName returns the download file name of the format.
func (f Format) FileName() string {
	if f == FormatXLSX {
		return strings.TrimSuffix(dataset.DefaultExportName, ".csv") + ".xlsx"
	}
	return dataset.DefaultExportName
}
