// Package importer provides CSV and Excel import functionality for box and
// container lists. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/loadwise/loadpack/internal/model"
)

// ImportResult holds the results of a box import operation.
type ImportResult struct {
	Boxes    []model.Box
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Length   int
	Width    int
	Height   int
	Weight   int
	Quantity int
	Rotation int
	Support  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "box", "item", "description", "desc", "sku", "article"},
	"length":   {"length", "len", "l", "x", "depth"},
	"width":    {"width", "w", "y"},
	"height":   {"height", "h", "z"},
	"weight":   {"weight", "wt", "kg", "mass"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"rotation": {"rotation", "rotate", "rotatable", "orientation"},
	"support":  {"support", "min support", "min_support", "support ratio"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Label:    -1,
		Length:   -1,
		Width:    -1,
		Height:   -1,
		Weight:   -1,
		Quantity: -1,
		Rotation: -1,
		Support:  -1,
	}

	assign := map[string]*int{
		"label":    &mapping.Label,
		"length":   &mapping.Length,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"weight":   &mapping.Weight,
		"quantity": &mapping.Quantity,
		"rotation": &mapping.Rotation,
		"support":  &mapping.Support,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if target := assign[role]; *target == -1 {
						*target = i
					}
				}
			}
		}
	}

	if !isHeader {
		// Positional fallback: Label, Length, Width, Height, Weight, Quantity, Rotation, Support
		return ColumnMapping{
			Label:    0,
			Length:   1,
			Width:    2,
			Height:   3,
			Weight:   4,
			Quantity: 5,
			Rotation: 6,
			Support:  7,
		}, false
	}

	return mapping, true
}

// parseRotation converts a rotation policy string to a model.Rotation value.
// It returns the value and a boolean indicating whether the string was recognized.
func parseRotation(s string) (model.Rotation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "no", "n", "false", "0", "none":
		return model.RotationFixed, true
	case "", "free", "yes", "y", "true", "1", "any":
		return model.RotationFree, true
	default:
		return model.RotationFree, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Box from a row using the given column mapping.
// Returns the box, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, boxCount int) (model.Box, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Box %d", boxCount+1)
	}

	var dims [3]float64
	for i, col := range []struct {
		name string
		idx  int
	}{
		{"length", mapping.Length},
		{"width", mapping.Width},
		{"height", mapping.Height},
	} {
		str := getCell(row, col.idx)
		if str == "" {
			return model.Box{}, fmt.Sprintf("%s: Missing %s value", rowLabel, col.name), ""
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return model.Box{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, col.name, str), ""
		}
		dims[i] = v
	}

	weight := 0.0
	if weightStr := getCell(row, mapping.Weight); weightStr != "" {
		v, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return model.Box{}, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, weightStr), ""
		}
		weight = v
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		v, err := strconv.Atoi(qtyStr)
		if err != nil {
			return model.Box{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		qty = v
	}

	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 || qty <= 0 || weight < 0 {
		return model.Box{}, fmt.Sprintf("%s: Dimensions and quantity must be positive", rowLabel), ""
	}

	box := model.NewBox(label, dims[0], dims[1], dims[2], weight, qty)

	// Optional rotation policy
	var warning string
	if rotStr := getCell(row, mapping.Rotation); rotStr != "" {
		rot, ok := parseRotation(rotStr)
		if ok {
			box.Rotation = rot
		} else {
			warning = fmt.Sprintf("%s: Unknown rotation policy '%s', defaulting to Free", rowLabel, rotStr)
		}
	}

	// Optional per-box minimum support ratio
	if supStr := getCell(row, mapping.Support); supStr != "" {
		v, err := strconv.ParseFloat(supStr, 64)
		if err != nil || v < 0 || v > 1 {
			warning = fmt.Sprintf("%s: Invalid support ratio '%s', ignoring", rowLabel, supStr)
		} else {
			box.MinSupport = &v
		}
	}

	return box, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports boxes from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	result = importFromRows(records, "Line", result.Warnings)
	return result
}

// ImportCSVFromReader imports boxes from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports boxes from an Excel (.xlsx, .xls) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into boxes.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else {
		// No header: check if first row is numeric (positional mapping)
		if len(rows[0]) >= 4 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
				// First column after label is not numeric, treat as an
				// unrecognized header row but keep positional mapping.
				startRow = 1
				result.Warnings = append(result.Warnings, "Detected header row, skipping")
			}
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		box, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Boxes))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Boxes = append(result.Boxes, box)
	}

	return result
}
