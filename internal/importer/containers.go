package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/loadwise/loadpack/internal/model"
)

// ContainerImportResult holds the results of a container import operation.
type ContainerImportResult struct {
	Containers []model.Container
	Errors     []string
	Warnings   []string
}

// containerColumnMapping maps container column roles to their indices.
type containerColumnMapping struct {
	Label     int
	Length    int
	Width     int
	Height    int
	MaxWeight int
	Quantity  int
}

var containerHeaderAliases = map[string][]string{
	"label":     {"label", "name", "container", "type", "description"},
	"length":    {"length", "len", "l", "x", "depth"},
	"width":     {"width", "w", "y"},
	"height":    {"height", "h", "z"},
	"maxweight": {"max weight", "maxweight", "max_weight", "capacity", "payload"},
	"quantity":  {"quantity", "qty", "count", "available"},
}

func detectContainerColumns(row []string) (containerColumnMapping, bool) {
	mapping := containerColumnMapping{
		Label:     -1,
		Length:    -1,
		Width:     -1,
		Height:    -1,
		MaxWeight: -1,
		Quantity:  -1,
	}

	assign := map[string]*int{
		"label":     &mapping.Label,
		"length":    &mapping.Length,
		"width":     &mapping.Width,
		"height":    &mapping.Height,
		"maxweight": &mapping.MaxWeight,
		"quantity":  &mapping.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range containerHeaderAliases {
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
		// Positional fallback: Label, Length, Width, Height, MaxWeight, Quantity
		return containerColumnMapping{
			Label:     0,
			Length:    1,
			Width:     2,
			Height:    3,
			MaxWeight: 4,
			Quantity:  5,
		}, false
	}

	return mapping, true
}

func parseContainerRow(row []string, mapping containerColumnMapping, rowLabel string, count int) (model.Container, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Container %d", count+1)
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
			return model.Container{}, fmt.Sprintf("%s: Missing %s value", rowLabel, col.name)
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return model.Container{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, col.name, str)
		}
		dims[i] = v
	}

	maxWeight := 0.0
	if str := getCell(row, mapping.MaxWeight); str != "" {
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return model.Container{}, fmt.Sprintf("%s: Invalid max weight '%s'", rowLabel, str)
		}
		maxWeight = v
	}

	qty := 0 // unlimited
	if str := getCell(row, mapping.Quantity); str != "" {
		v, err := strconv.Atoi(str)
		if err != nil {
			return model.Container{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, str)
		}
		qty = v
	}

	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 || maxWeight < 0 || qty < 0 {
		return model.Container{}, fmt.Sprintf("%s: Dimensions must be positive", rowLabel)
	}

	return model.NewContainer(label, dims[0], dims[1], dims[2], maxWeight, qty), ""
}

// ImportContainersCSV imports container types from a CSV file with automatic
// delimiter detection.
func ImportContainersCSV(path string) ContainerImportResult {
	result := ContainerImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectCSVDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importContainersFromRows(records, "Line")
}

// ImportContainersExcel imports container types from the first sheet of an
// Excel file.
func ImportContainersExcel(path string) ContainerImportResult {
	result := ContainerImportResult{}

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

	return importContainersFromRows(rows, "Row")
}

func importContainersFromRows(rows [][]string, rowPrefix string) ContainerImportResult {
	result := ContainerImportResult{}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := detectContainerColumns(rows[0])
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
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		container, errMsg := parseContainerRow(row, mapping, rowLabel, len(result.Containers))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Containers = append(result.Containers, container)
	}

	return result
}
