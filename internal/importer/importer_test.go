package importer

import (
	"strings"
	"testing"

	"github.com/loadwise/loadpack/internal/model"
)

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"semicolon", "a;b;c\n1;2;3\n", ';'},
		{"tab", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"pipe", "a|b|c\n1|2|3\n", '|'},
	}
	for _, tt := range tests {
		if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
			t.Errorf("%s: DetectCSVDelimiter = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDetectColumnsWithHeader(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"Name", "Length", "Width", "Height", "Weight", "Qty", "Rotation"})
	if !hasHeader {
		t.Fatal("expected header detection")
	}
	if mapping.Label != 0 || mapping.Length != 1 || mapping.Width != 2 || mapping.Height != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
	if mapping.Weight != 4 || mapping.Quantity != 5 || mapping.Rotation != 6 {
		t.Errorf("optional columns not mapped: %+v", mapping)
	}
}

func TestDetectColumnsPositionalFallback(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"Carton", "300", "200", "200"})
	if hasHeader {
		t.Fatal("numeric row should not be treated as header")
	}
	if mapping.Label != 0 || mapping.Length != 1 {
		t.Errorf("positional mapping wrong: %+v", mapping)
	}
}

func TestImportCSVFromReader(t *testing.T) {
	csvData := `label,length,width,height,weight,qty,rotation,support
Carton,300,200,200,8,10,free,
Drum,500,500,900,200,2,fixed,0.8
`
	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(result.Boxes))
	}

	carton := result.Boxes[0]
	if carton.Label != "Carton" || carton.Length != 300 || carton.Quantity != 10 {
		t.Errorf("carton parsed wrong: %+v", carton)
	}
	if carton.Rotation != model.RotationFree {
		t.Errorf("carton rotation = %v, want Free", carton.Rotation)
	}

	drum := result.Boxes[1]
	if drum.Rotation != model.RotationFixed {
		t.Errorf("drum rotation = %v, want Fixed", drum.Rotation)
	}
	if drum.MinSupport == nil || *drum.MinSupport != 0.8 {
		t.Errorf("drum support override not parsed: %+v", drum.MinSupport)
	}
}

func TestImportCSVDefaultsForOptionalColumns(t *testing.T) {
	csvData := "Carton,300,200,200\n"
	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(result.Boxes))
	}
	box := result.Boxes[0]
	if box.Weight != 0 || box.Quantity != 1 {
		t.Errorf("missing optional columns should default, got %+v", box)
	}
}

func TestImportCSVReportsRowErrors(t *testing.T) {
	csvData := `label,length,width,height
Good,300,200,200
BadWidth,300,abc,200
MissingHeight,300,200,
`
	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Boxes) != 1 {
		t.Errorf("expected 1 good box, got %d", len(result.Boxes))
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 row errors, got %v", result.Errors)
	}
}

func TestImportCSVUnknownRotationWarns(t *testing.T) {
	csvData := `label,length,width,height,rotation
Carton,300,200,200,sideways
`
	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(result.Boxes))
	}
	if result.Boxes[0].Rotation != model.RotationFree {
		t.Error("unknown rotation should default to Free")
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "sideways") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected warning about unknown rotation, got %v", result.Warnings)
	}
}

func TestImportCSVSkipsEmptyRows(t *testing.T) {
	csvData := "label,length,width,height\nCarton,300,200,200\n,,,\nCrate,400,300,300\n"
	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Boxes) != 2 {
		t.Errorf("expected 2 boxes, got %d", len(result.Boxes))
	}
	if len(result.Errors) != 0 {
		t.Errorf("empty rows should not produce errors: %v", result.Errors)
	}
}

func TestImportCSVMissingRequiredHeaderColumn(t *testing.T) {
	csvData := "label,length,width\nCarton,300,200\n"
	result := ImportCSVFromReader(strings.NewReader(csvData), ',')

	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing Height column")
	}
	if !strings.Contains(result.Errors[0], "Height") {
		t.Errorf("error should name the missing column: %v", result.Errors)
	}
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		in   string
		want model.Rotation
		ok   bool
	}{
		{"free", model.RotationFree, true},
		{"FIXED", model.RotationFixed, true},
		{"no", model.RotationFixed, true},
		{"", model.RotationFree, true},
		{"diagonal", model.RotationFree, false},
	}
	for _, tt := range tests {
		got, ok := parseRotation(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseRotation(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestImportContainersFromRows(t *testing.T) {
	rows := [][]string{
		{"name", "length", "width", "height", "capacity", "qty"},
		{"Crate", "1200", "800", "900", "500", "2"},
		{"Truck", "6100", "2400", "2300", "2800", ""},
	}

	result := importContainersFromRows(rows, "Row")

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(result.Containers))
	}
	if result.Containers[0].MaxWeight != 500 || result.Containers[0].Quantity != 2 {
		t.Errorf("crate parsed wrong: %+v", result.Containers[0])
	}
	if result.Containers[1].Quantity != 0 {
		t.Error("missing quantity should mean unlimited")
	}
}
