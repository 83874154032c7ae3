package ingest

import (
	"errors"
	"testing"
)

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"claims.csv":  true,
		"CLAIMS.CSV":  true,
		"export.xlsx": true,
		"export.json": false,
		"notes.txt":   false,
		"claims":      false,
	}
	for name, want := range cases {
		if got := Supported(name); got != want {
			t.Errorf("Supported(%q): expected %v, got %v", name, want, got)
		}
	}
}

func TestDocument_CSV(t *testing.T) {
	payload := []byte("id,dos,dayssupply,medication\nrx1,2024-01-15,30,Lisinopril\nrx2,2024-02-01,14,Metformin\n")

	doc, err := Document("rx-claims.csv", payload)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records, ok := doc["rx_claims"].([]any)
	if !ok {
		t.Fatalf("Expected records under sanitized stem 'rx_claims', got %v", doc)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0].(map[string]any)
	if first["id"] != "rx1" {
		t.Errorf("Expected id 'rx1', got %v", first["id"])
	}
	if first["dos"] != "2024-01-15" {
		t.Errorf("Expected date kept as string, got %v", first["dos"])
	}
	if first["dayssupply"] != float64(30) {
		t.Errorf("Expected numeric days supply, got %v (%T)", first["dayssupply"], first["dayssupply"])
	}
}

func TestDocument_CSVWithBOM(t *testing.T) {
	payload := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,dos\nrx1,2024-01-15\n")...)

	doc, err := Document("claims.csv", payload)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	records := doc["claims"].([]any)
	first := records[0].(map[string]any)
	if first["id"] != "rx1" {
		t.Errorf("Expected BOM stripped before the header row, got keys %v", first)
	}
}

func TestDocument_CSVHeaderSanitization(t *testing.T) {
	payload := []byte("Claim ID,Date of Service,Date of Service,\nrx1,2024-01-15,2024-01-20,x\n")

	doc, err := Document("claims.csv", payload)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	record := doc["claims"].([]any)[0].(map[string]any)

	if record["Claim_ID"] != "rx1" {
		t.Errorf("Expected spaces replaced in headers, got %v", record)
	}
	if record["Date_of_Service"] != "2024-01-15" {
		t.Errorf("Expected first duplicate header kept, got %v", record)
	}
	if record["Date_of_Service_2"] != "2024-01-20" {
		t.Errorf("Expected duplicate header suffixed, got %v", record)
	}
	if record["column_4"] != "x" {
		t.Errorf("Expected blank header named column_4, got %v", record)
	}
}

func TestDocument_CSVSkipsEmptyRows(t *testing.T) {
	payload := []byte("id,dos\n,\nrx1,2024-01-15\n")

	doc, err := Document("claims.csv", payload)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	records := doc["claims"].([]any)
	if len(records) != 1 {
		t.Errorf("Expected empty row skipped, got %d records", len(records))
	}
}

func TestDocument_CSVBooleanCoercion(t *testing.T) {
	payload := []byte("id,active\nrx1,TRUE\n")

	doc, err := Document("claims.csv", payload)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	record := doc["claims"].([]any)[0].(map[string]any)
	if record["active"] != true {
		t.Errorf("Expected boolean coercion, got %v (%T)", record["active"], record["active"])
	}
}

func TestDocument_CSVNoHeader(t *testing.T) {
	if _, err := Document("claims.csv", []byte("")); err == nil {
		t.Fatal("Expected error for a file with no header row")
	}
}

func TestDocument_UnsupportedFormat(t *testing.T) {
	_, err := Document("claims.txt", []byte("x"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
