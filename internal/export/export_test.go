package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mediawatch/internal/model"
)

func TestWriteCSV(t *testing.T) {
	articles := []model.Article{
		{
			Hyperlink:            "https://example.com/a1",
			Headline:             `FedEx "beats" estimates, again`,
			Summary:              "Strong quarter,\nwith commas and newlines.",
			Outlet:               "Business Daily",
			Source:               "bd",
			Country:              "India",
			Company:              "FedEx",
			MediaType:            "Online",
			Date:                 "15-Jun-24",
			Sentiment:            "Positive",
			Keyword:              "earnings",
			FinancialPerformance: true,
			ECommerce:            true,
			AMEALeader:           "Kawal Preet",
		},
		{
			Hyperlink: "https://example.com/a2",
			Headline:  "DHL customs update",
			Country:   "Malaysia",
			Company:   "DHL",
			Date:      "16-Jun-24",
			Sentiment: "Negative",
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, articles); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, utf8BOM) {
		t.Error("output must start with a UTF-8 BOM")
	}

	records, err := csv.NewReader(bytes.NewReader(out[len(utf8BOM):])).ReadAll()
	if err != nil {
		t.Fatalf("re-parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(records))
	}

	if diff := cmp.Diff(header, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	first := records[1]
	if first[1] != `FedEx "beats" estimates, again` {
		t.Errorf("quoted headline mangled: %q", first[1])
	}
	if first[2] != "Strong quarter,\nwith commas and newlines." {
		t.Errorf("multiline summary mangled: %q", first[2])
	}
	if first[11] != "true" || first[17] != "true" {
		t.Errorf("flag columns mismatch: %v", first)
	}
	if first[12] != "false" {
		t.Errorf("unset flag must render false, got %q", first[12])
	}
	if first[18] != "Kawal Preet" {
		t.Errorf("leader column = %q", first[18])
	}

	second := records[2]
	if second[18] != "" || second[20] != "" {
		t.Errorf("empty leader fields must stay empty: %v", second)
	}
}

func TestWriteCSVEmptySet(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	got := strings.TrimPrefix(buf.String(), string(utf8BOM))
	records, err := csv.NewReader(strings.NewReader(got)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}
