package iyakuscraper

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/giygas/pmda-datasets/logging"
)

// Export column headers as they appear in the CSV.
const (
	colGenericName    = "一般名"
	colProductName    = "販売名"
	colManufacturer   = "製造販売業者等"
	colDocuments      = "添付文書"
	colPatientGuide   = "患者向医薬品ガイド／ワクチン接種を受ける人へのガイド"
	colInterviewForm  = "インタビューフォーム"
	colClassification = "薬効分類"
)

// ParseExportCSV parses an export payload into one map per data row, keyed
// by header. The payload carries a title line and a condition line before
// the header, so the header is the third row and data starts on the
// fourth. Ragged rows are tolerated; cells past the header width are
// dropped and blank rows are skipped.
func ParseExportCSV(csvText string) []map[string]string {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logging.Warn("Malformed CSV line skipped", "error", err)
			continue
		}
		records = append(records, record)
	}

	if len(records) < 4 {
		return nil
	}

	header := records[2]
	var rows []map[string]string
	for _, record := range records[3:] {
		if isBlankRecord(record) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[strings.TrimSpace(name)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
