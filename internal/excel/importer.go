package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/lingua/internal/spaced_repetition"
	"github.com/example/lingua/pkg/models"
)

// ImportConfig describes where word data lives in a spreadsheet
type ImportConfig struct {
	WordColumn       string // Column with the word
	DefinitionColumn string // Column with the definition or translation
	ExampleColumn    string // Column with an example sentence
	SheetName        string // Name of the sheet to import
	StartRow         int    // First data row, 1-based
}

// DefaultImportConfig returns the standard three-column layout with a
// header row
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:       "A",
		DefinitionColumn: "B",
		ExampleColumn:    "C",
		SheetName:        "Sheet1",
		StartRow:         2,
	}
}

// ImportResult summarizes an import run. Imported counts new queue items,
// Refreshed counts words already on the queue whose next review was pulled
// forward.
type ImportResult struct {
	TotalRows int      `json:"total_rows"`
	Imported  int      `json:"imported"`
	Refreshed int      `json:"refreshed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// Importer loads vocabulary lists from Excel or CSV files onto a user's
// review queue
type Importer struct {
	srs *spaced_repetition.Service
}

// NewImporter creates an importer feeding the given review queue
func NewImporter(srs *spaced_repetition.Service) *Importer {
	return &Importer{srs: srs}
}

// ImportReader ingests a vocabulary list for the user. The filename's
// extension picks the format: .csv is parsed as comma-separated
// word,definition,example rows, anything else as a spreadsheet.
func (im *Importer) ImportReader(user *models.User, r io.Reader, filename string, config ImportConfig) (*ImportResult, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".csv" {
		return im.importCSV(user, r, config)
	}
	return im.importExcel(user, r, config)
}

func (im *Importer) importExcel(user *models.User, r io.Reader, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", config.SheetName, err)
	}

	result := newResult()
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		im.ingestRow(user, importedRow{
			word:       cellAt(row, config.WordColumn),
			definition: cellAt(row, config.DefinitionColumn),
			example:    cellAt(row, config.ExampleColumn),
		}, i+1, result)
	}
	return result, nil
}

func (im *Importer) importCSV(user *models.User, r io.Reader, config ImportConfig) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := newResult()
	rowNum := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		im.ingestRow(user, importedRow{
			word:       indexAt(row, 0),
			definition: indexAt(row, 1),
			example:    indexAt(row, 2),
		}, rowNum, result)
	}
	return result, nil
}

type importedRow struct {
	word       string
	definition string
	example    string
}

// ingestRow validates one data row and puts its word on the review queue.
// Fully blank rows are tolerated as separators.
func (im *Importer) ingestRow(user *models.User, row importedRow, rowNum int, result *ImportResult) {
	result.TotalRows++

	row.word = strings.TrimSpace(row.word)
	row.definition = strings.TrimSpace(row.definition)
	row.example = strings.TrimSpace(row.example)

	if row.word == "" && row.definition == "" && row.example == "" {
		result.Skipped++
		return
	}
	if row.word == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: word cannot be empty", rowNum))
		return
	}
	if row.definition == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: definition cannot be empty", rowNum))
		return
	}

	_, created, err := im.srs.AddWord(user, row.word, row.definition, row.example)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		return
	}
	if created {
		result.Imported++
	} else {
		result.Refreshed++
	}
}

func newResult() *ImportResult {
	return &ImportResult{Errors: make([]string, 0)}
}

func cellAt(row []string, column string) string {
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

func indexAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// columnToIndex converts an Excel column letter like "A" or "AB" to a
// zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
