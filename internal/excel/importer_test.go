package excel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/internal/spaced_repetition"
	"github.com/example/lingua/pkg/models"
)

func setupTestDB(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })
}

func createTestUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		ID:             uuid.NewString(),
		ExternalID:     uuid.NewString(),
		Username:       "importer",
		TargetLanguage: "Spanish",
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, database.NewUserRepository().Create(database.DB, user))
	return user
}

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestImportSpreadsheetAddsWords(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t)
	im := NewImporter(spaced_repetition.NewService())

	workbook := buildWorkbook(t, [][]any{
		{"Word", "Definition", "Example"},
		{"la casa", "the house", "La casa es grande."},
		{"el perro", "the dog", "El perro corre."},
		{"", "", ""},
		{"sin definición", "", ""},
	})

	result, err := im.ImportReader(user, workbook, "words.xlsx", DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Refreshed)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 5")
	assert.Contains(t, result.Errors[0], "definition cannot be empty")

	due, err := spaced_repetition.NewService().DueReviews(user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestImportHonorsColumnLayout(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t)
	im := NewImporter(spaced_repetition.NewService())

	workbook := buildWorkbook(t, [][]any{
		{"", "", "la llave", "the key", "¿Dónde está la llave?"},
	})
	config := ImportConfig{
		WordColumn:       "C",
		DefinitionColumn: "D",
		ExampleColumn:    "E",
		SheetName:        "Sheet1",
		StartRow:         1,
	}

	result, err := im.ImportReader(user, workbook, "words.xlsx", config)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalRows)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)
}

func TestImportCSVAndRefresh(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t)
	im := NewImporter(spaced_repetition.NewService())

	data := "word,definition,example\nla casa,the house,La casa es grande.\nel perro,the dog,\n"

	result, err := im.ImportReader(user, strings.NewReader(data), "words.csv", DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Refreshed)
	assert.Empty(t, result.Errors)

	// A second pass re-queues the same words instead of duplicating them
	again, err := im.ImportReader(user, strings.NewReader(data), "words.csv", DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Imported)
	assert.Equal(t, 2, again.Refreshed)

	due, err := spaced_repetition.NewService().DueReviews(user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestImportRejectsUnreadableSheet(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t)
	im := NewImporter(spaced_repetition.NewService())

	workbook := buildWorkbook(t, [][]any{{"la casa", "the house"}})
	config := DefaultImportConfig()
	config.SheetName = "Missing"

	_, err := im.ImportReader(user, workbook, "words.xlsx", config)
	assert.Error(t, err)
}
