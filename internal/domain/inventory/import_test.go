package inventory

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	xl := excelize.NewFile()
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	header := []any{"name", "description", "price", "quantity", "tags"}
	for col, v := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, xl.SetCellValue(sheet, cell, v))
	}
	for rowIdx, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			require.NoError(t, err)
			require.NoError(t, xl.SetCellValue(sheet, cell, v))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, xl.Write(&buf))
	return &buf
}

func TestParseWorkbook(t *testing.T) {
	vendorID := uuid.New()

	buf := buildWorkbook(t, [][]any{
		{"Stage lighting rig", "Full truss setup", "1500.50", "3", "lighting, av"},
		{"PA system", "", "800", "5", ""},
	})

	result, err := ParseWorkbook(buf, vendorID)
	require.NoError(t, err)
	require.Len(t, result.Parsed, 2)
	assert.Zero(t, result.Skipped)

	first := result.Parsed[0]
	assert.Equal(t, vendorID, first.VendorID)
	assert.Equal(t, "Stage lighting rig", first.Name)
	assert.Equal(t, int64(150050), first.PriceCents)
	assert.Equal(t, 3, first.Quantity)
	assert.Equal(t, []string{"lighting", "av"}, first.Tags)

	second := result.Parsed[1]
	assert.Nil(t, second.Description)
	assert.Empty(t, second.Tags)
}

func TestParseWorkbookSkipsBrokenRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Valid item", "desc", "100", "1", ""},
		{"", "no name", "100", "1", ""},
		{"Bad price", "desc", "free", "1", ""},
		{"Negative qty", "desc", "100", "-2", ""},
	})

	result, err := ParseWorkbook(buf, uuid.New())
	require.NoError(t, err)
	assert.Len(t, result.Parsed, 1)
	assert.Equal(t, 3, result.Skipped)
}

func TestParseWorkbookRejectsEmptySheet(t *testing.T) {
	buf := buildWorkbook(t, nil)

	_, err := ParseWorkbook(buf, uuid.New())
	assert.Error(t, err)
}

func TestParseWorkbookRejectsNonWorkbook(t *testing.T) {
	_, err := ParseWorkbook(bytes.NewBufferString("not an xlsx"), uuid.New())
	assert.Error(t, err)
}
