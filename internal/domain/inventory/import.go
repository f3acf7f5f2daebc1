package inventory

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ImportResult reports what an xlsx import did with each row.
type ImportResult struct {
	Parsed  []*Item
	Skipped int
}

// ParseWorkbook reads vendor offerings from the first sheet of an uploaded
// workbook. Expected columns: name, description, price, quantity, tags
// (comma separated), with a header row. Incomplete rows are skipped, not
// fatal, so a vendor can fix and re-upload just the broken lines.
func ParseWorkbook(r io.Reader, vendorID uuid.UUID) (*ImportResult, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	rows, err := xl.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("workbook must have a header row and at least one data row")
	}

	result := &ImportResult{}
	for _, row := range rows[1:] {
		if len(row) < 4 {
			result.Skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		price, priceErr := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		quantity, qtyErr := strconv.Atoi(strings.TrimSpace(row[3]))
		if name == "" || priceErr != nil || price <= 0 || qtyErr != nil || quantity < 0 {
			result.Skipped++
			continue
		}

		item := &Item{
			VendorID:   vendorID,
			Name:       name,
			PriceCents: int64(price * 100),
			Quantity:   quantity,
		}
		if desc := strings.TrimSpace(row[1]); desc != "" {
			item.Description = &desc
		}
		if len(row) > 4 {
			for _, tag := range strings.Split(row[4], ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					item.Tags = append(item.Tags, tag)
				}
			}
		}

		result.Parsed = append(result.Parsed, item)
	}

	return result, nil
}
