// Package export writes transactions back out as CSV. The column set matches
// the upload format, so an exported file can be re-imported as-is.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"financetrack/internal/dateutils"
	"financetrack/internal/models"
)

// csvRow is the struct-tagged export shape.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
}

// WriteCSV writes the transactions to w in the upload column format. The
// Category column carries the resolved category name, or is empty for
// uncategorized transactions; re-importing ignores it.
func WriteCSV(w io.Writer, transactions []models.Transaction, categories []models.Category) error {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	rows := make([]csvRow, 0, len(transactions))
	for _, t := range transactions {
		row := csvRow{
			Date:        t.Date.Format(dateutils.LayoutISO),
			Description: t.Description,
			Amount:      t.Amount.StringFixed(2),
		}
		if t.CategoryID != nil {
			row.Category = names[*t.CategoryID]
		}
		rows = append(rows, row)
	}

	writer := csv.NewWriter(w)
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}
