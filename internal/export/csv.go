// Package export serializes transaction sets to CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/geocoder89/fintrack/internal/domain/transaction"
)

// Header is fixed; downstream spreadsheets key on these column names.
var Header = []string{"id", "user_id", "date", "amount", "category", "type", "description"}

func WriteCSV(w io.Writer, txs []transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, t := range txs {
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}

		record := []string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.UserID, 10),
			t.Date,
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			t.Category,
			t.Type,
			desc,
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func Bytes(txs []transaction.Transaction) ([]byte, error) {
	var buf bytes.Buffer

	if err := WriteCSV(&buf, txs); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DefaultFilename keeps the naming the old tracker used:
// transactions_export_<userID>_<YYYY-MM-DD>.csv
func DefaultFilename(userID int64, now time.Time) string {
	return fmt.Sprintf("transactions_export_%d_%s.csv", userID, now.UTC().Format("2006-01-02"))
}
