package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/DieracDelta/toy-txs/domain/models"
)

// Header is the fixed output column order.
var Header = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts writes the header followed by one row per snapshot, in the
// order given. The header is written even when rows is empty.
func WriteAccounts(w io.Writer, rows []models.AccountSnapshot) error {
	cw := csv.NewWriter(w)
	cw.Comma = ','

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(Header))
	for _, row := range rows {
		record[0] = strconv.FormatUint(uint64(row.ClientID), 10)
		record[1] = row.Available.String()
		record[2] = row.Held.String()
		record[3] = row.Total.String()
		record[4] = strconv.FormatBool(row.Locked)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write client %d: %w", row.ClientID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush accounts: %w", err)
	}
	return nil
}
