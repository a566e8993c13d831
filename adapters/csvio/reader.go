// Package csvio decodes transaction records from delimited text and encodes
// the final ledger back into it.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DieracDelta/toy-txs/domain/models"
)

const (
	columnType   = "type"
	columnClient = "client"
	columnTx     = "tx"
	columnAmount = "amount"
)

// Reader yields one Transaction per data row. The header decides column
// order; unknown columns are ignored.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	width   int
	checked bool
}

// NewReader reads the header row from r. An empty input yields a reader
// that is immediately exhausted.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = ','
	cr.FieldsPerRecord = -1 // rows may be shorter or longer than the header
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	rd := &Reader{csv: cr, columns: make(map[string]int)}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return rd, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := rd.columns[name]; !dup {
			rd.columns[name] = i
		}
	}
	rd.width = len(header)
	return rd, nil
}

// Read returns the next transaction, or io.EOF when the input is exhausted.
func (r *Reader) Read() (models.Transaction, error) {
	for {
		record, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return models.Transaction{}, io.EOF
			}
			return models.Transaction{}, fmt.Errorf("failed to read record: %w", err)
		}
		if blank(record) {
			continue
		}

		line, _ := r.csv.FieldPos(0)
		tx, err := r.decode(record)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("line %d: %w", line, err)
		}
		return tx, nil
	}
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]models.Transaction, error) {
	var txs []models.Transaction
	for {
		tx, err := r.Read()
		if errors.Is(err, io.EOF) {
			return txs, nil
		}
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
}

func (r *Reader) decode(record []string) (models.Transaction, error) {
	if !r.checked {
		for _, name := range []string{columnType, columnClient, columnTx} {
			if _, ok := r.columns[name]; !ok {
				return models.Transaction{}, fmt.Errorf("%q: %w", name, models.ErrMissingColumn)
			}
		}
		r.checked = true
	}

	for i := r.width; i < len(record); i++ {
		if strings.TrimSpace(record[i]) != "" {
			return models.Transaction{}, fmt.Errorf("field %d: %w", i+1, models.ErrUnexpectedField)
		}
	}

	var (
		tx  models.Transaction
		err error
	)
	if tx.Type, err = models.ParseTransactionType(r.field(record, columnType)); err != nil {
		return tx, err
	}

	client, err := strconv.ParseUint(r.field(record, columnClient), 10, 16)
	if err != nil {
		return tx, fmt.Errorf("%q: %w", r.field(record, columnClient), models.ErrInvalidClientID)
	}
	tx.ClientID = uint16(client)

	id, err := strconv.ParseUint(r.field(record, columnTx), 10, 32)
	if err != nil {
		return tx, fmt.Errorf("%q: %w", r.field(record, columnTx), models.ErrInvalidTxID)
	}
	tx.TxID = uint32(id)

	if raw := r.field(record, columnAmount); raw != "" {
		a, err := models.ParseAmount(raw)
		if err != nil {
			return tx, err
		}
		tx.Amount = &a
	}
	return tx, nil
}

// field returns the trimmed value of a column, or "" when the row is too short.
func (r *Reader) field(record []string, name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
