package event

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/settlebook/settlebook/internal/ledger"
)

// DecodeError describes a single record that failed the event grammar.
// It is recoverable by contract: the consumer skips the record and keeps
// reading. Errors of any other type coming out of Next are fatal.
type DecodeError struct {
	Line    int
	Field   string
	Message string
}

// Error returns the formatted decode failure message.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("record %d: %s (%s)", e.Line, e.Message, e.Field)
}

func newDecodeError(line int, field, message string) error {
	return &DecodeError{Line: line, Field: field, Message: message}
}

// Decoder streams transaction events out of CSV input, one record per
// call. The first record is always treated as the header row. Whitespace
// around fields is trimmed and the amount column may be absent entirely.
type Decoder struct {
	reader     *csv.Reader
	line       int
	headerRead bool
}

// NewDecoder creates a decoder over any byte-oriented source.
func NewDecoder(r io.Reader) *Decoder {
	reader := csv.NewReader(r)
	// Dispute, resolve, and chargeback rows legally omit the amount column.
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	return &Decoder{reader: reader}
}

// Next returns the next decoded event. It returns io.EOF once the input
// is exhausted, a *DecodeError for a record that fails the event grammar,
// and any other error only when the source itself fails.
func (d *Decoder) Next() (Event, error) {
	if !d.headerRead {
		d.headerRead = true
		d.line++

		if _, err := d.reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}

			return nil, d.wrapReadError(err)
		}
	}

	record, err := d.reader.Read()
	d.line++

	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, d.wrapReadError(err)
	}

	return d.decodeRecord(record)
}

// wrapReadError converts CSV syntax errors into recoverable decode
// failures and passes I/O failures through untouched.
func (d *Decoder) wrapReadError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return newDecodeError(d.line, "record", err.Error())
	}

	return fmt.Errorf("read record: %w", err)
}

func (d *Decoder) decodeRecord(record []string) (Event, error) {
	if len(record) < 3 || len(record) > 4 {
		return nil, newDecodeError(d.line, "record", fmt.Sprintf("expected 3 or 4 fields, got %d", len(record)))
	}

	kind := Kind(strings.TrimSpace(record[0]))

	client, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 16)
	if err != nil {
		return nil, newDecodeError(d.line, "client", "client id must be an unsigned 16-bit integer")
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(record[2]), 10, 32)
	if err != nil {
		return nil, newDecodeError(d.line, "tx", "transaction id must be an unsigned 32-bit integer")
	}

	clientID := ledger.ClientID(client)
	txID := ledger.TxID(tx)

	amountField := ""
	if len(record) == 4 {
		amountField = strings.TrimSpace(record[3])
	}

	switch kind {
	case KindDeposit, KindWithdrawal:
		amount, err := d.decodeAmount(amountField)
		if err != nil {
			return nil, err
		}

		if kind == KindDeposit {
			return Deposit{ClientID: clientID, TxID: txID, Amount: amount}, nil
		}

		return Withdrawal{ClientID: clientID, TxID: txID, Amount: amount}, nil
	case KindDispute, KindResolve, KindChargeback:
		// A populated amount column is ignored on reference events, but a
		// value that is not even a number fails the row.
		if amountField != "" {
			if _, err := decimal.NewFromString(amountField); err != nil {
				return nil, newDecodeError(d.line, "amount", "amount is not a valid decimal")
			}
		}

		switch kind {
		case KindDispute:
			return Dispute{ClientID: clientID, TxID: txID}, nil
		case KindResolve:
			return Resolve{ClientID: clientID, TxID: txID}, nil
		default:
			return Chargeback{ClientID: clientID, TxID: txID}, nil
		}
	default:
		return nil, newDecodeError(d.line, "type", fmt.Sprintf("unknown event type %q", record[0]))
	}
}

// decodeAmount parses the mandatory amount of a deposit or withdrawal.
// The decimal parse preserves the input's exact precision; amounts never
// pass through a binary float.
func (d *Decoder) decodeAmount(field string) (decimal.Decimal, error) {
	if field == "" {
		return decimal.Zero, newDecodeError(d.line, "amount", "amount is required")
	}

	amount, err := decimal.NewFromString(field)
	if err != nil {
		return decimal.Zero, newDecodeError(d.line, "amount", "amount is not a valid decimal")
	}

	if amount.IsNegative() {
		return decimal.Zero, newDecodeError(d.line, "amount", "amount must not be negative")
	}

	return amount, nil
}
