// Package report encodes final account state as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/settlebook/settlebook/internal/ledger"
)

// balancePlaces is the fixed number of fractional digits in the output.
const balancePlaces = 4

var header = []string{"client", "available", "held", "total", "locked"}

// Write emits one record per account with balances rendered at exactly
// four fractional digits. Accounts are sorted by client id so the output
// is stable across runs.
func Write(w io.Writer, accounts []*ledger.Account) error {
	sorted := make([]*ledger.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Client < sorted[j].Client
	})

	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, account := range sorted {
		record := []string{
			strconv.FormatUint(uint64(account.Client), 10),
			account.Available.StringFixed(balancePlaces),
			account.Held.StringFixed(balancePlaces),
			account.Total().StringFixed(balancePlaces),
			strconv.FormatBool(account.Locked),
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write account %d: %w", account.Client, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}

	return nil
}
