// Package event defines the typed transaction events of the replay stream
// and the CSV decoder that produces them.
//
// Each event kind is its own type: only deposits and withdrawals carry an
// amount, so "a dispute has no amount" is a property of the type system
// rather than a runtime check.
package event

import (
	"github.com/shopspring/decimal"

	"github.com/settlebook/settlebook/internal/ledger"
)

// Kind names an event type as it appears on the wire.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// Event is the sealed interface over the five transaction event kinds.
type Event interface {
	Client() ledger.ClientID
	Tx() ledger.TxID
	Kind() Kind
}

// Deposit credits a client's available funds.
type Deposit struct {
	ClientID ledger.ClientID
	TxID     ledger.TxID
	Amount   decimal.Decimal
}

// Client returns the owning client id.
func (e Deposit) Client() ledger.ClientID { return e.ClientID }

// Tx returns the transaction id.
func (e Deposit) Tx() ledger.TxID { return e.TxID }

// Kind returns KindDeposit.
func (e Deposit) Kind() Kind { return KindDeposit }

// Withdrawal debits a client's available funds.
type Withdrawal struct {
	ClientID ledger.ClientID
	TxID     ledger.TxID
	Amount   decimal.Decimal
}

// Client returns the owning client id.
func (e Withdrawal) Client() ledger.ClientID { return e.ClientID }

// Tx returns the transaction id.
func (e Withdrawal) Tx() ledger.TxID { return e.TxID }

// Kind returns KindWithdrawal.
func (e Withdrawal) Kind() Kind { return KindWithdrawal }

// Dispute opens a claim against a prior deposit, referencing its
// transaction id.
type Dispute struct {
	ClientID ledger.ClientID
	TxID     ledger.TxID
}

// Client returns the owning client id.
func (e Dispute) Client() ledger.ClientID { return e.ClientID }

// Tx returns the referenced transaction id.
func (e Dispute) Tx() ledger.TxID { return e.TxID }

// Kind returns KindDispute.
func (e Dispute) Kind() Kind { return KindDispute }

// Resolve settles an open dispute in the client's favor.
type Resolve struct {
	ClientID ledger.ClientID
	TxID     ledger.TxID
}

// Client returns the owning client id.
func (e Resolve) Client() ledger.ClientID { return e.ClientID }

// Tx returns the referenced transaction id.
func (e Resolve) Tx() ledger.TxID { return e.TxID }

// Kind returns KindResolve.
func (e Resolve) Kind() Kind { return KindResolve }

// Chargeback settles an open dispute against the client, withdrawing the
// held funds and locking the account.
type Chargeback struct {
	ClientID ledger.ClientID
	TxID     ledger.TxID
}

// Client returns the owning client id.
func (e Chargeback) Client() ledger.ClientID { return e.ClientID }

// Tx returns the referenced transaction id.
func (e Chargeback) Tx() ledger.TxID { return e.TxID }

// Kind returns KindChargeback.
func (e Chargeback) Kind() Kind { return KindChargeback }
