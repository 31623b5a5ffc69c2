// Package ledger holds the in-memory account state the replay run folds
// events into: per-client balances and the deposit records that remain
// eligible for dispute.
//
// The package performs arithmetic only. Business rules such as
// transaction-id uniqueness, dispute eligibility, and locked-account
// gating live in the engine package; ledger trusts its caller.
package ledger

import "github.com/shopspring/decimal"

// ClientID identifies a client account. The stream grammar caps it at the
// unsigned 16-bit range.
type ClientID uint16

// TxID identifies a deposit or withdrawal event. The stream grammar caps
// it at the unsigned 32-bit range.
type TxID uint32

// Account is the balance state for a single client.
//
// Total is not stored: it is always Available + Held, so the core
// invariant holds by construction rather than by bookkeeping.
type Account struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount creates an unlocked account with zero balances.
func NewAccount(client ClientID) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns the derived total balance.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Deposit credits available funds.
func (a *Account) Deposit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// Withdraw debits available funds if they cover the amount and reports
// whether the debit happened. Insufficient funds leave the account
// unchanged; that outcome is ordinary, not an error.
func (a *Account) Withdraw(amount decimal.Decimal) bool {
	if a.Available.LessThan(amount) {
		return false
	}

	a.Available = a.Available.Sub(amount)

	return true
}

// Hold moves funds from available to held. Total is unchanged. The caller
// guarantees the funds exist: held funds always originate from a prior
// accepted deposit.
func (a *Account) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// Release moves funds from held back to available. Inverse of Hold.
func (a *Account) Release(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
}

// Chargeback removes held funds, shrinking the total, and locks the
// account permanently. Available is deliberately untouched.
func (a *Account) Chargeback(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Locked = true
}

// StoredDeposit tracks an accepted deposit for the dispute lifecycle.
// Withdrawals are never stored: reversing funds that already left the
// account would create money.
type StoredDeposit struct {
	Client   ClientID
	Amount   decimal.Decimal
	Disputed bool
}

// CanDispute reports whether a dispute may open against this deposit.
// A charged-back deposit stays Disputed forever, so it can never be
// disputed again.
func (d *StoredDeposit) CanDispute() bool {
	return !d.Disputed
}

// MarkDisputed flags the deposit as under dispute.
func (d *StoredDeposit) MarkDisputed() {
	d.Disputed = true
}

// MarkResolved clears the dispute flag, making the deposit disputable
// again.
func (d *StoredDeposit) MarkResolved() {
	d.Disputed = false
}

// Ledger owns the account and deposit-record maps for one replay run.
// Records are never evicted: dispute eligibility must stay checkable for
// the lifetime of the run.
type Ledger struct {
	accounts map[ClientID]*Account
	deposits map[TxID]*StoredDeposit
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[ClientID]*Account),
		deposits: make(map[TxID]*StoredDeposit),
	}
}

// Account returns the client's account, creating a fresh zero-balance one
// on first reference. Idempotent.
func (l *Ledger) Account(client ClientID) *Account {
	account, ok := l.accounts[client]
	if !ok {
		account = NewAccount(client)
		l.accounts[client] = account
	}

	return account
}

// Accounts returns every account touched during the run, in no particular
// order.
func (l *Ledger) Accounts() []*Account {
	accounts := make([]*Account, 0, len(l.accounts))
	for _, account := range l.accounts {
		accounts = append(accounts, account)
	}

	return accounts
}

// RecordDeposit registers an accepted deposit so it becomes eligible for
// future disputes.
func (l *Ledger) RecordDeposit(tx TxID, client ClientID, amount decimal.Decimal) {
	l.deposits[tx] = &StoredDeposit{Client: client, Amount: amount}
}

// DepositRecord looks up the stored deposit for a transaction id.
func (l *Ledger) DepositRecord(tx TxID) (*StoredDeposit, bool) {
	record, ok := l.deposits[tx]

	return record, ok
}
