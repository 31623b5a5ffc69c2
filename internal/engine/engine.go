// Package engine replays a transaction event stream into ledger state.
//
// Events are applied strictly in the order received; correctness depends
// on it (a dispute can only see a deposit recorded earlier in the same
// pass). The engine decides whether each event is applied or skipped and
// delegates the arithmetic to the ledger package.
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/settlebook/settlebook/internal/event"
	"github.com/settlebook/settlebook/internal/ledger"
	"github.com/settlebook/settlebook/internal/log"
)

// Outcome classifies what the engine did with a single event. Every
// outcome except OutcomeApplied leaves the ledger untouched, and none of
// them is an error: a skipped event is a terminal business decision.
type Outcome uint8

const (
	// OutcomeApplied means the event mutated ledger state.
	OutcomeApplied Outcome = iota
	// OutcomeDuplicateTx means the transaction id was already used by a
	// prior deposit or withdrawal.
	OutcomeDuplicateTx
	// OutcomeLockedAccount means the target account is frozen.
	OutcomeLockedAccount
	// OutcomeInsufficientFunds means a withdrawal exceeded available funds.
	OutcomeInsufficientFunds
	// OutcomeUnknownTx means the referenced transaction was never recorded.
	OutcomeUnknownTx
	// OutcomeClientMismatch means the referenced transaction belongs to a
	// different client.
	OutcomeClientMismatch
	// OutcomeNotDisputable means the deposit is already under dispute or
	// was charged back.
	OutcomeNotDisputable
	// OutcomeNotDisputed means a resolve or chargeback referenced a
	// transaction with no open dispute.
	OutcomeNotDisputed
)

// String returns the outcome name used in log fields.
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeDuplicateTx:
		return "duplicate_tx"
	case OutcomeLockedAccount:
		return "locked_account"
	case OutcomeInsufficientFunds:
		return "insufficient_funds"
	case OutcomeUnknownTx:
		return "unknown_tx"
	case OutcomeClientMismatch:
		return "client_mismatch"
	case OutcomeNotDisputable:
		return "not_disputable"
	case OutcomeNotDisputed:
		return "not_disputed"
	default:
		return "unknown"
	}
}

// Stats counts per-outcome results across a run. The counters are
// observational only and never feed back into replay decisions.
type Stats struct {
	Applied           int
	DecodeFailures    int
	DuplicateTx       int
	LockedAccount     int
	InsufficientFunds int
	UnknownTx         int
	ClientMismatch    int
	NotDisputable     int
	NotDisputed       int
}

// Skipped returns the total number of events that produced no state
// change.
func (s Stats) Skipped() int {
	return s.DecodeFailures + s.DuplicateTx + s.LockedAccount + s.InsufficientFunds +
		s.UnknownTx + s.ClientMismatch + s.NotDisputable + s.NotDisputed
}

// Source yields decoded events one at a time. io.EOF ends the stream; a
// *event.DecodeError marks a single bad record that the engine skips; any
// other error is fatal to the run.
type Source interface {
	Next() (event.Event, error)
}

// Engine folds one ordered event stream into a ledger. Each Engine owns
// its state, so independent replays can run side by side in one process.
type Engine struct {
	ledger *ledger.Ledger
	seen   map[ledger.TxID]struct{}
	logger log.Logger
	stats  Stats
}

// New creates an engine with empty state. A nil logger disables logging.
func New(logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Engine{
		ledger: ledger.New(),
		seen:   make(map[ledger.TxID]struct{}),
		logger: logger,
	}
}

// Run consumes the source until io.EOF, skipping records that fail to
// decode. It returns an error only when the source itself fails, which
// aborts the run.
func (e *Engine) Run(src Source) error {
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		var decodeErr *event.DecodeError
		if errors.As(err, &decodeErr) {
			e.stats.DecodeFailures++
			e.logger.Debug("record skipped", log.Err(decodeErr))

			continue
		}

		if err != nil {
			return fmt.Errorf("consume event stream: %w", err)
		}

		e.Process(ev)
	}
}

// Process applies a single event and returns what happened to it.
func (e *Engine) Process(ev event.Event) Outcome {
	var outcome Outcome

	switch ev := ev.(type) {
	case event.Deposit:
		outcome = e.deposit(ev)
	case event.Withdrawal:
		outcome = e.withdrawal(ev)
	case event.Dispute:
		outcome = e.dispute(ev)
	case event.Resolve:
		outcome = e.resolve(ev)
	case event.Chargeback:
		outcome = e.chargeback(ev)
	default:
		// The event interface is sealed within this module; an unknown
		// implementation is a programming error worth surfacing loudly.
		e.logger.Error("unhandled event type", log.Any("event", ev))

		return OutcomeUnknownTx
	}

	e.record(ev, outcome)

	return outcome
}

// Accounts returns every account touched during the run.
func (e *Engine) Accounts() []*ledger.Account {
	return e.ledger.Accounts()
}

// Stats returns the per-outcome counters accumulated so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) deposit(ev event.Deposit) Outcome {
	if !e.claimTx(ev.TxID) {
		return OutcomeDuplicateTx
	}

	account := e.ledger.Account(ev.ClientID)
	if account.Locked {
		return OutcomeLockedAccount
	}

	account.Deposit(ev.Amount)
	e.ledger.RecordDeposit(ev.TxID, ev.ClientID, ev.Amount)

	return OutcomeApplied
}

func (e *Engine) withdrawal(ev event.Withdrawal) Outcome {
	if !e.claimTx(ev.TxID) {
		return OutcomeDuplicateTx
	}

	account := e.ledger.Account(ev.ClientID)
	if account.Locked {
		return OutcomeLockedAccount
	}

	if !account.Withdraw(ev.Amount) {
		return OutcomeInsufficientFunds
	}

	return OutcomeApplied
}

func (e *Engine) dispute(ev event.Dispute) Outcome {
	account, deposit, outcome := e.lookupReferenced(ev.ClientID, ev.TxID)
	if outcome != OutcomeApplied {
		return outcome
	}

	if !deposit.CanDispute() {
		return OutcomeNotDisputable
	}

	account.Hold(deposit.Amount)
	deposit.MarkDisputed()

	return OutcomeApplied
}

func (e *Engine) resolve(ev event.Resolve) Outcome {
	account, deposit, outcome := e.lookupReferenced(ev.ClientID, ev.TxID)
	if outcome != OutcomeApplied {
		return outcome
	}

	if !deposit.Disputed {
		return OutcomeNotDisputed
	}

	account.Release(deposit.Amount)
	deposit.MarkResolved()

	return OutcomeApplied
}

func (e *Engine) chargeback(ev event.Chargeback) Outcome {
	account, deposit, outcome := e.lookupReferenced(ev.ClientID, ev.TxID)
	if outcome != OutcomeApplied {
		return outcome
	}

	if !deposit.Disputed {
		return OutcomeNotDisputed
	}

	// The deposit record stays Disputed: charged back is terminal, and the
	// sticky flag blocks any later dispute against the same id.
	account.Chargeback(deposit.Amount)

	return OutcomeApplied
}

// claimTx reserves a transaction id for a deposit or withdrawal. The id
// is consumed even when the event is later skipped by the locked-account
// gate, matching the source system's accounting.
func (e *Engine) claimTx(tx ledger.TxID) bool {
	if _, dup := e.seen[tx]; dup {
		return false
	}

	e.seen[tx] = struct{}{}

	return true
}

// lookupReferenced runs the gates shared by dispute, resolve, and
// chargeback: fetch-or-create the account, refuse locked accounts, find
// the referenced deposit, and refuse cross-client references. It returns
// OutcomeApplied when every gate passes.
func (e *Engine) lookupReferenced(client ledger.ClientID, tx ledger.TxID) (*ledger.Account, *ledger.StoredDeposit, Outcome) {
	account := e.ledger.Account(client)
	if account.Locked {
		return nil, nil, OutcomeLockedAccount
	}

	deposit, ok := e.ledger.DepositRecord(tx)
	if !ok {
		return nil, nil, OutcomeUnknownTx
	}

	if deposit.Client != client {
		return nil, nil, OutcomeClientMismatch
	}

	return account, deposit, OutcomeApplied
}

func (e *Engine) record(ev event.Event, outcome Outcome) {
	switch outcome {
	case OutcomeApplied:
		e.stats.Applied++
	case OutcomeDuplicateTx:
		e.stats.DuplicateTx++
	case OutcomeLockedAccount:
		e.stats.LockedAccount++
	case OutcomeInsufficientFunds:
		e.stats.InsufficientFunds++
	case OutcomeUnknownTx:
		e.stats.UnknownTx++
	case OutcomeClientMismatch:
		e.stats.ClientMismatch++
	case OutcomeNotDisputable:
		e.stats.NotDisputable++
	case OutcomeNotDisputed:
		e.stats.NotDisputed++
	}

	if outcome != OutcomeApplied && e.logger.Enabled(log.LevelDebug) {
		e.logger.Debug("event skipped",
			log.String("kind", string(ev.Kind())),
			log.Uint64("client", uint64(ev.Client())),
			log.Uint64("tx", uint64(ev.Tx())),
			log.String("reason", outcome.String()),
		)
	}
}
