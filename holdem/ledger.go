package holdem

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// FreezeRecord is provenance for one freeze operation, kept for audit
// replay. spec.md §4.2 does not require exposing reasons, but the original
// Python core's base_betting_handler.py threads a reason string through
// every chip_ledger.freeze_chips call ("Action: RAISE", "Action: CALL", …);
// we keep that as cheap, load-bearing provenance rather than drop it.
type FreezeRecord struct {
	Seat   uint16
	Amount int64
	Reason string
}

// ChipLedger is the authoritative money view for one table, kept across
// hands: a mapping from
// seat to non-negative balance plus a frozen amount per seat (spec §3/§4.2).
// It is the ONLY component permitted to move chips; Game never mutates a
// balance directly.
type ChipLedger struct {
	initialTotal int64
	balance      map[uint16]int64
	frozen       map[uint16]int64
	freezeLog    []FreezeRecord
	logger       *log.Logger
}

// NewChipLedger seeds a ledger with one balance per seat. The sum of the
// given balances becomes the conservation invariant's INITIAL_TOTAL_CHIPS.
func NewChipLedger(balances map[uint16]int64, logger *log.Logger) *ChipLedger {
	l := &ChipLedger{
		balance: make(map[uint16]int64, len(balances)),
		frozen:  make(map[uint16]int64, len(balances)),
		logger:  logger,
	}
	for seat, amt := range balances {
		l.balance[seat] = amt
		l.frozen[seat] = 0
		l.initialTotal += amt
	}
	return l
}

// Balance returns a seat's unfrozen chip count.
func (l *ChipLedger) Balance(seat uint16) int64 { return l.balance[seat] }

// TotalFrozen returns a seat's frozen chip count.
func (l *ChipLedger) TotalFrozen(seat uint16) int64 { return l.frozen[seat] }

// KnownSeat reports whether seat has ever been registered with the ledger.
func (l *ChipLedger) KnownSeat(seat uint16) bool {
	_, ok := l.balance[seat]
	return ok
}

// Freeze moves amount from seat's balance to its frozen pool. amount must be
// positive and no greater than the seat's current balance.
func (l *ChipLedger) Freeze(seat uint16, amount int64, reason string) error {
	if !l.KnownSeat(seat) {
		return wrapErr(KindInvalidArgument, fmt.Sprintf("freeze: unknown seat %d", seat), nil)
	}
	if amount <= 0 {
		return wrapErr(KindInvalidArgument, fmt.Sprintf("freeze: amount must be positive, got %d", amount), nil)
	}
	if l.balance[seat] < amount {
		return wrapErr(KindInsufficientChips, fmt.Sprintf("freeze: seat %d balance %d < %d", seat, l.balance[seat], amount), nil)
	}
	l.balance[seat] -= amount
	l.frozen[seat] += amount
	l.freezeLog = append(l.freezeLog, FreezeRecord{Seat: seat, Amount: amount, Reason: reason})
	l.assertConservation("freeze")
	return nil
}

// SettleHand atomically applies a balanced transaction map and clears every
// seat's frozen pool to zero. The sum of deltas must equal zero; the entire
// map is validated before any mutation is applied, so a failure leaves the
// pre-settle state untouched (spec §4.2, §9 "build the entire transaction
// map before any ledger mutation").
func (l *ChipLedger) SettleHand(deltas map[uint16]int64) error {
	var sum int64
	for seat, delta := range deltas {
		if !l.KnownSeat(seat) {
			return wrapErr(KindSettlementFailure, fmt.Sprintf("settle: unknown seat %d", seat), nil)
		}
		sum += delta
		if delta < 0 && l.frozen[seat] == 0 {
			return wrapErr(KindSettlementFailure, fmt.Sprintf("settle: seat %d has negative delta with no prior freeze", seat), nil)
		}
	}
	if sum != 0 {
		return wrapErr(KindSettlementFailure, fmt.Sprintf("settle: deltas sum to %d, want 0", sum), nil)
	}

	// Compute resulting balances against a scratch copy first so a
	// would-go-negative balance aborts before any real mutation.
	next := make(map[uint16]int64, len(l.balance))
	for seat, bal := range l.balance {
		frozenAmt := l.frozen[seat]
		next[seat] = bal + frozenAmt + deltas[seat]
		if next[seat] < 0 {
			return wrapErr(KindSettlementFailure, fmt.Sprintf("settle: seat %d would go negative (%d)", seat, next[seat]), nil)
		}
	}
	for seat := range l.balance {
		l.balance[seat] = next[seat]
		l.frozen[seat] = 0
	}
	l.freezeLog = nil
	l.assertConservation("settle_hand")
	return nil
}

// assertConservation re-verifies Σbalance + Σfrozen == initial total. A
// violation is a programmer error (spec §7): it is logged loudly and then
// panics rather than being silently recovered, because the ledger can no
// longer be trusted to represent real chips.
func (l *ChipLedger) assertConservation(op string) {
	var total int64
	for seat := range l.balance {
		total += l.balance[seat] + l.frozen[seat]
	}
	if total != l.initialTotal {
		if l.logger != nil {
			l.logger.Error("chip ledger conservation violated", "op", op, "total", total, "want", l.initialTotal)
		}
		panic(fmt.Sprintf("holdem: conservation violated after %s: total=%d want=%d", op, total, l.initialTotal))
	}
}

// Total returns the ledger's invariant total chip count.
func (l *ChipLedger) Total() int64 { return l.initialTotal }

// AddSeat registers a new seat with a buy-in balance, raising the
// conservation invariant's total by that amount. Used when a seat sits
// down after the ledger already exists (spec §3's seat lifecycle: "added
// once at table init" generalizes to "added once before it ever plays").
func (l *ChipLedger) AddSeat(seat uint16, amount int64) {
	l.balance[seat] = amount
	l.frozen[seat] = 0
	l.initialTotal += amount
}

// RemoveSeat unregisters a seat entirely, lowering the conservation
// invariant's total by whatever it still held. Callers must ensure the seat
// is not mid-hand (no frozen chips) before calling this.
func (l *ChipLedger) RemoveSeat(seat uint16) {
	l.initialTotal -= l.balance[seat] + l.frozen[seat]
	delete(l.balance, seat)
	delete(l.frozen, seat)
}
