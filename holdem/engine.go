package holdem

import (
	"sync"

	"github.com/charmbracelet/log"

	"holdem-engine/card"
)

// Engine is a GameID-keyed registry implementing the command surface from
// spec §6. A host embeds one Engine and addresses tables by GameID; each
// Game inside it remains single-threaded per spec §5 (the Engine only
// guards the registry map, never a Game's own internal state, which each
// Game protects with its own mutex).
type Engine struct {
	mu    sync.Mutex
	games map[GameID]*Game
}

// NewEngine constructs an empty registry.
func NewEngine() *Engine {
	return &Engine{games: make(map[GameID]*Game)}
}

// CreateGameRequest is the create_game command's input (spec §6).
type CreateGameRequest struct {
	NumSeats         int
	InitialStacks    map[uint16]int64
	SmallBlind       int64
	BigBlind         int64
	Ante             int64
	ShuffleSeed      int64
	MinPlayers       int
	BurnCards        bool
	ForcedDealerChair *uint16
	DeckOverride     []card.Card
	Logger           *log.Logger
}

// CreateGame builds a new table, seats every entry in InitialStacks, and
// registers it under a fresh GameID.
func (e *Engine) CreateGame(req CreateGameRequest) (GameID, error) {
	minPlayers := req.MinPlayers
	if minPlayers == 0 {
		minPlayers = 2
	}
	cfg := Config{
		MaxPlayers:        req.NumSeats,
		MinPlayers:        minPlayers,
		SmallBlind:        req.SmallBlind,
		BigBlind:          req.BigBlind,
		Ante:              req.Ante,
		Seed:              req.ShuffleSeed,
		BurnCards:         req.BurnCards,
		ForcedDealerChair: req.ForcedDealerChair,
		DeckOverride:      req.DeckOverride,
		Logger:            req.Logger,
	}

	id := NewGameID()
	g, err := NewGame(id, cfg)
	if err != nil {
		return "", err
	}
	for chair, stack := range req.InitialStacks {
		if err := g.SitDown(chair, uint64(chair), stack, false); err != nil {
			return "", err
		}
	}

	e.mu.Lock()
	e.games[id] = g
	e.mu.Unlock()
	return id, nil
}

func (e *Engine) lookup(id GameID) (*Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.games[id]
	if !ok {
		return nil, ErrUnknownGame
	}
	return g, nil
}

// StartHand begins the next hand on id's table and returns the resulting
// unredacted snapshot (spec §6).
func (e *Engine) StartHand(id GameID) (GameStateSnapshot, error) {
	g, err := e.lookup(id)
	if err != nil {
		return GameStateSnapshot{}, err
	}
	if err := g.StartHand(); err != nil {
		return GameStateSnapshot{}, err
	}
	return g.Snapshot(), nil
}

// ApplyAction submits seat's action and returns the resulting snapshot
// (spec §6). amount is the intended total round contribution for RAISE.
func (e *Engine) ApplyAction(id GameID, seat uint16, action ActionType, amount int64) (GameStateSnapshot, error) {
	g, err := e.lookup(id)
	if err != nil {
		return GameStateSnapshot{}, err
	}
	if err := g.Act(seat, action, amount); err != nil {
		return GameStateSnapshot{}, err
	}
	return g.Snapshot(), nil
}

// QueryPermissibleActions implements spec §6's query_permissible_actions.
func (e *Engine) QueryPermissibleActions(id GameID, seat uint16) (PermissibleActions, error) {
	g, err := e.lookup(id)
	if err != nil {
		return PermissibleActions{}, err
	}
	return PermissibleActionsFor(g, seat)
}

// QuerySnapshot implements spec §6's query_snapshot. A nil forSeat returns
// the unredacted view (host/audit use); a non-nil forSeat returns that
// seat's redacted view (testable property 11).
func (e *Engine) QuerySnapshot(id GameID, forSeat *uint16) (GameStateSnapshot, error) {
	g, err := e.lookup(id)
	if err != nil {
		return GameStateSnapshot{}, err
	}
	if forSeat == nil {
		return g.Snapshot(), nil
	}
	return g.RedactedSnapshot(*forSeat), nil
}

// EndHand implements spec §6's end_hand: idempotent FINISHED finalization.
func (e *Engine) EndHand(id GameID) (GameStateSnapshot, error) {
	g, err := e.lookup(id)
	if err != nil {
		return GameStateSnapshot{}, err
	}
	if err := g.EndHand(); err != nil {
		return GameStateSnapshot{}, err
	}
	return g.Snapshot(), nil
}

// SitDown and StandUp pass through to the named Game so a host can manage
// table membership between hands without holding a *Game reference itself.
func (e *Engine) SitDown(id GameID, chair uint16, userID uint64, stack int64, robot bool) error {
	g, err := e.lookup(id)
	if err != nil {
		return err
	}
	return g.SitDown(chair, userID, stack, robot)
}

func (e *Engine) StandUp(id GameID, chair uint16) error {
	g, err := e.lookup(id)
	if err != nil {
		return err
	}
	return g.StandUp(chair)
}
