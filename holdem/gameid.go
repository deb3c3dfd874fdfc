package holdem

import "github.com/google/uuid"

// GameID identifies one table's engine instance for the lifetime of the
// process. It is time-sortable (UUIDv7) so a host can order games by
// creation without a separate timestamp column, the same property
// lox-pokerforbots's hand-rolled internal/gameid package was built to get.
type GameID string

// NewGameID mints a fresh, time-sortable game identifier.
func NewGameID() GameID {
	id, err := uuid.NewV7()
	if err != nil {
		// crypto/rand failure; uuid.NewV7 only errors if the system RNG is
		// broken, which is unrecoverable for any caller relying on unique
		// IDs. Fall back to a random v4; uuid.NewString panics if the RNG
		// fails again.
		return GameID(uuid.NewString())
	}
	return GameID(id.String())
}

func (g GameID) String() string { return string(g) }
