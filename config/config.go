// Package config loads table configuration from HCL files into a
// holdem.Config, the way lox-pokerforbots' server package loads its table
// and bot blocks (internal/server/config.go): parse with hclparse, decode
// with gohcl into a plain struct, then apply defaults and validate.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"holdem-engine/card"
	"holdem-engine/holdem"
)

// TableFile is the HCL document shape for one table's configuration,
// labeled blocks nested the way ServerConfig nests "table"/"bot" blocks.
type TableFile struct {
	Table TableBlock `hcl:"table,block"`
}

// TableBlock is a single table's stakes and seating limits.
type TableBlock struct {
	Name              string   `hcl:"name,label"`
	MaxPlayers        int      `hcl:"max_players,optional"`
	MinPlayers        int      `hcl:"min_players,optional"`
	SmallBlind        int64    `hcl:"small_blind"`
	BigBlind          int64    `hcl:"big_blind"`
	Ante              int64    `hcl:"ante,optional"`
	ShuffleSeed       int64    `hcl:"shuffle_seed,optional"`
	BurnCards         bool     `hcl:"burn_cards,optional"`
	ForcedDealerChair *int     `hcl:"forced_dealer_chair,optional"`
	DeckOverride      []string `hcl:"deck_override,optional"`
}

// Load parses an HCL file at path and decodes it into a TableFile. A
// missing file is not an error: DefaultTable is returned instead, mirroring
// LoadServerConfig's "file absent means use defaults" behavior.
func Load(path string) (*TableFile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultTable(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	var tf TableFile
	if diags := gohcl.DecodeBody(file.Body, nil, &tf); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}

	applyDefaults(&tf.Table)
	return &tf, nil
}

// DefaultTable is the configuration used when no file is present, matching
// a standard $1/$2 six-max table.
func DefaultTable() *TableFile {
	return &TableFile{Table: TableBlock{
		Name:       "main",
		MaxPlayers: 6,
		MinPlayers: 2,
		SmallBlind: 1,
		BigBlind:   2,
	}}
}

func applyDefaults(t *TableBlock) {
	if t.MaxPlayers == 0 {
		t.MaxPlayers = 6
	}
	if t.MinPlayers == 0 {
		t.MinPlayers = 2
	}
}

// Validate checks the table block's values independently of holdem.Config,
// so a malformed file is rejected with a field-specific message before ever
// reaching holdem.NewGame's own validation.
func (t *TableBlock) Validate() error {
	if t.MaxPlayers < 2 || t.MaxPlayers > 10 {
		return fmt.Errorf("config: table %s: max_players must be between 2 and 10", t.Name)
	}
	if t.MinPlayers < 2 || t.MinPlayers > t.MaxPlayers {
		return fmt.Errorf("config: table %s: min_players must be between 2 and max_players", t.Name)
	}
	if t.SmallBlind <= 0 {
		return fmt.Errorf("config: table %s: small_blind must be positive", t.Name)
	}
	if t.BigBlind <= t.SmallBlind {
		return fmt.Errorf("config: table %s: big_blind must be greater than small_blind", t.Name)
	}
	if t.Ante < 0 {
		return fmt.Errorf("config: table %s: ante must be >= 0", t.Name)
	}
	if t.ForcedDealerChair != nil && (*t.ForcedDealerChair < 0 || *t.ForcedDealerChair >= t.MaxPlayers) {
		return fmt.Errorf("config: table %s: forced_dealer_chair out of range", t.Name)
	}
	if len(t.DeckOverride) > 0 && len(t.DeckOverride) != len(card.StandardCards) {
		return fmt.Errorf("config: table %s: deck_override must list all %d cards", t.Name, len(card.StandardCards))
	}
	return nil
}

// ToHoldemConfig converts a validated TableBlock into a holdem.Config.
// DeckOverride strings are parsed with card.ThdmStrToCard, so a file can
// pin an exact shuffle for deterministic replay without going through a
// numeric seed.
func (t *TableBlock) ToHoldemConfig() (holdem.Config, error) {
	if err := t.Validate(); err != nil {
		return holdem.Config{}, err
	}

	var deck []card.Card
	if len(t.DeckOverride) > 0 {
		deck = make([]card.Card, len(t.DeckOverride))
		for i, s := range t.DeckOverride {
			c, err := card.ThdmStrToCard(s)
			if err != nil {
				return holdem.Config{}, fmt.Errorf("config: table %s: deck_override[%d]: %w", t.Name, i, err)
			}
			deck[i] = c
		}
	}

	var forced *uint16
	if t.ForcedDealerChair != nil {
		v := uint16(*t.ForcedDealerChair)
		forced = &v
	}

	return holdem.Config{
		MaxPlayers:        t.MaxPlayers,
		MinPlayers:        t.MinPlayers,
		SmallBlind:        t.SmallBlind,
		BigBlind:          t.BigBlind,
		Ante:              t.Ante,
		Seed:              t.ShuffleSeed,
		BurnCards:         t.BurnCards,
		ForcedDealerChair: forced,
		DeckOverride:      deck,
	}, nil
}
