package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	tf, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	require.Equal(t, DefaultTable(), tf)
}

func TestLoadParsesTableBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.hcl")
	body := `
table "main" {
  max_players  = 6
  min_players  = 2
  small_blind  = 50
  big_blind    = 100
  ante         = 10
  shuffle_seed = 42
  burn_cards   = true
}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	tf, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "main", tf.Table.Name)
	require.Equal(t, int64(50), tf.Table.SmallBlind)
	require.Equal(t, int64(100), tf.Table.BigBlind)
	require.Equal(t, int64(10), tf.Table.Ante)
	require.True(t, tf.Table.BurnCards)

	require.NoError(t, tf.Table.Validate())

	cfg, err := tf.Table.ToHoldemConfig()
	require.NoError(t, err)
	require.Equal(t, 6, cfg.MaxPlayers)
	require.Equal(t, int64(100), cfg.BigBlind)
	require.True(t, cfg.BurnCards)
}

func TestValidateRejectsBadBlinds(t *testing.T) {
	tb := TableBlock{Name: "bad", MaxPlayers: 6, MinPlayers: 2, SmallBlind: 100, BigBlind: 50}
	require.Error(t, tb.Validate())
}

func TestToHoldemConfigParsesDeckOverride(t *testing.T) {
	tb := DefaultTable().Table
	tb.DeckOverride = make([]string, 52)
	order := []string{
		"As", "2s", "3s", "4s", "5s", "6s", "7s", "8s", "9s", "Ts", "Js", "Qs", "Ks",
		"Ah", "2h", "3h", "4h", "5h", "6h", "7h", "8h", "9h", "Th", "Jh", "Qh", "Kh",
		"Ac", "2c", "3c", "4c", "5c", "6c", "7c", "8c", "9c", "Tc", "Jc", "Qc", "Kc",
		"Ad", "2d", "3d", "4d", "5d", "6d", "7d", "8d", "9d", "Td", "Jd", "Qd", "Kd",
	}
	copy(tb.DeckOverride, order)

	cfg, err := tb.ToHoldemConfig()
	require.NoError(t, err)
	require.Len(t, cfg.DeckOverride, 52)
}
