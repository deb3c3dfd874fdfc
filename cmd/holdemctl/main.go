// Command holdemctl drives the engine headlessly from the command line,
// the way lox-pokerforbots' cmd/solver loads a blueprint and reports on it
// without ever opening a network port: a file in, a JSON result on stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	hconfig "holdem-engine/config"
	"holdem-engine/holdem"
	"holdem-engine/replay"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Replay ReplayCmd `cmd:"" help:"reconstruct a hand from a HandSpec JSON file and print its event log"`
	Deal   DealCmd   `cmd:"" help:"load a table config and deal one hand headlessly, printing the final snapshot"`
}

// ReplayCmd loads a HandSpec from a JSON file and prints the resulting
// wire-flattened tape.
type ReplayCmd struct {
	SpecFile string `arg:"" help:"path to a HandSpec JSON file"`
}

func (c *ReplayCmd) Run() error {
	raw, err := os.ReadFile(c.SpecFile)
	if err != nil {
		return fmt.Errorf("read spec file: %w", err)
	}

	var spec replay.HandSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return fmt.Errorf("parse spec file: %w", err)
	}

	tape, err := replay.GenerateReplayTape(spec)
	if err != nil {
		return fmt.Errorf("generate replay tape: %w", err)
	}

	return printJSON(replay.ToWireReplayTape(tape))
}

// DealCmd loads a table config (HCL, or the built-in default when no file
// is given) and plays one hand against it, applying a fixed check/call
// strategy for any seat that has not folded, so the hand always reaches a
// showdown or a walkover without needing a human or bot in the loop.
type DealCmd struct {
	ConfigFile string           `help:"path to an HCL table config; omit for the built-in default"`
	Stacks     map[string]int64 `help:"chair->starting stack, e.g. --stacks=0=10000,1=10000" mapsep:","`
}

func (c *DealCmd) Run() error {
	var tf *hconfig.TableFile
	var err error
	if c.ConfigFile != "" {
		tf, err = hconfig.Load(c.ConfigFile)
	} else {
		tf = hconfig.DefaultTable()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg, err := tf.Table.ToHoldemConfig()
	if err != nil {
		return fmt.Errorf("build engine config: %w", err)
	}
	cfg.Logger = log.Default()

	game, err := holdem.NewGame(holdem.NewGameID(), cfg)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	stacks := c.Stacks
	if len(stacks) == 0 {
		stacks = map[string]int64{"0": 10000, "1": 10000}
	}
	for chairStr, stack := range stacks {
		var chair uint16
		if _, err := fmt.Sscanf(chairStr, "%d", &chair); err != nil {
			return fmt.Errorf("parse chair %q: %w", chairStr, err)
		}
		if err := game.SitDown(chair, uint64(chair), stack, false); err != nil {
			return fmt.Errorf("seat chair %d: %w", chair, err)
		}
	}

	if err := game.StartHand(); err != nil {
		return fmt.Errorf("start hand: %w", err)
	}

	if err := playCheckCallHand(game); err != nil {
		return fmt.Errorf("play hand: %w", err)
	}

	return printJSON(game.Snapshot())
}

// playCheckCallHand drives a hand to completion with the simplest
// non-degenerate strategy available: check when free, call when not,
// never raise, and fold only when neither check nor call is offered. It
// exists only so holdemctl deal can exercise the engine end to end without
// operator input.
func playCheckCallHand(game *holdem.Game) error {
	for {
		snap := game.Snapshot()
		if snap.Phase == holdem.PhaseFinished {
			return nil
		}

		pa, err := holdem.PermissibleActionsFor(game, snap.ActionChair)
		if err != nil {
			return err
		}

		action, amount := chooseCheckOrCall(pa)
		if err := game.Act(snap.ActionChair, action, amount); err != nil {
			return err
		}
	}
}

func chooseCheckOrCall(pa holdem.PermissibleActions) (holdem.ActionType, int64) {
	for _, a := range pa.Actions {
		if a == holdem.ActionCheck {
			return holdem.ActionCheck, 0
		}
	}
	for _, a := range pa.Actions {
		if a == holdem.ActionCall {
			return holdem.ActionCall, pa.MinCall
		}
	}
	return holdem.ActionFold, 0
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("holdemctl"),
		kong.Description("headless driver for the holdem engine"),
		kong.UsageOnError(),
	)

	if cli.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := kctx.Run(); err != nil {
		log.Fatal("command failed", "err", err)
	}
}
