package holdem

import (
	"testing"

	"holdem-engine/card"
)

func cardsOf(t *testing.T, strs ...string) []card.Card {
	t.Helper()
	out := make([]card.Card, len(strs))
	for i, s := range strs {
		out[i] = mustCard(t, s)
	}
	return out
}

func eval5Strs(t *testing.T, strs ...string) EvalResult {
	t.Helper()
	cs := cardsOf(t, strs...)
	return eval5(cs[0], cs[1], cs[2], cs[3], cs[4])
}

func TestEval5_StraightFlushBeatsFourOfAKind(t *testing.T) {
	sf := eval5Strs(t, "9c", "8c", "7c", "6c", "5c")
	if sf.Category != HandStraightFlush {
		t.Fatalf("expected straight flush, got %s", sf.Category)
	}

	quads := eval5Strs(t, "Ks", "Kh", "Kc", "Kd", "2s")
	if quads.Category != HandFourOfKind {
		t.Fatalf("expected four of a kind, got %s", quads.Category)
	}

	if sf.Score <= quads.Score {
		t.Fatalf("straight flush (%d) must outrank four of a kind (%d)", sf.Score, quads.Score)
	}
}

func TestEval5_WheelStraightRanksBelowSixHighStraight(t *testing.T) {
	wheel := eval5Strs(t, "As", "2h", "3c", "4d", "5s")
	if wheel.Category != HandStraight {
		t.Fatalf("expected straight, got %s", wheel.Category)
	}
	if wheel.Kickers[0] != 5 {
		t.Fatalf("wheel straight high should be 5, got %d", wheel.Kickers[0])
	}

	sixHigh := eval5Strs(t, "6s", "5h", "4c", "3d", "2s")
	if sixHigh.Score <= wheel.Score {
		t.Fatalf("6-high straight (%d) must outrank the wheel (%d)", sixHigh.Score, wheel.Score)
	}
}

func TestEval5_FullHouseBeatsFlush(t *testing.T) {
	fh := eval5Strs(t, "Tc", "Th", "Ts", "4d", "4c")
	if fh.Category != HandFullHouse {
		t.Fatalf("expected full house, got %s", fh.Category)
	}
	flush := eval5Strs(t, "2c", "5c", "9c", "Jc", "Kc")
	if flush.Category != HandFlush {
		t.Fatalf("expected flush, got %s", flush.Category)
	}
	if fh.Score <= flush.Score {
		t.Fatalf("full house (%d) must outrank flush (%d)", fh.Score, flush.Score)
	}
}

func TestEval5_TwoPairComparesHighPairFirst(t *testing.T) {
	aaQQ := eval5Strs(t, "Ac", "Ah", "Qs", "Qd", "2c")
	kkqq := eval5Strs(t, "Kc", "Kh", "Qc", "Qh", "9d")
	if aaQQ.Category != HandTwoPair || kkqq.Category != HandTwoPair {
		t.Fatalf("expected two pair for both hands")
	}
	if aaQQ.Score <= kkqq.Score {
		t.Fatalf("aces-up two pair (%d) must outrank kings-up two pair (%d)", aaQQ.Score, kkqq.Score)
	}
}

func TestEval5_HighCardComparesKickersInOrder(t *testing.T) {
	a := eval5Strs(t, "Ac", "Kh", "9s", "5d", "2c")
	b := eval5Strs(t, "Ac", "Kh", "9s", "5d", "3c")
	if a.Category != HandHighCard || b.Category != HandHighCard {
		t.Fatalf("expected high card for both hands")
	}
	if a.Score >= b.Score {
		t.Fatalf("3-kicker hand (%d) should beat 2-kicker hand (%d) on the final kicker", b.Score, a.Score)
	}
}

func TestEvalBestOf7_PicksBestFiveOfSeven(t *testing.T) {
	seven := cardsOf(t, "Ac", "Ah", "Ad", "As", "2c", "2h", "9s")
	res := EvalBestOf7(seven)
	if res == nil {
		t.Fatal("expected a result for 7 cards")
	}
	if res.Category != HandFourOfKind {
		t.Fatalf("expected four of a kind from quad aces, got %s", res.Category)
	}
	if res.Kickers[0] != 14 || res.Kickers[1] != 9 {
		t.Fatalf("expected quads of aces with a 9 kicker, got kickers %v", res.Kickers)
	}
}

func TestEvalBestOf7_RejectsWrongCardCount(t *testing.T) {
	if EvalBestOf7(cardsOf(t, "Ac", "Ah")) != nil {
		t.Fatal("expected nil for a non-7-card input")
	}
}
