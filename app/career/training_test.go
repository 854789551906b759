package career

import (
	"testing"

	"github.com/ConserveLee/uma-auto/internal/config"
)

var (
	dayJuniorOctLate   = CareerDate{Year: 0, Month: 10, Half: 2, AbsoluteDay: 20} // early stage
	dayClassicAprEarly = CareerDate{Year: 1, Month: 4, Half: 1, AbsoluteDay: 31}  // mid stage
	dayClassicJulEarly = CareerDate{Year: 1, Month: 7, Half: 1, AbsoluteDay: 37}  // summer camp
	daySeniorFebEarly  = CareerDate{Year: 2, Month: 2, Half: 1, AbsoluteDay: 51}  // late stage
	dayPreDebut        = CareerDate{Year: 0, PreDebut: true, AbsoluteDay: 1}
)

func trainSettings() config.TrainingSettings {
	return config.TrainingSettings{
		Strategy:         "Train Score 2.5+",
		MinimumEnergy:    40,
		CriticalEnergy:   25,
		MaxFailureChance: 15,
		MinimumMood:      "NORMAL",
		PriorityStats:    []string{"spd", "sta", "pwr", "guts", "wit"},
	}
}

func TestTrainingOptionScore(t *testing.T) {
	o := TrainingOption{SupportCount: 2, RainbowCount: 1, NPCCount: 1, FriendCount: 1, HintCount: 2}

	if got := o.Score(dayJuniorOctLate); got != 5.25 {
		t.Errorf("early score = %v, want 5.25", got)
	}
	if got := o.Score(dayClassicAprEarly); got != 6.25 {
		t.Errorf("mid score = %v, want 6.25", got)
	}
	if got := o.Score(daySeniorFebEarly); got != 5.75 {
		t.Errorf("late score = %v, want 5.75", got)
	}
}

func TestTrainingOptionScoreHintDecay(t *testing.T) {
	o := TrainingOption{HintCount: 1}
	before := CareerDate{Year: 1, Month: 6, Half: 1, AbsoluteDay: 35}
	after := CareerDate{Year: 1, Month: 6, Half: 2, AbsoluteDay: 36}

	if got := o.Score(before); got != 0.5 {
		t.Errorf("day 35 hint score = %v, want 0.5", got)
	}
	if got := o.Score(after); got != 0 {
		t.Errorf("day 36 hint score = %v, want 0", got)
	}
}

func TestAdvisorThreshold(t *testing.T) {
	cases := []struct {
		strategy   string
		want       float64
		trainFirst bool
	}{
		{"Train Score 2.5+", 2.5, true},
		{"Train Score 3+", 3, true},
		{"Train Score 4.5+", 4.5, true},
		{"G1 (prioritize races)", 0, false},
		{"something else", 2.5, true},
	}
	for _, c := range cases {
		a := NewAdvisor(config.TrainingSettings{Strategy: c.strategy})
		got, trainFirst := a.threshold()
		if got != c.want || trainFirst != c.trainFirst {
			t.Errorf("threshold(%q) = (%v, %v), want (%v, %v)", c.strategy, got, trainFirst, c.want, c.trainFirst)
		}
	}
}

func TestGate(t *testing.T) {
	a := NewAdvisor(trainSettings())

	d, ok := a.Gate(LobbySnapshot{Infirmary: true, Energy: 100, Mood: "GREAT"})
	if ok || d.Action != ActionInfirmary {
		t.Errorf("infirmary gate = (%+v, %v)", d, ok)
	}

	d, ok = a.Gate(LobbySnapshot{Energy: 25, Mood: "GREAT"})
	if ok || d.Action != ActionRest {
		t.Errorf("critical energy gate = (%+v, %v)", d, ok)
	}

	d, ok = a.Gate(LobbySnapshot{Energy: 26, Mood: "BAD"})
	if ok || d.Action != ActionRecreation {
		t.Errorf("mood gate = (%+v, %v)", d, ok)
	}

	if _, ok = a.Gate(LobbySnapshot{Energy: 80, Mood: "NORMAL"}); !ok {
		t.Error("healthy snapshot did not pass the gate")
	}
	// Unreadable mood must not block the turn.
	if _, ok = a.Gate(LobbySnapshot{Energy: 80, Mood: "???"}); !ok {
		t.Error("unknown mood blocked the gate")
	}
}

func TestDecideLowEnergyWitOnly(t *testing.T) {
	a := NewAdvisor(trainSettings())

	s := LobbySnapshot{
		Date: dayJuniorOctLate, Energy: 30, Mood: "GOOD",
		Options: []TrainingOption{
			{Type: "spd", SupportCount: 3},
			{Type: "wit", SupportCount: 2},
		},
	}
	d := a.Decide(s)
	if d.Action != ActionTrain || d.Training != "wit" {
		t.Errorf("low energy decision = %+v, want wit training", d)
	}

	s.Options = []TrainingOption{{Type: "spd", SupportCount: 3}, {Type: "wit", SupportCount: 1}}
	if d := a.Decide(s); d.Action != ActionRest {
		t.Errorf("low energy with weak wit = %+v, want rest", d)
	}

	// Mid stage raises the wit floor to 3.
	s = LobbySnapshot{
		Date: dayClassicAprEarly, Energy: 30, Mood: "GOOD",
		Options: []TrainingOption{{Type: "wit", SupportCount: 2}},
	}
	if d := a.Decide(s); d.Action != ActionRest {
		t.Errorf("mid-stage wit at 2.0 = %+v, want rest", d)
	}
	s.Options = []TrainingOption{{Type: "wit", SupportCount: 3}}
	if d := a.Decide(s); d.Action != ActionTrain || d.Training != "wit" {
		t.Errorf("mid-stage wit at 3.0 = %+v, want wit training", d)
	}
}

func TestDecideScoredTraining(t *testing.T) {
	a := NewAdvisor(trainSettings())
	s := LobbySnapshot{
		Date: dayJuniorOctLate, Energy: 70, Mood: "GOOD",
		Options: []TrainingOption{
			{Type: "sta", SupportCount: 1},
			{Type: "spd", SupportCount: 2, HintCount: 1}, // 2.5, meets the floor
		},
	}
	d := a.Decide(s)
	if d.Action != ActionTrain || d.Training != "spd" {
		t.Errorf("decision = %+v, want spd training", d)
	}
}

func TestDecideRaceWhenTrainingWeak(t *testing.T) {
	a := NewAdvisor(trainSettings())
	weak := []TrainingOption{{Type: "spd", SupportCount: 1}}

	s := LobbySnapshot{Date: dayClassicAprEarly, Energy: 70, Mood: "GOOD", RaceAvailable: true, Options: weak}
	if d := a.Decide(s); d.Action != ActionRace {
		t.Errorf("weak training with race = %+v, want race", d)
	}

	// Summer camp blocks racing; fall back to the best option.
	s.Date = dayClassicJulEarly
	if d := a.Decide(s); d.Action != ActionTrain || d.Training != "spd" {
		t.Errorf("restricted turn = %+v, want spd fallback", d)
	}

	// No race offered either: train the best anyway.
	s = LobbySnapshot{Date: dayClassicAprEarly, Energy: 70, Mood: "GOOD", Options: weak}
	if d := a.Decide(s); d.Action != ActionTrain || d.Training != "spd" {
		t.Errorf("no race fallback = %+v, want spd", d)
	}
}

func TestDecideNothingViable(t *testing.T) {
	a := NewAdvisor(trainSettings())
	risky := []TrainingOption{{Type: "spd", SupportCount: 3, FailureChance: 50}}

	s := LobbySnapshot{Date: dayClassicAprEarly, Energy: 70, Mood: "GOOD", Options: risky}
	if d := a.Decide(s); d.Action != ActionRest {
		t.Errorf("all options risky = %+v, want rest", d)
	}

	s.RaceAvailable = true
	if d := a.Decide(s); d.Action != ActionRace {
		t.Errorf("all options risky with race = %+v, want race", d)
	}
}

func TestDecideRaceFirstStrategy(t *testing.T) {
	settings := trainSettings()
	settings.Strategy = "G1 (prioritize races)"
	a := NewAdvisor(settings)
	strong := []TrainingOption{{Type: "spd", SupportCount: 4}}

	s := LobbySnapshot{Date: dayClassicAprEarly, Energy: 70, Mood: "GOOD", RaceAvailable: true, Options: strong}
	if d := a.Decide(s); d.Action != ActionRace {
		t.Errorf("race-first with race available = %+v, want race", d)
	}

	// Racing restricted: train instead, any score clears the zero floor.
	s.Date = dayClassicJulEarly
	if d := a.Decide(s); d.Action != ActionTrain || d.Training != "spd" {
		t.Errorf("race-first while restricted = %+v, want spd training", d)
	}
}

func TestFilterOptions(t *testing.T) {
	settings := trainSettings()
	settings.StatCaps = map[string]int{"spd": 1100}
	a := NewAdvisor(settings)

	opts := []TrainingOption{
		{Type: "spd", StatValue: 1100, SupportCount: 3}, // capped
		{Type: "sta", FailureChance: 20},                // too risky
		{Type: "pwr", StatValue: 900, FailureChance: 15},
	}
	got := a.filterOptions(opts)
	if len(got) != 1 || got[0].Type != "pwr" {
		t.Fatalf("filtered = %+v, want only pwr", got)
	}
}

func TestPickBestTieBreaks(t *testing.T) {
	settings := trainSettings()
	settings.PriorityStats = []string{"pwr", "spd", "sta", "guts", "wit"}
	a := NewAdvisor(settings)

	opts := []TrainingOption{
		{Type: "spd", SupportCount: 2},
		{Type: "pwr", SupportCount: 2},
	}
	best, ok := a.pickBest(opts, dayClassicAprEarly)
	if !ok || best.Type != "pwr" {
		t.Errorf("tie break = %+v, want pwr by priority", best)
	}

	// Pre-debut pulls wit to the front regardless of the configured order.
	opts = []TrainingOption{
		{Type: "spd", SupportCount: 2},
		{Type: "wit", SupportCount: 2},
	}
	best, ok = a.pickBest(opts, dayPreDebut)
	if !ok || best.Type != "wit" {
		t.Errorf("pre-debut tie break = %+v, want wit", best)
	}
}
