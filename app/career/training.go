package career

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/config"
	"github.com/ConserveLee/uma-auto/internal/constants"
)

// TrainingOption is one of the five facilities as read off the lobby.
type TrainingOption struct {
	Type          string // spd / sta / pwr / guts / wit
	FailureChance int
	StatValue     int
	SupportCount  int // same-type support cards present
	RainbowCount  int // friendship-maxed supports of the facility type
	FriendCount   int
	NPCCount      int
	HintCount     int
}

// Score weighs the option for the current career stage. Rainbow
// trainings gain value once friendship bars mature, hints stop
// mattering once the skill pool is deep enough.
func (o TrainingOption) Score(date CareerDate) float64 {
	s := float64(o.SupportCount) * constants.SupportScore
	switch date.Stage() {
	case StageMid:
		s += float64(o.RainbowCount) * constants.RainbowScoreMid
	case StageLate:
		s += float64(o.RainbowCount) * constants.RainbowScoreMax
	default:
		s += float64(o.RainbowCount) * constants.SupportScore
	}
	s += float64(o.NPCCount) * constants.NPCScore
	s += float64(o.FriendCount) * constants.FriendScore
	if date.AbsoluteDay < constants.HintDecayDay {
		s += float64(o.HintCount) * constants.SupportScoreLow
	}
	return s
}

// Lobby actions the advisor can pick.
const (
	ActionTrain      = "train"
	ActionRest       = "rest"
	ActionRecreation = "recreation"
	ActionInfirmary  = "infirmary"
	ActionRace       = "race"
)

// Decision is the advisor's verdict for one lobby turn.
type Decision struct {
	Action   string
	Training string // facility type when Action == ActionTrain
	Reason   string
}

// LobbySnapshot is everything the advisor needs about the current
// turn, already decoded from the screen.
type LobbySnapshot struct {
	Date          CareerDate
	Energy        int
	Mood          string
	Infirmary     bool // infirmary button lit, an ailment needs care
	RaceAvailable bool // an eligible race exists today
	Options       []TrainingOption
}

// Advisor maps lobby snapshots to actions using the user's training
// settings.
type Advisor struct {
	settings config.TrainingSettings
}

func NewAdvisor(settings config.TrainingSettings) *Advisor {
	return &Advisor{settings: settings}
}

var strategyScore = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+`)

// threshold extracts the minimum acceptable score from strategies like
// "Train Score 2.5+". The bool is false for race-first strategies.
func (a *Advisor) threshold() (float64, bool) {
	s := a.settings.Strategy
	if strings.Contains(strings.ToUpper(s), "G1") {
		return 0, false
	}
	if m := strategyScore.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v, true
		}
	}
	return 2.5, true
}

// Gate runs the checks that come before any facility inspection:
// ailments, critical energy and mood. When ok is false the returned
// decision stands on its own and the training screen never needs to
// be opened.
func (a *Advisor) Gate(s LobbySnapshot) (Decision, bool) {
	if s.Infirmary {
		return Decision{Action: ActionInfirmary, Reason: "ailment flagged"}, false
	}

	critEnergy := a.settings.CriticalEnergy
	if critEnergy <= 0 {
		critEnergy = constants.DefaultCriticalEnergy
	}
	if s.Energy <= critEnergy {
		return Decision{Action: ActionRest, Reason: fmt.Sprintf("energy %d at critical", s.Energy)}, false
	}

	if mi := MoodIndex(s.Mood); mi >= 0 {
		if want := MoodIndex(strings.ToUpper(a.settings.MinimumMood)); want > mi {
			return Decision{Action: ActionRecreation, Reason: fmt.Sprintf("mood %s below %s", s.Mood, a.settings.MinimumMood)}, false
		}
	}
	return Decision{}, true
}

// Decide picks the action for a lobby turn. Safety first: the Gate
// checks override everything, then the scored training choice runs
// against the configured strategy.
func (a *Advisor) Decide(s LobbySnapshot) Decision {
	if d, ok := a.Gate(s); !ok {
		return d
	}

	minEnergy := a.settings.MinimumEnergy
	if minEnergy <= 0 {
		minEnergy = constants.DefaultMinimumEnergy
	}

	viable := a.filterOptions(s.Options)

	if s.Energy < minEnergy {
		// Low tank: only WIT trains without draining energy, and only
		// when the turn is worth it.
		witFloor := 2.0
		if s.Date.Stage() >= StageMid {
			witFloor = 3.0
		}
		for _, o := range viable {
			if o.Type == "wit" && o.Score(s.Date) >= witFloor {
				return Decision{Action: ActionTrain, Training: "wit", Reason: fmt.Sprintf("conserving energy %d", s.Energy)}
			}
		}
		return Decision{Action: ActionRest, Reason: fmt.Sprintf("energy %d below minimum %d", s.Energy, minEnergy)}
	}

	floor, trainFirst := a.threshold()
	if !trainFirst && s.RaceAvailable && !s.Date.RacingRestricted() {
		return Decision{Action: ActionRace, Reason: "race-first strategy"}
	}

	best, ok := a.pickBest(viable, s.Date)
	if ok && best.Score(s.Date) >= floor {
		return Decision{
			Action:   ActionTrain,
			Training: best.Type,
			Reason:   fmt.Sprintf("score %.1f meets %.1f+", best.Score(s.Date), floor),
		}
	}

	if s.RaceAvailable && !s.Date.RacingRestricted() {
		return Decision{Action: ActionRace, Reason: "no training worth the turn"}
	}
	if ok {
		return Decision{Action: ActionTrain, Training: best.Type, Reason: "best available fallback"}
	}
	return Decision{Action: ActionRest, Reason: "no viable training"}
}

// filterOptions drops facilities that are too risky or already capped.
func (a *Advisor) filterOptions(opts []TrainingOption) []TrainingOption {
	maxFail := a.settings.MaxFailureChance
	if maxFail <= 0 {
		maxFail = 15
	}
	var out []TrainingOption
	for _, o := range opts {
		if o.FailureChance > maxFail {
			continue
		}
		if cap, has := a.settings.StatCaps[o.Type]; has && cap > 0 && o.StatValue >= cap {
			continue
		}
		out = append(out, o)
	}
	return out
}

// pickBest returns the highest-scoring option. Ties fall to the
// configured stat priority; pre-debut pulls WIT to the front because
// early friendship gains there compound.
func (a *Advisor) pickBest(opts []TrainingOption, date CareerDate) (TrainingOption, bool) {
	if len(opts) == 0 {
		return TrainingOption{}, false
	}
	prio := a.priority(date)
	best := opts[0]
	bestScore := best.Score(date)
	for _, o := range opts[1:] {
		sc := o.Score(date)
		switch {
		case sc > bestScore:
			best, bestScore = o, sc
		case sc == bestScore && prio[o.Type] < prio[best.Type]:
			best = o
		}
	}
	return best, true
}

func (a *Advisor) priority(date CareerDate) map[string]int {
	order := a.settings.PriorityStats
	if len(order) == 0 {
		order = assets.TrainingTypes
	}
	prio := make(map[string]int, len(order)+1)
	base := 0
	if date.Stage() == StagePreDebut {
		prio["wit"] = 0
		base = 1
	}
	for _, t := range order {
		if _, seen := prio[t]; !seen {
			prio[t] = base
			base++
		}
	}
	for _, t := range assets.TrainingTypes {
		if _, seen := prio[t]; !seen {
			prio[t] = base
			base++
		}
	}
	return prio
}
