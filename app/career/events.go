package career

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/config"
	"github.com/ConserveLee/uma-auto/internal/constants"
)

// EventContext is the run state a conditional rule can test.
type EventContext struct {
	Energy int
	Mood   string
	Uma    string
}

// condKinds a clause key may carry, in the order they are documented.
var clausePattern = regexp.MustCompile(`^choice_(\d+)_if_(energy_lte|energy_gt|mood_lt|uma)$`)

type clause struct {
	key    string
	choice int
	kind   string
	intVal int
	strVal string
}

func (c clause) holds(ctx EventContext) bool {
	switch c.kind {
	case "energy_lte":
		return ctx.Energy <= c.intVal
	case "energy_gt":
		return ctx.Energy > c.intVal
	case "mood_lt":
		want := MoodIndex(strings.ToUpper(c.strVal))
		have := MoodIndex(strings.ToUpper(ctx.Mood))
		return want >= 0 && have >= 0 && have < want
	case "uma":
		return strings.EqualFold(ctx.Uma, c.strVal)
	default:
		return false
	}
}

// Rule is one event's answer. The JSON form is either a bare choice
// number, the string "bottom", or an object of conditional clauses
// with an optional "default".
type Rule struct {
	Fixed   int
	Bottom  bool
	Clauses []clause
	DefNum  int
	DefBot  bool
}

// UnmarshalJSON accepts the three rule shapes.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var n int
	if err := sonic.Unmarshal(data, &n); err == nil {
		r.Fixed = n
		return nil
	}
	var s string
	if err := sonic.Unmarshal(data, &s); err == nil {
		if strings.EqualFold(strings.TrimSpace(s), "bottom") {
			r.Bottom = true
			return nil
		}
		return fmt.Errorf("unknown rule keyword %q", s)
	}
	var raw map[string]interface{}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("rule not a number, keyword or object: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := raw[k]
		if k == "default" {
			switch dv := v.(type) {
			case float64:
				r.DefNum = int(dv)
			case string:
				if strings.EqualFold(dv, "bottom") {
					r.DefBot = true
				} else {
					return fmt.Errorf("unknown default %q", dv)
				}
			default:
				return fmt.Errorf("unknown default type %T", v)
			}
			continue
		}
		m := clausePattern.FindStringSubmatch(k)
		if m == nil {
			return fmt.Errorf("unknown rule clause %q", k)
		}
		choice, _ := strconv.Atoi(m[1])
		c := clause{key: k, choice: choice, kind: m[2]}
		switch cv := v.(type) {
		case float64:
			c.intVal = int(cv)
		case string:
			c.strVal = cv
		default:
			return fmt.Errorf("clause %q has unsupported value type %T", k, v)
		}
		r.Clauses = append(r.Clauses, c)
	}
	return nil
}

// Evaluate resolves the rule to a choice index within 1..EventChoiceMax.
// "bottom" maps to the maximum; the clicker walks down from there to
// the last choice actually on screen.
func (r Rule) Evaluate(ctx EventContext) int {
	if r.Fixed > 0 {
		return clampChoice(r.Fixed)
	}
	if r.Bottom {
		return constants.EventChoiceMax
	}
	for _, c := range r.Clauses {
		if c.holds(ctx) {
			return clampChoice(c.choice)
		}
	}
	if r.DefBot {
		return constants.EventChoiceMax
	}
	if r.DefNum > 0 {
		return clampChoice(r.DefNum)
	}
	return 1
}

func clampChoice(n int) int {
	if n < 1 {
		return 1
	}
	if n > constants.EventChoiceMax {
		return constants.EventChoiceMax
	}
	return n
}

// EventDatabase unions the scenario-common rules with the maps of the
// configured trainee and support cards. Later sources win on name
// collisions, so card-specific answers override the common table.
type EventDatabase struct {
	rules map[string]Rule
}

// LoadEventDatabase builds the database for the current event choice
// settings. Unreadable maps degrade to warnings; an empty database
// just means every event falls back to the unknown-event path.
func LoadEventDatabase(ec config.EventChoiceSettings) *EventDatabase {
	db := &EventDatabase{rules: make(map[string]Rule)}
	db.merge(assets.CommonEventFile)
	if ec.UmaMusume != "" && ec.UmaMusume != "None" {
		db.merge(filepath.Join(assets.UmaMusumeDir, ec.UmaMusume+".json"))
	}
	for _, card := range ec.SupportCards {
		if card != "" && card != "None" {
			db.merge(filepath.Join(assets.SupportCardDir, card+".json"))
		}
	}
	log.Debug().Int("events", len(db.rules)).Msg("event database loaded")
	return db
}

func (db *EventDatabase) merge(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("event map unavailable")
		return
	}
	var rules map[string]Rule
	if err := sonic.Unmarshal(raw, &rules); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("event map unreadable")
		return
	}
	for name, rule := range rules {
		db.rules[name] = rule
	}
}

// Len reports the number of known events.
func (db *EventDatabase) Len() int { return len(db.rules) }

// Find matches an OCR'd event name against the database. Exact match
// first, then the best fuzzy candidate above the similarity floor.
func (db *EventDatabase) Find(name string) (Rule, string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Rule{}, "", false
	}
	if r, ok := db.rules[name]; ok {
		return r, name, true
	}
	bestName, bestScore := "", 0.0
	for known := range db.rules {
		if s := Similarity(name, known); s > bestScore {
			bestName, bestScore = known, s
		}
	}
	if bestScore >= constants.EventNameMinScore {
		return db.rules[bestName], bestName, true
	}
	return Rule{}, "", false
}

// Similarity is the Ratcliff/Obershelp ratio over lowercased text,
// tolerant of the partial garbling OCR produces on event titles.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	m := matchedChars(a, b)
	return 2 * float64(m) / float64(len(a)+len(b))
}

// matchedChars sums the longest common substring and recurses into the
// unmatched flanks.
func matchedChars(a, b string) int {
	ai, bi, size := longestCommon(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchedChars(a[:ai], b[:bi])
	total += matchedChars(a[ai+size:], b[bi+size:])
	return total
}

func longestCommon(a, b string) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}
