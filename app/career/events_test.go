package career

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/config"
)

func parseRule(t *testing.T, raw string) Rule {
	t.Helper()
	var r Rule
	if err := sonic.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("parse rule %s: %v", raw, err)
	}
	return r
}

func TestRuleShapes(t *testing.T) {
	if got := parseRule(t, `3`).Evaluate(EventContext{}); got != 3 {
		t.Errorf("fixed rule = %d, want 3", got)
	}
	if got := parseRule(t, `"bottom"`).Evaluate(EventContext{}); got != 5 {
		t.Errorf("bottom rule = %d, want 5", got)
	}
	if got := parseRule(t, `"BOTTOM"`).Evaluate(EventContext{}); got != 5 {
		t.Errorf("uppercase bottom rule = %d, want 5", got)
	}
	if got := parseRule(t, `9`).Evaluate(EventContext{}); got != 5 {
		t.Errorf("out-of-range fixed rule = %d, want clamp to 5", got)
	}

	var r Rule
	if err := sonic.Unmarshal([]byte(`"sideways"`), &r); err == nil {
		t.Error("unknown keyword accepted")
	}
	if err := sonic.Unmarshal([]byte(`{"pick_if_lucky": 1}`), &r); err == nil {
		t.Error("unknown clause key accepted")
	}
}

func TestRuleConditionalClauses(t *testing.T) {
	r := parseRule(t, `{"choice_2_if_energy_lte": 30, "default": 1}`)
	if got := r.Evaluate(EventContext{Energy: 30}); got != 2 {
		t.Errorf("energy 30 = %d, want 2", got)
	}
	if got := r.Evaluate(EventContext{Energy: 31}); got != 1 {
		t.Errorf("energy 31 = %d, want the default 1", got)
	}

	r = parseRule(t, `{"choice_1_if_energy_gt": 50, "choice_2_if_mood_lt": "NORMAL", "default": "bottom"}`)
	if got := r.Evaluate(EventContext{Energy: 60, Mood: "BAD"}); got != 1 {
		t.Errorf("energy_gt clause = %d, want 1", got)
	}
	if got := r.Evaluate(EventContext{Energy: 40, Mood: "BAD"}); got != 2 {
		t.Errorf("mood_lt clause = %d, want 2", got)
	}
	if got := r.Evaluate(EventContext{Energy: 40, Mood: "GOOD"}); got != 5 {
		t.Errorf("bottom default = %d, want 5", got)
	}

	r = parseRule(t, `{"choice_3_if_uma": "Oguri Cap"}`)
	if got := r.Evaluate(EventContext{Uma: "oguri cap"}); got != 3 {
		t.Errorf("uma clause = %d, want 3", got)
	}
	if got := r.Evaluate(EventContext{Uma: "Special Week"}); got != 1 {
		t.Errorf("uma miss without default = %d, want 1", got)
	}

	// Unreadable mood never satisfies a mood clause.
	r = parseRule(t, `{"choice_2_if_mood_lt": "NORMAL"}`)
	if got := r.Evaluate(EventContext{Mood: "???"}); got != 1 {
		t.Errorf("unknown mood = %d, want the fallback 1", got)
	}
}

func TestRuleClauseOrderIsStable(t *testing.T) {
	// Both clauses hold; the lower-numbered key must win every time.
	raw := `{"choice_2_if_energy_lte": 100, "choice_1_if_energy_lte": 100}`
	for i := 0; i < 20; i++ {
		if got := parseRule(t, raw).Evaluate(EventContext{Energy: 10}); got != 1 {
			t.Fatalf("clause order unstable, got %d", got)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("New Year's Resolutions", "New Year's Resolutions"); got != 1 {
		t.Errorf("identical = %v, want 1", got)
	}
	if got := Similarity("ABC", "abc"); got != 1 {
		t.Errorf("case fold = %v, want 1", got)
	}
	if got := Similarity("xyz", "abc"); got != 0 {
		t.Errorf("disjoint = %v, want 0", got)
	}
	if got := Similarity("abcd", "abce"); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("abcd/abce = %v, want 0.75", got)
	}
	if got := Similarity("wikimedia", "wikimania"); math.Abs(got-14.0/18.0) > 1e-9 {
		t.Errorf("wikimedia/wikimania = %v, want %v", got, 14.0/18.0)
	}
}

func TestEventDatabaseFind(t *testing.T) {
	db := &EventDatabase{rules: map[string]Rule{
		"Victory Concert":   {Fixed: 2},
		"At Summer Camp":    {Fixed: 1},
		"Dance Lesson":      {Bottom: true},
		"New Year's Shrine": {Fixed: 3},
	}}

	r, name, ok := db.Find("Victory Concert")
	if !ok || name != "Victory Concert" || r.Fixed != 2 {
		t.Fatalf("exact find = (%+v, %q, %v)", r, name, ok)
	}

	// One garbled character still resolves to the closest title.
	r, name, ok = db.Find("Vict0ry Concert")
	if !ok || name != "Victory Concert" || r.Fixed != 2 {
		t.Fatalf("fuzzy find = (%+v, %q, %v)", r, name, ok)
	}

	if _, _, ok := db.Find("Completely Unrelated Words"); ok {
		t.Error("junk matched below the similarity floor")
	}
	if _, _, ok := db.Find("   "); ok {
		t.Error("blank name matched")
	}
}

func TestLoadEventDatabaseMergePrecedence(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := assets.EnsureAssetDirs(); err != nil {
		t.Fatal(err)
	}

	write := func(path, body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(assets.CommonEventFile, `{"Shared Event": 1, "Common Only": 2}`)
	write(filepath.Join(assets.UmaMusumeDir, "Special Week.json"), `{"Shared Event": 2, "Uma Event": 1}`)
	write(filepath.Join(assets.SupportCardDir, "Kitasan Black.json"), `{"Shared Event": "bottom"}`)

	ec := config.EventChoiceSettings{
		UmaMusume:    "Special Week",
		SupportCards: [6]string{"Kitasan Black", "None", "None", "None", "None", "None"},
	}
	db := LoadEventDatabase(ec)
	if db.Len() != 3 {
		t.Fatalf("Len = %d, want 3", db.Len())
	}

	r, _, ok := db.Find("Shared Event")
	if !ok || !r.Bottom {
		t.Errorf("support card rule did not win the merge: %+v", r)
	}
	if r, _, ok := db.Find("Uma Event"); !ok || r.Fixed != 1 {
		t.Errorf("uma rule lost in the merge: %+v", r)
	}
	if r, _, ok := db.Find("Common Only"); !ok || r.Fixed != 2 {
		t.Errorf("common rule lost in the merge: %+v", r)
	}

	// Without the trainee and card maps only the common table loads.
	plain := LoadEventDatabase(config.EventChoiceSettings{
		UmaMusume:    "None",
		SupportCards: [6]string{"None", "None", "None", "None", "None", "None"},
	})
	if plain.Len() != 2 {
		t.Errorf("common-only Len = %d, want 2", plain.Len())
	}
	if r, _, ok := plain.Find("Shared Event"); !ok || r.Fixed != 1 {
		t.Errorf("common-only shared rule = %+v", r)
	}

	// A configured but missing map degrades to the remaining sources.
	missing := LoadEventDatabase(config.EventChoiceSettings{
		UmaMusume:    "Ghost Trainee",
		SupportCards: [6]string{"None", "None", "None", "None", "None", "None"},
	})
	if missing.Len() != 2 {
		t.Errorf("missing map Len = %d, want 2", missing.Len())
	}
}
