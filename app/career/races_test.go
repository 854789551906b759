package career

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ConserveLee/uma-auto/internal/config"
)

func TestDistanceBucket(t *testing.T) {
	cases := []struct {
		meters int
		want   string
	}{
		{1200, DistSprint},
		{1400, DistSprint},
		{1401, DistMile},
		{1800, DistMile},
		{1801, DistMedium},
		{2400, DistMedium},
		{2401, DistLong},
		{3200, DistLong},
	}
	for _, c := range cases {
		if got := DistanceBucket(c.meters); got != c.want {
			t.Errorf("DistanceBucket(%d) = %q, want %q", c.meters, got, c.want)
		}
	}
}

func TestRaceAbsoluteDay(t *testing.T) {
	r := Race{Year: "Classic", Month: 5, Half: 2}
	if got := r.AbsoluteDay(); got != 34 {
		t.Errorf("AbsoluteDay = %d, want 34", got)
	}
	first := Race{Year: "Junior", Month: 1, Half: 1}
	if got := first.AbsoluteDay(); got != 1 {
		t.Errorf("AbsoluteDay = %d, want 1", got)
	}
}

const raceListJSON = `[
  {"name": "Japan Derby", "year": "Classic", "month": 5, "half": 2, "grade": "G1", "track": "turf", "distance": 2400},
  {"name": "NHK Mile Cup", "year": "Classic", "month": 5, "half": 2, "grade": "G1", "track": "turf", "distance": 1600},
  {"name": "Keio Hai", "year": "Classic", "month": 5, "half": 2, "grade": "G2", "track": "turf", "distance": 1400},
  {"name": "Unit Stakes", "year": "Classic", "month": 5, "half": 2, "grade": "G3", "track": "dirt", "distance": 1200},
  {"name": "Spring Stakes", "year": "Junior", "month": 9, "half": 1, "grade": "G3", "track": "turf", "distance": 1800}
]`

func writeRaceList(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "race_list.json")
	if err := os.WriteFile(path, []byte(raceListJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func allRaces() config.RaceSettings {
	return config.RaceSettings{
		Turf: true, Dirt: true,
		Sprint: true, Mile: true, Medium: true, Long: true,
		G1: true, G2: true, G3: true,
	}
}

func TestLoadRaceCalendar(t *testing.T) {
	cal := LoadRaceCalendar(writeRaceList(t))
	if cal.Len() != 5 {
		t.Fatalf("Len = %d, want 5", cal.Len())
	}
	if len(cal.RacesOn(34)) != 4 {
		t.Errorf("day 34 has %d races, want 4", len(cal.RacesOn(34)))
	}
	if len(cal.RacesOn(17)) != 1 {
		t.Errorf("day 17 has %d races, want 1", len(cal.RacesOn(17)))
	}
}

func TestLoadRaceCalendarDegrades(t *testing.T) {
	missing := LoadRaceCalendar(filepath.Join(t.TempDir(), "nope.json"))
	if missing.Len() != 0 {
		t.Error("missing race list should load empty")
	}

	corrupt := filepath.Join(t.TempDir(), "race_list.json")
	if err := os.WriteFile(corrupt, []byte("[{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if cal := LoadRaceCalendar(corrupt); cal.Len() != 0 {
		t.Error("corrupt race list should load empty")
	}
}

func TestEligibleFilters(t *testing.T) {
	cal := LoadRaceCalendar(writeRaceList(t))

	rs := allRaces()
	rs.Dirt = false
	names := raceNames(cal.Eligible(34, rs))
	if len(names) != 3 || contains(names, "Unit Stakes") {
		t.Errorf("dirt filter kept %v", names)
	}

	rs = allRaces()
	rs.Sprint = false
	names = raceNames(cal.Eligible(34, rs))
	if contains(names, "Keio Hai") || contains(names, "Unit Stakes") {
		t.Errorf("sprint filter kept %v", names)
	}

	rs = allRaces()
	rs.G1 = false
	names = raceNames(cal.Eligible(34, rs))
	if contains(names, "Japan Derby") || contains(names, "NHK Mile Cup") {
		t.Errorf("grade filter kept %v", names)
	}
}

func TestBestOnPrefersGradeThenDistance(t *testing.T) {
	cal := LoadRaceCalendar(writeRaceList(t))

	best, ok := cal.BestOn(34, allRaces())
	if !ok || best.Name != "Japan Derby" {
		t.Fatalf("best = %+v ok=%v, want the longer G1", best, ok)
	}

	rs := allRaces()
	rs.G1 = false
	best, ok = cal.BestOn(34, rs)
	if !ok || best.Name != "Keio Hai" {
		t.Fatalf("best without G1 = %+v ok=%v, want the G2", best, ok)
	}

	if _, ok := cal.BestOn(3, allRaces()); ok {
		t.Error("day without races reported a best race")
	}
}

func raceNames(rs []Race) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
