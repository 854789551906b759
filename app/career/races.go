package career

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/config"
)

// Race is one entry of the race calendar shipped under assets.
type Race struct {
	Name     string `json:"name"`
	Year     string `json:"year"`  // Junior / Classic / Senior
	Month    int    `json:"month"` // 1..12
	Half     int    `json:"half"`  // 1 early, 2 late
	Grade    string `json:"grade"` // G1 / G2 / G3 / OP
	Track    string `json:"track"` // turf / dirt
	Distance int    `json:"distance"`
}

// AbsoluteDay resolves the calendar slot of the race.
func (r Race) AbsoluteDay() int {
	return yearIndex(r.Year)*24 + (r.Month-1)*2 + r.Half
}

// Distance buckets as the race filter uses them.
const (
	DistSprint = "sprint"
	DistMile   = "mile"
	DistMedium = "medium"
	DistLong   = "long"
)

// DistanceBucket maps meters onto the four banding the settings use.
func DistanceBucket(meters int) string {
	switch {
	case meters <= 1400:
		return DistSprint
	case meters <= 1800:
		return DistMile
	case meters <= 2400:
		return DistMedium
	default:
		return DistLong
	}
}

func gradePriority(grade string) int {
	switch strings.ToUpper(grade) {
	case "G1":
		return 3
	case "G2":
		return 2
	case "G3":
		return 1
	default:
		return 0
	}
}

// RaceCalendar indexes the shipped race list by absolute day.
type RaceCalendar struct {
	byDay map[int][]Race
}

// LoadRaceCalendar reads the race list JSON. A missing or corrupt file
// degrades to an empty calendar so career runs still work, just
// without extra racing.
func LoadRaceCalendar(path string) *RaceCalendar {
	if path == "" {
		path = assets.RaceListFile
	}
	cal := &RaceCalendar{byDay: make(map[int][]Race)}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("race list unavailable")
		return cal
	}
	var races []Race
	if err := sonic.Unmarshal(raw, &races); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("race list unreadable")
		return cal
	}
	for _, r := range races {
		day := r.AbsoluteDay()
		cal.byDay[day] = append(cal.byDay[day], r)
	}
	log.Debug().Int("races", len(races)).Msg("race calendar loaded")
	return cal
}

// Len reports the number of indexed races.
func (c *RaceCalendar) Len() int {
	n := 0
	for _, rs := range c.byDay {
		n += len(rs)
	}
	return n
}

// RacesOn lists the races of one absolute day.
func (c *RaceCalendar) RacesOn(day int) []Race {
	return c.byDay[day]
}

// Eligible filters a day's races against the track, distance and
// grade toggles from the settings.
func (c *RaceCalendar) Eligible(day int, rs config.RaceSettings) []Race {
	var out []Race
	for _, r := range c.byDay[day] {
		if !trackAllowed(r.Track, rs) {
			continue
		}
		if !distanceAllowed(DistanceBucket(r.Distance), rs) {
			continue
		}
		if !gradeAllowed(r.Grade, rs) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// BestOn picks the highest-grade eligible race of the day, longest
// distance as the tie break.
func (c *RaceCalendar) BestOn(day int, rs config.RaceSettings) (Race, bool) {
	elig := c.Eligible(day, rs)
	if len(elig) == 0 {
		return Race{}, false
	}
	sort.SliceStable(elig, func(i, j int) bool {
		pi, pj := gradePriority(elig[i].Grade), gradePriority(elig[j].Grade)
		if pi != pj {
			return pi > pj
		}
		return elig[i].Distance > elig[j].Distance
	})
	return elig[0], true
}

func trackAllowed(track string, rs config.RaceSettings) bool {
	switch strings.ToLower(track) {
	case "turf":
		return rs.Turf
	case "dirt":
		return rs.Dirt
	default:
		return false
	}
}

func distanceAllowed(bucket string, rs config.RaceSettings) bool {
	switch bucket {
	case DistSprint:
		return rs.Sprint
	case DistMile:
		return rs.Mile
	case DistMedium:
		return rs.Medium
	case DistLong:
		return rs.Long
	default:
		return false
	}
}

func gradeAllowed(grade string, rs config.RaceSettings) bool {
	switch strings.ToUpper(grade) {
	case "G1":
		return rs.G1
	case "G2":
		return rs.G2
	case "G3":
		return rs.G3
	default:
		return false
	}
}

// Describe renders a race for the activity log.
func (r Race) Describe() string {
	return fmt.Sprintf("%s (%s %s %dm)", r.Name, r.Grade, r.Track, r.Distance)
}
