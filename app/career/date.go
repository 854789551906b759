package career

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ConserveLee/uma-auto/internal/constants"
)

// Months in the order the game renders them.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// YearNames are the three career years.
var YearNames = []string{"Junior", "Classic", "Senior"}

// CareerDate is one decoded turn of the 72-turn career calendar plus
// the finale.
type CareerDate struct {
	Year        int  // 0 Junior, 1 Classic, 2 Senior
	Month       int  // 1..12
	Half        int  // 1 early, 2 late
	AbsoluteDay int  // 1..72, 73 during the finale
	PreDebut    bool // Junior pre-debut turns
	Finale      bool
}

func (d CareerDate) String() string {
	if d.Finale {
		return "Finale Season"
	}
	if d.PreDebut {
		return fmt.Sprintf("%s Year Pre-Debut (day %d)", YearNames[d.Year], d.AbsoluteDay)
	}
	half := "Early"
	if d.Half == 2 {
		half = "Late"
	}
	return fmt.Sprintf("%s Year %s %s (day %d)", YearNames[d.Year], half, Months[d.Month-1], d.AbsoluteDay)
}

// Stage buckets used by the training advisor.
const (
	StagePreDebut = iota
	StageEarly
	StageMid
	StageLate
)

// Stage classifies the absolute day.
func (d CareerDate) Stage() int {
	switch {
	case d.PreDebut || d.AbsoluteDay <= constants.PreDebutLastDay:
		return StagePreDebut
	case d.AbsoluteDay <= constants.EarlyStageLast:
		return StageEarly
	case d.AbsoluteDay <= constants.MidStageLast:
		return StageMid
	default:
		return StageLate
	}
}

// RacingRestricted reports the turns where entering extra races is
// blocked or pointless: pre-debut, the first training days, and the
// July/August training camps of the Classic and Senior years.
func (d CareerDate) RacingRestricted() bool {
	if d.Finale {
		return true
	}
	if d.PreDebut || d.AbsoluteDay <= constants.PreDebutLastDay {
		return true
	}
	if d.Year >= 1 && (d.Month == 7 || d.Month == 8) {
		return true
	}
	return false
}

// dateFixes repairs the OCR confusions seen on the date strip.
var dateFixes = strings.NewReplacer(
	"Eariy", "Early",
	"Earty", "Early",
	"Ear1y", "Early",
	"EarIy", "Early",
	"Lale", "Late",
	"Lato", "Late",
	"C1assic", "Classic",
	"Ciassic", "Classic",
	"Classlc", "Classic",
	"Junlor", "Junior",
	"Jun1or", "Junior",
	"Senlor", "Senior",
	"Sen1or", "Senior",
	"0ct", "Oct",
	"N0v", "Nov",
	"0ec", "Dec",
	"FebIuary", "Feb",
)

var (
	preDebutPattern = regexp.MustCompile(`(Junior|Classic|Senior)\s+Year\s+Pre-?\s?Debut`)
	turnPattern     = regexp.MustCompile(`(Junior|Classic|Senior)\s+Year\s+(Early|Late)\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`)
)

// ParseCareerDate decodes the OCR'd date strip. Unreadable text is an
// error; the caller logs it and retries on the next tick.
func ParseCareerDate(text string) (CareerDate, error) {
	cleaned := dateFixes.Replace(strings.TrimSpace(text))

	if strings.Contains(strings.ToUpper(cleaned), "FINALE") {
		return CareerDate{Year: 2, Finale: true, AbsoluteDay: constants.FinaleDay}, nil
	}

	if m := preDebutPattern.FindStringSubmatch(cleaned); m != nil {
		year := yearIndex(m[1])
		return CareerDate{
			Year:        year,
			PreDebut:    true,
			AbsoluteDay: year*24 + 1,
		}, nil
	}

	if m := turnPattern.FindStringSubmatch(cleaned); m != nil {
		year := yearIndex(m[1])
		half := 1
		if m[2] == "Late" {
			half = 2
		}
		month := monthIndex(m[3])
		return CareerDate{
			Year:        year,
			Month:       month,
			Half:        half,
			AbsoluteDay: year*24 + (month-1)*2 + half,
		}, nil
	}

	// Salvage pass: a year name plus a month is enough to locate the
	// turn within one half-month.
	for _, yn := range YearNames {
		if !strings.Contains(cleaned, yn) {
			continue
		}
		for mi, mn := range Months {
			if strings.Contains(cleaned, mn) {
				year := yearIndex(yn)
				return CareerDate{
					Year:        year,
					Month:       mi + 1,
					Half:        1,
					AbsoluteDay: year*24 + mi*2 + 1,
				}, nil
			}
		}
	}

	return CareerDate{}, fmt.Errorf("unreadable date %q", text)
}

func yearIndex(name string) int {
	for i, yn := range YearNames {
		if yn == name {
			return i
		}
	}
	return 0
}

func monthIndex(name string) int {
	for i, mn := range Months {
		if mn == name {
			return i + 1
		}
	}
	return 1
}
