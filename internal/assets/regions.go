package assets

import (
	"fmt"
	"image"
	"os"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

// Region is a screen rectangle in left/top/width/height form, relative
// to the game display origin.
type Region struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts to the stdlib rectangle form.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
}

// Empty reports whether the region selects nothing.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.Left, r.Top, r.Width, r.Height)
}

// Line is a horizontal pixel run, used for the energy bar scan.
type Line struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Regions holds every capture rectangle the career bot reads. The
// table is loaded once at startup and treated as immutable afterwards;
// region_settings.json can override individual entries for clients
// that render at an offset.
type Regions struct {
	SupportCardIcon Region            `json:"support_card_icon"`
	Mood            Region            `json:"mood"`
	Turn            Region            `json:"turn"`
	Failure         Region            `json:"failure"`
	Year            Region            `json:"year"`
	Criteria        Region            `json:"criteria"`
	EventType       Region            `json:"event_type"`
	EventName       Region            `json:"event_name"`
	RaceList        Region            `json:"race_list"`
	RaceTab         Region            `json:"race_tab"`
	PvpGift         Region            `json:"pvp_gift"`
	LeftHalf        Region            `json:"left_half"`
	EnergyBar       Line              `json:"energy_bar"`
	Stats           map[string]Region `json:"stats"`
}

// DefaultRegions returns the table calibrated for the 1920x1080 client.
func DefaultRegions() Regions {
	return Regions{
		SupportCardIcon: Region{845, 155, 180, 700},
		Mood:            Region{700, 123, 120, 27},
		Turn:            Region{260, 84, 108, 47},
		Failure:         Region{275, 780, 551, 33},
		Year:            Region{255, 35, 165, 22},
		Criteria:        Region{455, 85, 170, 26},
		EventType:       Region{240, 173, 240, 25},
		EventName:       Region{240, 200, 400, 40},
		RaceList:        Region{260, 588, 580, 266},
		RaceTab:         Region{200, 780, 480, 80},
		PvpGift:         Region{200, 150, 500, 570},
		LeftHalf:        Region{0, 0, 960, 1080},
		EnergyBar:       Line{440, 136, 705, 136},
		Stats: map[string]Region{
			"spd":  {310, 723, 55, 25},
			"sta":  {405, 723, 55, 25},
			"pwr":  {500, 723, 55, 25},
			"guts": {595, 723, 55, 25},
			"wit":  {690, 723, 55, 25},
		},
	}
}

// OpponentPoints are the three fixed opponent rows in team trials.
var OpponentPoints = map[int]image.Point{
	1: {X: 450, Y: 230},
	2: {X: 450, Y: 420},
	3: {X: 450, Y: 600},
}

// ResultSkipPoint is a safe blank spot to tap while skipping race results.
var ResultSkipPoint = image.Point{X: 480, Y: 240}

// LoadRegions reads region overrides from path on top of the defaults.
// A missing or unreadable file is not an error; the defaults win and
// the condition is logged.
func LoadRegions(path string) Regions {
	regions := DefaultRegions()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("[Assets] region settings unreadable, using defaults")
		}
		return regions
	}
	if err := sonic.Unmarshal(data, &regions); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("[Assets] region settings corrupt, using defaults")
		return DefaultRegions()
	}
	return regions
}

// SaveRegions writes the table to path for the next start.
func SaveRegions(path string, regions Regions) error {
	data, err := sonic.MarshalIndent(regions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode regions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write regions: %w", err)
	}
	return nil
}
