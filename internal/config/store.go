package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

// EventChoiceSettings controls how career events are answered.
// auto_event_map and auto_first_choice are mutually exclusive; the
// dialog enforces that on edit, the store only persists what it is
// given.
type EventChoiceSettings struct {
	AutoEventMap    bool      `json:"auto_event_map"`
	AutoFirstChoice bool      `json:"auto_first_choice"`
	UmaMusume       string    `json:"uma_musume"`
	SupportCards    [6]string `json:"support_cards"`
}

// TrainingSettings controls the training advisor.
type TrainingSettings struct {
	Strategy         string         `json:"strategy"`
	MinimumEnergy    int            `json:"minimum_energy"`
	CriticalEnergy   int            `json:"critical_energy"`
	MaxFailureChance int            `json:"max_failure_chance"`
	MinimumMood      string         `json:"minimum_mood"`
	PriorityStats    []string       `json:"priority_stats"`
	StatCaps         map[string]int `json:"stat_caps"`
}

// RaceSettings filters which career races are worth entering.
type RaceSettings struct {
	Turf   bool `json:"turf"`
	Dirt   bool `json:"dirt"`
	Sprint bool `json:"sprint"`
	Mile   bool `json:"mile"`
	Medium bool `json:"medium"`
	Long   bool `json:"long"`
	G1     bool `json:"g1"`
	G2     bool `json:"g2"`
	G3     bool `json:"g3"`
}

// TeamTrialsSettings controls the team trials loop.
type TeamTrialsSettings struct {
	Opponent int `json:"opponent"`  // 1..3, row to pick
	MaxRaces int `json:"max_races"` // 0 means unlimited
}

// BotSettings is the full persisted gameplay configuration.
type BotSettings struct {
	EventChoice        EventChoiceSettings `json:"event_choice"`
	Training           TrainingSettings    `json:"training"`
	Racing             RaceSettings        `json:"racing"`
	TeamTrials         TeamTrialsSettings  `json:"team_trials"`
	StopOnWarning      bool                `json:"stop_on_warning"`
	UnknownEventAction string              `json:"unknown_event_action"` // "wait" or "first"
}

// DefaultSettings returns the configuration used when no settings file
// exists yet.
func DefaultSettings() BotSettings {
	return BotSettings{
		EventChoice: EventChoiceSettings{
			AutoFirstChoice: true,
			UmaMusume:       "None",
			SupportCards:    [6]string{"None", "None", "None", "None", "None", "None"},
		},
		Training: TrainingSettings{
			Strategy:         "Train Score 2.5+",
			MinimumEnergy:    40,
			CriticalEnergy:   25,
			MaxFailureChance: 15,
			MinimumMood:      "NORMAL",
			PriorityStats:    []string{"spd", "sta", "pwr", "guts", "wit"},
			StatCaps: map[string]int{
				"spd": 1100, "sta": 1000, "pwr": 1000, "guts": 600, "wit": 800,
			},
		},
		Racing: RaceSettings{
			Turf: true, Dirt: true,
			Sprint: true, Mile: true, Medium: true, Long: true,
			G1: true, G2: true, G3: false,
		},
		TeamTrials: TeamTrialsSettings{
			Opponent: 2,
			MaxRaces: 0,
		},
		StopOnWarning:      true,
		UnknownEventAction: "wait",
	}
}

// Store owns the persisted BotSettings. All access goes through the
// mutex so the GUI, the bots and the dialog callback can share one
// instance.
type Store struct {
	path string

	mu       sync.RWMutex
	settings BotSettings
}

// NewStore creates a store backed by path, pre-filled with defaults.
func NewStore(path string) *Store {
	return &Store{path: path, settings: DefaultSettings()}
}

// Load reads the settings file. A missing file keeps the defaults and
// is not an error; a corrupt file keeps the defaults and returns the
// parse error for the caller to log.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}

	settings := DefaultSettings()
	if err := sonic.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

// Save writes the current settings to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	settings := s.settings
	s.mu.RUnlock()

	data, err := sonic.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Settings returns a copy of the full settings document.
func (s *Store) Settings() BotSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// EventChoice returns a snapshot for the settings dialog.
func (s *Store) EventChoice() EventChoiceSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.EventChoice
}

// SaveEventChoice persists an edited snapshot. When the write fails
// the previous snapshot is restored in memory so store and disk stay
// consistent, and the error is returned for the dialog to surface.
func (s *Store) SaveEventChoice(ec EventChoiceSettings) error {
	s.mu.Lock()
	prev := s.settings.EventChoice
	s.settings.EventChoice = ec
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		s.mu.Lock()
		s.settings.EventChoice = prev
		s.mu.Unlock()
		return err
	}
	log.Info().Msg("[Settings] event choice settings saved")
	return nil
}

// Update applies fn to the settings under the lock and persists the
// result. Used by the panels for non-dialog edits.
func (s *Store) Update(fn func(*BotSettings)) error {
	s.mu.Lock()
	prev := s.settings
	fn(&s.settings)
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		s.mu.Lock()
		s.settings = prev
		s.mu.Unlock()
		return err
	}
	return nil
}
