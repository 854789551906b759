package constants

import "time"

// Bot timing and matching configuration
const (
	// Scan Intervals
	DetectScanInterval  = 500 * time.Millisecond // UI pump interval while looking for anything actionable
	LobbyScanInterval   = 1 * time.Second        // Interval between lobby reads
	RaceScanInterval    = 2 * time.Second        // Interval while a race is being skipped through
	TrialsScanInterval  = 1 * time.Second        // Team trials loop interval
	EventSettleInterval = 300 * time.Millisecond // Pause after an event choice click

	// Polling defaults
	QuickAttempts   = 1 // Opportunistic checks give up immediately
	QuickInterval   = 1 * time.Second
	PatientAttempts = 5 // Waiting on an expected screen transition
	PatientInterval = 2 * time.Second

	// Interaction Delays
	WaitAfterClickQuick  = 100 * time.Millisecond // After advancing a dialog
	WaitAfterClickNormal = 1 * time.Second        // After clicking a screen-changing button

	// Matching
	DefaultConfidence = 0.8 // Similarity threshold accepted by the matcher
	HighConfidence    = 0.9 // For templates prone to false positives (infirmary)
	ColorTolerance    = 60  // Per-pixel RGB euclidean tolerance

	// Lobby verification
	LobbyConfirmSightings = 3  // Consecutive tazuna sightings before the lobby is trusted
	MaxLobbyAttempts      = 30 // Stall bound while trying to reach the lobby

	// Career calendar (two turns per month, three years)
	PreDebutLastDay = 16
	EarlyStageLast  = 24
	MidStageLast    = 48
	CareerTotalDays = 72
	FinaleDay       = 73
	HintDecayDay    = 36 // Support hints count half from this day on

	// Energy thresholds (percent)
	DefaultMinimumEnergy  = 40
	DefaultCriticalEnergy = 25

	// Training score weights
	SupportScore    = 1.0
	SupportScoreLow = 0.5 // After HintDecayDay
	NPCScore        = 0.5
	FriendScore     = 0.75
	RainbowScoreMid = 2.0
	RainbowScoreMax = 2.5 // Late stage

	// Infirmary detection
	InfirmaryBrightness = 150.0 // Mean brightness above this means the button is lit

	// Event handling
	EventChoiceMax    = 5
	EventNameMinScore = 0.6 // Fuzzy match floor for event names

	// Debugging
	DebugDumpDir = "logs/dumps"
)
