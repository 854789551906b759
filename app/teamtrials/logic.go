// Package teamtrials grinds team trial races: into the trial lobby,
// pick an opponent, race, skip the results, race again until RP or
// the race limit runs out.
package teamtrials

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/config"
	"github.com/ConserveLee/uma-auto/internal/constants"
	"github.com/ConserveLee/uma-auto/internal/engine"
)

// BotConfig wires the shared services into a trials bot.
type BotConfig struct {
	Actor   *engine.Actor
	Pointer engine.Clicker
	Store   *config.Store
	Regions assets.Regions
}

// Bot is the team trials runner.
type Bot struct {
	*engine.Runner

	actor   *engine.Actor
	pointer engine.Clicker
	store   *config.Store
	regions assets.Regions
	guard   *engine.StallGuard

	runID     string
	races     int
	inRace    bool
	idleTicks int
}

func NewBot(cfg BotConfig) *Bot {
	return &Bot{
		Runner:  &engine.Runner{},
		actor:   cfg.Actor,
		pointer: cfg.Pointer,
		store:   cfg.Store,
		regions: cfg.Regions,
		guard:   engine.NewStallGuard(constants.MaxLobbyAttempts, 2*time.Minute),
	}
}

// Start resets the run counters and launches the loop.
func (b *Bot) Start() {
	if b.Running() {
		return
	}
	b.runID = uuid.NewString()[:8]
	b.races = 0
	b.inRace = false
	b.idleTicks = 0
	b.guard.Reset()
	b.Runner.Start(b.loop)
}

func (b *Bot) loop(ctx context.Context) {
	b.Log("[Trials] run %s started", b.runID)
	b.Status("Trials: scanning")
	defer b.Status("Trials: stopped")

	for {
		interval := b.tick(ctx)
		if interval < 0 {
			b.Log("[Trials] run %s finished after %d races", b.runID, b.races)
			return
		}
		if err := engine.Sleep(ctx, interval); err != nil {
			b.Log("[Trials] run %s stopped after %d races", b.runID, b.races)
			return
		}
	}
}

// tick handles exactly one screen, deepest state first, so whatever
// screen the game is on gets picked up within one interval.
func (b *Bot) tick(ctx context.Context) time.Duration {
	if ctx.Err() != nil {
		return -1
	}
	set := b.normalizedSettings()

	// Shop prompt means the trial tickets ran out.
	if b.actor.Exists(assets.BtnTrialsShop, engine.Options{}) {
		b.Log("[Trials] shop prompt on screen, out of RP")
		return -1
	}

	if b.clickIfVisible(ctx, assets.BtnRaceAgain) {
		b.inRace = false
		b.Status(fmt.Sprintf("Trials: %d races done", b.races))
		return constants.TrialsScanInterval
	}

	// Reward popups between rounds.
	if b.clickInRegion(ctx, assets.BtnPvpGift, b.regions.PvpGift) {
		b.Log("[Trials] win gift collected")
		return constants.TrialsScanInterval
	}
	if b.clickIfVisible(ctx, assets.BtnParfait) {
		return constants.TrialsScanInterval
	}

	if b.clickIfVisible(ctx, assets.BtnSeeResult) {
		b.inRace = false
		engine.Sleep(ctx, constants.WaitAfterClickNormal)
		b.pointer.TripleClick(assets.ResultSkipPoint.X, assets.ResultSkipPoint.Y)
		return constants.TrialsScanInterval
	}

	if b.actor.Exists(assets.BtnRace, engine.Options{}) {
		if set.MaxRaces > 0 && b.races >= set.MaxRaces {
			b.Log("[Trials] reached the configured limit of %d races", set.MaxRaces)
			return -1
		}
		if b.clickIfVisible(ctx, assets.BtnRace) {
			b.races++
			b.inRace = true
			b.Log("[Trials] race %d started", b.races)
			return constants.RaceScanInterval
		}
	}

	if b.clickIfVisible(ctx, assets.BtnTeamRace) {
		engine.Sleep(ctx, constants.WaitAfterClickNormal)
		if p, ok := assets.OpponentPoints[set.Opponent]; ok {
			b.pointer.Click(p.X, p.Y)
			b.Debug("[Trials] picked opponent row %d", set.Opponent)
		}
		return constants.TrialsScanInterval
	}

	if b.clickInRegion(ctx, assets.BtnTeamTrial, b.regions.LeftHalf) {
		return constants.TrialsScanInterval
	}
	if b.clickInRegion(ctx, assets.BtnRaceTab, b.regions.RaceTab) {
		return constants.TrialsScanInterval
	}
	if b.clickIfVisible(ctx, assets.BtnNext) {
		return constants.TrialsScanInterval
	}
	if b.clickIfVisible(ctx, assets.BtnNext2) {
		return constants.TrialsScanInterval
	}

	if b.inRace {
		// Mid-race with nothing actionable: mash the skip point.
		b.pointer.TripleClick(assets.ResultSkipPoint.X, assets.ResultSkipPoint.Y)
		return constants.RaceScanInterval
	}

	b.idleTicks++
	if b.idleTicks > constants.MaxLobbyAttempts || b.guard.Exceeded() {
		b.Log("[Trials] no recognizable screen for too long, stopping")
		return -1
	}
	return constants.TrialsScanInterval
}

// normalizedSettings clamps the persisted values to what the screens
// actually offer.
func (b *Bot) normalizedSettings() config.TeamTrialsSettings {
	set := b.store.Settings().TeamTrials
	if set.Opponent < 1 || set.Opponent > 3 {
		set.Opponent = 2
	}
	return set
}

func (b *Bot) clickIfVisible(ctx context.Context, target string) bool {
	return b.clickInRegion(ctx, target, assets.Region{})
}

func (b *Bot) clickInRegion(ctx context.Context, target string, region assets.Region) bool {
	res, err := b.actor.ActOnMatch(ctx, target, engine.Quick, engine.Options{Region: region.Rect()})
	if err != nil || !res.Found {
		return false
	}
	b.idleTicks = 0
	b.guard.Record(target, res.Box.Center())
	engine.Sleep(ctx, constants.WaitAfterClickQuick)
	return true
}
