// Package career drives full career runs: watching the screen, pumping
// dialogs, answering events, picking trainings and entering races.
package career

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ConserveLee/uma-auto/internal/assets"
	"github.com/ConserveLee/uma-auto/internal/config"
	"github.com/ConserveLee/uma-auto/internal/constants"
	"github.com/ConserveLee/uma-auto/internal/engine"
	"github.com/ConserveLee/uma-auto/internal/engine/ocr"
)

type botState int

const (
	stateDetect botState = iota
	stateLobby
	stateRaceDay
)

// BotConfig wires the shared services into a career bot.
type BotConfig struct {
	Actor   *engine.Actor
	Vision  *engine.Vision
	Pointer engine.Clicker
	Reader  *ocr.Reader // nil runs without OCR, map lookups disabled
	Store   *config.Store
	Regions assets.Regions

	RaceListPath string // empty uses the shipped list
	DebugDump    bool
}

// Bot is the career runner. One instance per tab; Start and Stop come
// from the embedded Runner.
type Bot struct {
	*engine.Runner

	actor   *engine.Actor
	vision  *engine.Vision
	pointer engine.Clicker
	reader  *ocr.Reader
	store   *config.Store
	regions assets.Regions
	guard   *engine.StallGuard

	raceListPath string
	debugDump    bool

	// loop-goroutine state, never touched while stopped
	runID         string
	state         botState
	tazunaSeen    int
	date          CareerDate
	events        *EventDatabase
	advisor       *Advisor
	calendar      *RaceCalendar
	unknownLogged map[string]bool
}

// NewBot builds a career bot around the shared engine services.
func NewBot(cfg BotConfig) *Bot {
	return &Bot{
		Runner:       &engine.Runner{},
		actor:        cfg.Actor,
		vision:       cfg.Vision,
		pointer:      cfg.Pointer,
		reader:       cfg.Reader,
		store:        cfg.Store,
		regions:      cfg.Regions,
		guard:        engine.NewStallGuard(constants.MaxLobbyAttempts, 2*time.Minute),
		raceListPath: cfg.RaceListPath,
		debugDump:    cfg.DebugDump,
	}
}

// Start loads the per-run tables and launches the loop. A second Start
// while running is a no-op.
func (b *Bot) Start() {
	if b.Running() {
		return
	}
	settings := b.store.Settings()
	b.advisor = NewAdvisor(settings.Training)
	b.events = LoadEventDatabase(settings.EventChoice)
	b.calendar = LoadRaceCalendar(b.raceListPath)
	b.runID = uuid.NewString()[:8]
	b.state = stateDetect
	b.tazunaSeen = 0
	b.unknownLogged = make(map[string]bool)
	b.guard.Reset()
	b.Runner.Start(b.loop)
}

func (b *Bot) loop(ctx context.Context) {
	b.Log("[Career] run %s started: %d mapped events, %d listed races",
		b.runID, b.events.Len(), b.calendar.Len())
	b.Status("Career: scanning")
	defer b.Status("Career: stopped")

	for {
		interval := b.processState(ctx)
		if interval < 0 {
			b.Log("[Career] run %s finished", b.runID)
			return
		}
		if err := engine.Sleep(ctx, interval); err != nil {
			b.Log("[Career] run %s stopped", b.runID)
			return
		}
	}
}

// processState runs one tick of the current state and returns the
// pause before the next tick. A negative interval ends the run.
func (b *Bot) processState(ctx context.Context) time.Duration {
	if ctx.Err() != nil {
		return -1
	}
	switch b.state {
	case stateLobby:
		return b.lobbyTick(ctx)
	case stateRaceDay:
		return b.raceDayTick(ctx)
	default:
		return b.detectTick(ctx)
	}
}

// detectTick pumps whatever screen is up: events outrank everything,
// then the dialog-advancing buttons, then the lobby marker.
func (b *Bot) detectTick(ctx context.Context) time.Duration {
	if kind, ok := b.eventTypeOnScreen(); ok {
		b.handleEvent(ctx, kind)
		return constants.EventSettleInterval
	}

	if b.clickIfVisible(ctx, assets.BtnInspiration) {
		b.Log("[Career] inspiration event acknowledged")
		return constants.DetectScanInterval
	}
	if b.clickIfVisible(ctx, assets.BtnNext) {
		b.tazunaSeen = 0
		return constants.DetectScanInterval
	}
	if b.actor.Exists(assets.BtnCancel, engine.Options{}) {
		if b.store.Settings().StopOnWarning && b.actor.Exists(assets.UIRaceWarning, engine.Options{}) {
			b.dumpScreen("race_warning")
			b.Log("[Career] race warning on screen, stopping for manual review")
			return -1
		}
		b.clickIfVisible(ctx, assets.BtnCancel)
		return constants.DetectScanInterval
	}
	if b.clickIfVisible(ctx, assets.BtnNext2) {
		return constants.DetectScanInterval
	}

	if b.actor.Exists(assets.UITazunaHint, engine.Options{}) {
		b.tazunaSeen++
		if b.tazunaSeen >= constants.LobbyConfirmSightings {
			b.tazunaSeen = 0
			b.state = stateLobby
			return constants.LobbyScanInterval
		}
		return constants.DetectScanInterval
	}
	b.tazunaSeen = 0

	if b.guard.Exceeded() {
		b.dumpScreen("stalled")
		b.Log("[Career] stuck clicking the same spot, stopping")
		return -1
	}
	return constants.DetectScanInterval
}

// lobbyTick reads the lobby, decides the turn and executes it.
func (b *Bot) lobbyTick(ctx context.Context) time.Duration {
	if !b.actor.Exists(assets.UITazunaHint, engine.Options{}) {
		b.state = stateDetect
		return constants.DetectScanInterval
	}

	reading, err := b.readLobby()
	if err != nil {
		if b.reader == nil {
			b.Log("[Career] OCR unavailable, the lobby cannot be decoded; stopping")
			return -1
		}
		b.Debug("[Career] lobby read: %v", err)
		return constants.LobbyScanInterval
	}
	b.date = reading.Date
	b.Status(fmt.Sprintf("Career: %s, energy %d", reading.Date, reading.Energy))

	if reading.RaceDay {
		b.state = stateRaceDay
		return constants.DetectScanInterval
	}
	if reading.Turns > 0 {
		b.Debug("[Career] %d turns to the goal race", reading.Turns)
	}

	// The cheap reads may already settle the turn without opening the
	// training screen.
	if dec, ok := b.advisor.Gate(reading.LobbySnapshot); !ok {
		b.Log("[Career] day %d: %s (%s)", reading.Date.AbsoluteDay, dec.Action, dec.Reason)
		b.execute(ctx, dec)
		b.state = stateDetect
		return constants.DetectScanInterval
	}

	opts, onTrainingScreen := b.readTrainingOptions(ctx)
	reading.Options = opts
	dec := b.advisor.Decide(reading.LobbySnapshot)
	label := dec.Action
	if dec.Training != "" {
		label += " " + dec.Training
	}
	b.Log("[Career] day %d: %s (%s)", reading.Date.AbsoluteDay, label, dec.Reason)

	if dec.Action == ActionTrain && onTrainingScreen {
		b.trainFacility(ctx, dec.Training)
	} else {
		if onTrainingScreen {
			b.clickIfVisible(ctx, assets.BtnBack)
			engine.Sleep(ctx, constants.WaitAfterClickNormal)
		}
		b.execute(ctx, dec)
	}
	b.pointer.MoveAway()
	b.state = stateDetect
	return constants.DetectScanInterval
}

// raceDayTick runs the goal race of the day.
func (b *Bot) raceDayTick(ctx context.Context) time.Duration {
	if b.reader != nil {
		if capture, err := b.vision.Capture(image.Rectangle{}); err == nil {
			if crop := cropRGBA(capture, b.regions.Criteria.Rect()); crop != nil {
				if text, err := b.reader.Line(crop); err == nil && text != "" {
					b.Status("Career: race day, " + text)
				}
			}
		}
	}
	b.Log("[Career] race day %d", b.date.AbsoluteDay)
	return b.raceFlow(ctx, true)
}

// execute performs a gate or scored decision from the lobby.
func (b *Bot) execute(ctx context.Context, dec Decision) {
	switch dec.Action {
	case ActionInfirmary:
		b.clickIfVisibleAt(ctx, assets.BtnInfirmary, constants.HighConfidence)
	case ActionRest:
		if !b.clickIfVisible(ctx, assets.BtnRest) {
			// July and August fold rest and recreation into the camp
			// button.
			b.clickIfVisible(ctx, assets.BtnRestSummer)
		}
	case ActionRecreation:
		if !b.clickIfVisible(ctx, assets.BtnRecreation) {
			b.clickIfVisible(ctx, assets.BtnRestSummer)
		}
	case ActionRace:
		b.raceFlow(ctx, false)
	}
}

type lobbyReading struct {
	LobbySnapshot
	RaceDay bool
	Turns   int
}

// readLobby decodes the lobby top bar: turn counter, date, energy,
// mood, infirmary state and today's race offer.
func (b *Bot) readLobby() (lobbyReading, error) {
	var out lobbyReading
	capture, err := b.vision.Capture(image.Rectangle{})
	if err != nil {
		return out, fmt.Errorf("lobby capture: %w", err)
	}
	if b.reader == nil {
		return out, fmt.Errorf("no OCR reader, lobby cannot be decoded")
	}

	turnText, _ := b.reader.Line(cropRGBA(capture, b.regions.Turn.Rect()))
	if strings.Contains(strings.ToUpper(turnText), "RACE") {
		out.RaceDay = true
	} else if n, err := ParseTurn(turnText); err == nil {
		out.Turns = n
	}

	dateText, err := b.reader.Line(cropRGBA(capture, b.regions.Year.Rect()))
	if err != nil {
		return out, fmt.Errorf("date strip: %w", err)
	}
	date, err := ParseCareerDate(dateText)
	if err != nil {
		return out, err
	}
	out.Date = date

	out.Energy = EnergyPercent(capture, b.regions.EnergyBar)

	if moodText, err := b.reader.Line(cropRGBA(capture, b.regions.Mood.Rect())); err == nil {
		if mood, err := ParseMood(moodText); err == nil {
			out.Mood = mood
		}
	}

	out.Infirmary = b.infirmaryLit(capture)
	if _, ok := b.calendar.BestOn(date.AbsoluteDay, b.store.Settings().Racing); ok && !date.RacingRestricted() {
		out.RaceAvailable = true
	}
	return out, nil
}

// infirmaryLit locates the infirmary button and checks whether it is
// rendered bright, which only happens when an ailment needs care.
func (b *Bot) infirmaryLit(capture *image.RGBA) bool {
	res, err := b.vision.Locate(assets.BtnInfirmary, engine.Options{Threshold: constants.HighConfidence})
	if err != nil || res.Outcome != engine.OutcomeFound {
		return false
	}
	crop := cropRGBA(capture, res.Box.Rect())
	return crop != nil && InfirmaryEnabled(crop)
}

// readTrainingOptions opens the training screen and inspects the five
// facilities in order. The bool reports whether the screen was
// actually entered; selection stays on the last inspected facility.
func (b *Bot) readTrainingOptions(ctx context.Context) ([]TrainingOption, bool) {
	res, err := b.actor.ActOnMatch(ctx, assets.BtnTraining, engine.Patient, engine.Options{})
	if err != nil || !res.Found {
		return nil, false
	}
	engine.Sleep(ctx, constants.WaitAfterClickNormal)

	var opts []TrainingOption
	for _, t := range assets.TrainingTypes {
		sel, err := b.actor.ActOnMatch(ctx, assets.TrainingIcons[t], engine.Quick, engine.Options{})
		if err != nil || !sel.Found {
			continue
		}
		engine.Sleep(ctx, constants.WaitAfterClickQuick)
		opts = append(opts, b.inspectFacility(t))
	}
	return opts, true
}

// inspectFacility reads one selected facility: failure chance, current
// stat and the support column.
func (b *Bot) inspectFacility(t string) TrainingOption {
	opt := TrainingOption{Type: t}
	capture, err := b.vision.Capture(image.Rectangle{})
	if err != nil {
		return opt
	}

	if b.reader != nil {
		if text, err := b.reader.Line(cropRGBA(capture, b.regions.Failure.Rect())); err == nil {
			opt.FailureChance = ParseFailureChance(text)
		}
		if r, ok := b.regions.Stats[t]; ok {
			if text, err := b.reader.Digits(cropRGBA(capture, r.Rect())); err == nil {
				if v, err := ParseStatValue(text); err == nil {
					opt.StatValue = v
				}
			}
		}
	}

	column := engine.Options{Region: b.regions.SupportCardIcon.Rect()}
	if boxes, err := b.vision.LocateAll(assets.SupportIcons[t], column); err == nil {
		opt.SupportCount = len(boxes)
	}
	if boxes, err := b.vision.LocateAll(assets.RainbowIcons[t], column); err == nil {
		opt.RainbowCount = len(boxes)
	}
	if boxes, err := b.vision.LocateAll(assets.SupportIcons["friend"], column); err == nil {
		opt.FriendCount = len(boxes)
	}
	for _, npc := range assets.NPCIcons {
		if boxes, err := b.vision.LocateAll(npc, column); err == nil {
			opt.NPCCount += len(boxes)
		}
	}
	if boxes, err := b.vision.LocateAll(assets.IconSupportHint, column); err == nil {
		opt.HintCount = len(boxes)
	}
	b.Debug("[Career] %s: fail %d%%, stat %d, support %d, rainbow %d",
		t, opt.FailureChance, opt.StatValue, opt.SupportCount, opt.RainbowCount)
	return opt
}

// trainFacility starts the chosen training: one tap selects, a second
// tap on the selected facility confirms.
func (b *Bot) trainFacility(ctx context.Context, t string) {
	if !b.clickIfVisible(ctx, assets.TrainingIcons[t]) {
		return
	}
	b.clickIfVisible(ctx, assets.TrainingIcons[t])
	b.Status("Career: training " + t)
}

// raceFlow enters the race list and runs a race to its results. For
// scheduled goal races the list is preselected; extra races pick the
// best grade on offer.
func (b *Bot) raceFlow(ctx context.Context, scheduled bool) time.Duration {
	b.state = stateDetect
	if !b.clickIfVisible(ctx, assets.BtnRaces) {
		return constants.DetectScanInterval
	}
	engine.Sleep(ctx, constants.WaitAfterClickNormal)

	if !scheduled {
		if !b.pickListedRace(ctx) {
			b.Log("[Career] no eligible race listed, backing out")
			b.clickIfVisible(ctx, assets.BtnBack)
			return constants.DetectScanInterval
		}
	}

	res, err := b.actor.ActOnMatch(ctx, assets.BtnRace, engine.Patient, engine.Options{})
	if err != nil || !res.Found {
		return constants.DetectScanInterval
	}
	engine.Sleep(ctx, constants.WaitAfterClickNormal)
	b.skipRace(ctx)
	return constants.DetectScanInterval
}

// pickListedRace clicks the best allowed grade badge in the race list.
func (b *Bot) pickListedRace(ctx context.Context) bool {
	rs := b.store.Settings().Racing
	list := engine.Options{Region: b.regions.RaceList.Rect()}
	for _, g := range []string{"G1", "G2", "G3"} {
		if !gradeAllowed(g, rs) {
			continue
		}
		res, err := b.actor.ActOnMatch(ctx, assets.GradeIcons[g], engine.Quick, list)
		if err == nil && res.Found {
			b.Log("[Career] entering a %s race", g)
			engine.Sleep(ctx, constants.WaitAfterClickQuick)
			return true
		}
	}
	return false
}

// skipRace confirms the race, waits out the simulation and mashes
// through the result screens.
func (b *Bot) skipRace(ctx context.Context) {
	// Second confirmation on the strategy screen, when present.
	b.clickIfVisible(ctx, assets.BtnRace)

	racePol := engine.Policy{Attempts: constants.MaxLobbyAttempts, Interval: constants.RaceScanInterval}
	res, err := b.actor.ActOnMatch(ctx, assets.BtnViewResults, racePol, engine.Options{})
	if err != nil || !res.Found {
		b.Debug("[Career] results button never showed")
		return
	}
	engine.Sleep(ctx, constants.WaitAfterClickNormal)
	b.pointer.TripleClick(assets.ResultSkipPoint.X, assets.ResultSkipPoint.Y)
	// The detect loop pumps the remaining trophy and next screens.
}

// eventTypeOnScreen checks the event header for one of the three
// event markers.
func (b *Bot) eventTypeOnScreen() (string, bool) {
	header := engine.Options{Region: b.regions.EventType.Rect()}
	for _, et := range []struct{ kind, icon string }{
		{"support", assets.IconEventSupport},
		{"uma", assets.IconEventUma},
		{"scenario", assets.IconEventScenario},
	} {
		if b.actor.Exists(et.icon, header) {
			return et.kind, true
		}
	}
	return "", false
}

// handleEvent answers the event on screen, by map lookup or by the
// first-choice fallback depending on the settings.
func (b *Bot) handleEvent(ctx context.Context, kind string) {
	settings := b.store.Settings()
	ec := settings.EventChoice

	choice := 1
	name := ""

	switch {
	case ec.AutoEventMap:
		known := false
		if b.reader != nil {
			name = b.readEventName()
			if rule, matched, ok := b.events.Find(name); ok {
				choice = rule.Evaluate(b.eventContext(ec))
				known = true
				if matched != name {
					b.Debug("[Career] event %q matched map entry %q", name, matched)
				}
			}
		}
		if !known {
			if settings.UnknownEventAction != "first" {
				if !b.unknownLogged[name] {
					b.unknownLogged[name] = true
					b.dumpScreen("unknown_event")
					b.Log("[Career] unknown %s event %q, waiting for manual choice", kind, name)
				}
				return
			}
			choice = 1
		}
	case ec.AutoFirstChoice:
		choice = 1
	default:
		return // events are manual
	}

	// Walk down from the wanted row: "bottom" rules start past the
	// shorter choice lists.
	for n := choice; n >= 1; n-- {
		res, err := b.actor.ActOnMatch(ctx, assets.EventChoiceIcon(n), engine.Quick, engine.Options{})
		if err == nil && res.Found {
			if name != "" {
				b.Log("[Career] event %q: choice %d", name, n)
			} else {
				b.Log("[Career] %s event: choice %d", kind, n)
			}
			return
		}
	}
	b.Debug("[Career] event visible but no choice marker clickable yet")
}

// readEventName OCRs the event title row.
func (b *Bot) readEventName() string {
	capture, err := b.vision.Capture(b.regions.EventName.Rect())
	if err != nil {
		return ""
	}
	text, err := b.reader.Line(capture)
	if err != nil {
		return ""
	}
	return text
}

// eventContext reads the run state conditional rules test against.
func (b *Bot) eventContext(ec config.EventChoiceSettings) EventContext {
	out := EventContext{Uma: ec.UmaMusume, Energy: 100}
	capture, err := b.vision.Capture(image.Rectangle{})
	if err != nil {
		return out
	}
	out.Energy = EnergyPercent(capture, b.regions.EnergyBar)
	if b.reader != nil {
		if text, err := b.reader.Line(cropRGBA(capture, b.regions.Mood.Rect())); err == nil {
			if mood, err := ParseMood(text); err == nil {
				out.Mood = mood
			}
		}
	}
	return out
}

// clickIfVisible is the one-attempt click used by the UI pump. Every
// hit feeds the stall guard.
func (b *Bot) clickIfVisible(ctx context.Context, target string) bool {
	return b.clickIfVisibleAt(ctx, target, 0)
}

func (b *Bot) clickIfVisibleAt(ctx context.Context, target string, threshold float64) bool {
	res, err := b.actor.ActOnMatch(ctx, target, engine.Quick, engine.Options{Threshold: threshold})
	if err != nil || !res.Found {
		return false
	}
	b.guard.Record(target, res.Box.Center())
	engine.Sleep(ctx, constants.WaitAfterClickQuick)
	return true
}

// dumpScreen saves the current capture for postmortems when debug
// dumps are enabled.
func (b *Bot) dumpScreen(tag string) {
	if !b.debugDump {
		return
	}
	capture, err := b.vision.Capture(image.Rectangle{})
	if err != nil {
		return
	}
	if err := os.MkdirAll(constants.DebugDumpDir, 0o755); err != nil {
		return
	}
	name := fmt.Sprintf("%s_%s_%s.png", b.runID, tag, time.Now().Format("150405"))
	f, err := os.Create(filepath.Join(constants.DebugDumpDir, name))
	if err != nil {
		return
	}
	defer f.Close()
	if err := png.Encode(f, capture); err == nil {
		b.Debug("[Career] dumped %s", name)
	}
}

// cropRGBA clips a full-display capture to a region. Out-of-bounds
// regions yield nil, which the OCR reader rejects cleanly.
func cropRGBA(img *image.RGBA, r image.Rectangle) image.Image {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil
	}
	return img.SubImage(r)
}
