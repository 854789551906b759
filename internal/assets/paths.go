// Package assets holds the static tables tying logical game elements to
// template files and screen geometry, and the auditor that verifies the
// asset tree before a bot run.
package assets

import "fmt"

// Directory layout under the working directory.
const (
	Dir            = "assets"
	ButtonsDir     = Dir + "/buttons"
	IconsDir       = Dir + "/icons"
	UIDir          = Dir + "/ui"
	EventMapDir    = Dir + "/event_map"
	UmaMusumeDir   = EventMapDir + "/uma_musume"
	SupportCardDir = EventMapDir + "/support_card"

	CommonEventFile = EventMapDir + "/common.json"
	RaceListFile    = Dir + "/race_list.json"
)

// Buttons shared by every mode.
const (
	BtnNext   = ButtonsDir + "/next_btn.png"
	BtnNext2  = ButtonsDir + "/next2_btn.png"
	BtnCancel = ButtonsDir + "/cancel_btn.png"
	BtnNo     = ButtonsDir + "/no_btn.png"
	BtnBack   = ButtonsDir + "/back_btn.png"
)

// Career mode buttons and markers.
const (
	UITazunaHint   = UIDir + "/tazuna_hint.png"
	UIRaceWarning  = UIDir + "/race_warning.png"
	BtnInspiration = ButtonsDir + "/inspiration_btn.png"
	BtnInfirmary   = ButtonsDir + "/infirmary_btn.png"
	BtnTraining    = ButtonsDir + "/training_btn.png"
	BtnRest        = ButtonsDir + "/rest_btn.png"
	BtnRestSummer  = ButtonsDir + "/rest_summer_btn.png"
	BtnRecreation  = ButtonsDir + "/recreation_btn.png"
	BtnRaces       = ButtonsDir + "/races_btn.png"
	BtnRace        = ButtonsDir + "/race_btn.png"
	BtnViewResults = ButtonsDir + "/view_results.png"
	BtnTryAgain    = ButtonsDir + "/try_again_btn.png"
)

// Team trials buttons.
const (
	BtnRaceTab    = ButtonsDir + "/race_tab.png"
	BtnTeamTrial  = ButtonsDir + "/team_trial_btn.png"
	BtnTeamRace   = ButtonsDir + "/team_race_btn.png"
	BtnPvpGift    = ButtonsDir + "/pvp_win_gift.png"
	BtnParfait    = ButtonsDir + "/parfait.png"
	BtnSeeResult  = ButtonsDir + "/see_result.png"
	BtnRaceAgain  = ButtonsDir + "/race_again_btn.png"
	BtnTrialsShop = ButtonsDir + "/shop_btn.png"
)

// Event type markers shown in the event header.
const (
	IconEventSupport  = IconsDir + "/event_support.png"
	IconEventUma      = IconsDir + "/event_uma.png"
	IconEventScenario = IconsDir + "/event_scenario.png"
)

// TrainingIcons maps a training type to the button template on the
// training screen.
var TrainingIcons = map[string]string{
	"spd":  IconsDir + "/train_spd.png",
	"sta":  IconsDir + "/train_sta.png",
	"pwr":  IconsDir + "/train_pwr.png",
	"guts": IconsDir + "/train_guts.png",
	"wit":  IconsDir + "/train_wit.png",
}

// SupportIcons maps a support card type to the icon shown in the
// support column during training inspection.
var SupportIcons = map[string]string{
	"spd":    IconsDir + "/support_spd.png",
	"sta":    IconsDir + "/support_sta.png",
	"pwr":    IconsDir + "/support_pwr.png",
	"guts":   IconsDir + "/support_guts.png",
	"wit":    IconsDir + "/support_wit.png",
	"friend": IconsDir + "/support_friend.png",
}

// RainbowIcons are the glowing friendship-training variants of the
// support icons. Missing rainbow templates just cost scoring accuracy.
var RainbowIcons = map[string]string{
	"spd":  IconsDir + "/rainbow_spd.png",
	"sta":  IconsDir + "/rainbow_sta.png",
	"pwr":  IconsDir + "/rainbow_pwr.png",
	"guts": IconsDir + "/rainbow_guts.png",
	"wit":  IconsDir + "/rainbow_wit.png",
}

// IconSupportHint marks a support card with a skill hint ready.
const IconSupportHint = IconsDir + "/support_hint.png"

// NPCIcons are the non-support characters that can appear on trainings.
var NPCIcons = map[string]string{
	"akikawa": IconsDir + "/npc_akikawa.png",
	"etsuko":  IconsDir + "/npc_etsuko.png",
}

// GradeIcons mark race grades in the race list.
var GradeIcons = map[string]string{
	"G1": IconsDir + "/grade_g1.png",
	"G2": IconsDir + "/grade_g2.png",
	"G3": IconsDir + "/grade_g3.png",
}

// EventChoiceIcon returns the marker template for the nth event choice,
// 1-based. Out-of-range values are clamped to the valid rows.
func EventChoiceIcon(n int) string {
	if n < 1 {
		n = 1
	}
	if n > 5 {
		n = 5
	}
	return fmt.Sprintf("%s/event_choice_%d.png", IconsDir, n)
}

// TrainingTypes is the fixed inspection order on the training screen.
var TrainingTypes = []string{"spd", "sta", "pwr", "guts", "wit"}

// Required returns every template the bots cannot run without. The
// auditor checks this list; event maps and the race list are optional
// data that degrade separately.
func Required() []string {
	paths := []string{
		BtnNext, BtnNext2, BtnCancel, BtnNo, BtnBack,
		UITazunaHint,
		BtnInspiration, BtnInfirmary,
		BtnTraining, BtnRest, BtnRecreation, BtnRaces, BtnRace, BtnViewResults,
		BtnRaceTab, BtnTeamTrial, BtnTeamRace, BtnRaceAgain, BtnSeeResult,
		IconSupportHint,
	}
	for n := 1; n <= 5; n++ {
		paths = append(paths, EventChoiceIcon(n))
	}
	for _, p := range TrainingIcons {
		paths = append(paths, p)
	}
	for _, p := range SupportIcons {
		paths = append(paths, p)
	}
	return paths
}
