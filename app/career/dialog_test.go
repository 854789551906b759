package career

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ConserveLee/uma-auto/internal/config"
)

func testCatalogs() EventChoiceCatalogs {
	return EventChoiceCatalogs{
		UmaMusume:    []string{"Special Week", "Oguri Cap"},
		SupportCards: []string{"Kitasan Black", "Super Creek"},
	}
}

func TestEventChoiceFormExclusion(t *testing.T) {
	_ = test.NewApp()

	snap := config.EventChoiceSettings{AutoEventMap: true}
	f := newEventChoiceForm(snap, testCatalogs())
	if !f.autoMap.Checked || f.autoFirst.Checked {
		t.Fatalf("seed state = map %v first %v", f.autoMap.Checked, f.autoFirst.Checked)
	}

	f.autoFirst.SetChecked(true)
	if f.autoMap.Checked {
		t.Error("enabling first-choice left the event map on")
	}

	f.autoMap.SetChecked(true)
	if f.autoFirst.Checked {
		t.Error("enabling the event map left first-choice on")
	}

	out := f.snapshot()
	if out.AutoEventMap && out.AutoFirstChoice {
		t.Error("snapshot carries both answer modes")
	}
}

func TestEventChoiceFormHealsDoubleToggle(t *testing.T) {
	_ = test.NewApp()

	// A hand-edited settings file can carry both toggles; seeding must
	// leave only one on.
	snap := config.EventChoiceSettings{AutoEventMap: true, AutoFirstChoice: true}
	f := newEventChoiceForm(snap, testCatalogs())
	if f.autoMap.Checked && f.autoFirst.Checked {
		t.Error("both answer modes survived seeding")
	}
}

func TestEventChoiceFormSnapshotRoundTrip(t *testing.T) {
	_ = test.NewApp()

	snap := config.EventChoiceSettings{
		AutoEventMap: true,
		UmaMusume:    "Special Week",
		SupportCards: [6]string{"Kitasan Black", "None", "Super Creek", "None", "None", "None"},
	}
	f := newEventChoiceForm(snap, testCatalogs())

	out := f.snapshot()
	if out.UmaMusume != "Special Week" {
		t.Errorf("UmaMusume = %q", out.UmaMusume)
	}
	if out.SupportCards != snap.SupportCards {
		t.Errorf("SupportCards = %v, want %v", out.SupportCards, snap.SupportCards)
	}
	if !out.AutoEventMap || out.AutoFirstChoice {
		t.Errorf("toggles = %+v", out)
	}
}

func TestEventChoiceFormUnknownEntriesReadAsNone(t *testing.T) {
	_ = test.NewApp()

	// Entries whose definition file has since been deleted are not in
	// the catalog; the picklist cannot show them and the snapshot
	// falls back to "None".
	snap := config.EventChoiceSettings{
		UmaMusume:    "Ghost Trainee",
		SupportCards: [6]string{"Ghost Card", "None", "None", "None", "None", "None"},
	}
	f := newEventChoiceForm(snap, testCatalogs())

	out := f.snapshot()
	if out.UmaMusume != "None" {
		t.Errorf("UmaMusume = %q, want None", out.UmaMusume)
	}
	if out.SupportCards[0] != "None" {
		t.Errorf("SupportCards[0] = %q, want None", out.SupportCards[0])
	}
}

func TestWithNone(t *testing.T) {
	got := withNone([]string{"a", "b"})
	if len(got) != 3 || got[0] != "None" || got[1] != "a" {
		t.Errorf("withNone = %v", got)
	}
	if got := withNone(nil); len(got) != 1 || got[0] != "None" {
		t.Errorf("withNone(nil) = %v", got)
	}
}
