package career

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ConserveLee/uma-auto/internal/config"
)

// EventChoiceCatalogs are the picklist sources for the settings
// dialog, scanned by the opener right before the dialog shows. A
// failed scan just leaves "None" as the only option.
type EventChoiceCatalogs struct {
	UmaMusume    []string
	SupportCards []string
}

// eventChoiceForm owns the dialog controls. It is separate from the
// dialog shell so the exclusion and snapshot logic tests headless.
type eventChoiceForm struct {
	autoMap   *widget.Check
	autoFirst *widget.Check
	uma       *widget.Select
	supports  [6]*widget.Select
}

func newEventChoiceForm(snap config.EventChoiceSettings, cat EventChoiceCatalogs) *eventChoiceForm {
	f := &eventChoiceForm{}

	// The two answer modes cannot both be on. Whichever check the
	// user toggles on wins and forces the other off.
	f.autoMap = widget.NewCheck("Answer events from the event map", func(on bool) {
		if on {
			f.autoFirst.SetChecked(false)
		}
	})
	f.autoFirst = widget.NewCheck("Always pick the first choice", func(on bool) {
		if on {
			f.autoMap.SetChecked(false)
		}
	})

	f.uma = widget.NewSelect(withNone(cat.UmaMusume), nil)
	for i := range f.supports {
		f.supports[i] = widget.NewSelect(withNone(cat.SupportCards), nil)
	}

	// Seed after every control exists; the exclusion handlers fire
	// during seeding and must find their sibling.
	f.autoMap.SetChecked(snap.AutoEventMap)
	f.autoFirst.SetChecked(snap.AutoFirstChoice)
	f.uma.SetSelected(snap.UmaMusume)
	for i, s := range f.supports {
		s.SetSelected(snap.SupportCards[i])
	}
	return f
}

// snapshot assembles the settings value from the controls as they
// stand. Unselected picklists read as "None".
func (f *eventChoiceForm) snapshot() config.EventChoiceSettings {
	out := config.EventChoiceSettings{
		AutoEventMap:    f.autoMap.Checked,
		AutoFirstChoice: f.autoFirst.Checked,
		UmaMusume:       selectedOrNone(f.uma),
	}
	for i, s := range f.supports {
		out.SupportCards[i] = selectedOrNone(s)
	}
	return out
}

func (f *eventChoiceForm) layout() fyne.CanvasObject {
	grid := container.NewGridWithColumns(2)
	for _, s := range f.supports {
		grid.Add(s)
	}
	return container.NewVBox(
		f.autoMap,
		f.autoFirst,
		widget.NewSeparator(),
		widget.NewLabel("Uma Musume"),
		f.uma,
		widget.NewLabel("Support Cards"),
		grid,
	)
}

// ShowEventChoiceDialog opens the event choice settings over win. It
// receives a value snapshot and hands edits back only through onSave;
// it holds no reference to the opener. A save error shows a blocking
// error dialog and keeps the edits on screen for another try; Cancel
// or closing the dialog discards them.
func ShowEventChoiceDialog(win fyne.Window, snap config.EventChoiceSettings, cat EventChoiceCatalogs, onSave func(config.EventChoiceSettings) error) {
	form := newEventChoiceForm(snap, cat)

	var d dialog.Dialog
	save := widget.NewButton("Save", func() {
		if err := onSave(form.snapshot()); err != nil {
			dialog.ShowError(err, win)
			return
		}
		d.Hide()
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButton("Cancel", func() {
		d.Hide()
	})

	content := container.NewVBox(
		form.layout(),
		widget.NewSeparator(),
		container.NewGridWithColumns(2, cancel, save),
	)
	d = dialog.NewCustomWithoutButtons("Event Choice Settings", content, win)
	d.Resize(fyne.NewSize(420, 540))
	d.Show()
}

func withNone(entries []string) []string {
	return append([]string{"None"}, entries...)
}

func selectedOrNone(s *widget.Select) string {
	if s.Selected == "" {
		return "None"
	}
	return s.Selected
}
