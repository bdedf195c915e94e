package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/engine"
	"github.com/zalando/go-keyring"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	startEntry    *widget.Entry
	endEntry      *widget.Entry
	annivEntry    *widget.Entry
	stepsEntry    *NumericalEntry
	langSelect    *widget.Select
	checkAutorun  *widget.Check
	surpriseEntry *widget.Entry
}

// ShowSettingsWindow displays the configuration dialog allowing users to manage settings.
func (app *CountdownApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	// --- 1. Schedule ---
	itemStart := widget.NewFormItem(app.GetMsg(config.TKeyLblStart), sw.startEntry)
	itemStart.HintText = app.GetMsg(config.TKeyHelpDate)
	itemEnd := widget.NewFormItem(app.GetMsg(config.TKeyLblEnd), sw.endEntry)
	itemAnniv := widget.NewFormItem(app.GetMsg(config.TKeyLblAnniversary), sw.annivEntry)
	itemSteps := widget.NewFormItem(app.GetMsg(config.TKeyLblSteps), sw.stepsEntry)
	itemSteps.HintText = app.GetMsg(config.TKeyHelpSteps)

	scheduleCard := widget.NewCard(app.GetMsg(config.TKeyLblSchedule), "",
		widget.NewForm(itemStart, itemEnd, itemAnniv, itemSteps))

	// --- 2. General ---
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemSurprise := widget.NewFormItem(app.GetMsg(config.TKeyLblSurprise), sw.surpriseEntry)
	itemSurprise.HintText = app.GetMsg(config.TKeyHelpSurprise)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "",
		container.NewVBox(widget.NewForm(itemLang, itemSurprise), sw.checkAutorun))

	// --- Actions ---
	saveAction := func() {
		if err := sw.validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	// --- Footer ---
	footerLabel := widget.NewLabel(app.GetTemplate(config.TKeyLblFooter, map[string]interface{}{"Version": config.Version}))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		scheduleCard,
		generalCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(paddedContent)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, paddedContent.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })
	w.Show()
}

// newSettingsWidgets creates the form controls pre-filled from the current settings.
func (app *CountdownApp) newSettingsWidgets() *settingsWidgets {
	s := app.currentSchedule()
	sw := &settingsWidgets{}

	dateValidator := func(v string) error {
		if _, err := time.ParseInLocation(config.DateLayoutInput, v, app.location()); err != nil {
			return errors.New(app.GetMsg(config.TKeyErrDateFormat))
		}
		return nil
	}
	newDateEntry := func(t time.Time) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(t.Format(config.DateLayoutInput))
		e.PlaceHolder = config.DateLayoutInput
		e.Validator = dateValidator
		return e
	}
	sw.startEntry = newDateEntry(s.Start)
	sw.endEntry = newDateEntry(s.End)
	sw.annivEntry = newDateEntry(s.Anniversary)

	sw.stepsEntry = NewNumericalEntry()
	sw.stepsEntry.MaxLen = config.StepsMaxDigits
	sw.stepsEntry.SetText(strconv.Itoa(s.TotalSteps))
	sw.stepsEntry.Validator = func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < config.MinTotalSteps || n > config.MaxTotalSteps {
			return errors.New(app.GetMsg(config.TKeyErrStepsRange))
		}
		return nil
	}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	sw.checkAutorun = widget.NewCheck(app.GetMsg(config.TKeyLblAutostart), nil)
	sw.checkAutorun.Checked = app.Preferences.Bool(config.PrefAutostart)

	sw.surpriseEntry = widget.NewMultiLineEntry()
	sw.surpriseEntry.Wrapping = fyne.TextWrapWord
	if msg, err := keyring.Get(config.KeyringService, config.KeyringSurpriseUser); err == nil {
		sw.surpriseEntry.SetText(msg)
	}

	return sw
}

// validate checks every constrained field and returns the first failure.
func (sw *settingsWidgets) validate() error {
	for _, v := range []fyne.Validatable{sw.startEntry, sw.endEntry, sw.annivEntry, sw.stepsEntry} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// saveSettings persists validated values and rebuilds the scheduler.
func (app *CountdownApp) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSettingsSave, config.LogKeyComponent, config.CompUISet)

	for key, entry := range map[string]*widget.Entry{
		config.PrefStartDate:       sw.startEntry,
		config.PrefEndDate:         sw.endEntry,
		config.PrefAnniversaryDate: sw.annivEntry,
	} {
		t, err := engine.ParseMoment(entry.Text, app.location())
		if err != nil {
			continue // Rejected by validate
		}
		app.Preferences.SetString(key, t.Format(config.DateLayoutStored))
	}

	if n, err := strconv.Atoi(sw.stepsEntry.Text); err == nil {
		app.Preferences.SetInt(config.PrefTotalSteps, n)
	}

	if sw.langSelect.Selected != "" {
		app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	}

	// Surprise message lives in the keyring so it cannot be read from the preferences file.
	if err := app.saveSurprise(sw.surpriseEntry.Text); err != nil {
		slog.Error(config.ErrKeyringSave, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		app.showError(err)
	}

	enable := sw.checkAutorun.Checked
	if app.Autostart != nil {
		if err := app.Autostart(enable); err != nil {
			slog.Error(config.ErrAutostartUpdate,
				config.LogKeyComponent, config.CompUISet,
				config.LogKeyEnabled, enable,
				config.LogKeyError, err)
			app.showError(err)
		} else {
			app.Preferences.SetBool(config.PrefAutostart, enable)
		}
	}

	// Trigger system-wide updates
	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	if app.Window != nil {
		app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
	}
	app.startScheduler()
}

// saveSurprise stores the message, or removes it when empty.
func (app *CountdownApp) saveSurprise(msg string) error {
	if msg == "" {
		err := keyring.Delete(config.KeyringService, config.KeyringSurpriseUser)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%s: %w", config.ErrKeyringSave, err)
		}
		return nil
	}
	if err := keyring.Set(config.KeyringService, config.KeyringSurpriseUser, msg); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringSave, err)
	}
	return nil
}

// showError reports a non-fatal failure in the main window, when there is one.
func (app *CountdownApp) showError(err error) {
	if app.Window == nil {
		return
	}
	dialog.ShowError(err, app.Window)
}
