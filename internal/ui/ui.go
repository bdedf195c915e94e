package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/effects"
	"github.com/tartampluch/go-countdown/internal/engine"
	"github.com/tartampluch/go-countdown/internal/system"
	"github.com/zalando/go-keyring"
)

// CountdownApp encapsulates the UI state, preferences, and the reveal scheduler.
type CountdownApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Clock     engine.Clock      // Injected clock for testability (e.g. mocking time travel)
	NewTicker engine.TickerFunc // Injected ticker factory for the scheduler cycles
	Location  *time.Location    // Zone used to read the stored dates
	UnlockAll bool              // Preview override, never persisted

	Chime     func()
	Autostart func(enable bool) error

	Tray desktop.App
	Menu *fyne.Menu

	TrayShowItem     *fyne.MenuItem
	TrayExportItem   *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string

	// Scheduler State
	schedMu        sync.Mutex
	schedule       engine.Schedule
	scheduler      *engine.Scheduler
	display        *Display
	stopSched      context.CancelFunc
	settingsWindow fyne.Window
}

// NewCountdownApp constructs the application and wires dependencies.
func NewCountdownApp(a fyne.App, ctx context.Context, unlockAll bool) *CountdownApp {
	a.SetIcon(theme.HistoryIcon())

	return &CountdownApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Clock:              engine.RealClock{}, // Default to real clock in production
		NewTicker:          engine.NewRealTicker,
		Location:           time.Local,
		UnlockAll:          unlockAll,
		Chime:              effects.PlayChime,
		Autostart:          system.SetAutostart,
		SupportedLanguages: config.SupportedLanguages,
	}
}

// Run builds the main window and blocks in the Fyne event loop. The scheduler
// starts once the window exists.
func (app *CountdownApp) Run() {
	app.SetupI18n()
	app.setupMainWindow()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
		app.Window.SetCloseIntercept(app.Window.Hide)
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.App.Lifecycle().SetOnStarted(app.startScheduler)
	app.Window.Show()
	app.App.Run()
}

// setupMainWindow creates the window that hosts the display.
func (app *CountdownApp) setupMainWindow() {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	w.SetMaster()
	app.Window = w
}

// setupTrayMenu constructs the system tray menu.
func (app *CountdownApp) setupTrayMenu() {
	app.TrayShowItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuShow), func() {
		if app.Window != nil {
			app.Window.Show()
			app.Window.RequestFocus()
		}
	})

	app.TrayExportItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuExport), func() {
		app.ShowExportDialog()
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayShowItem,
		fyne.NewMenuItemSeparator(),
		app.TrayExportItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *CountdownApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayShowItem.Label = app.GetMsg(config.TKeyMenuShow)
	app.TrayExportItem.Label = app.GetMsg(config.TKeyMenuExport)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// startScheduler (re)builds the display from the stored schedule and runs a
// fresh scheduler against it. Any previous scheduler is stopped first.
func (app *CountdownApp) startScheduler() {
	app.schedMu.Lock()
	defer app.schedMu.Unlock()

	if app.stopSched != nil {
		slog.Info(config.MsgSchedulerRebuild, config.LogKeyComponent, config.CompUI)
		app.stopSched()
	}

	s := app.loadSchedule()
	slog.Debug(config.MsgScheduleLoaded,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyStart, s.Start,
		config.LogKeyEnd, s.End,
		config.LogKeyAnniv, s.Anniversary,
		config.LogKeySteps, s.TotalSteps)
	if s.UnlockAll {
		slog.Warn(config.MsgUnlockAll, config.LogKeyComponent, config.CompUI)
	}

	display := app.buildDisplay(s)
	display.Chime = app.Chime
	if app.Window != nil {
		app.Window.SetContent(display.Content())
	}
	display.FadeInCards()

	sched := engine.NewScheduler(s, display)
	sched.Clock = app.Clock
	sched.NewTicker = app.NewTicker
	sched.Celebrate = display.Celebrate

	ctx, cancel := context.WithCancel(app.Ctx)
	app.schedule = s
	app.display = display
	app.scheduler = sched
	app.stopSched = cancel

	go sched.Run(ctx)
}

// currentSchedule returns the schedule the running scheduler was built with,
// or the stored one when nothing runs yet.
func (app *CountdownApp) currentSchedule() engine.Schedule {
	app.schedMu.Lock()
	defer app.schedMu.Unlock()
	if app.scheduler == nil {
		return app.loadSchedule()
	}
	return app.schedule
}

// loadSchedule assembles the schedule from preferences. Unreadable values
// fall back to the defaults.
func (app *CountdownApp) loadSchedule() engine.Schedule {
	loc := app.location()
	def := engine.DefaultSchedule(loc)

	s := engine.Schedule{
		Start:       app.prefMoment(config.PrefStartDate, def.Start, loc),
		End:         app.prefMoment(config.PrefEndDate, def.End, loc),
		Anniversary: app.prefMoment(config.PrefAnniversaryDate, def.Anniversary, loc),
		TotalSteps:  app.Preferences.IntWithFallback(config.PrefTotalSteps, config.DefaultTotalSteps),
		UnlockAll:   app.UnlockAll,
	}

	if s.TotalSteps < config.MinTotalSteps || s.TotalSteps > config.MaxTotalSteps {
		slog.Warn(config.MsgPrefFallback,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyKey, config.PrefTotalSteps,
			config.LogKeyValue, s.TotalSteps)
		s.TotalSteps = config.DefaultTotalSteps
	}

	return s
}

func (app *CountdownApp) location() *time.Location {
	if app.Location == nil {
		return time.Local
	}
	return app.Location
}

func (app *CountdownApp) prefMoment(key string, fallback time.Time, loc *time.Location) time.Time {
	raw := app.Preferences.String(key)
	if raw == "" {
		return fallback
	}
	t, err := engine.ParseMoment(raw, loc)
	if err != nil {
		slog.Warn(config.MsgPrefFallback,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyKey, key,
			config.LogKeyValue, raw,
			config.LogKeyError, err)
		return fallback
	}
	return t
}

// buildDisplay creates the localized cards and panels for a schedule.
func (app *CountdownApp) buildDisplay(s engine.Schedule) *Display {
	cardSteps := engine.NewCards(s.TotalSteps)
	cards := make([]*LoveCard, 0, len(cardSteps))
	for _, c := range cardSteps {
		cards = append(cards, NewLoveCard(
			c.Step,
			app.cardTitle(c.Step),
			app.cardBody(c.Step),
			app.GetTemplate(config.TKeyCardLocked, map[string]interface{}{"Date": app.formatDate(engine.StepDate(s, c.Step))}),
			app.GetMsg(config.TKeyCardBack),
		))
	}

	lockedLabel := widget.NewLabel(app.GetTemplate(config.TKeyRevealLocked,
		map[string]interface{}{"Date": app.formatDate(s.Anniversary)}))
	lockedLabel.Alignment = fyne.TextAlignCenter
	lockedLabel.Wrapping = fyne.TextWrapWord

	surprise := widget.NewLabel(app.loadSurprise())
	surprise.Alignment = fyne.TextAlignCenter
	surprise.Wrapping = fyne.TextWrapWord

	exportBtn := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnExport), theme.DocumentSaveIcon(), app.ShowExportDialog)

	parts := DisplayParts{
		Headline:     app.GetMsg(config.TKeyHeadline),
		Banner:       app.GetMsg(config.TKeyUrgentBanner),
		Cards:        cards,
		LockedPanel:  widget.NewCard(app.GetMsg(config.TKeyRevealTitle), "", lockedLabel),
		ContentPanel: widget.NewCard(app.GetMsg(config.TKeyRevealTitle), "", surprise),
		Footer:       container.NewCenter(exportBtn),
	}
	return NewDisplay(parts, app.GetPlural)
}

func (app *CountdownApp) cardTitle(step int) string {
	title := app.GetTemplate(config.TKeyCardTitle, map[string]interface{}{"Step": step})
	if title == config.TKeyCardTitle {
		return fmt.Sprintf(config.FallbackCardTitle, step)
	}
	return title
}

// cardBody prefers the per-day message and falls back to the generic one.
func (app *CountdownApp) cardBody(step int) string {
	key := fmt.Sprintf(config.FormatCardBodyKey, step)
	if app.HasMsg(key) {
		return app.GetMsg(key)
	}
	return app.GetTemplate(config.TKeyCardBodyDefault, map[string]interface{}{"Step": step})
}

// formatDate renders a date with the localized short layout.
func (app *CountdownApp) formatDate(t time.Time) string {
	layout := app.GetMsg(config.TKeyFormatDate)
	if layout == config.TKeyFormatDate {
		layout = config.DateLayoutDisplay
	}
	return t.Format(layout)
}

// loadSurprise reads the final message from the keyring.
func (app *CountdownApp) loadSurprise() string {
	msg, err := keyring.Get(config.KeyringService, config.KeyringSurpriseUser)
	if err != nil || msg == "" {
		slog.Debug(config.MsgSurpriseMissing,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		return app.GetMsg(config.TKeyRevealDefault)
	}
	return msg
}

// exportCalendar writes the current schedule as an iCalendar feed.
func (app *CountdownApp) exportCalendar(w io.Writer) error {
	s := app.currentSchedule()
	data, err := engine.BuildCalendar(s, app.Clock.Now(), engine.CalendarLabels{
		Step: func(step int) string {
			return app.GetTemplate(config.TKeyEvtStep, map[string]interface{}{"Step": step})
		},
		Anniversary: app.GetMsg(config.TKeyEvtAnniversary),
		Finale:      app.GetMsg(config.TKeyEvtFinale),
	})
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%s: %w", config.ErrExportWrite, err)
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompUI,
		config.LogKeySizeBytes, len(data))
	return nil
}

// ShowExportDialog asks for a destination and saves the calendar there.
func (app *CountdownApp) ShowExportDialog() {
	if app.Window == nil {
		return
	}
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, app.Window)
			return
		}
		if wc == nil {
			return // Cancelled
		}

		err = app.exportCalendar(wc)
		err = errors.Join(err, wc.Close())
		if err != nil {
			slog.Error(config.ErrExportWrite,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyError, err)
			dialog.ShowError(errors.New(app.GetMsg(config.TKeyNotifExportErr)), app.Window)
			return
		}

		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifExportOK)))
	}, app.Window)

	d.SetFileName(config.ExportFileName)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtICS}))
	d.Show()
}
