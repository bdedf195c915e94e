package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Countdown"
	AppID          = "com.github.tartampluch.go-countdown"
	KeyringService = "com.github.tartampluch.go-countdown"
	AutostartName  = "go-countdown"
	LogFileName    = "app.log"
	ExportFileName = "countdown.ics"
	ExtICS         = ".ics"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags, Environment & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion       = "version"
	FlagDebug         = "debug"
	FlagUnlockAll     = "unlock-all"
	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescUnlockAll = "Preview mode: unlock every card and the final surprise regardless of the date"
	MsgVersionOutput  = "%s version %s (%s/%s)\n"

	// EnvUnlockAll enables the preview override without a flag (e.g. from a launcher).
	EnvUnlockAll = "GO_COUNTDOWN_UNLOCK_ALL"
)

// -----------------------------------------------------------------------------
// Preferences
// -----------------------------------------------------------------------------

const (
	PrefStartDate       = "start_date"
	PrefEndDate         = "end_date"
	PrefAnniversaryDate = "anniversary_date"
	PrefTotalSteps      = "total_steps"
	PrefLanguage        = "language"
	PrefAutostart       = "autostart"
	PrefLastRun         = "last_run_version"

	// KeyringSurpriseUser is the keyring account holding the final surprise message.
	// The message lives in the keyring so that it cannot be read from the
	// preferences file before the reveal.
	KeyringSurpriseUser = "surprise"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Schedule Defaults & Limits
// -----------------------------------------------------------------------------

const (
	// Dates are interpreted in the local time zone.
	DefaultStartDate       = "2026-02-02T00:00:00"
	DefaultEndDate         = "2026-02-14T00:00:00"
	DefaultAnniversaryDate = "2026-02-11T00:00:00"
	DefaultTotalSteps      = 12
	DefaultLanguage        = "en"

	MinTotalSteps = 1
	MaxTotalSteps = 31

	// DateLayoutStored is the layout used to persist dates in preferences.
	DateLayoutStored = "2006-01-02T15:04:05"
	// DateLayoutInput is the layout accepted in the settings form.
	DateLayoutInput = "2006-01-02 15:04"
	// DateLayoutDisplay is the fallback layout for dates shown on cards.
	DateLayoutDisplay = "Jan 2"
)

// -----------------------------------------------------------------------------
// Scheduler Cadences & Thresholds
// -----------------------------------------------------------------------------

const (
	// UnlockStep is the fixed length of one unlock step. Steps are computed from
	// elapsed durations, not calendar fields, so DST shifts do not move them.
	UnlockStep = 24 * time.Hour

	// UrgencyWindow is how close to the target the countdown turns urgent.
	UrgencyWindow = 24 * time.Hour

	CountdownInterval = 1 * time.Second
	CardsInterval     = 1 * time.Minute
	UrgencyInterval   = 1 * time.Hour

	CycleCountdown = "countdown"
	CycleCards     = "cards"
	CycleUrgency   = "urgency"
)

// Countdown display slot names.
const (
	SlotDays    = "days"
	SlotHours   = "hours"
	SlotMinutes = "minutes"
	SlotSeconds = "seconds"
)

// CountdownSlots lists the slots in display order.
var CountdownSlots = []string{SlotDays, SlotHours, SlotMinutes, SlotSeconds}

// -----------------------------------------------------------------------------
// Effects
// -----------------------------------------------------------------------------

const (
	ConfettiCount       = 50
	ConfettiMaxDelay    = 3 * time.Second
	ConfettiMinFall     = 3 * time.Second
	ConfettiFallSpread  = 2 * time.Second
	ConfettiWidth       = 8
	ConfettiHeight      = 12
	SparkleCount        = 5
	SparkleMaxDelay     = 500 * time.Millisecond
	SparkleLifetime     = 1 * time.Second
	SparkleGlyph        = "✦"
	CardFadeStagger     = 100 * time.Millisecond
	CardFadeDuration    = 600 * time.Millisecond
	ChimeSampleRate     = 44100
	ChimeNoteDuration   = 180 * time.Millisecond
	ChimeAmplitude      = 0.35
	ChimeFirstNoteHz    = 880.0
	ChimeSecondNoteHz   = 1318.5
	ChimeChannelCount   = 1
	ChimeBytesPerSample = 2
)

// ConfettiPalette holds the RGB values of the confetti colors.
var ConfettiPalette = []uint32{0xff6b9d, 0xffa5c3, 0xff69b4, 0xffd700, 0xff1493}

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 720
	MainWindowHeight    = 640
	SettingsWindowWidth = 520
	CardColumns         = 4
	DigitTextSize       = 42
	HeadlineTextSize    = 22
	LayoutColumnsDouble = 2
	StepsMaxDigits      = 2
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle        = "win_title"
	TKeyWinSettings     = "win_settings_title"
	TKeyHeadline        = "headline"
	TKeyUnitDays        = "unit_days"    // Plural, requires Count
	TKeyUnitHours       = "unit_hours"   // Plural, requires Count
	TKeyUnitMinutes     = "unit_minutes" // Plural, requires Count
	TKeyUnitSeconds     = "unit_seconds" // Plural, requires Count
	TKeyUrgentBanner    = "urgent_banner"
	TKeyCardTitle       = "card_title"        // Requires Step
	TKeyCardLocked      = "card_locked"       // Requires Date
	TKeyCardBack        = "card_back"         // Shown on a flipped card
	TKeyCardBodyDefault = "card_body_default" // Requires Step
	TKeyRevealTitle     = "reveal_title"
	TKeyRevealLocked    = "reveal_locked" // Requires Date
	TKeyRevealDefault   = "reveal_default"
	TKeyMenuShow        = "menu_show"
	TKeyMenuExport      = "menu_export"
	TKeyMenuSettings    = "menu_settings"
	TKeyBtnExport       = "btn_export"
	TKeyBtnSave         = "btn_save"
	TKeyBtnCancel       = "btn_cancel"
	TKeyLblSchedule     = "lbl_schedule"
	TKeyLblStart        = "lbl_start"
	TKeyLblEnd          = "lbl_end"
	TKeyLblAnniversary  = "lbl_anniversary"
	TKeyLblSteps        = "lbl_steps"
	TKeyHelpDate        = "help_date"
	TKeyHelpSteps       = "help_steps"
	TKeyLblGeneral      = "lbl_general"
	TKeyLblLanguage     = "lbl_language"
	TKeyLblAutostart    = "lbl_autostart"
	TKeyLblSurprise     = "lbl_surprise"
	TKeyHelpSurprise    = "help_surprise"
	TKeyLblFooter       = "lbl_footer" // Requires Version
	TKeyNotifExportOK   = "notif_export_ok"
	TKeyNotifExportErr  = "notif_export_err"
	TKeyEvtStep         = "event_step" // Requires Step
	TKeyEvtAnniversary  = "event_anniversary"
	TKeyEvtFinale       = "event_finale"
	TKeyFormatDate      = "format_date_short"

	// Validation Errors (UI)
	TKeyErrDateFormat = "err_date_format"
	TKeyErrStepsRange = "err_steps_range"

	// FormatCardBodyKey builds the per-step message key (card_body_1, card_body_2...).
	FormatCardBodyKey = "card_body_%d"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Countdown//Engine//EN"
	ICalCalName   = "Countdown"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocountdown"

	// ICalUrgencyTrigger fires the finale alarm when the urgency window opens.
	ICalUrgencyTrigger = "-P1D"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	// Event UIDs are name-based UUIDs of "<start>/<name>", so re-exporting the
	// same schedule updates events in place and different schedules never clash.
	FormatUID      = "%s@%s"
	FormatUIDSeed  = "%s/%s"
	FormatUIDStep  = "step-%d"
	UIDAnniversary = "anniversary"
	UIDFinale      = "finale"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrDateParse        = "unable to parse date"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrExportWrite      = "failed to write calendar export"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrAutostartExec    = "could not resolve executable path"
	ErrAutostartEnable  = "failed to enable autostart"
	ErrAutostartDisable = "failed to disable autostart"
	ErrAutostartUpdate  = "failed to update autostart"
	ErrKeyringSave      = "failed to save surprise to keyring"
	ErrAudioContext     = "failed to initialize audio context"
	ErrAudioClose       = "failed to close audio player"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackCardTitle = "Day %d"
	FallbackName      = "Countdown"

	MsgAppStarting      = "Starting application"
	MsgAppStop          = "Application stopped gracefully"
	MsgCtxCancel        = "Context cancelled, shutting down UI"
	MsgLogWarning       = "Warning: %s at %s: %v\n"
	MsgUnlockAll        = "Preview override enabled: every card and the surprise are unlocked"
	MsgSchedulerStart   = "Reveal scheduler started"
	MsgSchedulerStop    = "Reveal scheduler stopping due to context cancellation"
	MsgSchedulerRebuild = "Rebuilding reveal scheduler"
	MsgScheduleLoaded   = "Schedule loaded"
	MsgCycleStart       = "Repeating cycle started"
	MsgFinaleRevealed   = "Final surprise revealed"
	MsgPrefFallback     = "Invalid preference value, using default"
	MsgLocaleSkip       = "Skipping non-locale file"
	MsgLocaleBadName    = "Skipping malformed locale filename"
	MsgLocaleLoaded     = "Locale loaded successfully"
	MsgTransMissing     = "Missing translation key"
	MsgSurpriseMissing  = "No surprise message in keyring (using default)"
	MsgExportDone       = "Calendar exported"
	MsgAutostartOn      = "Autostart enabled"
	MsgAutostartOff     = "Autostart disabled"
	MsgAudioReady       = "Audio context initialized"
	MsgSettingsOpen     = "Opening settings window"
	MsgSettingsFocus    = "Settings window already open, requesting focus"
	MsgSettingsSave     = "Saving preferences"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyValue     = "value"
	LogKeyCycle     = "cycle"
	LogKeyInterval  = "interval"
	LogKeyStep      = "current_step"
	LogKeySteps     = "total_steps"
	LogKeyStart     = "start"
	LogKeyEnd       = "end"
	LogKeyAnniv     = "anniversary"
	LogKeyUnlockAll = "unlock_all"
	LogKeySizeBytes = "size_bytes"
	LogKeyEnabled   = "enabled"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompScheduler = "scheduler"
	CompEngine    = "engine"
	CompEffects   = "effects"
	CompSystem    = "system"
	CompMain      = "main"
	CompI18n      = "i18n"
)
