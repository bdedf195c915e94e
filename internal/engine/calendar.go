package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-countdown/internal/config"
)

// CalendarLabels provides the (localized) event summaries for an export.
type CalendarLabels struct {
	Step        func(step int) string
	Anniversary string
	Finale      string
}

// BuildCalendar renders the schedule as an iCalendar feed: one event per
// unlock step, one for the anniversary reveal and one for the countdown target.
// The target event carries an alarm at the start of the urgency window.
func BuildCalendar(s Schedule, now time.Time, labels CalendarLabels) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())

	stepLabel := labels.Step
	if stepLabel == nil {
		stepLabel = func(step int) string { return fmt.Sprintf(config.FallbackCardTitle, step) }
	}

	for step := 1; step <= s.TotalSteps; step++ {
		uid := EventUID(s, fmt.Sprintf(config.FormatUIDStep, step))
		cal.Children = append(cal.Children, newEvent(uid, stepLabel(step), StepDate(s, step), dtStamp).Component)
	}

	anniv := newEvent(EventUID(s, config.UIDAnniversary),
		orFallback(labels.Anniversary), s.Anniversary, dtStamp)
	cal.Children = append(cal.Children, anniv.Component)

	finale := newEvent(EventUID(s, config.UIDFinale),
		orFallback(labels.Finale), s.End, dtStamp)
	addAlarm(finale, config.ICalUrgencyTrigger, orFallback(labels.Finale))
	cal.Children = append(cal.Children, finale.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgExportDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeySteps, s.TotalSteps,
		config.LogKeySizeBytes, buf.Len())
	return buf.Bytes(), nil
}

// EventUID derives a stable event UID from the schedule start and the event name.
func EventUID(s Schedule, name string) string {
	seed := fmt.Sprintf(config.FormatUIDSeed, s.Start.UTC().Format(time.RFC3339), name)
	return fmt.Sprintf(config.FormatUID, uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)), config.ICalDomain)
}

func newEvent(uid, summary string, start time.Time, dtStamp *ical.Prop) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)
	event.Props.Set(dtStamp)

	dtStart := ical.NewProp(config.PropDTStart)
	// UTC avoids emitting a TZID for the process-local zone.
	dtStart.SetDateTime(start.UTC())
	event.Props.Set(dtStart)
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

func orFallback(s string) string {
	if s == "" {
		return config.FallbackName
	}
	return s
}
