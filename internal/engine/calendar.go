package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-vernissage/internal/config"
)

// LaunchCalendar renders the opening night as a one-event iCalendar.
// The UID only depends on the title and the target so calendar clients
// update the same event across reloads.
func LaunchCalendar(site *Site, clock Clock) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	launch := site.Launch
	summary := launch.Title
	if summary == "" {
		summary = fmt.Sprintf(config.FallbackSummary, site.Artist.Name)
	}

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, launchUID(launch))

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(clock.Now().UTC())
	event.Props.Set(dtStamp)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDateTime(launch.Target.UTC())
	event.Props.Set(dtStart)

	event.Props.SetText(config.PropSummary, summary)
	if launch.Location != "" {
		event.Props.SetText(config.PropLocation, launch.Location)
	}
	if launch.Description != "" {
		event.Props.SetText(config.PropDescription, launch.Description)
	}
	if launch.Reminder > 0 {
		addAlarm(event, formatTrigger(launch.Reminder), summary)
	}

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeySizeBytes, buf.Len())
	return buf.Bytes(), nil
}

// launchUID hashes the launch identity into a stable UID.
func launchUID(launch Launch) string {
	input := fmt.Sprintf(config.FormatHashInput, launch.Title, launch.Target.UTC().Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the value by hand: SetText would add a VALUE=TEXT parameter.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// formatTrigger renders a negative RFC 5545 duration, e.g. 90m becomes -PT90M.
func formatTrigger(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf(config.FormatTriggerMinutes, int64(d/time.Minute))
	}
	return fmt.Sprintf(config.FormatTriggerSeconds, int64(d/time.Second))
}
