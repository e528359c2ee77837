package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/emersion/go-ical"

	"github.com/tartampluch/go-wishly/internal/config"
)

// Updater receives the rendered feed whenever the schedule changes. The
// HTTP server implements it.
type Updater interface {
	Update(data []byte)
}

// CalendarSink is the shipped Sink implementation: it keeps the live
// schedule keyed by notification id and renders it as an iCalendar feed
// with yearly recurrence and a display alarm per reminder. The feed is
// written to a file (durable across runs) and pushed to an optional
// Updater for serving over HTTP.
//
// Permission is always granted and channels are a no-op here; those
// concepts only exist on mobile platforms, but keeping them in the Sink
// contract keeps the scheduler's state machine identical everywhere.
type CalendarSink struct {
	mu       sync.Mutex
	pending  map[int]Request
	filePath string
	updater  Updater
	log      *slog.Logger
}

// NewCalendarSink creates a sink writing its feed to filePath. An empty
// filePath disables the file and keeps the schedule in memory only.
func NewCalendarSink(filePath string) *CalendarSink {
	return &CalendarSink{
		pending:  make(map[int]Request),
		filePath: filePath,
		log:      slog.With(config.LogKeyComponent, config.CompNotify),
	}
}

// SetUpdater attaches the feed consumer and pushes the current state.
func (s *CalendarSink) SetUpdater(u Updater) {
	s.mu.Lock()
	s.updater = u
	s.mu.Unlock()
	s.publish()
}

// RequestPermission implements Sink. Local feeds need no permission.
func (s *CalendarSink) RequestPermission(context.Context) (bool, error) {
	return true, nil
}

// CreateChannel implements Sink as a no-op.
func (s *CalendarSink) CreateChannel(context.Context, ChannelConfig) error {
	return nil
}

// Schedule implements Sink. A request with a known id overwrites the
// previous one.
func (s *CalendarSink) Schedule(_ context.Context, req Request) error {
	s.mu.Lock()
	s.pending[req.ID] = req
	s.mu.Unlock()
	return s.publish()
}

// Cancel implements Sink. Cancelling an unknown id is not an error.
func (s *CalendarSink) Cancel(_ context.Context, id int) error {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
	return s.publish()
}

// Pending returns the current schedule sorted by fire time.
func (s *CalendarSink) Pending() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, 0, len(s.pending))
	for _, req := range s.pending {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

// publish renders the feed and delivers it to the file and the updater.
func (s *CalendarSink) publish() error {
	data, err := RenderCalendar(s.Pending())
	if err != nil {
		return err
	}

	s.mu.Lock()
	filePath := s.filePath
	updater := s.updater
	s.mu.Unlock()

	if filePath != "" {
		if err := os.WriteFile(filePath, data, config.FilePermUserRW); err != nil {
			return fmt.Errorf("%s: %w", config.ErrFeedWrite, err)
		}
	}
	if updater != nil {
		updater.Update(data)
	}

	s.log.Debug(config.MsgFeedUpdated, config.LogKeySizeBytes, len(data))
	return nil
}

// RenderCalendar renders reminder requests as an iCalendar object: one
// VEVENT per reminder with a yearly RRULE and a DISPLAY VALARM firing at
// the event time. UIDs derive from the notification id, so re-rendering
// the same schedule produces the same identifiers.
func RenderCalendar(reqs []Request) ([]byte, error) {
	if len(reqs) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(time.Now().UTC())

	for _, req := range reqs {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, req.ID, config.ICalDomain))
		event.Props.SetText(config.PropSummary, req.Title)
		event.Props.SetText(config.PropDescription, req.Body)
		event.Props.Set(dtStamp)

		dtStart := ical.NewProp(config.PropDTStart)
		dtStart.SetDateTime(req.FireAt)
		event.Props.Set(dtStart)

		if req.RepeatYearly {
			// Raw prop: SetText would tag the rule with VALUE=TEXT.
			rrule := ical.NewProp(config.PropRRule)
			rrule.Value = config.ICalRuleYear
			event.Props.Set(rrule)
		}

		alarm := ical.NewComponent(config.ICalComponent)
		alarm.Props.SetText(config.PropAction, config.ICalAction)
		alarm.Props.SetText(config.PropDescription, req.Body)
		trigger := ical.NewProp(config.PropTrigger)
		trigger.Value = config.ICalTrigger
		alarm.Props.Set(trigger)
		event.Children = append(event.Children, alarm)

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}
