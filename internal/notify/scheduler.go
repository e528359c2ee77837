package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-wishly/internal/config"
	"github.com/tartampluch/go-wishly/internal/engine"
	"github.com/tartampluch/go-wishly/internal/i18n"
	"github.com/tartampluch/go-wishly/internal/model"
)

// Scheduler maps birthday records to reminder requests and drives the
// sink. Per record the state machine is Unscheduled <-> Scheduled;
// Schedule and Cancel are idempotent because the sink overwrites by id.
type Scheduler struct {
	sink  Sink
	clock engine.Clock
	tr    *i18n.Translator
	log   *slog.Logger
}

// NewScheduler wires a Scheduler.
func NewScheduler(sink Sink, clock engine.Clock, tr *i18n.Translator) *Scheduler {
	return &Scheduler{
		sink:  sink,
		clock: clock,
		tr:    tr,
		log:   slog.With(config.LogKeyComponent, config.CompNotify),
	}
}

// Init requests permission and creates the delivery channel. Failures
// are logged and swallowed: the application keeps running without
// reminders rather than refusing to start.
func (s *Scheduler) Init(ctx context.Context) {
	granted, err := s.sink.RequestPermission(ctx)
	if err != nil {
		s.log.Warn(config.MsgPermDenied, config.LogKeyError, err)
		return
	}
	if !granted {
		s.log.Warn(config.MsgPermDenied)
		return
	}

	err = s.sink.CreateChannel(ctx, ChannelConfig{
		ID:          config.NotificationChannelID,
		Name:        s.tr.Msg(config.TKeyChannelName),
		Description: s.tr.Msg(config.TKeyChannelDesc),
		Importance:  config.ChannelImportanceMax,
		Vibration:   true,
	})
	if err != nil {
		s.log.Warn(config.MsgChannelFailed, config.LogKeyError, err)
	}
}

// BuildRequest derives the reminder request for a record: next fire time
// at the fixed local hour, stable hashed id, localized text.
func BuildRequest(now time.Time, b model.Birthday, tr *i18n.Translator) Request {
	return Request{
		ID:           HashID(b.ID),
		Title:        tr.Msg(config.TKeyNotifTitle),
		Body:         tr.MsgData(config.TKeyNotifBody, map[string]any{"Name": b.Name}),
		FireAt:       engine.NextFireTime(now, b.Day, b.Month, config.ReminderHour),
		RepeatYearly: true,
		RecordID:     b.ID,
		Channel:      config.NotificationChannelID,
	}
}

// ScheduleBirthday schedules (or overwrites) the reminder for b.
func (s *Scheduler) ScheduleBirthday(ctx context.Context, b model.Birthday) Result {
	req := BuildRequest(s.clock.Now(), b, s.tr)

	if err := s.sink.Schedule(ctx, req); err != nil {
		res := Result{RecordID: b.ID, NotificationID: req.ID, Reason: err.Error()}
		s.log.Warn(config.MsgScheduleFailed,
			config.LogKeyRecordID, b.ID,
			config.LogKeyNotifID, req.ID,
			config.LogKeyError, err,
		)
		return res
	}

	s.log.Info(config.MsgScheduled,
		config.LogKeyRecordID, b.ID,
		config.LogKeyNotifID, req.ID,
		config.LogKeyFireAt, req.FireAt,
	)
	return Result{RecordID: b.ID, NotificationID: req.ID, OK: true}
}

// Cancel removes the reminder derived from recordID.
func (s *Scheduler) Cancel(ctx context.Context, recordID string) Result {
	id := HashID(recordID)
	if err := s.sink.Cancel(ctx, id); err != nil {
		s.log.Warn(config.MsgCancelFailed,
			config.LogKeyRecordID, recordID,
			config.LogKeyNotifID, id,
			config.LogKeyError, err,
		)
		return Result{RecordID: recordID, NotificationID: id, Reason: err.Error()}
	}

	s.log.Debug(config.MsgCancelled, config.LogKeyRecordID, recordID, config.LogKeyNotifID, id)
	return Result{RecordID: recordID, NotificationID: id, OK: true}
}

// RescheduleAll re-runs the schedule path for every record. Called after
// load at startup; relies on same-id overwrites, so repeated calls do
// not accumulate duplicates.
func (s *Scheduler) RescheduleAll(ctx context.Context, records []model.Birthday) []Result {
	s.log.Info(config.MsgRescheduleAll, config.LogKeyCount, len(records))
	results := make([]Result, 0, len(records))
	for _, b := range records {
		results = append(results, s.ScheduleBirthday(ctx, b))
	}
	return results
}

// CancelAll cancels the reminder of every given record, one by one:
// the sink has no bulk-cancel primitive. Callers clearing the whole
// collection must pass the pre-clear records.
func (s *Scheduler) CancelAll(ctx context.Context, records []model.Birthday) []Result {
	results := make([]Result, 0, len(records))
	for _, b := range records {
		results = append(results, s.Cancel(ctx, b.ID))
	}
	return results
}

// ShareText builds the localized share message for a birthday that is
// days away (0 means today).
func ShareText(tr *i18n.Translator, name string, days int) string {
	if days == 0 {
		return tr.MsgData(config.TKeyShareToday, map[string]any{"Name": name})
	}
	return tr.MsgData(config.TKeyShareDays, map[string]any{"Name": name, "Days": fmt.Sprintf("%d", days)})
}
