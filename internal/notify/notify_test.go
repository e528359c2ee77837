package notify

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-wishly/internal/config"
	"github.com/tartampluch/go-wishly/internal/i18n"
	"github.com/tartampluch/go-wishly/internal/model"
)

func TestHashID(t *testing.T) {
	tests := []struct {
		name     string
		recordID string
		expected int
	}{
		{"Known vector", "abc", 96354},
		{"Empty string", "", 0},
		{"Single byte", "a", 97},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HashID(tt.recordID))
		})
	}
}

func TestHashID_Properties(t *testing.T) {
	ids := []string{
		"3f8a1c2e-9b4d-4f6a-8e7b-1d2c3e4f5a6b",
		"00000000-0000-0000-0000-000000000000",
		"a very long record identifier that overflows int32 many times over",
	}

	for _, id := range ids {
		first := HashID(id)
		assert.Equal(t, first, HashID(id), "the same id must always hash to the same value")
		assert.GreaterOrEqual(t, first, 0, "ids must be non-negative")
		assert.LessOrEqual(t, first, math.MaxInt32+1, "ids must fit the 32-bit platform range")
	}
}

// mockSink records scheduler calls and can be primed to fail.
type mockSink struct {
	mock.Mock
}

func (m *mockSink) RequestPermission(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockSink) CreateChannel(ctx context.Context, cfg ChannelConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *mockSink) Schedule(ctx context.Context, req Request) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockSink) Cancel(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func testBirthday() model.Birthday {
	return model.Birthday{ID: "abc", Name: "Alice", Day: 15, Month: 6}
}

func TestScheduleBirthday_Success(t *testing.T) {
	sink := &mockSink{}
	sched := NewScheduler(sink, fixedClock{}, i18n.New("en"))
	b := testBirthday()

	sink.On("Schedule", mock.Anything, mock.MatchedBy(func(req Request) bool {
		return req.ID == 96354 && req.RecordID == "abc" && req.RepeatYearly && req.Channel == config.NotificationChannelID
	})).Return(nil)

	res := sched.ScheduleBirthday(context.Background(), b)

	assert.True(t, res.OK)
	assert.Equal(t, "abc", res.RecordID)
	assert.Equal(t, 96354, res.NotificationID)
	sink.AssertExpectations(t)
}

// TestScheduleBirthday_SinkFailure: a sink error becomes a failed Result,
// it never propagates as an error to the caller.
func TestScheduleBirthday_SinkFailure(t *testing.T) {
	sink := &mockSink{}
	sched := NewScheduler(sink, fixedClock{}, i18n.New("en"))

	sink.On("Schedule", mock.Anything, mock.Anything).Return(errors.New("delivery backend down"))

	res := sched.ScheduleBirthday(context.Background(), testBirthday())

	assert.False(t, res.OK)
	assert.Equal(t, "delivery backend down", res.Reason)
	sink.AssertExpectations(t)
}

func TestScheduleBirthday_RequestContent(t *testing.T) {
	sink := &mockSink{}
	sched := NewScheduler(sink, fixedClock{}, i18n.New("en"))

	var captured Request
	sink.On("Schedule", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(Request)
	}).Return(nil)

	sched.ScheduleBirthday(context.Background(), testBirthday())

	assert.Equal(t, "It's today! 🎂", captured.Title)
	assert.Contains(t, captured.Body, "Alice", "the body carries the contact name")
	assert.Equal(t, config.ReminderHour, captured.FireAt.Hour(), "reminders fire at the fixed hour")
	assert.Equal(t, 0, captured.FireAt.Minute())
}

func TestCancel(t *testing.T) {
	sink := &mockSink{}
	sched := NewScheduler(sink, fixedClock{}, i18n.New("en"))

	sink.On("Cancel", mock.Anything, 96354).Return(nil)

	res := sched.Cancel(context.Background(), "abc")

	assert.True(t, res.OK)
	assert.Equal(t, 96354, res.NotificationID)
	sink.AssertExpectations(t)
}

func TestRescheduleAll(t *testing.T) {
	sink := &mockSink{}
	sched := NewScheduler(sink, fixedClock{}, i18n.New("en"))
	records := []model.Birthday{
		{ID: "a", Name: "A", Day: 1, Month: 1},
		{ID: "b", Name: "B", Day: 2, Month: 2},
		{ID: "c", Name: "C", Day: 3, Month: 3},
	}

	sink.On("Schedule", mock.Anything, mock.Anything).Return(nil).Times(3)

	results := sched.RescheduleAll(context.Background(), records)

	require.Len(t, results, 3)
	for _, res := range results {
		assert.True(t, res.OK)
	}
	sink.AssertExpectations(t)
}

// TestRescheduleAll_PartialFailure: one failing record must not stop the
// remaining ones from being scheduled.
func TestRescheduleAll_PartialFailure(t *testing.T) {
	sink := &mockSink{}
	sched := NewScheduler(sink, fixedClock{}, i18n.New("en"))
	records := []model.Birthday{
		{ID: "good", Name: "A", Day: 1, Month: 1},
		{ID: "bad", Name: "B", Day: 2, Month: 2},
	}

	sink.On("Schedule", mock.Anything, mock.MatchedBy(func(req Request) bool {
		return req.RecordID == "bad"
	})).Return(errors.New("boom"))
	sink.On("Schedule", mock.Anything, mock.Anything).Return(nil)

	results := sched.RescheduleAll(context.Background(), records)

	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
}

func TestInit_PermissionDenied(t *testing.T) {
	sink := &mockSink{}
	sched := NewScheduler(sink, fixedClock{}, i18n.New("en"))

	sink.On("RequestPermission", mock.Anything).Return(false, nil)

	sched.Init(context.Background())

	sink.AssertNotCalled(t, "CreateChannel", mock.Anything, mock.Anything)
}

// TestInit_PermissionError: a failing permission request is treated the
// same as a denial, the channel is never created.
func TestInit_PermissionError(t *testing.T) {
	sink := &mockSink{}
	sched := NewScheduler(sink, fixedClock{}, i18n.New("en"))

	sink.On("RequestPermission", mock.Anything).Return(false, errors.New("backend unavailable"))

	sched.Init(context.Background())

	sink.AssertNotCalled(t, "CreateChannel", mock.Anything, mock.Anything)
}

func TestInit_CreatesChannel(t *testing.T) {
	sink := &mockSink{}
	sched := NewScheduler(sink, fixedClock{}, i18n.New("en"))

	sink.On("RequestPermission", mock.Anything).Return(true, nil)
	sink.On("CreateChannel", mock.Anything, mock.MatchedBy(func(cfg ChannelConfig) bool {
		return cfg.ID == config.NotificationChannelID && cfg.Importance == config.ChannelImportanceMax
	})).Return(nil)

	sched.Init(context.Background())

	sink.AssertExpectations(t)
}

func TestShareText(t *testing.T) {
	tr := i18n.New("en")

	today := ShareText(tr, "Alice", 0)
	assert.Contains(t, today, "TODAY")
	assert.Contains(t, today, "Alice")

	later := ShareText(tr, "Alice", 12)
	assert.Contains(t, later, "12 days")
	assert.Contains(t, later, "Alice")
}

// fixedClock pins "now" so fire times are deterministic.
type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}
