package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-timesheet/internal/config"
	"go-timesheet/internal/events"
	"go-timesheet/internal/featureflag"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type markCall struct {
	userID   string
	from, to time.Time
}

type fakeMarker struct {
	calls  []markCall
	err    error
	markFn func(call int) error
}

func (f *fakeMarker) MarkOnLeave(_ context.Context, userID string, from, to time.Time) (int64, error) {
	f.calls = append(f.calls, markCall{userID: userID, from: from, to: to})
	err := f.err
	if f.markFn != nil {
		err = f.markFn(len(f.calls))
	}
	if err != nil {
		return 0, err
	}
	return int64(to.Sub(from).Hours()/24) + 1, nil
}

func TestMain(m *testing.M) {
	retryBaseDelay = time.Millisecond
	retryMaxDelay = 4 * time.Millisecond
	m.Run()
}

// fakeReader serves queued messages and cancels the context once drained.
type fakeReader struct {
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := f.msgs[0]
	f.msgs = f.msgs[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func eventMessage(t *testing.T, offset int64, status string) kafkago.Message {
	return eventMessageFor(t, offset, status, "user-1")
}

func eventMessageFor(t *testing.T, offset int64, status, userID string) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(events.LeaveStatusChangedEvent{
		EventType:      events.LeaveStatusChangedEventType,
		LeaveRequestID: "lr-" + userID,
		UserID:         userID,
		StartDate:      "2024-05-06",
		EndDate:        "2024-05-08",
		PreviousStatus: "pending",
		Status:         status,
	})
	require.NoError(t, err)
	return kafkago.Message{Topic: events.LeaveStatusChangedTopic, Offset: offset, Value: payload}
}

func flagsWith(autoMark bool) *featureflag.Flags {
	return featureflag.New(config.FeatureConfig{AutoMarkOnLeave: autoMark})
}

func TestConsumeLeaveStatusChanged_MarksApproved(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			eventMessage(t, 1, "approved"),
			eventMessage(t, 2, "rejected"),
			{Offset: 3, Value: []byte("not json")},
		},
	}
	marker := &fakeMarker{}

	ConsumeLeaveStatusChanged(ctx, reader, marker, flagsWith(true), zap.NewNop())

	require.Len(t, marker.calls, 1)
	assert.Equal(t, "user-1", marker.calls[0].userID)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), marker.calls[0].from)
	assert.Equal(t, time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), marker.calls[0].to)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

func TestConsumeLeaveStatusChanged_FlagOff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{eventMessage(t, 7, "approved")}}
	marker := &fakeMarker{}

	ConsumeLeaveStatusChanged(ctx, reader, marker, flagsWith(false), zap.NewNop())

	assert.Empty(t, marker.calls)
	assert.Equal(t, []int64{7}, reader.committed)
}

func TestConsumeLeaveStatusChanged_RetriesFailedMarkBeforeMovingOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			eventMessageFor(t, 1, "approved", "user-a"),
			eventMessageFor(t, 2, "approved", "user-b"),
		},
	}
	marker := &fakeMarker{markFn: func(call int) error {
		if call <= 2 {
			return errors.New("db down")
		}
		return nil
	}}

	ConsumeLeaveStatusChanged(ctx, reader, marker, flagsWith(true), zap.NewNop())

	require.Len(t, marker.calls, 4)
	assert.Equal(t, "user-a", marker.calls[0].userID)
	assert.Equal(t, "user-a", marker.calls[1].userID)
	assert.Equal(t, "user-a", marker.calls[2].userID)
	assert.Equal(t, "user-b", marker.calls[3].userID)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsumeLeaveStatusChanged_CancelDuringRetryLeavesUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{eventMessage(t, 4, "approved")}}
	marker := &fakeMarker{markFn: func(call int) error {
		if call == 3 {
			cancel()
		}
		return errors.New("db down")
	}}

	ConsumeLeaveStatusChanged(ctx, reader, marker, flagsWith(true), zap.NewNop())

	assert.Len(t, marker.calls, 3)
	assert.Empty(t, reader.committed)
}
