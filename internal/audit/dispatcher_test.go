package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (w *recordingWriter) Write(_ context.Context, ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, ev)
	return w.err
}

func TestDispatcher_DrainsOnClose(t *testing.T) {
	w := &recordingWriter{}
	d := NewDispatcher(w, zap.NewNop())

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{Action: "booking_created", Entity: "booking"})
	}
	d.Close()

	require.Len(t, w.events, 10)
	assert.Equal(t, "booking_created", w.events[0].Action)
}

func TestDispatcher_WriteErrorsAreSwallowed(t *testing.T) {
	w := &recordingWriter{err: errors.New("db down")}
	d := NewDispatcher(w, zap.NewNop())

	d.Dispatch(Event{Action: "booking_conflict"})
	d.Close()

	assert.Len(t, w.events, 1)
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(&recordingWriter{}, zap.NewNop())
	d.Close()
	d.Close()
}

func TestLogWriter(t *testing.T) {
	w := NewLogWriter(zap.NewNop())
	assert.NoError(t, w.Write(context.Background(), Event{Action: "x", Metadata: map[string]int{"n": 1}}))
}

func TestEncodeMetadata(t *testing.T) {
	assert.Equal(t, "", encodeMetadata(nil))
	assert.Equal(t, `{"service":"panel upgrade"}`, encodeMetadata(map[string]string{"service": "panel upgrade"}))
	assert.Equal(t, "", encodeMetadata(make(chan int)))
}

func TestDispatcher_DispatchAfterCloseIsDropped(t *testing.T) {
	w := &recordingWriter{}
	d := NewDispatcher(w, zap.NewNop())

	d.Dispatch(Event{Action: "booking_created"})
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "booking_created"})
	})
	d.Close()

	assert.Len(t, w.events, 1)
}

func TestDispatcher_ConcurrentDispatchAndClose(t *testing.T) {
	d := NewDispatcher(&recordingWriter{}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Dispatch(Event{Action: "booking_created"})
			}
		}()
	}
	d.Close()
	wg.Wait()
}
