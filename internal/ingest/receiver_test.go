package ingest

import (
	"context"
	"testing"
	"time"
)

func TestReceiverRunStopsOnCancel(t *testing.T) {
	binds := []BindSpec{{Host: "127.0.0.1", MinPort: 0, MaxPort: 0}}
	var built int
	factory := func(worker int) Callbacks {
		built++
		return newRecordingCallbacks()
	}
	r := NewReceiver(binds, 3, factory, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for receiver shutdown")
	}

	if built != 3 {
		t.Errorf("expected factory to be called once per worker (3), got %d", built)
	}
}

func TestReceiverRunPropagatesBindError(t *testing.T) {
	binds := []BindSpec{{Host: "256.256.256.256", MinPort: 4300, MaxPort: 4300}}
	factory := func(worker int) Callbacks { return newRecordingCallbacks() }
	r := NewReceiver(binds, 1, factory, nil, nil)

	err := r.Run(context.Background())
	if err == nil {
		t.Error("expected an error binding an invalid host")
	}
}
