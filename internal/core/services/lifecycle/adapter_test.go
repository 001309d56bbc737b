package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeToggler struct {
	calls chan string
}

func (f *fakeToggler) StartUpdatingLocation() { f.calls <- "start" }
func (f *fakeToggler) StopUpdatingLocation()  { f.calls <- "stop" }

func TestAdapter_TranslatesSignals(t *testing.T) {
	toggler := &fakeToggler{calls: make(chan string, 4)}
	a := New(toggler)

	a.HandleBackground()
	a.HandleForeground()

	assert.Equal(t, "stop", <-toggler.calls)
	assert.Equal(t, "start", <-toggler.calls)
}

func TestAdapter_Run(t *testing.T) {
	toggler := &fakeToggler{calls: make(chan string, 4)}
	a := New(toggler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan Signal)
	done := make(chan struct{})
	go func() {
		a.Run(ctx, signals)
		close(done)
	}()

	signals <- EnteredBackground
	assert.Equal(t, "stop", <-toggler.calls)

	signals <- EnteringForeground
	assert.Equal(t, "start", <-toggler.calls)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit on context cancellation")
	}
}

func TestAdapter_RunStopsOnChannelClose(t *testing.T) {
	toggler := &fakeToggler{calls: make(chan string, 4)}
	a := New(toggler)

	signals := make(chan Signal)
	done := make(chan struct{})
	go func() {
		a.Run(context.Background(), signals)
		close(done)
	}()

	close(signals)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit on channel close")
	}
}
