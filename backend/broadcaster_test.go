package backend

import (
	"context"
	"testing"
	"time"

	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/backend/power"
	"github.com/b0bbywan/go-powermenu/events"
)

func TestBroadcaster_Subscribe_ReceivesAll(t *testing.T) {
	upstream := make(chan events.Event, 4)
	b := NewBroadcaster(context.Background(), upstream)

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	upstream <- events.Event{Type: events.TypeActionRequested}
	upstream <- events.Event{Type: events.TypeThemeUpdated}

	for _, want := range []string{events.TypeActionRequested, events.TypeThemeUpdated} {
		select {
		case got := <-ch:
			if got.Type != want {
				t.Errorf("got %s, want %s", got.Type, want)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timed out waiting for event %s", want)
		}
	}
}

func TestBroadcaster_SubscribeFunc_FiltersEvents(t *testing.T) {
	upstream := make(chan events.Event, 4)
	b := NewBroadcaster(context.Background(), upstream)

	ch := b.SubscribeFunc(events.FilterTypes(events.ResolveBackends([]string{"theme"})))
	defer b.Unsubscribe(ch)

	upstream <- events.Event{Type: events.TypeActionCompleted}
	upstream <- events.Event{Type: events.TypeThemeUpdated}

	select {
	case got := <-ch:
		if got.Type != events.TypeThemeUpdated {
			t.Errorf("got %s, want %s", got.Type, events.TypeThemeUpdated)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for theme.updated event")
	}

	select {
	case got := <-ch:
		t.Errorf("unexpected event %s delivered through filter", got.Type)
	case <-time.After(30 * time.Millisecond):
		// expected: nothing received
	}
}

func TestBroadcaster_SubscribeFunc_NilFilterPassesAll(t *testing.T) {
	upstream := make(chan events.Event, 4)
	b := NewBroadcaster(context.Background(), upstream)

	ch := b.SubscribeFunc(nil)
	defer b.Unsubscribe(ch)

	upstream <- events.Event{Type: events.TypeMenuClosed}

	select {
	case got := <-ch:
		if got.Type != events.TypeMenuClosed {
			t.Errorf("got %s, want %s", got.Type, events.TypeMenuClosed)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for menu.closed event")
	}
}

func TestBroadcaster_UnsubscribeTwice(t *testing.T) {
	b := NewBroadcaster(context.Background(), make(chan events.Event))
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	b.Unsubscribe(ch)
}

func TestBroadcaster_DispatchEventsFlowThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := New(ctx, testConfig(t), commands.NewRecorder(), nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	broadcaster := backend.NewBroadcaster(ctx)
	ch := broadcaster.SubscribeFunc(events.FilterTypes([]string{events.TypeActionCompleted}))
	defer broadcaster.Unsubscribe(ch)

	if _, err := backend.Power.Dispatch(ctx, power.Reboot); err != nil {
		t.Fatalf("Dispatch(reboot) error: %v", err)
	}

	select {
	case got := <-ch:
		data, ok := got.Data.(power.ActionEvent)
		if !ok {
			t.Fatalf("data is %T, want power.ActionEvent", got.Data)
		}
		if data.Action != power.Reboot {
			t.Errorf("data.Action = %q, want reboot", data.Action)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for action.completed event")
	}
}

func TestNewBroadcasterFromBackend_Empty_NoPanic(t *testing.T) {
	b := &Backend{}
	broadcaster := newBroadcasterFromBackend(context.Background(), b)
	ch := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(ch)

	select {
	case got := <-ch:
		t.Errorf("unexpected event %s from empty backend", got.Type)
	case <-time.After(20 * time.Millisecond):
		// expected
	}
}

func TestBroadcaster_MultipleSubscribersIndependentFilters(t *testing.T) {
	upstream := make(chan events.Event, 8)
	b := NewBroadcaster(context.Background(), upstream)

	allCh := b.Subscribe()
	defer b.Unsubscribe(allCh)

	menuOnly := b.SubscribeFunc(events.NewFilter([]string{events.TypeMenuClosed}, nil))
	defer b.Unsubscribe(menuOnly)

	upstream <- events.Event{Type: events.TypeMenuClosed}
	upstream <- events.Event{Type: events.TypeActionFailed}

	for _, want := range []string{events.TypeMenuClosed, events.TypeActionFailed} {
		select {
		case got := <-allCh:
			if got.Type != want {
				t.Errorf("allCh: got %s, want %s", got.Type, want)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("allCh: timed out waiting for %s", want)
		}
	}

	select {
	case got := <-menuOnly:
		if got.Type != events.TypeMenuClosed {
			t.Errorf("menuOnly: got %s, want menu.closed", got.Type)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("menuOnly: timed out waiting for menu.closed")
	}

	select {
	case got := <-menuOnly:
		t.Errorf("menuOnly: unexpected event %s", got.Type)
	case <-time.After(30 * time.Millisecond):
		// expected: nothing
	}
}

func TestBroadcaster_LateSubscriberGetsMenuClosed(t *testing.T) {
	upstream := make(chan events.Event, 1)
	b := NewBroadcaster(context.Background(), upstream)

	early := b.Subscribe()
	defer b.Unsubscribe(early)
	upstream <- events.Event{Type: events.TypeMenuClosed}

	select {
	case <-early:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for menu.closed")
	}

	late := b.Subscribe()
	defer b.Unsubscribe(late)
	select {
	case got := <-late:
		if got.Type != events.TypeMenuClosed {
			t.Errorf("late subscriber got %s, want menu.closed", got.Type)
		}
	default:
		t.Fatal("late subscriber should receive menu.closed immediately")
	}

	themeOnly := b.SubscribeFunc(events.FilterTypes(events.ResolveBackends([]string{"theme"})))
	defer b.Unsubscribe(themeOnly)
	select {
	case got := <-themeOnly:
		t.Errorf("filtered subscriber got %s", got.Type)
	default:
	}
}

func TestFanIn_ClosesWhenSourcesDrain(t *testing.T) {
	a := make(chan events.Event, 1)
	c := make(chan events.Event, 1)
	a <- events.Event{Type: events.TypeActionRequested}
	c <- events.Event{Type: events.TypeThemeUpdated}
	close(a)
	close(c)

	merged := fanIn(context.Background(), a, nil, c)
	seen := map[string]bool{}
	for e := range merged {
		seen[e.Type] = true
	}
	if !seen[events.TypeActionRequested] || !seen[events.TypeThemeUpdated] {
		t.Errorf("merged events = %v", seen)
	}
}

// TestBroadcaster_CloseMenuReachesSubscribers closes the menu for real: the
// application context is cancelled right after, and menu.closed must still
// be delivered, including to subscribers arriving later.
func TestBroadcaster_CloseMenuReachesSubscribers(t *testing.T) {
	for i := 0; i < 50; i++ {
		ctx, cancel := context.WithCancel(context.Background())

		backend, err := New(ctx, testConfig(t), commands.NewRecorder(), cancel)
		if err != nil {
			cancel()
			t.Fatalf("New() unexpected error: %v", err)
		}
		broadcaster := backend.NewBroadcaster(ctx)
		ch := broadcaster.SubscribeFunc(nil)

		if err := backend.Power.CloseMenu(context.Background()); err != nil {
			t.Fatalf("CloseMenu() error: %v", err)
		}
		if ctx.Err() == nil {
			t.Fatal("CloseMenu() should cancel the application context")
		}

		select {
		case got := <-ch:
			if got.Type != events.TypeMenuClosed {
				t.Fatalf("close %d: got %s, want menu.closed", i, got.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("close %d: menu.closed missed by subscriber", i)
		}

		late := broadcaster.Subscribe()
		select {
		case got := <-late:
			if got.Type != events.TypeMenuClosed {
				t.Fatalf("close %d: late subscriber got %s", i, got.Type)
			}
		default:
			t.Fatalf("close %d: late subscriber did not get menu.closed", i)
		}

		broadcaster.Unsubscribe(ch)
		broadcaster.Unsubscribe(late)
		backend.Close()
	}
}
