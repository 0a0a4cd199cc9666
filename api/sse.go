package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/b0bbywan/go-powermenu/backend"
	"github.com/b0bbywan/go-powermenu/events"
	"github.com/b0bbywan/go-powermenu/logger"
)

const (
	defaultKeepAlive = 30 * time.Second
	minKeepAlive     = 10
	maxKeepAlive     = 120
)

// eventStream writes server-sent events to one client.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seq     uint64
}

func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming unsupported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	return &eventStream{w: w, flusher: flusher}, nil
}

func (s *eventStream) send(e events.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		logger.Warn("[sse] cannot encode %s: %v", e.Type, err)
		return err
	}
	s.seq++
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.seq, e.Type, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *eventStream) status(message string) error {
	return s.send(events.Event{Type: events.TypeServerInfo, Data: message})
}

// ping writes a comment line, ignored by EventSource clients.
func (s *eventStream) ping() error {
	if _, err := fmt.Fprint(s.w, ": keepalive\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// sseHandler streams broadcaster events. The stream ends after menu.closed
// since the server stops right after.
func sseHandler(b *backend.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		interval, err := parseKeepAlive(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		stream, err := newEventStream(w)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := stream.status("connected"); err != nil {
			return
		}

		ch := b.SubscribeFunc(filter)
		defer b.Unsubscribe(ch)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				flushPending(stream, ch)
				_ = stream.status("bye")
				return
			case <-ticker.C:
				if err := stream.ping(); err != nil {
					logger.Debug("[sse] client gone: %v", err)
					return
				}
			case e, ok := <-ch:
				if !ok {
					return
				}
				if err := stream.send(e); err != nil {
					logger.Debug("[sse] client gone: %v", err)
					return
				}
				if e.Type == events.TypeMenuClosed {
					return
				}
			}
		}
	}
}

// flushPending writes the events already queued for this client, such as
// the menu.closed that precedes an application shutdown.
func flushPending(stream *eventStream, ch <-chan events.Event) {
	for {
		select {
		case e, ok := <-ch:
			if !ok || stream.send(e) != nil {
				return
			}
		default:
			return
		}
	}
}

// parseKeepAlive reads ?keepalive=<seconds>, bounded to [10, 120].
func parseKeepAlive(r *http.Request) (time.Duration, error) {
	raw := r.URL.Query().Get("keepalive")
	if raw == "" {
		return defaultKeepAlive, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("keepalive must be an integer (seconds)")
	}
	if secs < minKeepAlive || secs > maxKeepAlive {
		return 0, fmt.Errorf("keepalive must be between %d and %d seconds", minKeepAlive, maxKeepAlive)
	}
	return time.Duration(secs) * time.Second, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseFilter builds the event filter from ?types=, ?backend= and ?exclude=.
// server.info always passes and cannot be excluded.
func parseFilter(r *http.Request) (func(events.Event) bool, error) {
	q := r.URL.Query()

	include := append(splitList(q.Get("types")), events.ResolveBackends(splitList(q.Get("backend")))...)
	if len(include) > 0 && !slices.Contains(include, events.TypeServerInfo) {
		include = append(include, events.TypeServerInfo)
	}

	exclude := splitList(q.Get("exclude"))
	if slices.Contains(exclude, events.TypeServerInfo) {
		return nil, errors.New("server.info cannot be excluded")
	}

	return events.NewFilter(include, exclude), nil
}
