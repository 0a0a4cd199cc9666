package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/b0bbywan/go-powermenu/backend/login1"
	"github.com/b0bbywan/go-powermenu/backend/power"
	"github.com/b0bbywan/go-powermenu/logger"
)

// handlePowerError maps dispatch errors to HTTP status codes.
func handlePowerError(w http.ResponseWriter, err error) {
	var (
		unknownErr     *power.UnknownActionError
		capErr         *login1.CapabilityError
		unsupportedErr *power.UnsupportedError
		replyErr       *login1.ReplyError
	)

	switch {
	case errors.As(err, &unknownErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &capErr):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &unsupportedErr):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, login1.ErrTimeout):
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	case errors.As(err, &replyErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// dispatchHandler runs POST /power/{action}. The command outlives the
// request: a client going away does not interrupt a shutdown.
func dispatchHandler(p *power.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := power.ParseAction(r.PathValue("action"))
		if err != nil {
			handlePowerError(w, err)
			return
		}

		ctx := context.WithoutCancel(r.Context())
		outcome, err := p.Dispatch(ctx, a)
		if err != nil {
			handlePowerError(w, err)
			return
		}

		writeJSON(w, http.StatusAccepted, outcome)
		if outcome.CloseMenu {
			flush(w)
			if err := p.CloseMenu(ctx); err != nil {
				logger.Warn("[api] close after %s: %v", a, err)
			}
		}
	}
}

// closeHandler replies before closing: the termination command may end this process.
func closeHandler(p *power.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		flush(w)
		if err := p.CloseMenu(context.WithoutCancel(r.Context())); err != nil {
			logger.Error("[api] close failed: %v", err)
		}
	}
}
