package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fomo-app/fomo/internal/feed"
	"github.com/fomo-app/fomo/internal/identity"
	mm "github.com/fomo-app/fomo/internal/middleware"
	"github.com/fomo-app/fomo/internal/party"
	"github.com/fomo-app/fomo/internal/profile"
	"github.com/fomo-app/fomo/internal/realtime"
)

var (
	errInvalidRequest = errors.New("invalid request")
	errForbidden      = errors.New("forbidden")
)

// writeOK writes v as json body.
func writeOK(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeOK(w, status, Error{Error: message})
}

func writeInternalErrorf(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	mm.GetLogger(ctx).Errorf(format, args...)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// writeErr maps service errors to http statuses.
// nolint:gocyclo
func writeErr(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, party.ErrNotFound),
		errors.Is(err, feed.ErrNotFound),
		errors.Is(err, profile.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, party.ErrInvalidStatus),
		errors.Is(err, feed.ErrInvalidPost),
		errors.Is(err, feed.ErrInvalidReaction),
		errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrInvalidPassword),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, realtime.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrUnauthorized),
		errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, party.ErrInvalidTransition),
		errors.Is(err, identity.ErrUsernameTaken),
		errors.Is(err, identity.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, errForbidden), errors.Is(err, feed.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, identity.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		writeInternalErrorf(ctx, w, "failed to %s: %s", op, err.Error())
	}
}

// decode reads json body into v.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s", errInvalidRequest, err.Error())
	}
	return nil
}
