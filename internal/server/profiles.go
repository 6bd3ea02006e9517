package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/profile"
)

func (s server) getProfile(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /profiles/{id} Profiles GetProfile
	//
	// Resolves profile by user id.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: Profile
	//     schema:
	//       "$ref": "#/definitions/UserProfile"
	//   '404':
	//     description: profile not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	p, err := s.profile.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(r.Context(), w, "resolve profile", err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

func (s server) writeProfile(w http.ResponseWriter, r *http.Request) {
	// swagger:operation PATCH /profiles/{id} Profiles WriteProfile
	//
	// Updates present fields of own profile.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/ProfileFields"
	// responses:
	//   '200':
	//     description: Profile
	//     schema:
	//       "$ref": "#/definitions/UserProfile"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: profile of another user
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if err := s.self(r.Context(), id); err != nil {
		writeErr(r.Context(), w, "write profile", err)
		return
	}

	var f entities.ProfileFields
	if err := decode(r, &f); err != nil {
		writeErr(r.Context(), w, "write profile", err)
		return
	}

	if f.IsEmpty() {
		writeErr(r.Context(), w, "write profile", fmt.Errorf("%w: no fields", errInvalidRequest))
		return
	}

	if err := s.profile.Write(r.Context(), id, f); err != nil {
		writeErr(r.Context(), w, "write profile", err)
		return
	}

	p, err := s.profile.Resolve(r.Context(), id)
	if err != nil {
		writeErr(r.Context(), w, "resolve profile", err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

func (s server) diagnoseProfile(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /profiles/{id}/sync Profiles DiagnoseProfile
	//
	// Returns state of every profile tier of own profile.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: Sync status
	//     schema:
	//       "$ref": "#/definitions/SyncStatus"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: profile of another user
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if err := s.self(r.Context(), id); err != nil {
		writeErr(r.Context(), w, "diagnose profile", err)
		return
	}

	st, err := s.profile.Diagnose(r.Context(), id)
	if err != nil {
		writeErr(r.Context(), w, "diagnose profile", err)
		return
	}

	writeOK(w, http.StatusOK, st)
}

func (s server) refreshUser(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /users/{id}/refresh Profiles RefreshUser
	//
	// Re-reads user's profile and published parties through the same fallback tiers as
	// the separate endpoints.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: Profile and parties
	//     schema:
	//       "$ref": "#/definitions/RefreshResponse"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")

	p, err := s.profile.Resolve(r.Context(), id)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		writeErr(r.Context(), w, "refresh profile", err)
		return
	}

	parties, err := s.party.List(r.Context(), id)
	if err != nil {
		writeErr(r.Context(), w, "refresh parties", err)
		return
	}

	writeOK(w, http.StatusOK, RefreshResponse{Profile: p, Parties: parties})
}

// self returns error if id is not the current account.
func (s server) self(ctx context.Context, id string) error {
	acc, err := s.id.CurrentAccount(ctx)
	if err != nil {
		return err
	}

	if acc.ID != id {
		return errForbidden
	}

	return nil
}

// author returns snapshot of the current account used in posts.
func (s server) author(ctx context.Context, location string) (entities.Author, error) {
	acc, err := s.id.CurrentAccount(ctx)
	if err != nil {
		return entities.Author{}, err
	}

	a := entities.Author{
		ID:       acc.ID,
		Location: location,
	}

	p, err := s.profile.Resolve(ctx, acc.ID)
	switch {
	case err == nil:
		a.Name, a.Username, a.Avatar = p.Name, p.Username, p.Avatar
	case errors.Is(err, profile.ErrNotFound):
		f := acc.Metadata.Fields()
		if f.Name != nil {
			a.Name = *f.Name
		}
		if f.Username != nil {
			a.Username = *f.Username
		}
	default:
		return entities.Author{}, err
	}

	return a, nil
}
