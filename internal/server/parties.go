package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi"

	"github.com/fomo-app/fomo/internal/entities"
)

func (s server) listParties(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /users/{id}/parties Parties ListParties
	//
	// Returns published parties hosted by user. Falls back to the last known state when
	// the remote store is unavailable.
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
	//     description: Parties
	//     schema:
	//       "$ref": "#/definitions/ListPartiesResponse"

	p, err := s.party.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(r.Context(), w, "list parties", err)
		return
	}

	writeOK(w, http.StatusOK, ListPartiesResponse{Parties: p})
}

func (s server) listDrafts(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /users/{id}/drafts Parties ListDrafts
	//
	// Returns own draft parties. Falls back to the last known state when the remote store is unavailable.
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
	//     description: Drafts
	//     schema:
	//       "$ref": "#/definitions/ListPartiesResponse"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: drafts of another user
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if err := s.self(r.Context(), id); err != nil {
		writeErr(r.Context(), w, "list drafts", err)
		return
	}

	p, err := s.party.ListDrafts(r.Context(), id)
	if err != nil {
		writeErr(r.Context(), w, "list drafts", err)
		return
	}

	writeOK(w, http.StatusOK, ListPartiesResponse{Parties: p})
}

func (s server) getStats(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /stats Parties GetStats
	//
	// Returns users' statistics keyed by user id. All known users are returned when ids are omitted.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: ids
	//   description: comma separated user ids
	//   in: query
	//   required: false
	//   example: u1,u2
	// responses:
	//   '200':
	//     description: Stats
	//     schema:
	//       type: object
	//       additionalProperties:
	//         "$ref": "#/definitions/UserStats"

	var ids []string
	for _, v := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if v = strings.TrimSpace(v); v != "" {
			ids = append(ids, v)
		}
	}

	stats, err := s.party.Stats(r.Context(), ids...)
	if err != nil {
		writeErr(r.Context(), w, "get stats", err)
		return
	}

	writeOK(w, http.StatusOK, stats)
}

func (s server) createParty(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /parties Parties CreateParty
	//
	// Creates party. Current account hosts it when hosts are omitted.
	// Only draft and upcoming statuses are accepted.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/Party"
	// responses:
	//   '201':
	//     description: Party
	//     schema:
	//       "$ref": "#/definitions/Party"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"

	acc, err := s.id.CurrentAccount(r.Context())
	if err != nil {
		writeErr(r.Context(), w, "create party", err)
		return
	}

	var p entities.Party
	if err := decode(r, &p); err != nil {
		writeErr(r.Context(), w, "create party", err)
		return
	}

	if len(p.Hosts) == 0 {
		p.Hosts = []string{acc.ID}
	}

	created, err := s.party.Create(r.Context(), &p)
	if err != nil {
		writeErr(r.Context(), w, "create party", err)
		return
	}

	writeOK(w, http.StatusCreated, created)
}

func (s server) getParty(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /parties/{id} Parties GetParty
	//
	// Returns party. Falls back to the last known state when the remote store is unavailable.
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
	//     description: Party
	//     schema:
	//       "$ref": "#/definitions/Party"
	//   '404':
	//     description: party not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	p, err := s.party.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(r.Context(), w, "get party", err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

func (s server) updateParty(w http.ResponseWriter, r *http.Request) {
	// swagger:operation PATCH /parties/{id} Parties UpdateParty
	//
	// Updates present fields of the party.
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
	//     "$ref": "#/definitions/PartyUpdate"
	// responses:
	//   '200':
	//     description: Party
	//     schema:
	//       "$ref": "#/definitions/Party"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: not a host
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: party not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if err := s.hosted(r.Context(), id); err != nil {
		writeErr(r.Context(), w, "update party", err)
		return
	}

	var u entities.PartyUpdate
	if err := decode(r, &u); err != nil {
		writeErr(r.Context(), w, "update party", err)
		return
	}

	p, err := s.party.Update(r.Context(), id, &u)
	if err != nil {
		writeErr(r.Context(), w, "update party", err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

func (s server) deleteParty(w http.ResponseWriter, r *http.Request) {
	// swagger:operation DELETE /parties/{id} Parties DeleteParty
	//
	// Deletes party.
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
	//   '204':
	//     description: party deleted
	//   '403':
	//     description: not a host
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: party not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if err := s.hosted(r.Context(), id); err != nil {
		writeErr(r.Context(), w, "delete party", err)
		return
	}

	if err := s.party.Delete(r.Context(), id); err != nil {
		writeErr(r.Context(), w, "delete party", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) publishParty(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /parties/{id}/publish Parties PublishParty
	//
	// Moves draft party to upcoming.
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
	//     description: Party
	//     schema:
	//       "$ref": "#/definitions/Party"
	//   '403':
	//     description: not a host
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: party not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '409':
	//     description: party is not a draft
	//     schema:
	//       "$ref": "#/definitions/Error"

	s.transition(w, r, "publish party", s.party.Publish)
}

func (s server) completeParty(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /parties/{id}/complete Parties CompleteParty
	//
	// Marks party completed and counts it into hosts' and attendants' statistics.
	// Completing already completed party does not change statistics.
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
	//     description: Party
	//     schema:
	//       "$ref": "#/definitions/Party"
	//   '403':
	//     description: not a host
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: party not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '409':
	//     description: party can not be completed from its status
	//     schema:
	//       "$ref": "#/definitions/Error"

	s.transition(w, r, "complete party", s.party.Complete)
}

func (s server) cancelParty(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /parties/{id}/cancel Parties CancelParty
	//
	// Cancels party and posts cancellation announcement into its feed.
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
	//   required: false
	//   schema:
	//     "$ref": "#/definitions/CancelRequest"
	// responses:
	//   '200':
	//     description: Party
	//     schema:
	//       "$ref": "#/definitions/Party"
	//   '403':
	//     description: not a host
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: party not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '409':
	//     description: party is already completed or cancelled
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if err := s.hosted(r.Context(), id); err != nil {
		writeErr(r.Context(), w, "cancel party", err)
		return
	}

	var req CancelRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			writeErr(r.Context(), w, "cancel party", err)
			return
		}
	}

	by, err := s.author(r.Context(), req.Location)
	if err != nil {
		writeErr(r.Context(), w, "cancel party", err)
		return
	}

	p, err := s.party.Cancel(r.Context(), id, by)
	if err != nil {
		writeErr(r.Context(), w, "cancel party", err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

func (s server) transition(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	f func(ctx context.Context, id string) (*entities.Party, error),
) {
	id := chi.URLParam(r, "id")
	if err := s.hosted(r.Context(), id); err != nil {
		writeErr(r.Context(), w, op, err)
		return
	}

	p, err := f(r.Context(), id)
	if err != nil {
		writeErr(r.Context(), w, op, err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

// hosted returns error if the current account does not host the party.
func (s server) hosted(ctx context.Context, partyID string) error {
	acc, err := s.id.CurrentAccount(ctx)
	if err != nil {
		return err
	}

	p, err := s.party.Get(ctx, partyID)
	if err != nil {
		return err
	}

	if !p.HostedBy(acc.ID) {
		return errForbidden
	}

	return nil
}
