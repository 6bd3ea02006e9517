package server

import (
	"net/http"

	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/identity"
)

func (s server) signUp(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /auth/signup Auth SignUp
	//
	// Creates account and profile, sends confirmation e-mail.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/SignUpParams"
	// responses:
	//   '201':
	//     description: Session
	//     schema:
	//       "$ref": "#/definitions/Session"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '409':
	//     description: e-mail or username is taken
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	var p identity.SignUpParams
	if err := decode(r, &p); err != nil {
		writeErr(r.Context(), w, "sign up", err)
		return
	}

	session, err := s.id.SignUp(r.Context(), &p)
	if err != nil {
		writeErr(r.Context(), w, "sign up", err)
		return
	}

	writeOK(w, http.StatusCreated, session)
}

func (s server) signIn(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /auth/signin Auth SignIn
	//
	// Creates session.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/SignInRequest"
	// responses:
	//   '200':
	//     description: Session
	//     schema:
	//       "$ref": "#/definitions/Session"
	//   '401':
	//     description: invalid credentials
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '429':
	//     description: too many attempts
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req SignInRequest
	if err := decode(r, &req); err != nil {
		writeErr(r.Context(), w, "sign in", err)
		return
	}

	session, err := s.id.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(r.Context(), w, "sign in", err)
		return
	}

	writeOK(w, http.StatusOK, session)
}

func (s server) signOut(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /auth/signout Auth SignOut
	//
	// Revokes current session.
	//
	// ---
	// produces:
	// - application/json
	// responses:
	//   '204':
	//     description: session revoked
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"

	if err := s.id.SignOut(r.Context()); err != nil {
		writeErr(r.Context(), w, "sign out", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) confirm(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /auth/confirm Auth Confirm
	//
	// Confirms account e-mail with token sent by e-mail.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/ConfirmRequest"
	// responses:
	//   '200':
	//     description: Account
	//     schema:
	//       "$ref": "#/definitions/Account"
	//   '400':
	//     description: invalid or expired token
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req ConfirmRequest
	if err := decode(r, &req); err != nil {
		writeErr(r.Context(), w, "confirm", err)
		return
	}

	acc, err := s.id.Confirm(r.Context(), req.Token)
	if err != nil {
		writeErr(r.Context(), w, "confirm", err)
		return
	}

	writeOK(w, http.StatusOK, acc)
}

func (s server) resendConfirmation(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /auth/resend Auth ResendConfirmation
	//
	// Resends confirmation e-mail. The operation never fails: the outcome is in the result.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/ResendRequest"
	// responses:
	//   '200':
	//     description: Result
	//     schema:
	//       "$ref": "#/definitions/Result"

	var req ResendRequest
	if err := decode(r, &req); err != nil {
		writeErr(r.Context(), w, "resend confirmation", err)
		return
	}

	writeOK(w, http.StatusOK, s.id.ResendConfirmation(r.Context(), req.Email))
}

func (s server) getAccount(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /account Auth GetAccount
	//
	// Returns current account with its metadata.
	//
	// ---
	// produces:
	// - application/json
	// responses:
	//   '200':
	//     description: Account
	//     schema:
	//       "$ref": "#/definitions/Account"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"

	acc, err := s.id.CurrentAccount(r.Context())
	if err != nil {
		writeErr(r.Context(), w, "get account", err)
		return
	}

	writeOK(w, http.StatusOK, acc)
}

func (s server) updateMetadata(w http.ResponseWriter, r *http.Request) {
	// swagger:operation PATCH /account/metadata Auth UpdateMetadata
	//
	// Merges keys into current account metadata.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/Metadata"
	// responses:
	//   '200':
	//     description: Account
	//     schema:
	//       "$ref": "#/definitions/Account"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"

	var md entities.Metadata
	if err := decode(r, &md); err != nil {
		writeErr(r.Context(), w, "update metadata", err)
		return
	}

	acc, err := s.id.UpdateMetadata(r.Context(), md)
	if err != nil {
		writeErr(r.Context(), w, "update metadata", err)
		return
	}

	writeOK(w, http.StatusOK, acc)
}
