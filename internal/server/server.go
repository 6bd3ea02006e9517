// Package server Fomo
//
// The Fomo is a party planning service which keeps profiles, parties and feeds in sync
// between the remote store and devices.
//
//     Schemes: https
//     BasePath: /v1
//     Version: 1.0.0
//
//     Produces:
//     - application/json
//     Consumes:
//     - application/json
//
// swagger:meta
package server

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/fomo-app/fomo/internal/feed"
	"github.com/fomo-app/fomo/internal/identity"
	mm "github.com/fomo-app/fomo/internal/middleware"
	"github.com/fomo-app/fomo/internal/party"
	"github.com/fomo-app/fomo/internal/profile"
	"github.com/fomo-app/fomo/internal/realtime"
)

const maxBodySize = 1 << 20

// Subscriber is a source of change events.
type Subscriber interface {
	Subscribe(f realtime.Filter, cb func(e realtime.Event)) *realtime.Subscription
	Unsubscribe(s *realtime.Subscription)
}

// Services ...
type Services struct {
	Identity identity.Service
	Profile  profile.Service
	Party    party.Service
	Feed     feed.Service
	Changes  Subscriber
}

type server struct {
	id      identity.Service
	profile profile.Service
	party   party.Service
	feed    feed.Service
	changes Subscriber
}

// SetupRouter setups handlers to chi router.
func SetupRouter(s Services, r chi.Router, timeout time.Duration) {
	r.Use(
		middleware.RequestID,
		mm.Logger,
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		middleware.Recoverer,
		mm.Auth,
	)

	srv := server{
		id:      s.Identity,
		profile: s.Profile,
		party:   s.Party,
		feed:    s.Feed,
		changes: s.Changes,
	}

	r.Route("/v1", func(r chi.Router) {
		// long-lived connection, must not be limited by timeout
		r.Get("/changes", srv.changesStream)

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Timeout(timeout),
				mm.BodyLimiter(maxBodySize),
			)

			r.Post("/auth/signup", srv.signUp)
			r.Post("/auth/signin", srv.signIn)
			r.Post("/auth/signout", srv.signOut)
			r.Post("/auth/confirm", srv.confirm)
			r.Post("/auth/resend", srv.resendConfirmation)
			r.Get("/account", srv.getAccount)
			r.Patch("/account/metadata", srv.updateMetadata)

			r.Get("/profiles/{id}", srv.getProfile)
			r.Patch("/profiles/{id}", srv.writeProfile)
			r.Get("/profiles/{id}/sync", srv.diagnoseProfile)

			r.Get("/users/{id}/parties", srv.listParties)
			r.Get("/users/{id}/drafts", srv.listDrafts)
			r.Get("/users/{id}/refresh", srv.refreshUser)
			r.Get("/stats", mm.Cached(time.Minute, srv.getStats))

			r.Post("/parties", srv.createParty)
			r.Get("/parties/{id}", srv.getParty)
			r.Patch("/parties/{id}", srv.updateParty)
			r.Delete("/parties/{id}", srv.deleteParty)
			r.Post("/parties/{id}/publish", srv.publishParty)
			r.Post("/parties/{id}/complete", srv.completeParty)
			r.Post("/parties/{id}/cancel", srv.cancelParty)
			r.Get("/parties/{id}/posts", srv.listPosts)
			r.Post("/parties/{id}/posts", srv.createPost)
			r.Post("/parties/{id}/announcements", srv.announce)

			r.Get("/posts/{id}", srv.getPost)
			r.Delete("/posts/{id}", srv.deletePost)
			r.Post("/posts/{id}/reactions", srv.react)
			r.Post("/posts/{id}/comments", srv.comment)
			r.Delete("/posts/{id}/comments/{comment}", srv.deleteComment)
			r.Post("/posts/{id}/reposts", srv.repost)
		})
	})
}
