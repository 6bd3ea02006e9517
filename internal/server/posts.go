package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/feed"
	"github.com/fomo-app/fomo/internal/identity"
)

func (s server) listPosts(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /parties/{id}/posts Feed ListPosts
	//
	// Returns party feed, newest first.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// - name: location
	//   description: filters posts by location tag
	//   in: query
	//   required: false
	// - name: tag
	//   description: filters posts by tag
	//   in: query
	//   required: false
	// - name: hashtag
	//   description: filters posts which content contains the hashtag
	//   in: query
	//   required: false
	//   example: afterparty
	// responses:
	//   '200':
	//     description: Posts
	//     schema:
	//       "$ref": "#/definitions/ListPostsResponse"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	viewerID, err := s.viewer(r.Context())
	if err != nil {
		writeErr(r.Context(), w, "list posts", err)
		return
	}

	q := r.URL.Query()

	p, err := s.feed.List(r.Context(), chi.URLParam(r, "id"), viewerID, feed.Filter{
		Location: q.Get("location"),
		Tag:      q.Get("tag"),
		Hashtag:  q.Get("hashtag"),
	})
	if err != nil {
		writeErr(r.Context(), w, "list posts", err)
		return
	}

	writeOK(w, http.StatusOK, ListPostsResponse{Posts: p})
}

func (s server) createPost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /parties/{id}/posts Feed CreatePost
	//
	// Creates post in party feed on behalf of current account.
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
	//     "$ref": "#/definitions/CreatePostRequest"
	// responses:
	//   '201':
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '400':
	//     description: post is empty
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req CreatePostRequest
	if err := decode(r, &req); err != nil {
		writeErr(r.Context(), w, "create post", err)
		return
	}

	a, err := s.author(r.Context(), req.Location)
	if err != nil {
		writeErr(r.Context(), w, "create post", err)
		return
	}

	p, err := s.feed.Create(r.Context(), &entities.Post{
		PartyID:  chi.URLParam(r, "id"),
		User:     a,
		Content:  req.Content,
		Media:    req.Media,
		GifURL:   req.GifURL,
		Tags:     req.Tags,
		Poll:     req.Poll,
		Location: req.Location,
	})
	if err != nil {
		writeErr(r.Context(), w, "create post", err)
		return
	}

	writeOK(w, http.StatusCreated, p)
}

func (s server) announce(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /parties/{id}/announcements Feed Announce
	//
	// Creates host announcement.
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
	//     "$ref": "#/definitions/AnnounceRequest"
	// responses:
	//   '201':
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
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

	partyID := chi.URLParam(r, "id")
	if err := s.hosted(r.Context(), partyID); err != nil {
		writeErr(r.Context(), w, "announce", err)
		return
	}

	var req AnnounceRequest
	if err := decode(r, &req); err != nil {
		writeErr(r.Context(), w, "announce", err)
		return
	}

	a, err := s.author(r.Context(), "")
	if err != nil {
		writeErr(r.Context(), w, "announce", err)
		return
	}

	p, err := s.feed.Announce(r.Context(), partyID, a, req.Content, req.Tags...)
	if err != nil {
		writeErr(r.Context(), w, "announce", err)
		return
	}

	writeOK(w, http.StatusCreated, p)
}

func (s server) getPost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /posts/{id} Feed GetPost
	//
	// Returns post prepared for current account.
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
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	viewerID, err := s.viewer(r.Context())
	if err != nil {
		writeErr(r.Context(), w, "get post", err)
		return
	}

	p, err := s.feed.Get(r.Context(), chi.URLParam(r, "id"), viewerID)
	if err != nil {
		writeErr(r.Context(), w, "get post", err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

func (s server) deletePost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation DELETE /posts/{id} Feed DeletePost
	//
	// Deletes own post.
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
	//     description: post deleted
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: post of another user
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")

	acc, err := s.id.CurrentAccount(r.Context())
	if err != nil {
		writeErr(r.Context(), w, "delete post", err)
		return
	}

	p, err := s.feed.Get(r.Context(), id, acc.ID)
	if err != nil {
		writeErr(r.Context(), w, "delete post", err)
		return
	}

	if p.User.ID != acc.ID {
		writeErr(r.Context(), w, "delete post", errForbidden)
		return
	}

	if err := s.feed.Delete(r.Context(), id); err != nil {
		writeErr(r.Context(), w, "delete post", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) react(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/{id}/reactions Feed React
	//
	// Toggles reaction of current account. Reacting with another emoji moves the reaction.
	// Unknown emojis are added as new reactions.
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
	//     "$ref": "#/definitions/ReactRequest"
	// responses:
	//   '200':
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	acc, err := s.id.CurrentAccount(r.Context())
	if err != nil {
		writeErr(r.Context(), w, "react", err)
		return
	}

	var req ReactRequest
	if err := decode(r, &req); err != nil {
		writeErr(r.Context(), w, "react", err)
		return
	}

	p, err := s.feed.React(r.Context(), chi.URLParam(r, "id"), acc.ID, req.Emoji)
	if err != nil {
		writeErr(r.Context(), w, "react", err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

func (s server) comment(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/{id}/comments Feed Comment
	//
	// Adds comment or reply at any depth.
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
	//     "$ref": "#/definitions/CommentRequest"
	// responses:
	//   '201':
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: post or parent comment not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req CommentRequest
	if err := decode(r, &req); err != nil {
		writeErr(r.Context(), w, "comment", err)
		return
	}

	a, err := s.author(r.Context(), "")
	if err != nil {
		writeErr(r.Context(), w, "comment", err)
		return
	}

	p, err := s.feed.Comment(r.Context(), chi.URLParam(r, "id"), req.ParentID, entities.Comment{
		User:    a,
		Content: req.Content,
		GifURL:  req.GifURL,
	})
	if err != nil {
		writeErr(r.Context(), w, "comment", err)
		return
	}

	writeOK(w, http.StatusCreated, p)
}

func (s server) deleteComment(w http.ResponseWriter, r *http.Request) {
	// swagger:operation DELETE /posts/{id}/comments/{comment} Feed DeleteComment
	//
	// Deletes comment with its replies. Comment and post authors may delete it.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// - name: comment
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: comment of another user
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: post or comment not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	acc, err := s.id.CurrentAccount(r.Context())
	if err != nil {
		writeErr(r.Context(), w, "delete comment", err)
		return
	}

	p, err := s.feed.DeleteComment(r.Context(), chi.URLParam(r, "id"), acc.ID, chi.URLParam(r, "comment"))
	if err != nil {
		writeErr(r.Context(), w, "delete comment", err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

func (s server) repost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/{id}/reposts Feed Repost
	//
	// Toggles repost of current account.
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
	//     description: Post
	//     schema:
	//       "$ref": "#/definitions/Post"
	//   '401':
	//     description: unauthorized
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: post not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	acc, err := s.id.CurrentAccount(r.Context())
	if err != nil {
		writeErr(r.Context(), w, "repost", err)
		return
	}

	p, err := s.feed.Repost(r.Context(), chi.URLParam(r, "id"), acc.ID)
	if err != nil {
		writeErr(r.Context(), w, "repost", err)
		return
	}

	writeOK(w, http.StatusOK, p)
}

// viewer returns id of the current account or empty string for anonymous requests.
func (s server) viewer(ctx context.Context) (string, error) {
	if _, ok := identity.TokenFromContext(ctx); !ok {
		return "", nil
	}

	acc, err := s.id.CurrentAccount(ctx)
	if err != nil {
		if errors.Is(err, identity.ErrUnauthorized) {
			return "", nil
		}
		return "", err
	}

	return acc.ID, nil
}
