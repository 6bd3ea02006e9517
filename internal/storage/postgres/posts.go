package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/storage"
)

const postColumns = `id, party_id, user_id, user_name, user_username, user_avatar, user_is_host,
	content, media, gif_url, tags, poll, location, reactions, comments, reposts, reposted_by,
	created_at, updated_at`

const insertPost = `
	INSERT INTO posts(` + postColumns + `)
	VALUES(:id, :party_id, :user_id, :user_name, :user_username, :user_avatar, :user_is_host,
		:content, :media, :gif_url, :tags, :poll, :location, :reactions, :comments, :reposts, :reposted_by,
		:created_at, :updated_at)`

type postDTO struct {
	ID           string         `db:"id"`
	PartyID      string         `db:"party_id"`
	UserID       string         `db:"user_id"`
	UserName     string         `db:"user_name"`
	UserUsername string         `db:"user_username"`
	UserAvatar   string         `db:"user_avatar"`
	UserIsHost   bool           `db:"user_is_host"`
	Content      string         `db:"content"`
	Media        types.JSONText `db:"media"`
	GifURL       string         `db:"gif_url"`
	Tags         types.JSONText `db:"tags"`
	Poll         types.JSONText `db:"poll"`
	Location     string         `db:"location"`
	Reactions    types.JSONText `db:"reactions"`
	Comments     types.JSONText `db:"comments"`
	Reposts      int            `db:"reposts"`
	RepostedBy   types.JSONText `db:"reposted_by"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (s pg) ListPosts(ctx context.Context, partyID string) ([]*entities.Post, error) {
	var dto []*postDTO

	if err := sqlx.SelectContext(ctx, s.ext, &dto,
		`SELECT `+postColumns+` FROM posts WHERE party_id = $1 ORDER BY created_at DESC`, partyID,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Post, len(dto))
	for i, v := range dto {
		p, err := fromPostDTO(v)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}

	return out, nil
}

func (s pg) GetPost(ctx context.Context, id string) (*entities.Post, error) {
	var dto postDTO

	if err := sqlx.GetContext(ctx, s.ext, &dto,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`+s.forUpdate(), id,
	); err != nil {
		return nil, notFound(err)
	}

	return fromPostDTO(&dto)
}

func (s pg) CreatePost(ctx context.Context, p *entities.Post) (*entities.Post, error) {
	dto, err := toPostDTO(p)
	if err != nil {
		return nil, err
	}

	query, args, err := s.ext.BindNamed(insertPost+` RETURNING `+postColumns, dto)
	if err != nil {
		return nil, fmt.Errorf("failed to bind: %w", err)
	}

	var created postDTO
	if err := sqlx.GetContext(ctx, s.ext, &created, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: post %s", storage.ErrAlreadyExists, p.ID)
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return fromPostDTO(&created)
}

// UpdatePost overwrites mutable fields of the post.
func (s pg) UpdatePost(ctx context.Context, p *entities.Post) error {
	dto, err := toPostDTO(p)
	if err != nil {
		return err
	}

	res, err := sqlx.NamedExecContext(ctx, s.ext, `
		UPDATE posts SET
			content = :content,
			media = :media,
			gif_url = :gif_url,
			tags = :tags,
			poll = :poll,
			location = :location,
			reactions = :reactions,
			comments = :comments,
			reposts = :reposts,
			reposted_by = :reposted_by,
			updated_at = :updated_at
		WHERE id = :id
	`, dto)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return checkAffected(res)
}

// ImportPosts inserts posts skipping already known ids. It returns number of inserted rows.
func (s pg) ImportPosts(ctx context.Context, p []*entities.Post) (int, error) {
	var n int

	for _, v := range p {
		dto, err := toPostDTO(v)
		if err != nil {
			return n, err
		}

		res, err := sqlx.NamedExecContext(ctx, s.ext, insertPost+` ON CONFLICT(id) DO NOTHING`, dto)
		if err != nil {
			return n, fmt.Errorf("failed to exec: %w", err)
		}

		c, err := res.RowsAffected()
		if err != nil {
			return n, fmt.Errorf("failed to get affected rows: %w", err)
		}
		n += int(c)
	}

	return n, nil
}

func (s pg) DeletePost(ctx context.Context, id string) error {
	res, err := s.ext.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return checkAffected(res)
}

func toPostDTO(p *entities.Post) (*postDTO, error) {
	media, err := toJSON(p.Media, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal media: %w", err)
	}
	tags, err := toJSON(p.Tags, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	poll, err := toJSON(p.Poll, false)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal poll: %w", err)
	}
	// viewer flags are computed on read
	stored := make([]entities.Reaction, len(p.Reactions))
	for i, v := range p.Reactions {
		v.UserReacted = false
		stored[i] = v
	}

	reactions, err := toJSON(stored, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reactions: %w", err)
	}
	comments, err := toJSON(p.Comments, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comments: %w", err)
	}
	repostedBy, err := toJSON(p.RepostedBy, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reposted by: %w", err)
	}

	return &postDTO{
		ID:           p.ID,
		PartyID:      p.PartyID,
		UserID:       p.User.ID,
		UserName:     p.User.Name,
		UserUsername: p.User.Username,
		UserAvatar:   p.User.Avatar,
		UserIsHost:   p.User.IsHost,
		Content:      p.Content,
		Media:        media,
		GifURL:       p.GifURL,
		Tags:         tags,
		Poll:         poll,
		Location:     p.Location,
		Reactions:    reactions,
		Comments:     comments,
		Reposts:      p.Reposts,
		RepostedBy:   repostedBy,
		CreatedAt:    p.Timestamp.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}, nil
}

func fromPostDTO(d *postDTO) (*entities.Post, error) {
	p := entities.Post{
		ID:      d.ID,
		PartyID: d.PartyID,
		User: entities.Author{
			ID:       d.UserID,
			Name:     d.UserName,
			Username: d.UserUsername,
			Avatar:   d.UserAvatar,
			IsHost:   d.UserIsHost,
		},
		Content:   d.Content,
		GifURL:    d.GifURL,
		Location:  d.Location,
		Reposts:   d.Reposts,
		Timestamp: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	if err := fromJSON(d.Media, &p.Media); err != nil {
		return nil, fmt.Errorf("failed to unmarshal media of %s: %w", d.ID, err)
	}
	if err := fromJSON(d.Tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags of %s: %w", d.ID, err)
	}
	if err := fromJSON(d.Poll, &p.Poll); err != nil {
		return nil, fmt.Errorf("failed to unmarshal poll of %s: %w", d.ID, err)
	}
	if err := fromJSON(d.Reactions, &p.Reactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reactions of %s: %w", d.ID, err)
	}
	if err := fromJSON(d.Comments, &p.Comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments of %s: %w", d.ID, err)
	}
	if err := fromJSON(d.RepostedBy, &p.RepostedBy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reposted by of %s: %w", d.ID, err)
	}

	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Reactions == nil {
		p.Reactions = []entities.Reaction{}
	}
	if p.Comments == nil {
		p.Comments = []entities.Comment{}
	}

	return &p, nil
}
