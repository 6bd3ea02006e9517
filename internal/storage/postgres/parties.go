package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/fomo-app/fomo/internal/entities"
	"github.com/fomo-app/fomo/internal/storage"
)

const partyColumns = `id, name, date, time, location, description, attendees, hosts, status,
	location_tags, user_tags, co_hosts, require_approval, invites, created_at, updated_at`

const insertParty = `INSERT INTO parties(` + partyColumns + `)
	VALUES(:id, :name, :date, :time, :location, :description, :attendees, :hosts, :status,
		:location_tags, :user_tags, :co_hosts, :require_approval, :invites, :created_at, :updated_at)`

type partyDTO struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Date            string         `db:"date"`
	Time            string         `db:"time"`
	Location        string         `db:"location"`
	Description     string         `db:"description"`
	Attendees       int            `db:"attendees"`
	Hosts           pq.StringArray `db:"hosts"`
	Status          string         `db:"status"`
	LocationTags    types.JSONText `db:"location_tags"`
	UserTags        types.JSONText `db:"user_tags"`
	CoHosts         types.JSONText `db:"co_hosts"`
	RequireApproval bool           `db:"require_approval"`
	Invites         types.JSONText `db:"invites"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (s pg) ListParties(ctx context.Context, p *storage.ListPartiesParams) ([]*entities.Party, error) {
	var (
		where []string
		args  []interface{}
	)

	if p != nil && p.Status != nil {
		args = append(args, string(*p.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	if p != nil && p.ExcludeStatus != nil {
		args = append(args, string(*p.ExcludeStatus))
		where = append(where, fmt.Sprintf("status <> $%d", len(args)))
	}

	query := `SELECT ` + partyColumns + ` FROM parties`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	var dto []*partyDTO
	if err := sqlx.SelectContext(ctx, s.ext, &dto, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Party, len(dto))
	for i, v := range dto {
		p, err := fromPartyDTO(v)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}

	return out, nil
}

func (s pg) GetParty(ctx context.Context, id string) (*entities.Party, error) {
	var dto partyDTO

	if err := sqlx.GetContext(ctx, s.ext, &dto,
		`SELECT `+partyColumns+` FROM parties WHERE id = $1`+s.forUpdate(), id,
	); err != nil {
		return nil, notFound(err)
	}

	return fromPartyDTO(&dto)
}

func (s pg) CreateParty(ctx context.Context, p *entities.Party) (*entities.Party, error) {
	dto, err := toPartyDTO(p)
	if err != nil {
		return nil, err
	}

	query, args, err := s.ext.BindNamed(insertParty+` RETURNING `+partyColumns, dto)
	if err != nil {
		return nil, fmt.Errorf("failed to bind: %w", err)
	}

	var created partyDTO
	if err := sqlx.GetContext(ctx, s.ext, &created, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: party %s", storage.ErrAlreadyExists, p.ID)
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return fromPartyDTO(&created)
}

// UpdateParty writes only present fields of u.
func (s pg) UpdateParty(ctx context.Context, id string, u *entities.PartyUpdate, updatedAt time.Time) (*entities.Party, error) {
	var (
		set  []string
		args []interface{}
	)

	add := func(column string, v interface{}) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	addJSON := func(column string, v interface{}) error {
		j, err := toJSON(v, true)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", column, err)
		}
		add(column, j)
		return nil
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Date != nil {
		add("date", *u.Date)
	}
	if u.Time != nil {
		add("time", *u.Time)
	}
	if u.Location != nil {
		add("location", *u.Location)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Hosts != nil {
		add("hosts", stringArray(*u.Hosts))
	}
	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.Attendees != nil {
		add("attendees", *u.Attendees)
	}
	if u.LocationTags != nil {
		if err := addJSON("location_tags", *u.LocationTags); err != nil {
			return nil, err
		}
	}
	if u.UserTags != nil {
		if err := addJSON("user_tags", *u.UserTags); err != nil {
			return nil, err
		}
	}
	if u.CoHosts != nil {
		if err := addJSON("co_hosts", *u.CoHosts); err != nil {
			return nil, err
		}
	}
	if u.Invites != nil {
		if err := addJSON("invites", *u.Invites); err != nil {
			return nil, err
		}
	}
	if u.RequireApproval != nil {
		add("require_approval", *u.RequireApproval)
	}

	add("updated_at", updatedAt.UTC())
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE parties SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), partyColumns)

	var dto partyDTO
	if err := sqlx.GetContext(ctx, s.ext, &dto, query, args...); err != nil {
		return nil, notFound(err)
	}

	return fromPartyDTO(&dto)
}

func (s pg) DeleteParty(ctx context.Context, id string) error {
	res, err := s.ext.ExecContext(ctx, `DELETE FROM parties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return checkAffected(res)
}

// ImportParties inserts parties skipping already known ids. It returns number of inserted rows.
func (s pg) ImportParties(ctx context.Context, p []*entities.Party) (int, error) {
	var n int

	for _, v := range p {
		dto, err := toPartyDTO(v)
		if err != nil {
			return n, err
		}

		res, err := sqlx.NamedExecContext(ctx, s.ext, insertParty+` ON CONFLICT(id) DO NOTHING`, dto)
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

func stringArray(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return s
}

func toPartyDTO(p *entities.Party) (*partyDTO, error) {
	locationTags, err := toJSON(p.LocationTags, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal location tags: %w", err)
	}
	userTags, err := toJSON(p.UserTags, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user tags: %w", err)
	}
	coHosts, err := toJSON(p.CoHosts, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal co-hosts: %w", err)
	}
	invites, err := toJSON(p.Invites, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invites: %w", err)
	}

	status := p.Status
	if status == "" {
		status = entities.PartyStatusDraft
	}

	return &partyDTO{
		ID:              p.ID,
		Name:            p.Name,
		Date:            p.Date,
		Time:            p.Time,
		Location:        p.Location,
		Description:     p.Description,
		Attendees:       p.Attendees,
		Hosts:           stringArray(p.Hosts),
		Status:          string(status),
		LocationTags:    locationTags,
		UserTags:        userTags,
		CoHosts:         coHosts,
		RequireApproval: p.RequireApproval,
		Invites:         invites,
		CreatedAt:       p.CreatedAt.UTC(),
		UpdatedAt:       p.UpdatedAt.UTC(),
	}, nil
}

func fromPartyDTO(d *partyDTO) (*entities.Party, error) {
	p := entities.Party{
		ID:              d.ID,
		Name:            d.Name,
		Date:            d.Date,
		Time:            d.Time,
		Location:        d.Location,
		Description:     d.Description,
		Attendees:       d.Attendees,
		Hosts:           []string(d.Hosts),
		Status:          entities.PartyStatus(d.Status),
		RequireApproval: d.RequireApproval,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	if err := fromJSON(d.LocationTags, &p.LocationTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location tags of %s: %w", d.ID, err)
	}
	if err := fromJSON(d.UserTags, &p.UserTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user tags of %s: %w", d.ID, err)
	}
	if err := fromJSON(d.CoHosts, &p.CoHosts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal co-hosts of %s: %w", d.ID, err)
	}
	if err := fromJSON(d.Invites, &p.Invites); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invites of %s: %w", d.ID, err)
	}

	if p.Hosts == nil {
		p.Hosts = []string{}
	}
	if p.LocationTags == nil {
		p.LocationTags = []entities.LocationTag{}
	}
	if p.UserTags == nil {
		p.UserTags = []entities.UserTag{}
	}
	if p.CoHosts == nil {
		p.CoHosts = []entities.CoHost{}
	}
	if p.Invites == nil {
		p.Invites = []entities.Invite{}
	}

	return &p, nil
}
