package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

const campColumns = `id, camp_name, image, camp_fees, date_time, location, healthcare_professional,
	description, organizer_email, participant_count, created_at`

type campRepo struct{ db *sql.DB }

type scanner interface {
	Scan(dest ...any) error
}

func scanCamp(s scanner) (*model.Camp, error) {
	c := new(model.Camp)
	if err := s.Scan(&c.ID, &c.CampName, &c.Image, &c.CampFees, &c.DateTime, &c.Location,
		&c.HealthcareProfessional, &c.Description, &c.OrganizerEmail, &c.ParticipantCount, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *campRepo) Create(ctx context.Context, c *model.Camp) error {
	c.ID = uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO camps (` + campColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.CampName, c.Image, c.CampFees, c.DateTime, c.Location,
		c.HealthcareProfessional, c.Description, c.OrganizerEmail, c.ParticipantCount, c.CreatedAt)
	return err
}

func (r *campRepo) GetByID(ctx context.Context, id string) (*model.Camp, error) {
	const q = `SELECT ` + campColumns + ` FROM camps WHERE id = ?`
	c, err := scanCamp(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *campRepo) query(ctx context.Context, q string, args ...any) ([]*model.Camp, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Camp, 0)
	for rows.Next() {
		c, err := scanCamp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *campRepo) List(ctx context.Context) ([]*model.Camp, error) {
	return r.query(ctx, `SELECT `+campColumns+` FROM camps ORDER BY created_at, id`)
}

func (r *campRepo) Update(ctx context.Context, id string, p model.CampPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.CampName != nil {
		add("camp_name", *p.CampName)
	}
	if p.Image != nil {
		add("image", *p.Image)
	}
	if p.CampFees != nil {
		add("camp_fees", *p.CampFees)
	}
	if p.DateTime != nil {
		add("date_time", *p.DateTime)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.HealthcareProfessional != nil {
		add("healthcare_professional", *p.HealthcareProfessional)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.ParticipantCount != nil {
		add("participant_count", *p.ParticipantCount)
	}
	if len(sets) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, `UPDATE camps SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *campRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM camps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// AdjustParticipantCount runs one relative UPDATE; the floor check is part
// of the WHERE clause so concurrent decrements cannot overshoot zero.
func (r *campRepo) AdjustParticipantCount(ctx context.Context, id string, delta int) error {
	floor := 0
	if delta < 0 {
		floor = -delta
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE camps SET participant_count = participant_count + ? WHERE id = ? AND participant_count >= ?`,
		delta, id, floor)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM camps WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	return repository.ErrCountFloor
}

func (r *campRepo) ListPopular(ctx context.Context, limit int) ([]*model.Camp, error) {
	if limit <= 0 {
		return r.query(ctx, `SELECT `+campColumns+` FROM camps ORDER BY participant_count DESC, created_at, id`)
	}
	return r.query(ctx, `SELECT `+campColumns+` FROM camps ORDER BY participant_count DESC, created_at, id LIMIT ?`, limit)
}
