package mysqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/camp-registration/internal/model"
)

type feedbackRepo struct{ db *sql.DB }

func (r *feedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	f.ID = uuid.NewString()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (id, camp_id, participant_name, participant_email, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.CampID, f.ParticipantName, f.ParticipantEmail, f.Rating, f.Comment, f.CreatedAt)
	return err
}

func (r *feedbackRepo) query(ctx context.Context, q string, args ...any) ([]*model.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Feedback, 0)
	for rows.Next() {
		f := new(model.Feedback)
		if err := rows.Scan(&f.ID, &f.CampID, &f.ParticipantName, &f.ParticipantEmail, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

const feedbackSelect = `SELECT id, camp_id, participant_name, participant_email, rating, comment, created_at FROM feedback`

func (r *feedbackRepo) List(ctx context.Context) ([]*model.Feedback, error) {
	return r.query(ctx, feedbackSelect+` ORDER BY created_at DESC, id`)
}

func (r *feedbackRepo) ListByCamp(ctx context.Context, campID string) ([]*model.Feedback, error) {
	return r.query(ctx, feedbackSelect+` WHERE camp_id = ? ORDER BY created_at DESC, id`, campID)
}
