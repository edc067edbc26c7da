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

const participantColumns = `id, camp_id, camp_name, camp_fees, location, healthcare_professional,
	participant_name, participant_email, age, phone, gender, emergency_contact,
	payment_status, confirmation_status, transaction_id, created_at`

type participantRepo struct{ db *sql.DB }

func scanParticipant(s scanner) (*model.Participant, error) {
	p := new(model.Participant)
	if err := s.Scan(&p.ID, &p.CampID, &p.CampName, &p.CampFees, &p.Location, &p.HealthcareProfessional,
		&p.ParticipantName, &p.ParticipantEmail, &p.Age, &p.Phone, &p.Gender, &p.EmergencyContact,
		&p.PaymentStatus, &p.ConfirmationStatus, &p.TransactionID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *participantRepo) Create(ctx context.Context, p *model.Participant) error {
	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO participants (` + participantColumns + `)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.CampID, p.CampName, p.CampFees, p.Location, p.HealthcareProfessional,
		p.ParticipantName, p.ParticipantEmail, p.Age, p.Phone, p.Gender, p.EmergencyContact,
		p.PaymentStatus, p.ConfirmationStatus, p.TransactionID, p.CreatedAt)
	return err
}

func (r *participantRepo) GetByID(ctx context.Context, id string) (*model.Participant, error) {
	p, err := scanParticipant(r.db.QueryRowContext(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepo) query(ctx context.Context, q string, args ...any) ([]*model.Participant, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *participantRepo) List(ctx context.Context) ([]*model.Participant, error) {
	return r.query(ctx, `SELECT `+participantColumns+` FROM participants ORDER BY created_at, id`)
}

func (r *participantRepo) ListByEmail(ctx context.Context, email string) ([]*model.Participant, error) {
	return r.query(ctx, `SELECT `+participantColumns+` FROM participants WHERE participant_email = ? ORDER BY created_at, id`, email)
}

func statusAssignments(p model.StatusPatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	if p.PaymentStatus != nil {
		sets = append(sets, "payment_status = ?")
		args = append(args, *p.PaymentStatus)
	}
	if p.ConfirmationStatus != nil {
		sets = append(sets, "confirmation_status = ?")
		args = append(args, *p.ConfirmationStatus)
	}
	if p.TransactionID != nil {
		sets = append(sets, "transaction_id = ?")
		args = append(args, *p.TransactionID)
	}
	return sets, args
}

func (r *participantRepo) UpdateByID(ctx context.Context, id string, p model.StatusPatch) error {
	sets, args := statusAssignments(p)
	if len(sets) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, `UPDATE participants SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *participantRepo) UpdateByCamp(ctx context.Context, campID string, p model.StatusPatch) (int64, error) {
	sets, args := statusAssignments(p)
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, campID)
	res, err := r.db.ExecContext(ctx, `UPDATE participants SET `+strings.Join(sets, ", ")+` WHERE camp_id = ?`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *participantRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}
