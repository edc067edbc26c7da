// Package memstore is an in-memory store driver.  It backs local runs
// (STORE_DRIVER=memory) and the service tests.  Every method takes the
// single store mutex, so each call is atomic with respect to the others,
// matching the per-document atomicity the real drivers provide.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

type campRow struct {
	seq  uint64
	camp model.Camp
}

type participantRow struct {
	seq uint64
	rec model.Participant
}

type state struct {
	mu           sync.Mutex
	seq          uint64
	camps        map[string]*campRow
	participants map[string]*participantRow
	users        map[string]model.User // keyed by email
	userSeq      map[string]uint64
	feedback     []model.Feedback
	now          func() time.Time
}

func (s *state) next() uint64 {
	s.seq++
	return s.seq
}

// New returns a repository.Store backed by process memory.
func New() *repository.Store {
	s := &state{
		camps:        make(map[string]*campRow),
		participants: make(map[string]*participantRow),
		users:        make(map[string]model.User),
		userSeq:      make(map[string]uint64),
		now:          func() time.Time { return time.Now().UTC() },
	}
	return repository.NewStore(&campRepo{s}, &participantRepo{s}, &userRepo{s}, &feedbackRepo{s}, nil)
}

type campRepo struct{ s *state }

func (r *campRepo) Create(_ context.Context, c *model.Camp) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.now()
	}
	r.s.camps[c.ID] = &campRow{seq: r.s.next(), camp: *c}
	return nil
}

func (r *campRepo) GetByID(_ context.Context, id string) (*model.Camp, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.camps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := row.camp
	return &c, nil
}

func (r *campRepo) sorted(less func(a, b *campRow) bool) []*model.Camp {
	rows := make([]*campRow, 0, len(r.s.camps))
	for _, row := range r.s.camps {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	out := make([]*model.Camp, 0, len(rows))
	for _, row := range rows {
		c := row.camp
		out = append(out, &c)
	}
	return out
}

func (r *campRepo) List(_ context.Context) ([]*model.Camp, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(a, b *campRow) bool { return a.seq < b.seq }), nil
}

func (r *campRepo) Update(_ context.Context, id string, p model.CampPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.camps[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Apply(&row.camp)
	return nil
}

func (r *campRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.camps[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.camps, id)
	return nil
}

func (r *campRepo) AdjustParticipantCount(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.camps[id]
	if !ok {
		return repository.ErrNotFound
	}
	if row.camp.ParticipantCount+delta < 0 {
		return repository.ErrCountFloor
	}
	row.camp.ParticipantCount += delta
	return nil
}

func (r *campRepo) ListPopular(_ context.Context, limit int) ([]*model.Camp, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.sorted(func(a, b *campRow) bool {
		if a.camp.ParticipantCount != b.camp.ParticipantCount {
			return a.camp.ParticipantCount > b.camp.ParticipantCount
		}
		return a.seq < b.seq
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type participantRepo struct{ s *state }

func (r *participantRepo) Create(_ context.Context, p *model.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.now()
	}
	r.s.participants[p.ID] = &participantRow{seq: r.s.next(), rec: *p}
	return nil
}

func (r *participantRepo) GetByID(_ context.Context, id string) (*model.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.participants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := row.rec
	return &p, nil
}

func (r *participantRepo) filter(keep func(*model.Participant) bool) []*model.Participant {
	rows := make([]*participantRow, 0, len(r.s.participants))
	for _, row := range r.s.participants {
		if keep(&row.rec) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*model.Participant, 0, len(rows))
	for _, row := range rows {
		p := row.rec
		out = append(out, &p)
	}
	return out
}

func (r *participantRepo) List(_ context.Context) ([]*model.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(*model.Participant) bool { return true }), nil
}

func (r *participantRepo) ListByEmail(_ context.Context, email string) ([]*model.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(p *model.Participant) bool { return p.ParticipantEmail == email }), nil
}

func (r *participantRepo) UpdateByID(_ context.Context, id string, p model.StatusPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.participants[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Apply(&row.rec)
	return nil
}

func (r *participantRepo) UpdateByCamp(_ context.Context, campID string, p model.StatusPatch) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, row := range r.s.participants {
		if row.rec.CampID == campID {
			p.Apply(&row.rec)
			n++
		}
	}
	return n, nil
}

func (r *participantRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.participants[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.participants, id)
	return nil
}

type userRepo struct{ s *state }

func (r *userRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := r.s.users[key]; ok {
		return repository.ErrDuplicate
	}
	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.now()
	}
	r.s.users[key] = *u
	r.s.userSeq[key] = r.s.next()
	return nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) List(_ context.Context) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keys := make([]string, 0, len(r.s.users))
	for k := range r.s.users {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return r.s.userSeq[keys[i]] < r.s.userSeq[keys[j]] })
	out := make([]*model.User, 0, len(keys))
	for _, k := range keys {
		u := r.s.users[k]
		out = append(out, &u)
	}
	return out, nil
}

type feedbackRepo struct{ s *state }

func (r *feedbackRepo) Create(_ context.Context, f *model.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f.ID = uuid.NewString()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = r.s.now()
	}
	r.s.feedback = append(r.s.feedback, *f)
	return nil
}

// List returns feedback newest first, like the other drivers.
func (r *feedbackRepo) List(_ context.Context) ([]*model.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Feedback, 0, len(r.s.feedback))
	for i := len(r.s.feedback) - 1; i >= 0; i-- {
		f := r.s.feedback[i]
		out = append(out, &f)
	}
	return out, nil
}

func (r *feedbackRepo) ListByCamp(_ context.Context, campID string) ([]*model.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Feedback, 0)
	for i := len(r.s.feedback) - 1; i >= 0; i-- {
		if r.s.feedback[i].CampID == campID {
			f := r.s.feedback[i]
			out = append(out, &f)
		}
	}
	return out, nil
}
