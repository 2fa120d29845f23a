// Package memory holds in-memory repository implementations with the same
// semantics as the postgresql ones, including the uniqueness and
// check-and-set guarantees. Services are tested against these.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
)

type TimbraturaRepository struct {
	mu      sync.Mutex
	records map[string]timbratura.Timbratura
}

func NewTimbraturaRepository() *TimbraturaRepository {
	return &TimbraturaRepository{records: make(map[string]timbratura.Timbratura)}
}

func (r *TimbraturaRepository) Create(_ context.Context, t timbratura.Timbratura) (timbratura.Timbratura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirror of the partial unique index: one open record per (user, date).
	for _, existing := range r.records {
		if existing.UserID == t.UserID && existing.Date.Equal(t.Date) && existing.Uscita == nil {
			return timbratura.Timbratura{}, timbratura.ErrOpenRecordConflict
		}
	}

	t.ID = uuid.NewString()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.records[t.ID] = t
	return t, nil
}

func (r *TimbraturaRepository) GetByID(_ context.Context, id string) (timbratura.Timbratura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.records[id]
	if !ok {
		return timbratura.Timbratura{}, timbratura.ErrTimbraturaNotFound
	}
	return t, nil
}

func (r *TimbraturaRepository) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*timbratura.Timbratura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.records {
		if t.UserID == userID && t.Date.Equal(date) {
			copied := t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *TimbraturaRepository) Update(_ context.Context, t timbratura.Timbratura) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[t.ID]; !ok {
		return timbratura.ErrTimbraturaNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	r.records[t.ID] = t
	return nil
}

func (r *TimbraturaRepository) ListByUser(_ context.Context, userID string, from, to time.Time) ([]timbratura.Timbratura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []timbratura.Timbratura
	for _, t := range r.records {
		if t.UserID == userID && !t.Date.Before(from) && t.Date.Before(to) {
			result = append(result, t)
		}
	}
	sortByDate(result)
	return result, nil
}

func (r *TimbraturaRepository) ListCompleted(_ context.Context, from, to time.Time) ([]timbratura.Timbratura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []timbratura.Timbratura
	for _, t := range r.records {
		if t.Uscita != nil && !t.Date.Before(from) && t.Date.Before(to) {
			result = append(result, t)
		}
	}
	sortByDate(result)
	return result, nil
}

func (r *TimbraturaRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return timbratura.ErrTimbraturaNotFound
	}
	delete(r.records, id)
	return nil
}

func sortByDate(records []timbratura.Timbratura) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Entrata.Before(records[j].Entrata)
	})
}
