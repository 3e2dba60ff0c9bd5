package farmrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cropwise/fieldadvisor/internal/domain/farm"
)

// MemoryRepository keeps all records in process memory. Used for tests and
// local development when no postgres DSN is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	farms   map[uuid.UUID]farm.Farm
	plants  map[uuid.UUID]farm.Plant
	sprays  map[uuid.UUID]farm.SprayRecord
	weather map[uuid.UUID]farm.WeatherRecord
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		farms:   make(map[uuid.UUID]farm.Farm),
		plants:  make(map[uuid.UUID]farm.Plant),
		sprays:  make(map[uuid.UUID]farm.SprayRecord),
		weather: make(map[uuid.UUID]farm.WeatherRecord),
	}
}

func (r *MemoryRepository) CreateFarm(_ context.Context, f farm.Farm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.farms[f.ID] = f
	return nil
}

func (r *MemoryRepository) GetFarm(_ context.Context, id uuid.UUID) (farm.Farm, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.farms[id]
	return f, ok, nil
}

// ListFarms returns every farm when ownerID is zero.
func (r *MemoryRepository) ListFarms(_ context.Context, ownerID int64) ([]farm.Farm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]farm.Farm, 0, len(r.farms))
	for _, f := range r.farms {
		if ownerID != 0 && f.OwnerID != ownerID {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) UpdateFarm(_ context.Context, f farm.Farm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.farms[f.ID] = f
	return nil
}

func (r *MemoryRepository) DeleteFarm(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.farms, id)
	for pid, p := range r.plants {
		if p.FarmID == id {
			delete(r.plants, pid)
		}
	}
	for sid, s := range r.sprays {
		if s.FarmID == id {
			delete(r.sprays, sid)
		}
	}
	for wid, w := range r.weather {
		if w.FarmID == id {
			delete(r.weather, wid)
		}
	}
	return nil
}

func (r *MemoryRepository) CreatePlant(_ context.Context, p farm.Plant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plants[p.ID] = p
	return nil
}

func (r *MemoryRepository) GetPlant(_ context.Context, farmID, id uuid.UUID) (farm.Plant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plants[id]
	if !ok || p.FarmID != farmID {
		return farm.Plant{}, false, nil
	}
	return p, true, nil
}

func (r *MemoryRepository) ListPlants(_ context.Context, farmID uuid.UUID) ([]farm.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]farm.Plant, 0)
	for _, p := range r.plants {
		if p.FarmID == farmID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) UpdatePlant(_ context.Context, p farm.Plant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plants[p.ID] = p
	return nil
}

func (r *MemoryRepository) DeletePlant(_ context.Context, farmID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.plants[id]; ok && p.FarmID == farmID {
		delete(r.plants, id)
	}
	return nil
}

func (r *MemoryRepository) CreateSpray(_ context.Context, s farm.SprayRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sprays[s.ID] = s
	return nil
}

func (r *MemoryRepository) ListSprays(_ context.Context, farmID uuid.UUID) ([]farm.SprayRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]farm.SprayRecord, 0)
	for _, s := range r.sprays {
		if s.FarmID == farmID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SprayedAt.Before(out[j].SprayedAt) })
	return out, nil
}

func (r *MemoryRepository) DeleteSpray(_ context.Context, farmID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sprays[id]; ok && s.FarmID == farmID {
		delete(r.sprays, id)
	}
	return nil
}

func (r *MemoryRepository) CreateWeatherRecord(_ context.Context, w farm.WeatherRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weather[w.ID] = w
	return nil
}

func (r *MemoryRepository) GetWeatherRecord(_ context.Context, farmID, id uuid.UUID) (farm.WeatherRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.weather[id]
	if !ok || w.FarmID != farmID {
		return farm.WeatherRecord{}, false, nil
	}
	return w, true, nil
}

func (r *MemoryRepository) ListWeatherRecords(_ context.Context, farmID uuid.UUID) ([]farm.WeatherRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]farm.WeatherRecord, 0)
	for _, w := range r.weather {
		if w.FarmID == farmID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (r *MemoryRepository) UpdateWeatherRecord(_ context.Context, w farm.WeatherRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weather[w.ID] = w
	return nil
}

func (r *MemoryRepository) DeleteWeatherRecord(_ context.Context, farmID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.weather[id]; ok && w.FarmID == farmID {
		delete(r.weather, id)
	}
	return nil
}

var _ farm.Repository = (*MemoryRepository)(nil)
