package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

type stubTx struct {
	calls int
}

func (t *stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type stubPlanetRepo struct {
	mu      sync.Mutex
	nextID  int64
	planets map[int64]*domain.Planet
}

func newStubPlanetRepo() *stubPlanetRepo {
	return &stubPlanetRepo{planets: make(map[int64]*domain.Planet)}
}

func clonePlanet(p *domain.Planet) *domain.Planet {
	c := *p
	c.Moons = nil
	return &c
}

func (r *stubPlanetRepo) Create(_ context.Context, p *domain.Planet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.planets[p.ID] = clonePlanet(p)
	return nil
}

func (r *stubPlanetRepo) FindByID(_ context.Context, id int64) (*domain.Planet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.planets[id]
	if !ok {
		return nil, domain.NotFound("planet", id)
	}
	return clonePlanet(p), nil
}

func (r *stubPlanetRepo) List(_ context.Context, f ports.PlanetFilter) ([]*domain.Planet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Planet{}
	for _, p := range r.planets {
		if f.Type != "" && !strings.EqualFold(p.Type, f.Type) {
			continue
		}
		out = append(out, clonePlanet(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPlanetRepo) Update(_ context.Context, p *domain.Planet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.planets[p.ID]; !ok {
		return domain.NotFound("planet", p.ID)
	}
	r.planets[p.ID] = clonePlanet(p)
	return nil
}

func (r *stubPlanetRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.planets[id]; !ok {
		return domain.NotFound("planet", id)
	}
	delete(r.planets, id)
	return nil
}

type stubMoonRepo struct {
	mu      sync.Mutex
	nextID  int64
	moons   map[int64]*domain.Moon
	planets *stubPlanetRepo
}

func newStubMoonRepo(planets *stubPlanetRepo) *stubMoonRepo {
	return &stubMoonRepo{moons: make(map[int64]*domain.Moon), planets: planets}
}

func (r *stubMoonRepo) withPlanetName(m *domain.Moon) *domain.Moon {
	c := *m
	if p, err := r.planets.FindByID(context.Background(), m.PlanetID); err == nil {
		c.PlanetName = p.Name
	}
	return &c
}

func (r *stubMoonRepo) Create(_ context.Context, m *domain.Moon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	c := *m
	r.moons[m.ID] = &c
	return nil
}

func (r *stubMoonRepo) FindByID(_ context.Context, id int64) (*domain.Moon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.moons[id]
	if !ok {
		return nil, domain.NotFound("moon", id)
	}
	return r.withPlanetName(m), nil
}

func (r *stubMoonRepo) List(_ context.Context, f ports.MoonFilter) ([]*domain.Moon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Moon{}
	for _, m := range r.moons {
		c := r.withPlanetName(m)
		if f.PlanetID != 0 && c.PlanetID != f.PlanetID {
			continue
		}
		if f.PlanetName != "" && !strings.EqualFold(c.PlanetName, f.PlanetName) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubMoonRepo) CountByPlanet(_ context.Context, planetID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.moons {
		if m.PlanetID == planetID {
			n++
		}
	}
	return n, nil
}

func (r *stubMoonRepo) Update(_ context.Context, m *domain.Moon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.moons[m.ID]; !ok {
		return domain.NotFound("moon", m.ID)
	}
	c := *m
	r.moons[m.ID] = &c
	return nil
}

func (r *stubMoonRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.moons[id]; !ok {
		return domain.NotFound("moon", id)
	}
	delete(r.moons, id)
	return nil
}

func (r *stubMoonRepo) DeleteByPlanet(_ context.Context, planetID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.moons {
		if m.PlanetID == planetID {
			delete(r.moons, id)
			n++
		}
	}
	return n, nil
}

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.Username]; exists {
		return &domain.ConflictError{Resource: "user", Field: "username", Value: u.Username}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.Username] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NotFound("user", id)
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

type stubIdempotency struct {
	keys map[string]int64
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (int64, bool, error) {
	id, ok := s.keys[scope+"/"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key string, id int64) error {
	s.keys[scope+"/"+key] = id
	return nil
}

type stubAudit struct {
	entries []ports.AuditEntry
}

func (s *stubAudit) Record(_ context.Context, e ports.AuditEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
