package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/monostock/trust/internal/application/usecase"
	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/service"
	"github.com/monostock/trust/pkg/events"
)

// --- Mock implementations ---

type mockIdentityReader struct {
	identities map[uuid.UUID]*model.Identity
	findFunc   func(ctx context.Context, id uuid.UUID) (*model.Identity, error)
}

func (m *mockIdentityReader) FindByID(ctx context.Context, id uuid.UUID) (*model.Identity, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, id)
	}
	return m.identities[id], nil
}

type mockProfileReader struct {
	profiles map[uuid.UUID]*model.BusinessProfile
	err      error
}

func (m *mockProfileReader) FindByIdentityID(_ context.Context, id uuid.UUID) (*model.BusinessProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profiles[id], nil
}

type mockConnectionReader struct {
	edges []model.Connection
	err   error
}

func (m *mockConnectionReader) ListTouching(_ context.Context, id uuid.UUID) ([]model.Connection, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Connection, 0)
	for _, e := range m.edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockMessageCounterReader struct {
	counters map[uuid.UUID]model.MessageCounters
	err      error
}

func (m *mockMessageCounterReader) Counters(_ context.Context, id uuid.UUID) (model.MessageCounters, error) {
	if m.err != nil {
		return model.MessageCounters{}, m.err
	}
	return m.counters[id], nil
}

type mockEngagementReader struct {
	counts map[uuid.UUID]int
	err    error
}

func (m *mockEngagementReader) CountEngagements(_ context.Context, id uuid.UUID) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[id], nil
}

type mockFlagRepository struct {
	mu       sync.Mutex
	flags    map[uuid.UUID]*model.Flag
	saves    int
	saveFunc func(ctx context.Context, flag *model.Flag) error
	listErr  error
}

func newMockFlagRepository() *mockFlagRepository {
	return &mockFlagRepository{flags: make(map[uuid.UUID]*model.Flag)}
}

func (m *mockFlagRepository) Save(ctx context.Context, flag *model.Flag) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, flag)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.flags[flag.ID()] = flag
	return nil
}

func (m *mockFlagRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Flag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags[id], nil
}

func (m *mockFlagRepository) ListBySubject(_ context.Context, subjectID uuid.UUID, includeResolved bool) ([]*model.Flag, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Flag, 0)
	for _, f := range m.flags {
		if f.SubjectID() != subjectID {
			continue
		}
		if f.Resolved() && !includeResolved {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

type mockScoreRepository struct {
	mu         sync.Mutex
	scores     map[uuid.UUID]*model.TrustScore
	upserts    int
	upsertFunc func(ctx context.Context, score *model.TrustScore) error
	findErr    error
}

func newMockScoreRepository() *mockScoreRepository {
	return &mockScoreRepository{scores: make(map[uuid.UUID]*model.TrustScore)}
}

func (m *mockScoreRepository) Upsert(ctx context.Context, score *model.TrustScore) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, score)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	cp := *score
	m.scores[score.IdentityID] = &cp
	return nil
}

func (m *mockScoreRepository) FindByIdentityID(_ context.Context, id uuid.UUID) (*model.TrustScore, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

type mockEventPublisher struct {
	mu              sync.Mutex
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

type mockScheduler struct {
	mu        sync.Mutex
	scheduled []uuid.UUID
}

func (m *mockScheduler) Schedule(_ context.Context, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled = append(m.scheduled, id)
}

// --- Fixture ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	identities  *mockIdentityReader
	profiles    *mockProfileReader
	connections *mockConnectionReader
	messages    *mockMessageCounterReader
	engagements *mockEngagementReader
	flags       *mockFlagRepository
	scores      *mockScoreRepository
	publisher   *mockEventPublisher
	scheduler   *mockScheduler
	clock       *fakeClock
	logger      *slog.Logger
}

func newFixture() *fixture {
	return &fixture{
		identities:  &mockIdentityReader{identities: make(map[uuid.UUID]*model.Identity)},
		profiles:    &mockProfileReader{profiles: make(map[uuid.UUID]*model.BusinessProfile)},
		connections: &mockConnectionReader{},
		messages:    &mockMessageCounterReader{counters: make(map[uuid.UUID]model.MessageCounters)},
		engagements: &mockEngagementReader{counts: make(map[uuid.UUID]int)},
		flags:       newMockFlagRepository(),
		scores:      newMockScoreRepository(),
		publisher:   &mockEventPublisher{},
		scheduler:   &mockScheduler{},
		clock:       &fakeClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (f *fixture) addIdentity(identity model.Identity) uuid.UUID {
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = f.clock.Now()
	}
	f.identities.identities[identity.ID] = &identity
	return identity.ID
}

func (f *fixture) collector() *usecase.FactCollector {
	return usecase.NewFactCollector(
		f.identities, f.profiles, f.connections, f.messages, f.engagements, f.flags, f.logger,
	)
}

func (f *fixture) calculate() *usecase.CalculateScore {
	return usecase.NewCalculateScore(
		f.collector(), service.NewAggregator(), f.scores, f.publisher, f.logger,
	).WithClock(f.clock.Now)
}
