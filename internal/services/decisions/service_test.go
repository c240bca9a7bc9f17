package decisions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mwhitfield/eightball/internal/models"
)

// memoryRepo is an in-memory decision store mirroring the SQL repository's
// contract, including its not-found error wrapping and ordering.
type memoryRepo struct {
	mu        sync.Mutex
	decisions map[uuid.UUID]*models.Decision
	nextSeq   int64
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{decisions: make(map[uuid.UUID]*models.Decision)}
}

func (r *memoryRepo) Create(_ context.Context, decision *models.Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextSeq++
	decision.Seq = r.nextSeq
	if decision.CreatedAt.IsZero() {
		decision.CreatedAt = time.Now()
	}
	stored := *decision
	r.decisions[decision.ID] = &stored
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	decision, ok := r.decisions[id]
	if !ok {
		return nil, fmt.Errorf("decision not found: %w", sql.ErrNoRows)
	}
	copied := *decision
	return &copied, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID uuid.UUID, mode *models.Mode, page, limit int) ([]*models.Decision, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Decision
	for _, d := range r.decisions {
		if d.UserID != userID {
			continue
		}
		if mode != nil && d.Mode != *mode {
			continue
		}
		copied := *d
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Seq > matched[j].Seq
	})

	total := len(matched)
	offset := (page - 1) * limit
	if offset >= total {
		return []*models.Decision{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.decisions[id]; !ok {
		return fmt.Errorf("decision not found: %w", sql.ErrNoRows)
	}
	delete(r.decisions, id)
	return nil
}

func (r *memoryRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.decisions {
		if d.UserID == userID {
			delete(r.decisions, id)
		}
	}
	return nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.decisions)
}

// fakeGenerator returns a fixed answer or error.
type fakeGenerator struct {
	answer string
	err    error
	calls  int
}

func (g *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func newTestService(repo *memoryRepo, gen *fakeGenerator) *Service {
	return NewService(repo, gen, time.Second, zap.NewNop())
}

func seedDecision(t *testing.T, repo *memoryRepo, userID uuid.UUID, question string, mode models.Mode, createdAt time.Time) *models.Decision {
	t.Helper()
	d := &models.Decision{
		ID:        uuid.New(),
		UserID:    userID,
		Question:  question,
		Answer:    "answer to " + question,
		Mode:      mode,
		CreatedAt: createdAt,
	}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("seed decision: %v", err)
	}
	return d
}

func TestCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("persists decision on success", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		svc := newTestService(repo, &fakeGenerator{answer: "Signs point to yes."})

		decision, err := svc.Create(context.Background(), userID, "  Will I pass?  ", "crazy")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if decision.Question != "Will I pass?" {
			t.Errorf("question = %q, want trimmed input", decision.Question)
		}
		if decision.Answer != "Signs point to yes." {
			t.Errorf("answer = %q", decision.Answer)
		}
		if decision.Mode != models.ModeCrazy {
			t.Errorf("mode = %q, want crazy", decision.Mode)
		}
		if decision.ID == uuid.Nil {
			t.Error("expected generated ID")
		}
		if decision.CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}
		if repo.count() != 1 {
			t.Errorf("stored decisions = %d, want 1", repo.count())
		}
	})

	t.Run("defaults to normal mode when unset", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		svc := newTestService(repo, &fakeGenerator{answer: "Ask again later."})

		decision, err := svc.Create(context.Background(), userID, "Is it time?", "")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if decision.Mode != models.ModeNormal {
			t.Errorf("mode = %q, want normal", decision.Mode)
		}
	})

	t.Run("rejects empty question", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		gen := &fakeGenerator{answer: "unused"}
		svc := newTestService(repo, gen)

		_, err := svc.Create(context.Background(), userID, "   \t\n  ", "normal")
		if !errors.Is(err, ErrQuestionRequired) {
			t.Fatalf("Create() error = %v, want ErrQuestionRequired", err)
		}
		if gen.calls != 0 {
			t.Error("generator should not be called for invalid input")
		}
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		svc := newTestService(repo, &fakeGenerator{answer: "unused"})

		_, err := svc.Create(context.Background(), userID, "Will it work?", "extreme")
		if !errors.Is(err, ErrInvalidMode) {
			t.Fatalf("Create() error = %v, want ErrInvalidMode", err)
		}
		if repo.count() != 0 {
			t.Error("no decision should be stored for invalid mode")
		}
	})

	t.Run("generation failure writes nothing", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		svc := newTestService(repo, &fakeGenerator{err: errors.New("upstream timeout")})

		_, err := svc.Create(context.Background(), userID, "Will it work?", "normal")
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("Create() error = %v, want GenerationError", err)
		}
		if repo.count() != 0 {
			t.Errorf("stored decisions = %d, want 0 after generation failure", repo.count())
		}
	})

	t.Run("rate limited generation logs a distinct warning", func(t *testing.T) {
		t.Parallel()

		core, logs := observer.New(zap.WarnLevel)
		repo := newMemoryRepo()
		gen := &fakeGenerator{err: errors.New("429 too many requests")}
		svc := NewService(repo, gen, time.Second, zap.New(core))

		_, err := svc.Create(context.Background(), userID, "Will it work?", "normal")
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("Create() error = %v, want GenerationError", err)
		}
		if repo.count() != 0 {
			t.Errorf("stored decisions = %d, want 0", repo.count())
		}
		if got := logs.FilterMessage("decision_generation_rate_limited").Len(); got != 1 {
			t.Errorf("rate limit warnings = %d, want 1", got)
		}
	})

	t.Run("empty generated answer is a generation failure", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		svc := newTestService(repo, &fakeGenerator{answer: "   "})

		_, err := svc.Create(context.Background(), userID, "Anything there?", "normal")
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("Create() error = %v, want GenerationError", err)
		}
		if repo.count() != 0 {
			t.Error("no decision should be stored for an empty answer")
		}
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		repo.createErr = errors.New("connection reset")
		svc := newTestService(repo, &fakeGenerator{answer: "Yes."})

		_, err := svc.Create(context.Background(), userID, "Will it save?", "normal")
		if err == nil || !errors.Is(err, repo.createErr) {
			t.Fatalf("Create() error = %v, want wrapped store error", err)
		}
	})
}

func TestList(t *testing.T) {
	t.Parallel()

	t.Run("paginates 25 decisions into two pages", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		userID := uuid.New()
		base := time.Now()
		for i := 0; i < 25; i++ {
			seedDecision(t, repo, userID, fmt.Sprintf("q%d", i), models.ModeNormal, base.Add(time.Duration(i)*time.Second))
		}
		svc := newTestService(repo, &fakeGenerator{})

		items, pagination, err := svc.List(context.Background(), userID, 1, 20, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(items) != 20 {
			t.Errorf("page 1 size = %d, want 20", len(items))
		}
		if pagination.Total != 25 {
			t.Errorf("total = %d, want 25", pagination.Total)
		}
		if pagination.Pages != 2 {
			t.Errorf("pages = %d, want 2", pagination.Pages)
		}

		items, pagination, err = svc.List(context.Background(), userID, 2, 20, "")
		if err != nil {
			t.Fatalf("List() page 2 error = %v", err)
		}
		if len(items) != 5 {
			t.Errorf("page 2 size = %d, want 5", len(items))
		}
		if pagination.Page != 2 {
			t.Errorf("page = %d, want 2", pagination.Page)
		}
	})

	t.Run("orders newest first", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		userID := uuid.New()
		base := time.Now()
		seedDecision(t, repo, userID, "A", models.ModeNormal, base)
		seedDecision(t, repo, userID, "B", models.ModeNormal, base.Add(time.Second))
		seedDecision(t, repo, userID, "C", models.ModeNormal, base.Add(2*time.Second))
		svc := newTestService(repo, &fakeGenerator{})

		items, _, err := svc.List(context.Background(), userID, 1, 20, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		got := []string{items[0].Question, items[1].Question, items[2].Question}
		want := []string{"C", "B", "A"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	})

	t.Run("breaks timestamp ties by insertion order", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		userID := uuid.New()
		ts := time.Now()
		seedDecision(t, repo, userID, "first", models.ModeNormal, ts)
		seedDecision(t, repo, userID, "second", models.ModeNormal, ts)
		svc := newTestService(repo, &fakeGenerator{})

		for i := 0; i < 3; i++ {
			items, _, err := svc.List(context.Background(), userID, 1, 20, "")
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if items[0].Question != "second" || items[1].Question != "first" {
				t.Fatalf("tie order = [%s %s], want [second first]", items[0].Question, items[1].Question)
			}
		}
	})

	t.Run("filters by mode", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		userID := uuid.New()
		base := time.Now()
		seedDecision(t, repo, userID, "n1", models.ModeNormal, base)
		seedDecision(t, repo, userID, "c1", models.ModeCrazy, base.Add(time.Second))
		seedDecision(t, repo, userID, "c2", models.ModeCrazy, base.Add(2*time.Second))
		svc := newTestService(repo, &fakeGenerator{})

		items, pagination, err := svc.List(context.Background(), userID, 1, 20, "crazy")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(items) != 2 || pagination.Total != 2 {
			t.Fatalf("filtered size = %d total = %d, want 2/2", len(items), pagination.Total)
		}
		for _, d := range items {
			if d.Mode != models.ModeCrazy {
				t.Errorf("mode = %q, want crazy", d.Mode)
			}
		}
	})

	t.Run("ignores unrecognized mode filter", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		userID := uuid.New()
		base := time.Now()
		seedDecision(t, repo, userID, "n1", models.ModeNormal, base)
		seedDecision(t, repo, userID, "c1", models.ModeCrazy, base.Add(time.Second))
		svc := newTestService(repo, &fakeGenerator{})

		items, pagination, err := svc.List(context.Background(), userID, 1, 20, "extreme")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(items) != 2 || pagination.Total != 2 {
			t.Errorf("unfiltered size = %d total = %d, want full history", len(items), pagination.Total)
		}
	})

	t.Run("excludes other users", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		owner := uuid.New()
		other := uuid.New()
		base := time.Now()
		seedDecision(t, repo, owner, "mine", models.ModeNormal, base)
		seedDecision(t, repo, other, "theirs", models.ModeNormal, base.Add(time.Second))
		svc := newTestService(repo, &fakeGenerator{})

		items, pagination, err := svc.List(context.Background(), owner, 1, 20, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(items) != 1 || pagination.Total != 1 {
			t.Fatalf("size = %d total = %d, want 1/1", len(items), pagination.Total)
		}
		if items[0].Question != "mine" {
			t.Errorf("question = %q, want %q", items[0].Question, "mine")
		}
	})

	t.Run("empty history yields zero pages", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		svc := newTestService(repo, &fakeGenerator{})

		items, pagination, err := svc.List(context.Background(), uuid.New(), 1, 20, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(items) != 0 {
			t.Errorf("size = %d, want 0", len(items))
		}
		if pagination.Total != 0 || pagination.Pages != 0 {
			t.Errorf("pagination = %+v, want total 0 pages 0", pagination)
		}
	})

	t.Run("clamps out-of-range page and limit", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		userID := uuid.New()
		seedDecision(t, repo, userID, "q", models.ModeNormal, time.Now())
		svc := newTestService(repo, &fakeGenerator{})

		_, pagination, err := svc.List(context.Background(), userID, -3, 0, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if pagination.Page != 1 || pagination.Limit != DefaultPageSize {
			t.Errorf("pagination = %+v, want page 1 limit %d", pagination, DefaultPageSize)
		}

		_, pagination, err = svc.List(context.Background(), userID, 1, 5000, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if pagination.Limit != MaxPageSize {
			t.Errorf("limit = %d, want %d", pagination.Limit, MaxPageSize)
		}
	})
}

func TestDeleteOne(t *testing.T) {
	t.Parallel()

	t.Run("owner deletes own decision", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		userID := uuid.New()
		d := seedDecision(t, repo, userID, "q", models.ModeNormal, time.Now())
		svc := newTestService(repo, &fakeGenerator{})

		if err := svc.DeleteOne(context.Background(), userID, d.ID); err != nil {
			t.Fatalf("DeleteOne() error = %v", err)
		}
		if repo.count() != 0 {
			t.Error("decision should be gone")
		}
	})

	t.Run("missing decision is not found", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		svc := newTestService(repo, &fakeGenerator{})

		err := svc.DeleteOne(context.Background(), uuid.New(), uuid.New())
		if !errors.Is(err, ErrDecisionNotFound) {
			t.Fatalf("DeleteOne() error = %v, want ErrDecisionNotFound", err)
		}
	})

	t.Run("non-owner is rejected and record survives", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		owner := uuid.New()
		d := seedDecision(t, repo, owner, "q", models.ModeNormal, time.Now())
		svc := newTestService(repo, &fakeGenerator{})

		err := svc.DeleteOne(context.Background(), uuid.New(), d.ID)
		if !errors.Is(err, ErrNotDecisionOwner) {
			t.Fatalf("DeleteOne() error = %v, want ErrNotDecisionOwner", err)
		}
		if repo.count() != 1 {
			t.Error("decision should survive rejected delete")
		}
	})
}

func TestDeleteAll(t *testing.T) {
	t.Parallel()

	t.Run("removes only the caller's decisions", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		owner := uuid.New()
		other := uuid.New()
		base := time.Now()
		seedDecision(t, repo, owner, "a", models.ModeNormal, base)
		seedDecision(t, repo, owner, "b", models.ModeCrazy, base.Add(time.Second))
		kept := seedDecision(t, repo, other, "c", models.ModeNormal, base.Add(2*time.Second))
		svc := newTestService(repo, &fakeGenerator{})

		if err := svc.DeleteAll(context.Background(), owner); err != nil {
			t.Fatalf("DeleteAll() error = %v", err)
		}
		if repo.count() != 1 {
			t.Fatalf("remaining = %d, want 1", repo.count())
		}
		if _, err := repo.GetByID(context.Background(), kept.ID); err != nil {
			t.Errorf("other user's decision should survive: %v", err)
		}
	})

	t.Run("empty history is a no-op", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryRepo()
		svc := newTestService(repo, &fakeGenerator{})

		if err := svc.DeleteAll(context.Background(), uuid.New()); err != nil {
			t.Fatalf("DeleteAll() error = %v", err)
		}
	})
}
