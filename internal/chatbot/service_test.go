package chatbot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	canned   []*CannedResponse
	settings *Settings
	history  []*HistoryEntry

	listErr error
	nextID  int
}

func (r *fakeRepo) CreateCanned(ctx context.Context, cr *CannedResponse) error {
	r.nextID++
	cr.ID = fmt.Sprintf("canned-%d", r.nextID)
	r.canned = append(r.canned, cr)
	return nil
}

func (r *fakeRepo) GetCanned(ctx context.Context, id string) (*CannedResponse, error) {
	for _, cr := range r.canned {
		if cr.ID == id {
			return cr, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListCanned(ctx context.Context) ([]*CannedResponse, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.canned, nil
}

func (r *fakeRepo) UpdateCanned(ctx context.Context, cr *CannedResponse) error {
	for i, existing := range r.canned {
		if existing.ID == cr.ID {
			r.canned[i] = cr
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) DeleteCanned(ctx context.Context, id string) error {
	for i, cr := range r.canned {
		if cr.ID == id {
			r.canned = append(r.canned[:i], r.canned[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) GetSettings(ctx context.Context) (*Settings, error) {
	if r.settings == nil {
		return DefaultSettings(), nil
	}
	return r.settings, nil
}

func (r *fakeRepo) SaveSettings(ctx context.Context, s *Settings) error {
	r.settings = s
	return nil
}

func (r *fakeRepo) AppendHistory(ctx context.Context, e *HistoryEntry) error {
	e.ID = fmt.Sprintf("history-%d", len(r.history)+1)
	r.history = append(r.history, e)
	return nil
}

func (r *fakeRepo) ListHistory(ctx context.Context, userID string, limit int) ([]*HistoryEntry, error) {
	var out []*HistoryEntry
	for _, e := range r.history {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeGenerator struct {
	answer string
	err    error
	calls  int
}

func (g *fakeGenerator) Generate(ctx context.Context, settings *Settings, question string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func seedCanned(repo *fakeRepo) {
	repo.canned = []*CannedResponse{
		{ID: "c1", Question: "How do I manage exam stress?", Answer: "Try short breaks and breathing exercises.",
			Keywords: []string{"exam", "stress"}},
		{ID: "c2", Question: "How do I sleep better?", Answer: "Keep a fixed sleep schedule.",
			Keywords: []string{"sleep", "insomnia"}},
	}
}

// ==== Matcher ====

func TestMatchCanned(t *testing.T) {
	repo := &fakeRepo{}
	seedCanned(repo)

	best := MatchCanned(repo.canned, "I have a lot of STRESS before my exam!")
	require.NotNil(t, best)
	assert.Equal(t, "c1", best.ID, "two keyword hits beat one")

	best = MatchCanned(repo.canned, "any tips for insomnia?")
	require.NotNil(t, best)
	assert.Equal(t, "c2", best.ID)

	assert.Nil(t, MatchCanned(repo.canned, "what is the cafeteria menu"), "no keyword overlap means no match")
	assert.Nil(t, MatchCanned(nil, "anything"))
}

// ==== Ask ====

func TestAskPrefersCannedOverModel(t *testing.T) {
	repo := &fakeRepo{}
	seedCanned(repo)
	gen := &fakeGenerator{answer: "model answer"}
	svc := NewService(repo, gen)

	answer, err := svc.Ask(context.Background(), "student-1", "help with exam stress")
	require.NoError(t, err)

	assert.Equal(t, SourceCanned, answer.Source)
	assert.Equal(t, "Try short breaks and breathing exercises.", answer.Text)
	assert.Zero(t, gen.calls, "model should not be called when a canned answer matches")
}

func TestAskFallsBackToModel(t *testing.T) {
	repo := &fakeRepo{}
	seedCanned(repo)
	gen := &fakeGenerator{answer: "model answer"}
	svc := NewService(repo, gen)

	answer, err := svc.Ask(context.Background(), "student-1", "what clubs can I join")
	require.NoError(t, err)

	assert.Equal(t, SourceModel, answer.Source)
	assert.Equal(t, "model answer", answer.Text)
}

func TestAskWithoutGenerator(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)

	answer, err := svc.Ask(context.Background(), "student-1", "what clubs can I join")
	require.NoError(t, err)

	assert.Equal(t, SourceNone, answer.Source)
	assert.NotEmpty(t, answer.Text)
}

func TestAskGeneratorFailureFallsBack(t *testing.T) {
	repo := &fakeRepo{}
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewService(repo, gen)

	answer, err := svc.Ask(context.Background(), "student-1", "anything")
	require.NoError(t, err, "a model failure must not fail the ask")
	assert.Equal(t, SourceNone, answer.Source)
}

func TestAskRecordsHistory(t *testing.T) {
	repo := &fakeRepo{}
	seedCanned(repo)
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Ask(ctx, "student-1", "exam stress help")
	require.NoError(t, err)

	entries, err := svc.History(ctx, "student-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "exam stress help", entries[0].Question)
	assert.Equal(t, SourceCanned, entries[0].Source)
}

func TestAskValidation(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	_, err := svc.Ask(context.Background(), "student-1", "   ")
	assert.ErrorIs(t, err, ErrQuestionRequired)
}

func TestAskDisabled(t *testing.T) {
	repo := &fakeRepo{settings: &Settings{Name: "Bot", Enabled: false}}
	svc := NewService(repo, nil)

	_, err := svc.Ask(context.Background(), "student-1", "hello")
	assert.ErrorIs(t, err, ErrDisabled)
}

// ==== Canned CRUD ====

func TestCannedCRUD(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateCanned(ctx, CannedRequest{Question: "", Answer: "a"})
	assert.ErrorIs(t, err, ErrQuestionRequired)
	_, err = svc.CreateCanned(ctx, CannedRequest{Question: "q", Answer: " "})
	assert.ErrorIs(t, err, ErrAnswerRequired)

	cr, err := svc.CreateCanned(ctx, CannedRequest{
		Question: "How do I find quiet study spots?",
		Answer:   "The library's third floor is reserved for silent study.",
		Keywords: []string{" Quiet ", "STUDY", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"quiet", "study"}, cr.Keywords, "keywords are trimmed and lowercased")

	updated, err := svc.UpdateCanned(ctx, cr.ID, CannedRequest{
		Question: "Where can I study quietly?",
		Answer:   "Third floor of the library.",
	})
	require.NoError(t, err)
	assert.Contains(t, updated.Keywords, "study", "keywords derive from the question when omitted")

	require.NoError(t, svc.DeleteCanned(ctx, cr.ID))
	assert.ErrorIs(t, svc.DeleteCanned(ctx, cr.ID), ErrNotFound)
}

func TestCreateCannedDerivesKeywords(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	cr, err := svc.CreateCanned(context.Background(), CannedRequest{
		Question: "How do I manage anxiety?",
		Answer:   "Grounding exercises can help.",
	})
	require.NoError(t, err)
	assert.Contains(t, cr.Keywords, "manage")
	assert.Contains(t, cr.Keywords, "anxiety")
	assert.NotContains(t, cr.Keywords, "do", "short words are skipped")
}

// ==== Settings ====

func TestUpdateSettings(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	initial, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, initial.Enabled)
	assert.Equal(t, "Campus Assistant", initial.Name)

	name := "Willow"
	enabled := false
	updated, err := svc.UpdateSettings(ctx, SettingsRequest{Name: &name, Enabled: &enabled})
	require.NoError(t, err)
	assert.Equal(t, "Willow", updated.Name)
	assert.False(t, updated.Enabled)

	// Blank names are ignored rather than wiping the persona.
	blank := "  "
	updated, err = svc.UpdateSettings(ctx, SettingsRequest{Name: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Willow", updated.Name)
}
