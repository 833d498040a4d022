package chatbot

import (
	"context"
	"log"
	"strings"
)

type CannedRequest struct {
	Question string
	Answer   string
	Keywords []string
}

type SettingsRequest struct {
	Name          *string
	Personality   *string
	ResponseStyle *string
	Enabled       *bool
}

// Answer is the outcome of one Ask call.
type Answer struct {
	Text   string
	Source AnswerSource
}

type Service interface {
	Ask(ctx context.Context, userID, question string) (*Answer, error)
	History(ctx context.Context, userID string, limit int) ([]*HistoryEntry, error)

	CreateCanned(ctx context.Context, req CannedRequest) (*CannedResponse, error)
	ListCanned(ctx context.Context) ([]*CannedResponse, error)
	UpdateCanned(ctx context.Context, id string, req CannedRequest) (*CannedResponse, error)
	DeleteCanned(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*Settings, error)
	UpdateSettings(ctx context.Context, req SettingsRequest) (*Settings, error)
}

type service struct {
	repo      Repository
	generator Generator
}

// NewService accepts a nil generator; in that case unmatched questions
// get a generic fallback answer instead of a model reply.
func NewService(repo Repository, generator Generator) Service {
	return &service{repo: repo, generator: generator}
}

const fallbackAnswer = "I don't have an answer for that yet. You can book a session with one of our campus experts for personal guidance."

func (s *service) Ask(ctx context.Context, userID, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrQuestionRequired
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled {
		return nil, ErrDisabled
	}

	answer := s.answer(ctx, settings, question)

	entry := &HistoryEntry{
		UserID:   userID,
		Question: question,
		Answer:   answer.Text,
		Source:   answer.Source,
	}
	if err := s.repo.AppendHistory(ctx, entry); err != nil {
		log.Printf("append assistant history failed: %v", err)
	}

	return answer, nil
}

func (s *service) answer(ctx context.Context, settings *Settings, question string) *Answer {
	canned, err := s.repo.ListCanned(ctx)
	if err != nil {
		log.Printf("list canned responses failed: %v", err)
	} else if best := MatchCanned(canned, question); best != nil {
		return &Answer{Text: best.Answer, Source: SourceCanned}
	}

	if s.generator != nil {
		text, err := s.generator.Generate(ctx, settings, question)
		if err != nil {
			log.Printf("model answer failed: %v", err)
		} else {
			return &Answer{Text: text, Source: SourceModel}
		}
	}

	return &Answer{Text: fallbackAnswer, Source: SourceNone}
}

// MatchCanned returns the canned response whose keywords overlap the
// question the most, or nil when nothing matches at all.
func MatchCanned(responses []*CannedResponse, question string) *CannedResponse {
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(question)) {
		words[strings.Trim(w, ".,!?;:'\"")] = true
	}

	var best *CannedResponse
	bestScore := 0
	for _, cr := range responses {
		score := 0
		for _, kw := range cr.Keywords {
			if words[strings.ToLower(kw)] {
				score++
			}
		}
		if score > bestScore {
			best = cr
			bestScore = score
		}
	}
	return best
}

func (s *service) History(ctx context.Context, userID string, limit int) ([]*HistoryEntry, error) {
	return s.repo.ListHistory(ctx, userID, limit)
}

func (s *service) CreateCanned(ctx context.Context, req CannedRequest) (*CannedResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, ErrQuestionRequired
	}
	if strings.TrimSpace(req.Answer) == "" {
		return nil, ErrAnswerRequired
	}

	cr := &CannedResponse{
		Question: req.Question,
		Answer:   req.Answer,
		Keywords: normalizeKeywords(req.Keywords, req.Question),
	}

	if err := s.repo.CreateCanned(ctx, cr); err != nil {
		return nil, err
	}
	return cr, nil
}

func (s *service) ListCanned(ctx context.Context) ([]*CannedResponse, error) {
	return s.repo.ListCanned(ctx)
}

func (s *service) UpdateCanned(ctx context.Context, id string, req CannedRequest) (*CannedResponse, error) {
	cr, err := s.repo.GetCanned(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Question) == "" {
		return nil, ErrQuestionRequired
	}
	if strings.TrimSpace(req.Answer) == "" {
		return nil, ErrAnswerRequired
	}

	cr.Question = req.Question
	cr.Answer = req.Answer
	cr.Keywords = normalizeKeywords(req.Keywords, req.Question)

	if err := s.repo.UpdateCanned(ctx, cr); err != nil {
		return nil, err
	}
	return cr, nil
}

func (s *service) DeleteCanned(ctx context.Context, id string) error {
	return s.repo.DeleteCanned(ctx, id)
}

func (s *service) GetSettings(ctx context.Context) (*Settings, error) {
	return s.repo.GetSettings(ctx)
}

func (s *service) UpdateSettings(ctx context.Context, req SettingsRequest) (*Settings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		settings.Name = *req.Name
	}
	if req.Personality != nil {
		settings.Personality = *req.Personality
	}
	if req.ResponseStyle != nil {
		settings.ResponseStyle = *req.ResponseStyle
	}
	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// normalizeKeywords lowercases explicit keywords, or derives them from
// the question when none are given.
func normalizeKeywords(keywords []string, question string) []string {
	if len(keywords) == 0 {
		for _, w := range strings.Fields(strings.ToLower(question)) {
			w = strings.Trim(w, ".,!?;:'\"")
			if len(w) > 3 {
				keywords = append(keywords, w)
			}
		}
		return keywords
	}

	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
