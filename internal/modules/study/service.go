package study

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appcfg "github.com/studyhelper/core/internal/config"
	"github.com/studyhelper/core/internal/pkg/textstore"
)

// ErrTextNotFound is returned when a generation endpoint references a
// text_id that was never cached or has expired.
var ErrTextNotFound = errors.New("text ID not found, please process the image first")

const (
	textIDLength = 16

	summaryMaxTokens      = 300
	explanationsMaxTokens = 1500
	quizMaxTokens         = 4000
	notesMaxTokens        = 2000

	generationTemperature = 0.4

	maxExplanationConcepts = 5
	requiredStudyTips      = 4
	requiredApproaches     = 4
	requiredQuizQuestions  = 10
	requiredMCQAnswers     = 4
	requiredNotes          = 2
)

// Service orchestrates the study pipeline on top of the text cache and the
// configured AI providers.
type Service struct {
	cfg    *appcfg.AppConfig
	store  textstore.Store
	logger *zap.Logger
}

func NewService(cfg *appcfg.AppConfig, store textstore.Store, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, store: store, logger: logger}
}

// textID derives the cache id from the extracted text, so re-uploading the
// same material lands on the same entry.
func textID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:textIDLength]
}

// ProcessImage runs the upload pipeline: vision extraction, caching, then
// summary generation.
func (s *Service) ProcessImage(ctx context.Context, image []byte, mimeType string) (*SummaryResult, error) {
	visionProvider := selectProvider(s.cfg.AI, s.cfg.AI.VisionModel)
	if visionProvider == nil {
		return nil, errors.New("no enabled AI provider configured")
	}

	extracted, err := extractTextFromImage(visionProvider, image, mimeType)
	if err != nil {
		return nil, err
	}

	id := textID(extracted)
	if err := s.store.Save(ctx, id, extracted); err != nil {
		return nil, fmt.Errorf("cache extracted text: %w", err)
	}

	summaryProvider := selectProvider(s.cfg.AI, s.cfg.AI.SummaryModel)
	if summaryProvider == nil {
		return nil, errors.New("no enabled AI provider configured")
	}
	summary, err := s.generateSummary(summaryProvider, extracted)
	if err != nil {
		return nil, err
	}

	s.logger.Info("image processed",
		zap.String("text_id", id),
		zap.Int("extracted_chars", len(extracted)),
		zap.String("vision_model", visionProvider.DefaultModel),
	)

	return &SummaryResult{Summary: summary, TextID: id}, nil
}

func (s *Service) generateSummary(provider *appcfg.AIProvider, text string) (string, error) {
	systemPrompt, prompt := buildSummaryPrompt(text)

	var summary string
	err := generateJSON(provider, systemPrompt, prompt, summaryMaxTokens, generationTemperature, s.cfg.AI.MaxJSONRetries, func(raw string) error {
		var output struct {
			Summary string `json:"summary"`
		}
		if err := unmarshalAIJSON(raw, &output); err != nil {
			return err
		}
		if strings.TrimSpace(output.Summary) == "" {
			return errors.New("summary is empty in AI response")
		}
		summary = strings.TrimSpace(output.Summary)
		return nil
	})
	if err != nil {
		return "", err
	}
	return summary, nil
}

// lookup resolves a text_id against the cache.
func (s *Service) lookup(ctx context.Context, id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", ErrTextNotFound
	}
	text, ok, err := s.store.Get(ctx, trimmed)
	if err != nil {
		return "", fmt.Errorf("read text cache: %w", err)
	}
	if !ok {
		return "", ErrTextNotFound
	}
	return text, nil
}

// GenerateExplanations produces key-concept explanations plus study tips and
// learning approaches for a cached extraction.
func (s *Service) GenerateExplanations(ctx context.Context, id string) (*ExplanationSet, error) {
	text, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	provider := selectProvider(s.cfg.AI, s.cfg.AI.GenerationModel)
	if provider == nil {
		return nil, errors.New("no enabled AI provider configured")
	}

	systemPrompt, prompt := buildExplanationsPrompt(text)
	var result ExplanationSet
	err = generateJSON(provider, systemPrompt, prompt, explanationsMaxTokens, generationTemperature, s.cfg.AI.MaxJSONRetries, func(raw string) error {
		var parsed ExplanationSet
		if err := unmarshalAIJSON(raw, &parsed); err != nil {
			return err
		}
		if err := validateExplanationSet(&parsed); err != nil {
			return err
		}
		result = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateQuiz produces the three-format question pool for a cached
// extraction.
func (s *Service) GenerateQuiz(ctx context.Context, id string) (*QuizSet, error) {
	text, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	provider := selectProvider(s.cfg.AI, s.cfg.AI.GenerationModel)
	if provider == nil {
		return nil, errors.New("no enabled AI provider configured")
	}

	systemPrompt, prompt := buildQuizPrompt(text)
	var result QuizSet
	err = generateJSON(provider, systemPrompt, prompt, quizMaxTokens, generationTemperature, s.cfg.AI.MaxJSONRetries, func(raw string) error {
		var parsed QuizSet
		if err := unmarshalAIJSON(raw, &parsed); err != nil {
			return err
		}
		if err := validateQuizSet(&parsed); err != nil {
			return err
		}
		result = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateNotes produces exactly two structured notes for a cached
// extraction.
func (s *Service) GenerateNotes(ctx context.Context, id string) (*NotesSet, error) {
	text, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	provider := selectProvider(s.cfg.AI, s.cfg.AI.GenerationModel)
	if provider == nil {
		return nil, errors.New("no enabled AI provider configured")
	}

	systemPrompt, prompt := buildNotesPrompt(text)
	var result NotesSet
	err = generateJSON(provider, systemPrompt, prompt, notesMaxTokens, generationTemperature, s.cfg.AI.MaxJSONRetries, func(raw string) error {
		var parsed NotesSet
		if err := unmarshalAIJSON(raw, &parsed); err != nil {
			return err
		}
		if err := validateNotes(parsed.Notes); err != nil {
			return err
		}
		result = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.ID = uuid.NewString()
	return &result, nil
}

func validateExplanationSet(set *ExplanationSet) error {
	if len(set.Explanations) == 0 {
		return errors.New("AI response has no explanations")
	}
	if len(set.Explanations) > maxExplanationConcepts {
		set.Explanations = set.Explanations[:maxExplanationConcepts]
	}
	if len(set.StudyTips) != requiredStudyTips {
		return fmt.Errorf("AI response has %d study tips, expected %d", len(set.StudyTips), requiredStudyTips)
	}
	if len(set.LearningApproaches) != requiredApproaches {
		return fmt.Errorf("AI response has %d learning approaches, expected %d", len(set.LearningApproaches), requiredApproaches)
	}
	return nil
}

func validateQuizSet(set *QuizSet) error {
	if len(set.MCQ) != requiredQuizQuestions {
		return fmt.Errorf("AI response has %d MCQ questions, expected %d", len(set.MCQ), requiredQuizQuestions)
	}
	if len(set.QuickQA) != requiredQuizQuestions {
		return fmt.Errorf("AI response has %d QuickQA questions, expected %d", len(set.QuickQA), requiredQuizQuestions)
	}
	if len(set.Flashcards) != requiredQuizQuestions {
		return fmt.Errorf("AI response has %d flashcards, expected %d", len(set.Flashcards), requiredQuizQuestions)
	}
	for i, item := range set.MCQ {
		if len(item.Answers) != requiredMCQAnswers {
			return fmt.Errorf("MCQ question %d has %d answers, expected %d", i+1, len(item.Answers), requiredMCQAnswers)
		}
		correct := 0
		for _, answer := range item.Answers {
			if answer.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("MCQ question %d has %d correct answers, expected exactly 1", i+1, correct)
		}
	}
	return nil
}

func validateNotes(notes []NoteItem) error {
	if len(notes) != requiredNotes {
		return fmt.Errorf("AI response has %d notes, expected %d", len(notes), requiredNotes)
	}
	for i, note := range notes {
		if strings.TrimSpace(note.Title) == "" {
			return fmt.Errorf("note %d has an empty title", i+1)
		}
		if len(note.KeyPoints) == 0 {
			return fmt.Errorf("note %d has no key points", i+1)
		}
	}
	return nil
}
