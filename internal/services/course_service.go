package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/learn2earn/backend/internal/auth"
	"github.com/learn2earn/backend/internal/models"
	"github.com/learn2earn/backend/internal/repositories"
	"go.uber.org/zap"
)

const maxRecommendations = 3

// IncorrectAnswersError is a validation error that carries the quiz score.
type IncorrectAnswersError struct {
	Correct int
	Total   int
}

func (e *IncorrectAnswersError) Error() string { return "incorrect answers" }

func (e *IncorrectAnswersError) Unwrap() error { return ErrValidation }

type CourseService struct {
	store     *repositories.Store
	hooks     *LedgerHooks
	certifier *auth.Certifier
	log       *zap.Logger
}

func NewCourseService(store *repositories.Store, hooks *LedgerHooks, certifier *auth.Certifier, log *zap.Logger) *CourseService {
	return &CourseService{store: store, hooks: hooks, certifier: certifier, log: log}
}

// Bootstrap seeds catalog when the stored catalog is empty. Running it again
// is a no-op.
func (s *CourseService) Bootstrap(ctx context.Context, catalog []models.Course) error {
	var empty bool
	if err := s.store.View(func(t *repositories.Tx) error {
		empty = len(t.Courses()) == 0
		return nil
	}); err != nil {
		return err
	}
	if !empty {
		s.log.Debug("catalog already seeded")
		return nil
	}

	var seeded bool
	err := s.store.Update(ctx, func(t *repositories.Tx) error {
		seeded = t.SeedCourses(catalog)
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if seeded {
		s.log.Info("catalog seeded", zap.Int("courses", len(catalog)))
	}
	return nil
}

func (s *CourseService) List() ([]models.CourseView, error) {
	out := []models.CourseView{}
	err := s.store.View(func(t *repositories.Tx) error {
		for _, c := range t.Courses() {
			out = append(out, c.View())
		}
		return nil
	})
	return out, err
}

func (s *CourseService) Get(id string) (*models.CourseView, error) {
	var out models.CourseView
	err := s.store.View(func(t *repositories.Tx) error {
		c, ok := t.GetCourse(id)
		if !ok {
			return notFoundError("course not found")
		}
		out = c.View()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type CompleteResult struct {
	Transaction models.Transaction `json:"transaction"`
	Wallet      *models.Wallet     `json:"wallet"`
}

// Complete claims the reward of a course for the user. MCQ courses need one
// correct answer index per question; video courses ignore answers.
func (s *CourseService) Complete(ctx context.Context, email, courseID string, answers []int) (*CompleteResult, error) {
	var res CompleteResult
	err := s.store.Update(ctx, func(t *repositories.Tx) error {
		course, ok := t.GetCourse(courseID)
		if !ok {
			return notFoundError("course not found")
		}
		_, w, err := ownWallet(t, email)
		if err != nil {
			return err
		}
		if w.HasToken(course.ID) {
			return conflictError("course reward already claimed")
		}

		if course.Type == models.CourseTypeMCQ {
			if len(answers) != len(course.MCQs) {
				return validationError(fmt.Sprintf("expected %d answers, got %d", len(course.MCQs), len(answers)))
			}
			if correct := course.Grade(answers); correct < len(course.MCQs) {
				return &IncorrectAnswersError{Correct: correct, Total: len(course.MCQs)}
			}
		}

		res.Transaction = creditReward(t, w, email, course)
		res.Wallet = w.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hooks.announce(ctx, res.Transaction)
	s.log.Info("course completed",
		zap.String("email", email),
		zap.String("course_id", courseID),
		zap.Int64("reward", res.Transaction.Amount),
	)
	return &res, nil
}

// Recommendations lists up to three courses the user has not claimed yet,
// most valuable first.
func (s *CourseService) Recommendations(email string) ([]models.CourseView, error) {
	out := []models.CourseView{}
	err := s.store.View(func(t *repositories.Tx) error {
		_, w, err := ownWallet(t, email)
		if err != nil {
			return err
		}
		for _, c := range t.Courses() {
			if !w.HasToken(c.ID) {
				out = append(out, c.View())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TokenValue != out[j].TokenValue {
			return out[i].TokenValue > out[j].TokenValue
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out, nil
}

type CertificateResult struct {
	Certificate string                  `json:"certificate"`
	Claims      *auth.CertificateClaims `json:"claims"`
}

// Certificate signs a statement that the user's wallet earned the course token.
func (s *CourseService) Certificate(email, courseID string) (*CertificateResult, error) {
	var claims auth.CertificateClaims
	err := s.store.View(func(t *repositories.Tx) error {
		user, w, err := ownWallet(t, email)
		if err != nil {
			return err
		}
		tok := w.Token(courseID)
		if tok == nil {
			return notFoundError("course not completed")
		}
		claims = auth.CertificateClaims{
			Email:         user.Email,
			DisplayName:   user.DisplayName,
			WalletAddress: w.WalletAddress,
			CourseID:      tok.CourseID,
			CourseTitle:   tok.Title,
			Platform:      tok.Platform,
			TokenValue:    tok.TokenValue,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	signed, err := s.certifier.Issue(&claims)
	if err != nil {
		return nil, fmt.Errorf("sign certificate: %w", err)
	}
	return &CertificateResult{Certificate: signed, Claims: &claims}, nil
}
