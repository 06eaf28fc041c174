package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/learn2earn/backend/internal/repositories"
	"go.uber.org/zap"
)

const (
	courseMentionBonus = 5
	maxResumeBytes     = 64 << 10
)

var htmlTagPattern = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

type ResumeEvaluation struct {
	ResumeValue    int64    `json:"resumeValue"`
	MatchedCourses []string `json:"matchedCourses"`
	Score          int64    `json:"score"`
}

// ResumeService scores a resume against the user's earned tokens and the
// courses it mentions.
type ResumeService struct {
	store *repositories.Store
	log   *zap.Logger
}

func NewResumeService(store *repositories.Store, log *zap.Logger) *ResumeService {
	return &ResumeService{store: store, log: log}
}

func (s *ResumeService) Evaluate(email, resume string) (*ResumeEvaluation, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, validationError("resume required")
	}
	if len(resume) > maxResumeBytes {
		return nil, validationError(fmt.Sprintf("resume must be at most %d bytes", maxResumeBytes))
	}

	text, err := resumeText(resume)
	if err != nil {
		s.log.Debug("resume html parse failed", zap.Error(err))
		return nil, validationError("could not read resume")
	}
	text = strings.ToLower(text)

	out := ResumeEvaluation{MatchedCourses: []string{}}
	err = s.store.View(func(t *repositories.Tx) error {
		_, w, err := ownWallet(t, email)
		if err != nil {
			return err
		}
		out.ResumeValue = w.ResumeValue

		for _, c := range t.Courses() {
			if mentions(text, c.Title) || mentions(text, c.Platform) {
				out.MatchedCourses = append(out.MatchedCourses, c.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out.Score = out.ResumeValue + int64(len(out.MatchedCourses))*courseMentionBonus
	return &out, nil
}

// resumeText reduces an HTML resume to its visible text. Anything that does
// not look like HTML is returned as is.
func resumeText(resume string) (string, error) {
	if !htmlTagPattern.MatchString(resume) {
		return collapseSpaces(resume), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resume))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()

	// Block elements would otherwise glue neighbouring words together.
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, td, th").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return collapseSpaces(doc.Text()), nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func mentions(text, needle string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	return needle != "" && strings.Contains(text, needle)
}
