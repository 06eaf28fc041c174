package models

// Course types
const (
	CourseTypeVideo = "video"
	CourseTypeMCQ   = "mcq"
)

type Course struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Platform        string   `json:"platform"`
	PlatformInitial string   `json:"platformInitial"`
	TokenValue      int64    `json:"tokenValue"`
	RewardAmount    int64    `json:"rewardAmount"`
	DurationHours   int      `json:"durationHours"`
	Type            string   `json:"type"`
	VideoURL        string   `json:"videoUrl,omitempty"`
	Content         []string `json:"content,omitempty"`
	MCQs            []MCQ    `json:"mcqs,omitempty"`
}

type MCQ struct {
	Question string   `json:"q"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// PublicMCQ is an MCQ without its answer.
type PublicMCQ struct {
	Question string   `json:"q"`
	Options  []string `json:"options"`
}

// CourseView is what clients see: quiz answers are stripped.
type CourseView struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Platform        string      `json:"platform"`
	PlatformInitial string      `json:"platformInitial"`
	TokenValue      int64       `json:"tokenValue"`
	RewardAmount    int64       `json:"rewardAmount"`
	DurationHours   int         `json:"durationHours"`
	Type            string      `json:"type"`
	VideoURL        string      `json:"videoUrl,omitempty"`
	Content         []string    `json:"content,omitempty"`
	MCQs            []PublicMCQ `json:"mcqs,omitempty"`
}

func (c *Course) View() CourseView {
	v := CourseView{
		ID:              c.ID,
		Title:           c.Title,
		Platform:        c.Platform,
		PlatformInitial: c.PlatformInitial,
		TokenValue:      c.TokenValue,
		RewardAmount:    c.RewardAmount,
		DurationHours:   c.DurationHours,
		Type:            c.Type,
		VideoURL:        c.VideoURL,
		Content:         c.Content,
	}
	for _, q := range c.MCQs {
		v.MCQs = append(v.MCQs, PublicMCQ{Question: q.Question, Options: q.Options})
	}
	return v
}

// Grade counts correct answers. answers[i] is the chosen option index for MCQs[i].
func (c *Course) Grade(answers []int) (correct int) {
	for i, q := range c.MCQs {
		if i < len(answers) && answers[i] == q.Correct {
			correct++
		}
	}
	return correct
}
