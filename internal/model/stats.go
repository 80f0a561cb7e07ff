package model

// Demographics are per-answer category tallies
type Demographics struct {
	Gender   map[string]int `json:"gender"`
	Position map[string]int `json:"position"`
	Age      map[string]int `json:"age"` // Bucketed: <18, 18-24, 25-34, 35-44, 45-54, 55+
}

// AnswerStats is the aggregate for one answer option
type AnswerStats struct {
	Count        int          `json:"count"`
	Demographics Demographics `json:"demographics"`
}

// PromptStats is the full aggregation result for a prompt
type PromptStats struct {
	PromptID      string                 `json:"promptId"`
	ResponseCount int                    `json:"responseCount"`
	AnswerStats   map[string]AnswerStats `json:"answerStats"`
	HasEnoughData bool                   `json:"hasEnoughData"`
}
