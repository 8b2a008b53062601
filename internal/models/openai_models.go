package models

type OpenAIScoreRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type OpenAIScoreResponse struct {
	Scores []OpenAIScore `json:"scores"`
}

type OpenAIScore struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}
