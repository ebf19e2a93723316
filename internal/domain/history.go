package domain

import "time"

// HistoryRecord captures one resolved (or missed) utterance.
type HistoryRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Utterance  string    `json:"utterance"`
	Action     Action    `json:"action"`
	Tier       Tier      `json:"tier"`
	Score      float64   `json:"score"`
	Executed   bool      `json:"executed"`
	Success    bool      `json:"success"`
	DurationMS int64     `json:"duration_ms"`
}
