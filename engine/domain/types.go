// Package domain defines the core types, validation, and failure taxonomy for
// the FAQ chatbot pipeline. It acts as the validation gate at pipeline entry
// points.
package domain

// FAQ is one stored question/answer pair. The vector stored alongside it in
// the FAQ store is never exposed downstream of retrieval.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Match is a scored retrieval hit, most-similar first in result slices.
type Match struct {
	FAQ
	Score float32 `json:"score"`
}

// Query is an ephemeral user request, alive for one pipeline pass.
type Query struct {
	Text string `json:"text"`
}
