package models

// Turn is one exchange in a conversation. A nil Answer marks a turn whose
// answer is still being computed (or whose inference call failed).
type Turn struct {
	Message string  `json:"message"`
	Answer  *string `json:"answer"`
}

// Pending reports whether the turn is still waiting for an answer.
func (t Turn) Pending() bool {
	return t.Answer == nil
}

// History is the ordered, append-only list of turns for one session.
type History []Turn

// Clone returns a copy that shares no backing array with h.
func (h History) Clone() History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return out
}

// QARequest pairs a question with the context it must be answered from.
type QARequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// QAResult is what an inference backend returns. Only Answer is consumed by
// the conversation flow; the rest is passed through for logging.
type QAResult struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the full history for re-rendering.
type ChatResponse struct {
	History History `json:"history"`
}
