package models

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSInbound is a client frame. "message" is the only type that carries a payload.
type WSInbound struct {
	Type    string `json:"type"`
	Payload struct {
		Message string `json:"message"`
	} `json:"payload"`
}

type HistoryUpdate struct {
	History History `json:"history"`
	Pending bool    `json:"pending"`
}
