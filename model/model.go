package model

import "encoding/json"

// ActionType — вид действия над API TeamUp.
type ActionType string

const (
	ActionChat ActionType = "chat"
	ActionFeed ActionType = "feed"
	ActionNote ActionType = "note"
)

// Action — один элемент входа: что отправить и кому.
// TargetID — номер комнаты для chat, номер группы ленты для feed, поисковый запрос для note.
type Action struct {
	Type     ActionType `json:"apiType"`
	TargetID string     `json:"targetId"`
	Title    string     `json:"title,omitempty"`
	Content  string     `json:"content"`
	Push     bool       `json:"push,omitempty"`
}

// Result — итог выполнения одного Action.
type Result struct {
	Success  bool            `json:"success"`
	Action   Action          `json:"action"`
	Error    string          `json:"error,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}
