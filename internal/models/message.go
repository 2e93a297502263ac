package models

// Role is the author of a chat message
type Role string

// Roles accepted by the upstream chat-completion API
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one the relay forwards
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ChatMessage is one turn of a conversation, as sent by the browser
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the body returned by POST /api/chat
type ChatResponse struct {
	Message ChatMessage `json:"message"`
}
