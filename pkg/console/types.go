package console

import "time"

// AgentStatus represents an agent's deployment state
type AgentStatus string

const (
	AgentStatusDraft    AgentStatus = "draft"
	AgentStatusActive   AgentStatus = "active"
	AgentStatusPaused   AgentStatus = "paused"
	AgentStatusArchived AgentStatus = "archived"
)

// Agent is a deployed conversational agent.
type Agent struct {
	ID          string      `json:"id"`
	WorkspaceID string      `json:"workspace_id"`
	Name        string      `json:"name"`
	PersonaID   string      `json:"persona_id,omitempty"`
	Model       string      `json:"model"`
	Status      AgentStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Persona is a reusable system-prompt/tone template agents are built from.
type Persona struct {
	ID           string    `json:"id"`
	WorkspaceID  string    `json:"workspace_id"`
	Name         string    `json:"name"`
	SystemPrompt string    `json:"system_prompt"`
	Tone         string    `json:"tone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// KnowledgeKind identifies where a knowledge source's content comes from
type KnowledgeKind string

const (
	KnowledgeURL  KnowledgeKind = "url"
	KnowledgeFile KnowledgeKind = "file"
	KnowledgeText KnowledgeKind = "text"
)

// KnowledgeSource is a document or URL an agent grounds its answers in.
type KnowledgeSource struct {
	ID          string        `json:"id"`
	WorkspaceID string        `json:"workspace_id"`
	Name        string        `json:"name"`
	Kind        KnowledgeKind `json:"kind"`
	Source      string        `json:"source"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ChatSession is one end-user conversation with an agent.
type ChatSession struct {
	ID            string    `json:"id"`
	WorkspaceID   string    `json:"workspace_id"`
	AgentID       string    `json:"agent_id"`
	Channel       string    `json:"channel"`
	StartedAt     time.Time `json:"started_at"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
}

// Lead is a contact captured by an agent during a conversation.
type Lead struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	SessionID   string    `json:"session_id,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CapturedAt  time.Time `json:"captured_at"`
}

// CreateAgentRequest creates an agent.
type CreateAgentRequest struct {
	Name      string `json:"name"`
	PersonaID string `json:"persona_id,omitempty"`
	Model     string `json:"model"`
}

// CreatePersonaRequest creates a persona.
type CreatePersonaRequest struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt"`
	Tone         string `json:"tone,omitempty"`
}

// CreateKnowledgeSourceRequest registers a knowledge source.
type CreateKnowledgeSourceRequest struct {
	Name   string        `json:"name"`
	Kind   KnowledgeKind `json:"kind"`
	Source string        `json:"source"`
}

// ChatMessage is a single turn in a test conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatDelta is one streamed increment of an agent's reply.
type ChatDelta struct {
	Content string `json:"content"`
	Done    bool   `json:"-"`
}
