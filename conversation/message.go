package conversation

// Role identifies the author side of a message.
type Role string

const (
	// RoleUser marks a message authored by the user.
	RoleUser Role = "user"
	// RoleAssistant marks a message authored by an agent.
	RoleAssistant Role = "assistant"
)

// FileRef points at an attachment carried alongside a message. Either URI or
// inlined base64 Bytes is populated, never both.
type FileRef struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	URI      string `json:"uri,omitempty"`
	Bytes    string `json:"bytes,omitempty"`
}

// Message is one entry of a conversation. ID is globally unique within a
// conversation: two messages with the same ID are the same logical message,
// which is what optimistic/confirmed reconciliation keys on.
type Message struct {
	ID      string   `json:"id"`
	Role    Role     `json:"role"`
	Content string   `json:"content"`
	File    *FileRef `json:"file,omitempty"`
}

// Clone returns a copy safe for independent mutation.
func (m Message) Clone() Message {
	clone := m
	if m.File != nil {
		f := *m.File
		clone.File = &f
	}
	return clone
}
