package domain

// AskRequest is one pass through the pipeline: optional ingestion and
// image extraction, then retrieval and a language-model call.
type AskRequest struct {
	// Query is the free-text question.
	Query string

	// PDFPath, when set, is ingested before retrieval.
	PDFPath string

	// ImageDir, when set together with PDFPath, receives extracted images.
	ImageDir string

	// System and History turn the call into a chat: System leads as the
	// system message, History follows, the prompt is the last user turn.
	System  string
	History []ChatTurn
}

// IsChat reports whether the request carries a conversation.
func (r AskRequest) IsChat() bool {
	return r.System != "" || len(r.History) > 0
}

// ChatTurn is one entry of a caller-supplied conversation.
// Role is free-form and mapped with ParseChatRole.
type ChatTurn struct {
	Role    string
	Content string
}

// Answer is the outcome of an AskRequest.
// IngestErr and ImageErr record failures that did not block the answer.
type Answer struct {
	Query    string
	Context  string
	Prompt   string
	Response string
	Model    string

	Ingest    *IngestReport
	IngestErr error
	Images    *ImageReport
	ImageErr  error
}

// ChatRole is the speaker of a chat message.
type ChatRole string

const (
	// ChatRoleSystem carries instructions.
	ChatRoleSystem ChatRole = "system"

	// ChatRoleUser carries user turns.
	ChatRoleUser ChatRole = "user"

	// ChatRoleAssistant carries model turns.
	ChatRoleAssistant ChatRole = "assistant"
)

// ParseChatRole maps free-form role names onto the roles sent to a model.
// "system" stays system, "assistant" and "model" become assistant,
// anything else is treated as the user.
func ParseChatRole(s string) ChatRole {
	switch s {
	case "system":
		return ChatRoleSystem
	case "assistant", "model":
		return ChatRoleAssistant
	default:
		return ChatRoleUser
	}
}
