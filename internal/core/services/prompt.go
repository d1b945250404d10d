package services

import (
	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// BuildPrompt renders the question sent to the language model. Without
// context the query goes out unchanged.
func BuildPrompt(context, query string) string {
	if context == "" {
		return query
	}
	return "Context: " + context + "\n\nQuestion: " + query
}

// BuildChatMessages lays out a conversation: the system text when set,
// the history with its roles mapped, then prompt as the final user turn.
// Unknown roles are sent as the user.
func BuildChatMessages(system string, history []domain.ChatTurn, prompt string) []driven.ChatMessage {
	msgs := make([]driven.ChatMessage, 0, len(history)+2)
	if system != "" {
		msgs = append(msgs, driven.ChatMessage{Role: domain.ChatRoleSystem, Content: system})
	}
	for _, turn := range history {
		msgs = append(msgs, driven.ChatMessage{
			Role:    domain.ParseChatRole(turn.Role),
			Content: turn.Content,
		})
	}
	return append(msgs, driven.ChatMessage{Role: domain.ChatRoleUser, Content: prompt})
}
