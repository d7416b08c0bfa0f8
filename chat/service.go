// Package chat proxies the AI assistant widget to the backend. The client
// never talks to a model directly; it forwards the conversation and
// normalizes whatever comes back.
package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"sudburry.com/client/rest"
)

// Message is one turn of the assistant conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service is the assistant feature service.
type Service struct {
	client *rest.Client
}

// NewService creates a chat service.
func NewService(client *rest.Client) *Service {
	return &Service{client: client}
}

// Send forwards a user message plus prior history and returns the assistant
// reply. The reply field name has drifted across backend versions, so
// several are tried.
func (s *Service) Send(ctx context.Context, message string, history []Message) (Message, error) {
	if strings.TrimSpace(message) == "" {
		return Message{}, fmt.Errorf("message is required")
	}
	payload := struct {
		Message string    `json:"message"`
		History []Message `json:"history,omitempty"`
	}{Message: message, History: history}

	value, err := s.client.DoJSON(ctx, rest.Request{
		Service: rest.BusinessService,
		Method:  http.MethodPost,
		Path:    "/api/v1/assistant/chat",
		Body:    payload,
	}, map[string]any{})
	if err != nil {
		return Message{}, err
	}

	reply := Message{Role: "assistant"}
	if obj, ok := value.(map[string]any); ok {
		for _, field := range []string{"reply", "message", "content", "response"} {
			if text, ok := obj[field].(string); ok && text != "" {
				reply.Content = text
				break
			}
		}
	}
	if reply.Content == "" {
		return Message{}, fmt.Errorf("assistant returned no reply")
	}
	return reply, nil
}
