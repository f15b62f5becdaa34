// Package chat defines the narrow contract the bot has with the chat
// platform. The core services only ever see these types; everything
// Discord-specific lives in the adapter.
package chat

import "context"

// Notifier sends outbound content to a channel.
type Notifier interface {
	// SendMessage posts a plain text message to a channel.
	SendMessage(ctx context.Context, channelID, content string) error

	// SendFile posts a file attachment with an accompanying message.
	// Contents are delivered from memory; no file is written to disk.
	SendFile(ctx context.Context, channelID, filename string, contents []byte, message string) error
}

// Message is an inbound channel message, reduced to what the attendance
// handler needs.
type Message struct {
	AuthorID   string
	AuthorName string
	IsBot      bool
	ChannelID  string
	RoleNames  []string
}

// Actor is the person behind a command invocation. IsAdmin is resolved
// once at the platform boundary so nothing downstream touches the role
// model.
type Actor struct {
	ID          string
	DisplayName string
	RoleNames   []string
	IsAdmin     bool
}

// Mention renders a platform mention for a user ID.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
