package discord

import (
	"bytes"
	"context"

	"github.com/bwmarrin/discordgo"
)

// Notifier delivers outbound messages and attachments through a Discord
// session. It satisfies chat.Notifier; attachments are streamed from
// memory, never from disk.
type Notifier struct {
	session *discordgo.Session
}

func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{session: session}
}

func (n *Notifier) SendMessage(ctx context.Context, channelID, content string) error {
	_, err := n.session.ChannelMessageSend(channelID, content)
	return err
}

func (n *Notifier) SendFile(ctx context.Context, channelID, filename string, contents []byte, message string) error {
	_, err := n.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: message,
		Files: []*discordgo.File{
			{Name: filename, Reader: bytes.NewReader(contents)},
		},
	})
	return err
}
