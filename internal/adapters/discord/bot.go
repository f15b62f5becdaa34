// Package discord adapts the chat-platform contract to Discord. All
// discordgo types stay inside this package; the core services see only
// the chat port.
package discord

import (
	"context"

	"attendance.bot/internal/core"
	"attendance.bot/internal/ports/chat"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Bot owns the Discord session: slash-command registration, the passive
// message handler, and command dispatch.
type Bot struct {
	session    *discordgo.Session
	attendance *core.AttendanceService
	reports    *core.ReportService

	guildID string
}

// NewBot wires the adapter. The session must not be opened yet; Start
// installs the handlers and opens it.
func NewBot(session *discordgo.Session, attendance *core.AttendanceService, reports *core.ReportService, guildID string) *Bot {
	return &Bot{
		session:    session,
		attendance: attendance,
		reports:    reports,
		guildID:    guildID,
	}
}

// Start installs handlers and opens the gateway connection.
func (b *Bot) Start() error {
	b.session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuildMembers

	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	return b.session.Open()
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, b.guildID, commandDefinitions())
	if err != nil {
		log.Error().Err(err).Msg("Failed to register slash commands")
		return
	}
	log.Info().Str("bot_user", r.User.Username).Str("guild_id", b.guildID).Msg("Logged in, commands synced")
}

// onMessageCreate is the passive check-in path: any non-bot message in
// the attendance channel marks the author for the day.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := context.Background()

	var roleNames []string
	if m.Member != nil {
		roleNames = b.roleNames(m.Member.Roles)
	}

	msg := chat.Message{
		AuthorID:   m.Author.ID,
		AuthorName: displayName(m.Author),
		IsBot:      m.Author.Bot,
		ChannelID:  m.ChannelID,
		RoleNames:  roleNames,
	}

	if err := b.attendance.MarkFromMessage(ctx, msg); err != nil {
		log.Error().Err(err).Str("user_id", m.Author.ID).Msg("Failed to record attendance from message")
	}
}

// roleNames resolves role IDs to names via session state. Unknown IDs are
// dropped.
func (b *Bot) roleNames(roleIDs []string) []string {
	names := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		role, err := b.session.State.Role(b.guildID, id)
		if err != nil {
			continue
		}
		names = append(names, role.Name)
	}
	return names
}

// displayName snapshots the user's handle the way it is stored in the
// attendance table. Legacy accounts keep the "name#discriminator" form;
// migrated accounts have discriminator "0" and use the bare username.
func displayName(u *discordgo.User) string {
	if u.Discriminator != "" && u.Discriminator != "0" {
		return u.Username + "#" + u.Discriminator
	}
	return u.Username
}
