package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"attendance.bot/internal/core"
	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/chat"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

func commandDefinitions() []*discordgo.ApplicationCommand {
	yearMonth := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "year",
			Description: "Year",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "month",
			Description: "Month 1-12",
			Required:    true,
		},
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "present",
			Description: "Mark your attendance for today.",
		},
		{
			Name:        "my_late_count",
			Description: "Check your late count for a given month.",
			Options:     yearMonth,
		},
		{
			Name:        "monthly_report",
			Description: "Generate monthly late/fine report.",
			Options:     yearMonth,
		},
		{
			Name:        "attendance_report",
			Description: "Generate the raw attendance log for a month.",
			Options:     yearMonth,
		},
		{
			Name:        "attendance_today",
			Description: "Show who is present and absent today.",
		},
		{
			Name:        "employee_summary",
			Description: "Generate the per-employee summary for a month.",
			Options:     yearMonth,
		},
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		// Guild commands only; ignore anything without a member.
		return
	}

	ctx := context.Background()
	actor := chat.Actor{
		ID:          i.Member.User.ID,
		DisplayName: displayName(i.Member.User),
		RoleNames:   b.roleNames(i.Member.Roles),
		IsAdmin:     i.Member.Permissions&discordgo.PermissionAdministrator != 0,
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case "present":
		b.handlePresent(ctx, s, i, actor)
	case "my_late_count":
		b.handleMyLateCount(ctx, s, i, actor, data)
	case "monthly_report":
		b.handleReport(ctx, s, i, actor, data, func(ctx context.Context, channelID string, year, month int) error {
			return b.reports.SendLateFines(ctx, channelID, year, month, false)
		})
	case "attendance_report":
		b.handleReport(ctx, s, i, actor, data, b.reports.SendRawAttendance)
	case "employee_summary":
		b.handleReport(ctx, s, i, actor, data, b.reports.SendEmployeeSummary)
	case "attendance_today":
		b.handleAttendanceToday(ctx, s, i, actor)
	}
}

func (b *Bot) handlePresent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, actor chat.Actor) {
	outcome, _, err := b.attendance.MarkFromCommand(ctx, actor, i.ChannelID)
	if errors.Is(err, core.ErrWrongChannel) {
		respondEphemeral(s, i, "❌ Please use this command in the attendance channel.")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", actor.ID).Msg("Failed to record attendance from command")
		respondEphemeral(s, i, "⚠️ Could not record your attendance, please try again.")
		return
	}

	switch outcome {
	case core.OutcomeAlreadyRecorded:
		respondEphemeral(s, i, "✅ Already marked attendance today.")
	case core.OutcomeLate:
		// The public late notice is already posted by the service.
		respondEphemeral(s, i, "⏰ You are marked **LATE** for today.")
	default:
		respondEphemeral(s, i, "✅ Attendance marked on time.")
	}
}

func (b *Bot) handleMyLateCount(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, actor chat.Actor, data discordgo.ApplicationCommandInteractionData) {
	year, month := intOption(data.Options, "year"), intOption(data.Options, "month")

	count, err := b.attendance.LateCount(ctx, actor.ID, year, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", actor.ID).Msg("Failed to query late count")
		respondEphemeral(s, i, "⚠️ Could not fetch your late count.")
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("📅 Late count for %04d-%02d: **%d** times.", year, month, count))
}

// handleReport runs one of the admin-only CSV report commands. The
// acknowledgment is private; the report itself lands in the channel.
func (b *Bot) handleReport(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	actor chat.Actor,
	data discordgo.ApplicationCommandInteractionData,
	send func(ctx context.Context, channelID string, year, month int) error,
) {
	if !requireAdmin(s, i, actor, data.Name) {
		return
	}

	year, month := intOption(data.Options, "year"), intOption(data.Options, "month")

	deferEphemeral(s, i)
	if err := send(ctx, i.ChannelID, year, month); err != nil {
		log.Error().Err(err).Str("command", data.Name).Msg("Report delivery failed")
		editResponse(s, i, "⚠️ Report generation failed.")
		return
	}
	editResponse(s, i, "📨 Report generated.")
}

func (b *Bot) handleAttendanceToday(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, actor chat.Actor) {
	if !requireAdmin(s, i, actor, "attendance_today") {
		return
	}

	present, day, err := b.attendance.PresentToday(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query today's attendance")
		respondEphemeral(s, i, "⚠️ Could not fetch today's roster.")
		return
	}

	members, err := b.allGuildMembers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list guild members")
		respondEphemeral(s, i, "⚠️ Could not list guild members.")
		return
	}

	var presentNames, absentNames []string
	for _, m := range members {
		if m.User == nil || m.User.Bot {
			continue
		}
		if present[m.User.ID] {
			presentNames = append(presentNames, displayName(m.User))
		} else {
			absentNames = append(absentNames, displayName(m.User))
		}
	}

	respondPublic(s, i, rosterMessage(day.Format(model.DayFormat), presentNames, absentNames))
}

func rosterMessage(day string, present, absent []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Attendance for %s\n", day)
	fmt.Fprintf(&sb, "✅ Present (%d): %s\n", len(present), joinOrDash(present))
	fmt.Fprintf(&sb, "❌ Absent (%d): %s", len(absent), joinOrDash(absent))
	return sb.String()
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// allGuildMembers pages through the member list 1000 at a time.
func (b *Bot) allGuildMembers() ([]*discordgo.Member, error) {
	var members []*discordgo.Member
	after := ""
	for {
		page, err := b.session.GuildMembers(b.guildID, after, 1000)
		if err != nil {
			return nil, err
		}
		members = append(members, page...)
		if len(page) < 1000 {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// requireAdmin is the capability check for admin-only commands, done once
// at the platform boundary. Refusals are private and change no state.
func requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate, actor chat.Actor, command string) bool {
	if actor.IsAdmin {
		return true
	}
	log.Warn().Err(core.ErrPermissionDenied).Str("user_id", actor.ID).Str("command", command).Msg("Admin command refused")
	respondEphemeral(s, i, "❌ Only admins can run this.")
	return false
}

func intOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) int {
	for _, opt := range options {
		if opt.Name == name {
			return int(opt.IntValue())
		}
	}
	return 0
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to respond to interaction")
	}
}

func respondPublic(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to respond to interaction")
	}
}

func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to defer interaction response")
	}
}

func editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
	if err != nil {
		log.Error().Err(err).Msg("Failed to edit interaction response")
	}
}
