package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/diceroom/internal/services/messaging"
	"github.com/KirkDiggler/diceroom/internal/services/roll"
)

// Sender is the part of a Discord session that posts to a channel
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// AnnouncerConfig holds configuration for the announcer
type AnnouncerConfig struct {
	// Sender posts the messages, usually the bot's session
	Sender Sender

	// ChannelID is where resolved rolls are posted
	ChannelID string

	MessagingService messaging.Service
}

// Announcer posts every resolved roll to a Discord channel
type Announcer struct {
	sender    Sender
	channelID string
	messaging messaging.Service
}

// NewAnnouncer creates a new announcer
func NewAnnouncer(cfg *AnnouncerConfig) (*Announcer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Sender == nil {
		return nil, errors.New("sender cannot be nil")
	}

	if cfg.ChannelID == "" {
		return nil, errors.New("channel ID cannot be empty")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	return &Announcer{
		sender:    cfg.Sender,
		channelID: cfg.ChannelID,
		messaging: cfg.MessagingService,
	}, nil
}

// NotifyRollResolved posts the roll toast with its funny label
func (a *Announcer) NotifyRollResolved(ctx context.Context, input *roll.NotifyRollResolvedInput) error {
	if input == nil || input.Roll == nil || input.Event == nil {
		return errors.New("input, roll and event cannot be nil")
	}

	toast, err := a.messaging.GetRollCompletedMessage(ctx, &messaging.GetRollCompletedMessageInput{
		Event: input.Event,
	})
	if err != nil {
		return fmt.Errorf("failed to build roll message: %w", err)
	}

	label, err := a.messaging.GetRollLabel(ctx, &messaging.GetRollLabelInput{
		Roll: input.Roll,
	})
	if err != nil {
		return fmt.Errorf("failed to label roll: %w", err)
	}

	embed := renderRollEmbed(input.Roll, label.Label)
	embed.Title = "🎲 " + toast.Message
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Session %s", input.SessionID),
	}

	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, embed); err != nil {
		return fmt.Errorf("failed to post roll: %w", err)
	}

	return nil
}
