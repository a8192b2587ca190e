package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/diceroom/internal/models"
	"github.com/KirkDiggler/diceroom/internal/services/roll"
)

// renderSessionEmbed shows a room and who is in it
func renderSessionEmbed(title string, s *models.Session) *discordgo.MessageEmbed {
	nicks := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		nicks = append(nicks, p.Nick)
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:  "Session",
			Value: fmt.Sprintf("`%s`", s.ID),
		},
		{
			Name:  "Players",
			Value: strings.Join(nicks, ", "),
		},
	}

	if last := s.LastResolvedRoll(); last != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Last roll",
			Value: fmt.Sprintf("%s rolled %s: %d", last.Nick, diceText(last.NumDice, last.Dice), last.Value),
		})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  colorSuccess,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use /dice join with the session ID to sit at this table",
		},
	}
}

// renderRollEmbed shows a resolved roll with its funny label
func renderRollEmbed(r *models.Roll, label string) *discordgo.MessageEmbed {
	faces := make([]string, 0, len(r.Values))
	for _, v := range r.Values {
		faces = append(faces, strconv.Itoa(v))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎲 %s rolled %s: %d", r.Nick, diceText(r.NumDice, r.Dice), r.Value),
		Description: label,
		Color:       colorRoll,
	}

	if len(faces) > 1 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Dice",
			Value: strings.Join(faces, " + "),
		})
	}

	if r.Comment != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: r.Comment}
	}

	return embed
}

func diceText(count int, label string) string {
	if count > 1 {
		return fmt.Sprintf("%dx%s", count, label)
	}
	return label
}

// rollAgainButton encodes the roll in its custom ID. The nick goes last
// since it is the only part that may contain the separator.
func rollAgainButton(input *roll.RollDiceInput) discordgo.Button {
	return discordgo.Button{
		Label:    "Roll Again",
		Style:    discordgo.PrimaryButton,
		CustomID: fmt.Sprintf("%s:%s:%s:%s:%d:%s", ButtonRollAgain, input.SessionID, input.Dice, input.CustomSides, input.Count, input.Nick),
		Emoji: &discordgo.ComponentEmoji{
			Name: "🎲",
		},
	}
}

func parseRollAgainID(customID string) (*roll.RollDiceInput, error) {
	parts := strings.SplitN(customID, ":", 6)
	if len(parts) != 6 || parts[0] != ButtonRollAgain {
		return nil, errors.New("not a roll again button")
	}

	count, err := strconv.Atoi(parts[4])
	if err != nil {
		return nil, fmt.Errorf("invalid count: %w", err)
	}

	return &roll.RollDiceInput{
		SessionID:   parts[1],
		Dice:        parts[2],
		CustomSides: parts[3],
		Count:       count,
		Nick:        parts[5],
	}, nil
}
