package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/KirkDiggler/diceroom/internal/dice"
	"github.com/KirkDiggler/diceroom/internal/services/messaging"
	"github.com/KirkDiggler/diceroom/internal/services/roll"
	"github.com/KirkDiggler/diceroom/internal/services/session"
)

// ButtonRollAgain prefixes the custom ID of the button under a roll result
const ButtonRollAgain = "roll_again"

// rollTimeout bounds how long a slash command waits for a roll to settle
const rollTimeout = 10 * time.Second

// DiceCommand handles the /dice command
type DiceCommand struct {
	BaseCommand
	sessionService   session.Service
	rollService      roll.Service
	messagingService messaging.Service
}

// NewDiceCommand creates a new dice command handler
func NewDiceCommand(sessionService session.Service, rollService roll.Service, messagingService messaging.Service) *DiceCommand {
	diceChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(dice.Standard)+1)
	for _, d := range dice.Standard {
		diceChoices = append(diceChoices, &discordgo.ApplicationCommandOptionChoice{Name: d.Label, Value: d.Label})
	}
	diceChoices = append(diceChoices, &discordgo.ApplicationCommandOptionChoice{Name: "Custom", Value: dice.CustomLabel})

	nickOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "nick",
		Description: "Nickname in the room, defaults to your display name",
	}
	sessionOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "session",
		Description: "Session ID",
		Required:    true,
	}

	return &DiceCommand{
		BaseCommand: BaseCommand{
			Name:        "dice",
			Description: "Shared dice rolling rooms",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Open a new dice room",
					Options:     []*discordgo.ApplicationCommandOption{nickOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join an existing dice room",
					Options:     []*discordgo.ApplicationCommandOption{sessionOption, nickOption},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "roll",
					Description: "Roll some dice in a room",
					Options: []*discordgo.ApplicationCommandOption{
						sessionOption,
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "dice",
							Description: "Which die to roll",
							Choices:     diceChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "count",
							Description: "How many dice",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "sides",
							Description: "Sides for a custom die",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "comment",
							Description: "What is this roll for?",
						},
						nickOption,
					},
				},
			},
		},
		sessionService:   sessionService,
		rollService:      rollService,
		messagingService: messagingService,
	}
}

// Handle processes a Discord interaction for the dice command
func (c *DiceCommand) Handle(s Responder, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	sub := data.Options[0]
	opts := options(sub.Options)

	nick := stringOption(opts, "nick")
	if strings.TrimSpace(nick) == "" {
		nick = memberName(i)
	}

	switch sub.Name {
	case "create":
		return c.handleCreate(s, i, nick)
	case "join":
		return c.handleJoin(s, i, stringOption(opts, "session"), nick)
	case "roll":
		return c.handleRoll(s, i, &roll.RollDiceInput{
			SessionID:   stringOption(opts, "session"),
			Nick:        nick,
			Dice:        stringOption(opts, "dice"),
			CustomSides: stringOption(opts, "sides"),
			Count:       intOption(opts, "count"),
			Comment:     stringOption(opts, "comment"),
		})
	default:
		return errors.New("unknown subcommand")
	}
}

// HandleRollAgain repeats the roll encoded in a button's custom ID
func (c *DiceCommand) HandleRollAgain(s Responder, i *discordgo.InteractionCreate) error {
	input, err := parseRollAgainID(i.MessageComponentData().CustomID)
	if err != nil {
		return RespondWithError(s, i, "That button has worn out. Use /dice roll instead.")
	}
	return c.handleRoll(s, i, input)
}

// handleCreate handles the create subcommand
func (c *DiceCommand) handleCreate(s Responder, i *discordgo.InteractionCreate, nick string) error {
	ctx := context.Background()

	output, err := c.sessionService.CreateSession(ctx, &session.CreateSessionInput{Nick: nick})
	if err != nil {
		return c.respondWithServiceError(ctx, s, i, err)
	}

	return RespondWithEmbed(s, i, renderSessionEmbed("Dice room opened", output.Session))
}

// handleJoin handles the join subcommand
func (c *DiceCommand) handleJoin(s Responder, i *discordgo.InteractionCreate, sessionID, nick string) error {
	ctx := context.Background()

	output, err := c.sessionService.JoinSession(ctx, &session.JoinSessionInput{
		SessionID: sessionID,
		Nick:      nick,
	})
	if err != nil {
		return c.respondWithServiceError(ctx, s, i, err)
	}

	return RespondWithEmbed(s, i, renderSessionEmbed(fmt.Sprintf("%s joined the room", nick), output.Session))
}

// handleRoll commits the roll, acknowledges the interaction and edits in
// the outcome once the dice settle
func (c *DiceCommand) handleRoll(s Responder, i *discordgo.InteractionCreate, input *roll.RollDiceInput) error {
	ctx, cancel := context.WithTimeout(context.Background(), rollTimeout)
	defer cancel()

	handle, err := c.rollService.RollDice(ctx, input)
	if err != nil {
		return c.respondWithServiceError(ctx, s, i, err)
	}

	if err := DeferResponse(s, i); err != nil {
		handle.Cancel()
		return fmt.Errorf("failed to acknowledge roll: %w", err)
	}

	resolved, err := handle.Wait(ctx)
	if err != nil {
		log.Warn().Err(err).Str("session_id", input.SessionID).Msg("roll did not resolve")
		return EditWithEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "Roll failed",
			Description: c.errorText(ctx, err),
			Color:       colorError,
		})
	}

	label := ""
	if output, err := c.messagingService.GetRollLabel(ctx, &messaging.GetRollLabelInput{Roll: resolved}); err == nil {
		label = output.Label
	}

	return EditWithEmbed(s, i, renderRollEmbed(resolved, label), rollAgainButton(input))
}

func (c *DiceCommand) respondWithServiceError(ctx context.Context, s Responder, i *discordgo.InteractionCreate, err error) error {
	return RespondWithError(s, i, c.errorText(ctx, err))
}

// errorText turns a service error into the user-facing message
func (c *DiceCommand) errorText(ctx context.Context, err error) string {
	kind := errorType(err)

	output, msgErr := c.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		ErrorType: kind,
	})
	if msgErr != nil {
		return "Something went wrong."
	}

	message := output.Message
	if kind == messaging.ErrorTypeInvalidRoll {
		message = err.Error()
	}
	if output.Quip != "" {
		return fmt.Sprintf("%s. %s", capitalize(message), output.Quip)
	}
	return capitalize(message)
}

func errorType(err error) messaging.ErrorType {
	switch {
	case errors.Is(err, session.ErrMissingNick), errors.Is(err, roll.ErrMissingNick):
		return messaging.ErrorTypeMissingNick
	case errors.Is(err, session.ErrMissingSessionID), errors.Is(err, roll.ErrMissingSessionID):
		return messaging.ErrorTypeMissingSession
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, roll.ErrSessionNotFound):
		return messaging.ErrorTypeSessionNotFound
	case errors.Is(err, session.ErrNicknameTaken):
		return messaging.ErrorTypeNicknameTaken
	case errors.Is(err, roll.ErrNotInSession):
		return messaging.ErrorTypeNotInSession
	case errors.Is(err, roll.ErrTooManyDice), errors.Is(err, roll.ErrCommentTooLong):
		return messaging.ErrorTypeInvalidRoll
	case errors.Is(err, session.ErrCreateFailed):
		return messaging.ErrorTypeCreateFailed
	case errors.Is(err, session.ErrJoinFailed):
		return messaging.ErrorTypeJoinFailed
	case errors.Is(err, roll.ErrRollFailed), errors.Is(err, roll.ErrRollNotFound):
		return messaging.ErrorTypeRollFailed
	default:
		return messaging.ErrorTypeUnknown
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
