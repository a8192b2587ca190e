package discord

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/diceroom/internal/dice"
	"github.com/KirkDiggler/diceroom/internal/models"
	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	"github.com/KirkDiggler/diceroom/internal/services/messaging"
	"github.com/KirkDiggler/diceroom/internal/services/roll"
	"github.com/KirkDiggler/diceroom/internal/services/session"
)

// fakeResponder records what the bot answers
type fakeResponder struct {
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeResponder) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

func (f *fakeResponder) lastEmbed() *discordgo.MessageEmbed {
	if len(f.edits) > 0 {
		return (*f.edits[len(f.edits)-1].Embeds)[0]
	}
	return f.responses[len(f.responses)-1].Data.Embeds[0]
}

// fakeSender records posted embeds
type fakeSender struct {
	channelID string
	embeds    []*discordgo.MessageEmbed
	err       error
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.channelID = channelID
	f.embeds = append(f.embeds, embed)
	return &discordgo.Message{}, nil
}

type DiscordTestSuite struct {
	suite.Suite
	mr        *miniredis.Miniredis
	client    *redis.Client
	messaging messaging.Service
	command   *DiceCommand
	bot       *Bot
	responder *fakeResponder
	ctx       context.Context
}

func (s *DiscordTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	sessionService, err := session.New(&session.Config{Repository: repo})
	s.Require().NoError(err)

	rollService, err := roll.New(&roll.Config{
		Repository: repo,
		DiceRoller: dice.New(&dice.Config{Seed: 3}),
		Frames:     -1,
	})
	s.Require().NoError(err)

	s.messaging, err = messaging.NewService(&messaging.ServiceConfig{Seed: 3})
	s.Require().NoError(err)

	s.command = NewDiceCommand(sessionService, rollService, s.messaging)
	s.bot = &Bot{
		commands: map[string]CommandHandler{s.command.GetName(): s.command},
		dice:     s.command,
		config:   &Config{},
	}
	s.responder = &fakeResponder{}
	s.ctx = context.Background()
}

func (s *DiscordTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func slashCommand(member, sub string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "dice",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name:    sub,
						Type:    discordgo.ApplicationCommandOptionSubCommand,
						Options: opts,
					},
				},
			},
			Member: &discordgo.Member{
				User: &discordgo.User{Username: member},
			},
		},
	}
}

func (s *DiscordTestSuite) createSession(member string) string {
	s.Require().NoError(s.command.Handle(s.responder, slashCommand(member, "create")))

	embed := s.responder.lastEmbed()
	s.Require().Equal("Dice room opened", embed.Title)
	return strings.Trim(embed.Fields[0].Value, "`")
}

func (s *DiscordTestSuite) TestCommandDefinition() {
	cmd := s.command.GetCommand()
	s.Equal("dice", cmd.Name)
	s.Len(cmd.Options, 3)
	s.Equal("create", cmd.Options[0].Name)
	s.Equal("join", cmd.Options[1].Name)
	s.Equal("roll", cmd.Options[2].Name)
}

func (s *DiscordTestSuite) TestCreateAndJoin() {
	sessionID := s.createSession("alice")
	s.NotEmpty(sessionID)
	s.Equal("alice", s.responder.lastEmbed().Fields[1].Value)

	s.Require().NoError(s.command.Handle(s.responder, slashCommand("bob", "join",
		stringOpt("session", sessionID),
	)))
	embed := s.responder.lastEmbed()
	s.Equal("bob joined the room", embed.Title)
	s.Equal("alice, bob", embed.Fields[1].Value)

	// A taken nick is answered privately
	s.Require().NoError(s.command.Handle(s.responder, slashCommand("carol", "join",
		stringOpt("session", sessionID),
		stringOpt("nick", "bob"),
	)))
	last := s.responder.responses[len(s.responder.responses)-1]
	s.Equal(discordgo.MessageFlagsEphemeral, last.Data.Flags)
	s.True(strings.HasPrefix(last.Data.Embeds[0].Description, "Nickname already in session"))
}

func (s *DiscordTestSuite) TestRoll() {
	sessionID := s.createSession("alice")

	s.bot.handleInteraction(s.responder, slashCommand("alice", "roll",
		stringOpt("session", sessionID),
		stringOpt("dice", "D20"),
		intOpt("count", 2),
		stringOpt("comment", "initiative"),
	))

	s.Require().Len(s.responder.responses, 2)
	s.Equal(discordgo.InteractionResponseDeferredChannelMessageWithSource, s.responder.responses[1].Type)

	s.Require().Len(s.responder.edits, 1)
	edit := s.responder.edits[0]
	embed := (*edit.Embeds)[0]
	s.True(strings.HasPrefix(embed.Title, "🎲 alice rolled 2xD20: "))
	s.Equal("initiative", embed.Footer.Text)

	row := (*edit.Components)[0].(discordgo.ActionsRow)
	button := row.Components[0].(discordgo.Button)
	s.Equal("roll_again:"+sessionID+":D20::2:alice", button.CustomID)

	// The button rolls the same dice again
	s.bot.handleInteraction(s.responder, &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: button.CustomID},
		},
	})
	s.Require().Len(s.responder.edits, 2)
	s.True(strings.HasPrefix((*s.responder.edits[1].Embeds)[0].Title, "🎲 alice rolled 2xD20: "))
}

func (s *DiscordTestSuite) TestRollErrors() {
	sessionID := s.createSession("alice")

	s.Require().NoError(s.command.Handle(s.responder, slashCommand("mallory", "roll",
		stringOpt("session", sessionID),
		stringOpt("dice", "D6"),
	)))
	last := s.responder.responses[len(s.responder.responses)-1]
	s.Equal(discordgo.MessageFlagsEphemeral, last.Data.Flags)
	s.True(strings.HasPrefix(last.Data.Embeds[0].Description, "Player is not in this session"))

	s.Require().NoError(s.command.Handle(s.responder, slashCommand("alice", "roll",
		stringOpt("session", sessionID),
		intOpt("count", roll.DefaultMaxDice+1),
	)))
	last = s.responder.responses[len(s.responder.responses)-1]
	s.True(strings.HasPrefix(last.Data.Embeds[0].Description, "Too many dice"))
	s.Empty(s.responder.edits)
}

func (s *DiscordTestSuite) TestParseRollAgainID() {
	input := &roll.RollDiceInput{
		SessionID:   "sid",
		Dice:        "custom",
		CustomSides: "37",
		Count:       3,
		Nick:        "odd:nick",
	}

	parsed, err := parseRollAgainID(rollAgainButton(input).CustomID)
	s.Require().NoError(err)
	s.Equal(input, parsed)

	_, err = parseRollAgainID("join_game")
	s.Error(err)

	_, err = parseRollAgainID("roll_again:sid:D6::x:alice")
	s.Error(err)
}

func (s *DiscordTestSuite) TestAnnouncer() {
	_, err := NewAnnouncer(nil)
	s.Error(err)

	_, err = NewAnnouncer(&AnnouncerConfig{Sender: &fakeSender{}, MessagingService: s.messaging})
	s.Error(err)

	sender := &fakeSender{}
	announcer, err := NewAnnouncer(&AnnouncerConfig{
		Sender:           sender,
		ChannelID:        "channel-1",
		MessagingService: s.messaging,
	})
	s.Require().NoError(err)

	resolved := &models.Roll{ID: "r1", Nick: "alice", Dice: "D6", Sides: 6, NumDice: 1, Values: []int{6}, Value: 6}
	err = announcer.NotifyRollResolved(s.ctx, &roll.NotifyRollResolvedInput{
		SessionID: "sid",
		Roll:      resolved,
		Event:     &models.RollEvent{Seq: 1, RollID: "r1", Nick: "alice", Dice: "D6", NumDice: 1, Value: 6},
	})
	s.Require().NoError(err)

	s.Equal("channel-1", sender.channelID)
	s.Require().Len(sender.embeds, 1)
	s.Equal("🎲 alice rolled D6: 6", sender.embeds[0].Title)
	s.NotEmpty(sender.embeds[0].Description)
	s.Equal("Session sid", sender.embeds[0].Footer.Text)

	sender.err = errors.New("missing permissions")
	err = announcer.NotifyRollResolved(s.ctx, &roll.NotifyRollResolvedInput{
		SessionID: "sid",
		Roll:      resolved,
		Event:     &models.RollEvent{Seq: 2, RollID: "r1", Nick: "alice", Dice: "D6", NumDice: 1, Value: 6},
	})
	s.Error(err)
}

func (s *DiscordTestSuite) TestNewBot() {
	_, err := New(&Config{SessionService: s.command.sessionService})
	s.Error(err)

	_, err = New(&Config{Token: "token", SessionService: s.command.sessionService})
	s.Error(err)

	shared, err := NewSession("token")
	s.Require().NoError(err)

	bot, err := New(&Config{
		Token:            "token",
		Session:          shared,
		SessionService:   s.command.sessionService,
		RollService:      s.command.rollService,
		MessagingService: s.messaging,
	})
	s.Require().NoError(err)
	s.Same(shared, bot.session)
	s.Same(s.command.sessionService, bot.dice.sessionService)
}

func TestDiscordSuite(t *testing.T) {
	suite.Run(t, new(DiscordTestSuite))
}
