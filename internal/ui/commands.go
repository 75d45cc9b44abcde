package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/appengine-ltd/castaway/internal/events"
	"github.com/appengine-ltd/castaway/internal/game"
	"github.com/appengine-ltd/castaway/internal/parser"
	"github.com/appengine-ltd/castaway/internal/recap"
	"github.com/appengine-ltd/castaway/internal/ui/theme"
)

const storageTimeout = 5 * time.Second

// parseContext is the vocabulary of the current camp screen.
func (m menuModel) parseContext() parser.ParseContext {
	ctx := parser.ParseContext{LastSurvivor: m.lastSurvivor}
	for _, sv := range m.session.ActiveSurvivors() {
		if !sv.IsPlayer {
			ctx.Survivors = append(ctx.Survivors, sv.FirstName)
		}
	}
	for _, loc := range game.CampLocations {
		ctx.Locations = append(ctx.Locations, string(loc))
	}
	for _, t := range game.Topics {
		ctx.Topics = append(ctx.Topics, t.Key)
	}
	if d, ok := m.session.Conversation().Current(); ok {
		ctx.OptionCount = len(d.Options)
	}
	return ctx
}

func (m menuModel) survivorByName(name string) (*game.Survivor, bool) {
	for _, sv := range m.session.Survivors() {
		if strings.EqualFold(sv.FirstName, name) {
			return sv, true
		}
	}
	return nil, false
}

// execute parses and runs one typed line. It reports whether the player quit.
func (m *menuModel) execute(line string) bool {
	if m.clarify != nil {
		if pick, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			options := m.clarify.Options
			m.clarify = nil
			if pick >= 1 && pick <= len(options) {
				return m.dispatch(options[pick-1])
			}
			m.push(theme.Error("No such option."))
			return false
		}
		m.clarify = nil
	}

	intent := m.parser.Parse(m.parseContext(), line)
	if intent.Clarify != nil {
		m.push(theme.Warning(intent.Clarify.Prompt))
		for i, opt := range intent.Clarify.Options {
			m.push(fmt.Sprintf("  %d) %s", i+1, parser.IntentToCommandString(opt)))
		}
		if len(intent.Clarify.Options) > 0 {
			m.clarify = intent.Clarify
		}
		return false
	}
	return m.dispatch(intent)
}

func (m *menuModel) dispatch(intent parser.Intent) bool {
	s := m.session
	arg := ""
	if len(intent.Args) > 0 {
		arg = intent.Args[0]
	}
	m.log.Debug("command", "verb", intent.Verb, "args", intent.Args, "confidence", intent.Confidence)

	var err error
	switch intent.Verb {
	case "help":
		m.showHelp()
	case "status":
		m.showStatus()
	case "relationships":
		m.overlay = !m.overlay
	case "history":
		survivors, tribes := s.Names()
		md := recap.Build("Season so far", s.History(), recap.Names{Survivors: survivors, Tribes: tribes})
		for _, l := range lastN(strings.Split(strings.TrimSpace(md), "\n"), 12) {
			m.push(l)
		}
	case "talk", "chat", "confront", "vote":
		err = m.survivorCommand(intent.Verb, arg)
	case "go":
		var d game.Dialogue
		var met bool
		d, met, err = s.MovePlayer(arg)
		if err == nil {
			m.push(fmt.Sprintf("You walk to the %s.", arg))
			if met {
				m.showDialogue(d)
			} else {
				m.showWhoIsHere()
			}
		}
	case "topic":
		var d game.Dialogue
		d, err = s.PickTopic(arg)
		if err == nil {
			m.showDialogue(d)
		}
	case "respond":
		var opt game.ResponseOption
		opt, err = s.Respond(intent.Number - 1)
		if err == nil {
			m.push(fmt.Sprintf("You: %s", opt.Label))
			err = s.EndConversation()
		}
	case "leave":
		err = s.EndConversation()
	case "next":
		var phase game.Phase
		phase, err = s.AdvancePhase()
		if err == nil {
			m.status = fmt.Sprintf("Now: %s", phase)
		}
	case "gather":
		err = m.gather(arg)
	case "save":
		err = m.save(orDefault(arg, m.cfg.SaveKey))
		if err == nil {
			m.push("Saved.")
		}
	case "load":
		err = m.load(orDefault(arg, m.cfg.SaveKey))
		if err == nil {
			m.push("Loaded.")
		}
	case "quit":
		return true
	default:
		m.push(theme.Error(fmt.Sprintf("Unknown command %q.", intent.Verb)))
	}
	if err != nil {
		m.push(theme.Error(describeError(err)))
	}
	return false
}

func (m *menuModel) survivorCommand(verb, name string) error {
	sv, ok := m.survivorByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrSurvivorNotFound, name)
	}
	m.lastSurvivor = sv.FirstName
	s := m.session
	switch verb {
	case "talk":
		if err := s.Talk(sv.ID); err != nil {
			return err
		}
		if d, ok := s.Conversation().Current(); ok {
			m.showDialogue(d)
			return nil
		}
		m.showTopics(sv)
	case "chat":
		d, err := s.Chat(sv.ID)
		if err != nil {
			return err
		}
		m.showDialogue(d)
	case "confront":
		d, err := s.Confront(sv.ID)
		if err != nil {
			return err
		}
		m.showDialogue(d)
	case "vote":
		c, err := s.CastPlayerVote(sv.ID)
		if err != nil {
			return err
		}
		if c.Resolved {
			m.push("The votes have been read.")
		}
	}
	return nil
}

func (m *menuModel) gather(kind string) error {
	player, ok := m.session.Player()
	if !ok {
		return game.ErrSurvivorNotFound
	}
	quality := (player.Physical + player.Mental) / 2
	res, err := m.session.GatherResource(game.ResourceKind(kind), quality)
	if err != nil {
		return err
	}
	m.push(fmt.Sprintf("You gather %s. Camp: water %d, fire %d, shelter %d, food %d.",
		kind, res.Water, res.Fire, res.Shelter, res.Food))
	return nil
}

func (m *menuModel) save(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return m.session.Save(ctx, key)
}

func (m *menuModel) load(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return m.session.Load(ctx, key)
}

func (m *menuModel) showDialogue(d game.Dialogue) {
	name := fmt.Sprintf("#%d", d.NPCID)
	if sv, ok := m.session.Survivor(d.NPCID); ok {
		name = sv.FirstName
		m.lastSurvivor = sv.FirstName
	}
	m.push(fmt.Sprintf("%s: %q", name, d.Text))
	for i, opt := range d.Options {
		m.push(fmt.Sprintf("  %d) %s", i+1, opt.Label))
	}
}

func (m *menuModel) showTopics(sv *game.Survivor) {
	m.push(fmt.Sprintf("What do you want to talk to %s about?", sv.FirstName))
	for _, t := range game.Topics {
		m.push(fmt.Sprintf("  topic %-12s %s", t.Key, t.Label))
	}
}

func (m *menuModel) showWhoIsHere() {
	here := m.session.SurvivorsAt(m.session.PlayerLocation())
	if len(here) == 0 {
		m.push("Nobody is around.")
		return
	}
	names := make([]string, 0, len(here))
	for _, sv := range here {
		names = append(names, sv.FirstName)
	}
	m.push("Here: " + strings.Join(names, ", "))
}

func (m *menuModel) showHelp() {
	for _, c := range m.parser.Commands() {
		line := c.Canonical
		if len(c.Aliases) > 0 {
			line += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		m.push("  " + line)
	}
	m.push(theme.Hint("Tab toggles the relationship overlay."))
}

func (m *menuModel) showStatus() {
	s := m.session
	m.push(fmt.Sprintf("Day %d, %s. %s left. You are at the %s.",
		s.Day(), s.Phase(), s.Remaining().Round(time.Second), s.PlayerLocation()))
	if t, ok := s.PlayerTribe(); ok {
		m.push(fmt.Sprintf("%s: water %d, fire %d, shelter %d, food %d, morale %d.",
			t.Name, t.Resources.Water, t.Resources.Fire, t.Resources.Shelter, t.Resources.Food, t.Stats.Morale))
	}
	for _, pm := range s.PendingMeetings() {
		if sv, ok := s.Survivor(pm.NPCID); ok {
			m.push(fmt.Sprintf("%s is waiting for you at the %s.", sv.FirstName, pm.Location))
		}
	}
}

// syncEvents appends a line for every event published since the last sync.
func (m *menuModel) syncEvents() {
	survivors, tribes := m.session.Names()
	names := recap.Names{Survivors: survivors, Tribes: tribes}
	for _, env := range m.session.History() {
		if env.Seq <= m.lastSeq {
			continue
		}
		m.lastSeq = env.Seq
		if line := eventLine(env.Event, names); line != "" {
			m.push(line)
		}
	}
}

func eventLine(ev events.Event, names recap.Names) string {
	switch e := ev.(type) {
	case events.PhaseChangedEvent:
		return theme.Header(fmt.Sprintf("Day %d: %s", e.Day, e.To))
	case events.MeetingScheduledEvent:
		return fmt.Sprintf("%s wants a word with you at the %s.", names.SurvivorName(e.NPCID), e.Location)
	case events.ConversationClosedEvent:
		return ""
	default:
		return recap.Describe(ev, names)
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, game.ErrNotInCamp):
		return "That can only be done at camp. Type next to move on."
	case errors.Is(err, game.ErrConversationBusy):
		return "You are already in a conversation. Respond or type leave."
	case errors.Is(err, game.ErrNoActiveConversation):
		return "You are not talking to anyone."
	case errors.Is(err, game.ErrGameOver):
		return "The season is over."
	default:
		return err.Error()
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
