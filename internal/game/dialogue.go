package game

import "github.com/appengine-ltd/castaway/internal/social"

// Intent is what a conversation is about. It selects the dialogue templates and
// the response options offered to the player.
type Intent string

const (
	IntentBonding       Intent = "bonding"
	IntentFun           Intent = "fun"
	IntentCampLife      Intent = "campLife"
	IntentLightStrategy Intent = "lightStrategy"
	IntentHardStrategy  Intent = "hardStrategy"
	IntentGossip        Intent = "gossip"
	IntentWarning       Intent = "warning"
	IntentManipulation  Intent = "manipulation"
	IntentConfrontation Intent = "confrontation"
	IntentProtection    Intent = "protection"
	IntentApology       Intent = "apology"
)

const (
	namePlaceholder   = "{name}"
	targetPlaceholder = "{target}"
)

// Topic is one entry of the player's conversation menu.
type Topic struct {
	Key    string
	Label  string
	Intent Intent
}

var Topics = []Topic{
	{Key: "personal", Label: "Get to know them", Intent: IntentBonding},
	{Key: "joke", Label: "Joke around", Intent: IntentFun},
	{Key: "chores", Label: "Talk camp chores", Intent: IntentCampLife},
	{Key: "strategy", Label: "Feel out the game", Intent: IntentLightStrategy},
	{Key: "alliance", Label: "Propose an alliance", Intent: IntentHardStrategy},
	{Key: "rumors", Label: "Swap rumors", Intent: IntentGossip},
	{Key: "threats", Label: "Talk about threats", Intent: IntentWarning},
	{Key: "blindside", Label: "Plan a blindside", Intent: IntentManipulation},
	{Key: "clearTheAir", Label: "Clear the air", Intent: IntentConfrontation},
	{Key: "loyalty", Label: "Pledge loyalty", Intent: IntentProtection},
	{Key: "apologize", Label: "Apologize", Intent: IntentApology},
}

func TopicByKey(key string) (Topic, bool) {
	for _, t := range Topics {
		if t.Key == key {
			return t, true
		}
	}
	return Topic{}, false
}

var purposefulIntents = []Intent{
	IntentLightStrategy,
	IntentHardStrategy,
	IntentWarning,
	IntentGossip,
	IntentManipulation,
	IntentConfrontation,
}

var casualIntents = []Intent{
	IntentBonding,
	IntentFun,
	IntentCampLife,
	IntentGossip,
	IntentLightStrategy,
}

var moodIntentBoost = map[social.Mood]map[Intent]int{
	social.MoodHappy:      {IntentBonding: 2, IntentFun: 2},
	social.MoodCalm:       {IntentBonding: 2, IntentFun: 2},
	social.MoodFun:        {IntentFun: 3},
	social.MoodGrateful:   {IntentBonding: 2},
	social.MoodFocused:    {IntentLightStrategy: 2, IntentHardStrategy: 2},
	social.MoodParanoid:   {IntentWarning: 2, IntentGossip: 2, IntentHardStrategy: 2},
	social.MoodWorried:    {IntentWarning: 2, IntentGossip: 2, IntentHardStrategy: 2},
	social.MoodSuspicious: {IntentWarning: 2, IntentGossip: 1},
	social.MoodIrritated:  {IntentConfrontation: 2},
	social.MoodAngry:      {IntentConfrontation: 5},
}

var styleIntentBoost = map[GameplayStyle]map[Intent]int{
	StyleShadowStrategist: {IntentLightStrategy: 2, IntentWarning: 2, IntentManipulation: 2},
	StyleSocialButterfly:  {IntentBonding: 2, IntentFun: 2, IntentGossip: 2},
	StyleChallengeBeast:   {IntentCampLife: 2, IntentConfrontation: 2, IntentFun: 2},
	StyleLoyalSoldier:     {IntentHardStrategy: 2, IntentWarning: 2, IntentBonding: 2},
	StyleWildcard:         {IntentManipulation: 2, IntentConfrontation: 2, IntentGossip: 2},
	StyleProvider:         {IntentCampLife: 2, IntentBonding: 2, IntentLightStrategy: 2},
}

// ResponseOption is one answer the player can give. TargetDelta, when set, is
// applied to how the speaker feels about the third party named in the line.
type ResponseOption struct {
	Label       string
	Delta       int
	Mood        social.Mood
	FollowUp    string
	TargetDelta int
}

var dialogueTemplates = map[Intent][]string{
	IntentBonding: {
		"{name} sits beside you. \"I keep thinking about my family back home. Who's waiting for you?\"",
		"{name} hands you a piece of coconut. \"Figured you could use this. How are you holding up?\"",
		"\"You know, I didn't expect to actually like people out here,\" {name} says with a grin.",
	},
	IntentFun: {
		"{name} is balancing a crab on a stick. \"Bet you can't name him before he escapes.\"",
		"\"Okay, best and worst meal you'd kill for right now. Go,\" {name} laughs.",
		"{name} has drawn a tic-tac-toe grid in the sand. \"Loser fetches water.\"",
	},
	IntentCampLife: {
		"{name} wipes sweat off their brow. \"The shelter's leaking again. Want to help me patch it?\"",
		"\"Fire's getting low and nobody's chopping,\" {name} grumbles, holding out the machete.",
		"{name} is hauling water. \"If we split the trips we'll be done before the heat hits.\"",
	},
	IntentLightStrategy: {
		"{name} lowers their voice. \"So... where's your head at with the game?\"",
		"\"Nobody's said a name yet, but someone will soon,\" {name} says casually.",
		"{name} glances around. \"Just checking in. We're good, right?\"",
	},
	IntentHardStrategy: {
		"{name} pulls you aside. \"I want a final three deal. You, me, and we pick the third later.\"",
		"\"If we don't get {target} out next, they'll run this camp,\" {name} says flatly.",
		"{name} counts on their fingers. \"I have the numbers if you're in. Are you in?\"",
	},
	IntentGossip: {
		"\"Did you see {target} sneaking off the trail this morning?\" {name} whispers.",
		"{name} leans in. \"{target} has been talking about you. Just saying.\"",
		"\"Between us, {target} is not as loyal as they act,\" {name} mutters.",
	},
	IntentWarning: {
		"{name} grabs your arm. \"Watch yourself around {target}. Your name came up.\"",
		"\"I'm only telling you because I like you: {target} is gunning for you,\" {name} says.",
		"{name} looks uneasy. \"Something's off in camp today. Keep your guard up.\"",
	},
	IntentManipulation: {
		"\"{target} told me they're voting you. I'd flip on them first,\" {name} says, watching your face.",
		"{name} smiles a little too wide. \"Trust me, everyone else already agreed on {target}.\"",
		"\"You'd be a hero if you made the big move on {target},\" {name} suggests.",
	},
	IntentConfrontation: {
		"{name} storms over. \"I know you've been talking about me. Say it to my face.\"",
		"\"You think I didn't notice you skipping chores?\" {name} snaps.",
		"{name} crosses their arms. \"We need to talk. Now.\"",
	},
	IntentProtection: {
		"{name} nods slowly. \"Whatever happens tonight, I've got your back.\"",
		"\"If your name comes up, I'll steer it somewhere else,\" {name} promises.",
		"{name} squeezes your shoulder. \"You're with me. Nobody touches you on my watch.\"",
	},
	IntentApology: {
		"{name} rubs the back of their neck. \"About earlier... I was out of line.\"",
		"\"I've been on edge. That wasn't about you,\" {name} admits quietly.",
	},
}

var dialogueResponses = map[Intent][]ResponseOption{
	IntentBonding: {
		{Label: "Open up about home", Delta: 6, Mood: social.MoodHappy, FollowUp: "You trade stories until the sun drops. It feels like a real friendship."},
		{Label: "Keep it light", Delta: 2, Mood: social.MoodCalm, FollowUp: "A pleasant chat. Nothing deep, nothing wrong."},
		{Label: "Change the subject to the game", Delta: -3, Mood: social.MoodSuspicious, FollowUp: "They go quiet. Maybe you pushed too fast."},
	},
	IntentFun: {
		{Label: "Play along", Delta: 5, Mood: social.MoodFun, FollowUp: "You both end up laughing until your ribs hurt."},
		{Label: "Laugh it off and leave", Delta: 1, Mood: social.MoodCalm, FollowUp: "A quick smile, then back to camp."},
		{Label: "Tell them to grow up", Delta: -5, Mood: social.MoodIrritated, FollowUp: "Their face falls. That stung."},
	},
	IntentCampLife: {
		{Label: "Pitch in right away", Delta: 6, Mood: social.MoodGrateful, FollowUp: "Work goes faster together. They clearly noticed."},
		{Label: "Promise to help later", Delta: 0, Mood: social.MoodNeutral, FollowUp: "\"Sure,\" they say, not sounding convinced."},
		{Label: "Say you need to rest", Delta: -4, Mood: social.MoodIrritated, FollowUp: "They mutter something about freeloaders."},
	},
	IntentLightStrategy: {
		{Label: "Reassure them", Delta: 4, Mood: social.MoodCalm, FollowUp: "Their shoulders relax. \"Good. I needed to hear that.\""},
		{Label: "Stay vague", Delta: -1, Mood: social.MoodSuspicious, FollowUp: "They nod, but their eyes linger a moment too long."},
		{Label: "Float a target", Delta: 2, Mood: social.MoodFocused, FollowUp: "They file the name away. The gears are turning."},
	},
	IntentHardStrategy: {
		{Label: "Shake on it", Delta: 8, Mood: social.MoodFocused, FollowUp: "A firm handshake. You have an ally, for now."},
		{Label: "Ask for time to think", Delta: -1, Mood: social.MoodWorried, FollowUp: "\"Don't take too long,\" they warn."},
		{Label: "Turn them down", Delta: -6, Mood: social.MoodParanoid, FollowUp: "They walk off fast. You may have just made an enemy."},
	},
	IntentGossip: {
		{Label: "Agree with them", Delta: 3, Mood: social.MoodFun, FollowUp: "They look pleased to have an audience.", TargetDelta: -4},
		{Label: "Defend the other person", Delta: -3, Mood: social.MoodIrritated, FollowUp: "\"Fine, be that way,\" they huff.", TargetDelta: 2},
		{Label: "Just listen", Delta: 1, Mood: social.MoodNeutral, FollowUp: "You nod along and give nothing away."},
	},
	IntentWarning: {
		{Label: "Thank them", Delta: 5, Mood: social.MoodGrateful, FollowUp: "\"Just watch your back,\" they say, and slip away."},
		{Label: "Doubt the warning", Delta: -3, Mood: social.MoodIrritated, FollowUp: "\"Suit yourself. Don't say I didn't tell you.\""},
		{Label: "Ask what they want for it", Delta: -1, Mood: social.MoodSuspicious, FollowUp: "They hesitate. Maybe the warning had a price after all."},
	},
	IntentManipulation: {
		{Label: "Go along with it", Delta: 4, Mood: social.MoodHappy, FollowUp: "They grin. It's hard to tell who is playing whom.", TargetDelta: -3},
		{Label: "Call out the spin", Delta: -5, Mood: social.MoodAngry, FollowUp: "\"Wow. Okay.\" They storm off."},
		{Label: "Play dumb", Delta: 0, Mood: social.MoodSuspicious, FollowUp: "They study you, unsure what you actually believe."},
	},
	IntentConfrontation: {
		{Label: "Apologize", Delta: 4, Mood: social.MoodCalm, FollowUp: "Some of the heat drains out of them. It's a start."},
		{Label: "Stand your ground", Delta: -4, Mood: social.MoodAngry, FollowUp: "Voices rise. Half the camp is watching now."},
		{Label: "Walk away", Delta: -2, Mood: social.MoodIrritated, FollowUp: "You leave them fuming by themselves."},
	},
	IntentProtection: {
		{Label: "Promise the same", Delta: 7, Mood: social.MoodHappy, FollowUp: "A quiet pact. It feels solid."},
		{Label: "Thank them", Delta: 3, Mood: social.MoodCalm, FollowUp: "They nod. Words are cheap, but it's something."},
	},
	IntentApology: {
		{Label: "Accept the apology", Delta: 6, Mood: social.MoodGrateful, FollowUp: "The tension between you finally breaks."},
		{Label: "Say it's fine, coldly", Delta: 0, Mood: social.MoodWorried, FollowUp: "They can tell it isn't fine."},
		{Label: "Refuse", Delta: -4, Mood: social.MoodIrritated, FollowUp: "They walk off stiffly."},
	},
}

// ResponsesFor returns a copy of the options for intent.
func ResponsesFor(intent Intent) []ResponseOption {
	return append([]ResponseOption(nil), dialogueResponses[intent]...)
}
