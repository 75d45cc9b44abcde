package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultResources is used when the context does not list gatherable supplies.
var DefaultResources = []string{"water", "fire", "shelter", "food"}

var resourceSynonyms = map[string]string{
	"wood":     "fire",
	"firewood": "fire",
	"kindling": "fire",
	"flint":    "fire",
	"fish":     "food",
	"fruit":    "food",
	"coconut":  "food",
	"coconuts": "food",
	"crab":     "food",
	"rice":     "food",
	"bamboo":   "shelter",
	"palm":     "shelter",
	"fronds":   "shelter",
	"leaves":   "shelter",
}

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

// Commands lists what the parser understands, for help screens.
func (p *Parser) Commands() []CommandDef {
	return p.registry.Commands()
}

func (p *Parser) Parse(ctx ParseContext, raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Kind:       Unknown,
	}
	if intent.Normalised == "" {
		if strings.TrimSpace(raw) == "?" {
			intent.Kind = Help
			intent.Verb = "help"
			intent.Confidence = 1
			return intent
		}
		intent.Clarify = &ClarifyQuestion{Prompt: "Enter a command."}
		return intent
	}

	tokens := tokenise(intent.Normalised)
	match, alternates := p.registry.matchCommand(tokens)
	if match.Canonical == "" || match.Score < 0.5 {
		if inferred := inferFreeTextIntent(ctx, raw, intent.Normalised); inferred != nil {
			return *inferred
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt: "I couldn't map that to a command. Try talk, chat, go, topic, respond, vote, gather, next or help.",
		}
		return intent
	}

	if len(alternates) > 0 && match.Score-alternates[0].Score < 0.05 && alternates[0].Score > 0.65 {
		intent.Clarify = &ClarifyQuestion{
			Prompt: "Did you mean:",
			Options: []Intent{
				{Raw: raw, Normalised: match.Canonical, Kind: commandKind(match.Canonical), Verb: match.Canonical, Confidence: match.Score},
				{Raw: raw, Normalised: alternates[0].Canonical, Kind: commandKind(alternates[0].Canonical), Verb: alternates[0].Canonical, Confidence: alternates[0].Score},
			},
		}
		return intent
	}

	intent.Verb = match.Canonical
	intent.Kind = commandKind(intent.Verb)
	intent.Confidence = clampScore(match.Score)

	def, _ := p.registry.command(intent.Verb)
	args := stripFiller(tokens[match.Consumed:])
	resolved, number, clarify, argScore := resolveArgs(ctx, def, args)
	if clarify != nil {
		intent.Clarify = clarify
		intent.Confidence = 0.45
		return intent
	}
	intent.Args = resolved
	intent.Number = number
	intent.Confidence = clampScore(intent.Confidence*0.75 + argScore*0.25)

	if len(intent.Args) < def.MinArgs {
		if options := buildArgOptions(ctx, def, 5); len(options) > 0 {
			intent.Clarify = &ClarifyQuestion{Prompt: argPrompt(def), Options: options}
			intent.Confidence = 0.46
			return intent
		}
		intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("%s needs at least %d argument(s).", def.Canonical, def.MinArgs)}
		intent.Confidence = 0.42
		return intent
	}
	if def.MaxArgs >= 0 && len(intent.Args) > def.MaxArgs {
		intent.Args = append([]string(nil), intent.Args[:def.MaxArgs]...)
		intent.Confidence = clampScore(intent.Confidence - 0.05)
	}

	if intent.Confidence < 0.52 {
		intent.Clarify = &ClarifyQuestion{Prompt: "I'm not sure what you meant. Please rephrase."}
	}
	return intent
}

func commandKind(verb string) IntentKind {
	switch verb {
	case "help":
		return Help
	case "status", "relationships", "history":
		return Query
	default:
		return Command
	}
}

func argPrompt(def CommandDef) string {
	switch def.Arg {
	case ArgSurvivor:
		return fmt.Sprintf("Who do you want to %s?", def.Canonical)
	case ArgLocation:
		return "Where do you want to go?"
	case ArgTopic:
		return "What do you want to talk about?"
	case ArgOption:
		return "Which response?"
	case ArgResource:
		return "What do you want to gather?"
	default:
		return fmt.Sprintf("%s needs more detail.", def.Canonical)
	}
}

// vocabulary returns the candidate values for an argument kind.
func vocabulary(ctx ParseContext, kind ArgKind) []string {
	switch kind {
	case ArgSurvivor:
		return ctx.Survivors
	case ArgLocation:
		return ctx.Locations
	case ArgTopic:
		return ctx.Topics
	case ArgResource:
		if len(ctx.Resources) > 0 {
			return ctx.Resources
		}
		return DefaultResources
	case ArgOption:
		out := make([]string, 0, ctx.OptionCount)
		for i := 1; i <= ctx.OptionCount; i++ {
			out = append(out, strconv.Itoa(i))
		}
		return out
	default:
		return nil
	}
}

func resolveArgs(ctx ParseContext, def CommandDef, args []string) ([]string, int, *ClarifyQuestion, float64) {
	if len(args) == 0 {
		return nil, 0, nil, 0.9
	}
	switch def.Arg {
	case ArgNone:
		// Trailing words on a bare command only cost a little confidence.
		return nil, 0, nil, 0.8
	case ArgSlot:
		return []string{strings.Join(args, "-")}, 0, nil, 0.9
	case ArgOption:
		n, ok := parseNumberToken(args[0])
		if !ok || n < 1 {
			return nil, 0, &ClarifyQuestion{Prompt: "Respond with an option number."}, 0.4
		}
		if ctx.OptionCount > 0 && n > ctx.OptionCount {
			return nil, 0, &ClarifyQuestion{
				Prompt:  fmt.Sprintf("There are only %d options.", ctx.OptionCount),
				Options: buildArgOptions(ctx, def, ctx.OptionCount),
			}, 0.4
		}
		return []string{strconv.Itoa(n)}, n, nil, 0.95
	case ArgSurvivor:
		if isPronoun(args[0]) {
			if strings.TrimSpace(ctx.LastSurvivor) == "" {
				return nil, 0, &ClarifyQuestion{Prompt: "Who do you mean?"}, 0.4
			}
			return []string{ctx.LastSurvivor}, 0, nil, 0.82
		}
	case ArgResource:
		if mapped, ok := resourceSynonyms[args[0]]; ok {
			return []string{mapped}, 0, nil, 0.88
		}
	}

	vocab := vocabulary(ctx, def.Arg)
	if len(vocab) == 0 {
		return []string{strings.Join(args, " ")}, 0, nil, 0.7
	}
	// Prefer the whole phrase ("jungle trail"), then its first word.
	phrases := []string{strings.Join(args, " ")}
	if len(args) > 1 {
		phrases = append(phrases, args[0])
	}
	for _, phrase := range phrases {
		found, confidence, tie := resolveAgainst(phrase, vocab)
		if tie {
			options := make([]Intent, 0, 2)
			for i := 0; i < 2; i++ {
				options = append(options, Intent{
					Kind:       commandKind(def.Canonical),
					Verb:       def.Canonical,
					Args:       []string{found[i]},
					Confidence: confidence - float64(i)*0.01,
				})
			}
			return nil, 0, &ClarifyQuestion{Prompt: "Did you mean:", Options: options}, 0.52
		}
		if len(found) == 1 {
			return found, 0, nil, confidence
		}
	}
	return nil, 0, &ClarifyQuestion{
		Prompt:  fmt.Sprintf("I don't know %q here.", strings.Join(args, " ")),
		Options: buildArgOptions(ctx, def, 5),
	}, 0.4
}

// resolveAgainst fuzzy-matches token against vocab and returns the original
// spelling of the best hit, or the two best when they are too close to call.
func resolveAgainst(token string, vocab []string) ([]string, float64, bool) {
	n := normaliseInput(token)
	if n == "" {
		return nil, 0, false
	}
	byNorm := make(map[string]string, len(vocab))
	norms := make([]string, 0, len(vocab))
	for _, v := range vocab {
		k := normaliseInput(v)
		if k == "" {
			continue
		}
		if _, dup := byNorm[k]; dup {
			continue
		}
		byNorm[k] = v
		norms = append(norms, k)
	}
	found, score, tie := bestMatches(n, norms)
	out := make([]string, 0, len(found))
	for _, f := range found {
		out = append(out, byNorm[f])
	}
	return out, score, tie
}

func bestMatches(token string, all []string) ([]string, float64, bool) {
	type scored struct {
		val   string
		score float64
	}
	compact := strings.ReplaceAll(token, " ", "")
	results := make([]scored, 0, len(all))
	for _, cand := range all {
		var score float64
		candCompact := strings.ReplaceAll(cand, " ", "")
		switch {
		case token == cand || compact == candCompact:
			score = 1.0
		case len(token) >= 2 && strings.HasPrefix(cand, token):
			score = 0.9
		case len(token) >= 3 && strings.Contains(cand, " "+token):
			score = 0.86
		default:
			dist := levenshtein.ComputeDistance(compact, candCompact)
			if dist > levenshteinLimit(len(candCompact)) {
				continue
			}
			score = 0.72 - 0.08*float64(dist)
		}
		results = append(results, scored{val: cand, score: score})
	}
	if len(results) == 0 {
		return nil, 0, false
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})
	best := results[0]
	if len(results) > 1 && best.score-results[1].score < 0.05 && results[1].score > 0.6 {
		return []string{best.val, results[1].val}, best.score, true
	}
	return []string{best.val}, best.score, false
}

func buildArgOptions(ctx ParseContext, def CommandDef, maxOptions int) []Intent {
	vocab := vocabulary(ctx, def.Arg)
	options := make([]Intent, 0, min(len(vocab), maxOptions))
	for _, v := range vocab {
		if len(options) >= maxOptions {
			break
		}
		options = append(options, Intent{
			Kind:       commandKind(def.Canonical),
			Verb:       def.Canonical,
			Args:       []string{v},
			Confidence: 0.88,
		})
	}
	return options
}

// findIn scans free text for the best single- or two-word mention of any
// vocabulary entry.
func findIn(tokens []string, vocab []string) (string, float64) {
	best, bestScore := "", 0.0
	for i := range tokens {
		if isFiller(tokens[i]) {
			continue
		}
		for width := 2; width >= 1; width-- {
			if i+width > len(tokens) {
				continue
			}
			phrase := strings.Join(tokens[i:i+width], " ")
			found, score, tie := resolveAgainst(phrase, vocab)
			if tie || len(found) != 1 || score < 0.8 {
				continue
			}
			if score > bestScore {
				best, bestScore = found[0], score
			}
		}
	}
	return best, bestScore
}

func inferFreeTextIntent(ctx ParseContext, raw string, normalised string) *Intent {
	n := normalised
	tokens := tokenise(n)
	makeIntent := func(kind IntentKind, verb string, args []string, confidence float64) *Intent {
		return &Intent{
			Raw:        raw,
			Normalised: normalised,
			Kind:       kind,
			Verb:       verb,
			Args:       args,
			Confidence: clampScore(confidence),
		}
	}

	if containsAnyPhrase(n, "where am i", "what day", "what phase", "how long", "whats happening", "what s happening") {
		return makeIntent(Query, "status", nil, 0.88)
	}
	if containsAnyPhrase(n, "who likes me", "who hates me", "who trusts me", "where do i stand", "my relationships") {
		return makeIntent(Query, "relationships", nil, 0.88)
	}

	if containsAnyPhrase(n, "vote", "voting", "write down", "blindside") {
		if who, score := findIn(tokens, ctx.Survivors); who != "" {
			return makeIntent(Command, "vote", []string{who}, score*0.9)
		}
	}
	if containsAnyPhrase(n, "confront", "call out", "have it out") {
		if who, score := findIn(tokens, ctx.Survivors); who != "" {
			return makeIntent(Command, "confront", []string{who}, score*0.9)
		}
	}
	if containsAnyPhrase(n, "talk", "speak", "catch up", "have a word") {
		if who, score := findIn(tokens, ctx.Survivors); who != "" {
			return makeIntent(Command, "talk", []string{who}, score*0.9)
		}
	}
	if containsAnyPhrase(n, "chat", "hang out", "kick back", "chill") {
		if who, score := findIn(tokens, ctx.Survivors); who != "" {
			return makeIntent(Command, "chat", []string{who}, score*0.9)
		}
	}

	if loc, score := findIn(tokens, ctx.Locations); loc != "" {
		return makeIntent(Command, "go", []string{loc}, score*0.86)
	}

	for _, t := range tokens {
		if mapped, ok := resourceSynonyms[t]; ok {
			return makeIntent(Command, "gather", []string{mapped}, 0.78)
		}
	}
	if res, score := findIn(tokens, vocabulary(ctx, ArgResource)); res != "" && containsAnyPhrase(n, "need", "gather", "collect", "fetch", "get", "more") {
		return makeIntent(Command, "gather", []string{res}, score*0.86)
	}

	if containsAnyPhrase(n, "next phase", "skip ahead", "move on", "sleep") {
		return makeIntent(Command, "next", nil, 0.8)
	}
	return nil
}

func containsAnyPhrase(value string, phrases ...string) bool {
	for _, phrase := range phrases {
		if containsPhrase(value, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(value, phrase string) bool {
	p := normaliseInput(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+p+" ")
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func IntentToCommandString(intent Intent) string {
	verb := normaliseInput(intent.Verb)
	if verb == "" {
		return ""
	}
	args := make([]string, 0, len(intent.Args))
	for _, arg := range intent.Args {
		if a := strings.TrimSpace(arg); a != "" {
			args = append(args, a)
		}
	}
	if len(args) == 0 {
		return verb
	}
	return verb + " " + strings.Join(args, " ")
}
