package parser

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandDef),
	}
}

func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	r.commands[c.Canonical] = c
	r.addPhrase(c.Canonical, c.Canonical)
	for _, a := range c.Aliases {
		r.addPhrase(c.Canonical, a)
	}
}

func (r *Registry) addPhrase(canonical, alias string) {
	n := normaliseInput(alias)
	if n == "" {
		// Symbols such as "?" normalise away; keep them verbatim.
		n = strings.TrimSpace(alias)
	}
	if n == "" {
		return
	}
	r.phrases = append(r.phrases, commandPhrase{canonical: canonical, alias: n, tokens: strings.Fields(n)})
}

func (r *Registry) command(canonical string) (CommandDef, bool) {
	cmd, ok := r.commands[normaliseInput(canonical)]
	return cmd, ok
}

// Commands lists the registered commands sorted by name.
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

type commandCandidate struct {
	Canonical string
	Alias     string
	Consumed  int
	Score     float64
	Source    string
}

func (r *Registry) matchCommand(tokens []string) (commandCandidate, []commandCandidate) {
	if len(tokens) == 0 {
		return commandCandidate{}, nil
	}
	cands := make([]commandCandidate, 0, len(r.phrases))
	for _, phrase := range r.phrases {
		if c, ok := scorePhrase(phrase, tokens); ok {
			cands = append(cands, c)
		}
	}
	if len(cands) == 0 {
		return commandCandidate{}, nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		if cands[i].Consumed != cands[j].Consumed {
			return cands[i].Consumed > cands[j].Consumed
		}
		return cands[i].Canonical < cands[j].Canonical
	})

	best := cands[0]
	alts := make([]commandCandidate, 0, 3)
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if seen[c.Canonical] {
			continue
		}
		seen[c.Canonical] = true
		alts = append(alts, c)
		if len(alts) == cap(alts) {
			break
		}
	}
	return best, alts
}

// scorePhrase rates how well the head of tokens matches one alias. Longer
// exact aliases win over shorter ones so "vote out" beats "vote".
func scorePhrase(phrase commandPhrase, tokens []string) (commandCandidate, bool) {
	n := len(phrase.tokens)
	if n == 0 {
		return commandCandidate{}, false
	}
	cand := commandCandidate{Canonical: phrase.canonical, Alias: phrase.alias}
	if len(tokens) >= n && strings.Join(tokens[:n], " ") == phrase.alias {
		cand.Consumed = n
		cand.Score = 1.0
		cand.Source = "exact"
		if phrase.alias != phrase.canonical {
			cand.Score = 0.97
			cand.Source = "alias"
		}
		cand.Score += 0.001 * float64(n-1)
		return cand, true
	}
	if n == 1 && len(tokens[0]) >= 3 && strings.HasPrefix(phrase.alias, tokens[0]) {
		cand.Consumed = 1
		cand.Score = 0.9
		cand.Source = "prefix"
		return cand, true
	}
	if len(tokens) < n {
		return commandCandidate{}, false
	}
	compare := strings.Join(tokens[:n], " ")
	if len(compare) < 3 {
		return commandCandidate{}, false
	}
	dist := levenshtein.ComputeDistance(compare, phrase.alias)
	if dist > levenshteinLimit(len(phrase.alias)) {
		return commandCandidate{}, false
	}
	cand.Consumed = n
	cand.Score = 0.72 - 0.08*float64(dist)
	if phrase.alias != phrase.canonical {
		cand.Score += 0.03
	}
	cand.Source = "lev"
	return cand, true
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Canonical: "help", Aliases: []string{"h", "?", "commands"}},
		{Canonical: "status", Aliases: []string{"look", "camp", "where am i", "look around"}},
		{Canonical: "relationships", Aliases: []string{"rels", "bonds", "standings", "who likes me"}},
		{Canonical: "history", Aliases: []string{"log", "recap"}},

		{Canonical: "talk", Aliases: []string{"speak", "approach", "talk to", "speak to"}, MinArgs: 1, MaxArgs: 1, Arg: ArgSurvivor},
		{Canonical: "chat", Aliases: []string{"hang out", "hang", "chat with"}, MinArgs: 1, MaxArgs: 1, Arg: ArgSurvivor},
		{Canonical: "confront", Aliases: []string{"call out", "face"}, MinArgs: 1, MaxArgs: 1, Arg: ArgSurvivor},
		{Canonical: "go", Aliases: []string{"walk", "move", "head", "go to", "visit"}, MinArgs: 1, MaxArgs: 1, Arg: ArgLocation},
		{Canonical: "topic", Aliases: []string{"ask", "discuss", "bring up", "mention"}, MinArgs: 1, MaxArgs: 1, Arg: ArgTopic},
		{Canonical: "respond", Aliases: []string{"reply", "answer", "choose", "pick", "option"}, MinArgs: 1, MaxArgs: 1, Arg: ArgOption},
		{Canonical: "leave", Aliases: []string{"bye", "goodbye", "end", "done"}},
		{Canonical: "vote", Aliases: []string{"vote out", "vote for", "write down"}, MinArgs: 1, MaxArgs: 1, Arg: ArgSurvivor},
		{Canonical: "next", Aliases: []string{"advance", "continue", "wait"}},
		{Canonical: "gather", Aliases: []string{"collect", "fetch", "get"}, MinArgs: 1, MaxArgs: 1, Arg: ArgResource},

		{Canonical: "save", MaxArgs: 1, Arg: ArgSlot},
		{Canonical: "load", MaxArgs: 1, Arg: ArgSlot},
		{Canonical: "quit", Aliases: []string{"exit", "q"}},
	}
	for _, cmd := range commands {
		r.RegisterCommand(cmd)
	}
	return r
}
