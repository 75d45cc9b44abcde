package parser

type IntentKind int

const (
	Command IntentKind = iota
	Query
	Help
	Unknown
)

func (k IntentKind) String() string {
	switch k {
	case Command:
		return "command"
	case Query:
		return "query"
	case Help:
		return "help"
	default:
		return "unknown"
	}
}

// ArgKind says what a command's first argument refers to, which decides the
// vocabulary it is fuzzy-matched against.
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgSurvivor
	ArgLocation
	ArgTopic
	ArgOption
	ArgResource
	ArgSlot
)

type Intent struct {
	Raw        string
	Normalised string
	Kind       IntentKind
	Verb       string
	Args       []string
	Number     int
	Confidence float64
	Clarify    *ClarifyQuestion
}

type ClarifyQuestion struct {
	Prompt  string
	Options []Intent
}

// ParseContext is the vocabulary visible from the current camp screen.
type ParseContext struct {
	Survivors    []string
	Locations    []string
	Topics       []string
	Resources    []string
	OptionCount  int
	LastSurvivor string
}

type CommandDef struct {
	Canonical string
	Aliases   []string
	MinArgs   int
	MaxArgs   int
	Arg       ArgKind
}
