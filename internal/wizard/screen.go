package wizard

// Screen represents a wizard step
type Screen int

const (
	ScreenWelcome Screen = iota
	ScreenNetwork
	ScreenLocale
	ScreenApps
	ScreenSummary
	ScreenFinish
)

// Screens lists every step in wizard order
var Screens = []Screen{
	ScreenWelcome,
	ScreenNetwork,
	ScreenLocale,
	ScreenApps,
	ScreenSummary,
	ScreenFinish,
}

func (s Screen) String() string {
	switch s {
	case ScreenWelcome:
		return "welcome"
	case ScreenNetwork:
		return "network"
	case ScreenLocale:
		return "locale"
	case ScreenApps:
		return "apps"
	case ScreenSummary:
		return "summary"
	case ScreenFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// Title is the heading shown for a screen
func (s Screen) Title() string {
	switch s {
	case ScreenWelcome:
		return "Welcome to Shadowmite"
	case ScreenNetwork:
		return "Network Setup"
	case ScreenLocale:
		return "Locale Setup"
	case ScreenApps:
		return "Available Apps"
	case ScreenSummary:
		return "App Summary"
	case ScreenFinish:
		return "Setup Complete"
	default:
		return ""
	}
}

// Trigger is an operator action that may move the wizard between screens.
// Interface changes and catalog selections carry data and have their own
// methods on Machine.
type Trigger int

const (
	TriggerContinue Trigger = iota
	TriggerSkip
	TriggerBack
	TriggerNext
)

// Triggers lists every argument-free trigger
var Triggers = []Trigger{TriggerContinue, TriggerSkip, TriggerBack, TriggerNext}

func (t Trigger) String() string {
	switch t {
	case TriggerContinue:
		return "continue"
	case TriggerSkip:
		return "skip"
	case TriggerBack:
		return "back"
	case TriggerNext:
		return "next"
	default:
		return "unknown"
	}
}

type edge struct {
	from    Screen
	trigger Trigger
}

// transitions holds every legal argument-free move. Anything else is ignored.
var transitions = map[edge]Screen{
	{ScreenWelcome, TriggerContinue}: ScreenNetwork,
	{ScreenNetwork, TriggerSkip}:     ScreenLocale,
	{ScreenLocale, TriggerBack}:      ScreenNetwork,
	{ScreenLocale, TriggerNext}:      ScreenApps,
	{ScreenApps, TriggerSkip}:        ScreenFinish,
	{ScreenSummary, TriggerBack}:     ScreenApps,
}

// Target returns where trigger leads from s, if anywhere.
func Target(s Screen, t Trigger) (Screen, bool) {
	to, ok := transitions[edge{s, t}]
	return to, ok
}
