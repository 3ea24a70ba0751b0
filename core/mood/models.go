package mood

import "time"

// Step identifies one screen of the check-in flow.
type Step string

const (
	StepEmotion    Step = "emotion"
	StepMotivation Step = "motivation"
	StepEnergy     Step = "energy"
)

// Option is a single selectable answer within a step.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// StepPrompt is a step with its question and fixed answer set, served to
// clients so the flow stays data-driven.
type StepPrompt struct {
	Step     Step     `json:"step"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// Catalog lists the check-in steps in presentation order.
var Catalog = []StepPrompt{
	{
		Step:     StepEmotion,
		Question: "How are you feeling today?",
		Options: []Option{
			{Value: "energized", Label: "Energized", Emoji: "⚡"},
			{Value: "focused", Label: "Focused", Emoji: "🎯"},
			{Value: "neutral", Label: "Neutral", Emoji: "😐"},
			{Value: "stressed", Label: "Stressed", Emoji: "😰"},
			{Value: "reflective", Label: "Reflective", Emoji: "🤔"},
		},
	},
	{
		Step:     StepMotivation,
		Question: "What's driving you right now?",
		Options: []Option{
			{Value: "fired-up", Label: "Fired up", Emoji: "🔥"},
			{Value: "steady", Label: "Steady", Emoji: "🧗"},
			{Value: "curious", Label: "Curious", Emoji: "🔍"},
			{Value: "seeking", Label: "Seeking a spark", Emoji: "✨"},
			{Value: "recharging", Label: "Recharging", Emoji: "🔋"},
		},
	},
	{
		Step:     StepEnergy,
		Question: "How's your energy level?",
		Options: []Option{
			{Value: "high", Label: "High", Emoji: "🚀"},
			{Value: "balanced", Label: "Balanced", Emoji: "⚖️"},
			{Value: "medium", Label: "Medium", Emoji: "🙂"},
			{Value: "low", Label: "Low", Emoji: "🪫"},
			{Value: "resetting", Label: "Resetting", Emoji: "🌙"},
		},
	},
}

// Entry is one recorded check-in. A nil answer means the learner skipped
// that step; an entry with every step skipped is still recorded so the
// check-in itself is counted.
type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Emotion    *string   `json:"emotion"`
	Motivation *string   `json:"motivation"`
	Energy     *string   `json:"energy"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewEntry is the check-in payload. Empty strings mark skipped steps.
type NewEntry struct {
	Emotion    string `json:"emotion" validate:"omitempty,oneof=energized focused neutral stressed reflective"`
	Motivation string `json:"motivation" validate:"omitempty,oneof=fired-up steady curious seeking recharging"`
	Energy     string `json:"energy" validate:"omitempty,oneof=high balanced medium low resetting"`
}
