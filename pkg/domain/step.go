package domain

import "fmt"

// Step identifies a stage of the onboarding flow.
// The numeric order defines the progression.
type Step int

const (
	StepWelcome Step = iota
	StepPhoto
	StepLifestyle
	StepOutfitPreferences
	StepFinalRequest
)

// Steps returns every step in progression order.
func Steps() []Step {
	return []Step{StepWelcome, StepPhoto, StepLifestyle, StepOutfitPreferences, StepFinalRequest}
}

// Valid reports whether s is one of the five defined steps.
func (s Step) Valid() bool {
	return s >= StepWelcome && s <= StepFinalRequest
}

// Terminal reports whether no further transition is defined from s.
func (s Step) Terminal() bool {
	return s >= StepFinalRequest
}

// Next returns the following step, saturating at StepFinalRequest.
func (s Step) Next() Step {
	if s.Terminal() {
		return StepFinalRequest
	}
	return s + 1
}

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepPhoto:
		return "photo"
	case StepLifestyle:
		return "lifestyle"
	case StepOutfitPreferences:
		return "outfit_preferences"
	case StepFinalRequest:
		return "final_request"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Script returns the assistant message announced when entering s.
// The welcome step is never a transition target, so it has no script.
func (s Step) Script() (string, bool) {
	switch s {
	case StepPhoto:
		return ScriptPhoto, true
	case StepLifestyle:
		return ScriptLifestyle, true
	case StepOutfitPreferences:
		return ScriptOutfitPreferences, true
	case StepFinalRequest:
		return ScriptFinalRequest, true
	default:
		return "", false
	}
}
