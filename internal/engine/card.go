package engine

// Card is one daily reveal. Its lock state is derived from the current step
// on every evaluation and is never stored.
type Card struct {
	// Step is the 1-based unlock step that reveals this card.
	Step int
}

// NewCards creates one card per unlock step.
func NewCards(total int) []Card {
	if total < 0 {
		total = 0
	}
	cards := make([]Card, total)
	for i := range cards {
		cards[i] = Card{Step: i + 1}
	}
	return cards
}

// Unlocked reports whether the card is revealed at the given step.
func (c Card) Unlocked(currentStep int) bool {
	return c.Step <= currentStep
}
