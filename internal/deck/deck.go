// Package deck implements the swipeable message inbox.
package deck

import (
	"slices"

	"greeting-agent/internal/domain"
)

const (
	// SwipeThreshold is the horizontal distance a drag must exceed to commit.
	SwipeThreshold = 100.0
	// OffscreenX is where a committed card is animated to.
	OffscreenX = 500.0
)

// Outcome is the result of releasing a drag.
type Outcome string

const (
	OutcomeRead       Outcome = "read"
	OutcomeUnread     Outcome = "unread"
	OutcomeSpringBack Outcome = "spring_back"
)

// Release describes what the client should animate after a drag ends.
type Release struct {
	Outcome Outcome `json:"outcome"`
	TargetX float64 `json:"targetX"`
	Index   int     `json:"index"`
}

// Deck is one recipient's inbox session.
type Deck struct {
	state domain.DeckState
}

// New materializes a deck from cards. An empty deck starts exhausted.
func New(sessionID string, cards []domain.Card) *Deck {
	d := &Deck{state: domain.DeckState{
		SessionID: sessionID,
		Cards:     slices.Clone(cards),
		Direction: domain.DirectionNone,
	}}
	if len(cards) == 0 {
		d.state.CurrentIndex = domain.DeckExhausted
	}
	return d
}

// Restore wraps previously persisted state.
func Restore(state domain.DeckState) *Deck {
	state.Cards = slices.Clone(state.Cards)
	if state.Direction == "" {
		state.Direction = domain.DirectionNone
	}
	return &Deck{state: state}
}

// State returns a copy of the deck state.
func (d *Deck) State() domain.DeckState {
	st := d.state
	st.Cards = slices.Clone(d.state.Cards)
	return st
}

// Exhausted reports whether every card has been classified.
func (d *Deck) Exhausted() bool {
	return d.state.CurrentIndex == domain.DeckExhausted || d.state.CurrentIndex >= len(d.state.Cards)
}

// Current returns the card on top of the deck.
func (d *Deck) Current() (domain.Card, bool) {
	if d.Exhausted() {
		return domain.Card{}, false
	}
	return d.state.Cards[d.state.CurrentIndex], true
}

// Next returns the card waiting behind the current one.
func (d *Deck) Next() (domain.Card, bool) {
	if d.Exhausted() || d.state.CurrentIndex+1 >= len(d.state.Cards) {
		return domain.Card{}, false
	}
	return d.state.Cards[d.state.CurrentIndex+1], true
}

// Drag tracks a drag in progress for visual feedback only.
func (d *Deck) Drag(offsetX float64) {
	if d.Exhausted() {
		return
	}
	d.state.OffsetX = offsetX
	switch {
	case offsetX > 0:
		d.state.Direction = domain.DirectionRight
	case offsetX < 0:
		d.state.Direction = domain.DirectionLeft
	default:
		d.state.Direction = domain.DirectionNone
	}
}

// DragEnd commits the current card when the drag crossed the threshold and
// springs it back otherwise.
func (d *Deck) DragEnd(offsetX float64) Release {
	index := d.state.CurrentIndex
	if d.Exhausted() {
		return Release{Outcome: OutcomeSpringBack, Index: domain.DeckExhausted}
	}
	switch {
	case offsetX > SwipeThreshold:
		d.Classify(index, true)
		return Release{Outcome: OutcomeRead, TargetX: OffscreenX, Index: index}
	case offsetX < -SwipeThreshold:
		d.Classify(index, false)
		return Release{Outcome: OutcomeUnread, TargetX: -OffscreenX, Index: index}
	}
	d.state.OffsetX = 0
	d.state.Direction = domain.DirectionNone
	return Release{Outcome: OutcomeSpringBack, Index: index}
}

// Classify sets the read flag on the current card and advances the deck. It
// reports false, changing nothing, once the deck is exhausted or when index
// is not the current card.
func (d *Deck) Classify(index int, read bool) bool {
	if d.Exhausted() || index != d.state.CurrentIndex {
		return false
	}
	d.state.Cards[index].Read = read
	if d.state.CurrentIndex < len(d.state.Cards)-1 {
		d.state.CurrentIndex++
	} else {
		d.state.CurrentIndex = domain.DeckExhausted
	}
	d.state.OffsetX = 0
	d.state.Direction = domain.DirectionNone
	return true
}
