package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"

	"greeting-agent/internal/deck"
	"greeting-agent/internal/domain"
)

const (
	triggerSwipe  = "swipe"
	triggerButton = "button"
)

type DeckStore interface {
	GetDeck(ctx context.Context, sessionID string) (domain.DeckState, error)
	SaveDeck(ctx context.Context, state domain.DeckState) (domain.DeckState, error)
}

type DeckService struct {
	store   DeckStore
	cards   []domain.Card
	cta     domain.CallToAction
	metrics Recorder
}

type DragInput struct {
	SessionID string
	OffsetX   float64
}

type ClassifyInput struct {
	SessionID string
	Index     int
	Read      bool
}

// DeckView is everything a client needs to render the deck now.
type DeckView struct {
	SessionID    string
	Current      *domain.Card
	Next         *domain.Card
	CurrentIndex int
	Total        int
	ReadCount    int
	OffsetX      float64
	Direction    domain.Direction
	Exhausted    bool
	CallToAction *domain.CallToAction
	Release      *deck.Release
}

func NewDeckService(s DeckStore, cards []domain.Card, cta domain.CallToAction, rec Recorder) (*DeckService, error) {
	if s == nil {
		return nil, errors.New("usecase: deck store must not be nil")
	}
	if rec == nil {
		rec = noopRecorder{}
	}
	return &DeckService{store: s, cards: slices.Clone(cards), cta: cta, metrics: rec}, nil
}

// Start materializes a fresh deck.
func (s *DeckService) Start(ctx context.Context) (DeckView, error) {
	d := deck.New(newUUID(), s.cards)
	saved, err := s.store.SaveDeck(ctx, d.State())
	if err != nil {
		return DeckView{}, storeError("dynamodb_write_error", err)
	}
	s.metrics.ObserveSessionStart(kindDeck)
	return s.view(deck.Restore(saved), nil), nil
}

func (s *DeckService) Get(ctx context.Context, sessionID string) (DeckView, error) {
	d, err := s.load(ctx, sessionID)
	if err != nil {
		return DeckView{}, err
	}
	return s.view(d, nil), nil
}

// Drag records an in-progress drag for the direction indicator.
func (s *DeckService) Drag(ctx context.Context, in DragInput) (DeckView, error) {
	d, err := s.load(ctx, in.SessionID)
	if err != nil {
		return DeckView{}, err
	}
	if d.Exhausted() {
		return s.view(d, nil), nil
	}
	d.Drag(in.OffsetX)
	return s.save(ctx, d, nil)
}

// Release ends a drag, committing the card if it crossed the threshold.
func (s *DeckService) Release(ctx context.Context, in DragInput) (DeckView, error) {
	d, err := s.load(ctx, in.SessionID)
	if err != nil {
		return DeckView{}, err
	}
	if d.Exhausted() {
		return s.view(d, nil), nil
	}
	r := d.DragEnd(in.OffsetX)
	switch r.Outcome {
	case deck.OutcomeRead:
		s.metrics.ObserveClassification(true, triggerSwipe)
	case deck.OutcomeUnread:
		s.metrics.ObserveClassification(false, triggerSwipe)
	}
	return s.save(ctx, d, &r)
}

// Classify commits a card from a button press, bypassing the drag threshold.
func (s *DeckService) Classify(ctx context.Context, in ClassifyInput) (DeckView, error) {
	d, err := s.load(ctx, in.SessionID)
	if err != nil {
		return DeckView{}, err
	}
	if !d.Classify(in.Index, in.Read) {
		return s.view(d, nil), nil
	}
	s.metrics.ObserveClassification(in.Read, triggerButton)
	return s.save(ctx, d, nil)
}

func (s *DeckService) load(ctx context.Context, sessionID string) (*deck.Deck, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, newError(ErrorInvalidInput, "empty_session_id", nil)
	}
	state, err := s.store.GetDeck(ctx, sessionID)
	if err != nil {
		return nil, storeError("dynamodb_read_error", err)
	}
	return deck.Restore(state), nil
}

func (s *DeckService) save(ctx context.Context, d *deck.Deck, r *deck.Release) (DeckView, error) {
	saved, err := s.store.SaveDeck(ctx, d.State())
	if err != nil {
		return DeckView{}, storeError("dynamodb_write_error", err)
	}
	return s.view(deck.Restore(saved), r), nil
}

func (s *DeckService) view(d *deck.Deck, r *deck.Release) DeckView {
	st := d.State()
	v := DeckView{
		SessionID:    st.SessionID,
		CurrentIndex: st.CurrentIndex,
		Total:        len(st.Cards),
		OffsetX:      st.OffsetX,
		Direction:    st.Direction,
		Exhausted:    d.Exhausted(),
		Release:      r,
	}
	for _, c := range st.Cards {
		if c.Read {
			v.ReadCount++
		}
	}
	if c, ok := d.Current(); ok {
		v.Current = &c
	}
	if c, ok := d.Next(); ok {
		v.Next = &c
	}
	if v.Exhausted {
		cta := s.cta
		v.CallToAction = &cta
	}
	return v
}
