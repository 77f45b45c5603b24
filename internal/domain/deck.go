package domain

import "time"

// Card is a pre-authored inbox item. Read is the only field that changes
// after the deck is materialized.
type Card struct {
	ID        int    `json:"id" dynamodbav:"id"`
	Sender    string `json:"sender" dynamodbav:"sender"`
	Subject   string `json:"subject" dynamodbav:"subject"`
	Body      string `json:"body" dynamodbav:"body"`
	Timestamp string `json:"timestamp" dynamodbav:"timestamp"`
	Read      bool   `json:"read" dynamodbav:"read"`
	AvatarURL string `json:"avatarUrl" dynamodbav:"avatarUrl"`
	ImageURL  string `json:"imageUrl" dynamodbav:"imageUrl"`
}

// Direction is the swipe indicator shown while a card is dragged.
type Direction string

const (
	DirectionNone  Direction = "none"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// DeckExhausted is the CurrentIndex value once every card has been classified.
const DeckExhausted = -1

// DeckState is the persisted state of one swipe deck session.
type DeckState struct {
	SessionID    string    `json:"sessionId" dynamodbav:"sessionId"`
	Cards        []Card    `json:"cards" dynamodbav:"cards"`
	CurrentIndex int       `json:"currentIndex" dynamodbav:"currentIndex"`
	OffsetX      float64   `json:"offsetX" dynamodbav:"offsetX"`
	Direction    Direction `json:"direction" dynamodbav:"direction"`
	Version      int       `json:"version" dynamodbav:"version"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// CallToAction is rendered once the deck is exhausted.
type CallToAction struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Label string `json:"label"`
	Route string `json:"route"`
}
