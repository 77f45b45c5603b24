package domain

import "time"

// Sender identifies who authored a transcript message.
type Sender string

const (
	SenderBot  Sender = "bot"
	SenderUser Sender = "user"
)

// Option is a selectable reply within a Prompt.
type Option struct {
	ID       string `json:"id" dynamodbav:"id"`
	Text     string `json:"text" dynamodbav:"text"`
	Response string `json:"response" dynamodbav:"response"`
}

// Prompt is one scripted conversational turn. When UseSharedResponse is set,
// every option answers with SharedResponse and Option.Response is ignored.
type Prompt struct {
	ID                string   `json:"id" dynamodbav:"id"`
	Title             string   `json:"title" dynamodbav:"title"`
	Message           string   `json:"message" dynamodbav:"message"`
	Options           []Option `json:"options" dynamodbav:"options"`
	UseSharedResponse bool     `json:"useCommonResponse" dynamodbav:"useSharedResponse"`
	SharedResponse    string   `json:"commonResponse" dynamodbav:"sharedResponse"`
}

// FindOption returns the option with the given id.
func (p Prompt) FindOption(optionID string) (Option, bool) {
	for _, o := range p.Options {
		if o.ID == optionID {
			return o, true
		}
	}
	return Option{}, false
}

// ResponseFor returns the bot reply for the given option.
func (p Prompt) ResponseFor(o Option) string {
	if p.UseSharedResponse {
		return p.SharedResponse
	}
	return o.Response
}

// Message is a single transcript entry. Messages are never mutated once
// appended.
type Message struct {
	ID      string    `json:"id" dynamodbav:"id"`
	Content string    `json:"content" dynamodbav:"content"`
	Sender  Sender    `json:"sender" dynamodbav:"sender"`
	SentAt  time.Time `json:"sentAt" dynamodbav:"sentAt"`
}

// StepAction is the transition applied when a scheduled step comes due.
type StepAction string

const (
	// StepTyping turns the typing indicator on.
	StepTyping StepAction = "typing"
	// StepDeliver appends a bot message and clears typing.
	StepDeliver StepAction = "deliver"
	// StepFinish appends the closing message, clears typing and reveals media.
	StepFinish StepAction = "finish"
)

// ScheduledStep is a delayed transition waiting for its due time.
type ScheduledStep struct {
	Due    time.Time  `json:"due" dynamodbav:"due"`
	Action StepAction `json:"action" dynamodbav:"action"`
	Text   string     `json:"text,omitempty" dynamodbav:"text,omitempty"`
}

// Phase is the externally visible state tag of a conversation.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseTyping            Phase = "typing"
	PhaseDelivered         Phase = "delivered"
	PhaseAwaitingSelection Phase = "awaiting_selection"
	PhaseFinished          Phase = "finished"
	PhaseClosed            Phase = "closed"
)

// ConversationState is the persisted state of one conversation session.
type ConversationState struct {
	SessionID     string          `json:"sessionId" dynamodbav:"sessionId"`
	Transcript    []Message       `json:"transcript" dynamodbav:"transcript"`
	PromptIndex   int             `json:"promptIndex" dynamodbav:"promptIndex"`
	Typing        bool            `json:"typing" dynamodbav:"typing"`
	MediaRevealed bool            `json:"mediaRevealed" dynamodbav:"mediaRevealed"`
	Closed        bool            `json:"closed" dynamodbav:"closed"`
	Pending       []ScheduledStep `json:"pending,omitempty" dynamodbav:"pending"`
	Generation    int             `json:"generation" dynamodbav:"generation"`
	Version       int             `json:"version" dynamodbav:"version"`
	CreatedAt     time.Time       `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" dynamodbav:"updatedAt"`
}
