package handler

import (
	"time"

	"greeting-agent/internal/deck"
	"greeting-agent/internal/domain"
	"greeting-agent/internal/media"
	"greeting-agent/internal/usecase"
)

type selectRequest struct {
	OptionID string `json:"optionId"`
}

type dragRequest struct {
	OffsetX float64 `json:"offsetX"`
}

type classifyRequest struct {
	Index *int  `json:"index"`
	Read  *bool `json:"read"`
}

type settingsRequest struct {
	FinalMessage *string `json:"finalMessage"`
	VideoURL     *string `json:"videoUrl"`
}

type promptRequest struct {
	Title             *string `json:"title"`
	Message           *string `json:"message"`
	UseCommonResponse *bool   `json:"useCommonResponse"`
	CommonResponse    *string `json:"commonResponse"`
}

type moveRequest struct {
	Direction string `json:"direction"`
}

type optionRequest struct {
	Text     *string `json:"text"`
	Response *string `json:"response"`
}

type chatMessage struct {
	ID      string        `json:"id"`
	Content string        `json:"content"`
	Sender  domain.Sender `json:"sender"`
}

type chatOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type chatResponse struct {
	SessionID        string            `json:"sessionId"`
	Phase            domain.Phase      `json:"phase"`
	Messages         []chatMessage     `json:"messages"`
	Typing           bool              `json:"typing"`
	Options          []chatOption      `json:"options"`
	Media            *media.Attachment `json:"media,omitempty"`
	NextTransitionAt *time.Time        `json:"nextTransitionAt,omitempty"`
	Generation       int               `json:"generation"`
}

type deckResponse struct {
	SessionID    string               `json:"sessionId"`
	Current      *domain.Card         `json:"current,omitempty"`
	Next         *domain.Card         `json:"next,omitempty"`
	CurrentIndex int                  `json:"currentIndex"`
	Total        int                  `json:"total"`
	ReadCount    int                  `json:"readCount"`
	OffsetX      float64              `json:"offsetX"`
	Direction    domain.Direction     `json:"direction"`
	Exhausted    bool                 `json:"exhausted"`
	CallToAction *domain.CallToAction `json:"callToAction,omitempty"`
	Release      *deck.Release        `json:"release,omitempty"`
}

// toChatResponse hides option response text so the replies stay a surprise.
func toChatResponse(v usecase.ChatView) chatResponse {
	out := chatResponse{
		SessionID:        v.SessionID,
		Phase:            v.Phase,
		Messages:         make([]chatMessage, 0, len(v.Transcript)),
		Typing:           v.Typing,
		Options:          make([]chatOption, 0, len(v.Options)),
		Media:            v.Media,
		NextTransitionAt: v.NextTransitionAt,
		Generation:       v.Generation,
	}
	for _, m := range v.Transcript {
		out.Messages = append(out.Messages, chatMessage{ID: m.ID, Content: m.Content, Sender: m.Sender})
	}
	for _, o := range v.Options {
		out.Options = append(out.Options, chatOption{ID: o.ID, Text: o.Text})
	}
	return out
}

func toDeckResponse(v usecase.DeckView) deckResponse {
	return deckResponse{
		SessionID:    v.SessionID,
		Current:      v.Current,
		Next:         v.Next,
		CurrentIndex: v.CurrentIndex,
		Total:        v.Total,
		ReadCount:    v.ReadCount,
		OffsetX:      v.OffsetX,
		Direction:    v.Direction,
		Exhausted:    v.Exhausted,
		CallToAction: v.CallToAction,
		Release:      v.Release,
	}
}
