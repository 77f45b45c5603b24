package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"greeting-agent/internal/conversation"
	"greeting-agent/internal/domain"
	"greeting-agent/internal/media"
)

const (
	kindChat = "chat"
	kindDeck = "deck"
)

type ConversationStore interface {
	GetConversation(ctx context.Context, sessionID string) (domain.ConversationState, error)
	SaveConversation(ctx context.Context, state domain.ConversationState) (domain.ConversationState, error)
}

// Recorder receives activity counts. *metrics.GreetingMetrics satisfies it.
type Recorder interface {
	ObserveSessionStart(kind string)
	ObserveSelection(promptID string, accepted bool)
	ObserveClassification(read bool, trigger string)
	ObserveFinished()
}

type noopRecorder struct{}

func (noopRecorder) ObserveSessionStart(string)         {}
func (noopRecorder) ObserveSelection(string, bool)      {}
func (noopRecorder) ObserveClassification(bool, string) {}
func (noopRecorder) ObserveFinished()                   {}

type ChatService struct {
	content *ContentLoader
	store   ConversationStore
	clock   conversation.Clock
	metrics Recorder
}

type SelectInput struct {
	SessionID string
	OptionID  string
}

// ChatView is everything a client needs to render the conversation now.
type ChatView struct {
	SessionID        string
	Phase            domain.Phase
	Transcript       []domain.Message
	Typing           bool
	Options          []domain.Option
	Media            *media.Attachment
	NextTransitionAt *time.Time
	Generation       int
}

func NewChatService(content *ContentLoader, s ConversationStore, clock conversation.Clock, rec Recorder) (*ChatService, error) {
	if content == nil {
		return nil, errors.New("usecase: content loader must not be nil")
	}
	if s == nil {
		return nil, errors.New("usecase: conversation store must not be nil")
	}
	if clock == nil {
		clock = conversation.SystemClock()
	}
	if rec == nil {
		rec = noopRecorder{}
	}
	return &ChatService{content: content, store: s, clock: clock, metrics: rec}, nil
}

func (s *ChatService) engine(ctx context.Context) (*conversation.Engine, error) {
	sc, err := s.content.Script(ctx)
	if err != nil {
		return nil, newError(ErrorInternal, "ssm_load_error", err)
	}
	return conversation.NewEngine(sc, s.clock), nil
}

// Start opens a conversation session.
func (s *ChatService) Start(ctx context.Context) (ChatView, error) {
	e, err := s.engine(ctx)
	if err != nil {
		return ChatView{}, err
	}
	sess := e.Start(newUUID())
	saved, err := s.store.SaveConversation(ctx, sess.State())
	if err != nil {
		return ChatView{}, storeError("dynamodb_write_error", err)
	}
	s.metrics.ObserveSessionStart(kindChat)
	return chatView(e.Resume(saved)), nil
}

// Get applies any steps that have come due and returns the session.
func (s *ChatService) Get(ctx context.Context, sessionID string) (ChatView, error) {
	return s.mutate(ctx, sessionID, func(*conversation.Session) bool { return false })
}

// Select records an option choice. Unknown options and selections made while
// a turn is still playing out leave the session unchanged.
func (s *ChatService) Select(ctx context.Context, in SelectInput) (ChatView, error) {
	optionID := strings.TrimSpace(in.OptionID)
	return s.mutate(ctx, in.SessionID, func(sess *conversation.Session) bool {
		prompt, awaiting := sess.CurrentPrompt()
		accepted := sess.SelectOption(optionID)
		if awaiting {
			s.metrics.ObserveSelection(prompt.ID, accepted)
		}
		return accepted
	})
}

// Reset restarts the conversation from the first prompt.
func (s *ChatService) Reset(ctx context.Context, sessionID string) (ChatView, error) {
	return s.mutate(ctx, sessionID, func(sess *conversation.Session) bool {
		sess.Reset()
		return true
	})
}

// Close tears the conversation down. Pending turns are cancelled and further
// selections are ignored until the session is reset.
func (s *ChatService) Close(ctx context.Context, sessionID string) (ChatView, error) {
	return s.mutate(ctx, sessionID, func(sess *conversation.Session) bool {
		return sess.Close()
	})
}

// mutate loads a session, fires due steps, applies fn and saves the session
// when anything changed.
func (s *ChatService) mutate(ctx context.Context, sessionID string, fn func(*conversation.Session) bool) (ChatView, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ChatView{}, newError(ErrorInvalidInput, "empty_session_id", nil)
	}
	e, err := s.engine(ctx)
	if err != nil {
		return ChatView{}, err
	}
	state, err := s.store.GetConversation(ctx, sessionID)
	if err != nil {
		return ChatView{}, storeError("dynamodb_read_error", err)
	}

	sess := e.Resume(state)
	wasFinished := sess.Phase() == domain.PhaseFinished
	changed := sess.Advance() > 0
	if fn(sess) {
		changed = true
	}
	if !changed {
		return chatView(sess), nil
	}

	saved, err := s.store.SaveConversation(ctx, sess.State())
	if err != nil {
		return ChatView{}, storeError("dynamodb_write_error", err)
	}
	sess = e.Resume(saved)
	if !wasFinished && sess.Phase() == domain.PhaseFinished {
		s.metrics.ObserveFinished()
	}
	return chatView(sess), nil
}

func chatView(sess *conversation.Session) ChatView {
	st := sess.State()
	v := ChatView{
		SessionID:  st.SessionID,
		Phase:      sess.Phase(),
		Transcript: st.Transcript,
		Typing:     st.Typing,
		Options:    sess.Options(),
		Generation: st.Generation,
	}
	if a, ok := sess.Media(); ok {
		v.Media = &a
	}
	if due, ok := sess.NextTransition(); ok {
		v.NextTransitionAt = &due
	}
	return v
}

var newUUID = func() string {
	return uuid.NewString()
}
