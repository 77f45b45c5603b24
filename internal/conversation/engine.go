// Package conversation runs the scripted chat. Every simulated delay is a
// scheduled step with an absolute due time, applied by Advance once the clock
// passes it, so a session can be persisted between requests and replayed
// deterministically.
package conversation

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"greeting-agent/internal/domain"
	"greeting-agent/internal/media"
	"greeting-agent/internal/script"
)

const (
	InitialTypingDelay = 2 * time.Second
	ResponseDelay      = 2 * time.Second
	TurnPause          = 1 * time.Second
	PromptTypingDelay  = 2 * time.Second
)

// Clock is the time source used to schedule and fire steps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// Engine binds a script to a clock and creates sessions for it.
type Engine struct {
	script script.Script
	clock  Clock
	newID  func() string
}

// NewEngine returns an Engine for s. A nil clock uses the wall clock.
func NewEngine(s script.Script, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{script: s.Clone(), clock: clock, newID: uuid.NewString}
}

// Script returns the engine's script.
func (e *Engine) Script() script.Script { return e.script.Clone() }

// Start opens a new session and schedules the first prompt.
func (e *Engine) Start(sessionID string) *Session {
	now := e.clock.Now()
	s := &Session{engine: e, state: domain.ConversationState{
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	s.open(now)
	return s
}

// Resume wraps previously persisted state. Due steps are not applied until
// Advance is called.
func (e *Engine) Resume(state domain.ConversationState) *Session {
	state.Transcript = slices.Clone(state.Transcript)
	state.Pending = slices.Clone(state.Pending)
	return &Session{engine: e, state: state}
}

// Session is one recipient's conversation.
type Session struct {
	engine *Engine
	state  domain.ConversationState
}

// State returns a copy of the session state.
func (s *Session) State() domain.ConversationState {
	st := s.state
	st.Transcript = slices.Clone(s.state.Transcript)
	st.Pending = slices.Clone(s.state.Pending)
	return st
}

func (s *Session) prompts() []domain.Prompt { return s.engine.script.Prompts }

func (s *Session) open(now time.Time) {
	prompts := s.prompts()
	if len(prompts) == 0 {
		return
	}
	s.state.Typing = true
	s.schedule(domain.ScheduledStep{Due: now.Add(InitialTypingDelay), Action: domain.StepDeliver, Text: prompts[0].Message})
}

func (s *Session) schedule(steps ...domain.ScheduledStep) {
	s.state.Pending = append(s.state.Pending, steps...)
	slices.SortStableFunc(s.state.Pending, func(a, b domain.ScheduledStep) int {
		return a.Due.Compare(b.Due)
	})
}

// Advance applies every step that has come due and returns how many fired.
func (s *Session) Advance() int {
	now := s.engine.clock.Now()
	fired := 0
	for len(s.state.Pending) > 0 && !s.state.Pending[0].Due.After(now) {
		step := s.state.Pending[0]
		s.state.Pending = s.state.Pending[1:]
		s.apply(step)
		fired++
	}
	if len(s.state.Pending) == 0 {
		s.state.Pending = nil
	}
	if fired > 0 {
		s.state.UpdatedAt = now
	}
	return fired
}

func (s *Session) apply(step domain.ScheduledStep) {
	switch step.Action {
	case domain.StepTyping:
		s.state.Typing = true
	case domain.StepDeliver:
		s.state.Typing = false
		s.appendMessage(step.Text, domain.SenderBot, step.Due)
	case domain.StepFinish:
		s.state.Typing = false
		if step.Text != "" {
			s.appendMessage(step.Text, domain.SenderBot, step.Due)
		}
		_, hasMedia := media.Resolve(s.engine.script.MediaURL)
		s.state.MediaRevealed = hasMedia
	}
}

func (s *Session) appendMessage(content string, sender domain.Sender, at time.Time) {
	s.state.Transcript = append(s.state.Transcript, domain.Message{
		ID:      s.engine.newID(),
		Content: content,
		Sender:  sender,
		SentAt:  at,
	})
}

// Phase reports the state tag of the session.
func (s *Session) Phase() domain.Phase {
	switch {
	case s.state.Closed:
		return domain.PhaseClosed
	case s.state.Typing:
		return domain.PhaseTyping
	case len(s.state.Pending) > 0:
		return domain.PhaseDelivered
	case len(s.prompts()) == 0 && len(s.state.Transcript) == 0:
		return domain.PhaseIdle
	case s.state.PromptIndex >= len(s.prompts()):
		return domain.PhaseFinished
	case len(s.state.Transcript) == 0:
		return domain.PhaseIdle
	}
	return domain.PhaseAwaitingSelection
}

// CurrentPrompt returns the prompt waiting for a selection.
func (s *Session) CurrentPrompt() (domain.Prompt, bool) {
	if s.Phase() != domain.PhaseAwaitingSelection {
		return domain.Prompt{}, false
	}
	return s.prompts()[s.state.PromptIndex], true
}

// Options returns the choices for the current prompt, or nil when the
// session is not waiting for a selection.
func (s *Session) Options() []domain.Option {
	p, ok := s.CurrentPrompt()
	if !ok {
		return nil
	}
	return slices.Clone(p.Options)
}

// SelectOption records the recipient's choice and schedules the reply and
// what follows it. It reports false, leaving the session untouched, when the
// option is unknown or the session is not waiting for a selection.
func (s *Session) SelectOption(optionID string) bool {
	prompt, ok := s.CurrentPrompt()
	if !ok {
		return false
	}
	option, ok := prompt.FindOption(optionID)
	if !ok {
		return false
	}

	now := s.engine.clock.Now()
	s.appendMessage(option.Text, domain.SenderUser, now)
	s.state.Typing = true

	replyAt := now.Add(ResponseDelay)
	typingAt := replyAt.Add(TurnPause)
	nextAt := typingAt.Add(PromptTypingDelay)

	next := s.state.PromptIndex + 1
	s.state.PromptIndex = next

	followUp := domain.ScheduledStep{Due: nextAt, Action: domain.StepFinish, Text: s.engine.script.ClosingMessage}
	if next < len(s.prompts()) {
		followUp = domain.ScheduledStep{Due: nextAt, Action: domain.StepDeliver, Text: s.prompts()[next].Message}
	}
	s.schedule(
		domain.ScheduledStep{Due: replyAt, Action: domain.StepDeliver, Text: prompt.ResponseFor(option)},
		domain.ScheduledStep{Due: typingAt, Action: domain.StepTyping},
		followUp,
	)
	s.state.UpdatedAt = now
	return true
}

// Reset cancels anything pending, clears the transcript and replays the
// opening sequence.
func (s *Session) Reset() {
	now := s.engine.clock.Now()
	s.state.Transcript = nil
	s.state.Pending = nil
	s.state.PromptIndex = 0
	s.state.Typing = false
	s.state.MediaRevealed = false
	s.state.Closed = false
	s.state.Generation++
	s.state.UpdatedAt = now
	s.open(now)
}

// Close cancels pending steps so nothing fires after the session is torn
// down. A closed session accepts no selections until it is reset. It reports
// false when the session was already closed.
func (s *Session) Close() bool {
	if s.state.Closed {
		return false
	}
	s.state.Closed = true
	s.state.Pending = nil
	s.state.Typing = false
	s.state.UpdatedAt = s.engine.clock.Now()
	return true
}

// Media returns the closing attachment once it has been revealed.
func (s *Session) Media() (media.Attachment, bool) {
	if !s.state.MediaRevealed {
		return media.Attachment{}, false
	}
	return media.Resolve(s.engine.script.MediaURL)
}

// NextTransition returns when the next pending step is due.
func (s *Session) NextTransition() (time.Time, bool) {
	if len(s.state.Pending) == 0 {
		return time.Time{}, false
	}
	return s.state.Pending[0].Due, true
}
