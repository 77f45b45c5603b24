package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"greeting-agent/internal/domain"
)

type mockParams struct {
	vals   map[string]string
	err    error
	calls  int
	putErr error
	puts   map[string]string
}

func (m *mockParams) Lookup(_ context.Context, name string) (string, bool, error) {
	m.calls++
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.vals[name]
	return v, ok, nil
}

func (m *mockParams) Put(_ context.Context, name, value string) error {
	if m.putErr != nil {
		return m.putErr
	}
	if m.puts == nil {
		m.puts = map[string]string{}
	}
	m.puts[name] = value
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Add(d time.Duration) { c.now = c.now.Add(d) }

// memStore keeps sessions in memory and enforces versions like the DynamoDB
// repository does.
type memStore struct {
	chats  map[string]domain.ConversationState
	decks  map[string]domain.DeckState
	getErr error
	putErr error
	saves  int
}

func newMemStore() *memStore {
	return &memStore{
		chats: map[string]domain.ConversationState{},
		decks: map[string]domain.DeckState{},
	}
}

func (m *memStore) GetConversation(_ context.Context, id string) (domain.ConversationState, error) {
	if m.getErr != nil {
		return domain.ConversationState{}, m.getErr
	}
	st, ok := m.chats[id]
	if !ok {
		return domain.ConversationState{}, domain.ErrSessionNotFound
	}
	return st, nil
}

func (m *memStore) SaveConversation(_ context.Context, st domain.ConversationState) (domain.ConversationState, error) {
	if m.putErr != nil {
		return domain.ConversationState{}, m.putErr
	}
	if cur, ok := m.chats[st.SessionID]; ok && cur.Version != st.Version {
		return domain.ConversationState{}, domain.ErrVersionConflict
	}
	m.saves++
	st.Version++
	m.chats[st.SessionID] = st
	return st, nil
}

func (m *memStore) GetDeck(_ context.Context, id string) (domain.DeckState, error) {
	if m.getErr != nil {
		return domain.DeckState{}, m.getErr
	}
	st, ok := m.decks[id]
	if !ok {
		return domain.DeckState{}, domain.ErrSessionNotFound
	}
	return st, nil
}

func (m *memStore) SaveDeck(_ context.Context, st domain.DeckState) (domain.DeckState, error) {
	if m.putErr != nil {
		return domain.DeckState{}, m.putErr
	}
	if cur, ok := m.decks[st.SessionID]; ok && cur.Version != st.Version {
		return domain.DeckState{}, domain.ErrVersionConflict
	}
	m.saves++
	st.Version++
	m.decks[st.SessionID] = st
	return st, nil
}

type recorder struct {
	starts          []string
	selections      []string
	classifications []string
	finished        int
}

func (r *recorder) ObserveSessionStart(kind string) { r.starts = append(r.starts, kind) }

func (r *recorder) ObserveSelection(promptID string, accepted bool) {
	r.selections = append(r.selections, fmt.Sprintf("%s:%t", promptID, accepted))
}

func (r *recorder) ObserveClassification(read bool, trigger string) {
	r.classifications = append(r.classifications, fmt.Sprintf("%t:%s", read, trigger))
}

func (r *recorder) ObserveFinished() { r.finished++ }

func withSessionIDs(t *testing.T, ids ...string) {
	t.Helper()
	orig := newUUID
	i := 0
	newUUID = func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
	t.Cleanup(func() { newUUID = orig })
}
