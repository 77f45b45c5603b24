package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"greeting-agent/handler"
	"greeting-agent/internal/domain"
	"greeting-agent/internal/integrations/paramstore"
	"greeting-agent/internal/observability/metrics"
	"greeting-agent/internal/script"
	"greeting-agent/internal/usecase"
)

type stubChat struct{ selected usecase.SelectInput }

func (s *stubChat) Start(context.Context) (usecase.ChatView, error) {
	return usecase.ChatView{SessionID: "chat-1", Phase: domain.PhaseTyping, Typing: true}, nil
}

func (s *stubChat) Get(_ context.Context, id string) (usecase.ChatView, error) {
	return usecase.ChatView{SessionID: id}, nil
}

func (s *stubChat) Select(_ context.Context, in usecase.SelectInput) (usecase.ChatView, error) {
	s.selected = in
	return usecase.ChatView{SessionID: in.SessionID}, nil
}

func (s *stubChat) Reset(_ context.Context, id string) (usecase.ChatView, error) {
	return usecase.ChatView{SessionID: id}, nil
}

func (s *stubChat) Close(_ context.Context, id string) (usecase.ChatView, error) {
	return usecase.ChatView{SessionID: id, Phase: domain.PhaseClosed}, nil
}

type stubDeck struct{}

func (stubDeck) Start(context.Context) (usecase.DeckView, error) {
	return usecase.DeckView{SessionID: "deck-1"}, nil
}

func (stubDeck) Get(_ context.Context, id string) (usecase.DeckView, error) {
	return usecase.DeckView{SessionID: id}, nil
}

func (stubDeck) Drag(_ context.Context, in usecase.DragInput) (usecase.DeckView, error) {
	return usecase.DeckView{SessionID: in.SessionID}, nil
}

func (stubDeck) Release(_ context.Context, in usecase.DragInput) (usecase.DeckView, error) {
	return usecase.DeckView{SessionID: in.SessionID}, nil
}

func (stubDeck) Classify(_ context.Context, in usecase.ClassifyInput) (usecase.DeckView, error) {
	return usecase.DeckView{SessionID: in.SessionID}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubChat) {
	t.Helper()
	chat := &stubChat{}
	params := paramstore.NewStatic(nil)
	content, err := usecase.NewContentLoader(params, "/greeting", script.Default())
	require.NoError(t, err)
	scripts, err := usecase.NewScriptService(content, params)
	require.NoError(t, err)
	h, err := handler.NewHandler(chat, stubDeck{}, scripts, nil)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	metrics.NewGreetingMetrics(reg).ObserveSessionStart("chat")
	srv := httptest.NewServer(newRouter(h, reg))
	t.Cleanup(srv.Close)
	return srv, chat
}

func TestRouter_ProxiesChatRequests(t *testing.T) {
	srv, chat := newTestServer(t)

	resp, err := http.Post(srv.URL+"/chat", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Correlation-Id"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"sessionId":"chat-1"`)

	resp2, err := http.Post(srv.URL+"/chat/chat-1/select", "application/json", strings.NewReader(`{"optionId":"1-2"}`))
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	require.Equal(t, usecase.SelectInput{SessionID: "chat-1", OptionID: "1-2"}, chat.selected)
}

func TestRouter_EditsScriptThroughParameterStore(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/script/prompts/1", strings.NewReader(`{"message":"Edited opener"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/script")
	require.NoError(t, err)
	defer resp2.Body.Close()
	body, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"message":"Edited opener"`)

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/chat/chat-1", nil)
	require.NoError(t, err)
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp3.Body.Close()
	body, err = io.ReadAll(resp3.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"phase":"closed"`)
}

func TestRouter_ForwardsCorrelationID(t *testing.T) {
	srv, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/deck/deck-9", nil)
	require.NoError(t, err)
	req.Header.Set("X-Correlation-Id", "corr-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "corr-42", resp.Header.Get("X-Correlation-Id"))
}

func TestRouter_MetricsAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `greeting_session_started_total{kind="chat"} 1`)

	resp2, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}
