package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"greeting-agent/internal/script"
	"greeting-agent/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

type ChatUseCase interface {
	Start(ctx context.Context) (usecase.ChatView, error)
	Get(ctx context.Context, sessionID string) (usecase.ChatView, error)
	Select(ctx context.Context, in usecase.SelectInput) (usecase.ChatView, error)
	Reset(ctx context.Context, sessionID string) (usecase.ChatView, error)
	Close(ctx context.Context, sessionID string) (usecase.ChatView, error)
}

type DeckUseCase interface {
	Start(ctx context.Context) (usecase.DeckView, error)
	Get(ctx context.Context, sessionID string) (usecase.DeckView, error)
	Drag(ctx context.Context, in usecase.DragInput) (usecase.DeckView, error)
	Release(ctx context.Context, in usecase.DragInput) (usecase.DeckView, error)
	Classify(ctx context.Context, in usecase.ClassifyInput) (usecase.DeckView, error)
}

type ScriptUseCase interface {
	Get(ctx context.Context) (script.Script, error)
	AddPrompt(ctx context.Context) (script.Script, error)
	RemovePrompt(ctx context.Context, promptID string) (script.Script, error)
	UpdatePrompt(ctx context.Context, in usecase.UpdatePromptInput) (script.Script, error)
	MovePrompt(ctx context.Context, promptID string, dir script.Direction) (script.Script, error)
	AddOption(ctx context.Context, promptID string) (script.Script, error)
	RemoveOption(ctx context.Context, promptID, optionID string) (script.Script, error)
	UpdateOption(ctx context.Context, in usecase.UpdateOptionInput) (script.Script, error)
	UpdateSettings(ctx context.Context, in usecase.SettingsInput) (script.Script, error)
}

type Handler struct {
	chat   ChatUseCase
	deck   DeckUseCase
	script ScriptUseCase
	logger *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHandler(chat ChatUseCase, deck DeckUseCase, sc ScriptUseCase, logger *slog.Logger) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat use case must not be nil")
	}
	if deck == nil {
		return nil, errors.New("handler: deck use case must not be nil")
	}
	if sc == nil {
		return nil, errors.New("handler: script use case must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{chat: chat, deck: deck, script: sc, logger: logger}, nil
}

// Handle serves one API Gateway proxy request.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(req.Headers)
	log := h.logger.With("correlation_id", corrID, "method", req.HTTPMethod, "path", req.Path)

	status, body := h.route(ctx, req)
	if status >= http.StatusBadRequest {
		log.Warn("request failed", "status", status)
	}
	return jsonResponse(status, body, corrID, log), nil
}

func (h *Handler) route(ctx context.Context, req events.APIGatewayProxyRequest) (int, any) {
	segments := strings.Split(strings.Trim(req.Path, "/"), "/")
	if segments[0] == "script" {
		return h.routeScript(ctx, req, segments[1:])
	}
	if len(segments) > 3 {
		return http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}
	}
	sessionID, action := "", ""
	if len(segments) > 1 {
		sessionID = segments[1]
	}
	if len(segments) > 2 {
		action = segments[2]
	}

	switch segments[0] {
	case "chat":
		return h.routeChat(ctx, req, sessionID, action)
	case "deck":
		return h.routeDeck(ctx, req, sessionID, action)
	}
	return http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}
}

func (h *Handler) routeChat(ctx context.Context, req events.APIGatewayProxyRequest, sessionID, action string) (int, any) {
	method := req.HTTPMethod
	switch {
	case sessionID == "" && method == http.MethodPost:
		return h.chatResult(ctx, http.StatusCreated)(h.chat.Start(ctx))
	case sessionID != "" && action == "" && method == http.MethodGet:
		return h.chatResult(ctx, http.StatusOK)(h.chat.Get(ctx, sessionID))
	case action == "select" && method == http.MethodPost:
		var body selectRequest
		if err := decodeBody(req.Body, &body); err != nil {
			return h.errorResult(ctx, err)
		}
		return h.chatResult(ctx, http.StatusOK)(h.chat.Select(ctx, usecase.SelectInput{SessionID: sessionID, OptionID: body.OptionID}))
	case action == "reset" && method == http.MethodPost:
		return h.chatResult(ctx, http.StatusOK)(h.chat.Reset(ctx, sessionID))
	case sessionID != "" && action == "" && method == http.MethodDelete:
		return h.chatResult(ctx, http.StatusOK)(h.chat.Close(ctx, sessionID))
	}
	return http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}
}

func (h *Handler) routeDeck(ctx context.Context, req events.APIGatewayProxyRequest, sessionID, action string) (int, any) {
	method := req.HTTPMethod
	switch {
	case sessionID == "" && method == http.MethodPost:
		return h.deckResult(ctx, http.StatusCreated)(h.deck.Start(ctx))
	case sessionID != "" && action == "" && method == http.MethodGet:
		return h.deckResult(ctx, http.StatusOK)(h.deck.Get(ctx, sessionID))
	case (action == "drag" || action == "release") && method == http.MethodPost:
		var body dragRequest
		if err := decodeBody(req.Body, &body); err != nil {
			return h.errorResult(ctx, err)
		}
		in := usecase.DragInput{SessionID: sessionID, OffsetX: body.OffsetX}
		if action == "drag" {
			return h.deckResult(ctx, http.StatusOK)(h.deck.Drag(ctx, in))
		}
		return h.deckResult(ctx, http.StatusOK)(h.deck.Release(ctx, in))
	case action == "classify" && method == http.MethodPost:
		var body classifyRequest
		if err := decodeBody(req.Body, &body); err != nil {
			return h.errorResult(ctx, err)
		}
		if body.Index == nil || body.Read == nil {
			return h.errorResult(ctx, &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "missing_classification"})
		}
		return h.deckResult(ctx, http.StatusOK)(h.deck.Classify(ctx, usecase.ClassifyInput{SessionID: sessionID, Index: *body.Index, Read: *body.Read}))
	}
	return http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}
}

// routeScript serves the editor routes under /script. rest is the path after
// the resource name.
func (h *Handler) routeScript(ctx context.Context, req events.APIGatewayProxyRequest, rest []string) (int, any) {
	method := req.HTTPMethod
	ok := h.scriptResult(ctx)
	switch {
	case len(rest) == 0 && method == http.MethodGet:
		return ok(h.script.Get(ctx))
	case len(rest) == 1 && rest[0] == "settings" && method == http.MethodPut:
		var body settingsRequest
		if err := decodeBody(req.Body, &body); err != nil {
			return h.errorResult(ctx, err)
		}
		return ok(h.script.UpdateSettings(ctx, usecase.SettingsInput{ClosingMessage: body.FinalMessage, MediaURL: body.VideoURL}))
	case len(rest) == 0 || rest[0] != "prompts":
		return http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}
	}

	rest = rest[1:]
	switch {
	case len(rest) == 0 && method == http.MethodPost:
		return ok(h.script.AddPrompt(ctx))
	case len(rest) == 1 && method == http.MethodPatch:
		var body promptRequest
		if err := decodeBody(req.Body, &body); err != nil {
			return h.errorResult(ctx, err)
		}
		return ok(h.script.UpdatePrompt(ctx, usecase.UpdatePromptInput{
			PromptID:          rest[0],
			Title:             body.Title,
			Message:           body.Message,
			UseSharedResponse: body.UseCommonResponse,
			SharedResponse:    body.CommonResponse,
		}))
	case len(rest) == 1 && method == http.MethodDelete:
		return ok(h.script.RemovePrompt(ctx, rest[0]))
	case len(rest) == 2 && rest[1] == "move" && method == http.MethodPost:
		var body moveRequest
		if err := decodeBody(req.Body, &body); err != nil {
			return h.errorResult(ctx, err)
		}
		return ok(h.script.MovePrompt(ctx, rest[0], script.Direction(body.Direction)))
	case len(rest) == 2 && rest[1] == "options" && method == http.MethodPost:
		return ok(h.script.AddOption(ctx, rest[0]))
	case len(rest) == 3 && rest[1] == "options" && method == http.MethodPatch:
		var body optionRequest
		if err := decodeBody(req.Body, &body); err != nil {
			return h.errorResult(ctx, err)
		}
		return ok(h.script.UpdateOption(ctx, usecase.UpdateOptionInput{PromptID: rest[0], OptionID: rest[2], Text: body.Text, Response: body.Response}))
	case len(rest) == 3 && rest[1] == "options" && method == http.MethodDelete:
		return ok(h.script.RemoveOption(ctx, rest[0], rest[2]))
	}
	return http.StatusNotFound, errorResponse{Error: "NOT_FOUND"}
}

func (h *Handler) scriptResult(ctx context.Context) func(script.Script, error) (int, any) {
	return func(sc script.Script, err error) (int, any) {
		if err != nil {
			return h.errorResult(ctx, err)
		}
		return http.StatusOK, sc
	}
}

func (h *Handler) chatResult(ctx context.Context, okStatus int) func(usecase.ChatView, error) (int, any) {
	return func(v usecase.ChatView, err error) (int, any) {
		if err != nil {
			return h.errorResult(ctx, err)
		}
		return okStatus, toChatResponse(v)
	}
}

func (h *Handler) deckResult(ctx context.Context, okStatus int) func(usecase.DeckView, error) (int, any) {
	return func(v usecase.DeckView, err error) (int, any) {
		if err != nil {
			return h.errorResult(ctx, err)
		}
		return okStatus, toDeckResponse(v)
	}
}

func (h *Handler) errorResult(ctx context.Context, err error) (int, any) {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		h.logger.ErrorContext(ctx, "unexpected error", "err", err)
		return http.StatusInternalServerError, errorResponse{Error: string(usecase.ErrorInternal)}
	}
	if ucErr.Code == usecase.ErrorInternal {
		h.logger.ErrorContext(ctx, "use case failed", "code", ucErr.Code, "reason", ucErr.Reason, "err", ucErr.Err)
	}
	return statusFor(ucErr.Code), errorResponse{Error: string(ucErr.Code)}
}

func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest
	case usecase.ErrorNotFound:
		return http.StatusNotFound
	case usecase.ErrorConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func decodeBody(body string, v any) error {
	if strings.TrimSpace(body) == "" {
		return &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "empty_body"}
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "invalid_json", Err: err}
	}
	return nil
}

func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return uuid.NewString()
}

func jsonResponse(status int, body any, corrID string, log *slog.Logger) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Error("failed to encode response", "err", err)
		status = http.StatusInternalServerError
		payload = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: corrID,
		},
		Body: string(payload),
	}
}
