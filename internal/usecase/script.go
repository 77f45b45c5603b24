package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"greeting-agent/internal/domain"
	"greeting-agent/internal/script"
)

// ParamPutter writes content parameters.
type ParamPutter interface {
	Put(ctx context.Context, name, value string) error
}

// ScriptService edits the conversation script and writes it back to
// Parameter Store. Edits are serialized within the process.
type ScriptService struct {
	content *ContentLoader
	params  ParamPutter
	mu      sync.Mutex
}

type UpdatePromptInput struct {
	PromptID          string
	Title             *string
	Message           *string
	UseSharedResponse *bool
	SharedResponse    *string
}

type UpdateOptionInput struct {
	PromptID string
	OptionID string
	Text     *string
	Response *string
}

type SettingsInput struct {
	ClosingMessage *string
	MediaURL       *string
}

func NewScriptService(content *ContentLoader, p ParamPutter) (*ScriptService, error) {
	if content == nil {
		return nil, errors.New("usecase: content loader must not be nil")
	}
	if p == nil {
		return nil, errors.New("usecase: param putter must not be nil")
	}
	return &ScriptService{content: content, params: p}, nil
}

// Get returns the script currently served to new conversations.
func (s *ScriptService) Get(ctx context.Context) (script.Script, error) {
	sc, err := s.content.Script(ctx)
	if err != nil {
		return script.Script{}, newError(ErrorInternal, "ssm_load_error", err)
	}
	return sc, nil
}

func (s *ScriptService) AddPrompt(ctx context.Context) (script.Script, error) {
	return s.editPrompts(ctx, nil, func(sc script.Script) script.Script {
		return sc.AddPrompt()
	})
}

func (s *ScriptService) RemovePrompt(ctx context.Context, promptID string) (script.Script, error) {
	return s.editPrompts(ctx, promptExists(promptID), func(sc script.Script) script.Script {
		return sc.RemovePrompt(promptID)
	})
}

func (s *ScriptService) UpdatePrompt(ctx context.Context, in UpdatePromptInput) (script.Script, error) {
	return s.editPrompts(ctx, promptExists(in.PromptID), func(sc script.Script) script.Script {
		return sc.UpdatePrompt(in.PromptID, func(p *domain.Prompt) {
			if in.Title != nil {
				p.Title = *in.Title
			}
			if in.Message != nil {
				p.Message = *in.Message
			}
			if in.UseSharedResponse != nil {
				p.UseSharedResponse = *in.UseSharedResponse
			}
			if in.SharedResponse != nil {
				p.SharedResponse = *in.SharedResponse
			}
		})
	})
}

// MovePrompt swaps a prompt with its neighbour. Moving past either end is a
// no-op.
func (s *ScriptService) MovePrompt(ctx context.Context, promptID string, dir script.Direction) (script.Script, error) {
	if dir != script.Up && dir != script.Down {
		return script.Script{}, newError(ErrorInvalidInput, "invalid_direction", nil)
	}
	return s.editPrompts(ctx, promptExists(promptID), func(sc script.Script) script.Script {
		return sc.MovePrompt(promptID, dir)
	})
}

func (s *ScriptService) AddOption(ctx context.Context, promptID string) (script.Script, error) {
	return s.editPrompts(ctx, promptExists(promptID), func(sc script.Script) script.Script {
		return sc.AddOption(promptID)
	})
}

func (s *ScriptService) RemoveOption(ctx context.Context, promptID, optionID string) (script.Script, error) {
	return s.editPrompts(ctx, optionExists(promptID, optionID), func(sc script.Script) script.Script {
		return sc.RemoveOption(promptID, optionID)
	})
}

func (s *ScriptService) UpdateOption(ctx context.Context, in UpdateOptionInput) (script.Script, error) {
	return s.editPrompts(ctx, optionExists(in.PromptID, in.OptionID), func(sc script.Script) script.Script {
		return sc.UpdateOption(in.PromptID, in.OptionID, func(o *domain.Option) {
			if in.Text != nil {
				o.Text = *in.Text
			}
			if in.Response != nil {
				o.Response = *in.Response
			}
		})
	})
}

// UpdateSettings changes the closing message and media URL.
func (s *ScriptService) UpdateSettings(ctx context.Context, in SettingsInput) (script.Script, error) {
	if in.ClosingMessage == nil && in.MediaURL == nil {
		return script.Script{}, newError(ErrorInvalidInput, "empty_settings", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, err := s.Get(ctx)
	if err != nil {
		return script.Script{}, err
	}
	if in.ClosingMessage != nil {
		if err := s.params.Put(ctx, s.content.paramName(paramFinalMessage), *in.ClosingMessage); err != nil {
			return script.Script{}, newError(ErrorInternal, "ssm_write_error", err)
		}
		sc.ClosingMessage = *in.ClosingMessage
	}
	if in.MediaURL != nil {
		u := strings.TrimSpace(*in.MediaURL)
		if err := s.params.Put(ctx, s.content.paramName(paramMediaURL), u); err != nil {
			return script.Script{}, newError(ErrorInternal, "ssm_write_error", err)
		}
		sc.MediaURL = u
	}
	s.content.Store(sc)
	return sc, nil
}

// editPrompts checks the current script with check, applies fn and persists
// the resulting prompt list.
func (s *ScriptService) editPrompts(ctx context.Context, check func(script.Script) error, fn func(script.Script) script.Script) (script.Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, err := s.Get(ctx)
	if err != nil {
		return script.Script{}, err
	}
	if check != nil {
		if err := check(sc); err != nil {
			return script.Script{}, err
		}
	}

	updated := fn(sc)
	raw, err := json.Marshal(updated.Prompts)
	if err != nil {
		return script.Script{}, newError(ErrorInternal, "encode_prompts", err)
	}
	if err := s.params.Put(ctx, s.content.paramName(paramPrompts), string(raw)); err != nil {
		return script.Script{}, newError(ErrorInternal, "ssm_write_error", err)
	}
	s.content.Store(updated)
	return updated, nil
}

func promptExists(promptID string) func(script.Script) error {
	return func(sc script.Script) error {
		_, err := findPrompt(sc, promptID)
		return err
	}
}

func optionExists(promptID, optionID string) func(script.Script) error {
	return func(sc script.Script) error {
		p, err := findPrompt(sc, promptID)
		if err != nil {
			return err
		}
		if strings.TrimSpace(optionID) == "" {
			return newError(ErrorInvalidInput, "empty_option_id", nil)
		}
		if _, ok := p.FindOption(optionID); !ok {
			return newError(ErrorNotFound, "option_not_found", nil)
		}
		return nil
	}
}

func findPrompt(sc script.Script, promptID string) (domain.Prompt, error) {
	if strings.TrimSpace(promptID) == "" {
		return domain.Prompt{}, newError(ErrorInvalidInput, "empty_prompt_id", nil)
	}
	p, ok := sc.Prompt(promptID)
	if !ok {
		return domain.Prompt{}, newError(ErrorNotFound, "prompt_not_found", nil)
	}
	return p, nil
}
