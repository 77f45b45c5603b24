package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"greeting-agent/internal/domain"
	"greeting-agent/internal/script"
)

const (
	paramMediaURL     = "media_url"
	paramFinalMessage = "final_message"
	paramPrompts      = "prompts"
)

// ParamGetter reads optional content parameters.
type ParamGetter interface {
	Lookup(ctx context.Context, name string) (value string, found bool, err error)
}

// ContentLoader resolves the conversation script from Parameter Store,
// falling back to the built-in script for anything not configured. A
// successful load is cached for the lifetime of the process; a failed one is
// retried on the next call.
type ContentLoader struct {
	params      ParamGetter
	paramPrefix string
	defaults    script.Script

	cacheMu     sync.RWMutex
	cacheLoaded bool
	script      script.Script
}

func NewContentLoader(p ParamGetter, paramPrefix string, defaults script.Script) (*ContentLoader, error) {
	if p == nil {
		return nil, errors.New("usecase: param getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("usecase: parameter prefix must not be empty")
	}
	return &ContentLoader{params: p, paramPrefix: paramPrefix, defaults: defaults.Clone()}, nil
}

// Script returns the configured conversation script.
func (l *ContentLoader) Script(ctx context.Context) (script.Script, error) {
	l.cacheMu.RLock()
	if l.cacheLoaded {
		s := l.script
		l.cacheMu.RUnlock()
		return s, nil
	}
	l.cacheMu.RUnlock()

	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()
	if l.cacheLoaded {
		return l.script, nil
	}

	s, err := l.load(ctx)
	if err != nil {
		return script.Script{}, err
	}
	l.script = s
	l.cacheLoaded = true
	return s, nil
}

// Store replaces the cached script after it has been written back to
// Parameter Store.
func (l *ContentLoader) Store(s script.Script) {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()
	l.script = s.Clone()
	l.cacheLoaded = true
}

func (l *ContentLoader) paramName(key string) string {
	return l.paramPrefix + "/" + key
}

func (l *ContentLoader) load(ctx context.Context) (script.Script, error) {
	s := l.defaults.Clone()

	mediaURL, found, err := l.params.Lookup(ctx, l.paramName(paramMediaURL))
	if err != nil {
		return script.Script{}, fmt.Errorf("usecase: load media url: %w", err)
	}
	if found {
		s.MediaURL = strings.TrimSpace(mediaURL)
	}

	closing, found, err := l.params.Lookup(ctx, l.paramName(paramFinalMessage))
	if err != nil {
		return script.Script{}, fmt.Errorf("usecase: load final message: %w", err)
	}
	if found {
		s.ClosingMessage = closing
	}

	raw, found, err := l.params.Lookup(ctx, l.paramName(paramPrompts))
	if err != nil {
		return script.Script{}, fmt.Errorf("usecase: load prompts: %w", err)
	}
	if found {
		var prompts []domain.Prompt
		if err := json.Unmarshal([]byte(raw), &prompts); err != nil {
			return script.Script{}, fmt.Errorf("usecase: decode prompts: %w", err)
		}
		s.Prompts = prompts
	}
	return s, nil
}
