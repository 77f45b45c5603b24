// Package script holds the authored content of the greeting: the
// conversation prompts, the closing message and media, and the deck cards.
package script

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"greeting-agent/internal/domain"
)

// Direction moves a prompt within the script.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Script is the conversation content. Editing methods never modify the
// receiver; they return an updated copy.
type Script struct {
	Prompts        []domain.Prompt `json:"prompts"`
	ClosingMessage string          `json:"finalMessage"`
	MediaURL       string          `json:"videoUrl"`
}

var newID = func() string {
	return uuid.NewString()
}

// Clone returns a deep copy of s.
func (s Script) Clone() Script {
	out := s
	out.Prompts = make([]domain.Prompt, len(s.Prompts))
	for i, p := range s.Prompts {
		p.Options = slices.Clone(p.Options)
		out.Prompts[i] = p
	}
	return out
}

func (s Script) indexOf(promptID string) int {
	return slices.IndexFunc(s.Prompts, func(p domain.Prompt) bool { return p.ID == promptID })
}

// Prompt returns the prompt with the given id.
func (s Script) Prompt(promptID string) (domain.Prompt, bool) {
	i := s.indexOf(promptID)
	if i < 0 {
		return domain.Prompt{}, false
	}
	return s.Prompts[i], true
}

// AddPrompt appends an empty prompt with two blank options.
func (s Script) AddPrompt() Script {
	out := s.Clone()
	id := newID()
	out.Prompts = append(out.Prompts, domain.Prompt{
		ID:    id,
		Title: fmt.Sprintf("Prompt %d", len(s.Prompts)+1),
		Options: []domain.Option{
			{ID: id + "-1"},
			{ID: id + "-2"},
		},
	})
	return out
}

// RemovePrompt drops the prompt with the given id.
func (s Script) RemovePrompt(promptID string) Script {
	out := s.Clone()
	out.Prompts = slices.DeleteFunc(out.Prompts, func(p domain.Prompt) bool { return p.ID == promptID })
	return out
}

// UpdatePrompt applies fn to the prompt with the given id. The prompt id is
// preserved.
func (s Script) UpdatePrompt(promptID string, fn func(*domain.Prompt)) Script {
	out := s.Clone()
	i := out.indexOf(promptID)
	if i < 0 || fn == nil {
		return out
	}
	fn(&out.Prompts[i])
	out.Prompts[i].ID = promptID
	return out
}

// AddOption appends a blank option to the prompt.
func (s Script) AddOption(promptID string) Script {
	out := s.Clone()
	i := out.indexOf(promptID)
	if i < 0 {
		return out
	}
	out.Prompts[i].Options = append(out.Prompts[i].Options, domain.Option{ID: promptID + "-" + newID()})
	return out
}

// RemoveOption drops an option from the prompt.
func (s Script) RemoveOption(promptID, optionID string) Script {
	out := s.Clone()
	i := out.indexOf(promptID)
	if i < 0 {
		return out
	}
	out.Prompts[i].Options = slices.DeleteFunc(out.Prompts[i].Options, func(o domain.Option) bool { return o.ID == optionID })
	return out
}

// UpdateOption applies fn to one option of a prompt. The option id is
// preserved.
func (s Script) UpdateOption(promptID, optionID string, fn func(*domain.Option)) Script {
	out := s.Clone()
	i := out.indexOf(promptID)
	if i < 0 || fn == nil {
		return out
	}
	opts := out.Prompts[i].Options
	j := slices.IndexFunc(opts, func(o domain.Option) bool { return o.ID == optionID })
	if j < 0 {
		return out
	}
	fn(&opts[j])
	opts[j].ID = optionID
	return out
}

// MovePrompt swaps a prompt with its neighbour. Moving the first prompt up or
// the last prompt down is a no-op.
func (s Script) MovePrompt(promptID string, dir Direction) Script {
	out := s.Clone()
	i := out.indexOf(promptID)
	if i < 0 {
		return out
	}
	j := i
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	}
	if j < 0 || j >= len(out.Prompts) || j == i {
		return out
	}
	out.Prompts[i], out.Prompts[j] = out.Prompts[j], out.Prompts[i]
	return out
}
