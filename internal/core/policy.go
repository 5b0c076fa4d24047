package core

import (
	"fmt"
	"strings"
)

// RoomPolicy validates a room key before admission.
type RoomPolicy interface {
	Validate(room string) error
}

// AnyRoom accepts every non-empty room key.
type AnyRoom struct{}

func (AnyRoom) Validate(room string) error {
	if room == "" {
		return coreError(ErrCodeBadRequest, "room is required")
	}
	return nil
}

// WorkContext is a recognized category embedded in a room key.
type WorkContext struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// DefaultWorkContexts are the categories accepted when none are configured.
func DefaultWorkContexts() []WorkContext {
	return []WorkContext{
		{Key: "school", Label: "🏫 School", Description: "For school students & teachers"},
		{Key: "college", Label: "🎓 College", Description: "For college students & faculty"},
		{Key: "office", Label: "💼 Office", Description: "For workplace teams & professionals"},
		{Key: "personal", Label: "🏠 Personal", Description: "For personal projects & freelancers"},
	}
}

// ContextPolicy accepts room keys of the form "<prefix>_<context>" where
// context is one of the configured categories. The prefix is not checked.
type ContextPolicy struct {
	contexts []WorkContext
	byKey    map[string]WorkContext
}

// NewContextPolicy builds a policy over contexts, in the given order.
func NewContextPolicy(contexts []WorkContext) *ContextPolicy {
	p := &ContextPolicy{byKey: make(map[string]WorkContext, len(contexts))}
	for _, c := range contexts {
		if c.Key == "" {
			continue
		}
		if _, dup := p.byKey[c.Key]; dup {
			continue
		}
		p.contexts = append(p.contexts, c)
		p.byKey[c.Key] = c
	}
	return p
}

// Validate checks the context embedded in room.
func (p *ContextPolicy) Validate(room string) error {
	if _, ok := p.ContextOf(room); ok {
		return nil
	}
	return coreError(ErrCodeInvalidContext, fmt.Sprintf(
		"Invalid work context '%s'. Choose: %s.", contextKey(room), strings.Join(p.keys(), ", ")))
}

// ContextOf returns the category embedded in room.
func (p *ContextPolicy) ContextOf(room string) (WorkContext, bool) {
	c, ok := p.byKey[contextKey(room)]
	return c, ok
}

// Contexts returns the configured categories.
func (p *ContextPolicy) Contexts() []WorkContext {
	out := make([]WorkContext, len(p.contexts))
	copy(out, p.contexts)
	return out
}

func (p *ContextPolicy) keys() []string {
	keys := make([]string, 0, len(p.contexts))
	for _, c := range p.contexts {
		keys = append(keys, c.Key)
	}
	return keys
}

func contextKey(room string) string {
	parts := strings.SplitN(room, "_", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
