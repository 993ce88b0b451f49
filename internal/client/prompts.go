package client

import (
	"strconv"

	"github.com/nsf/termbox-go"
)

// promptStep is one question in a modal flow. Answering it may yield the next
// question; a nil next ends the flow. Later steps close over earlier answers,
// which keeps "ask A, then ask B using A's answer" sequential without the UI
// ever blocking.
type promptStep struct {
	label string
	next  func(value string) *promptStep
}

// activePrompt is the currently open prompt plus its edit buffer. Only one
// flow is open at a time; keys go to it until Enter or Esc.
type activePrompt struct {
	step   *promptStep
	buffer string
}

// openPrompt starts a modal flow with a single first step.
func (a *App) openPrompt(label string, next func(value string) *promptStep) {
	a.prompt = &activePrompt{step: &promptStep{label: label, next: next}}
}

// promptVM projects the active prompt for rendering, nil when none is open.
func (a *App) promptVM() *PromptVM {
	if a.prompt == nil {
		return nil
	}
	return &PromptVM{Label: a.prompt.step.label, Buffer: a.prompt.buffer}
}

// handlePromptKey edits, cancels, or resolves the open prompt. Esc cancels
// the whole flow, not just the current step.
func (a *App) handlePromptKey(ev termbox.Event) {
	p := a.prompt
	switch ev.Key {
	case termbox.KeyEsc:
		a.prompt = nil
	case termbox.KeyEnter:
		next := p.step.next(p.buffer)
		if next == nil {
			a.prompt = nil
		} else {
			a.prompt = &activePrompt{step: next}
		}
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		if len(p.buffer) > 0 {
			runes := []rune(p.buffer)
			p.buffer = string(runes[:len(runes)-1])
		}
	case termbox.KeySpace:
		p.buffer += " "
	default:
		if ev.Ch != 0 {
			p.buffer += string(ev.Ch)
		}
	}
}

// askInt wraps a step handler that wants a number; non-numbers re-ask.
func askInt(label string, done func(n int) *promptStep) func(string) *promptStep {
	var handler func(string) *promptStep
	handler = func(value string) *promptStep {
		n, err := strconv.Atoi(value)
		if err != nil {
			return &promptStep{label: label + " (enter a number)", next: handler}
		}
		return done(n)
	}
	return handler
}
