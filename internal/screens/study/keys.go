package study

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Reveal  key.Binding
	Move    key.Binding
	Known   key.Binding
	Unknown key.Binding
	Next    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Reveal:  key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "reveal")),
		Move:    key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑↓", "choose")),
		Known:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "knew it")),
		Unknown: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "didn't")),
		Next:    key.NewBinding(key.WithHelp("any key", "next card")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// hints is the subset of bindings shown for one phase.
type hints []key.Binding

func (h hints) ShortHelp() []key.Binding  { return h }
func (h hints) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (k keyMap) forPhase(p phase) hints {
	switch p {
	case phaseQuestion:
		return hints{k.Reveal, k.Quit}
	case phaseAnswer:
		return hints{k.Known, k.Unknown, k.Move, k.Quit}
	case phaseFeedback:
		return hints{k.Next, k.Quit}
	default:
		return nil
	}
}
