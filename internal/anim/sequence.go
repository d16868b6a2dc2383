// Package anim replays batches of calculator key presses with realistic
// timing and visual feedback. Sequences come from the chat layer or from the
// scripted sequence library; the scheduler serializes them into a single
// ordered stream of engine calls.
package anim

import (
	"github.com/google/uuid"

	"github.com/evgenyvinnik/MCPlator-sub000/internal/calc"
)

// CommandType tags the Command union.
type CommandType string

const (
	// CommandPressKey visually presses a key, waits, then applies it.
	CommandPressKey CommandType = "press_key"
	// CommandSetDisplay is a reserved override hook with no effect today.
	CommandSetDisplay CommandType = "set_display"
	// CommandSleep pauses without touching the engine.
	CommandSleep CommandType = "sleep"
)

// Command is one step of a sequence. Only the fields matching Type are used;
// unknown types are skipped, mirroring the engine's unknown-key rule.
type Command struct {
	Type       CommandType `json:"type"`
	Key        calc.Key    `json:"key,omitempty"`
	DelayMs    int         `json:"delay_ms,omitempty"`
	Display    string      `json:"display,omitempty"`
	DurationMs int         `json:"duration_ms,omitempty"`
}

// PressKey builds a press command. delayMs of 0 means the scheduler default.
func PressKey(k calc.Key, delayMs int) Command {
	return Command{Type: CommandPressKey, Key: k, DelayMs: delayMs}
}

// Sleep builds a pure pause command.
func Sleep(durationMs int) Command {
	return Command{Type: CommandSleep, DurationMs: durationMs}
}

// Sequence is an ordered batch of commands submitted as one unit. The ID
// correlates the sequence with its completion callback.
type Sequence struct {
	ID       string    `json:"id"`
	Commands []Command `json:"commands"`
}

// FromKeys builds a press-only sequence with a uniform per-key delay. An
// empty id gets a fresh UUID.
func FromKeys(id string, keys []calc.Key, delayMs int) Sequence {
	if id == "" {
		id = uuid.New().String()
	}
	commands := make([]Command, 0, len(keys))
	for _, k := range keys {
		commands = append(commands, PressKey(k, delayMs))
	}
	return Sequence{ID: id, Commands: commands}
}
