package chat

import (
	"time"

	"github.com/abhisek/slovo/internal/dialogue"
)

// stepDoneMsg carries the engine's answer to one submitted line.
type stepDoneMsg struct {
	Reply dialogue.Reply
	Err   error
}

// spinnerTickMsg animates the "typing" indicator while a step runs.
type spinnerTickMsg time.Time
