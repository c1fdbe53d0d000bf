package reporting

import (
	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
)

// Reporter renders evaluated signals to some output medium.
type Reporter interface {
	Write(outputs []*signals.Output) error
}
