package tui

import "time"

const quoteInterval = 30 * time.Second

var quotes = []string{
	"Stay focused and achieve your goals!",
	"Consistency is key to success.",
	"Every study session brings you closer to mastery.",
	"You're capable of amazing things.",
	"Small progress is still progress.",
	"Your future self will thank you for this.",
	"Stay disciplined when motivation fades.",
	"Quality over quantity in every session.",
	"You're building a brighter future.",
	"Challenges are opportunities for growth.",
}

// motivation is the rotating quote shown under the status line. Each model
// owns its own index.
type motivation struct {
	index int
}

func (m motivation) Quote() string { return quotes[m.index%len(quotes)] }

func (m motivation) next() motivation {
	return motivation{index: (m.index + 1) % len(quotes)}
}
