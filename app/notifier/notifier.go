package notifier

import (
	"fmt"

	"github.com/lysyi3m/nga-monitor/app/crawler"
)

const (
	threadURLFormat  = "https://nga.178.com/read.php?tid=%d&page=%d#pid%dAnchor"
	maxContentLength = 200
)

// Event is the ephemeral payload handed to every sink. It is derived from a
// post, never persisted and never retried.
type Event struct {
	Title   string
	Message string
	URL     string
	Group   string
}

// Sink delivers one event. Send reports success; failures are the sink's own
// concern and must never propagate.
type Sink interface {
	Name() string
	Send(event Event) bool
}

// NewEvent builds the notification payload for a post.
func NewEvent(post crawler.Post) Event {
	text := PlainText(post.Content)
	if len([]rune(text)) > maxContentLength {
		text = string([]rune(text)[:maxContentLength])
	}

	return Event{
		Title:   "New Post: " + post.ThreadTitle,
		Message: fmt.Sprintf("%s (#%d):\n%s...", post.Author.Name, post.PostNumber, text),
		URL:     fmt.Sprintf(threadURLFormat, post.TID, post.Page, post.PID),
	}
}
