package extraction

import (
	"context"
	"time"

	"github.com/horvbalint/recet/config"
)

// Fetcher returns the body of the page at url.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// TextExtractor linearizes markup into plain text. It never fails.
type TextExtractor interface {
	PlainText(html string) string
}

// Message is an extra chat turn sent after the system and user messages.
type Message struct {
	Role    string
	Content string
}

// CompletionRequest carries everything one completion call needs.
type CompletionRequest struct {
	Model      string
	Endpoint   string
	Credential string
	System     string
	User       string
	Followups  []Message
}

// Completer calls the completion service and returns the raw assistant content.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Lookup is a single fuzzy lookup of a label in a reference table.
type Lookup struct {
	Table     Table
	Name      string
	Household string
}

// Finder returns the best matching reference row, or nil when nothing matches.
type Finder interface {
	FindReference(ctx context.Context, lookup Lookup) (*Reference, error)
}

// ConfigSource yields the completion settings for one invocation.
type ConfigSource interface {
	Load() (config.CompletionConfig, error)
}

// Observer is notified of state transitions, lookups and final outcomes.
type Observer interface {
	Transition(from, to State)
	Lookup(table Table, hit bool)
	Finished(final State, kind ErrorKind, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Transition(State, State)                  {}
func (nopObserver) Lookup(Table, bool)                       {}
func (nopObserver) Finished(State, ErrorKind, time.Duration) {}

// NopFinder resolves nothing.
type NopFinder struct{}

func (NopFinder) FindReference(context.Context, Lookup) (*Reference, error) {
	return nil, nil
}
