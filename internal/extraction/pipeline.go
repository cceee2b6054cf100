package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avast/retry-go/v4"
)

// State is a step of the extraction state machine.
type State string

const (
	StateIdle           State = "idle"
	StateFetching       State = "fetching"
	StateTextExtracting State = "text_extracting"
	StatePromptBuilding State = "prompt_building"
	StateCompleting     State = "completing"
	StateParsing        State = "parsing"
	StateResolving      State = "resolving"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Input is one extraction request.
type Input struct {
	URL string
	// Household scopes reference lookups; empty means global rows only.
	Household string
}

// Options tunes a Pipeline. The zero value is usable.
type Options struct {
	Logger   *slog.Logger
	Observer Observer
	// SchemaRetries is the number of extra completion attempts made after a
	// SchemaError. Zero means a single completion call.
	SchemaRetries int
}

// Pipeline sequences fetch, text extraction, prompting, completion, parsing and
// resolution for a single URL.
type Pipeline struct {
	config    ConfigSource
	fetcher   Fetcher
	text      TextExtractor
	completer Completer
	resolver  *Resolver
	logger    *slog.Logger
	observer  Observer
	retries   int
}

// NewPipeline wires the collaborators into a Pipeline.
func NewPipeline(config ConfigSource, fetcher Fetcher, text TextExtractor, completer Completer, resolver *Resolver, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	if resolver == nil {
		resolver = NewResolver(NopFinder{}, logger, observer, DefaultConcurrency)
	}
	retries := opts.SchemaRetries
	if retries < 0 {
		retries = 0
	}
	return &Pipeline{
		config:    config,
		fetcher:   fetcher,
		text:      text,
		completer: completer,
		resolver:  resolver,
		logger:    logger,
		observer:  observer,
		retries:   retries,
	}
}

// run tracks the state of one invocation.
type run struct {
	state    State
	started  time.Time
	logger   *slog.Logger
	observer Observer
}

func (r *run) transition(to State) {
	from := r.state
	r.state = to
	r.observer.Transition(from, to)
	r.logger.Debug("extraction state", "from", string(from), "to", string(to))
}

func (r *run) fail(kind ErrorKind, err error) *PipelineError {
	perr := newPipelineError(kind, r.state, err)
	r.transition(StateFailed)
	r.observer.Finished(StateFailed, kind, time.Since(r.started))
	r.logger.Warn("extraction failed", "state", string(perr.State), "kind", string(kind), "error", err)
	return perr
}

// ExtractRecipe runs the whole pipeline for in.URL. It returns either the
// resolved record or a *PipelineError, never both.
func (p *Pipeline) ExtractRecipe(ctx context.Context, in Input) (*RecipeExtraction, error) {
	r := &run{
		state:    StateIdle,
		started:  time.Now(),
		logger:   p.logger.With("url", in.URL),
		observer: p.observer,
	}

	cfg, err := p.config.Load()
	if err != nil {
		return nil, r.fail(KindConfig, err)
	}

	r.transition(StateFetching)
	if strings.TrimSpace(in.URL) == "" {
		return nil, r.fail(KindFetch, errors.New("url is empty"))
	}
	html, err := p.fetcher.FetchText(ctx, in.URL)
	if err != nil {
		return nil, r.fail(KindFetch, err)
	}

	r.transition(StateTextExtracting)
	pageText := p.text.PlainText(html)
	if strings.TrimSpace(pageText) == "" {
		return nil, r.fail(KindTextExtraction, errors.New("no visible text on page"))
	}

	r.transition(StatePromptBuilding)
	prompt := BuildPrompt(pageText, cfg.Model)

	rec, perr := p.completeAndParse(ctx, r, CompletionRequest{
		Model:      prompt.Model,
		Endpoint:   cfg.BaseURL,
		Credential: cfg.Token,
		System:     prompt.System,
		User:       prompt.User,
	})
	if perr != nil {
		return nil, perr
	}

	r.transition(StateResolving)
	p.resolver.Resolve(ctx, rec, in.Household)

	r.transition(StateDone)
	r.observer.Finished(StateDone, "", time.Since(r.started))
	portions := ""
	if rec.Portions != nil {
		portions = rec.Portions.String()
	}
	r.logger.Info("recipe extracted",
		"portions", portions,
		"ingredients", len(rec.Ingredients),
		"steps", len(rec.Steps),
		"elapsed", time.Since(r.started),
	)
	return rec, nil
}

// completeAndParse runs Completing and Parsing, re-prompting on SchemaError up
// to p.retries extra times. Completion failures are never retried.
func (p *Pipeline) completeAndParse(ctx context.Context, r *run, req CompletionRequest) (*RecipeExtraction, *PipelineError) {
	var (
		rec  *RecipeExtraction
		kind ErrorKind
	)

	r.transition(StateCompleting)
	err := retry.Do(
		func() error {
			raw, err := p.completer.Complete(ctx, req)
			if err != nil {
				kind = KindCompletion
				return err
			}

			r.transition(StateParsing)
			parsed, generation, err := ParseCompletion(raw)
			if err != nil {
				kind = KindSchema
				r.logger.Debug("completion rejected", "raw", raw, "error", err)
				req.Followups = repairTurns(raw, err)
				return err
			}
			r.logger.Debug("completion parsed", "generation", generation.String())
			rec = parsed
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(p.retries+1)),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se *SchemaError
			return errors.As(err, &se)
		}),
		retry.OnRetry(func(n uint, err error) {
			// Also invoked after the final attempt.
			if int(n) >= p.retries {
				return
			}
			r.logger.Info("re-prompting after invalid completion", "attempt", n+2, "error", err)
			r.transition(StateCompleting)
		}),
	)
	if err == nil {
		return rec, nil
	}

	if kind == "" {
		kind = KindCompletion
	}
	return nil, r.fail(kind, err)
}

const maxRepairEcho = 12000

// repairTurns builds the follow-up messages that show the model its previous
// answer and why it was rejected.
func repairTurns(lastOutput string, issue error) []Message {
	lastOutput = strings.TrimSpace(lastOutput)
	if len(lastOutput) > maxRepairEcho {
		cut := maxRepairEcho
		for cut > 0 && !utf8.RuneStart(lastOutput[cut]) {
			cut--
		}
		lastOutput = lastOutput[:cut] + "\n...[truncated]"
	}
	return []Message{
		{Role: "assistant", Content: lastOutput},
		{Role: "user", Content: fmt.Sprintf(
			"Your previous output was rejected: %v\nReturn ONLY the corrected JSON object matching the schema, with no markdown or commentary.",
			issue,
		)},
	}
}
