package extraction

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultConcurrency bounds parallel lookups when no limit is configured.
const DefaultConcurrency = 4

// Resolver maps freeform labels onto reference rows. Lookup failures never
// propagate; a failed or empty lookup leaves the reference absent.
type Resolver struct {
	finder      Finder
	logger      *slog.Logger
	observer    Observer
	concurrency int
}

// NewResolver creates a resolver. A nil logger or observer is replaced with a
// no-op, and a non-positive concurrency falls back to DefaultConcurrency.
func NewResolver(finder Finder, logger *slog.Logger, observer Observer, concurrency int) *Resolver {
	if finder == nil {
		finder = NopFinder{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Resolver{finder: finder, logger: logger, observer: observer, concurrency: concurrency}
}

// normalizeLabel trims and case-folds a label for lookup.
func normalizeLabel(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// ResolveOne looks up a single label. Blank labels return nil without a lookup.
func (r *Resolver) ResolveOne(ctx context.Context, lookup Lookup) *Reference {
	name := normalizeLabel(lookup.Name)
	if name == "" {
		return nil
	}
	lookup.Name = name

	ref, err := r.finder.FindReference(ctx, lookup)
	if err != nil {
		r.logger.Warn("reference lookup failed",
			"table", string(lookup.Table),
			"label", name,
			"error", err,
		)
		r.observer.Lookup(lookup.Table, false)
		return nil
	}
	if ref == nil {
		r.logger.Debug("no reference matched", "table", string(lookup.Table), "label", name)
		r.observer.Lookup(lookup.Table, false)
		return nil
	}
	r.observer.Lookup(lookup.Table, true)
	out := *ref
	if out.Table == "" {
		out.Table = lookup.Table
	}
	return &out
}

// ResolveMany resolves labels against one table and returns the hits in input
// order. Misses are dropped, so the result may be shorter than labels.
func (r *Resolver) ResolveMany(ctx context.Context, table Table, labels []string, household string) []Reference {
	tasks, collect := r.manyTasks(table, labels, household)
	r.run(ctx, tasks)
	return collect()
}

// manyTasks returns one lookup task per label and a collect func that, once the
// tasks have run, yields the hits in label order.
func (r *Resolver) manyTasks(table Table, labels []string, household string) ([]func(context.Context), func() []Reference) {
	found := make([]*Reference, len(labels))
	tasks := make([]func(context.Context), len(labels))
	for i, l := range labels {
		tasks[i] = func(ctx context.Context) {
			found[i] = r.ResolveOne(ctx, Lookup{Table: table, Name: l, Household: household})
		}
	}
	return tasks, func() []Reference { return compact(found) }
}

// Resolve attaches references for every label in rec, in place.
func (r *Resolver) Resolve(ctx context.Context, rec *RecipeExtraction, household string) {
	if rec == nil {
		return
	}

	var tasks []func(context.Context)
	for i := range rec.Ingredients {
		ing := &rec.Ingredients[i]
		ing.Ingredient, ing.Unit = nil, nil
		tasks = append(tasks, func(ctx context.Context) {
			ing.Ingredient = r.ResolveOne(ctx, Lookup{Table: TableIngredient, Name: ing.Name, Household: household})
		})
		if ing.UnitLabel != nil {
			unitLabel := *ing.UnitLabel
			tasks = append(tasks, func(ctx context.Context) {
				ing.Unit = r.ResolveOne(ctx, Lookup{Table: TableUnit, Name: unitLabel, Household: household})
			})
		}
	}

	rec.Cuisine = nil
	if rec.CuisineLabel != nil {
		cuisineLabel := *rec.CuisineLabel
		tasks = append(tasks, func(ctx context.Context) {
			rec.Cuisine = r.ResolveOne(ctx, Lookup{Table: TableCuisine, Name: cuisineLabel, Household: household})
		})
	}

	tagTasks, collectTags := r.manyTasks(TableTag, rec.TagLabels, household)
	mealTasks, collectMeals := r.manyTasks(TableMeal, rec.MealLabels, household)
	tasks = append(tasks, tagTasks...)
	tasks = append(tasks, mealTasks...)

	r.run(ctx, tasks)

	rec.Tags = collectTags()
	rec.Meals = collectMeals()
}

func (r *Resolver) run(ctx context.Context, tasks []func(context.Context)) {
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, task := range tasks {
		g.Go(func() error {
			task(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

func compact(refs []*Reference) []Reference {
	out := make([]Reference, 0, len(refs))
	for _, ref := range refs {
		if ref != nil {
			out = append(out, *ref)
		}
	}
	return out
}
