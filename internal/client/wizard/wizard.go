// Package wizard drives the five-step "new report" form.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"regexp"
	"strings"

	"github.com/myreport/reportcycle/internal/client/api"
)

// Steps is the number of wizard steps.
const Steps = 5

var (
	// ErrLeftWizard is returned by Back on the first step; the caller
	// navigates away from the wizard.
	ErrLeftWizard = errors.New("left the wizard")

	ErrTitleRequired    = errors.New("title is required")
	ErrCategoryRequired = errors.New("category is required")
)

// suggestPattern matches a title that ends in whitespace after at least one
// word: the user just finished typing a word.
var suggestPattern = regexp.MustCompile(`^\s*(\w+\s+)*\w+\s+$`)

// Fields holds the values entered on one step.
type Fields map[string]string

// Data holds every step's fields, keyed "step1" to "step5".
type Data map[string]Fields

// CategoryProvider looks up ticket categories, normally the core service.
type CategoryProvider interface {
	TicketCategories(ctx context.Context, token string, q api.CategoryQuery) ([]api.TicketCategory, error)
}

type Wizard struct {
	step       int
	data       Data
	categories CategoryProvider
}

// New starts the wizard at step (zero based). Out-of-range steps start at
// the beginning.
func New(step int, categories CategoryProvider) *Wizard {
	if step < 0 || step >= Steps {
		step = 0
	}
	return &Wizard{step: step, data: Data{}, categories: categories}
}

// StepFromPath converts the one-based step number of a /new-ticket/<n> path
// into a zero-based step, falling back to the first step.
func StepFromPath(n int) int {
	if n < 1 || n > Steps {
		return 0
	}
	return n - 1
}

// Path renders the location of the current step.
func (w *Wizard) Path(title string) string {
	p := fmt.Sprintf("/new-ticket/%d", w.step+1)
	if title != "" {
		p += "?title=" + url.QueryEscape(title)
	}
	return p
}

func (w *Wizard) Step() int { return w.step }

func (w *Wizard) Last() bool { return w.step == Steps-1 }

func stepKey(step int) string {
	return fmt.Sprintf("step%d", step+1)
}

// Fields returns a copy of what was entered on the current step.
func (w *Wizard) Fields() Fields {
	return maps.Clone(w.data[stepKey(w.step)])
}

// Data returns a copy of everything entered so far.
func (w *Wizard) Data() Data {
	out := make(Data, len(w.data))
	for k, v := range w.data {
		out[k] = maps.Clone(v)
	}
	return out
}

func (w *Wizard) check(f Fields) error {
	if w.step != 0 {
		return nil
	}
	var errs []error
	if strings.TrimSpace(f["title"]) == "" {
		errs = append(errs, ErrTitleRequired)
	}
	if f["categoryId"] == "" {
		errs = append(errs, ErrCategoryRequired)
	}
	return errors.Join(errs...)
}

// Next stores the step's fields and moves forward. The last step stays
// where it is.
func (w *Wizard) Next(f Fields) error {
	if err := w.check(f); err != nil {
		return err
	}
	w.data[stepKey(w.step)] = maps.Clone(f)
	if w.step < Steps-1 {
		w.step++
	}
	return nil
}

func (w *Wizard) Back() error {
	if w.step == 0 {
		return ErrLeftWizard
	}
	w.step--
	return nil
}

// Submit stores the final step's fields and returns the merged data.
func (w *Wizard) Submit(f Fields) (Data, error) {
	if err := w.check(f); err != nil {
		return nil, err
	}
	w.data[stepKey(w.step)] = maps.Clone(f)
	return w.Data(), nil
}

// ShouldSuggestCategories reports whether title has reached a point where
// categories are worth looking up.
func ShouldSuggestCategories(title string) bool {
	return suggestPattern.MatchString(title)
}

// SuggestCategories looks up categories for title, or returns nil when the
// title is not ready for a lookup.
func (w *Wizard) SuggestCategories(ctx context.Context, token, title string) ([]api.TicketCategory, error) {
	if w.categories == nil || !ShouldSuggestCategories(title) {
		return nil, nil
	}
	return w.categories.TicketCategories(ctx, token, api.CategoryQuery{TicketTitle: title})
}
