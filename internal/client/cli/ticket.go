package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/myreport/reportcycle/internal/client/wizard"
)

var getMultiline = GetMultiline

// Ticket walks through the new-report wizard. Typing "back" on any step
// returns to the previous one; on the first step it leaves the wizard.
func (a *App) Ticket(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please sign in first.")
		return nil
	}
	w := wizard.New(0, a.categories)

	for {
		printlnFn(fmt.Sprintf("Step %d of %d (%s)", w.Step()+1, wizard.Steps, w.Path("")))

		var (
			fields wizard.Fields
			back   bool
			err    error
		)
		if w.Step() == 0 {
			fields, back, err = a.ticketStep1(ctx, w)
		} else {
			fields, back, err = a.ticketStep(w)
		}
		if err != nil {
			return err
		}

		if back {
			if err := w.Back(); errors.Is(err, wizard.ErrLeftWizard) {
				printlnFn("Report discarded.")
				return nil
			}
			continue
		}

		if w.Last() {
			data, err := w.Submit(fields)
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(data, "", "  ")
			printlnFn("Submitted data:")
			printlnFn(string(out))
			return nil
		}
		if err := w.Next(fields); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func (a *App) ticketStep1(ctx context.Context, w *wizard.Wizard) (wizard.Fields, bool, error) {
	title, err := getSimpleText(a.reader, "Title (give a title that explains the issue the best)", a.out)
	if err != nil || title == "back" {
		return nil, title == "back", err
	}

	token := ""
	if cur := a.sessions.Current(); cur != nil {
		token = cur.Token
	}
	// The title is complete once entered, which is when a trailing space
	// would trigger the lookup while typing.
	cats, err := w.SuggestCategories(ctx, token, title+" ")
	if err != nil {
		return nil, false, err
	}
	if len(cats) == 0 {
		printlnFn("No categories match this title.")
		return wizard.Fields{"title": title}, false, nil
	}

	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.TicketCategoryName
	}
	i, err := getChoice(a.reader, "Category", names, a.out)
	if err != nil {
		return nil, false, err
	}
	f := wizard.Fields{"title": title}
	if i >= 0 {
		f["categoryId"] = strconv.FormatInt(cats[i].TicketCategoryID, 10)
	}
	return f, false, nil
}

func (a *App) ticketStep(w *wizard.Wizard) (wizard.Fields, bool, error) {
	prev := w.Fields()["field1"]
	text, err := getMultiline(a.reader, fmt.Sprintf("Details [%s] (type back to return)", prev), a.out)
	if err != nil || text == "back" {
		return nil, text == "back", err
	}
	if text == "" {
		text = prev
	}
	return wizard.Fields{"field1": text}, false, nil
}
