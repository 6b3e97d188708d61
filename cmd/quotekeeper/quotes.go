package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/render/term"
	"github.com/jsamuelsen/quote-keeper/internal/app"
	"github.com/jsamuelsen/quote-keeper/internal/view"
)

// errReported is returned when the printed page already shows the failure.
var errReported = errors.New("action failed")

// Elements of the headless page each command builds. A command only gets the
// elements its action needs.
var (
	listElements = []string{
		view.ElementQuotes,
		view.ElementStatus,
		view.ElementFilterAuthor,
		view.ElementFilterTag,
		view.ElementFilterButton,
	}
	addElements    = []string{view.ElementQuotes, view.ElementStatus, view.ElementAddForm}
	deleteElements = []string{view.ElementQuotes, view.ElementStatus}
	randomElements = []string{view.ElementQuotes, view.ElementStatus, view.ElementRandomButton}
	showElements   = []string{view.ElementQuotes, view.ElementStatus}
)

func newListCmd(opts *options) *cobra.Command {
	var filter app.FilterEvent

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes, optionally filtered by author or tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("author") && !flags.Changed("tag") {
				return runAction(cmd, opts, listElements, app.LoadEvent{})
			}

			return runAction(cmd, opts, listElements, filter)
		},
	}

	cmd.Flags().StringVar(&filter.Author, "author", "", "only quotes by this exact author")
	cmd.Flags().StringVar(&filter.Tag, "tag", "", "only quotes carrying this tag")

	return cmd
}

func newAddCmd(opts *options) *cobra.Command {
	var submit app.SubmitEvent

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a quote and list all quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAction(cmd, opts, addElements, submit)
		},
	}

	cmd.Flags().StringVar(&submit.Text, "text", "", "quote text")
	cmd.Flags().StringVar(&submit.Author, "author", "", "quote author")
	cmd.Flags().StringVar(&submit.Tags, "tags", "", "comma-separated tags")

	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a quote and list the remaining ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return runAction(cmd, opts, deleteElements, app.DeleteEvent{ID: id})
		},
	}
}

func newRandomCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Show a random quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAction(cmd, opts, randomElements, app.RandomEvent{})
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return runAction(cmd, opts, showElements, app.ShowEvent{ID: id})
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid quote id %q: must be a positive integer", arg)
	}

	return id, nil
}

// runAction dispatches event on a headless page holding elements and prints
// the page. It returns errReported when the page shows a failure. A create
// whose refresh failed still succeeded; the process exits before the
// background refresh would run.
func runAction(cmd *cobra.Command, opts *options, elements []string, event app.Event) error {
	d, err := opts.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	doc := view.New(elements...)

	ctrl := d.newController(doc, nil)
	defer ctrl.Close()

	// Failures land on the page and are checked below.
	_ = ctrl.Dispatch(cmd.Context(), event)

	page := doc.Snapshot()
	alerts := doc.TakeAlerts()

	if err := term.New(cmd.OutOrStdout()).Print(page, alerts); err != nil {
		return err
	}

	status := page.StatusText()
	if (app.IsFailureStatus(status) && !app.IsRefreshFailureStatus(status)) || len(alerts) > 0 {
		return errReported
	}

	return nil
}
