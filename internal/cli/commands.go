package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tododash/internal/chart"
	"github.com/idilsaglam/tododash/internal/model"
	"github.com/idilsaglam/tododash/internal/ui"
	"github.com/idilsaglam/tododash/internal/view"
)

func newListCmd(app *App) *cobra.Command {
	var asJSON, pretty bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := app.controller(app.logger(cmd.ErrOrStderr()), nil)
			if err != nil {
				return err
			}
			if err := ctrl.LoadTodos(cmd.Context()); err != nil {
				return err
			}
			todos := ctrl.Store().DisplayTodos()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), todos, pretty)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Panel(listLines(todos, time.Now())))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	d := model.DefaultDraft()
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a todo (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Title = strings.Join(args, " ")
			ctrl, _, err := app.controller(app.logger(cmd.ErrOrStderr()), nil)
			if err != nil {
				return err
			}
			if err := ctrl.CreateTodo(cmd.Context(), d); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		},
	}
	cmd.Flags().StringVarP(&d.Category, "category", "c", d.Category, "Category")
	cmd.Flags().IntVarP(&d.Priority, "priority", "p", d.Priority, "Priority (1 low, 2 medium, 3 high)")
	return cmd
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Toggle done for the todo with the given id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := app.controller(app.logger(cmd.ErrOrStderr()), nil)
			if err != nil {
				return err
			}
			if err := ctrl.ToggleTodo(cmd.Context(), args[0]); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "toggled")
			return nil
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion and per-category charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			term := chart.NewTerminal(width)
			ctrl, board, err := app.controller(app.logger(cmd.ErrOrStderr()), term)
			if err != nil {
				return err
			}
			defer board.Close()

			if err := ctrl.LoadAnalytics(cmd.Context()); err != nil {
				return err
			}
			a := ctrl.Store().Analytics()
			th := ui.Current()
			lines := []string{
				th.Title.Render("Completion"),
				term.View(chart.TargetCompletion),
				"",
				th.Title.Render("Tasks per Category"),
				term.View(chart.TargetCategory),
				"",
				th.Muted.Render(fmt.Sprintf("completion rate %.1f%%  average time %.1fh  total %d",
					a.CompletionRate, a.AverageTime, a.TotalTodos)),
				th.Muted.Render(priorityLine(a.PriorityCounts)),
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Panel(lines))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 40, "Chart width in cells")
	return cmd
}

// listLines is the header, progress bar and one row per todo.
func listLines(todos []model.Todo, now time.Time) []string {
	th := ui.Current()
	done, pending := view.Stats(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), done,
		th.Pend.Render(th.SymPending), pending,
		th.Accent.Render("Total"), len(todos),
	)

	lines := []string{header, th.Muted.Render(ui.ProgressBar(done, done+pending, 28)), ""}
	if len(todos) == 0 {
		lines = append(lines, th.Muted.Render("no todos"))
	}
	for i, t := range todos {
		box, title := th.Muted.Render(th.BoxUnchecked), ui.Truncate(t.Title, 60)
		if t.Done {
			box, title = th.Success.Render(th.BoxChecked), th.Done.Render(title)
		}
		meta := "[" + model.PriorityLabel(t.Priority) + "] " + t.Category
		if !t.CreatedAt.IsZero() {
			meta += " · " + humanize.RelTime(t.CreatedAt, now, "ago", "from now") +
				" · " + model.FormatDate(t.CreatedAt)
		}
		if t.Done && t.DoneAt != nil {
			meta += " · done " + model.FormatDate(*t.DoneAt)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s  %s  %s",
			th.Help.Render(fmt.Sprintf("%2d.", i+1)), box, title,
			th.Muted.Render(meta), th.Muted.Render(t.ID)))
	}
	lines = append(lines, "", th.Muted.Render("Tip: toggle with `todo toggle <id>`"))
	return lines
}

// priorityLine lists todos per priority, lowest priority first.
func priorityLine(counts map[int]int) string {
	parts := []string{"by priority"}
	for _, p := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s %d", model.PriorityLabel(p), counts[p]))
	}
	if len(parts) == 1 {
		parts = append(parts, "none")
	}
	return strings.Join(parts, "  ")
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
