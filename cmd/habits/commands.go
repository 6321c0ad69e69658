package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"habit-tracker/calendar"
	"habit-tracker/date"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME CATEGORY",
		Short: "Add a habit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}

			h, err := a.store.AddHabit(args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.save(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s %s\n", green("✓"), bold(h.Name), gray("("+h.Category+")"))
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits with today's status and streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			habits := a.store.Habits()
			if len(habits) == 0 {
				fmt.Fprintf(out, "%s\n", gray("No habits yet. Add one with: habits add NAME CATEGORY"))
				return nil
			}

			today := a.store.Today()
			fmt.Fprintf(out, "%s\n\n", cyan("=== Habits ("+today.String()+") ==="))
			for i, h := range habits {
				mark := gray("[ ]")
				if h.CompletedOn(today) {
					mark = green("[✓]")
				}
				fmt.Fprintf(out, "  %d. %s %s %s\n", i, mark, bold(h.Name), gray("("+h.Category+")"))
				fmt.Fprintf(out, "       streak: %s  longest: %d\n", yellow(fmt.Sprintf("%d", h.Streak())), h.LongestStreak())
			}
			return nil
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "done INDEX",
		Short: "Toggle a habit's completion for a day",
		Long:  `Mark the habit at INDEX as done for the given day, or undo it if it was already done.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if err := a.open(ctx); err != nil {
				return err
			}
			d, err := a.dateFlag(on)
			if err != nil {
				return err
			}

			completed, err := a.store.ToggleCompletion(index, d)
			if err != nil {
				return err
			}
			if err := a.save(ctx); err != nil {
				return err
			}

			h, err := a.store.Habit(index)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if completed {
				fmt.Fprintf(out, "%s %s done on %s (streak: %s)\n", green("✓"), bold(h.Name), d, yellow(fmt.Sprintf("%d", h.Streak())))
			} else {
				fmt.Fprintf(out, "%s %s not done on %s (streak: %d)\n", gray("○"), bold(h.Name), d, h.Streak())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&on, "date", "", "day to toggle, YYYY-MM-DD (default: today)")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete INDEX",
		Short: "Delete a habit and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if err := a.open(ctx); err != nil {
				return err
			}

			h, err := a.store.Habit(index)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !yes {
				fmt.Fprintf(out, "Delete %s and all of its history? [y/N]: ", bold(h.Name))
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(out, gray("Cancelled"))
					return nil
				}
			}

			if err := a.store.DeleteHabit(index); err != nil {
				return err
			}
			if err := a.save(ctx); err != nil {
				return err
			}

			fmt.Fprintf(out, "%s Deleted %s\n", green("✓"), bold(h.Name))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many habits were completed on a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			d, err := a.dateFlag(on)
			if err != nil {
				return err
			}

			stats := a.store.Stats(d)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s of %d habits completed\n", d, green(fmt.Sprintf("%d", stats.CompletedCount)), stats.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&on, "date", "", "day to summarize, YYYY-MM-DD (default: today)")
	return cmd
}

func newCalendarCmd(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month calendar, highlighting days with completions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}

			today := a.store.Today()
			m := calendar.MonthOf(today)
			if month != "" {
				var err error
				if m, err = calendar.ParseMonth(month); err != nil {
					return err
				}
			}

			renderCalendar(cmd, calendar.Build(m, today, date.Key{}, a.store))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show, YYYY-MM (default: current month)")
	return cmd
}

func renderCalendar(cmd *cobra.Command, g calendar.Grid) {
	out := cmd.OutOrStdout()
	todayStyle := color.New(color.Bold, color.Underline).SprintFunc()

	fmt.Fprintf(out, "%s\n", cyan(g.Month.Title()))
	fmt.Fprintln(out, "Su Mo Tu We Th Fr Sa")
	for _, week := range g.Weeks() {
		cells := make([]string, 0, len(week))
		for _, day := range week {
			if day == nil {
				cells = append(cells, "  ")
				continue
			}
			cell := fmt.Sprintf("%2d", day.Date.Day)
			if day.HasCompletions {
				cell = green(cell)
			}
			if day.Today {
				cell = todayStyle(cell)
			}
			cells = append(cells, cell)
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, " "), " "))
	}
}

func newDayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "day DATE",
		Short: "List the habits completed on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := date.Parse(args[0])
			if err != nil {
				return err
			}
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s\n", cyan(d.String()))
			n := 0
			for h := range a.store.CompletedOn(d) {
				n++
				fmt.Fprintf(out, "  %s %s %s\n", green("✓"), bold(h.Name), gray("("+h.Category+")"))
			}
			if n == 0 {
				fmt.Fprintf(out, "  %s\n", gray("No habits completed"))
			}
			return nil
		},
	}
}
