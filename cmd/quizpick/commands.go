package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/quizpick/internal/category"
	"github.com/verte-zerg/quizpick/internal/quiz"
	"github.com/verte-zerg/quizpick/internal/render"
)

var selectedAnswers bool

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with their requested counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				return render.Categories(cmd.OutOrStdout(), a.session.Selection.All())
			})
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <count>",
		Short: fmt.Sprintf("Set how many questions to fetch for a category (0-%d)", category.MaxCount),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := resolveCategory(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				if err := a.session.Selection.SetCountString(cmd.Context(), name, args[1]); err != nil {
					return fmt.Errorf("failed to set count: %w", err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d (total %d)\n",
					name, a.session.Selection.Count(name), a.session.Selection.Total())
				return err
			})
		},
	}
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Fetch new questions for the selected categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.session.Selection.Validate(); err != nil {
					logErrln(quiz.UserMessage(err))
				}
				qs, err := a.session.Fetcher.GenerateQuiz(cmd.Context())
				if err != nil {
					a.log.Error("quiz generation failed", zap.Error(err))
					return fmt.Errorf("%s", quiz.UserMessage(err))
				}
				return render.Questions(cmd.OutOrStdout(), qs, a.session.Curator.IsSelected, listOptions(cmd, false))
			})
		},
	}
}

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Show the current question set (* marks selected)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				return render.Questions(cmd.OutOrStdout(), a.session.Fetcher.Questions(), a.session.Curator.IsSelected, listOptions(cmd, false))
			})
		},
	}
}

func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <n>",
		Short: "Add or remove the n-th current question from the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid question number %q", args[0])
			}
			return withApp(cmd, func(a *app) error {
				qs := a.session.Fetcher.Questions()
				if n < 1 || n > len(qs) {
					return fmt.Errorf("question number must be between 1 and %d", len(qs))
				}
				q := qs[n-1]
				selected, err := a.session.Curator.Toggle(cmd.Context(), q)
				if err != nil {
					return fmt.Errorf("failed to toggle question: %w", err)
				}
				verb := "Removed"
				if selected {
					verb = "Selected"
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verb, render.PlainText(q.Question))
				return err
			})
		},
	}
}

func newSelectedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selected",
		Short: "Show the curated question set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				return render.Questions(cmd.OutOrStdout(), a.session.Curator.Selected(), nil, listOptions(cmd, selectedAnswers))
			})
		},
	}
	cmd.Flags().BoolVar(&selectedAnswers, "answers", false, "show correct answers")
	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "reset questions|history|selected",
		Short:     "Clear questions (and counts), history or the selection",
		ValidArgs: []string{"questions", "history", "selected"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				ctx := cmd.Context()
				var err error
				switch args[0] {
				case "questions":
					err = a.session.Fetcher.ResetQuestions(ctx)
				case "history":
					err = a.session.Fetcher.ResetHistory(ctx)
				case "selected":
					err = a.session.Curator.Reset(ctx)
				}
				if err != nil {
					return fmt.Errorf("failed to reset %s: %w", args[0], err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Reset %s.\n", args[0])
				return err
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show totals for counts, history and selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				return render.Status(cmd.OutOrStdout(), a.session.Status())
			})
		},
	}
}

func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func listOptions(cmd *cobra.Command, answers bool) render.Options {
	out := cmd.OutOrStdout()
	return render.Options{
		Width:       render.TerminalWidth(out),
		Color:       render.ShouldUseColor(out),
		ShowAnswers: answers,
	}
}

// resolveCategory matches name case-insensitively against the category table.
func resolveCategory(name string) (string, error) {
	if c, ok := category.Lookup(name); ok {
		return c.Name, nil
	}
	for _, c := range category.All() {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c.Name, nil
		}
	}
	return "", fmt.Errorf("%w %q (known: %s)", quiz.ErrUnknownCategory, name, strings.Join(category.Names(), ", "))
}
