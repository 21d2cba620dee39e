package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"openconvert/internal/render"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the stored queue",
	}

	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored queue after reconciliation",
		Long: "Loads the stored queue and reconciles it against the live session. " +
			"Entries whose file contents did not survive the previous session are " +
			"pruned, exactly as on activation before a conversion run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), nil, func(s *session) error {
				stored := s.codec.Load(cmd.Context())

				out := cmd.OutOrStdout()
				if len(stored) == 0 {
					fmt.Fprintln(out, "The queue is empty.")
					return nil
				}

				s.engine.Activate(cmd.Context())
				view := render.Build(snapshotOf(s.engine), s.catalog)
				if len(view.Rows) == 0 {
					fmt.Fprintf(out, "Pruned %d stored entr%s without surviving file contents; the queue is now empty.\n",
						len(stored), pluralY(len(stored)))
					return nil
				}
				fmt.Fprintln(out, renderQueueView(view))
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored queue entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), nil, func(s *session) error {
				stored := s.codec.Load(cmd.Context())
				s.codec.Clear(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entr%s.\n", len(stored), pluralY(len(stored)))
				return nil
			})
		},
	}
}

func pluralY(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
