package main

import (
	"fmt"

	"go.uber.org/zap"
)

func pruneCmd() *Command {
	return &Command{
		Flags: newFlagSet("prune"),
		Usage: "prune",
		Short: "Remove completion marks of deleted habits",
		Long: `DESCRIPTION:
    Deleting a habit keeps its completion history so the delete can be
    undone. prune drops the marks that no longer belong to any habit.
    Take a backup first if you may want them back.
`,
		Exec: func(o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			s, err := openSession(o)
			if err != nil {
				return err
			}
			defer s.Close()

			removed, err := s.store.PruneCompletions()
			if err != nil {
				return fmt.Errorf("pruning completions: %w", err)
			}
			s.logger.Info("pruned completions", zap.Int("removed", removed))

			if removed == 0 {
				o.Println("Nothing to prune.")
				return nil
			}
			o.Printf("✓ Removed %d stale completion marks\n", removed)
			return nil
		},
	}
}
