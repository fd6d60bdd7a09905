package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// generationsCommand creates the generations command.
func (c *CLI) generationsCommand() *cobra.Command {
	var ids bool

	cmd := &cobra.Command{
		Use:   "generations [records file]",
		Short: "Print the generation of every active person",
		Long: `Resolve generations for a records file. Persons without parents are
generation 0; everyone else is one more than the closest generation that
reaches them. Rows are printed in layout order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerations(cmd.Context(), args[0], ids)
		},
	}
	cmd.Flags().BoolVar(&ids, "ids", false, "print person ids instead of names")
	return cmd
}

func (c *CLI) runGenerations(ctx context.Context, path string, ids bool) error {
	s, err := c.openStore(path, false)
	if err != nil {
		return err
	}
	svc, closeFn, err := c.newService(ctx, s, true)
	if err != nil {
		return err
	}
	defer closeFn()

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, len(snap.Rows))
	for g, row := range snap.Rows {
		for _, id := range row {
			label := id
			if !ids {
				label = snap.View.Node(id).Person.Name
			}
			rows[g] = append(rows[g], label)
		}
	}

	if len(rows) == 0 {
		c.printInfo("No active persons")
		return nil
	}
	fmt.Fprintln(c.out, generationTable(rows))
	return nil
}
