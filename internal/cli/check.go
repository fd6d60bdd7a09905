package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/generation"
	"github.com/matzehuels/kintree/pkg/layout"
)

// checkCommand creates the check command, which audits a records file.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [records file]",
		Short: "Verify that a records file forms a consistent family graph",
		Long: `Load a records file (JSON or YAML) and verify every relationship rule:
mirrored parent/child and spouse links, at most two parents of opposite
genders, and no person among their own ancestors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runCheck(ctx context.Context, path string) error {
	s, err := c.openStore(path, false)
	if err == nil {
		err = s.Verify()
	}
	if err != nil {
		c.printError("%s failed verification", path)
		c.printDetail("%s", errors.UserMessage(err))
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	v := s.GraphView()
	levels := generation.Resolve(v)
	rows := layout.Rows(v, levels)

	c.printSuccess("%s is consistent", path)
	c.printKeyValue("persons", fmt.Sprintf("%d active, %d total", v.Len(), s.Len()))
	c.printKeyValue("edges", fmt.Sprint(len(v.Edges())))
	c.printKeyValue("roots", fmt.Sprint(len(v.Roots())))
	c.printKeyValue("generations", fmt.Sprint(generation.Depth(levels)))
	c.printKeyValue("crossings", fmt.Sprint(layout.Crossings(v, rows)))
	return nil
}
