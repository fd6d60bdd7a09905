package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/family"
	kio "github.com/matzehuels/kintree/pkg/io"
)

// personCommand creates the person command, which edits a records file
// through the store so every relationship rule is enforced.
func (c *CLI) personCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Add or remove persons in a records file",
	}

	cmd.AddCommand(c.personAddCommand())
	cmd.AddCommand(c.personDeleteCommand())
	cmd.AddCommand(c.personLinkCommand())

	return cmd
}

func (c *CLI) personAddCommand() *cobra.Command {
	var in family.Input

	cmd := &cobra.Command{
		Use:   "add [records file]",
		Short: "Add a person",
		Long: `Add a person to a records file, creating the file if needed.

Parents, spouse and children are given by id and must name active persons.
The new person is linked on both sides of every relationship.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPersonAdd(args[0], in)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&in.LocalizedName, "local", "", "localized display name")
	cmd.Flags().StringVar(&in.Gender, "gender", "", "male or female (required)")
	cmd.Flags().StringVar(&in.BirthDate, "birth", "", "birth date as YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&in.Parents, "parent", nil, "parent id (repeatable, at most 2)")
	cmd.Flags().StringVar(&in.Spouse, "spouse", "", "spouse id")
	cmd.Flags().StringSliceVar(&in.Children, "child", nil, "child id (repeatable)")

	return cmd
}

func (c *CLI) runPersonAdd(path string, in family.Input) error {
	s, err := c.openStore(path, true)
	if err != nil {
		return err
	}

	// Known parents take part in the birth order check; unknown ids are
	// reported by the store.
	var parents []family.Person
	for _, id := range in.Parents {
		if p, err := s.GetPerson(id); err == nil {
			parents = append(parents, p)
		}
	}
	if err := in.Validate(time.Now(), parents...); err != nil {
		return err
	}

	p, err := s.CreatePerson(in.Fields(), in.Relations())
	if err != nil {
		return err
	}
	if err := kio.Export(path, s.Records()); err != nil {
		return err
	}

	c.printSuccess("Added %s", p.Name)
	c.printKeyValue("id", p.ID)
	c.printFile(path)
	return nil
}

func (c *CLI) personDeleteCommand() *cobra.Command {
	var detach bool

	cmd := &cobra.Command{
		Use:   "delete [records file] [id]",
		Short: "Deactivate a person",
		Long: `Mark a person inactive. The record and its relationships stay in the file
but the person disappears from generations and layouts. With --detach, the
person's parent, child and spouse links are removed as well.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPersonDelete(args[0], args[1], detach)
		},
	}
	cmd.Flags().BoolVar(&detach, "detach", false, "also remove all relationship links")
	return cmd
}

func (c *CLI) runPersonDelete(path, id string, detach bool) error {
	s, err := c.openStore(path, false)
	if err != nil {
		return err
	}
	if err := s.SoftDeletePerson(id); err != nil {
		return err
	}
	if detach {
		if err := s.DetachPerson(id); err != nil {
			return err
		}
	}
	if err := kio.Export(path, s.Records()); err != nil {
		return err
	}

	c.printSuccess("Deactivated %s", id)
	if detach {
		c.printDetail("relationship links removed")
	}
	return nil
}

func (c *CLI) personLinkCommand() *cobra.Command {
	var spouse, unlink bool

	cmd := &cobra.Command{
		Use:   "link [records file] [child id] [parent id]",
		Short: "Link a child to a parent, or two spouses with --spouse",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPersonLink(args[0], args[1], args[2], spouse, unlink)
		},
	}
	cmd.Flags().BoolVar(&spouse, "spouse", false, "link the two persons as spouses")
	cmd.Flags().BoolVar(&unlink, "remove", false, "remove the parent link instead of adding it")
	return cmd
}

func (c *CLI) runPersonLink(path, a, b string, spouse, unlink bool) error {
	s, err := c.openStore(path, false)
	if err != nil {
		return err
	}
	rev := s.Revision()

	switch {
	case spouse:
		err = s.SetSpouse(a, b)
	case unlink:
		err = s.RemoveParent(a, b)
	default:
		err = s.AddParent(a, b)
	}
	if err != nil {
		return err
	}
	if s.Revision() == rev {
		c.printWarning("Nothing changed")
		return nil
	}
	if err := kio.Export(path, s.Records()); err != nil {
		return err
	}
	c.printSuccess("Updated %s", path)
	return nil
}
