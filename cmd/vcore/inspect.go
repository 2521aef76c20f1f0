package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/funvibe/vcore/internal/value"
)

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect file",
		Short: "Describe a value: kind, storage, length, completeness and attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.loadFile(args[0])
			if err != nil {
				return err
			}
			c.describe(v)
			return nil
		},
	}
}

func (c *cli) describe(v value.Value) {
	c.out.field("type", v.Type())
	if vec, ok := v.(*value.Vector); ok {
		c.out.field("storage", vec.Storage())
		c.out.field("length", vec.Len())
		c.out.field("complete", vec.IsComplete())
		if keys := vec.Attributes().Keys(); len(keys) > 0 {
			c.out.field("attrs", strings.Join(keys, ", "))
		}
	}
	c.out.value(v)
}
