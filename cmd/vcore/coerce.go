package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type coerceFlags struct {
	to         string
	names      bool
	dims       bool
	attributes bool
	reuse      bool
	out        string
}

func newCoerceCmd(c *cli) *cobra.Command {
	f := &coerceFlags{}
	cmd := &cobra.Command{
		Use:   "coerce --to TYPE file",
		Short: "Coerce a value to a vector type",
		Long:  `Coerce loads a value file and prints it converted to TYPE, reporting coercion warnings on stderr.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCoerce(cmd, f, args[0])
		},
	}
	cmd.Flags().StringVar(&f.to, "to", "", "target type (logical|integer|double|complex|character|raw|list|expression)")
	cmd.Flags().BoolVar(&f.names, "keep-names", false, "keep the names attribute")
	cmd.Flags().BoolVar(&f.dims, "keep-dim", false, "keep dim and dimnames")
	cmd.Flags().BoolVar(&f.attributes, "keep-attributes", false, "keep every attribute")
	cmd.Flags().BoolVar(&f.reuse, "reuse", false, "allow in-place reuse and lazy views")
	cmd.Flags().StringVarP(&f.out, "output", "o", "", "also write the result as a snapshot file")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (c *cli) runCoerce(cmd *cobra.Command, f *coerceFlags, path string) error {
	target, err := parseKind(f.to)
	if err != nil {
		return err
	}
	v, err := c.loadFile(path)
	if err != nil {
		return err
	}

	opts := c.rt.CoerceOptions()
	flags := cmd.Flags()
	if flags.Changed("keep-names") {
		opts.PreserveNames = f.names
	}
	if flags.Changed("keep-dim") {
		opts.PreserveDimensions = f.dims
	}
	if flags.Changed("keep-attributes") {
		opts.PreserveAttributes = f.attributes
	}
	if flags.Changed("reuse") {
		opts.AllowReuse = f.reuse
	}

	out, err := c.rt.Coerce(v, target, opts)
	if err != nil {
		return err
	}
	c.out.value(out)

	if f.out != "" {
		resolved, err := resolve(out)
		if err != nil {
			return err
		}
		file, err := os.Create(f.out)
		if err != nil {
			return err
		}
		if err := c.rt.Snapshot(file, resolved); err != nil {
			file.Close()
			return fmt.Errorf("writing %s: %w", f.out, err)
		}
		return file.Close()
	}
	return nil
}
