package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/vcore/internal/value"
)

type identicalFlags struct {
	numEq             bool
	singleNA          bool
	attribAsSet       bool
	ignoreBytecode    bool
	ignoreEnvironment bool
	ignoreSrcref      bool
	extptrAsRef       bool
}

func newIdenticalCmd(c *cli) *cobra.Command {
	f := &identicalFlags{}
	cmd := &cobra.Command{
		Use:   "identical file1 file2",
		Short: "Test two values for exact equality",
		Long:  `Identical loads both value files concurrently and prints TRUE when they are the same value.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIdentical(cmd, f, args[0], args[1])
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&f.numEq, "num-eq", true, "compare doubles by value rather than bit pattern")
	fl.BoolVar(&f.singleNA, "single-na", true, "treat every NA and every NaN payload alike")
	fl.BoolVar(&f.attribAsSet, "attrib-as-set", true, "ignore attribute order")
	fl.BoolVar(&f.ignoreBytecode, "ignore-bytecode", true, "ignore compiled closure bodies")
	fl.BoolVar(&f.ignoreEnvironment, "ignore-environment", false, "ignore closure environments")
	fl.BoolVar(&f.ignoreSrcref, "ignore-srcref", true, "ignore srcref attributes of closures")
	fl.BoolVar(&f.extptrAsRef, "extptr-as-ref", false, "compare external pointers by identity")
	return cmd
}

func (c *cli) runIdentical(cmd *cobra.Command, f *identicalFlags, left, right string) error {
	var x, y value.Value
	g, _ := errgroup.WithContext(cmd.Context())
	g.Go(func() (err error) {
		x, err = c.loadFile(left)
		return err
	})
	g.Go(func() (err error) {
		y, err = c.loadFile(right)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	x, err := resolve(x)
	if err != nil {
		return err
	}
	if y, err = resolve(y); err != nil {
		return err
	}

	opts := c.rt.IdenticalOptions()
	set := func(name string, dst *bool, val bool) {
		if cmd.Flags().Changed(name) {
			*dst = val
		}
	}
	set("num-eq", &opts.NumEq, f.numEq)
	set("single-na", &opts.SingleNA, f.singleNA)
	set("attrib-as-set", &opts.AttribAsSet, f.attribAsSet)
	set("ignore-bytecode", &opts.IgnoreBytecode, f.ignoreBytecode)
	set("ignore-environment", &opts.IgnoreEnvironment, f.ignoreEnvironment)
	set("ignore-srcref", &opts.IgnoreSrcref, f.ignoreSrcref)
	set("extptr-as-ref", &opts.ExtptrAsRef, f.extptrAsRef)

	c.out.bool(c.rt.Identical(x, y, opts))
	return nil
}
