package main

import (
	"github.com/spf13/cobra"

	"github.com/funvibe/vcore/internal/foreign"
	"github.com/funvibe/vcore/internal/value"
)

type sqlFlags struct {
	table  string
	column string
	as     string
}

func newSQLCmd(c *cli) *cobra.Command {
	f := &sqlFlags{}
	cmd := &cobra.Command{
		Use:   "sql database --table T --column C",
		Short: "Read a SQLite column as a foreign vector",
		Long:  `Sql opens a SQLite database and exposes one column as a lazily read vector. SQL NULL reads as NA.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSQL(cmd, f, args[0])
		},
	}
	cmd.Flags().StringVar(&f.table, "table", "", "table name")
	cmd.Flags().StringVar(&f.column, "column", "", "column name")
	cmd.Flags().StringVar(&f.as, "as", "", "element type of the vector (default: inferred from the rows)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func (c *cli) runSQL(cmd *cobra.Command, f *sqlFlags, dsn string) error {
	db, err := foreign.OpenSQLite(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	var v *value.Vector
	if f.as != "" {
		k, err := parseKind(f.as)
		if err != nil {
			return err
		}
		v, err = foreign.SQLColumn(cmd.Context(), db, f.table, f.column, k)
		if err != nil {
			return err
		}
	} else {
		src, err := foreign.NewSQLSource(cmd.Context(), db, f.table, f.column)
		if err != nil {
			return err
		}
		if v, err = c.rt.ForeignVector(src); err != nil {
			return err
		}
	}
	c.logger.Debug("sql column", "table", f.table, "column", f.column, "kind", v.Type())
	c.describe(v)
	return nil
}
