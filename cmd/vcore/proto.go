package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhump/protoreflect/dynamic"
	"github.com/spf13/cobra"

	"github.com/funvibe/vcore/internal/foreign"
)

type protoFlags struct {
	schema      string
	importPaths []string
	message     string
	field       string
	json        bool
}

func newProtoCmd(c *cli) *cobra.Command {
	f := &protoFlags{}
	cmd := &cobra.Command{
		Use:   "proto data --schema file.proto --message NAME --field FIELD",
		Short: "Read a repeated protobuf field as a foreign vector",
		Long: `Proto parses a .proto schema, decodes the data file as a message of the
given type and exposes one of its repeated fields as a vector.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProto(f, args[0])
		},
	}
	cmd.Flags().StringVar(&f.schema, "schema", "", ".proto file declaring the message")
	cmd.Flags().StringSliceVarP(&f.importPaths, "import-path", "I", nil, "directories searched for imports")
	cmd.Flags().StringVar(&f.message, "message", "", "fully qualified message name")
	cmd.Flags().StringVar(&f.field, "field", "", "repeated field to read")
	cmd.Flags().BoolVar(&f.json, "json", false, "the data file uses the protobuf JSON mapping")
	for _, name := range []string{"schema", "message", "field"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (c *cli) runProto(f *protoFlags, path string) error {
	importPaths := append([]string{filepath.Dir(f.schema)}, f.importPaths...)
	schema, err := foreign.ParseProto(nil, importPaths, filepath.Base(f.schema))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var msg *dynamic.Message
	if f.json {
		msg, err = schema.DecodeJSON(f.message, data)
	} else {
		msg, err = schema.Decode(f.message, data)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	v, err := foreign.LoadProtoField(msg, f.field)
	if err != nil {
		return err
	}
	c.describe(v)
	return nil
}
