package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/funvibe/vcore/internal/wire"
)

// Version is the CLI version. It can be overridden at build time via
// -ldflags "-X main.Version=...".
var Version = "0.1.0-dev"

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.out.field("version", Version)
			c.out.field("snapshot", fmt.Sprintf("schema %d", wire.SchemaVersion))
			if info, ok := debug.ReadBuildInfo(); ok {
				c.out.field("go", info.GoVersion)
				for _, s := range info.Settings {
					if s.Key == "vcs.revision" {
						c.out.field("commit", s.Value)
					}
				}
			}
			return nil
		},
	}
}
