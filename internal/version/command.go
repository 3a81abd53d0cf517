package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand adds a `version` subcommand and the --version flag to root.
func AttachCobraVersionCommand(root *cobra.Command) {
	var short, asJSON bool

	root.Version = Version
	root.SetVersionTemplate("{{.Version}}\n")

	command := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Get()

			switch {
			case short:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)

				return err
			case asJSON:
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")

				return encoder.Encode(info)
			default:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())

				return err
			}
		},
	}

	command.Flags().BoolVar(&short, "short", false, "print only the version number")
	command.Flags().BoolVar(&asJSON, "json", false, "print build information as JSON")
	command.MarkFlagsMutuallyExclusive("short", "json")

	root.AddCommand(command)
}
