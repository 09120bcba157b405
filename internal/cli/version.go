package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sharkusmanch/logon-notifier/pkg/version"
)

var versionJSON bool

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display detailed version and build information.`,
		RunE:  runVersion,
	}

	cmd.Flags().BoolVar(&versionJSON, "json", false, "output in JSON format")

	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()

	if versionJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
	}

	return nil
}
