package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Set via ldflags at build time
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionServer bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionServer, "server", false, "also show the server version")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	var serverVersion string
	if versionServer {
		client, err := newClient()
		if err != nil {
			return err
		}
		serverVersion, err = client.Version(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get server version: %w", err)
		}
	}

	if JSONOutput() {
		info := map[string]string{
			"version":    Version,
			"commit":     Commit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		}
		if versionServer {
			info["server_version"] = serverVersion
		}
		return printJSON(info)
	}

	fmt.Printf("jukebox %s\n", Version)
	if versionServer {
		fmt.Printf("server  %s\n", serverVersion)
	}
	if Verbose() {
		fmt.Printf("  commit:     %s\n", Commit)
		fmt.Printf("  built:      %s\n", BuildDate)
		fmt.Printf("  go version: %s\n", runtime.Version())
		fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
	return nil
}
