// Copyright 2025 DDQ Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/ddqhq/ddq/internal/dderror"
	ddqerrors "github.com/ddqhq/ddq/internal/errors"
	"github.com/spf13/cobra"
)

var version = "dev"

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configFile string
	outputFile string
	verbose    bool
}

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		inspector := dderror.NewInspector()
		switch {
		case inspector.IsAuthError(err):
			fmt.Fprintln(os.Stderr, "Check that DD_API_KEY and DD_APP_KEY are set and valid for your site.")
		case inspector.IsNetworkError(err):
			fmt.Fprintln(os.Stderr, "Check your network connection and the DD_SITE setting.")
		}

		os.Exit(ddqerrors.ExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "ddq",
		Short: "Query Datadog logs, spans, and metrics from the command line",
		Long: `ddq queries the Datadog observability APIs and streams results as
NDJSON on stdout, one JSON document per line. Large result sets are
paginated transparently and records are emitted as they arrive, so
output can be piped into jq or similar tools without buffering.`,
		Version:       version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globals.configFile, "config", "", "Path to a YAML config file (default: .ddq.yaml, ~/.ddq/config.yaml)")
	flags.StringVarP(&globals.outputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.BoolVarP(&globals.verbose, "verbose", "v", false, "Print diagnostic information on stderr")

	rootCmd.AddCommand(newLogsCommand(globals))
	rootCmd.AddCommand(newSpansCommand(globals))
	rootCmd.AddCommand(newMetricsCommand(globals))

	return rootCmd
}
