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
	"github.com/ddqhq/ddq/internal/query"
	"github.com/spf13/cobra"
)

func newLogsCommand(globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Search Datadog log events",
	}
	cmd.AddCommand(newLogsSearchCommand(globals))
	return cmd
}

func newLogsSearchCommand(globals *globalFlags) *cobra.Command {
	var (
		from    string
		to      string
		limit   uint64
		indexes string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search log events and stream matches as NDJSON",
		Long: `Search log events matching a Datadog log search query and stream
each matching event as one NDJSON line on stdout.

The query uses Datadog log search syntax and is passed through to the
API uninterpreted. Time bounds accept relative expressions (now-1h,
now-30m), ISO8601 timestamps, or Unix millisecond timestamps.`,
		Example: `  ddq logs search "service:api status:error"
  ddq logs search "service:api" --from now-4h --to now --limit 500
  ddq logs search "*" --indexes main,audit --output events.ndjson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeQuery(cmd.Context(), globals, queryArgs{
				domain:  query.Logs,
				query:   args[0],
				from:    from,
				to:      to,
				limit:   limit,
				indexes: query.ParseIndexes(indexes),
			})
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "now-1h", "Start of the time range")
	cmd.Flags().StringVarP(&to, "to", "t", "now", "End of the time range")
	cmd.Flags().Uint64VarP(&limit, "limit", "l", 100, "Maximum records to emit (0 = unlimited)")
	cmd.Flags().StringVarP(&indexes, "indexes", "i", "", "Comma-separated log indexes to search (default: all)")

	return cmd
}
