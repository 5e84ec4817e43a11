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

func newSpansCommand(globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spans",
		Short: "Search Datadog APM spans",
	}
	cmd.AddCommand(newSpansSearchCommand(globals))
	return cmd
}

func newSpansSearchCommand(globals *globalFlags) *cobra.Command {
	var (
		from  string
		to    string
		limit uint64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search APM spans and stream matches as NDJSON",
		Long: `Search APM spans matching a Datadog trace search query and stream
each matching span as one NDJSON line on stdout.`,
		Example: `  ddq spans search "service:checkout resource_name:POST*"
  ddq spans search "service:api @duration:>1s" --from now-6h --limit 200`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeQuery(cmd.Context(), globals, queryArgs{
				domain: query.Spans,
				query:  args[0],
				from:   from,
				to:     to,
				limit:  limit,
			})
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "now-1h", "Start of the time range")
	cmd.Flags().StringVarP(&to, "to", "t", "now", "End of the time range")
	cmd.Flags().Uint64VarP(&limit, "limit", "l", 100, "Maximum records to emit (0 = unlimited)")

	return cmd
}
