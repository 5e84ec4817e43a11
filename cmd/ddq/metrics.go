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

func newMetricsCommand(globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Query Datadog metric timeseries and list active metrics",
	}
	cmd.AddCommand(newMetricsQueryCommand(globals))
	cmd.AddCommand(newMetricsListCommand(globals))
	return cmd
}

func newMetricsQueryCommand(globals *globalFlags) *cobra.Command {
	var (
		from  string
		to    string
		limit uint64
	)

	cmd := &cobra.Command{
		Use:   "query <query>",
		Short: "Query a metric timeseries and stream points as NDJSON",
		Long: `Query a metric timeseries expression and stream each datapoint as one
NDJSON line on stdout. Every point carries its metric name, scope, and
tags, so output from queries grouped by tag stays self-describing.

Metrics time bounds accept relative expressions (now-1h) or Unix
timestamps. ISO8601 timestamps are not supported for metrics.`,
		Example: `  ddq metrics query "avg:system.cpu.user{*}"
  ddq metrics query "sum:trace.http.request.hits{env:prod} by {service}" --from now-1d`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeQuery(cmd.Context(), globals, queryArgs{
				domain: query.MetricsQuery,
				query:  args[0],
				from:   from,
				to:     to,
				limit:  limit,
			})
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "now-1h", "Start of the time range")
	cmd.Flags().StringVarP(&to, "to", "t", "now", "End of the time range")
	cmd.Flags().Uint64VarP(&limit, "limit", "l", 100, "Maximum datapoints to emit (0 = unlimited)")

	return cmd
}

func newMetricsListCommand(globals *globalFlags) *cobra.Command {
	var (
		from  string
		to    string
		limit uint64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List metrics active since a point in time",
		Long: `List the names of metrics that reported datapoints since the start of
the time range, one NDJSON line per metric name.`,
		Example: `  ddq metrics list
  ddq metrics list --from now-1d | jq -r .metric`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeQuery(cmd.Context(), globals, queryArgs{
				domain: query.MetricsList,
				from:   from,
				to:     to,
				limit:  limit,
			})
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "now-1h", "Start of the activity window")
	cmd.Flags().StringVarP(&to, "to", "t", "now", "End of the time range (validation only; the API takes a start time)")
	cmd.Flags().Uint64VarP(&limit, "limit", "l", 0, "Maximum metric names to emit (0 = unlimited)")

	return cmd
}
