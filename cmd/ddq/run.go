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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ddqhq/ddq/internal/config"
	"github.com/ddqhq/ddq/internal/datadog"
	"github.com/ddqhq/ddq/internal/fetch"
	"github.com/ddqhq/ddq/internal/output"
	"github.com/ddqhq/ddq/internal/query"
	"github.com/ddqhq/ddq/internal/timeexpr"
	"github.com/ddqhq/ddq/internal/verbose"
)

// queryArgs carries one subcommand invocation into the shared runner.
type queryArgs struct {
	domain  query.Domain
	query   string
	from    string
	to      string
	limit   uint64
	indexes []string
}

// executeQuery is the shared body of every subcommand: load configuration,
// resolve the time range, build the descriptor, and stream results.
// Configuration is loaded before time expressions are resolved so that a
// missing key is reported as such even when the time flags are also bad.
func executeQuery(ctx context.Context, globals *globalFlags, args queryArgs) error {
	cfg, err := config.Load(globals.configFile)
	if err != nil {
		return err
	}

	log := verbose.New(globals.verbose)
	log.Config(cfg.Site, cfg.APIKey != "", cfg.AppKey != "")

	rng, err := timeexpr.ResolveRange(args.from, args.to, args.domain.Grammar(), time.Now())
	if err != nil {
		return err
	}

	desc := query.NewDescriptor(args.domain, args.query, rng,
		args.limit, pageSizeOverride(cfg, args.domain), args.indexes)

	log.Request(args.domain, args.query, rng)
	log.ConsoleURL(args.domain, args.query, rng, cfg.AppBaseURL())

	var writer output.Writer
	if globals.outputFile == "" {
		writer = output.NewWriter(os.Stdout)
	} else {
		fileWriter, err := output.NewFileWriter(globals.outputFile)
		if err != nil {
			return err
		}
		writer = fileWriter
	}
	defer writer.Close()

	caller := datadog.NewClient(cfg).Caller(args.domain)
	count, err := fetch.Run(ctx, desc, caller, writer)
	if err != nil {
		if count > 0 {
			return fmt.Errorf("after emitting %d records: %w", count, err)
		}
		return err
	}

	log.Logf("Emitted %d records", count)
	return nil
}

// pageSizeOverride returns the configured per-request page size for the
// domain, or 0 to use the domain's default cap.
func pageSizeOverride(cfg *config.Config, d query.Domain) int {
	switch d {
	case query.Logs:
		return cfg.BatchSizes.Logs
	case query.Spans:
		return cfg.BatchSizes.Spans
	default:
		return 0
	}
}
