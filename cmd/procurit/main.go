// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/procurit"
	"github.com/poiesic/procurit/config"
	"github.com/poiesic/procurit/discovery"
)

func main() {
	app := &cli.App{
		Name:  "procurit",
		Usage: "Supplier discovery and market intelligence engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (environment variables override)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "discover",
				Usage:  "Discover and rank suppliers for a product or service",
				Action: discoverCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Product or service to source",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Preferred supplier location",
					},
					&cli.StringSliceFlag{
						Name:  "requirements",
						Usage: "Requirement phrases suppliers must cover (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "certifications",
						Usage: "Required certifications, any-of (repeatable)",
					},
					&cli.Float64Flag{
						Name:  "min-rating",
						Usage: "Minimum supplier rating on a 1-5 scale",
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of suppliers to return",
						Value: discovery.DefaultMaxResults,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit the raw result as JSON",
					},
				},
			},
			{
				Name:   "market",
				Usage:  "Synthesize market intelligence for a product",
				Action: marketCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "product",
						Aliases:  []string{"p"},
						Usage:    "Product to analyze",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "timeframe",
						Usage: "Analysis horizon (1month, 3months, 6months, 1year)",
						Value: "6months",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit the raw insight as JSON",
					},
				},
			},
			{
				Name:   "health",
				Usage:  "Report engine providers, limits, and cache occupancy",
				Action: healthCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.FromEnv(), nil
}

func buildEngine(ctx context.Context, c *cli.Context) (*procurit.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return procurit.NewEngine(ctx, cfg)
}

func discoverCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := buildEngine(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}
	defer engine.Close()

	result, err := engine.Discover(ctx, discovery.Request{
		Query:          c.String("query"),
		Location:       c.String("location"),
		Requirements:   c.StringSlice("requirements"),
		Certifications: c.StringSlice("certifications"),
		MinRating:      c.Float64("min-rating"),
		MaxResults:     c.Int("max-results"),
		Caller:         "cli",
	})
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if c.Bool("json") {
		return printJSON(result)
	}

	if len(result.Suppliers) == 0 {
		fmt.Printf("No suppliers found for %q.\n", result.Query)
		return nil
	}

	fmt.Printf("Found %d supplier(s) for %q", result.TotalFound, result.Query)
	if result.LocationFilter != "" {
		fmt.Printf(" near %q", result.LocationFilter)
	}
	fmt.Printf(" in %s:\n\n", result.ProcessingTime.Round(time.Millisecond))

	for i, supplier := range result.Suppliers {
		fmt.Printf("%2d. %s (score %.2f, %s)\n", i+1, supplier.Name, supplier.ConfidenceScore, supplier.Status)
		fmt.Printf("    Location: %s\n", supplier.Location)
		if supplier.Website != "" {
			fmt.Printf("    Website:  %s\n", supplier.Website)
		}
		if supplier.HasRating() {
			fmt.Printf("    Rating:   %.1f/5\n", *supplier.Rating)
		}
		if len(supplier.Certifications) > 0 {
			fmt.Printf("    Certifications: %s\n", strings.Join(supplier.Certifications, ", "))
		}
	}

	fmt.Printf("\nSources: %s\n", strings.Join(result.DataSources, ", "))
	return nil
}

func marketCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := buildEngine(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}
	defer engine.Close()

	insight, err := engine.AnalyzeMarket(ctx, c.String("product"), c.String("timeframe"))
	if err != nil {
		return fmt.Errorf("market analysis failed: %w", err)
	}

	if c.Bool("json") {
		return printJSON(insight)
	}

	fmt.Printf("Market insight for %q (%s, confidence %.2f, %d signals):\n\n",
		insight.Product, insight.Timeframe, insight.Confidence, insight.SignalCount)
	fmt.Printf("Price trend: %s\n", insight.PriceTrend)
	printList("Key factors", insight.KeyFactors)
	if insight.MarketSize != "" {
		fmt.Printf("Market size: %s\n", insight.MarketSize)
	}
	if insight.GrowthRate != "" {
		fmt.Printf("Growth rate: %s\n", insight.GrowthRate)
	}
	printList("Key players", insight.KeyPlayers)
	printList("Opportunities", insight.Opportunities)
	printList("Risks", insight.Risks)
	printList("Recommendations", insight.Recommendations)
	return nil
}

func healthCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := buildEngine(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}
	defer engine.Close()

	return printJSON(engine.Health())
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
