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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/commatch"
	"github.com/poiesic/commatch/ai"
	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/profile"
	"github.com/poiesic/commatch/reindex"
	"github.com/poiesic/commatch/vectorindex/qdrant"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "commatch",
		Usage: "Community member matching over profile questionnaires",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"COMMATCH_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "set-profile",
				Usage:  "Create or update a member's profile",
				Action: setProfileCommand,
				Flags: append(systemFlags(),
					&cli.Int64Flag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Usage:    "Member's user id",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "username",
						Usage: "Member's handle",
					},
					&cli.StringFlag{
						Name:  "first-name",
						Usage: "Member's first name",
					},
					&cli.StringFlag{
						Name:  "last-name",
						Usage: "Member's last name",
					},
					&cli.StringFlag{
						Name:     "field",
						Usage:    "Answer: what the member works on",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "seeking",
						Usage:    "Answer: what the member is looking for",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "offering",
						Usage:    "Answer: what the member can offer",
						Required: true,
					},
				),
			},
			{
				Name:   "match",
				Usage:  "Find matches for a member",
				Action: matchCommand,
				Flags: append(systemFlags(),
					&cli.Int64Flag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Usage:    "Member's user id",
						Required: true,
					},
				),
			},
			{
				Name:   "delete-user",
				Usage:  "Remove a member's profile, history and vector",
				Action: deleteUserCommand,
				Flags: append(systemFlags(),
					&cli.Int64Flag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Usage:    "Member's user id",
						Required: true,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the vector index from all active profiles",
				Action: reindexCommand,
				Flags: append(systemFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of profiles to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N profiles",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// systemFlags are shared by every command that opens the system.
func systemFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
			EnvVars:  []string{"COMMATCH_DB"},
		},
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"COMMATCH_AI_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "paraphrase-multilingual-minilm-l12-v2",
			EnvVars: []string{"COMMATCH_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "oracle-model",
			Usage:   "Chat model used for ranking and summaries",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"COMMATCH_ORACLE_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Bearer token for the AI services",
			EnvVars: []string{"COMMATCH_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "qdrant-url",
			Usage:   "Qdrant base URL (omit to keep vectors in memory)",
			EnvVars: []string{"COMMATCH_QDRANT_URL"},
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Qdrant API key",
			EnvVars: []string{"COMMATCH_QDRANT_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "qdrant-collection",
			Usage:   "Qdrant collection name",
			Value:   qdrant.DefaultCollection,
			EnvVars: []string{"COMMATCH_QDRANT_COLLECTION"},
		},
		&cli.IntFlag{
			Name:    "dimension",
			Usage:   "Embedding dimension used to initialize the index",
			Value:   qdrant.DefaultDimension,
			EnvVars: []string{"COMMATCH_DIMENSION"},
		},
	}
}

func openSystem(c *cli.Context) (*commatch.System, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithOracleModel(c.String("oracle-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []commatch.SystemOption{
		commatch.WithAIConfig(aiConfig),
		commatch.WithDimension(c.Int("dimension")),
	}
	if url := c.String("qdrant-url"); url != "" {
		opts = append(opts, commatch.WithQdrant(qdrant.Config{
			URL:        url,
			APIKey:     c.String("qdrant-api-key"),
			Collection: c.String("qdrant-collection"),
		}))
	}

	sys, err := commatch.Open(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open system: %w", err)
	}
	return sys, nil
}

func setProfileCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	pipeline, err := sys.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	stored, err := pipeline.SaveProfile(context.Background(), profile.Input{
		UserID:    core.UserID(c.Int64("user-id")),
		Username:  c.String("username"),
		FirstName: c.String("first-name"),
		LastName:  c.String("last-name"),
		Field:     c.String("field"),
		Seeking:   c.String("seeking"),
		Offering:  c.String("offering"),
	})
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("Saved profile for %s (user %d)\n", stored.DisplayName(), stored.Id)
	fmt.Printf("Keywords: %s\n", strings.Join(stored.Keywords, ", "))
	return nil
}

func matchCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	matcher := sys.NewMatcher()
	result, err := matcher.FindMatches(context.Background(), core.UserID(c.Int64("user-id")))
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	if len(result.Matches) == 0 {
		fmt.Println("No matches available yet.")
		return nil
	}

	for i, m := range result.Matches {
		fmt.Printf("%d. %s (score %.1f)\n", i+1, m.Profile.DisplayName(), m.Score)
		fmt.Printf("   %s\n", m.Reason)
	}
	if result.Summary != "" {
		fmt.Printf("\n%s\n", result.Summary)
	}
	return nil
}

func deleteUserCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	pipeline, err := sys.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	userID := core.UserID(c.Int64("user-id"))
	if err := pipeline.DeleteUser(context.Background(), userID); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}

	fmt.Printf("Deleted user %d\n", userID)
	return nil
}

func reindexCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := sys.NewReindexer(config, os.Stderr)
	if err := reindexer.Run(context.Background()); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
