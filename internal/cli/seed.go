package cli

import (
	"fmt"

	"cyberguard-quiz-service/internal/content"
	"cyberguard-quiz-service/internal/infra/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd loads quizzes and tips from a content file into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load quiz content and tips into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			if file == "" {
				file = cfg.Content.Path
			}
			if file == "" {
				return fmt.Errorf("no content file given")
			}
			c, err := content.Load(file)
			if err != nil {
				return fmt.Errorf("load content: %w", err)
			}

			ctx := cmd.Context()
			if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
				return err
			}
			db := postgres.OpenBun(cfg.Postgres.URL)
			defer db.Close()

			stats, err := postgres.NewSeeder(db).Seed(ctx, c)
			if err != nil {
				return err
			}
			log.Info("content seeded",
				zap.String("file", file),
				zap.Int("quizzes", stats.Quizzes),
				zap.Int("questions", stats.Questions),
				zap.Int("options", stats.Options),
				zap.Int("tips", stats.Tips),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "content YAML file (defaults to content.path from config)")
	return cmd
}
