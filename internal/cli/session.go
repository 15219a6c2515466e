package cli

import (
	"fmt"
	"time"

	"cyberguard-quiz-service/internal/config"
	"cyberguard-quiz-service/internal/domain"
	redisstore "cyberguard-quiz-service/internal/infra/redis"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// NewSessionCmd groups session administration commands.
func NewSessionCmd(configPath, port *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage sign-in sessions",
	}
	cmd.AddCommand(newSessionIssueCmd(configPath, port))
	return cmd
}

// newSessionIssueCmd stands in for the confirmation email: it stores a session
// in Redis and prints the callback link that signs the user in.
func newSessionIssueCmd(configPath, port *string) *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a session token and print its sign-in link",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Redis.Addr == "" {
				return fmt.Errorf("redis addr not configured")
			}
			if userID == "" {
				return fmt.Errorf("--user-id is required")
			}
			if ttl <= 0 {
				ttl = config.TTLDuration(cfg.Auth.SessionTTL, defaultSessionTTL)
			}

			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()

			token, err := redisstore.NewIdentityStore(client).Issue(cmd.Context(), domain.Identity{UserID: userID, Email: email}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token: %s\nlink:  http://localhost:%s/auth/callback?token=%s\n", token, *port, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id the session belongs to")
	cmd.Flags().StringVar(&email, "email", "", "email shown on the dashboard")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "session lifetime (defaults to auth.session_ttl)")
	return cmd
}
