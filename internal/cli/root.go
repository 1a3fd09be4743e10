// Package cli implements recipectl, a terminal client for the recipe API
// built on the client Store.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/nutrifit/backend/internal/client"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server  string
	Format  string // "json" | "text"
	Timeout time.Duration
	Retries uint64
	Quiet   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for recipectl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "recipectl",
		Short: "Browse and edit NutriFit recipes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Server == "" {
				return fmt.Errorf("--server must not be empty")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Server, "server", "s", "http://localhost:8083/api", "API base URL including the /api prefix")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout")
	cmd.PersistentFlags().Uint64Var(&opts.Retries, "retries", 3, "retries for read requests")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress notifications")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewCommentCommand(opts))
	cmd.AddCommand(NewUploadCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) repository() *client.HTTPRepository {
	return client.NewHTTPRepository(o.Server,
		client.WithTimeout(o.Timeout),
		client.WithRetries(o.Retries),
	)
}

// openStore builds a Store reporting to stderr and loads it. A failed load
// is returned so commands do not act on an empty cache.
func (o *RootOptions) openStore(ctx context.Context, cmd *cobra.Command) (*client.Store, error) {
	var notifier client.Notifier = client.NewWriterNotifier(cmd.ErrOrStderr())
	if o.Quiet {
		notifier = client.NopNotifier{}
	}
	store := client.NewStore(o.repository(), client.WithNotifier(notifier))
	store.Load(ctx)
	if err := store.LoadError(); err != nil {
		return nil, err
	}
	return store, nil
}
