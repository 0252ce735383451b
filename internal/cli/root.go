package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-queue/internal/app"
	"github.com/BruksfildServices01/barber-queue/internal/config"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/logging"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

// opener builds the app a command runs against.
type opener func(ctx context.Context) (*app.App, error)

func openFromEnv(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// stdout fica para a saída dos comandos
	log := logging.NewWithWriter(os.Stderr, "queuectl", cfg.LogLevel)
	return app.New(ctx, cfg, log)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(openFromEnv)
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "queuectl",
		Short:         "Operator tools for the barber queue engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newMigrateCmd(open))
	root.AddCommand(newQueueCmd(open))
	root.AddCommand(newReorderCmd(open))
	root.AddCommand(newTimelineCmd(open))
	root.AddCommand(newRelayCmd(open))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "queuectl %s (commit=%s)\n", Version, CommitSHA)
		},
	}
}

// ------------------------------
// helpers
// ------------------------------

type partitionFlags struct {
	barberID uint
	date     string
}

func (f *partitionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().UintVar(&f.barberID, "barber", 0, "barber id")
	cmd.Flags().StringVar(&f.date, "date", "", "partition day (YYYY-MM-DD, default today in SHOP_TIMEZONE)")
	_ = cmd.MarkFlagRequired("barber")
}

// key validates the flags before anything is opened. An empty date is left
// for withToday, which needs the shop zone from the loaded config.
func (f *partitionFlags) key() (domain.Key, error) {
	if f.barberID == 0 {
		return domain.Key{}, fmt.Errorf("invalid --barber")
	}
	if f.date != "" {
		if _, err := domain.ParseDate(f.date, nil); err != nil {
			return domain.Key{}, fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
		}
	}
	return domain.Key{BarberID: f.barberID, Date: f.date}, nil
}

func withToday(key domain.Key, a *app.App) domain.Key {
	if key.Date == "" {
		key.Date = timezone.Today(time.Now(), a.Config.Schedule.Location)
	}
	return key
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
