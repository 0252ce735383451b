package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-queue/internal/app"
)

func newRelayCmd(open opener) *cobra.Command {
	var once bool
	c := &cobra.Command{
		Use:   "relay",
		Short: "Publish pending notification intents to kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.Relay.Enabled() {
				return errors.New("KAFKA_BROKERS is not set")
			}

			if once {
				n, err := a.Relay.PublishBatch(cmd.Context())
				if err != nil {
					return err
				}
				cmd.Printf("%d intents published\n", n)
				return nil
			}

			ctx, stop := app.SignalContext()
			defer stop()
			a.Relay.Run(ctx)
			return nil
		},
	}
	c.Flags().BoolVar(&once, "once", false, "publish a single batch and exit")
	return c
}
