package cli

import (
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-queue/internal/dto"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

func newMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the queue tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Open já roda as migrações
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			a.Close()
			cmd.Println("migrations applied")
			return nil
		},
	}
}

func newQueueCmd(open opener) *cobra.Command {
	var f partitionFlags
	c := &cobra.Command{
		Use:   "queue",
		Short: "Print the waiting line of a barber day with fresh estimates",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := f.key()
			if err != nil {
				return err
			}
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			key = withToday(key, a)

			view, err := ucQueue.NewListQueue(a.Engine).Execute(cmd.Context(), key)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.FromQueueView(view))
		},
	}
	f.bind(c)
	return c
}

func newReorderCmd(open opener) *cobra.Command {
	var f partitionFlags
	c := &cobra.Command{
		Use:   "reorder",
		Short: "Re-sort a barber day by priority tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := f.key()
			if err != nil {
				return err
			}
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			key = withToday(key, a)

			res, err := ucQueue.NewReorderQueue(a.Engine).Execute(cmd.Context(), ucQueue.Actor{}, key)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.FromResult(res))
		},
	}
	f.bind(c)
	return c
}

func newTimelineCmd(open opener) *cobra.Command {
	var f partitionFlags
	c := &cobra.Command{
		Use:   "timeline",
		Short: "Print the composed day timeline as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := f.key()
			if err != nil {
				return err
			}
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			key = withToday(key, a)

			tl, err := ucQueue.NewComposeTimeline(a.Engine).Execute(cmd.Context(), key)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), tl)
		},
	}
	f.bind(c)
	return c
}
