package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snapshare/pkg/config"
	apperr "github.com/matzehuels/snapshare/pkg/errors"
)

// flipbookCommand creates the flipbook command.
func (c *CLI) flipbookCommand() *cobra.Command {
	var hostID string

	cmd := &cobra.Command{
		Use:   "flipbook <event-id>",
		Short: "Build, upload and convert an event's flipbook",
		Long: `Build the flipbook for a stored event: render the PDF in the event's style,
store it, submit it to the conversion service and save the viewer URL on the
event. Requires the mongo storage backend.`,
		Example: `  snapshare flipbook evt_1a2b3c4d5e6f --host user_42`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Storage.Backend != config.BackendMongo {
				return apperr.New(apperr.ErrCodeInvalidInput, "flipbook needs storage.backend = %q; events are not persisted by the local backend", config.BackendMongo)
			}

			logger := loggerFromContext(ctx)
			a, err := openApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Building flipbook for %s...", args[0]))
			spinner.Start()
			res, err := a.runner.Build(ctx, args[0], hostID)
			if err != nil {
				spinner.StopWithError(apperr.UserMessage(err))
				return err
			}
			spinner.StopWithSuccess("Flipbook created")

			printKeyValue("Flipbook", StyleLink.Render(res.FlipbookURL))
			printKeyValue("Document", StyleLink.Render(res.DocumentURL))
			fmt.Println(reportTable(res.Report, 0, res.Stats.Total))
			printSkipped(res.Report)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostID, "host", "", "host user ID that owns the event (required)")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}
