package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
	"github.com/m04kA/SMC-AvailabilityService/internal/worker/expiry"
)

func expireCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Mark past slots without bookings as expired and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rt, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			application := rt.newApp(notification.Nop{})
			n := expiry.NewWorker(application.Slots, 0, rt.log).RunOnce(ctx)

			fmt.Fprintf(os.Stdout, "expired slots: %d\n", n)
			return nil
		},
	}
}
