package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-scheduler/internal/config"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

func newCheckConfigCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "check-config",
		Short: "Report which calendar settings are present",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return checkConfig(cmd.Context(), cmd.OutOrStdout(), cfg, probe)
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "run one busy query for the next business day")
	return cmd
}

func checkConfig(ctx context.Context, out io.Writer, cfg *config.Config, probe bool) error {
	fmt.Fprintf(out, "CALENDAR_SOURCE       %s\n", cfg.CalendarSource)
	fmt.Fprintf(out, "BUSINESS_TIMEZONE     %s\n", cfg.BusinessTimezone)

	for _, kv := range []struct {
		key, value string
		keep       int
	}{
		{"GOOGLE_CALENDAR_ID", cfg.GoogleCalendarID, -1},
		{"GOOGLE_CLIENT_ID", cfg.GoogleClientID, 15},
		{"GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret, 4},
		{"GOOGLE_REFRESH_TOKEN", cfg.GoogleRefreshToken, 4},
	} {
		fmt.Fprintf(out, "%-21s %s\n", kv.key, mask(kv.value, kv.keep))
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "\nconfiguration invalid: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "\nconfiguration ok")

	if !probe {
		return nil
	}

	cal, err := newCalendar(ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}

	loc := cfg.Location()
	day := timezone.NextBusinessDay(time.Now(), loc)
	busy, err := cal.FetchBusy(ctx, cfg.GoogleCalendarID, day, day.AddDate(0, 0, 1))
	if err != nil {
		fmt.Fprintf(out, "probe failed: %v\n", err)
		return err
	}

	fmt.Fprintf(out, "probe ok: %d busy block(s) on %s\n", len(busy), timezone.DateKey(day))
	return nil
}

// mask shows the first keep characters of a secret. keep < 0 shows it all.
func mask(v string, keep int) string {
	switch {
	case v == "":
		return "(not set)"
	case keep < 0:
		return v
	case len(v) <= keep:
		return "..."
	default:
		return v[:keep] + "..."
	}
}
