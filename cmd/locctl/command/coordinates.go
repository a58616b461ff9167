package command

import (
	"fmt"
	"io"
	"location-tracker-service/internal/adapters/provider"
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/services"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func parseArgs(args []string) ([]domain.Coordinates, error) {
	out := make([]domain.Coordinates, 0, len(args))
	for i, a := range args {
		c, err := domain.ParseCoordinates(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <lat|lon>",
		Short: "Parse coordinates and print their canonical forms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := parseArgs(args)
			if err != nil {
				return err
			}
			c := cs[0]

			mapping, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "latitude:  %v\n", c.Latitude())
			fmt.Fprintf(out, "longitude: %v\n", c.Longitude())
			fmt.Fprintf(out, "text:      %s\n", c)
			fmt.Fprintf(out, "json:      %s\n", mapping)
			return nil
		},
	}
}

func newDistanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance <from> <to>",
		Short: "Print the great-circle distance in whole meters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := parseArgs(args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), int(domain.DistanceMeters(cs[0], cs[1])))
			return nil
		},
	}
}

func newNearestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nearest <from> <candidate>...",
		Short: "Print the candidate closest to from",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := parseArgs(args)
			if err != nil {
				return err
			}

			// Run the query through a tracker fed with a single fix so the
			// CLI and the server share tie-breaking and truncation.
			push := provider.NewPushProvider(provider.Config{AutoGrant: true}, quietLogger())
			tracker, err := services.NewLocationTracker(push, nil, services.WithLogger(quietLogger()))
			if err != nil {
				return fmt.Errorf("nearest: %w", err)
			}
			if _, err := push.Push(domain.Fix{Coordinates: cs[0]}); err != nil {
				return fmt.Errorf("nearest: %w", err)
			}

			nearest, _ := tracker.FindNearest(cs[1:])
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", nearest, tracker.DistanceMeters(nearest))
			return nil
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
