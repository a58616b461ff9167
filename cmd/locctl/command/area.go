package command

import (
	"context"
	"errors"
	"fmt"
	"location-tracker-service/internal/adapters/geocode"
	"location-tracker-service/internal/config"
	"location-tracker-service/internal/platform/httpx"

	"github.com/spf13/cobra"
)

func newAreaCmd() *cobra.Command {
	var (
		key       string
		baseURL   string
		configDir string
	)

	cmd := &cobra.Command{
		Use:   "area <lat|lon>",
		Short: "Reverse geocode coordinates to an area name",
		Long: `Reverse geocode coordinates with the Google Geocoding API and print
the area name. The key comes from --key, or from geocode.apikey in the
configuration (LOCTRACK_GEOCODE_APIKEY).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := parseArgs(args)
			if err != nil {
				return err
			}

			var paths []string
			if configDir != "" {
				paths = append(paths, configDir)
			}
			cfg, err := config.Load(paths...)
			if err != nil {
				return err
			}
			if key == "" {
				key = cfg.Geocode.APIKey
			}
			if baseURL == "" {
				baseURL = cfg.Geocode.BaseURL
			}
			if key == "" {
				return errors.New("area: no api key (use --key or LOCTRACK_GEOCODE_APIKEY)")
			}

			g, err := geocode.NewGoogleGeocoder(httpx.NewClient("locctl/1.0"), baseURL)
			if err != nil {
				return fmt.Errorf("area: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			name, err := g.ResolveAreaName(ctx, cs[0], key)
			if err != nil {
				return fmt.Errorf("area: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Google Geocoding API key")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "geocoding endpoint base URL")
	cmd.Flags().StringVarP(&configDir, "config", "c", "", "directory containing config.yaml")
	return cmd
}
