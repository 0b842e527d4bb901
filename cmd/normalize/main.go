// Command normalize runs a captured provider payload through the same
// transformer the ETL service uses and prints the resulting series event.
//
// Usage:
//
//	go run ./cmd/normalize \
//	  -provider dwd-forecast \
//	  -in data/mock/dwd_forecast_10453.json \
//	  -now 2025-01-10T06:15:00Z \
//	  -tz Europe/Berlin
//
// Pass -in - to read from stdin and -table for a one-line-per-step summary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/weather-series-etl/internal/domain"
	"github.com/couchcryptid/weather-series-etl/internal/observability"
	"github.com/couchcryptid/weather-series-etl/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	provider := flag.String("provider", domain.ProviderForecast, "payload provider (dwd-forecast, dwd-report)")
	in := flag.String("in", "", "payload file, or - for stdin")
	nowFlag := flag.String("now", "", "RFC3339 time used to pick the valid step (default: current time)")
	window := flag.Int("window", domain.HourlyWindow, "number of display steps")
	tz := flag.String("tz", "UTC", "IANA time zone for day/night icon choice")
	table := flag.Bool("table", false, "print the display window as a table instead of JSON")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -in")
	}

	payload, err := readInput(*in)
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}

	now := time.Now()
	if *nowFlag != "" {
		now, err = time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			return fmt.Errorf("parsing -now: %w", err)
		}
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return fmt.Errorf("loading -tz: %w", err)
	}

	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	transformer := pipeline.NewTransformer(clockwork.NewFakeClockAt(now), loc, *window, metrics, logger)

	event, err := transformer.Transform(context.Background(), domain.RawEvent{
		Value:   payload,
		Headers: map[string]string{"provider": *provider},
	})
	if err != nil {
		return err
	}

	if *table {
		return printTable(os.Stdout, event, loc)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(event); err != nil {
		return fmt.Errorf("encoding series: %w", err)
	}
	printStats(event)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printTable(w io.Writer, event domain.SeriesEvent, loc *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTEMP_C\tPRECIP_MM\tCLOUD_%\tCODE\tLEGACY\tICON")
	for _, e := range event.Window {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.0f\t%d\t%d\t%s\n",
			e.Step.Time().In(loc).Format("Mon 15:04"),
			e.Step.TemperatureKelvin-273.15,
			e.Step.PrecipitationMm,
			e.Step.CloudCoverPercent,
			e.Step.SignificantWeatherCode,
			e.Icon.PrimaryID,
			e.IconNameIn(loc),
		)
	}
	if event.Current != nil && event.CurrentIcon != nil {
		at := time.UnixMilli(event.Current.Timestamp).In(loc)
		fmt.Fprintf(tw, "\ncurrent (%s)\t\t\t\t%d\t%d\t%s\n",
			at.Format("Mon 15:04"),
			event.Current.PresentWeatherCode(),
			event.CurrentIcon.PrimaryID,
			event.CurrentIcon.Named(domain.IsNightHour(at.Hour())),
		)
	}
	return tw.Flush()
}

func printStats(event domain.SeriesEvent) {
	counts := map[int]int{}
	for _, e := range event.Steps {
		counts[e.Icon.PrimaryID]++
	}
	log.Printf("%s: %d steps, %d in window, %d distinct legacy icons",
		event.Provider, len(event.Steps), len(event.Window), len(counts))
}
