// Command calibrate runs the blend-configuration sweep against a
// labelled fixture set and prints the accuracy report. Fixtures come
// from a local JSON file or from the reference planning system's export
// endpoint over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/spf13/viper"

	"github.com/oncoplan/interp/pkg/calib"
	"github.com/oncoplan/interp/pkg/interp"
)

func main() {
	configPath := flag.String("config", "", "optional yaml config file")
	flag.Parse()

	v := viper.New()
	v.SetDefault("fixtures.path", "")
	v.SetDefault("fixtures.url", "")
	v.SetDefault("grid.spacing", 0.0)
	v.SetDefault("baseline.meanDice", 0.95)
	v.SetEnvPrefix("calibrate")
	v.AutomaticEnv()
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("reading config: %v", err)
		}
	}

	fixtures, err := loadFixtures(v)
	if err != nil {
		log.Fatalf("loading fixtures: %v", err)
	}
	log.Printf("loaded %d fixtures", len(fixtures))

	base := interp.DefaultConfig()
	base.GridSpacing = v.GetFloat64("grid.spacing")

	report, err := calib.Sweep(fixtures, base)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	for _, s := range report.Scores {
		fmt.Printf("%-40s mean=%.4f median=%.4f worst=%.4f best=%.4f\n",
			s.Candidate, s.Mean, s.Median, s.Worst, s.Best)
	}
	fmt.Printf("\nwinner: %s (mean dice %.4f)\n", report.Winner.Candidate, report.Winner.Mean)

	baseline := v.GetFloat64("baseline.meanDice")
	if report.Winner.Mean < baseline {
		log.Fatalf("winner mean dice %.4f regressed below baseline %.4f", report.Winner.Mean, baseline)
	}
}

// loadFixtures reads the configured fixture source, preferring the
// local path when both are set.
func loadFixtures(v *viper.Viper) ([]calib.Fixture, error) {
	if path := v.GetString("fixtures.path"); path != "" {
		return calib.LoadFixtures(path)
	}
	if url := v.GetString("fixtures.url"); url != "" {
		return calib.FetchFixtures(context.Background(), url)
	}
	return nil, fmt.Errorf("no fixture source configured (set fixtures.path or fixtures.url)")
}
