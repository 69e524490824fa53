package main

import (
	"flag"
	"log"
	"os"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/report"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	data := flag.String("data", "", "Heart disease CSV (default: heart.dataset_path)")
	bins := flag.Int("bins", 0, "Age histogram bins (default: heart.histogram_bins)")
	asJSON := flag.Bool("json", false, "Print the report, including chart data, as JSON")

	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: failed to load config: %v\n", err)
	}

	path := cfg.Heart.DatasetPath
	if *data != "" {
		path = *data
	}
	ageBins := cfg.Heart.HistogramBins
	if *bins > 0 {
		ageBins = *bins
	}

	r, err := report.LoadHeart(path, ageBins)
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
	} else {
		err = r.WriteText(os.Stdout)
	}
	if err != nil {
		log.Fatalf("Error: failed to write report: %v\n", err)
	}
}
