package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/soltixdb/eda/internal/compression"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/queue"
	"github.com/soltixdb/eda/internal/report"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	seed := flag.Uint64("seed", 0, "Random seed (0 uses generator.seed, or a random source)")
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	publish := flag.Bool("publish", false, "Publish the report and chart data to the configured queue")

	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: failed to load config: %v\n", err)
	}

	src := cfg.Generator.Source()
	if *seed != 0 {
		src = rand.NewPCG(*seed, *seed)
	}

	r, err := report.Height(report.HeightParamsFromConfig(cfg.Generator, cfg.Analysis), src)
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

	if *publish {
		if err := publishReport(cfg, r); err != nil {
			log.Fatalf("Error: failed to publish report: %v\n", err)
		}
	}
}

func publishReport(cfg *config.Config, r report.Report) error {
	pub, err := queue.NewPublisher(cfg.Queue)
	if err != nil {
		return err
	}
	defer func() { _ = pub.Close() }()

	algo, err := compression.ParseAlgorithm(cfg.Queue.Compression)
	if err != nil {
		return err
	}
	codec, err := compression.NewCodec(algo)
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return err
	}
	return report.NewPublisher(pub, codec, logger).Publish(context.Background(), r)
}
