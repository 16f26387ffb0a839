package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jwalters/qslpress/internal/adif"
	"github.com/jwalters/qslpress/internal/barcode"
	"github.com/jwalters/qslpress/internal/config"
	"github.com/jwalters/qslpress/internal/printer"
	"github.com/jwalters/qslpress/internal/render"
	"github.com/jwalters/qslpress/internal/service"
	"github.com/jwalters/qslpress/internal/store"
)

var (
	processFile       string
	processExportOnly bool
	processOutDir     string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Turn an ADIF log into QSL card labels",
	Long: `Process reads an ADIF contact log, enriches each contact with the
licensee's name and mailing address from the registry, composes a label
with an Intelligent Mail barcode, and prints each label on the configured
Brother QL printer.

All enriched contacts are also dumped to a timestamped JSON file.

Examples:
  # Print labels for every contact in the log
  ./qslpress process -f 2023-pota.adi

  # Export labels as PNGs instead of printing
  ./qslpress process -f 2023-pota.adi --export-only --out ./labels`,
	Run: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processFile, "file", "f", "", "Path to the ADIF log file (required)")
	processCmd.Flags().BoolVarP(&processExportOnly, "export-only", "e", false, "Save label PNGs instead of printing")
	processCmd.Flags().StringVar(&processOutDir, "out", ".", "Directory for exported images and the JSON dump")
	processCmd.MarkFlagRequired("file")
}

func runProcess(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	log.Printf("Reading log file %s...", processFile)
	rawRecords, err := adif.ReadFile(processFile)
	if err != nil {
		log.Fatalf("Failed to read log: %v", err)
	}
	log.Printf("Found %d contacts", len(rawRecords))

	log.Println("Connecting to database...")
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Wire the pipeline
	licensees := store.NewLicenseeStore(db)
	enricher := service.NewEnricher(licensees, barcode.NewIMBEncoder(), cfg)
	renderer := render.NewLabelRenderer(cfg.FontDir)
	brother := printer.NewBrotherQL(cfg.PrinterModel, cfg.LabelSize, cfg.PrinterIdentifier)
	processor := service.NewProcessor(enricher, renderer, brother, render.Rotate90, cfg)

	records := make([]service.Record, len(rawRecords))
	for i, r := range rawRecords {
		records[i] = r
	}

	enriched, stats, err := processor.Process(ctx, records, service.ProcessOptions{
		ExportOnly: processExportOnly,
		OutDir:     processOutDir,
	})
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Processing cancelled")
			os.Exit(1)
		}
		log.Fatalf("Processing failed: %v", err)
	}

	dumpPath, err := processor.DumpBatch(enriched, processOutDir)
	if err != nil {
		log.Fatalf("Failed to write batch dump: %v", err)
	}
	log.Printf("Wrote batch dump to %s", dumpPath)

	processor.PrintSummary(stats)
}
