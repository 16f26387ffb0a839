package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jwalters/qslpress/internal/config"
	"github.com/jwalters/qslpress/internal/service"
	"github.com/jwalters/qslpress/internal/store"
)

var (
	importEntityPath string
	importStatusPath string
	importDownload   bool
	importDir        string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Rebuild the licensee registry from the FCC ULS extracts",
	Long: `Import reads the FCC ULS amateur license extracts (EN.dat and HD.dat),
merges them into per-licensee records, and rebuilds the registry database
wholesale. Re-running it with the same extracts is idempotent.

Examples:
  # Load extracts already on disk
  ./qslpress import --en EN.dat --hd HD.dat

  # Download the current weekly extract archive first
  ./qslpress import --download`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importEntityPath, "en", "EN.dat", "Path to the EN (entity) extract")
	importCmd.Flags().StringVar(&importStatusPath, "hd", "HD.dat", "Path to the HD (license status) extract")
	importCmd.Flags().BoolVar(&importDownload, "download", false, "Download the weekly FCC extract archive first")
	importCmd.Flags().StringVar(&importDir, "dir", ".", "Directory for downloaded extracts")
}

func runImport(cmd *cobra.Command, args []string) {
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

	entityPath, statusPath := importEntityPath, importStatusPath
	if importDownload {
		log.Println("Downloading FCC amateur license extract...")
		client := service.NewULSClient()
		entityPath, statusPath, err = client.FetchExtract(ctx, importDir)
		if err != nil {
			log.Fatalf("Download failed: %v", err)
		}
		log.Printf("Extracted %s and %s", entityPath, statusPath)
	}

	log.Println("Connecting to database...")
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	licensees := store.NewLicenseeStore(db)
	loader := service.NewLoader(service.NewULSParser(), licensees)

	stats, err := loader.Load(ctx, entityPath, statusPath)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Import cancelled")
			os.Exit(1)
		}
		log.Fatalf("Registry load failed: %v", err)
	}
	loader.PrintSummary(stats)
}
