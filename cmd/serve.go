package cmd

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"

	"github.com/jwalters/qslpress/internal/config"
	"github.com/jwalters/qslpress/internal/handlers"
	"github.com/jwalters/qslpress/internal/store"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the licensee registry lookup server",
	Long:  `Start a read-only JSON API for looking up licensee records by callsign.`,
	Run: func(cmd *cobra.Command, args []string) {
		// An explicit --port wins; otherwise the PORT env var overrides
		// the default.
		port = resolvePort(port, cmd.Flags().Changed("port"), os.Getenv("PORT"))

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}

		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		licensees := store.NewLicenseeStore(db)

		app := fiber.New(fiber.Config{
			AppName: "qslpress registry",
		})

		app.Use(logger.New())

		// Routes
		app.Get("/", handlers.HomeHandler(licensees))
		app.Get("/licensees/:callsign", handlers.LicenseeHandler(licensees))

		log.Printf("Starting server on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to run the server on")
}

// resolvePort picks the listen port: an explicitly set flag beats the
// PORT env var, which beats the flag default.
func resolvePort(flagValue string, flagSet bool, envPort string) string {
	if flagSet || envPort == "" {
		return flagValue
	}
	return envPort
}
