package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"

	"github.com/scorebox/scorebox/config"
	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/importer"
	"github.com/scorebox/scorebox/logger"
	"github.com/scorebox/scorebox/web"
)

func initLogging() {
	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())
	initLogging()

	if err := database.InitDB(config.GetDBPath()); err != nil {
		log.Fatal(err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatal(err)
	}

	server := web.NewServer(settings)
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("reloading server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(settings)
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			logger.CloseLogger()
			return
		}
	}
}

func runImport(dir string) {
	initLogging()

	if err := database.InitDB(config.GetDBPath()); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close db err:", err)
		}
	}()

	if err := importer.New().ImportDir(dir); err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	var dataDir string

	rootCmd := &cobra.Command{
		Use:   "scorebox",
		Short: "REST backend for the scorebox review platform",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the API server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Seed the database from CSV files",
		Run: func(cmd *cobra.Command, args []string) {
			runImport(dataDir)
		},
	}
	importCmd.Flags().StringVar(&dataDir, "dir", "data", "directory with CSV files")

	rootCmd.AddCommand(runCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
