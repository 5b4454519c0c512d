package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cmorgan-dev/go-dict-engine/api"
	"github.com/cmorgan-dev/go-dict-engine/config"
	"github.com/cmorgan-dev/go-dict-engine/internal/catalog"
	"github.com/cmorgan-dev/go-dict-engine/internal/dict"
	"github.com/cmorgan-dev/go-dict-engine/internal/history"
	"github.com/cmorgan-dev/go-dict-engine/internal/jobs"
	"github.com/cmorgan-dev/go-dict-engine/internal/session"
	"github.com/cmorgan-dev/go-dict-engine/model"
	"github.com/cmorgan-dev/go-dict-engine/services"
)

const maxRequestSize = 10 << 20 // 10 MiB

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "./dict_engine.yaml", "Path to the configuration file")
		port       = flag.String("port", "", "Port to run the server on (overrides config)")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Go Dict Engine - A dictionary catalog and merged-search service\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                               # Start with ./dict_engine.yaml\n", os.Args[0])
		fmt.Printf("  %s --config /etc/dict.yaml       # Use a custom config file\n", os.Args[0])
		fmt.Printf("  %s --port 9000                   # Override the configured port\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Go Dict Engine v1.0.0\n")
		fmt.Printf("Profile catalog, union groups and merged incremental/full-text search\n")
		return
	}

	// Environment overrides from a .env file, when present
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		settings.Port = *port
	}
	log.Printf("Using data directory: %s", settings.DataDir)

	// Load the profile catalog and pick up any library changes since the
	// last run.
	cat, err := catalog.LoadFromFile(settings.LibraryFile())
	if err != nil {
		log.Fatalf("Failed to load library: %v", err)
	}
	cat.SetDefaultOptions(settings.DefaultOptions)
	if len(settings.LibraryRoots) > 0 {
		if err := cat.RefreshLibrary(settings.LibraryRoots); err != nil {
			log.Printf("Warning: initial library scan failed: %v", err)
		} else if err := cat.Save(); err != nil {
			log.Printf("Warning: failed to save library: %v", err)
		}
	}

	historyStore, err := history.Open(settings.HistoryDBFile())
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer historyStore.Close()

	jobManager := jobs.NewManager(2)
	jobManager.Start()
	defer jobManager.Stop()

	sess := session.New(cat, services.OpenerFunc(func(p *model.Profile) (services.Dictionary, error) {
		return dict.Open(p)
	}))
	defer sess.Close()

	// Remember the opened profile so the next start can restore it.
	sess.SetOpenHook(func(id model.ProfileID) {
		settings.LastMainProfileID = id
		if err := settings.Save(); err != nil {
			log.Printf("Warning: failed to save config: %v", err)
		}
	})
	sess.OpenStartupProfile(settings.LastMainProfileID)

	// Rescan when library roots change on disk.
	if settings.WatchLibrary && len(settings.LibraryRoots) > 0 {
		watcher, err := catalog.NewWatcher(settings.LibraryRoots, func() {
			err := sess.UpdateCatalog(func(m *catalog.Manager) error {
				if err := m.RefreshLibrary(settings.LibraryRoots); err != nil {
					return err
				}
				return m.Save()
			})
			if err != nil {
				log.Printf("Warning: watcher-triggered refresh failed: %v", err)
			}
		})
		if err != nil {
			log.Printf("Warning: cannot watch library roots: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	// Initialize Gin router
	router := gin.Default()
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestIDMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(maxRequestSize))

	// Setup API routes
	api.SetupRoutes(router, api.NewAPI(sess, jobManager, historyStore, settings))

	// Start the server
	log.Printf("Starting server on port %s...", settings.Port)
	if err := router.Run(":" + settings.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
