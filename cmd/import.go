package cmd

import (
	"context"
	"fmt"
	"log"

	"OnAirFM/config"
	"OnAirFM/core/importer"
	"OnAirFM/db"
	"OnAirFM/logger"
	"OnAirFM/repository"
	"OnAirFM/storage"

	"github.com/spf13/cobra"
)

var (
	importDir      string
	importWatch    bool
	importLanguage string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import karaoke files from a directory",
	Long:  `Import karaoke files named "Artist - Title.ext" from a local directory into object storage and the catalog. With --watch the command keeps running and imports files as they appear.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		dir := importDir
		if dir == "" {
			dir = cfg.ImportDir
		}

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to initialize MinIO: %v", err)
		}
		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		imp := importer.New(repository.NewMySQLKaraokeRepository(db.DB), importLanguage)

		ctx := context.Background()
		if importWatch {
			if err := imp.Watch(ctx, dir); err != nil {
				log.Fatalf("Watch failed: %v", err)
			}
			return
		}

		count, err := imp.ImportDir(ctx, dir)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("Imported %d file(s) from %s\n", count, dir)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importDir, "dir", "d", "", "directory to import from (defaults to IMPORT_DIR)")
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "keep running and import files as they appear")
	importCmd.Flags().StringVarP(&importLanguage, "language", "l", "en", "2-letter language code applied to imported entries")
}
