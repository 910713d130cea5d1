package cmd

import (
	"fmt"
	"log"

	"OnAirFM/config"
	"OnAirFM/db"
	"OnAirFM/logger"
	"OnAirFM/model"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Create the users and karaoke tables, the reporting views, and run the GORM migrations for songs, playlists and shows.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		if err := db.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to connect GORM: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.AutoMigrateModels(
			&model.Song{},
			&model.Playlist{},
			&model.PlaylistSong{},
			&model.Show{},
		); err != nil {
			log.Fatalf("Failed to migrate models: %v", err)
		}

		fmt.Println("Migration complete.")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
