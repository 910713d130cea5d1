package db

import (
	"database/sql"
	"fmt"

	"OnAirFM/config"
	"OnAirFM/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to the database")
	return nil
}

// InitDB initializes the database schema, creating tables and views if they
// don't exist. The GORM-owned tables (songs, playlists, shows) are migrated
// separately via AutoMigrateModels.
func InitDB() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createKaraokeFilesTable(); err != nil {
		return err
	}
	if err := createKaraokeViews(); err != nil {
		return err
	}

	logger.Info("Database initialization completed")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func createKaraokeFilesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS karaoke_files (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		artist VARCHAR(255) NOT NULL,
		language CHAR(2) NOT NULL,
		genre VARCHAR(100),
		file_url VARCHAR(767) NOT NULL,
		lyrics_url VARCHAR(767),
		duration FLOAT NOT NULL DEFAULT 0,
		file_size BIGINT NOT NULL,
		mime_type VARCHAR(50) NOT NULL,
		search_vector TEXT,
		play_count INT NOT NULL DEFAULT 0,
		rating FLOAT,
		difficulty TINYINT,
		is_explicit TINYINT(1) NOT NULL DEFAULT 0,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		uploaded_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		INDEX idx_karaoke_active (is_active),
		INDEX idx_karaoke_language (language),
		INDEX idx_karaoke_uploaded (uploaded_at)
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create karaoke_files table: %w", err)
	}
	return nil
}

// createKaraokeViews creates the reporting views read by the catalog's
// GetDuplicates and GetStats pass-throughs.
func createKaraokeViews() error {
	duplicates := `
	CREATE OR REPLACE VIEW karaoke_duplicates AS
	SELECT LOWER(title) AS title, LOWER(artist) AS artist, COUNT(*) AS copies,
	       GROUP_CONCAT(id ORDER BY id) AS ids
	FROM karaoke_files
	WHERE is_active = 1
	GROUP BY LOWER(title), LOWER(artist)
	HAVING COUNT(*) > 1;
	`
	if _, err := DB.Exec(duplicates); err != nil {
		return fmt.Errorf("failed to create karaoke_duplicates view: %w", err)
	}

	stats := `
	CREATE OR REPLACE VIEW karaoke_stats AS
	SELECT COUNT(*) AS total_files,
	       SUM(CASE WHEN is_active = 1 THEN 1 ELSE 0 END) AS active_files,
	       SUM(CASE WHEN is_explicit = 1 THEN 1 ELSE 0 END) AS explicit_files,
	       SUM(CASE WHEN lyrics_url IS NOT NULL THEN 1 ELSE 0 END) AS with_lyrics,
	       COUNT(DISTINCT language) AS languages,
	       SUM(play_count) AS total_plays,
	       AVG(rating) AS avg_rating
	FROM karaoke_files;
	`
	if _, err := DB.Exec(stats); err != nil {
		return fmt.Errorf("failed to create karaoke_stats view: %w", err)
	}
	return nil
}
