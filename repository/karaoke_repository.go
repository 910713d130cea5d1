package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"OnAirFM/model"
)

// KaraokeRepository defines the catalog operations over karaoke files.
// Rows are never hard-deleted here; is_active acts as a soft-delete flag and
// physical removal is the admin layer's business.
type KaraokeRepository interface {
	Create(ctx context.Context, file *model.KaraokeFile) (int64, error)
	Update(ctx context.Context, id int64, patch model.KaraokePatch) error
	GetByID(ctx context.Context, id int64) (*model.KaraokeFile, error)
	Search(ctx context.Context, params model.KaraokeSearchParams) (*model.KaraokeSearchResult, error)
	List(ctx context.Context, params model.KaraokeListParams) (*model.KaraokeListResult, error)
	IncrementPlayCount(ctx context.Context, id int64) error
	UpdateRating(ctx context.Context, id int64, rating float64) error
	GetDuplicates(ctx context.Context) ([]model.KaraokeDuplicate, error)
	GetStats(ctx context.Context) (*model.KaraokeStats, error)
}

// mysqlKaraokeRepository implements KaraokeRepository for MySQL.
type mysqlKaraokeRepository struct {
	db *sql.DB
}

// NewMySQLKaraokeRepository creates a new mysqlKaraokeRepository.
func NewMySQLKaraokeRepository(db *sql.DB) KaraokeRepository {
	return &mysqlKaraokeRepository{db: db}
}

const karaokeColumns = `id, title, artist, language, genre, file_url, lyrics_url,
	duration, file_size, mime_type, search_vector, play_count,
	rating, difficulty, is_explicit, is_active, uploaded_at, updated_at`

// validateKaraokeFile checks the full record against the catalog constraints.
func validateKaraokeFile(f *model.KaraokeFile) error {
	if strings.TrimSpace(f.Title) == "" {
		return validationErr("Title is required")
	}
	if strings.TrimSpace(f.Artist) == "" {
		return validationErr("Artist is required")
	}
	if strings.TrimSpace(f.Language) == "" || len(f.Language) != 2 {
		return validationErr("Language must be a 2-letter code")
	}
	if strings.TrimSpace(f.FileURL) == "" {
		return validationErr("File URL is required")
	}
	if f.FileSize <= 0 {
		return validationErr("File size must be positive")
	}
	if f.Duration < 0 {
		return validationErr("Duration cannot be negative")
	}
	validMime := false
	for _, m := range model.AllowedKaraokeMimeTypes {
		if f.MimeType == m {
			validMime = true
			break
		}
	}
	if !validMime {
		return validationErr("Invalid mime type")
	}
	if f.Rating != nil && (*f.Rating < 0 || *f.Rating > 5) {
		return validationErr("Rating must be between 0 and 5")
	}
	if f.Difficulty != nil && (*f.Difficulty < 1 || *f.Difficulty > 5) {
		return validationErr("Difficulty must be between 1 and 5")
	}
	return nil
}

// buildSearchVector derives the denormalized search string: the lower-cased
// join of the non-empty text fields plus the literal "explicit" marker.
func buildSearchVector(f *model.KaraokeFile) string {
	parts := []string{f.Title, f.Artist, f.Language}
	if f.Genre != nil {
		parts = append(parts, *f.Genre)
	}
	if f.IsExplicit {
		parts = append(parts, "explicit")
	}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}

// mergePatch overlays the non-nil patch fields onto the current record.
func mergePatch(current model.KaraokeFile, patch model.KaraokePatch) model.KaraokeFile {
	merged := current
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Artist != nil {
		merged.Artist = *patch.Artist
	}
	if patch.Language != nil {
		merged.Language = *patch.Language
	}
	if patch.Genre != nil {
		merged.Genre = patch.Genre
	}
	if patch.FileURL != nil {
		merged.FileURL = *patch.FileURL
	}
	if patch.LyricsURL != nil {
		merged.LyricsURL = patch.LyricsURL
	}
	if patch.Duration != nil {
		merged.Duration = *patch.Duration
	}
	if patch.FileSize != nil {
		merged.FileSize = *patch.FileSize
	}
	if patch.MimeType != nil {
		merged.MimeType = *patch.MimeType
	}
	if patch.PlayCount != nil {
		merged.PlayCount = *patch.PlayCount
	}
	if patch.Rating != nil {
		merged.Rating = patch.Rating
	}
	if patch.Difficulty != nil {
		merged.Difficulty = patch.Difficulty
	}
	if patch.IsExplicit != nil {
		merged.IsExplicit = *patch.IsExplicit
	}
	if patch.IsActive != nil {
		merged.IsActive = *patch.IsActive
	}
	return merged
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampPerPage(perPage, fallback int) int {
	if perPage == 0 {
		perPage = fallback
	}
	if perPage < 1 {
		return 1
	}
	if perPage > 100 {
		return 100
	}
	return perPage
}

// searchFilter builds the conjunctive WHERE clause for Search. The count and
// page queries must both be built from this one function so their predicates
// cannot drift apart.
func searchFilter(params model.KaraokeSearchParams) (string, []interface{}) {
	conditions := []string{"is_active = 1"}
	args := []interface{}{}

	if params.Query != "" {
		conditions = append(conditions, "search_vector LIKE ?")
		args = append(args, "%"+strings.ToLower(params.Query)+"%")
	}
	if params.Language != "" {
		conditions = append(conditions, "language = ?")
		args = append(args, params.Language)
	}
	if params.Genre != "" {
		conditions = append(conditions, "genre = ?")
		args = append(args, params.Genre)
	}
	if params.RatingMin != nil {
		conditions = append(conditions, "rating >= ?")
		args = append(args, *params.RatingMin)
	}
	if params.RatingMax != nil {
		conditions = append(conditions, "rating <= ?")
		args = append(args, *params.RatingMax)
	}
	if params.DifficultyMin != nil {
		conditions = append(conditions, "difficulty >= ?")
		args = append(args, *params.DifficultyMin)
	}
	if params.DifficultyMax != nil {
		conditions = append(conditions, "difficulty <= ?")
		args = append(args, *params.DifficultyMax)
	}
	if params.IsExplicit != nil {
		conditions = append(conditions, "is_explicit = ?")
		args = append(args, boolToInt(*params.IsExplicit))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// listFilter builds the conjunctive WHERE clause for List; shared by its
// count and page queries.
func listFilter(params model.KaraokeListParams) (string, []interface{}) {
	conditions := []string{"is_active = 1"}
	args := []interface{}{}

	if strings.TrimSpace(params.Search) != "" {
		conditions = append(conditions, "search_vector LIKE ?")
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
	}

	switch params.Filter {
	case "explicit":
		conditions = append(conditions, "is_explicit = 1")
	case "clean":
		conditions = append(conditions, "is_explicit = 0")
	case "withLyrics":
		conditions = append(conditions, "lyrics_url IS NOT NULL")
	case "noLyrics":
		conditions = append(conditions, "lyrics_url IS NULL")
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

var searchSortColumns = map[string]bool{
	"rating":      true,
	"play_count":  true,
	"uploaded_at": true,
}

// listSortColumns whitelists the columns List may sort by; anything else
// falls back to the default order rather than reaching the SQL string.
var listSortColumns = map[string]bool{
	"title":       true,
	"artist":      true,
	"uploaded_at": true,
	"play_count":  true,
	"rating":      true,
	"duration":    true,
	"file_size":   true,
}

func sortClause(column, order string, allowed map[string]bool) string {
	if !allowed[column] {
		return "ORDER BY uploaded_at DESC"
	}
	direction := "DESC"
	if order == "asc" {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Create validates the entry, derives its search vector, stamps both
// timestamps and inserts the row, returning the assigned id.
func (r *mysqlKaraokeRepository) Create(ctx context.Context, file *model.KaraokeFile) (int64, error) {
	if err := validateKaraokeFile(file); err != nil {
		return 0, err
	}

	searchVector := buildSearchVector(file)
	now := time.Now()

	query := `INSERT INTO karaoke_files (
		title, artist, language, genre, file_url, lyrics_url,
		duration, file_size, mime_type, search_vector, play_count,
		rating, difficulty, is_explicit, is_active, uploaded_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		file.Title, file.Artist, file.Language, nullString(file.Genre),
		file.FileURL, nullString(file.LyricsURL),
		file.Duration, file.FileSize, file.MimeType, searchVector, file.PlayCount,
		nullFloat(file.Rating), nullInt(file.Difficulty),
		boolToInt(file.IsExplicit), boolToInt(file.IsActive), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert karaoke file: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for karaoke file: %w", err)
	}
	return id, nil
}

// Update loads the current row, merges the patch over it, re-validates the
// merged record and overwrites every column. The read-merge-write sequence is
// not transactional; the backing store serializes individual statements only.
func (r *mysqlKaraokeRepository) Update(ctx context.Context, id int64, patch model.KaraokePatch) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("karaoke file %d: %w", id, ErrNotFound)
	}

	merged := mergePatch(*current, patch)
	if err := validateKaraokeFile(&merged); err != nil {
		return err
	}

	searchVector := buildSearchVector(&merged)
	now := time.Now()

	query := `UPDATE karaoke_files SET
		title = ?, artist = ?, language = ?, genre = ?,
		file_url = ?, lyrics_url = ?, duration = ?,
		file_size = ?, mime_type = ?, search_vector = ?,
		play_count = ?, rating = ?, difficulty = ?,
		is_explicit = ?, is_active = ?, updated_at = ?
	WHERE id = ?`

	_, err = r.db.ExecContext(ctx, query,
		merged.Title, merged.Artist, merged.Language, nullString(merged.Genre),
		merged.FileURL, nullString(merged.LyricsURL), merged.Duration,
		merged.FileSize, merged.MimeType, searchVector,
		merged.PlayCount, nullFloat(merged.Rating), nullInt(merged.Difficulty),
		boolToInt(merged.IsExplicit), boolToInt(merged.IsActive), now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update karaoke file %d: %w", id, err)
	}
	return nil
}

// GetByID retrieves a karaoke file by id, or nil when it does not exist.
func (r *mysqlKaraokeRepository) GetByID(ctx context.Context, id int64) (*model.KaraokeFile, error) {
	query := fmt.Sprintf("SELECT %s FROM karaoke_files WHERE id = ?", karaokeColumns)
	row := r.db.QueryRowContext(ctx, query, id)

	file, err := scanKaraokeFile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan karaoke file %d: %w", id, err)
	}
	return file, nil
}

// Search returns one page of matches plus the total count of all rows
// matching the filter, computed by a count query sharing the same predicate.
func (r *mysqlKaraokeRepository) Search(ctx context.Context, params model.KaraokeSearchParams) (*model.KaraokeSearchResult, error) {
	where, args := searchFilter(params)
	sort := sortClause(params.SortBy, params.SortOrder, searchSortColumns)

	page := clampPage(params.Page)
	perPage := clampPerPage(params.PerPage, 20)
	offset := (page - 1) * perPage

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM karaoke_files %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count karaoke search results: %w", err)
	}

	pageQuery := fmt.Sprintf("SELECT %s FROM karaoke_files %s %s LIMIT ? OFFSET ?",
		karaokeColumns, where, sort)
	rows, err := r.db.QueryContext(ctx, pageQuery, append(args, perPage, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query karaoke search results: %w", err)
	}
	defer rows.Close()

	files, err := collectKaraokeFiles(rows)
	if err != nil {
		return nil, err
	}
	return &model.KaraokeSearchResult{Data: files, Total: total}, nil
}

// List is the admin-facing listing with categorical filters.
func (r *mysqlKaraokeRepository) List(ctx context.Context, params model.KaraokeListParams) (*model.KaraokeListResult, error) {
	where, args := listFilter(params)
	sort := sortClause(params.Sort, params.Order, listSortColumns)

	page := clampPage(params.Page)
	limit := clampPerPage(params.Limit, 10)
	offset := (page - 1) * limit

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM karaoke_files %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count karaoke list results: %w", err)
	}

	pageQuery := fmt.Sprintf("SELECT %s FROM karaoke_files %s %s LIMIT ? OFFSET ?",
		karaokeColumns, where, sort)
	rows, err := r.db.QueryContext(ctx, pageQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query karaoke list results: %w", err)
	}
	defer rows.Close()

	files, err := collectKaraokeFiles(rows)
	if err != nil {
		return nil, err
	}
	return &model.KaraokeListResult{Files: files, Total: total}, nil
}

// IncrementPlayCount bumps play_count unconditionally. An absent id affects
// zero rows and is not an error.
func (r *mysqlKaraokeRepository) IncrementPlayCount(ctx context.Context, id int64) error {
	query := `UPDATE karaoke_files SET play_count = play_count + 1, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to increment play count for karaoke file %d: %w", id, err)
	}
	return nil
}

// UpdateRating applies the running-average rule: a null stored rating takes
// the new value, otherwise the stored value moves halfway toward it. The
// result depends on call order; that is the established product behavior.
func (r *mysqlKaraokeRepository) UpdateRating(ctx context.Context, id int64, rating float64) error {
	if rating < 0 || rating > 5 {
		return validationErr("Rating must be between 0 and 5")
	}

	query := `UPDATE karaoke_files
		SET rating = (CASE WHEN rating IS NULL THEN ? ELSE (rating + ?) / 2 END),
		    updated_at = ?
		WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, rating, rating, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update rating for karaoke file %d: %w", id, err)
	}
	return nil
}

// GetDuplicates reads the karaoke_duplicates view.
func (r *mysqlKaraokeRepository) GetDuplicates(ctx context.Context) ([]model.KaraokeDuplicate, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT title, artist, copies, ids FROM karaoke_duplicates")
	if err != nil {
		return nil, fmt.Errorf("failed to query karaoke duplicates: %w", err)
	}
	defer rows.Close()

	duplicates := make([]model.KaraokeDuplicate, 0)
	for rows.Next() {
		var d model.KaraokeDuplicate
		if err := rows.Scan(&d.Title, &d.Artist, &d.Copies, &d.IDs); err != nil {
			return nil, fmt.Errorf("failed to scan karaoke duplicate row: %w", err)
		}
		duplicates = append(duplicates, d)
	}
	return duplicates, rows.Err()
}

// GetStats reads the karaoke_stats view.
func (r *mysqlKaraokeRepository) GetStats(ctx context.Context) (*model.KaraokeStats, error) {
	query := `SELECT total_files, active_files, explicit_files, with_lyrics,
		languages, total_plays, avg_rating FROM karaoke_stats`
	row := r.db.QueryRowContext(ctx, query)

	var s model.KaraokeStats
	var totalPlays sql.NullInt64
	var avgRating sql.NullFloat64
	err := row.Scan(&s.TotalFiles, &s.ActiveFiles, &s.ExplicitFiles, &s.WithLyrics,
		&s.Languages, &totalPlays, &avgRating)
	if err != nil {
		return nil, fmt.Errorf("failed to scan karaoke stats: %w", err)
	}
	if totalPlays.Valid {
		s.TotalPlays = totalPlays.Int64
	}
	if avgRating.Valid {
		s.AvgRating = &avgRating.Float64
	}
	return &s, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanKaraokeFile scans one row, converting nullable columns to pointers and
// coercing the 0/1 boolean encoding back to real booleans.
func scanKaraokeFile(row rowScanner) (*model.KaraokeFile, error) {
	var f model.KaraokeFile
	var genre, lyricsURL, searchVector sql.NullString
	var rating sql.NullFloat64
	var difficulty sql.NullInt64
	var isExplicit, isActive int64

	err := row.Scan(
		&f.ID, &f.Title, &f.Artist, &f.Language, &genre, &f.FileURL, &lyricsURL,
		&f.Duration, &f.FileSize, &f.MimeType, &searchVector, &f.PlayCount,
		&rating, &difficulty, &isExplicit, &isActive, &f.UploadedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if genre.Valid {
		f.Genre = &genre.String
	}
	if lyricsURL.Valid {
		f.LyricsURL = &lyricsURL.String
	}
	if searchVector.Valid {
		f.SearchVector = searchVector.String
	}
	if rating.Valid {
		f.Rating = &rating.Float64
	}
	if difficulty.Valid {
		d := int(difficulty.Int64)
		f.Difficulty = &d
	}
	f.IsExplicit = isExplicit != 0
	f.IsActive = isActive != 0
	return &f, nil
}

func collectKaraokeFiles(rows *sql.Rows) ([]*model.KaraokeFile, error) {
	files := make([]*model.KaraokeFile, 0)
	for rows.Next() {
		file, err := scanKaraokeFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan karaoke file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during karaoke rows iteration: %w", err)
	}
	return files, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
