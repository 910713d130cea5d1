package model

import "time"

// Mime types accepted for karaoke audio files.
var AllowedKaraokeMimeTypes = []string{"audio/mpeg", "audio/mp4", "audio/wav", "audio/ogg"}

// KaraokeFile represents one row of the karaoke_files table. Optional
// columns are pointers so a missing value survives the trip through JSON
// and the database as a real null.
type KaraokeFile struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	Language     string    `json:"language"` // 2-letter code
	Genre        *string   `json:"genre,omitempty"`
	FileURL      string    `json:"fileUrl"`
	LyricsURL    *string   `json:"lyricsUrl,omitempty"`
	Duration     float64   `json:"duration"` // seconds
	FileSize     int64     `json:"fileSize"` // bytes
	MimeType     string    `json:"mimeType"`
	SearchVector string    `json:"-"` // derived, recomputed on every write
	PlayCount    int64     `json:"playCount"`
	Rating       *float64  `json:"rating,omitempty"`     // [0,5]
	Difficulty   *int      `json:"difficulty,omitempty"` // [1,5]
	IsExplicit   bool      `json:"isExplicit"`
	IsActive     bool      `json:"isActive"`
	UploadedAt   time.Time `json:"uploadedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// KaraokePatch is a partial update of a KaraokeFile. Nil fields are left
// untouched; the merged record is re-validated as a whole before writing.
type KaraokePatch struct {
	Title      *string  `json:"title,omitempty"`
	Artist     *string  `json:"artist,omitempty"`
	Language   *string  `json:"language,omitempty"`
	Genre      *string  `json:"genre,omitempty"`
	FileURL    *string  `json:"fileUrl,omitempty"`
	LyricsURL  *string  `json:"lyricsUrl,omitempty"`
	Duration   *float64 `json:"duration,omitempty"`
	FileSize   *int64   `json:"fileSize,omitempty"`
	MimeType   *string  `json:"mimeType,omitempty"`
	PlayCount  *int64   `json:"playCount,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Difficulty *int     `json:"difficulty,omitempty"`
	IsExplicit *bool    `json:"isExplicit,omitempty"`
	IsActive   *bool    `json:"isActive,omitempty"`
}

// KaraokeSearchParams filters the catalog search. Zero-value strings and nil
// pointers mean "no constraint".
type KaraokeSearchParams struct {
	Query         string   `json:"query,omitempty"`
	Language      string   `json:"language,omitempty"`
	Genre         string   `json:"genre,omitempty"`
	RatingMin     *float64 `json:"ratingMin,omitempty"`
	RatingMax     *float64 `json:"ratingMax,omitempty"`
	DifficultyMin *int     `json:"difficultyMin,omitempty"`
	DifficultyMax *int     `json:"difficultyMax,omitempty"`
	IsExplicit    *bool    `json:"isExplicit,omitempty"`
	SortBy        string   `json:"sortBy,omitempty"` // rating, play_count, uploaded_at
	SortOrder     string   `json:"sortOrder,omitempty"`
	Page          int      `json:"page,omitempty"`
	PerPage       int      `json:"perPage,omitempty"`
}

// KaraokeListParams drives the admin listing endpoint. Filter is one of
// explicit, clean, withLyrics, noLyrics.
type KaraokeListParams struct {
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Search string `json:"search,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Order  string `json:"order,omitempty"`
	Filter string `json:"filter,omitempty"`
}

// KaraokeSearchResult is one page of search hits plus the total count of all
// rows matching the filter.
type KaraokeSearchResult struct {
	Data  []*KaraokeFile `json:"data"`
	Total int64          `json:"total"`
}

// KaraokeListResult is one page of the admin listing.
type KaraokeListResult struct {
	Files []*KaraokeFile `json:"files"`
	Total int64          `json:"total"`
}

// KaraokeDuplicate is one row of the karaoke_duplicates view.
type KaraokeDuplicate struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Copies int64  `json:"copies"`
	IDs    string `json:"ids"` // comma separated row ids
}

// KaraokeStats is the single row of the karaoke_stats view.
type KaraokeStats struct {
	TotalFiles    int64    `json:"totalFiles"`
	ActiveFiles   int64    `json:"activeFiles"`
	ExplicitFiles int64    `json:"explicitFiles"`
	WithLyrics    int64    `json:"withLyrics"`
	Languages     int64    `json:"languages"`
	TotalPlays    int64    `json:"totalPlays"`
	AvgRating     *float64 `json:"avgRating"`
}
