package repository

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"OnAirFM/model"
)

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int          { return &i }
func boolPtr(b bool) *bool       { return &b }

func validKaraokeFile() model.KaraokeFile {
	return model.KaraokeFile{
		Title:    "Bohemian Rhapsody",
		Artist:   "Queen",
		Language: "en",
		FileURL:  "/files/karaoke/abc.mp3",
		FileSize: 4_200_000,
		Duration: 355,
		MimeType: "audio/mpeg",
		IsActive: true,
	}
}

func TestValidateKaraokeFile(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *model.KaraokeFile)
		wantMsg string
	}{
		{"valid", func(f *model.KaraokeFile) {}, ""},
		{"empty title", func(f *model.KaraokeFile) { f.Title = "" }, "Title is required"},
		{"whitespace title", func(f *model.KaraokeFile) { f.Title = "   " }, "Title is required"},
		{"empty artist", func(f *model.KaraokeFile) { f.Artist = "" }, "Artist is required"},
		{"one letter language", func(f *model.KaraokeFile) { f.Language = "e" }, "Language must be a 2-letter code"},
		{"three letter language", func(f *model.KaraokeFile) { f.Language = "eng" }, "Language must be a 2-letter code"},
		{"empty file url", func(f *model.KaraokeFile) { f.FileURL = "" }, "File URL is required"},
		{"zero file size", func(f *model.KaraokeFile) { f.FileSize = 0 }, "File size must be positive"},
		{"negative duration", func(f *model.KaraokeFile) { f.Duration = -1 }, "Duration cannot be negative"},
		{"zero duration ok", func(f *model.KaraokeFile) { f.Duration = 0 }, ""},
		{"webm mime", func(f *model.KaraokeFile) { f.MimeType = "audio/webm" }, "Invalid mime type"},
		{"rating above range", func(f *model.KaraokeFile) { f.Rating = floatPtr(5.1) }, "Rating must be between 0 and 5"},
		{"rating below range", func(f *model.KaraokeFile) { f.Rating = floatPtr(-0.1) }, "Rating must be between 0 and 5"},
		{"rating at bounds ok", func(f *model.KaraokeFile) { f.Rating = floatPtr(5) }, ""},
		{"nil rating ok", func(f *model.KaraokeFile) { f.Rating = nil }, ""},
		{"difficulty zero", func(f *model.KaraokeFile) { f.Difficulty = intPtr(0) }, "Difficulty must be between 1 and 5"},
		{"difficulty six", func(f *model.KaraokeFile) { f.Difficulty = intPtr(6) }, "Difficulty must be between 1 and 5"},
		{"difficulty one ok", func(f *model.KaraokeFile) { f.Difficulty = intPtr(1) }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validKaraokeFile()
			tt.mutate(&f)
			err := validateKaraokeFile(&f)

			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", vErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestBuildSearchVector(t *testing.T) {
	f := validKaraokeFile()
	if got, want := buildSearchVector(&f), "bohemian rhapsody queen en"; got != want {
		t.Errorf("buildSearchVector = %q, want %q", got, want)
	}

	f.Genre = strPtr("Rock")
	if got, want := buildSearchVector(&f), "bohemian rhapsody queen en rock"; got != want {
		t.Errorf("with genre = %q, want %q", got, want)
	}

	f.IsExplicit = true
	if got, want := buildSearchVector(&f), "bohemian rhapsody queen en rock explicit"; got != want {
		t.Errorf("with explicit = %q, want %q", got, want)
	}

	// An empty genre string is dropped rather than leaving a double space.
	f.Genre = strPtr("")
	if got, want := buildSearchVector(&f), "bohemian rhapsody queen en explicit"; got != want {
		t.Errorf("with empty genre = %q, want %q", got, want)
	}
}

func TestMergePatch(t *testing.T) {
	current := validKaraokeFile()
	current.ID = 7
	current.Genre = strPtr("Rock")
	current.Rating = floatPtr(4.5)
	current.PlayCount = 12

	merged := mergePatch(current, model.KaraokePatch{
		Title:      strPtr("Somebody to Love"),
		IsExplicit: boolPtr(true),
	})

	if merged.Title != "Somebody to Love" {
		t.Errorf("Title = %q, want patched value", merged.Title)
	}
	if !merged.IsExplicit {
		t.Error("IsExplicit not applied")
	}

	// Untouched fields keep their current values.
	if merged.Artist != current.Artist || merged.Language != current.Language {
		t.Error("untouched string fields changed")
	}
	if merged.Genre == nil || *merged.Genre != "Rock" {
		t.Error("untouched genre changed")
	}
	if merged.Rating == nil || *merged.Rating != 4.5 {
		t.Error("untouched rating changed")
	}
	if merged.PlayCount != 12 {
		t.Errorf("PlayCount = %d, want 12", merged.PlayCount)
	}

	// An empty patch is the identity.
	if got := mergePatch(current, model.KaraokePatch{}); !reflect.DeepEqual(got, current) {
		t.Error("empty patch changed the record")
	}
}

func TestClampPage(t *testing.T) {
	for _, tt := range []struct{ in, want int }{
		{0, 1}, {-3, 1}, {1, 1}, {42, 42},
	} {
		if got := clampPage(tt.in); got != tt.want {
			t.Errorf("clampPage(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClampPerPage(t *testing.T) {
	for _, tt := range []struct{ in, fallback, want int }{
		{0, 20, 20},  // default applies only to the zero value
		{0, 10, 10},
		{-5, 20, 1},  // explicit junk clamps, it does not default
		{1, 20, 1},
		{100, 20, 100},
		{101, 20, 100},
	} {
		if got := clampPerPage(tt.in, tt.fallback); got != tt.want {
			t.Errorf("clampPerPage(%d, %d) = %d, want %d", tt.in, tt.fallback, got, tt.want)
		}
	}
}

func TestSearchFilterDefault(t *testing.T) {
	where, args := searchFilter(model.KaraokeSearchParams{})
	if where != "WHERE is_active = 1" {
		t.Errorf("where = %q", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestSearchFilterAllConstraints(t *testing.T) {
	where, args := searchFilter(model.KaraokeSearchParams{
		Query:         "QUEEN",
		Language:      "en",
		Genre:         "Rock",
		RatingMin:     floatPtr(3),
		RatingMax:     floatPtr(5),
		DifficultyMin: intPtr(1),
		DifficultyMax: intPtr(4),
		IsExplicit:    boolPtr(false),
	})

	for _, cond := range []string{
		"is_active = 1",
		"search_vector LIKE ?",
		"language = ?",
		"genre = ?",
		"rating >= ?",
		"rating <= ?",
		"difficulty >= ?",
		"difficulty <= ?",
		"is_explicit = ?",
	} {
		if !strings.Contains(where, cond) {
			t.Errorf("where %q missing condition %q", where, cond)
		}
	}

	want := []interface{}{"%queen%", "en", "Rock", 3.0, 5.0, 1, 4, 0}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestListFilter(t *testing.T) {
	tests := []struct {
		filter string
		cond   string
	}{
		{"explicit", "is_explicit = 1"},
		{"clean", "is_explicit = 0"},
		{"withLyrics", "lyrics_url IS NOT NULL"},
		{"noLyrics", "lyrics_url IS NULL"},
	}
	for _, tt := range tests {
		where, _ := listFilter(model.KaraokeListParams{Filter: tt.filter})
		if !strings.Contains(where, tt.cond) {
			t.Errorf("filter %q: where %q missing %q", tt.filter, where, tt.cond)
		}
	}

	// Unknown filters add nothing.
	where, args := listFilter(model.KaraokeListParams{Filter: "bogus"})
	if where != "WHERE is_active = 1" || len(args) != 0 {
		t.Errorf("unknown filter produced %q %v", where, args)
	}

	// Whitespace-only search is no search at all.
	where, args = listFilter(model.KaraokeListParams{Search: "   "})
	if where != "WHERE is_active = 1" || len(args) != 0 {
		t.Errorf("blank search produced %q %v", where, args)
	}

	where, args = listFilter(model.KaraokeListParams{Search: "Queen"})
	if !strings.Contains(where, "search_vector LIKE ?") {
		t.Errorf("search missing LIKE: %q", where)
	}
	if !reflect.DeepEqual(args, []interface{}{"%queen%"}) {
		t.Errorf("search args = %v", args)
	}
}

func TestSortClause(t *testing.T) {
	tests := []struct {
		column, order string
		allowed       map[string]bool
		want          string
	}{
		{"rating", "asc", searchSortColumns, "ORDER BY rating ASC"},
		{"play_count", "desc", searchSortColumns, "ORDER BY play_count DESC"},
		{"play_count", "", searchSortColumns, "ORDER BY play_count DESC"},
		{"title", "asc", listSortColumns, "ORDER BY title ASC"},
		// Unknown columns fall back to the default order. This is the only
		// path for attacker-controlled column names.
		{"title", "asc", searchSortColumns, "ORDER BY uploaded_at DESC"},
		{"id; DROP TABLE karaoke_files", "asc", listSortColumns, "ORDER BY uploaded_at DESC"},
		{"", "", listSortColumns, "ORDER BY uploaded_at DESC"},
	}
	for _, tt := range tests {
		if got := sortClause(tt.column, tt.order, tt.allowed); got != tt.want {
			t.Errorf("sortClause(%q, %q) = %q, want %q", tt.column, tt.order, got, tt.want)
		}
	}
}

func TestNullString(t *testing.T) {
	if nullString(nil).Valid {
		t.Error("nil should not be valid")
	}
	// Empty strings store as NULL, matching the optional-field semantics.
	if nullString(strPtr("")).Valid {
		t.Error("empty string should store as NULL")
	}
	ns := nullString(strPtr("Rock"))
	if !ns.Valid || ns.String != "Rock" {
		t.Errorf("nullString = %+v", ns)
	}
}
