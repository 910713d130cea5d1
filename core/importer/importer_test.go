package importer

import "testing"

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		artist     string
		title      string
		ok         bool
	}{
		{"simple", "Queen - Bohemian Rhapsody.mp3", "Queen", "Bohemian Rhapsody", true},
		{"dash in title", "ABBA - Gimme! Gimme! Gimme! - A Man After Midnight.mp3", "ABBA", "Gimme! Gimme! Gimme! - A Man After Midnight", true},
		{"extra spaces", "  Queen  -  Somebody to Love .m4a", "Queen", "Somebody to Love", true},
		{"no separator", "bohemian_rhapsody.mp3", "", "", false},
		{"empty artist", " - Title.mp3", "", "", false},
		{"empty title", "Artist - .mp3", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artist, title, ok := parseFilename(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if artist != tt.artist || title != tt.title {
				t.Errorf("got (%q, %q), want (%q, %q)", artist, title, tt.artist, tt.title)
			}
		})
	}
}

func TestMimeByExtension(t *testing.T) {
	if mimeByExtension[".mp3"] != "audio/mpeg" {
		t.Errorf(".mp3 = %q", mimeByExtension[".mp3"])
	}
	if _, ok := mimeByExtension[".flac"]; ok {
		t.Error(".flac should not be importable")
	}
}
