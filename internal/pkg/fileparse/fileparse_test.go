package fileparse

import "testing"

func TestSeasonEpisode(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		season   string
		episode  string
	}{
		{"standard", "Show.S01E02.mkv", "01", "02"},
		{"ep form", "Show S03EP12 720p.mkv", "03", "12"},
		{"spaced", "Show S2 E7.mp4", "2", "7"},
		{"full text", "Show Season 1 Episode 2.mkv", "1", "2"},
		{"bracketed", "[S01][E04] Show.mkv", "01", "04"},
		{"loose season", "Show S02 - 13.mkv", "02", "13"},
		{"episode only", "Show Episode 13.mkv", "", "13"},
		{"bare number", "Show 07 final.mkv", "", "07"},
		{"nothing", "Movie.mkv", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			season, episode := SeasonEpisode(tc.filename)
			if season != tc.season || episode != tc.episode {
				t.Fatalf("SeasonEpisode(%q) = (%q, %q), want (%q, %q)",
					tc.filename, season, episode, tc.season, tc.episode)
			}
		})
	}
}

func TestSeasonEpisodeDeterministic(t *testing.T) {
	s1, e1 := SeasonEpisode("Show.S01E02.mkv")
	s2, e2 := SeasonEpisode("Show.S01E02.mkv")
	if s1 != s2 || e1 != e2 {
		t.Fatalf("non-deterministic result: (%q,%q) vs (%q,%q)", s1, e1, s2, e2)
	}
}

func TestQuality(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"Show.S01E02.1080p.mkv", "1080p"},
		{"Show 720P.mkv", "720P"},
		{"Show.1080i.ts", "1080i"},
		// A numeric resolution token is matched by the generic rule
		// before the 4k/2k aliases are consulted.
		{"Show 2160p.mkv", "2160p"},
		{"Show 1440p.mkv", "1440p"},
		{"Show 4k.mkv", "4k"},
		{"Show 2K remux.mkv", "2k"},
		{"Show.HDRip.mkv", "HDRip"},
		{"Show HDTV x264.mkv", "HDTV"},
		{"Show [480p].mkv", "480p"},
		{"Movie.mkv", QualityUnknown},
		// First rule in priority order wins.
		{"1080p [720p]", "1080p"},
	}
	for _, tc := range cases {
		if got := Quality(tc.filename); got != tc.want {
			t.Fatalf("Quality(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestApplyTemplate(t *testing.T) {
	got := ApplyTemplate("Overflow [S{season}E{episode}] {quality}", "Overflow.S01E08.1080p.mkv")
	want := "Overflow [S01E08] 1080p"
	if got != want {
		t.Fatalf("ApplyTemplate = %q, want %q", got, want)
	}

	got = ApplyTemplate("X E{episode} {quality}", "plain.mkv")
	if got != "X E Unknown" {
		t.Fatalf("ApplyTemplate fallback = %q", got)
	}
}
