package epname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// A small corpus of real-world shaped archive member names. Asserts
// aggregate detection rates rather than exact fields, to catch rule
// regressions across the whole cascade.
var corpus = []string{
	"Show.Name.S01E01.1080p.WEB-DL.AAC.x264.mkv",
	"Show.Name.S01E02.1080p.WEB-DL.AAC.x264.mkv",
	"[SubTeam] Another Show - 03 [720p][AAC].mkv",
	"[SubTeam] Another Show - 04 [720p][AAC].mkv",
	"great.series.2x09.HDTV.x265.mp4",
	"great.series.2x10.HDTV.x265.mp4",
	"Documentary.Episode 5.2160p.DDP.mkv",
	"anime_show_ep_E11_1080p.mkv",
	"some_show_[12]_BluRay.mkv",
	"random_file_42.avi",
	"Show.Name.S03E07.720p.HEVC.10bit.Dual-Audio.mkv",
	"Weekly.Show.S10E241.480p.mp4",
	"concert_recording_5.1_FLAC.flac",
	"file_1080p.mkv",
	"notes.txt",
}

func TestParse_Corpus(t *testing.T) {
	var withEpisode, withQuality, withShow int

	for _, name := range corpus {
		info := Parse(name)
		if info.HasEpisode() {
			withEpisode++
		}
		if info.Quality != "" {
			withQuality++
		}
		if info.ShowName != "" {
			withShow++
		}

		// Season must default when an episode is present.
		if info.HasEpisode() {
			assert.GreaterOrEqual(t, info.Season, 1, "season default for %q", name)
		}
	}

	// 12 corpus entries carry an episode; the concert, bare-resolution
	// file, and text file must not.
	assert.Equal(t, 12, withEpisode, "episode detection rate")
	assert.Equal(t, 12, withQuality, "quality detection rate")
	assert.GreaterOrEqual(t, withShow, 13, "show name rate")
}
