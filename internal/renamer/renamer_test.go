// internal/renamer/renamer_test.go
package renamer

import (
	"strings"
	"testing"

	"github.com/vmunix/unzipr/pkg/epname"
)

func fullName() epname.ParsedName {
	return epname.ParsedName{
		Season:      2,
		Episode:     5,
		Quality:     "1080p",
		Audio:       "AAC",
		ShowName:    "Show Name",
		RawFilename: "Show.Name.S02E05.1080p.AAC.mkv",
		Extension:   "mkv",
	}
}

func TestRender_DefaultTemplate(t *testing.T) {
	got := Render("", Context{Name: fullName(), Channel: "MyChannel"})
	want := "[S02 - E05] Show Name [1080p] [AAC] @MyChannel.mkv"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_AllPlaceholdersReplaced(t *testing.T) {
	const template = "{Season}.{Episode}.{ShowName}.{Quality}.{Audio}.{Channel}.{Extension}"
	got := Render(template, Context{Name: fullName(), Channel: "Chan"})

	if strings.ContainsAny(got, "{}") {
		t.Errorf("placeholders survived in %q", got)
	}
	if got != "02.05.Show Name.1080p.AAC.Chan.mkv" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_UnknownPlaceholderSurvives(t *testing.T) {
	got := Render("{Seasn} {Episode}.{Extension}", Context{Name: fullName()})
	if !strings.Contains(got, "{Seasn}") {
		t.Errorf("typo placeholder was dropped: %q", got)
	}
}

func TestRender_Fallbacks(t *testing.T) {
	name := epname.ParsedName{
		RawFilename: "mystery_file.mkv",
		Extension:   "mkv",
	}
	got := Render("S{Season}E{Episode} {ShowName} {Quality}.{Extension}", Context{Name: name})
	want := "S01EXX mystery_file Unknown.mkv"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_CustomFallbacks(t *testing.T) {
	name := epname.ParsedName{RawFilename: "f.mkv", Extension: "mkv"}
	got := Render("S{Season}E{Episode}", Context{
		Name:            name,
		SeasonFallback:  "00",
		EpisodeFallback: "--",
	})
	if got != "S00E--" {
		t.Errorf("Render() = %q, want S00E--", got)
	}
}

func TestRender_PadWidth(t *testing.T) {
	got := Render("S{Season}E{Episode}", Context{Name: fullName(), PadWidth: 3})
	if got != "S002E005" {
		t.Errorf("Render() = %q, want S002E005", got)
	}
}

func TestRender_ExtensionLowercased(t *testing.T) {
	name := fullName()
	name.Extension = "MKV"
	got := Render("{ShowName}.{Extension}", Context{Name: name})
	if got != "Show Name.mkv" {
		t.Errorf("Render() = %q, want %q", got, "Show Name.mkv")
	}
}

func TestRender_SanitizesIllegalChars(t *testing.T) {
	name := fullName()
	name.ShowName = `What: If/Maybe?`
	got := Render("{ShowName}.{Extension}", Context{Name: name})
	if strings.ContainsAny(got, `<>:"/\|?*`) {
		t.Errorf("illegal characters survived: %q", got)
	}
}

func TestRender_TruncatesPreservingExtension(t *testing.T) {
	name := fullName()
	name.ShowName = strings.Repeat("Very Long Show Name ", 20)
	got := Render("{ShowName}.{Extension}", Context{Name: name, MaxNameBytes: 60})

	if len(got) > 60 {
		t.Errorf("length = %d, want <= 60", len(got))
	}
	if !strings.HasSuffix(got, ".mkv") {
		t.Errorf("extension lost: %q", got)
	}
}

func TestRender_Pure(t *testing.T) {
	ctx := Context{Name: fullName(), Channel: "Chan"}
	first := Render(DefaultTemplate, ctx)
	for i := 0; i < 5; i++ {
		if got := Render(DefaultTemplate, ctx); got != first {
			t.Fatalf("Render not deterministic: %q != %q", got, first)
		}
	}
}
