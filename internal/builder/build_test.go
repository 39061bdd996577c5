package builder

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

func ptr(s string) *string { return &s }

var stamp = time.Date(2025, 11, 2, 13, 53, 0, 0, time.UTC)

func sampleApps() []App {
	return []App{
		{
			Name:          "iPerf3",
			Category:      "QnapclubCN Repo",
			Type:          "Other",
			Icon100:       ptr("https://example.com/iperf_100.png"),
			Description:   ptr("Network bandwidth test"),
			Version:       "3.19.1",
			PublishedDate: "2025-10-19 14:21",
			Maintainer:    "QoolBox",
			Developer:     "QoolBox",
			Platform: Platforms{
				{PlatformID: "TS-NASX86", Location: "https://example.com/iPerf3_x86_64.qpkg"},
				{PlatformID: "TS-NASARM_64", Location: "https://example.com/iPerf3_arm_64.qpkg"},
			},
		},
		{
			Name:        "Docker & Friends",
			Category:    "Virtualization",
			Icon80:      ptr(""),
			Description: ptr("<containers>"),
			Platform:    Platforms{{PlatformID: "TS-NASX86", Location: "https://example.com/docker.qpkg"}},
		},
	}
}

func TestBuild_RoundTripsThroughExtractor(t *testing.T) {
	out, err := Build(sampleApps(), stamp)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	c, err := catalog.Parse(out)
	if err != nil {
		t.Fatalf("Parse(Build()): %v", err)
	}
	if c.LastUpdate != "202511021353" {
		t.Errorf("LastUpdate = %q", c.LastUpdate)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	first := c.Records[0]
	if first.Name != "iPerf3" || first.Version != "3.19.1" || first.Developer != "QoolBox" {
		t.Errorf("first record = %+v", first)
	}
	if first.Icon != "https://example.com/iperf_100.png" {
		t.Errorf("Icon = %q", first.Icon)
	}
	wantPlatforms := []catalog.Platform{
		{ID: "TS-NASX86", URL: "https://example.com/iPerf3_x86_64.qpkg"},
		{ID: "TS-NASARM_64", URL: "https://example.com/iPerf3_arm_64.qpkg"},
	}
	if diff := cmp.Diff(wantPlatforms, first.Platforms); diff != "" {
		t.Errorf("platforms (-want +got):\n%s", diff)
	}

	second := c.Records[1]
	if second.Name != "Docker & Friends" || second.Description != "<containers>" {
		t.Errorf("escaping lost: %+v", second)
	}
	// An explicitly empty icon80 stays empty; the absent icon100 gets the default.
	if second.Icon != DefaultIcon100 {
		t.Errorf("Icon = %q, want %q", second.Icon, DefaultIcon100)
	}
}

func TestBuild_Defaults(t *testing.T) {
	out, err := Build([]App{{Name: "bare"}}, stamp)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	doc := string(out)
	for _, want := range []string{
		"<icon80>" + DefaultIcon80 + "</icon80>",
		"<icon100>" + DefaultIcon100 + "</icon100>",
		"<description>" + DefaultDescription + "</description>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("output missing %s", want)
		}
	}
	if strings.Contains(doc, "<platform>") {
		t.Error("app without platforms should have no <platform> element")
	}
}

func TestBuild_Layout(t *testing.T) {
	out, err := Build(sampleApps()[:1], stamp)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	doc := string(out)

	if !strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`+"\n<plugins>\n  <cachechk>202511021353</cachechk>\n  <item>\n    <name>iPerf3</name>") {
		t.Errorf("unexpected document head:\n%s", doc[:min(len(doc), 200)])
	}

	order := []string{
		"<name>", "<changeLog>", "<category>", "<type>", "<icon80>", "<icon100>",
		"<description>", "<fwVersion>", "<version>", "<platform>", "<internalName>",
		"<publishedDate>", "<maintainer>", "<developer>", "<forumLink>", "<language>",
		"<snapshot>", "<bannerImg>", "<tutorialLink>",
	}
	last := -1
	for _, tag := range order {
		i := strings.Index(doc, tag)
		if i < 0 {
			t.Fatalf("missing %s", tag)
		}
		if i < last {
			t.Errorf("%s is out of order", tag)
		}
		last = i
	}
	if !strings.Contains(doc, "    <platform>\n      <platformID>TS-NASX86</platformID>") {
		t.Error("platform children are not indented by two spaces per level")
	}
}

func TestBuild_EmptyCatalog(t *testing.T) {
	out, err := Build(nil, stamp)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(string(out), "<cachechk>202511021353</cachechk>") {
		t.Errorf("stamp missing:\n%s", out)
	}
}

func TestDefaultOutputName(t *testing.T) {
	if got := DefaultOutputName(stamp); got != "repo_build_20251102.xml" {
		t.Errorf("DefaultOutputName = %q", got)
	}
}
