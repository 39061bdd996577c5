package builder

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"
)

const (
	stampLayout      = "200601021504"
	outputDateLayout = "20060102"
)

type xmlFeed struct {
	XMLName  xml.Name  `xml:"plugins"`
	CacheChk string    `xml:"cachechk"`
	Items    []xmlItem `xml:"item"`
}

// xmlItem fixes the element order of an <item>.
type xmlItem struct {
	Name          string        `xml:"name"`
	ChangeLog     string        `xml:"changeLog"`
	Category      string        `xml:"category"`
	Type          string        `xml:"type"`
	Icon80        string        `xml:"icon80"`
	Icon100       string        `xml:"icon100"`
	Description   string        `xml:"description"`
	FwVersion     string        `xml:"fwVersion"`
	Version       string        `xml:"version"`
	Platforms     []xmlPlatform `xml:"platform"`
	InternalName  string        `xml:"internalName"`
	PublishedDate string        `xml:"publishedDate"`
	Maintainer    string        `xml:"maintainer"`
	Developer     string        `xml:"developer"`
	ForumLink     string        `xml:"forumLink"`
	Language      string        `xml:"language"`
	Snapshot      string        `xml:"snapshot"`
	BannerImg     string        `xml:"bannerImg"`
	TutorialLink  string        `xml:"tutorialLink"`
}

type xmlPlatform struct {
	PlatformID string `xml:"platformID"`
	Location   string `xml:"location"`
	Signature  string `xml:"signature"`
}

// Build renders apps as a repository feed stamped with the given time.
func Build(apps []App, stamp time.Time) ([]byte, error) {
	feed := xmlFeed{
		CacheChk: stamp.Format(stampLayout),
		Items:    make([]xmlItem, 0, len(apps)),
	}
	for i := range apps {
		feed.Items = append(feed.Items, toXML(&apps[i]))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func toXML(a *App) xmlItem {
	item := xmlItem{
		Name:          a.Name,
		ChangeLog:     a.ChangeLog,
		Category:      a.Category,
		Type:          a.Type,
		Icon80:        orDefault(a.Icon80, DefaultIcon80),
		Icon100:       orDefault(a.Icon100, DefaultIcon100),
		Description:   orDefault(a.Description, DefaultDescription),
		FwVersion:     a.FwVersion,
		Version:       a.Version,
		InternalName:  a.InternalName,
		PublishedDate: a.PublishedDate,
		Maintainer:    a.Maintainer,
		Developer:     a.Developer,
		ForumLink:     a.ForumLink,
		Language:      a.Language,
		Snapshot:      a.Snapshot,
		BannerImg:     a.BannerImg,
		TutorialLink:  a.TutorialLink,
	}
	for _, p := range a.Platform {
		item.Platforms = append(item.Platforms, xmlPlatform(p))
	}
	return item
}

// DefaultOutputName is the file name used when no output path is given.
func DefaultOutputName(t time.Time) string {
	return "repo_build_" + t.Format(outputDateLayout) + ".xml"
}
