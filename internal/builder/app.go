// Package builder produces repository feeds from an apps.json catalog, the
// `data` table of a SQLite database or a Feishu bitable.
package builder

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Repository placeholders used when an app omits the key entirely.
const (
	DefaultIcon80      = "https://help.qnapclub.cn/upload/logo_80x80.png"
	DefaultIcon100     = "https://help.qnapclub.cn/upload/logo_100x100.png"
	DefaultDescription = "QnapclubCN"
)

// PlatformEntry is one downloadable build of an app.
type PlatformEntry struct {
	PlatformID string `json:"platformID"`
	Location   string `json:"location"`
	Signature  string `json:"signature"`
}

// Platforms decodes from either a single object or a list of objects.
type Platforms []PlatformEntry

// UnmarshalJSON implements json.Unmarshaler.
func (p *Platforms) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = nil
		return nil
	case data[0] == '{':
		var one PlatformEntry
		if err := json.Unmarshal(data, &one); err != nil {
			return fmt.Errorf("decode platform: %w", err)
		}
		*p = Platforms{one}
		return nil
	}
	var many []PlatformEntry
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("decode platforms: %w", err)
	}
	*p = many
	return nil
}

// App is one package entry of apps.json. Icon80, Icon100 and Description are
// pointers so that an absent key can be told apart from an empty value.
type App struct {
	Name          string    `json:"name"`
	ChangeLog     string    `json:"changeLog"`
	Category      string    `json:"category"`
	Type          string    `json:"type"`
	Icon80        *string   `json:"icon80,omitempty"`
	Icon100       *string   `json:"icon100,omitempty"`
	Description   *string   `json:"description,omitempty"`
	FwVersion     string    `json:"fwVersion"`
	Version       string    `json:"version"`
	Platform      Platforms `json:"platform"`
	InternalName  string    `json:"internalName"`
	PublishedDate string    `json:"publishedDate"`
	Maintainer    string    `json:"maintainer"`
	Developer     string    `json:"developer"`
	ForumLink     string    `json:"forumLink"`
	Language      string    `json:"language"`
	Snapshot      string    `json:"snapshot"`
	BannerImg     string    `json:"bannerImg"`
	TutorialLink  string    `json:"tutorialLink"`
}

func orDefault(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

// DecodeApps parses an apps.json document: a JSON array of App.
func DecodeApps(data []byte) ([]App, error) {
	var apps []App
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("decode apps: %w", err)
	}
	return apps, nil
}

// EncodeApps renders apps as an indented apps.json document.
func EncodeApps(apps []App) ([]byte, error) {
	if apps == nil {
		apps = []App{}
	}
	out, err := json.MarshalIndent(apps, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode apps: %w", err)
	}
	return append(out, '\n'), nil
}
