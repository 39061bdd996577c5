package builder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/HerbHall/pkgshelf/internal/store"
)

// Source yields the apps a feed is built from.
type Source interface {
	Apps(ctx context.Context) ([]App, error)
}

// JSONSource reads an apps.json file.
type JSONSource struct {
	Path string
}

// Apps implements Source.
func (s JSONSource) Apps(_ context.Context) ([]App, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return DecodeApps(data)
}

// SQLiteSource reads the `data` table of a builder database.
type SQLiteSource struct {
	DB *store.DB
}

var columns = []string{
	"name", "changeLog", "category", "type", "icon80", "icon100", "description",
	"fwVersion", "version", "platform", "location", "internalName", "publishedDate",
	"maintainer", "developer", "forumLink", "language", "snapshot", "bannerImg", "tutorialLink",
}

// Apps implements Source. Rows come back in rowid order.
func (s SQLiteSource) Apps(ctx context.Context) ([]App, error) {
	query := "SELECT " + strings.Join(columns, ", ") + " FROM data ORDER BY rowid"
	rows, err := s.DB.SQL().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query data: %w", err)
	}
	defer rows.Close()

	var apps []App
	for rows.Next() {
		var (
			name, changeLog, category, typ    sql.NullString
			icon80, icon100, description      sql.NullString
			fwVersion, version                sql.NullString
			platform, location                sql.NullString
			internalName, publishedDate       sql.NullString
			maintainer, developer, forumLink  sql.NullString
			language, snapshot, banner, guide sql.NullString
		)
		if err := rows.Scan(
			&name, &changeLog, &category, &typ, &icon80, &icon100, &description,
			&fwVersion, &version, &platform, &location, &internalName, &publishedDate,
			&maintainer, &developer, &forumLink, &language, &snapshot, &banner, &guide,
		); err != nil {
			return nil, fmt.Errorf("scan data row: %w", err)
		}
		apps = append(apps, App{
			Name:          name.String,
			ChangeLog:     changeLog.String,
			Category:      category.String,
			Type:          typ.String,
			Icon80:        nullable(icon80),
			Icon100:       nullable(icon100),
			Description:   nullable(description),
			FwVersion:     fwVersion.String,
			Version:       version.String,
			Platform:      platformsFromColumns(platform.String, location.String),
			InternalName:  internalName.String,
			PublishedDate: publishedDate.String,
			Maintainer:    maintainer.String,
			Developer:     developer.String,
			ForumLink:     forumLink.String,
			Language:      language.String,
			Snapshot:      snapshot.String,
			BannerImg:     banner.String,
			TutorialLink:  guide.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate data: %w", err)
	}
	return apps, nil
}

// nullable maps NULL to an absent key so repository defaults apply.
func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

var urlPattern = regexp.MustCompile(`https?://[\w.-]+[\w\-._~:/?#\[\]@!$&'()*+,;=.]+`)

// platformsFromColumns expands the platform column (a JSON list, a comma
// separated list or a single id) and looks up each id in the location column.
func platformsFromColumns(platform, location string) Platforms {
	ids := platformIDs(platform)
	if len(ids) == 0 {
		return nil
	}
	out := make(Platforms, 0, len(ids))
	for _, id := range ids {
		out = append(out, PlatformEntry{PlatformID: id, Location: locationFor(id, location)})
	}
	return out
}

func platformIDs(column string) []string {
	column = strings.TrimSpace(column)
	if column == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(column), &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal([]byte(column), &single); err == nil {
		return []string{single}
	}
	if strings.Contains(column, ",") {
		parts := strings.Split(column, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return []string{column}
}

// locationFor resolves the download URL of id. A JSON object maps ids to
// URLs; any other text contributes its first URL.
func locationFor(id, column string) string {
	if column == "" {
		return ""
	}
	var byID map[string]string
	if err := json.Unmarshal([]byte(strings.ReplaceAll(column, "\n", "")), &byID); err == nil {
		return strings.Trim(byID[id], "` ")
	}
	return urlPattern.FindString(column)
}
