package builder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/HerbHall/pkgshelf/internal/store"
)

// Migrations create the `data` table read by SQLiteSource. Every column is
// TEXT; platform holds a JSON list of ids and location a JSON object of
// id -> URL.
var Migrations = []store.Migration{
	{
		Version:     1,
		Description: "create data table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS data (
					name          TEXT,
					changeLog     TEXT,
					category      TEXT,
					type          TEXT,
					icon80        TEXT,
					icon100       TEXT,
					description   TEXT,
					fwVersion     TEXT,
					version       TEXT,
					platform      TEXT,
					location      TEXT,
					internalName  TEXT,
					publishedDate TEXT,
					maintainer    TEXT,
					developer     TEXT,
					forumLink     TEXT,
					language      TEXT,
					snapshot      TEXT,
					bannerImg     TEXT,
					tutorialLink  TEXT
				)`)
			return err
		},
	},
}

// Prepare migrates db for builder use and records the running version.
func Prepare(ctx context.Context, db *store.DB, version string) error {
	if err := db.CheckVersion(ctx, version); err != nil {
		return err
	}
	return db.Migrate(ctx, "builder", Migrations)
}

// Import appends apps to the data table in a single transaction.
func Import(ctx context.Context, db *store.DB, apps []App) error {
	insert := "INSERT INTO data (" + strings.Join(columns, ", ") + ") VALUES (?" +
		strings.Repeat(", ?", len(columns)-1) + ")"

	return db.Tx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insert)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i := range apps {
			a := &apps[i]
			platform, location, err := platformColumns(a.Platform)
			if err != nil {
				return fmt.Errorf("app %q: %w", a.Name, err)
			}
			_, err = stmt.ExecContext(ctx,
				a.Name, a.ChangeLog, a.Category, a.Type, a.Icon80, a.Icon100, a.Description,
				a.FwVersion, a.Version, platform, location, a.InternalName, a.PublishedDate,
				a.Maintainer, a.Developer, a.ForumLink, a.Language, a.Snapshot, a.BannerImg, a.TutorialLink,
			)
			if err != nil {
				return fmt.Errorf("insert app %q: %w", a.Name, err)
			}
		}
		return nil
	})
}

func platformColumns(p Platforms) (platform, location sql.NullString, err error) {
	if len(p) == 0 {
		return platform, location, nil
	}
	ids := make([]string, 0, len(p))
	urls := make(map[string]string, len(p))
	for _, e := range p {
		ids = append(ids, e.PlatformID)
		urls[e.PlatformID] = e.Location
	}
	idJSON, err := json.Marshal(ids)
	if err != nil {
		return platform, location, fmt.Errorf("encode platform ids: %w", err)
	}
	urlJSON, err := json.Marshal(urls)
	if err != nil {
		return platform, location, fmt.Errorf("encode locations: %w", err)
	}
	return sql.NullString{String: string(idJSON), Valid: true},
		sql.NullString{String: string(urlJSON), Valid: true}, nil
}
