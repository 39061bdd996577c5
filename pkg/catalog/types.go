// Package catalog turns a package repository feed into a flat list of
// records and derives the searchable, paginated views a browser renders.
//
// Everything in this package is a pure function of its inputs; the owned,
// mutable state lives in internal/session.
package catalog

// Platform is one downloadable build of a package.
type Platform struct {
	ID        string `json:"platform_id"`
	URL       string `json:"location"`
	Signature string `json:"signature,omitempty"`
}

// Record is a single package entry of a feed. Every string field is always
// set; fields absent from the feed are empty strings.
type Record struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	FirmwareVersion string `json:"fw_version"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Type            string `json:"type"`
	Maintainer      string `json:"maintainer"`
	Developer       string `json:"developer"`
	PublishedDate   string `json:"published_date"`
	Icon            string `json:"icon"`

	InternalName string `json:"internal_name"`
	ChangeLog    string `json:"change_log"`
	Language     string `json:"language"`
	ForumLink    string `json:"forum_link"`
	TutorialLink string `json:"tutorial_link"`
	Snapshot     string `json:"snapshot"`
	BannerImage  string `json:"banner_img"`

	// Platforms only holds entries with both an ID and a URL, in feed order.
	Platforms []Platform `json:"platforms"`
}

// Catalog is the ordered result of one successful feed extraction.
type Catalog struct {
	Records []Record `json:"records"`
	// LastUpdate is the raw cachechk token (YYYYMMDDHHmm). Display only.
	LastUpdate string `json:"last_update,omitempty"`
}

// Stats summarises a catalog for the header of the UI.
type Stats struct {
	TotalCount            int    `json:"total_count"`
	DistinctCategoryCount int    `json:"distinct_category_count"`
	LastUpdate            string `json:"last_update,omitempty"`
	LastUpdateDisplay     string `json:"last_update_display,omitempty"`
}

// Stats counts records and distinct non-empty categories.
// A nil catalog reports zero counts.
func (c *Catalog) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	categories := make(map[string]struct{}, len(c.Records))
	for i := range c.Records {
		if cat := c.Records[i].Category; cat != "" {
			categories[cat] = struct{}{}
		}
	}
	s := Stats{
		TotalCount:            len(c.Records),
		DistinctCategoryCount: len(categories),
		LastUpdate:            c.LastUpdate,
	}
	if c.LastUpdate != "" {
		s.LastUpdateDisplay = FormatStamp(c.LastUpdate)
	}
	return s
}

// Len returns the number of records; safe on a nil catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}
