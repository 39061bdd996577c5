package testutil

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

// NewRecord returns a Record with sensible defaults, suitable for test fixtures.
// Override individual fields after creation as needed.
func NewRecord(opts ...func(*catalog.Record)) catalog.Record {
	name := "pkg-" + uuid.New().String()[:8]
	r := catalog.Record{
		Name:          name,
		Version:       "1.0.0",
		Description:   "test package",
		Category:      "QnapclubCN Repo",
		Type:          "Utilities",
		Maintainer:    "QoolBox",
		Developer:     "QoolBox",
		PublishedDate: "2025-10-19 14:21",
		Icon:          catalog.PlaceholderIcon(name),
		Platforms: []catalog.Platform{
			{ID: "TS-NASX86", URL: "https://example.com/" + name + "_x86_64.qpkg"},
		},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithName sets the record name.
func WithName(name string) func(*catalog.Record) {
	return func(r *catalog.Record) { r.Name = name }
}

// WithCategory sets the record category.
func WithCategory(category string) func(*catalog.Record) {
	return func(r *catalog.Record) { r.Category = category }
}

// WithDescription sets the record description.
func WithDescription(desc string) func(*catalog.Record) {
	return func(r *catalog.Record) { r.Description = desc }
}

// WithPlatforms replaces the platform list.
func WithPlatforms(platforms ...catalog.Platform) func(*catalog.Record) {
	return func(r *catalog.Record) { r.Platforms = platforms }
}

// NewRecords returns n records named pkg-000, pkg-001, ... in order.
func NewRecords(n int) []catalog.Record {
	out := make([]catalog.Record, 0, n)
	for i := range n {
		out = append(out, NewRecord(WithName(fmt.Sprintf("pkg-%03d", i))))
	}
	return out
}

// FeedXML renders records as a feed document the extractor accepts.
func FeedXML(stamp string, records ...catalog.Record) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n<plugins>\n")
	if stamp != "" {
		fmt.Fprintf(&b, "  <cachechk>%s</cachechk>\n", stamp)
	}
	for i := range records {
		r := &records[i]
		b.WriteString("  <item>\n")
		field(&b, "name", r.Name)
		field(&b, "category", r.Category)
		field(&b, "type", r.Type)
		field(&b, "icon100", r.Icon)
		field(&b, "description", r.Description)
		field(&b, "version", r.Version)
		for _, p := range r.Platforms {
			b.WriteString("    <platform>\n")
			fmt.Fprintf(&b, "      <platformID>%s</platformID>\n", escape(p.ID))
			fmt.Fprintf(&b, "      <location>%s</location>\n", escape(p.URL))
			b.WriteString("    </platform>\n")
		}
		field(&b, "publishedDate", r.PublishedDate)
		field(&b, "maintainer", r.Maintainer)
		field(&b, "developer", r.Developer)
		b.WriteString("  </item>\n")
	}
	b.WriteString("</plugins>\n")
	return []byte(b.String())
}

// FeedOf is FeedXML for n generated records.
func FeedOf(n int) []byte {
	return FeedXML("202511021353", NewRecords(n)...)
}

func field(b *strings.Builder, tag, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "    <%s>%s</%s>\n", tag, escape(value), tag)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return xmlEscaper.Replace(s) }
