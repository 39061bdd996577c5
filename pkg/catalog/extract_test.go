package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const threeItemFeed = `<?xml version='1.0' encoding='utf-8'?>
<plugins>
  <cachechk>202511021353</cachechk>
  <item>
    <name>iPerf3</name>
    <category>QnapclubCN Repo</category>
    <type>其他</type>
    <icon80>https://example.com/iperf_80.png</icon80>
    <icon100>https://example.com/iperf_100.png</icon100>
    <description>网络性能测试工具</description>
    <fwVersion>4.2.6</fwVersion>
    <version>3.19.1</version>
    <platform>
      <platformID>TS-NASX86</platformID>
      <location>https://example.com/iPerf3_x86_64.qpkg</location>
      <signature></signature>
    </platform>
    <platform>
      <platformID>TS-NASARM_64</platformID>
      <location>https://example.com/iPerf3_arm_64.qpkg</location>
    </platform>
    <publishedDate>2025-10-19 14:21</publishedDate>
    <maintainer>QoolBox</maintainer>
    <developer>QoolBox</developer>
  </item>
  <item>
    <name>Docker</name>
    <category>QnapclubCN Repo</category>
    <type>虚拟化</type>
    <icon80>https://example.com/docker_80.png</icon80>
    <icon100></icon100>
    <description>容器化平台</description>
    <version>24.0.7</version>
    <platform>
      <platformID>TS-NASX86</platformID>
      <location>https://example.com/Docker_x86_64.qpkg</location>
    </platform>
    <developer>Docker Inc</developer>
  </item>
  <item>
    <name>FileStation</name>
    <category>Utilities</category>
    <description>文件管理工具</description>
    <platform>
      <platformID>  </platformID>
      <location>https://example.com/FileStation.qpkg</location>
    </platform>
  </item>
</plugins>`

func TestParse_ThreeItems(t *testing.T) {
	c, err := Parse([]byte(threeItemFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if c.LastUpdate != "202511021353" {
		t.Errorf("LastUpdate = %q, want %q", c.LastUpdate, "202511021353")
	}

	names := make([]string, 0, c.Len())
	for i := range c.Records {
		names = append(names, c.Records[i].Name)
	}
	if diff := cmp.Diff([]string{"iPerf3", "Docker", "FileStation"}, names); diff != "" {
		t.Errorf("record order mismatch (-want +got):\n%s", diff)
	}

	want := Record{
		Name:            "iPerf3",
		Version:         "3.19.1",
		FirmwareVersion: "4.2.6",
		Description:     "网络性能测试工具",
		Category:        "QnapclubCN Repo",
		Type:            "其他",
		Maintainer:      "QoolBox",
		Developer:       "QoolBox",
		PublishedDate:   "2025-10-19 14:21",
		Icon:            "https://example.com/iperf_100.png",
		Platforms: []Platform{
			{ID: "TS-NASX86", URL: "https://example.com/iPerf3_x86_64.qpkg"},
			{ID: "TS-NASARM_64", URL: "https://example.com/iPerf3_arm_64.qpkg"},
		},
	}
	if diff := cmp.Diff(want, c.Records[0]); diff != "" {
		t.Errorf("first record mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_MissingFieldsAreEmpty(t *testing.T) {
	c, err := Parse([]byte(threeItemFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fs := c.Records[2]
	if fs.Version != "" || fs.Maintainer != "" || fs.PublishedDate != "" || fs.Type != "" {
		t.Errorf("absent fields should be empty, got %+v", fs)
	}
	if len(fs.Platforms) != 0 {
		t.Errorf("platform with blank id should be dropped, got %+v", fs.Platforms)
	}
	if fs.Icon != PlaceholderIcon("FileStation") {
		t.Errorf("Icon = %q, want placeholder", fs.Icon)
	}
}

func TestParse_IconFallsBackTo80(t *testing.T) {
	c, err := Parse([]byte(threeItemFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := c.Records[1].Icon; got != "https://example.com/docker_80.png" {
		t.Errorf("Icon = %q, want the 80x80 icon", got)
	}
}

func TestParse_FirstMatchWins(t *testing.T) {
	doc := `<plugins><item><name> first </name><name>second</name></item></plugins>`
	c, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := c.Records[0].Name; got != "first" {
		t.Errorf("Name = %q, want %q", got, "first")
	}
}

func TestParse_TextContentIncludesNestedText(t *testing.T) {
	doc := `<plugins><item><description>fast <b>and</b> small<![CDATA[ <ok>]]></description></item></plugins>`
	c, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := c.Records[0].Description; got != "fast and small <ok>" {
		t.Errorf("Description = %q", got)
	}
}

func TestParse_EmptyCatalog(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "no items", doc: `<?xml version="1.0"?><plugins><cachechk>202501010000</cachechk></plugins>`},
		{name: "empty root", doc: `<plugins/>`},
		{name: "other elements", doc: `<plugins><package><name>x</name></package></plugins>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.doc))
			if !errors.Is(err, ErrEmptyCatalog) {
				t.Fatalf("err = %v, want ErrEmptyCatalog", err)
			}
			if c != nil {
				t.Errorf("expected nil catalog, got %+v", c)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty input", doc: ""},
		{name: "plain text", doc: "not xml at all"},
		{name: "unclosed element", doc: "<plugins><item><name>x</name></item>"},
		{name: "mismatched tags", doc: "<plugins><item></plugins></item>"},
		{name: "two roots", doc: "<plugins/><plugins/>"},
		{name: "unknown entity", doc: "<plugins><item><name>a&nbsp;b</name></item></plugins>"},
		{name: "json", doc: `{"items": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("err = %v, want ErrMalformedDocument", err)
			}
			if errors.Is(err, ErrEmptyCatalog) {
				t.Error("malformed input must not be reported as an empty catalog")
			}
		})
	}
}

func TestExtract_GBKDocument(t *testing.T) {
	// "测试" encoded as GBK.
	gbk := []byte("<?xml version=\"1.0\" encoding=\"GBK\"?><plugins><item><name>\xb2\xe2\xca\xd4</name></item></plugins>")
	c, err := Extract(strings.NewReader(string(gbk)))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := c.Records[0].Name; got != "测试" {
		t.Errorf("Name = %q, want %q", got, "测试")
	}
}

func TestCatalog_Stats(t *testing.T) {
	c, err := Parse([]byte(threeItemFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := c.Stats()
	want := Stats{
		TotalCount:            3,
		DistinctCategoryCount: 2,
		LastUpdate:            "202511021353",
		LastUpdateDisplay:     "2025-11-02 13:53",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stats mismatch (-want +got):\n%s", diff)
	}

	var nilCatalog *Catalog
	if s := nilCatalog.Stats(); s.TotalCount != 0 {
		t.Errorf("nil catalog TotalCount = %d, want 0", s.TotalCount)
	}
}

func TestCatalog_StatsIgnoresEmptyCategory(t *testing.T) {
	c := &Catalog{Records: []Record{{Name: "a"}, {Name: "b", Category: "x"}, {Name: "c", Category: "x"}}}
	if got := c.Stats().DistinctCategoryCount; got != 1 {
		t.Errorf("DistinctCategoryCount = %d, want 1", got)
	}
	if got := c.Stats().LastUpdateDisplay; got != "" {
		t.Errorf("LastUpdateDisplay = %q, want empty", got)
	}
}
