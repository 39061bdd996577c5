package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/HerbHall/pkgshelf/internal/feed"
	"github.com/HerbHall/pkgshelf/internal/session"
	"github.com/HerbHall/pkgshelf/internal/testutil"
	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

func newTestShell(t *testing.T, raw []byte, input string, interactive bool) (*shell, *bytes.Buffer) {
	t.Helper()
	logger := zap.NewNop()
	sess := session.New(nil, nil, logger)
	loader := session.NewLoader(feed.NewFetcher(feed.DefaultConfig(), logger), sess, logger)
	var err error
	if raw == nil {
		_, err = loader.LoadSample(context.Background())
	} else {
		_, err = sess.LoadFromSource(context.Background(), "test", raw)
	}
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	out := &bytes.Buffer{}
	sh := &shell{
		loader:      loader,
		in:          bufio.NewScanner(strings.NewReader(input)),
		out:         out,
		interactive: func() bool { return interactive },
		logger:      logger,
	}
	sh.printPage(sess.CurrentPage())
	out.Reset()
	return sh, out
}

func TestShell_RunPrintsCatalogAndQuits(t *testing.T) {
	sh, out := newTestShell(t, nil, "q\n", false)
	if err := sh.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{"3 packages, 1 categories, updated 2025-11-02 13:53", "iPerf3", "Docker", "FileStation", "page 1 of 1  [1]"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestShell_RunEndsAtEOF(t *testing.T) {
	sh, _ := newTestShell(t, nil, "n\n", false)
	if err := sh.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestShell_SearchAndPaging(t *testing.T) {
	sh, out := newTestShell(t, testutil.FeedOf(45), "", false)
	ctx := context.Background()
	sess := sh.loader.Session()

	sh.exec(ctx, "n")
	if got := sess.CurrentPage().Page.Number; got != 2 {
		t.Errorf("after n: page %d, want 2", got)
	}
	sh.exec(ctx, "g 9")
	if got := sess.CurrentPage().Page.Number; got != 3 {
		t.Errorf("after g 9: page %d, want 3 (clamped)", got)
	}
	sh.exec(ctx, "p")
	if got := sess.CurrentPage().Page.Number; got != 2 {
		t.Errorf("after p: page %d, want 2", got)
	}

	out.Reset()
	sh.exec(ctx, "/pkg-01")
	view := sess.CurrentPage()
	if !view.SearchActive || view.ResultCount != 10 || view.Page.Number != 1 {
		t.Errorf("after search: %+v", view)
	}
	if !strings.Contains(out.String(), `10 results for "pkg-01"`) {
		t.Errorf("search summary missing:\n%s", out.String())
	}

	sh.exec(ctx, "/")
	if sess.CurrentPage().SearchActive {
		t.Error("a lone / should clear the search")
	}

	out.Reset()
	sh.exec(ctx, "g x")
	if !strings.Contains(out.String(), "usage: g N") {
		t.Errorf("bad page number: %q", out.String())
	}
}

func TestShell_Download(t *testing.T) {
	single := testutil.NewRecord(testutil.WithName("solo"), testutil.WithPlatforms(
		catalog.Platform{ID: "TS-NASX86", URL: "https://example.com/solo.qpkg"},
	))
	multi := testutil.NewRecord(testutil.WithName("multi"), testutil.WithPlatforms(
		catalog.Platform{ID: "TS-NASX86", URL: "https://example.com/x86.qpkg"},
		catalog.Platform{ID: "TS-NASARM_64", URL: "https://example.com/arm.qpkg"},
	))
	none := testutil.NewRecord(testutil.WithName("none"), testutil.WithPlatforms())
	raw := testutil.FeedXML("202511021353", single, multi, none)

	tests := []struct {
		name        string
		command     string
		input       string
		interactive bool
		want        string
	}{
		{name: "single platform is direct", command: "d 0", want: "download: https://example.com/solo.qpkg"},
		{name: "choice", command: "d 1", input: "2\n", interactive: true, want: "download: https://example.com/arm.qpkg"},
		{name: "choice cancelled", command: "d 1", input: "\n", interactive: true, want: "no platform selected"},
		{name: "choice out of range", command: "d 1", input: "7\n", interactive: true, want: "no platform selected"},
		{name: "choice not a number", command: "d 1", input: "arm\n", interactive: true, want: "no platform selected"},
		{name: "no terminal", command: "d 1", want: "no platform selected"},
		{name: "no downloads", command: "d 2", want: session.ErrNoDownload.Error()},
		{name: "unknown index", command: "d 9", want: session.ErrUnknownPackage.Error()},
		{name: "bad index", command: "d x", want: "usage: d INDEX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, out := newTestShell(t, raw, tt.input, tt.interactive)
			sh.exec(context.Background(), tt.command)
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output %q does not contain %q", out.String(), tt.want)
			}
		})
	}
}

func TestShell_DownloadAfterReload(t *testing.T) {
	sh, out := newTestShell(t, nil, "", false)
	ctx := context.Background()
	sess := sh.loader.Session()

	if _, err := sess.LoadFromSource(ctx, "other", testutil.FeedOf(3)); err != nil {
		t.Fatal(err)
	}
	sh.exec(ctx, "d 0")
	if !strings.Contains(out.String(), session.ErrStaleCatalog.Error()) {
		t.Errorf("output %q does not report the reload", out.String())
	}

	out.Reset()
	sh.exec(ctx, "n")
	sh.exec(ctx, "d 0")
	if !strings.Contains(out.String(), "download: https://example.com/") {
		t.Errorf("after reprinting: %q", out.String())
	}
}

func TestDescribeLoadError(t *testing.T) {
	te := &feed.TransportError{Kind: feed.KindBadStatus, StatusCode: 404}
	tests := []struct {
		err  error
		want string
	}{
		{err: te, want: te.UserMessage()},
		{err: fmt.Errorf("load: %w", catalog.ErrEmptyCatalog), want: "the feed contains no packages"},
		{err: errors.New("boom"), want: "boom"},
	}
	for _, tt := range tests {
		if got := describeLoadError(tt.err); got != tt.want {
			t.Errorf("describeLoadError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
