package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/HerbHall/pkgshelf/internal/feed"
	"github.com/HerbHall/pkgshelf/internal/session"
	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

const browseHelp = `commands:
  /TEXT    search (a lone / clears the search)
  n, p     next / previous page
  g N      go to page N
  d INDEX  download the package with that index
  q        quit
`

func runBrowse(args []string) error {
	fs, configPath := newFlagSet("browse")
	feedURL := fs.String("url", "", "feed URL to load")
	file := fs.String("file", "", "feed file to load")
	sample := fs.Bool("sample", false, "load the bundled sample feed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess := session.New(catalog.NewDateFormatter(cfg.Display.Locale), nil, logger.Named("session"))
	loader := session.NewLoader(feed.NewFetcher(cfg.Feed.Config, logger.Named("feed")), sess, logger.Named("session"))

	switch {
	case *file != "":
		_, err = loader.LoadFile(ctx, *file)
	case *feedURL != "":
		_, err = loader.LoadURL(ctx, *feedURL)
	case cfg.Feed.URL != "" && !*sample:
		_, err = loader.LoadURL(ctx, cfg.Feed.URL)
	default:
		_, err = loader.LoadSample(ctx)
	}
	if err != nil {
		return errors.New(describeLoadError(err))
	}

	sh := newShell(loader, os.Stdin, os.Stdout, logger)
	return sh.run(ctx)
}

// describeLoadError renders a load failure the way the dashboard banner does.
func describeLoadError(err error) string {
	var te *feed.TransportError
	switch {
	case errors.As(err, &te):
		return te.UserMessage()
	case errors.Is(err, catalog.ErrEmptyCatalog):
		return "the feed contains no packages"
	default:
		return err.Error()
	}
}

// shell is the terminal presentation of a session.
type shell struct {
	loader      *session.Loader
	in          *bufio.Scanner
	out         io.Writer
	interactive func() bool
	logger      *zap.Logger

	// shown is the load ID of the last printed page; "d INDEX" refers to it.
	shown string
}

func newShell(loader *session.Loader, in *os.File, out io.Writer, logger *zap.Logger) *shell {
	return &shell{
		loader:      loader,
		in:          bufio.NewScanner(in),
		out:         out,
		interactive: func() bool { return term.IsTerminal(int(in.Fd())) },
		logger:      logger,
	}
}

func (s *shell) run(ctx context.Context) error {
	s.printStats()
	s.printPage(s.loader.Session().CurrentPage())
	fmt.Fprint(s.out, browseHelp)

	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		if quit := s.exec(ctx, strings.TrimRight(s.in.Text(), "\r")); quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) bool {
	sess := s.loader.Session()
	cmd := strings.TrimSpace(line)

	switch {
	case cmd == "":
		return false
	case cmd == "q" || cmd == "quit":
		return true
	case strings.HasPrefix(strings.TrimLeft(line, " "), "/"):
		// Inner and trailing whitespace is part of the query.
		query := strings.TrimPrefix(strings.TrimLeft(line, " "), "/")
		view := sess.SetQuery(ctx, query)
		if view.SearchActive {
			fmt.Fprintf(s.out, "%d results for %q\n", view.ResultCount, view.Query)
		}
		s.printPage(view)
	case cmd == "n":
		s.printPage(sess.NextPage(ctx))
	case cmd == "p":
		s.printPage(sess.PrevPage(ctx))
	case strings.HasPrefix(cmd, "g "):
		n, err := strconv.Atoi(strings.TrimSpace(cmd[2:]))
		if err != nil {
			fmt.Fprintln(s.out, "usage: g N")
			return false
		}
		s.printPage(sess.SetPage(ctx, n))
	case strings.HasPrefix(cmd, "d "):
		index, err := strconv.Atoi(strings.TrimSpace(cmd[2:]))
		if err != nil {
			fmt.Fprintln(s.out, "usage: d INDEX")
			return false
		}
		s.download(ctx, index)
	default:
		fmt.Fprint(s.out, browseHelp)
	}
	return false
}

func (s *shell) download(ctx context.Context, index int) {
	action, err := s.loader.Session().Download(s.shown, index)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	url, err := action.Resolve(ctx, s)
	switch {
	case errors.Is(err, catalog.ErrNoSelection):
		fmt.Fprintln(s.out, "no platform selected")
	case err != nil:
		s.logger.Warn("download failed", zap.Int("index", index), zap.Error(err))
		fmt.Fprintln(s.out, err)
	default:
		fmt.Fprintln(s.out, "download:", url)
	}
}

// ChoosePlatform implements catalog.PlatformChooser by prompting on the
// terminal. Without a terminal the choice is cancelled.
func (s *shell) ChoosePlatform(_ context.Context, options []catalog.Platform) (int, error) {
	if !s.interactive() {
		return 0, catalog.ErrChoiceCancelled
	}
	fmt.Fprintln(s.out, "choose a platform:")
	for i, p := range options {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, p.ID)
	}
	fmt.Fprintf(s.out, "number (1-%d): ", len(options))
	if !s.in.Scan() {
		return 0, catalog.ErrChoiceCancelled
	}
	answer := strings.TrimSpace(s.in.Text())
	if answer == "" {
		return 0, catalog.ErrChoiceCancelled
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return -1, nil
	}
	return n - 1, nil
}

func (s *shell) printStats() {
	st := s.loader.Session().Stats()
	updated := st.LastUpdateDisplay
	if updated == "" {
		updated = "-"
	}
	fmt.Fprintf(s.out, "%d packages, %d categories, updated %s\n\n",
		st.TotalCount, st.DistinctCategoryCount, updated)
}

func (s *shell) printPage(view session.PageView) {
	s.shown = view.LoadID
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tVERSION\tCATEGORY\tDEVELOPER\tPUBLISHED\tPLATFORMS")
	for _, vm := range view.Page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			vm.Index,
			orDash(vm.Name),
			orDash(vm.Version),
			orDash(vm.Category),
			orDash(vm.Developer),
			vm.PublishedDate,
			orDash(strings.Join(vm.PlatformTags, ",")),
		)
	}
	_ = tw.Flush()

	if len(view.Page.Items) == 0 {
		fmt.Fprintln(s.out, "no packages")
	}
	window := make([]string, 0, len(view.Page.Window))
	for _, n := range view.Page.Window {
		if n == view.Page.Number {
			window = append(window, "["+strconv.Itoa(n)+"]")
		} else {
			window = append(window, strconv.Itoa(n))
		}
	}
	fmt.Fprintf(s.out, "page %d of %d  %s\n", view.Page.Number, view.Page.TotalPages, strings.Join(window, " "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
