package builder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkbitable "github.com/larksuite/oapi-sdk-go/v3/service/bitable/v1"
	"go.uber.org/zap"
)

// ErrFeishuConfig is returned when a bitable source lacks credentials or
// table coordinates.
var ErrFeishuConfig = errors.New("incomplete feishu source configuration")

// feishuPageSize is the largest page the record search accepts.
const feishuPageSize = 500

// FeishuConfig locates the bitable an app catalog is kept in.
type FeishuConfig struct {
	AppID     string        `mapstructure:"app_id"`
	AppSecret string        `mapstructure:"app_secret"`
	AppToken  string        `mapstructure:"app_token"`
	TableID   string        `mapstructure:"table_id"`
	ViewID    string        `mapstructure:"view_id"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Validate reports missing required settings.
func (c FeishuConfig) Validate() error {
	var missing []string
	for _, f := range []struct{ key, value string }{
		{"app_id", c.AppID},
		{"app_secret", c.AppSecret},
		{"app_token", c.AppToken},
		{"table_id", c.TableID},
	} {
		if f.value == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrFeishuConfig, strings.Join(missing, ", "))
	}
	return nil
}

// FeishuSource reads apps from the records of a Feishu (Lark) bitable whose
// columns are named like the apps.json keys.
type FeishuSource struct {
	client *lark.Client
	cfg    FeishuConfig
	loc    *time.Location
	logger *zap.Logger
}

// NewFeishuSource creates a bitable source. publishedDate cells are rendered
// in loc; nil means time.Local.
func NewFeishuSource(cfg FeishuConfig, loc *time.Location, logger *zap.Logger) (*FeishuSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	opts := []lark.ClientOptionFunc{lark.WithLogger(larkLogger{logger.Sugar()})}
	if cfg.BaseURL != "" {
		opts = append(opts, lark.WithOpenBaseUrl(strings.TrimRight(cfg.BaseURL, "/")))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, lark.WithReqTimeout(cfg.Timeout))
	}
	return &FeishuSource{
		client: lark.NewClient(cfg.AppID, cfg.AppSecret, opts...),
		cfg:    cfg,
		loc:    loc,
		logger: logger,
	}, nil
}

// Apps implements Source. Every page of the view is read; apps come back in
// reverse view order, newest row first.
func (s *FeishuSource) Apps(ctx context.Context) ([]App, error) {
	var (
		apps      []App
		pageToken string
	)
	for {
		rb := larkbitable.NewSearchAppTableRecordReqBuilder().
			AppToken(s.cfg.AppToken).
			TableId(s.cfg.TableID).
			UserIdType("open_id").
			PageSize(feishuPageSize)
		if pageToken != "" {
			rb = rb.PageToken(pageToken)
		}
		body := larkbitable.NewSearchAppTableRecordReqBodyBuilder().FieldNames(columns)
		if s.cfg.ViewID != "" {
			body = body.ViewId(s.cfg.ViewID)
		}

		resp, err := s.client.Bitable.V1.AppTableRecord.Search(ctx, rb.Body(body.Build()).Build())
		if err != nil {
			return nil, fmt.Errorf("search bitable records: %w", err)
		}
		if !resp.Success() {
			return nil, fmt.Errorf("search bitable records: code %d: %s (request %s)", resp.Code, resp.Msg, resp.RequestId())
		}
		if resp.Data == nil {
			break
		}
		for _, item := range resp.Data.Items {
			if item == nil {
				continue
			}
			apps = append(apps, appFromFields(item.Fields, s.loc))
		}
		s.logger.Debug("bitable page read",
			zap.Int("records", len(resp.Data.Items)),
			zap.Int("total", len(apps)),
		)

		if resp.Data.HasMore == nil || !*resp.Data.HasMore || resp.Data.PageToken == nil || *resp.Data.PageToken == "" {
			break
		}
		pageToken = *resp.Data.PageToken
	}

	for i, j := 0, len(apps)-1; i < j; i, j = i+1, j-1 {
		apps[i], apps[j] = apps[j], apps[i]
	}
	return apps, nil
}

// appFromFields maps one bitable record. Empty cells are absent from the
// record, so the repository defaults apply to them.
func appFromFields(fields map[string]any, loc *time.Location) App {
	text := func(key string) string { return cellText(fields[key]) }
	optional := func(key string) *string {
		v, ok := fields[key]
		if !ok || v == nil {
			return nil
		}
		s := cellText(v)
		return &s
	}
	return App{
		Name:          text("name"),
		ChangeLog:     text("changeLog"),
		Category:      text("category"),
		Type:          text("type"),
		Icon80:        optional("icon80"),
		Icon100:       optional("icon100"),
		Description:   optional("description"),
		FwVersion:     text("fwVersion"),
		Version:       text("version"),
		Platform:      cellPlatforms(fields["platform"], text("location")),
		InternalName:  text("internalName"),
		PublishedDate: cellDate(fields["publishedDate"], loc),
		Maintainer:    text("maintainer"),
		Developer:     text("developer"),
		ForumLink:     text("forumLink"),
		Language:      text("language"),
		Snapshot:      text("snapshot"),
		BannerImg:     text("bannerImg"),
		TutorialLink:  text("tutorialLink"),
	}
}

// cellText flattens a cell value. Rich text segments are concatenated, a
// hyperlink cell yields its link and a multi-select joins its options.
func cellText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any:
		if link, ok := v["link"].(string); ok && link != "" {
			return link
		}
		if t, ok := v["text"].(string); ok {
			return t
		}
		return ""
	case []any:
		var (
			b       strings.Builder
			options []string
		)
		for _, e := range v {
			switch e := e.(type) {
			case string:
				options = append(options, e)
			case map[string]any:
				if t, ok := e["text"].(string); ok {
					b.WriteString(t)
				} else if link, ok := e["link"].(string); ok {
					b.WriteString(link)
				}
			}
		}
		if len(options) > 0 {
			return strings.Join(options, ",")
		}
		return b.String()
	default:
		return fmt.Sprint(v)
	}
}

// cellPlatforms reads a single or multi-select platform cell and resolves
// each id against the location text.
func cellPlatforms(v any, location string) Platforms {
	var ids []string
	switch v := v.(type) {
	case nil:
		return nil
	case []any:
		for _, e := range v {
			if id := strings.TrimSpace(cellText(e)); id != "" {
				ids = append(ids, id)
			}
		}
	default:
		ids = platformIDs(cellText(v))
	}
	if len(ids) == 0 {
		return nil
	}
	out := make(Platforms, 0, len(ids))
	for _, id := range ids {
		out = append(out, PlatformEntry{PlatformID: id, Location: locationFor(id, location)})
	}
	return out
}

// cellDate renders a date cell (epoch milliseconds) as "2006-01-02 15:04".
// Text cells are kept as written.
func cellDate(v any, loc *time.Location) string {
	var ms int64
	switch v := v.(type) {
	case float64:
		ms = int64(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return v
		}
		ms = n
	default:
		return cellText(v)
	}
	return time.UnixMilli(ms).In(loc).Format("2006-01-02 15:04")
}

// larkLogger routes SDK logging through zap.
type larkLogger struct {
	l *zap.SugaredLogger
}

func (g larkLogger) Debug(_ context.Context, args ...any) { g.l.Debug(args...) }
func (g larkLogger) Info(_ context.Context, args ...any)  { g.l.Info(args...) }
func (g larkLogger) Warn(_ context.Context, args ...any)  { g.l.Warn(args...) }
func (g larkLogger) Error(_ context.Context, args ...any) { g.l.Error(args...) }
