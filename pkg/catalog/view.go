package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// FallbackIcon replaces an icon that fails to load in the browser.
const FallbackIcon = "https://picsum.photos/seed/default/60/60.jpg"

var (
	// ErrChoiceCancelled is returned by a PlatformChooser when the user
	// dismisses the platform choice.
	ErrChoiceCancelled = errors.New("platform choice cancelled")

	// ErrNoSelection means a download resolved to no URL: the choice was
	// cancelled or invalid, or there is nothing to download.
	ErrNoSelection = errors.New("no platform selected")
)

// PlaceholderIcon returns the deterministic placeholder image for a package
// without icons.
func PlaceholderIcon(name string) string {
	return "https://picsum.photos/seed/" + url.PathEscape(name) + "/100/100.jpg"
}

// ResolveIcon prefers the 100x100 icon, then the 80x80 one, then the
// placeholder seeded by name.
func ResolveIcon(icon100, icon80, name string) string {
	switch {
	case icon100 != "":
		return icon100
	case icon80 != "":
		return icon80
	default:
		return PlaceholderIcon(name)
	}
}

// ViewModel is everything a card needs to render one package.
type ViewModel struct {
	// Index is the record's position in the catalog. It stays valid until
	// the next load and addresses download requests.
	Index           int    `json:"index"`
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
	FallbackIcon    string `json:"fallback_icon"`

	PlatformTags []string        `json:"platform_tags,omitempty"`
	Download     *DownloadAction `json:"download,omitempty"`
}

// NewViewModel maps a record to its card. A nil formatter uses the default
// locale.
func NewViewModel(index int, r Record, dates *DateFormatter) ViewModel {
	if dates == nil {
		dates = DefaultDateFormatter()
	}
	vm := ViewModel{
		Index:           index,
		Name:            r.Name,
		Version:         r.Version,
		FirmwareVersion: r.FirmwareVersion,
		Description:     r.Description,
		Category:        r.Category,
		Type:            r.Type,
		Maintainer:      r.Maintainer,
		Developer:       r.Developer,
		PublishedDate:   dates.Format(r.PublishedDate),
		Icon:            r.Icon,
		FallbackIcon:    FallbackIcon,
		Download:        NewDownloadAction(r.Platforms),
	}
	if vm.Icon == "" {
		vm.Icon = PlaceholderIcon(r.Name)
	}
	for _, p := range r.Platforms {
		vm.PlatformTags = append(vm.PlatformTags, p.ID)
	}
	return vm
}

// PlatformChooser asks the user which platform to download. It returns the
// index of the chosen option or ErrChoiceCancelled.
type PlatformChooser interface {
	ChoosePlatform(ctx context.Context, options []Platform) (int, error)
}

// ChooserFunc adapts a function to PlatformChooser.
type ChooserFunc func(ctx context.Context, options []Platform) (int, error)

// ChoosePlatform calls f.
func (f ChooserFunc) ChoosePlatform(ctx context.Context, options []Platform) (int, error) {
	return f(ctx, options)
}

// ChooseByID returns a chooser that picks the option whose ID equals id and
// cancels when there is none.
func ChooseByID(id string) PlatformChooser {
	return ChooserFunc(func(_ context.Context, options []Platform) (int, error) {
		for i := range options {
			if options[i].ID == id {
				return i, nil
			}
		}
		return -1, ErrChoiceCancelled
	})
}

// DownloadAction is the download button of a card.
type DownloadAction struct {
	Options []Platform `json:"options"`
}

// NewDownloadAction returns nil when there is nothing to download.
func NewDownloadAction(platforms []Platform) *DownloadAction {
	if len(platforms) == 0 {
		return nil
	}
	return &DownloadAction{Options: append([]Platform(nil), platforms...)}
}

// NeedsChoice reports whether resolving the action asks the user.
func (a *DownloadAction) NeedsChoice() bool {
	return a != nil && len(a.Options) > 1
}

// Direct returns the URL of a single-platform action.
func (a *DownloadAction) Direct() (string, bool) {
	if a == nil || len(a.Options) != 1 {
		return "", false
	}
	return a.Options[0].URL, true
}

// Resolve returns the URL to navigate to. With more than one option the
// chooser decides; a cancelled or out-of-range choice yields ErrNoSelection.
func (a *DownloadAction) Resolve(ctx context.Context, chooser PlatformChooser) (string, error) {
	if a == nil || len(a.Options) == 0 {
		return "", ErrNoSelection
	}
	if u, ok := a.Direct(); ok {
		return u, nil
	}
	if chooser == nil {
		return "", ErrNoSelection
	}

	options := append([]Platform(nil), a.Options...)
	idx, err := chooser.ChoosePlatform(ctx, options)
	if err != nil {
		if errors.Is(err, ErrChoiceCancelled) {
			return "", ErrNoSelection
		}
		return "", fmt.Errorf("choose platform: %w", err)
	}
	if idx < 0 || idx >= len(a.Options) {
		return "", fmt.Errorf("%w: choice %d out of range 1-%d", ErrNoSelection, idx+1, len(a.Options))
	}
	return a.Options[idx].URL, nil
}
