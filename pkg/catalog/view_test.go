package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveIcon(t *testing.T) {
	tests := []struct {
		name    string
		icon100 string
		icon80  string
		want    string
	}{
		{name: "prefers 100", icon100: "https://a/100.png", icon80: "https://a/80.png", want: "https://a/100.png"},
		{name: "falls back to 80", icon80: "https://a/80.png", want: "https://a/80.png"},
		{name: "placeholder", want: "https://picsum.photos/seed/X/100/100.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveIcon(tt.icon100, tt.icon80, "X"); got != tt.want {
				t.Errorf("ResolveIcon = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaceholderIcon_Deterministic(t *testing.T) {
	if PlaceholderIcon("Docker") != PlaceholderIcon("Docker") {
		t.Error("placeholder is not deterministic")
	}
	if PlaceholderIcon("Docker") == PlaceholderIcon("iPerf3") {
		t.Error("placeholder is not seeded by name")
	}
	if got := PlaceholderIcon("a b/c"); got != "https://picsum.photos/seed/a%20b%2Fc/100/100.jpg" {
		t.Errorf("PlaceholderIcon escapes to %q", got)
	}
}

func TestNewViewModel(t *testing.T) {
	r := Record{
		Name:          "iPerf3",
		Version:       "3.19.1",
		PublishedDate: "2025-10-19 14:21",
		Icon:          "https://a/100.png",
		Platforms: []Platform{
			{ID: "TS-NASX86", URL: "u1"},
			{ID: "TS-NASARM_64", URL: "u2"},
		},
	}
	vm := NewViewModel(7, r, NewDateFormatter("zh-CN"))

	if vm.Index != 7 {
		t.Errorf("Index = %d, want 7", vm.Index)
	}
	if vm.PublishedDate != "2025/10/19" {
		t.Errorf("PublishedDate = %q, want %q", vm.PublishedDate, "2025/10/19")
	}
	if vm.FallbackIcon != FallbackIcon {
		t.Errorf("FallbackIcon = %q", vm.FallbackIcon)
	}
	if diff := cmp.Diff([]string{"TS-NASX86", "TS-NASARM_64"}, vm.PlatformTags); diff != "" {
		t.Errorf("PlatformTags (-want +got):\n%s", diff)
	}
	if !vm.Download.NeedsChoice() {
		t.Error("two platforms should need a choice")
	}
}

func TestNewViewModel_NoPlatforms(t *testing.T) {
	vm := NewViewModel(0, Record{Name: "X"}, nil)
	if vm.Download != nil {
		t.Errorf("Download = %+v, want nil", vm.Download)
	}
	if vm.PlatformTags != nil {
		t.Errorf("PlatformTags = %v, want none", vm.PlatformTags)
	}
	if vm.Icon != PlaceholderIcon("X") {
		t.Errorf("Icon = %q, want placeholder for X", vm.Icon)
	}
	if vm.PublishedDate != EmptyDate {
		t.Errorf("PublishedDate = %q, want %q", vm.PublishedDate, EmptyDate)
	}
}

func TestDownloadAction_SinglePlatformIsDirect(t *testing.T) {
	a := NewDownloadAction([]Platform{{ID: "A", URL: "u1"}})
	called := false
	chooser := ChooserFunc(func(context.Context, []Platform) (int, error) {
		called = true
		return 0, nil
	})

	got, err := a.Resolve(context.Background(), chooser)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "u1" {
		t.Errorf("Resolve = %q, want u1", got)
	}
	if called {
		t.Error("chooser must not be asked for a single platform")
	}
	if u, ok := a.Direct(); !ok || u != "u1" {
		t.Errorf("Direct = %q, %v", u, ok)
	}
}

func TestDownloadAction_Disambiguation(t *testing.T) {
	a := NewDownloadAction([]Platform{{ID: "A", URL: "u1"}, {ID: "B", URL: "u2"}})
	if _, ok := a.Direct(); ok {
		t.Fatal("two platforms must not resolve directly")
	}

	var offered []string
	chooser := ChooserFunc(func(_ context.Context, options []Platform) (int, error) {
		for _, o := range options {
			offered = append(offered, o.ID)
		}
		return 1, nil
	})
	got, err := a.Resolve(context.Background(), chooser)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "u2" {
		t.Errorf("Resolve = %q, want u2", got)
	}
	if diff := cmp.Diff([]string{"A", "B"}, offered); diff != "" {
		t.Errorf("offered options (-want +got):\n%s", diff)
	}
}

func TestDownloadAction_ChooseByID(t *testing.T) {
	a := NewDownloadAction([]Platform{{ID: "A", URL: "u1"}, {ID: "B", URL: "u2"}})

	got, err := a.Resolve(context.Background(), ChooseByID("B"))
	if err != nil || got != "u2" {
		t.Errorf("Resolve(B) = %q, %v; want u2", got, err)
	}

	if _, err := a.Resolve(context.Background(), ChooseByID("C")); !errors.Is(err, ErrNoSelection) {
		t.Errorf("unknown id: err = %v, want ErrNoSelection", err)
	}
}

func TestDownloadAction_NoNavigation(t *testing.T) {
	a := NewDownloadAction([]Platform{{ID: "A", URL: "u1"}, {ID: "B", URL: "u2"}})
	boom := errors.New("prompt broke")

	tests := []struct {
		name    string
		chooser PlatformChooser
		wantErr error
	}{
		{name: "cancelled", chooser: ChooserFunc(func(context.Context, []Platform) (int, error) { return 0, ErrChoiceCancelled }), wantErr: ErrNoSelection},
		{name: "too high", chooser: ChooserFunc(func(context.Context, []Platform) (int, error) { return 2, nil }), wantErr: ErrNoSelection},
		{name: "negative", chooser: ChooserFunc(func(context.Context, []Platform) (int, error) { return -1, nil }), wantErr: ErrNoSelection},
		{name: "no chooser", chooser: nil, wantErr: ErrNoSelection},
		{name: "chooser failure", chooser: ChooserFunc(func(context.Context, []Platform) (int, error) { return 0, boom }), wantErr: boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Resolve(context.Background(), tt.chooser)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if got != "" {
				t.Errorf("url = %q, want none", got)
			}
		})
	}
}

func TestDownloadAction_Nil(t *testing.T) {
	var a *DownloadAction
	if a.NeedsChoice() {
		t.Error("nil action needs no choice")
	}
	if _, err := a.Resolve(context.Background(), ChooseByID("A")); !errors.Is(err, ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}
}

func TestNewDownloadAction_Copies(t *testing.T) {
	platforms := []Platform{{ID: "A", URL: "u1"}}
	a := NewDownloadAction(platforms)
	platforms[0].URL = "changed"
	if u, _ := a.Direct(); u != "u1" {
		t.Errorf("action shares memory with the record: %q", u)
	}
}
