package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

func TestSettingsGetOrCreateDefaults(t *testing.T) {
	repo := newMemorySettings()
	svc := NewSettingsService(repo, NewActivityRecorder(&memoryActivityLogs{}, nil))

	website, err := svc.Website(context.Background())
	if err != nil {
		t.Fatalf("website: %v", err)
	}
	if !website.BookingEnabled || website.SiteName == "" {
		t.Fatalf("expected defaults, got %+v", website)
	}
	if _, ok := repo.docs[domain.SettingKeyWebsite]; !ok {
		t.Fatal("expected defaults to be persisted on first read")
	}

	again, err := svc.Website(context.Background())
	if err != nil {
		t.Fatalf("website: %v", err)
	}
	if again.SiteName != website.SiteName {
		t.Fatalf("expected the same document, got %q", again.SiteName)
	}
	if repo.puts != 0 {
		t.Fatalf("expected reads not to write, got %d puts", repo.puts)
	}
}

func TestSettingsMergeKeepsUnsetFields(t *testing.T) {
	repo := newMemorySettings()
	logs := &memoryActivityLogs{}
	svc := NewSettingsService(repo, NewActivityRecorder(logs, nil))
	ctx, _ := adminContext(domain.AdminRoleEditor)

	updated, err := svc.UpdateWebsite(ctx, json.RawMessage(`{"contactEmail":"hello@batuwa.travel","bookingEnabled":false}`))
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if updated.ContactEmail != "hello@batuwa.travel" || updated.BookingEnabled {
		t.Fatalf("expected patched fields, got %+v", updated)
	}
	if updated.Currency != "USD" {
		t.Fatalf("expected untouched default currency, got %q", updated.Currency)
	}

	reloaded, err := svc.Website(context.Background())
	if err != nil {
		t.Fatalf("website: %v", err)
	}
	if reloaded.BookingEnabled {
		t.Fatal("expected the merged document to be stored")
	}
	if got := len(logs.snapshot()); got != 1 {
		t.Fatalf("expected one audit entry, got %d", got)
	}
}

func TestThemeAndBannerValidation(t *testing.T) {
	svc := NewSettingsService(newMemorySettings(), NewActivityRecorder(&memoryActivityLogs{}, nil))
	ctx, _ := adminContext(domain.AdminRoleEditor)

	if _, err := svc.UpdateTheme(ctx, json.RawMessage(`{"buttonStyle":"blob"}`)); !errors.Is(err, ErrSettingsValidation) {
		t.Fatalf("expected ErrSettingsValidation for buttonStyle, got %v", err)
	}
	theme, err := svc.UpdateTheme(ctx, json.RawMessage(`{"themeMode":"dark"}`))
	if err != nil {
		t.Fatalf("expected theme update, got %v", err)
	}
	if theme.ThemeMode != "dark" || theme.ButtonStyle != "rounded" {
		t.Fatalf("unexpected theme %+v", theme)
	}

	if _, err := svc.UpdateBanner(ctx, json.RawMessage(`{"rotationInterval":500}`)); !errors.Is(err, ErrSettingsValidation) {
		t.Fatalf("expected ErrSettingsValidation for rotationInterval, got %v", err)
	}
}

func TestSEOPagesAreIndependent(t *testing.T) {
	svc := NewSettingsService(newMemorySettings(), NewActivityRecorder(&memoryActivityLogs{}, nil))
	ctx, _ := adminContext(domain.AdminRoleEditor)

	if _, err := svc.UpdateSEO(ctx, "home", json.RawMessage(`{"metaTitle":"Batuwa Travels"}`)); err != nil {
		t.Fatalf("update seo: %v", err)
	}
	tours, err := svc.SEO(context.Background(), "tours")
	if err != nil {
		t.Fatalf("seo: %v", err)
	}
	if tours.MetaTitle != "" || tours.Page != "tours" {
		t.Fatalf("expected fresh defaults for tours, got %+v", tours)
	}
	all, err := svc.ListSEO(context.Background())
	if err != nil {
		t.Fatalf("list seo: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected two pages, got %d", len(all))
	}
	if _, err := svc.SEO(context.Background(), "../etc"); !errors.Is(err, ErrSettingsValidation) {
		t.Fatalf("expected ErrSettingsValidation for bad page name, got %v", err)
	}
}

func TestPublicSEODoesNotPersistUnknownPages(t *testing.T) {
	repo := newMemorySettings()
	svc := NewSettingsService(repo, NewActivityRecorder(&memoryActivityLogs{}, nil))
	ctx, _ := adminContext(domain.AdminRoleEditor)

	seo, err := svc.PublicSEO(context.Background(), "Made-Up-Page")
	if err != nil {
		t.Fatalf("public seo: %v", err)
	}
	if seo.Page != "made-up-page" {
		t.Fatalf("expected defaults for made-up-page, got %+v", seo)
	}
	if len(repo.docs) != 0 {
		t.Fatalf("expected nothing stored for an anonymous read, got %v", repo.docs)
	}

	if _, err := svc.UpdateSEO(ctx, "home", json.RawMessage(`{"metaTitle":"Batuwa Travels"}`)); err != nil {
		t.Fatalf("update seo: %v", err)
	}
	home, err := svc.PublicSEO(context.Background(), "home")
	if err != nil {
		t.Fatalf("public seo: %v", err)
	}
	if home.MetaTitle != "Batuwa Travels" {
		t.Fatalf("expected stored title, got %+v", home)
	}
	if _, err := svc.PublicSEO(context.Background(), "../etc"); !errors.Is(err, ErrSettingsValidation) {
		t.Fatalf("expected ErrSettingsValidation, got %v", err)
	}
}

func TestHomepageOrderingAndEnabledFilter(t *testing.T) {
	svc := NewSettingsService(newMemorySettings(), NewActivityRecorder(&memoryActivityLogs{}, nil))
	ctx, _ := adminContext(domain.AdminRoleEditor)

	for _, patch := range []struct {
		section string
		body    string
	}{
		{"hero", `{"order":2,"title":"Discover Sri Lanka"}`},
		{"offers", `{"order":1,"enabled":false}`},
		{"about", `{"order":3}`},
	} {
		if _, err := svc.UpdateHomepageSection(ctx, patch.section, json.RawMessage(patch.body)); err != nil {
			t.Fatalf("update %s: %v", patch.section, err)
		}
	}

	visible, err := svc.ListHomepage(context.Background(), true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 2 || visible[0].Section != "hero" || visible[1].Section != "about" {
		t.Fatalf("expected hero then about, got %+v", visible)
	}

	reordered, err := svc.ReorderHomepage(ctx, []domain.SectionOrder{{Section: "about", Order: 0}, {Section: "offers", Order: 5}})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if len(reordered) != 3 || reordered[0].Section != "about" || reordered[2].Section != "offers" {
		t.Fatalf("expected about first and offers last, got %+v", reordered)
	}
	if reordered[1].Title != "Discover Sri Lanka" {
		t.Fatalf("expected reorder to keep section content, got %+v", reordered[1])
	}
}
