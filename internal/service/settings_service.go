package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

var ErrSettingsValidation = errors.New("settings validation failed")

var settingNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

type SettingsService struct {
	settings ports.SettingsRepository
	activity *ActivityRecorder
}

func NewSettingsService(settings ports.SettingsRepository, activity *ActivityRecorder) *SettingsService {
	return &SettingsService{settings: settings, activity: activity}
}

// loadSetting returns the document under key, creating it from defaults on
// first access.
func loadSetting[T any](ctx context.Context, repo ports.SettingsRepository, key string, defaults T) (*T, error) {
	raw, err := json.Marshal(defaults)
	if err != nil {
		return nil, err
	}
	doc, err := repo.GetOrCreate(ctx, key, raw)
	if err != nil {
		return nil, err
	}
	value := defaults
	if err := json.Unmarshal(doc.Value, &value); err != nil {
		return nil, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return &value, nil
}

// peekSetting returns the stored document or defaults without writing.
func peekSetting[T any](ctx context.Context, repo ports.SettingsRepository, key string, defaults T) (*T, error) {
	value := defaults
	doc, err := repo.Get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return &value, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(doc.Value, &value); err != nil {
		return nil, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return &value, nil
}

// mergeSetting applies patch over the current document and persists the result.
func mergeSetting[T any](ctx context.Context, repo ports.SettingsRepository, key string, current *T, patch json.RawMessage, validate func(*T) error) (*T, error) {
	next := *current
	if err := json.Unmarshal(patch, &next); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSettingsValidation, err.Error())
	}
	if validate != nil {
		if err := validate(&next); err != nil {
			return nil, err
		}
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	doc, err := repo.Put(ctx, key, raw)
	if err != nil {
		return nil, err
	}
	stored := next
	if err := json.Unmarshal(doc.Value, &stored); err != nil {
		return nil, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return &stored, nil
}

func (s *SettingsService) Website(ctx context.Context) (*domain.WebsiteSettings, error) {
	return loadSetting(ctx, s.settings, domain.SettingKeyWebsite, domain.DefaultWebsiteSettings())
}

func (s *SettingsService) UpdateWebsite(ctx context.Context, patch json.RawMessage) (*domain.WebsiteSettings, error) {
	current, err := s.Website(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := mergeSetting(ctx, s.settings, domain.SettingKeyWebsite, current, patch, func(w *domain.WebsiteSettings) error {
		w.SiteName = strings.TrimSpace(w.SiteName)
		if w.SiteName == "" {
			return fmt.Errorf("%w: siteName is required", ErrSettingsValidation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.ResourceWebsiteSettings, "", "Updated website settings")
	return updated, nil
}

func (s *SettingsService) Theme(ctx context.Context) (*domain.ThemeSettings, error) {
	return loadSetting(ctx, s.settings, domain.SettingKeyTheme, domain.DefaultThemeSettings())
}

func (s *SettingsService) UpdateTheme(ctx context.Context, patch json.RawMessage) (*domain.ThemeSettings, error) {
	current, err := s.Theme(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := mergeSetting(ctx, s.settings, domain.SettingKeyTheme, current, patch, validateTheme)
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.ResourceTheme, "", "Updated theme settings")
	return updated, nil
}

func validateTheme(t *domain.ThemeSettings) error {
	var problems []string
	if !oneOf(t.ButtonStyle, "rounded", "square", "pill") {
		problems = append(problems, "buttonStyle must be one of rounded, square, pill")
	}
	if !oneOf(t.ButtonSize, "small", "medium", "large") {
		problems = append(problems, "buttonSize must be one of small, medium, large")
	}
	if !oneOf(t.ThemeMode, "light", "dark", "auto") {
		problems = append(problems, "themeMode must be one of light, dark, auto")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrSettingsValidation, strings.Join(problems, "; "))
	}
	return nil
}

func (s *SettingsService) Banner(ctx context.Context) (*domain.BannerSettings, error) {
	return loadSetting(ctx, s.settings, domain.SettingKeyBanner, domain.DefaultBannerSettings())
}

func (s *SettingsService) UpdateBanner(ctx context.Context, patch json.RawMessage) (*domain.BannerSettings, error) {
	current, err := s.Banner(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := mergeSetting(ctx, s.settings, domain.SettingKeyBanner, current, patch, func(b *domain.BannerSettings) error {
		b.Images = trimAll(b.Images)
		if b.RotationInterval < 1000 {
			return fmt.Errorf("%w: rotationInterval must be at least 1000 ms", ErrSettingsValidation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.ResourceBanner, "", "Updated banner settings")
	return updated, nil
}

func (s *SettingsService) SEO(ctx context.Context, page string) (*domain.SEOSettings, error) {
	page, err := settingName(page, "page")
	if err != nil {
		return nil, err
	}
	return loadSetting(ctx, s.settings, domain.SEOSettingKey(page), domain.DefaultSEOSettings(page))
}

// PublicSEO serves anonymous readers. Unknown pages get defaults and nothing
// is stored.
func (s *SettingsService) PublicSEO(ctx context.Context, page string) (*domain.SEOSettings, error) {
	page, err := settingName(page, "page")
	if err != nil {
		return nil, err
	}
	return peekSetting(ctx, s.settings, domain.SEOSettingKey(page), domain.DefaultSEOSettings(page))
}

func (s *SettingsService) UpdateSEO(ctx context.Context, page string, patch json.RawMessage) (*domain.SEOSettings, error) {
	current, err := s.SEO(ctx, page)
	if err != nil {
		return nil, err
	}
	updated, err := mergeSetting(ctx, s.settings, domain.SEOSettingKey(current.Page), current, patch, func(seo *domain.SEOSettings) error {
		seo.Page = current.Page
		seo.MetaKeywords = trimAll(seo.MetaKeywords)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.ResourceSEO, current.Page, fmt.Sprintf("Updated SEO settings for %s", current.Page))
	return updated, nil
}

func (s *SettingsService) ListSEO(ctx context.Context) ([]domain.SEOSettings, error) {
	docs, err := s.settings.ListByPrefix(ctx, domain.SEOSettingPrefix())
	if err != nil {
		return nil, err
	}
	out := make([]domain.SEOSettings, 0, len(docs))
	for _, doc := range docs {
		seo := domain.DefaultSEOSettings(domain.SettingName(doc.Key))
		if err := json.Unmarshal(doc.Value, &seo); err != nil {
			return nil, fmt.Errorf("decode setting %s: %w", doc.Key, err)
		}
		out = append(out, seo)
	}
	return out, nil
}

func (s *SettingsService) HomepageSection(ctx context.Context, section string) (*domain.HomepageSection, error) {
	section, err := settingName(section, "section")
	if err != nil {
		return nil, err
	}
	return loadSetting(ctx, s.settings, domain.HomepageSettingKey(section), domain.DefaultHomepageSection(section))
}

func (s *SettingsService) UpdateHomepageSection(ctx context.Context, section string, patch json.RawMessage) (*domain.HomepageSection, error) {
	current, err := s.HomepageSection(ctx, section)
	if err != nil {
		return nil, err
	}
	updated, err := mergeSetting(ctx, s.settings, domain.HomepageSettingKey(current.Section), current, patch, func(h *domain.HomepageSection) error {
		h.Section = current.Section
		if h.CustomData == nil {
			h.CustomData = map[string]any{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.ResourceHomepage, current.Section, fmt.Sprintf("Updated homepage section %s", current.Section))
	return updated, nil
}

// ListHomepage returns sections sorted by order. With enabledOnly, disabled
// sections are left out.
func (s *SettingsService) ListHomepage(ctx context.Context, enabledOnly bool) ([]domain.HomepageSection, error) {
	docs, err := s.settings.ListByPrefix(ctx, domain.HomepageSettingPrefix())
	if err != nil {
		return nil, err
	}
	out := make([]domain.HomepageSection, 0, len(docs))
	for _, doc := range docs {
		section := domain.DefaultHomepageSection(domain.SettingName(doc.Key))
		if err := json.Unmarshal(doc.Value, &section); err != nil {
			return nil, fmt.Errorf("decode setting %s: %w", doc.Key, err)
		}
		if enabledOnly && !section.Enabled {
			continue
		}
		out = append(out, section)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Section < out[j].Section
	})
	return out, nil
}

func (s *SettingsService) ReorderHomepage(ctx context.Context, order []domain.SectionOrder) ([]domain.HomepageSection, error) {
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: sections are required", ErrSettingsValidation)
	}
	for _, item := range order {
		current, err := s.HomepageSection(ctx, item.Section)
		if err != nil {
			return nil, err
		}
		current.Order = item.Order
		raw, err := json.Marshal(current)
		if err != nil {
			return nil, err
		}
		if _, err := s.settings.Put(ctx, domain.HomepageSettingKey(current.Section), raw); err != nil {
			return nil, err
		}
	}
	s.record(ctx, domain.ResourceHomepage, "", fmt.Sprintf("Reordered %d homepage sections", len(order)))
	return s.ListHomepage(ctx, false)
}

func (s *SettingsService) record(ctx context.Context, resource, resourceID, details string) {
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionUpdate,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
	})
}

func settingName(name, label string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !settingNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: invalid %s name", ErrSettingsValidation, label)
	}
	return name, nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
