package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/autlan/recolecta/internal/content"
	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/ports"
)

const (
	articleHTMLTTL = 3600
	maxRelated     = 3
)

// ArticleFilter narrows the public article listing. Query matches title or
// summary; Category must match exactly. Empty or "all" disables a criterion.
type ArticleFilter struct {
	Query    string
	Category string
}

func (f ArticleFilter) match(a domain.Article) bool {
	if q := domain.FoldText(f.Query); q != "" {
		if !strings.Contains(domain.FoldText(a.Title), q) && !strings.Contains(domain.FoldText(a.Summary), q) {
			return false
		}
	}
	if c := strings.TrimSpace(f.Category); c != "" && c != "all" && a.Category != c {
		return false
	}
	return true
}

// ArticleService handles educational articles.
type ArticleService struct {
	repo  ports.ArticleRepository
	cache ports.CacheService
	now   func() time.Time
}

// NewArticleService creates a new ArticleService. cache may be nil.
func NewArticleService(repo ports.ArticleRepository, cache ports.CacheService) *ArticleService {
	return &ArticleService{repo: repo, cache: cache, now: time.Now}
}

// ListPublished returns published articles matching f, newest first.
func (s *ArticleService) ListPublished(ctx context.Context, f ArticleFilter) ([]domain.Article, error) {
	all, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	out := make([]domain.Article, 0, len(all))
	for _, a := range all {
		if f.match(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Categories returns the distinct categories of published articles, sorted.
func (s *ArticleService) Categories(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, a := range all {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// GetPublished returns a published article with its rendered body and up to
// three related articles from the same category. Unpublished articles are
// reported as not found.
func (s *ArticleService) GetPublished(ctx context.Context, id string) (*domain.ArticlePage, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Published {
		return nil, domain.ErrNotFound
	}

	all, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	related := []domain.Article{}
	for _, other := range all {
		if len(related) == maxRelated {
			break
		}
		if other.ID != a.ID && other.Category == a.Category {
			related = append(related, other)
		}
	}

	return &domain.ArticlePage{
		Article: *a,
		HTML:    s.render(ctx, a),
		Related: related,
	}, nil
}

// render formats the article body, caching by id and update time so an
// edit never serves stale HTML.
func (s *ArticleService) render(ctx context.Context, a *domain.Article) string {
	key := fmt.Sprintf("articles:html:%s:%d", a.ID, a.UpdatedAt.UnixNano())
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			return string(data)
		}
	}

	html := content.Format(a.Body)

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, []byte(html), articleHTMLTTL)
	}
	return html
}

// List returns every article, published or not, for administrators.
func (s *ArticleService) List(ctx context.Context) ([]domain.Article, error) {
	return s.repo.List(ctx, false)
}

// GetByID returns any article, for administrators.
func (s *ArticleService) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores an article. Publishing without a date stamps the current time.
func (s *ArticleService) Create(ctx context.Context, a *domain.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.stamp(a)
	return s.repo.Create(ctx, a)
}

func (s *ArticleService) Update(ctx context.Context, a *domain.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.stamp(a)
	return s.repo.Update(ctx, a)
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *ArticleService) stamp(a *domain.Article) {
	if a.Published && a.PublishedAt == nil {
		now := s.now().UTC()
		a.PublishedAt = &now
	}
}
