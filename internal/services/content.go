package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/akdamba/portal-backend/internal/pkg/logger"
	"github.com/akdamba/portal-backend/internal/platform/sanity"
	"github.com/akdamba/portal-backend/internal/richtext"
)

var ErrNotFound = errors.New("content not found")

type CallbackReason struct {
	Label string `json:"label"`
	Email string `json:"email"`
}

type SiteSettings struct {
	ID                      string           `json:"_id"`
	Title                   string           `json:"title"`
	CompanyName             string           `json:"companyName"`
	Phone                   string           `json:"phone"`
	Email                   string           `json:"email"`
	CallbackReasons         []CallbackReason `json:"callbackReasons"`
	CallbackFallbackEmail   string           `json:"callbackFallbackEmail"`
	AndelshavereTitle       string           `json:"andelshavereTitle"`
	AndelshavereDescription string           `json:"andelshavereDescription"`
	AndelshavereLoginLink   string           `json:"andelshavereLoginLink"`
}

type NewsArticle struct {
	ID           string      `json:"_id"`
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	PublishedAt  string      `json:"publishedAt"`
	Excerpt      string      `json:"excerpt"`
	MainImage    string      `json:"mainImage,omitempty"`
	MainImageAlt string      `json:"mainImageAlt,omitempty"`
	SourceURL    string      `json:"sourceUrl,omitempty"`
	IsPublic     bool        `json:"isPublic"`
	Body         interface{} `json:"body,omitempty"`
}

type RenderedArticle struct {
	NewsArticle
	BodyHTML string `json:"bodyHtml"`
}

type RelatedTopic struct {
	ID         string `json:"_id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Icon       string `json:"icon"`
	ShortLabel string `json:"shortLabel"`
}

type Topic struct {
	ID         string         `json:"_id"`
	Title      string         `json:"title"`
	Slug       string         `json:"slug"`
	Icon       string         `json:"icon"`
	ShortLabel string         `json:"shortLabel"`
	Content    interface{}    `json:"content,omitempty"`
	Related    []RelatedTopic `json:"relatedTopics,omitempty"`
}

type RenderedTopic struct {
	Topic
	ContentHTML     string              `json:"contentHtml"`
	TableOfContents []richtext.TOCEntry `json:"tableOfContents"`
}

type Dashboard struct {
	Settings *SiteSettings `json:"settings"`
	News     []NewsArticle `json:"news"`
}

type ContentService interface {
	SiteSettings(ctx context.Context) (*SiteSettings, error)
	NewsList(ctx context.Context) ([]NewsArticle, error)
	NewsArticle(ctx context.Context, slug string) (*RenderedArticle, error)
	Topic(ctx context.Context, slug string) (*RenderedTopic, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type contentService struct {
	log      *logger.Logger
	cms      sanity.Client
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewContentService serves CMS documents with bodies rendered to HTML.
// cache may be nil; then every call goes straight to the CMS (the Sanity
// CDN is the real cache, Redis just keeps rendered pages warm).
func NewContentService(log *logger.Logger, cms sanity.Client, cache *redis.Client, cacheTTL time.Duration) ContentService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &contentService{
		log:      log.With("service", "ContentService"),
		cms:      cms,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *contentService) SiteSettings(ctx context.Context) (*SiteSettings, error) {
	var settings SiteSettings
	err := s.cached(ctx, "content:site-settings", &settings, func(out interface{}) error {
		return s.cms.Query(ctx, sanity.SiteSettingsQuery, nil, out)
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *contentService) NewsList(ctx context.Context) ([]NewsArticle, error) {
	var list []NewsArticle
	err := s.cached(ctx, "content:news-list", &list, func(out interface{}) error {
		return s.cms.Query(ctx, sanity.NewsListQuery, nil, out)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *contentService) NewsArticle(ctx context.Context, slug string) (*RenderedArticle, error) {
	var rendered RenderedArticle
	err := s.cached(ctx, "content:news:"+slug, &rendered, func(out interface{}) error {
		var article NewsArticle
		if err := s.cms.Query(ctx, sanity.NewsArticleQuery, map[string]interface{}{"slug": slug}, &article); err != nil {
			return err
		}
		if article.ID == "" {
			return ErrNotFound
		}
		r := RenderedArticle{
			NewsArticle: article,
			BodyHTML:    richtext.Render(article.Body, richtext.Options{}),
		}
		if strings.TrimSpace(r.Excerpt) == "" {
			r.Excerpt = excerpt(richtext.PlainText(article.Body), 200)
		}
		r.Body = nil
		*out.(*RenderedArticle) = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rendered, nil
}

func (s *contentService) Topic(ctx context.Context, slug string) (*RenderedTopic, error) {
	var rendered RenderedTopic
	err := s.cached(ctx, "content:topic:"+slug, &rendered, func(out interface{}) error {
		var topic Topic
		if err := s.cms.Query(ctx, sanity.VidensbaseTopicQuery, map[string]interface{}{"slug": slug}, &topic); err != nil {
			return err
		}
		if topic.ID == "" {
			return ErrNotFound
		}
		r := RenderedTopic{
			Topic:           topic,
			ContentHTML:     richtext.Render(topic.Content, richtext.Options{HeadingAnchors: true}),
			TableOfContents: richtext.TableOfContents(topic.Content),
		}
		r.Content = nil
		*out.(*RenderedTopic) = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rendered, nil
}

// Dashboard assembles the member start page from several documents at once.
func (s *contentService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var dash Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settings, err := s.SiteSettings(gctx)
		if err != nil {
			return err
		}
		dash.Settings = settings
		return nil
	})
	g.Go(func() error {
		news, err := s.NewsList(gctx)
		if err != nil {
			return err
		}
		dash.News = news
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

// cached fills out from Redis when possible, otherwise via fetch, writing
// the result back with a TTL. Cache trouble is never an error here, only a
// log line.
func (s *contentService) cached(ctx context.Context, key string, out interface{}, fetch func(out interface{}) error) error {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			if json.Unmarshal(raw, out) == nil {
				return nil
			}
			s.log.Warn("Discarding undecodable cache entry", "key", key)
		} else if err != redis.Nil {
			s.log.Debug("Content cache read failed", "key", key, "error", err.Error())
		}
	}

	if err := fetch(out); err != nil {
		return err
	}

	if s.cache != nil {
		raw, err := json.Marshal(out)
		if err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
				s.log.Debug("Content cache write failed", "key", key, "error", err.Error())
			}
		}
	}
	return nil
}

func excerpt(text string, max int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}
