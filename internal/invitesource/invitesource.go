// Package invitesource collects group invite codes from the
// gruposwhats.app directory: category pages link to per-group pages,
// each of which embeds a chat.whatsapp.com invite link.
package invitesource

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	baseURL = "https://gruposwhats.app"

	// groupsPerCategory bounds how many group pages are visited per
	// category.
	groupsPerCategory = 5

	// pageDelay is slept between page fetches to stay polite.
	pageDelay = 1 * time.Second

	requestTimeout = 15 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// categories lists the directory categories scraped, in order.
var categories = []string{
	"amizade",
	"amor-e-romance",
}

var (
	groupPathPattern = regexp.MustCompile(`/group/\d+`)
	invitePattern    = regexp.MustCompile(`chat\.whatsapp\.com/([A-Za-z0-9]{22})`)
)

// Scraper fetches invite codes from the group directory.
type Scraper struct {
	http  *resty.Client
	sleep func(time.Duration)
}

// New creates a Scraper with a browser-like identity.
func New() *Scraper {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8").
		SetHeader("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")

	return &Scraper{http: httpClient, sleep: time.Sleep}
}

// CollectCodes walks every category and returns the invite codes found.
// Per-page failures are logged and skipped; only a total failure to
// reach the directory is an error.
func (s *Scraper) CollectCodes(ctx context.Context) ([]string, error) {
	var codes []string

	for _, category := range categories {
		pages, err := s.groupPages(ctx, category)
		if err != nil {
			log.Warn().Err(err).Str("category", category).Msg("category fetch failed")
			continue
		}

		log.Info().Str("category", category).Int("groups", len(pages)).Msg("category scraped")

		for _, page := range pages {
			code, ok := s.inviteCode(ctx, page)
			if ok {
				codes = append(codes, code)
			}

			s.sleep(pageDelay)
		}
	}

	if len(codes) == 0 {
		return nil, errors.New("no invite codes collected")
	}

	return codes, nil
}

// groupPages extracts up to groupsPerCategory distinct group-page URLs
// from a category listing.
func (s *Scraper) groupPages(ctx context.Context, category string) ([]string, error) {
	resp, err := s.http.R().SetContext(ctx).Get("/category/" + category)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch category page")
	}

	if resp.IsError() {
		return nil, errors.Errorf("category page returned status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse category page")
	}

	seen := map[string]bool{}

	var pages []string

	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok || !groupPathPattern.MatchString(href) {
			return true
		}

		if strings.HasPrefix(href, "/") {
			href = baseURL + href
		}

		if !seen[href] {
			seen[href] = true
			pages = append(pages, href)
		}

		return len(pages) < groupsPerCategory
	})

	return pages, nil
}

// inviteCode pulls the 22-character invite code out of a group page.
func (s *Scraper) inviteCode(ctx context.Context, pageURL string) (string, bool) {
	resp, err := s.http.R().SetContext(ctx).Get(pageURL)
	if err != nil || resp.IsError() {
		log.Warn().Str("page", pageURL).Msg("group page fetch failed")
		return "", false
	}

	if m := invitePattern.FindSubmatch(resp.Body()); m != nil {
		return string(m[1]), true
	}

	return "", false
}
