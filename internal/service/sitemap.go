package service

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/littlesteps/booking/internal/model"
)

// publicRoutes are the marketing pages served by the front end.
var publicRoutes = []struct {
	Path       string
	Priority   string
	ChangeFreq string
}{
	{"/", "1.0", "weekly"},
	{"/services", "0.9", "weekly"},
	{"/booking", "0.9", "monthly"},
	{"/gallery", "0.6", "monthly"},
	{"/about", "0.6", "monthly"},
	{"/contact", "0.5", "monthly"},
	{"/privacy-request", "0.3", "yearly"},
}

type SitemapService struct {
	legalService *LegalService
	baseURL      string
}

func NewSitemapService(legalService *LegalService, baseURL string) *SitemapService {
	return &SitemapService{
		legalService: legalService,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *SitemapService) GenerateSitemap() ([]byte, error) {
	today := time.Now().Format("2006-01-02")
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	for _, route := range publicRoutes {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + route.Path,
			LastMod:    today,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}

	for _, slug := range s.legalService.Slugs() {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + "/legal/" + slug,
			LastMod:    today,
			ChangeFreq: "yearly",
			Priority:   "0.3",
		})
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}

func (s *SitemapService) RobotsTxt() string {
	return "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /api/\n" +
		"Disallow: /data-download/\n" +
		"Disallow: /data-deletion/\n" +
		"\n" +
		"Sitemap: " + s.baseURL + "/sitemap.xml\n"
}
