package campaignkit

import (
	"encoding/json"
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapPage is the subset of a page entry the sitemap needs. The front
// end owns the full shape; unknown fields are ignored.
type sitemapPage struct {
	Slug      string `json:"slug"`
	UpdatedAt string `json:"updatedAt"`
}

// handleSitemap lists the home page and every page from the content
// document.
func (a *App) handleSitemap(c echo.Context) error {
	raw, err := a.content.Get()
	if err != nil {
		return err
	}
	var doc ContentDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	var pages []sitemapPage
	_ = json.Unmarshal(doc.Pages, &pages)

	base := a.Config.URL
	urls := []sitemapURL{{Loc: buildURL(base)}}
	for _, p := range pages {
		if p.Slug == "" {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     buildURL(base, "pages", p.Slug),
			LastMod: p.UpdatedAt,
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
