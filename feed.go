package campaignkit

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// feedEvent is the subset of a calendar event the feed needs.
type feedEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"` // YYYY-MM-DD
	Location    string `json:"location"`
	Description string `json:"description"`
}

// handleEventsFeed publishes the campaign calendar as RSS.
func (a *App) handleEventsFeed(c echo.Context) error {
	raw, err := a.content.Get()
	if err != nil {
		return err
	}
	var doc ContentDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	var events []feedEvent
	_ = json.Unmarshal(doc.Events, &events)

	base := a.Config.URL
	items := make([]rssItem, 0, len(events))
	for _, ev := range events {
		if ev.Title == "" {
			continue
		}
		pubDate := ""
		if t, err := time.Parse("2006-01-02", ev.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		link := buildURL(base, "calendar")
		desc := ev.Description
		if ev.Location != "" {
			desc = ev.Location + " - " + desc
		}
		items = append(items, rssItem{
			Title:       ev.Title,
			Link:        link,
			Description: desc,
			PubDate:     pubDate,
			GUID:        link + "#" + ev.ID,
		})
	}
	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: "Upcoming campaign events",
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
