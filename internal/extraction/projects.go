package extraction

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/portfolio-migrator/internal/types"
)

var capitalizedTitle = regexp.MustCompile(`^[A-Z][a-zA-Z\s]+$`)

// ProjectsFromDocument finds projects through their showcase images first and,
// when none qualify, through standalone h3 headings.
func (e *Extractor) ProjectsFromDocument(doc *goquery.Document) []types.Project {
	projects := e.projectsFromImages(doc)
	if len(projects) == 0 {
		e.logger.Warn("No projects found through images, trying heading-based extraction", nil)
		projects = e.projectsFromHeadings(doc)
	}
	return projects
}

func (e *Extractor) projectsFromImages(doc *goquery.Document) []types.Project {
	candidates := doc.Find("img").FilterFunction(func(_ int, img *goquery.Selection) bool {
		return e.isProjectImage(img)
	})
	e.logger.Debug("Found potential project images", map[string]any{"count": candidates.Length()})

	var projects []types.Project
	candidates.Each(func(i int, img *goquery.Selection) {
		alt := attr(img, "alt")
		src := attr(img, "src")

		container := img.Closest("div, section, article")
		if container.Length() == 0 {
			container = img.Parent()
		}

		title := alt
		heading := container.Find(headingSelector).FilterFunction(func(_ int, h *goquery.Selection) bool {
			n := runeLen(text(h))
			return n > 0 && n < 50
		}).First()
		if heading.Length() > 0 {
			title = text(heading)
		}

		description := ""
		container.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			if t := text(p); runeLen(t) > 20 {
				description = t
				return false
			}
			return true
		})

		liveURL, githubURL := e.linksNear(container)
		if liveURL == "" && githubURL == "" {
			liveURL = e.globalLiveLink(doc, title)
		}

		if title == "" || src == "" {
			return
		}

		desc := description
		if desc == "" {
			desc = title + " project showcase"
		}

		projects = append(projects, types.Project{
			ID:           i + 1,
			Image:        e.resolveURL(src),
			Title:        title,
			Description:  desc,
			Technologies: technologiesFor(title, container.Text()),
			LiveURL:      liveURL,
			GitHubURL:    githubURL,
			Category:     categorizeProject(title, description),
		})
	})
	return projects
}

func (e *Extractor) isProjectImage(img *goquery.Selection) bool {
	alt := attr(img, "alt")
	src := attr(img, "src")
	if alt == "" || alt == "Gallery Image" || strings.Contains(src, "/about/") {
		return false
	}
	for _, marker := range e.opts.ProfileAltMarkers {
		if marker != "" && strings.Contains(alt, marker) {
			return false
		}
	}
	if e.matchesKnownTitle(alt) {
		return true
	}
	return strings.Contains(src, "/home/") && runeLen(alt) < 50
}

// linksNear scans the container and its immediate siblings. Later matches overwrite earlier ones.
func (e *Extractor) linksNear(container *goquery.Selection) (liveURL, githubURL string) {
	area := container.AddSelection(container.Next()).AddSelection(container.Prev())
	area.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := attr(a, "href")
		label := strings.ToLower(text(a))
		switch {
		case e.isLiveHost(href) || strings.Contains(label, "view") || strings.Contains(label, "project"):
			liveURL = e.resolveURL(href)
		case strings.Contains(href, "github.com"):
			githubURL = href
		}
	})
	return liveURL, githubURL
}

// globalLiveLink looks for a live-host link anywhere on the page that mentions the title.
func (e *Extractor) globalLiveLink(doc *goquery.Document, title string) string {
	lowerTitle := strings.ToLower(title)
	var found string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := attr(a, "href")
		if !e.isLiveHost(href) {
			return
		}
		label := strings.ToLower(text(a))
		if strings.Contains(strings.ToLower(href), lowerTitle) ||
			strings.Contains(label, lowerTitle) ||
			strings.Contains(label, "view") {
			found = href
		}
	})
	return found
}

func (e *Extractor) isLiveHost(href string) bool {
	for _, host := range e.opts.LiveHosts {
		if host != "" && strings.Contains(href, host) {
			return true
		}
	}
	return false
}

func (e *Extractor) projectsFromHeadings(doc *goquery.Document) []types.Project {
	var projects []types.Project
	doc.Find("h3").Each(func(i int, h *goquery.Selection) {
		title := text(h)
		n := runeLen(title)
		if n <= 2 || n >= 50 {
			return
		}
		if !e.matchesKnownTitle(title) && !capitalizedTitle.MatchString(title) {
			return
		}

		container := h.Closest("div, section")
		src := attr(container.Find("img").First(), "src")
		if src == "" {
			return
		}

		description := text(container.Find("p").First())
		live := attr(container.Find("a[href]").First(), "href")
		if live != "" {
			live = e.resolveURL(live)
		}

		desc := description
		if desc == "" {
			desc = title + " project showcase"
		}

		projects = append(projects, types.Project{
			ID:           i + 1,
			Image:        e.resolveURL(src),
			Title:        title,
			Description:  desc,
			Technologies: technologiesFor(title, container.Text()),
			LiveURL:      live,
			Category:     categorizeProject(title, description),
		})
	})
	return projects
}
