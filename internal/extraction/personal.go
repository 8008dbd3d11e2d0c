package extraction

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/portfolio-migrator/internal/types"
)

// Personal-info field names reported in PersonalInfoResult.Fallbacks.
const (
	FieldName  = "name"
	FieldTitle = "title"
	FieldBio   = "bio"
	FieldEmail = "email"
)

// PersonalInfoResult is the extracted owner info plus the fields that were
// filled with placeholder values because nothing usable was found.
type PersonalInfoResult struct {
	Info      types.PersonalInfo
	Fallbacks []string
}

// UsedFallback reports whether field holds a placeholder.
func (r *PersonalInfoResult) UsedFallback(field string) bool {
	for _, f := range r.Fallbacks {
		if f == field {
			return true
		}
	}
	return false
}

var (
	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern   = regexp.MustCompile(`(\+?1?[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
	titleSeparator = regexp.MustCompile(`[-|]`)
)

var (
	nameSelectors     = []string{"h1", ".name", ".title", `[class*="name"]`, "header h1", "header h2", ".hero h1", ".intro h1"}
	titleSelectors    = []string{".subtitle", ".role", ".position", ".job-title", `[class*="subtitle"]`, "h2", ".hero h2", ".intro h2"}
	bioSelectors      = []string{".bio", ".about", ".description", ".intro p", ".hero p", `[class*="bio"]`, `[class*="about"]`}
	locationSelectors = []string{".location", ".address", `[class*="location"]`, `[class*="address"]`}

	roleKeywords = []string{
		"UX/UI Designer", "UI/UX Designer", "Product Designer", "Software Engineer",
		"Full Stack Developer", "Frontend Developer", "Backend Developer", "Developer", "Designer",
	}
	greetings = map[string]bool{"hello": true, "hi": true, "hey": true, "welcome": true}
)

// PersonalInfoFromDocument fills every field from its strategy chain.
// Name, title, bio and email fall back to placeholders; the rest stay empty.
func (e *Extractor) PersonalInfoFromDocument(doc *goquery.Document) *PersonalInfoResult {
	result := &PersonalInfoResult{}
	fill := func(field, value string, ok bool, placeholder string) string {
		if ok {
			return value
		}
		result.Fallbacks = append(result.Fallbacks, field)
		return placeholder
	}

	name, ok := firstOf(doc, nameFromTitleTag, nameFromHeadings, nameFromTitlePrefix)
	result.Info.Name = fill(FieldName, name, ok, types.DefaultName)

	bio, bioOK := firstOf(doc, bioFromSelectors, bioFromLongParagraph)
	title, ok := firstOf(doc, titleFromKeywords(bio), titleFromSelectors)
	result.Info.Title = fill(FieldTitle, title, ok, types.DefaultTitle)
	result.Info.Bio = fill(FieldBio, bio, bioOK, types.DefaultBio)

	email, ok := firstOf(doc, emailFromMailto, emailFromText)
	result.Info.Email = fill(FieldEmail, email, ok, types.DefaultEmail)

	result.Info.Phone, _ = firstOf(doc, phoneFromTel, phoneFromText)
	result.Info.Location, _ = firstOf(doc, locationFromSelectors)
	result.Info.SocialLinks = socialLinks(doc)

	return result
}

func isGreeting(s string) bool {
	return greetings[strings.ToLower(strings.Trim(s, " !,.?"))]
}

func pageTitle(doc *goquery.Document) string {
	return text(doc.Find("title").First())
}

// nameFromTitleTag reads "Jane's Portfolio" style titles.
func nameFromTitleTag(doc *goquery.Document) (string, bool) {
	title := pageTitle(doc)
	idx := strings.Index(title, "'s")
	if i := strings.Index(title, "’s"); idx < 0 || (i >= 0 && i < idx) {
		idx = i
	}
	if idx <= 0 {
		return "", false
	}
	name := strings.TrimSpace(title[:idx])
	if name == "" || isGreeting(name) {
		return "", false
	}
	return name, true
}

func nameFromHeadings(doc *goquery.Document) (string, bool) {
	return firstText(doc, nameSelectors, func(t string) bool {
		n := runeLen(t)
		return n > 2 && n < 50 && !isGreeting(t)
	})
}

func nameFromTitlePrefix(doc *goquery.Document) (string, bool) {
	first := strings.TrimSpace(titleSeparator.Split(pageTitle(doc), 2)[0])
	return first, first != ""
}

func titleFromKeywords(bio string) strategy[string] {
	return func(doc *goquery.Document) (string, bool) {
		page := pageTitle(doc)
		if strings.Contains(page, "UI/UX") {
			return "UI/UX Designer", true
		}
		for _, kw := range roleKeywords {
			if strings.Contains(page, kw) || strings.Contains(bio, kw) {
				return kw, true
			}
		}
		return "", false
	}
}

func titleFromSelectors(doc *goquery.Document) (string, bool) {
	return firstText(doc, titleSelectors, func(t string) bool {
		n := runeLen(t)
		return n > 5 && n < 100 && t != "Education"
	})
}

func bioFromSelectors(doc *goquery.Document) (string, bool) {
	return firstText(doc, bioSelectors, func(t string) bool { return runeLen(t) > 50 })
}

func bioFromLongParagraph(doc *goquery.Document) (string, bool) {
	var bio string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if t := text(p); runeLen(t) > 100 {
			bio = t
			return false
		}
		return true
	})
	return bio, bio != ""
}

func emailFromMailto(doc *goquery.Document) (string, bool) {
	href := attr(doc.Find(`a[href^="mailto:"]`).First(), "href")
	email := strings.TrimPrefix(href, "mailto:")
	if i := strings.IndexByte(email, '?'); i >= 0 {
		email = email[:i]
	}
	return email, email != ""
}

func emailFromText(doc *goquery.Document) (string, bool) {
	m := emailPattern.FindString(doc.Find("body").Text())
	return m, m != ""
}

func phoneFromTel(doc *goquery.Document) (string, bool) {
	phone := strings.TrimPrefix(attr(doc.Find(`a[href^="tel:"]`).First(), "href"), "tel:")
	return phone, phone != ""
}

func phoneFromText(doc *goquery.Document) (string, bool) {
	m := strings.TrimSpace(phonePattern.FindString(doc.Find("body").Text()))
	return m, m != ""
}

func locationFromSelectors(doc *goquery.Document) (string, bool) {
	return firstText(doc, locationSelectors, func(t string) bool {
		n := runeLen(t)
		return n > 3 && n < 100
	})
}

// socialLinks assigns every recognised profile link; the last one per platform wins.
// A link is recognised by its host or by the platform name in its text or title.
func socialLinks(doc *goquery.Document) types.SocialLinks {
	var links types.SocialLinks
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := attr(a, "href")
		lowerHref := strings.ToLower(href)
		label := strings.ToLower(text(a) + " " + attr(a, "title"))
		switch {
		case strings.Contains(lowerHref, "linkedin.com") || strings.Contains(label, "linkedin"):
			links.LinkedIn = href
		case strings.Contains(lowerHref, "twitter.com") || isXHost(href) || strings.Contains(label, "twitter"):
			links.Twitter = href
		case strings.Contains(lowerHref, "github.com") || strings.Contains(label, "github"):
			links.GitHub = href
		case strings.Contains(lowerHref, "instagram.com") || strings.Contains(label, "instagram"):
			links.Instagram = href
		}
	})
	return links
}

func isXHost(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "x.com" || strings.HasSuffix(host, ".x.com")
}
