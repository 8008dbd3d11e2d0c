package extraction

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/portfolio-migrator/internal/types"
)

var (
	backgroundImage = regexp.MustCompile(`background-image:\s*url\(\s*['"]?([^'")]+)['"]?\s*\)`)
	nonDigits       = regexp.MustCompile(`\D`)
)

// ImagesFromDocument lists every <img> and inline background image on the page.
// Images are numbered from 1 in the order they are kept, so local paths never repeat.
func (e *Extractor) ImagesFromDocument(doc *goquery.Document) []types.ExtractedImage {
	var images []types.ExtractedImage

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := attr(img, "src")
		if src == "" {
			return
		}
		images = append(images, e.extractedImage(src, attr(img, "alt"), img, len(images)+1))
	})

	doc.Find(`[style*="background-image"]`).Each(func(_ int, el *goquery.Selection) {
		m := backgroundImage.FindStringSubmatch(attr(el, "style"))
		if m == nil {
			return
		}
		src := strings.TrimSpace(m[1])
		if src == "" {
			return
		}
		images = append(images, e.extractedImage(src, "", el, len(images)+1))
	})

	return images
}

func (e *Extractor) extractedImage(src, alt string, sel *goquery.Selection, index int) types.ExtractedImage {
	typ := imageType(src, alt, sel)
	img := types.ExtractedImage{
		URL:       e.resolveURL(src),
		LocalPath: localImagePath(src, typ, index),
		Type:      typ,
	}
	if typ == types.ImageProject {
		img.ProjectID = projectID(sel)
	}
	return img
}

func localImagePath(src string, typ types.ImageType, index int) string {
	dir := "/images/gallery/"
	switch typ {
	case types.ImageProject:
		dir = "/projects/"
	case types.ImageProfile:
		dir = "/images/profile/"
	case types.ImageHero:
		dir = "/images/hero/"
	}
	return fmt.Sprintf("%simage-%d.%s", dir, index, imageExtension(src))
}

// imageExtension returns the extension of the URL path without the dot, or "jpg".
func imageExtension(src string) string {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return "jpg"
	}
	return strings.ToLower(ext)
}

// projectID reads the digits of the enclosing project element's data-id or id.
func projectID(sel *goquery.Selection) *int {
	parent := sel.Closest(projectAncestorSelector)
	if parent.Length() == 0 {
		return nil
	}
	raw := attr(parent, "data-id")
	if raw == "" {
		raw = attr(parent, "id")
	}
	n, err := strconv.Atoi(nonDigits.ReplaceAllString(raw, ""))
	if err != nil {
		return nil
	}
	return &n
}
