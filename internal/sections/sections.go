package sections

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// landmarkSelector matches the elements treated as major page sections.
const landmarkSelector = "section,header,footer,main,nav,aside"

// animationHints are class-name fragments that suggest a section moves.
// Moving sections produce noisy pixel diffs and are called out so the
// oracle can discount them.
var animationHints = []string{"anim", "carousel", "slider", "slide", "marquee", "ticker"}

// Section describes one landmark element found on a page, in document
// order.
type Section struct {
	Label    string
	Tag      string
	Headings []string
	Links    int
	Images   int
	Animated bool
}

// Describer produces a free-form structural description of a page, used
// as the reference structure in oracle prompts.
type Describer struct {
	httpCli *http.Client
}

// NewDescriber creates a Describer with a default HTTP client.
func NewDescriber() *Describer {
	return &Describer{
		httpCli: &http.Client{Timeout: 30 * time.Second},
	}
}

// Describe fetches a URL and renders its reference structure text.
func (d *Describer) Describe(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := d.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	sections, err := Extract(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return Render(sections), nil
}

// Extract parses HTML and returns its landmark sections in document order.
func Extract(r io.Reader) ([]Section, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	var sections []Section
	doc.Find(landmarkSelector).Each(func(i int, s *goquery.Selection) {
		sec := Section{
			Tag:   goquery.NodeName(s),
			Label: sectionLabel(s, i),
			Links: s.Find("a[href]").Length(),
		}
		sec.Images = s.Find("img").Length() + s.Find("svg").Length()

		s.Find("h1,h2,h3").Each(func(_ int, h *goquery.Selection) {
			text := strings.TrimSpace(h.Text())
			if text != "" {
				sec.Headings = append(sec.Headings, text)
			}
		})

		sec.Animated = looksAnimated(s)
		sections = append(sections, sec)
	})

	return sections, nil
}

// Render formats extracted sections as the reference-structure text fed
// to the vision oracle.
func Render(sections []Section) string {
	var sb strings.Builder

	sb.WriteString("### Base URL Structure:\n")
	if len(sections) == 0 {
		sb.WriteString("No landmark sections found on the page.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "%d major sections in document order.\n\n", len(sections))

	sb.WriteString("### Sections (in order of appearance):\n")
	for i, sec := range sections {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, sec.Label)
		fmt.Fprintf(&sb, "   - Element: %s\n", sec.Tag)
		if len(sec.Headings) > 0 {
			fmt.Fprintf(&sb, "   - Headings: %s\n", strings.Join(sec.Headings, "; "))
		}
		if sec.Links > 0 {
			fmt.Fprintf(&sb, "   - Links: %d\n", sec.Links)
		}
		if sec.Images > 0 {
			fmt.Fprintf(&sb, "   - Images: %d\n", sec.Images)
		}
		if sec.Animated {
			sb.WriteString("   - Animation: likely animated, visual differences here may be transient\n")
		}
	}

	return sb.String()
}

// sectionLabel picks a human-readable label: aria-label, then id, then
// class, then tag with index.
func sectionLabel(s *goquery.Selection, idx int) string {
	if label, ok := s.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
		return strings.TrimSpace(label)
	}
	if id, ok := s.Attr("id"); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	if class, ok := s.Attr("class"); ok && strings.TrimSpace(class) != "" {
		return strings.TrimSpace(class)
	}
	return fmt.Sprintf("%s-%d", strings.ToUpper(goquery.NodeName(s)), idx)
}

func looksAnimated(s *goquery.Selection) bool {
	if s.Find("video,marquee").Length() > 0 {
		return true
	}
	class, _ := s.Attr("class")
	class = strings.ToLower(class)
	for _, hint := range animationHints {
		if strings.Contains(class, hint) {
			return true
		}
	}
	return false
}
