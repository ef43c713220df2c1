package processor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/agrilingo"
	"golang.org/x/net/html"
)

// DefaultIgnoredTags are elements whose text is never translated.
var DefaultIgnoredTags = []string{"script", "style", "code", "pre", "textarea", "noscript"}

var documentPattern = regexp.MustCompile(`(?i)<html[\s>]`)

// HTMLProcessor extracts and applies translations to HTML content.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return NewHTMLProcessorWithIgnoredTags(DefaultIgnoredTags)
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool, len(tags))
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// Document is parsed HTML awaiting translations.
type Document struct {
	doc      *goquery.Document
	fragment bool
}

// Extract parses HTML and returns its unique translatable text nodes in
// document order.
func (p *HTMLProcessor) Extract(content string) (*Document, []TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &agrilingo.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var nodes []TextNode
	seen := make(map[string]bool)

	p.walk(doc, func(n *html.Node, trimmed string) {
		hash := agrilingo.HashText(trimmed)
		if seen[hash] {
			return
		}
		seen[hash] = true

		node := TextNode{
			ID:       fmt.Sprintf("node-%d", len(nodes)),
			Text:     trimmed,
			Hash:     hash,
			Metadata: map[string]string{},
		}
		if n.Parent != nil {
			node.Metadata["parent_tag"] = n.Parent.Data
		}
		nodes = append(nodes, node)
	})

	return &Document{doc: doc, fragment: !documentPattern.MatchString(content)}, nodes, nil
}

// Apply writes translations (keyed by TextNode.Hash) back into the document.
// A full document gets lang and dir set on its <html> element; a fragment
// is returned without the wrapper the parser added.
func (p *HTMLProcessor) Apply(d *Document, translations map[string]string, lang string) (string, error) {
	if d == nil || d.doc == nil {
		return "", &agrilingo.ProcessorError{
			Message:     "document was not produced by Extract",
			ContentType: "html",
		}
	}

	p.walk(d.doc, func(n *html.Node, trimmed string) {
		if translated, ok := translations[agrilingo.HashText(trimmed)]; ok {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	})

	var (
		out string
		err error
	)
	if d.fragment {
		out, err = d.doc.Find("body").Html()
	} else {
		if lang != "" {
			d.doc.Find("html").SetAttr("lang", lang).SetAttr("dir", agrilingo.GetDirection(lang))
		}
		out, err = d.doc.Html()
	}
	if err != nil {
		return "", &agrilingo.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	return out, nil
}

// Translate resolves every unique text in content through r.
// Texts the resolver could not translate stay as they were.
func (p *HTMLProcessor) Translate(ctx context.Context, r Resolver, content, lang string) (*Result, error) {
	doc, nodes, err := p.Extract(content)
	if err != nil {
		return nil, err
	}

	translations := make(map[string]string, len(nodes))
	translated := 0
	for _, node := range nodes {
		out, err := r.Await(ctx, node.Text, lang)
		if err != nil {
			return nil, &agrilingo.ProcessorError{
				Message:     fmt.Sprintf("translating %s", node.ID),
				Cause:       err,
				ContentType: "html",
			}
		}
		if out != node.Text {
			translations[node.Hash] = out
			translated++
		}
	}

	html, err := p.Apply(doc, translations, lang)
	if err != nil {
		return nil, err
	}

	return &Result{Content: html, Nodes: len(nodes), Translated: translated}, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return "html"
}

// walk calls fn for every non-blank text node outside ignored elements.
func (p *HTMLProcessor) walk(doc *goquery.Document, fn func(n *html.Node, trimmed string)) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if p.ignoredTags[strings.ToLower(n.Data)] {
				return
			}

			// Skip elements with data-no-translate attribute
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				fn(n, trimmed)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}

	for _, n := range doc.Nodes {
		visit(n)
	}
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}
