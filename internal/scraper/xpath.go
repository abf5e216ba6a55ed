package scraper

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// XPath helpers shared by the tagDiv-based adapters (Sidwaya, AIB).

func parseNode(body []byte) (*html.Node, error) {
	return html.Parse(strings.NewReader(string(body)))
}

// xpFirst returns the trimmed inner text of the first match among exprs.
func xpFirst(doc *html.Node, exprs ...string) string {
	for _, expr := range exprs {
		node, err := htmlquery.Query(doc, expr)
		if err != nil || node == nil {
			continue
		}
		if s := strings.TrimSpace(htmlquery.InnerText(node)); s != "" {
			return s
		}
	}
	return ""
}

// xpFirstAttr returns attr of the first match among exprs.
func xpFirstAttr(doc *html.Node, attr string, exprs ...string) string {
	for _, expr := range exprs {
		node, err := htmlquery.Query(doc, expr)
		if err != nil || node == nil {
			continue
		}
		if v := strings.TrimSpace(htmlquery.SelectAttr(node, attr)); v != "" {
			return v
		}
	}
	return ""
}

// xpAll returns the trimmed inner text of every match of expr.
func xpAll(doc *html.Node, expr string) []string {
	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil
	}
	var out []string
	for _, node := range nodes {
		if s := strings.TrimSpace(htmlquery.InnerText(node)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// xpAllAttr returns attr of every match of expr.
func xpAllAttr(doc *html.Node, attr, expr string) []string {
	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil
	}
	var out []string
	for _, node := range nodes {
		if v := strings.TrimSpace(htmlquery.SelectAttr(node, attr)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
