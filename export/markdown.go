package export

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"

	"github.com/c360studio/curriculens/analysis"
)

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

func newMarkdownConverter() *md.Converter {
	conv := md.NewConverter("", true, &md.Options{HeadingStyle: "atx"})
	conv.Use(plugin.GitHubFlavored())
	return conv
}

// WriteMarkdown renders r as HTML and converts it to GitHub-flavored
// Markdown.
func WriteMarkdown(w io.Writer, r *analysis.Result) error {
	page, err := renderHTML(r)
	if err != nil {
		return err
	}
	out, err := htmlToMarkdown(page)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func htmlToMarkdown(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", err
	}

	title := textOf(findNode(doc, "title"))
	body := findNode(doc, "body")
	if body == nil {
		body = doc
	}
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}

	out, err := newMarkdownConverter().ConvertString(buf.String())
	if err != nil {
		return "", err
	}
	out = cleanMarkdown(out)
	if title != "" && !strings.HasPrefix(out, "# ") {
		out = "# " + title + "\n\n" + out
	}
	return out + "\n", nil
}

func findNode(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n == nil || n.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

// cleanMarkdown collapses runs of blank lines and trailing spaces.
func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func writeMarkdownFile(dir string, r *analysis.Result) ([]string, error) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, r); err != nil {
		return nil, err
	}
	path := reportPath(dir, ".md")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, err
	}
	return []string{path}, nil
}
