package ocr

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/mrzscan/model"
)

// lineClasses are the hOCR classes of line level elements.
var lineClasses = []string{"ocr_line", "ocr_textfloat", "ocr_header", "ocr_caption"}

// OpenHOCR reads an hOCR file.
func OpenHOCR(filename string) ([]model.TextLine, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseHOCR(f)
}

// ParseHOCR parses hOCR from an io.Reader and returns its text lines in
// document order.
//
// A line's text is its ocrx_word elements joined by single spaces, or its
// whole text content when it has no words. Its confidence is the mean of
// the words' x_wconf values and its box comes from the line's "bbox"
// property.
func ParseHOCR(r io.Reader) ([]model.TextLine, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	var lines []model.TextLine
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, lineClasses...) {
			if line, ok := parseLine(n); ok {
				lines = append(lines, line)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return lines, nil
}

func parseLine(n *html.Node) (model.TextLine, bool) {
	line := model.TextLine{}
	if bbox, ok := parseBBox(titleProperties(n)["bbox"]); ok {
		line.BBox = bbox
	}

	var words []string
	var confSum float64
	var confCount int
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			if w := strings.TrimSpace(textContent(n)); w != "" {
				words = append(words, w)
			}
			if conf, err := strconv.ParseFloat(titleProperties(n)["x_wconf"], 64); err == nil {
				confSum += conf
				confCount++
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	if len(words) > 0 {
		line.Text = strings.Join(words, " ")
	} else {
		line.Text = strings.Join(strings.Fields(textContent(n)), " ")
	}
	if confCount > 0 {
		line.Confidence = confSum / float64(confCount)
	}

	return line, line.Text != ""
}

// titleProperties splits an hOCR title attribute such as
// "bbox 10 20 300 40; x_wconf 91" into its properties.
func titleProperties(n *html.Node) map[string]string {
	props := make(map[string]string)
	for _, part := range strings.Split(attr(n, "title"), ";") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), " ")
		if key != "" {
			props[key] = strings.TrimSpace(value)
		}
	}
	return props
}

// parseBBox parses the "x0 y0 x1 y1" value of a bbox property.
func parseBBox(s string) (model.BBox, bool) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return model.BBox{}, false
	}
	var c [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.BBox{}, false
		}
		c[i] = v
	}
	return model.NewBBoxFromCorners(c[0], c[1], c[2], c[3]), true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, classes ...string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		for _, want := range classes {
			if c == want {
				return true
			}
		}
	}
	return false
}

// textContent extracts all text content from a node and its descendants.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
