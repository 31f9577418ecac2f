package extract

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never have an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// blockElements break text flow. Collected text gets a separator where
// one opens or closes; inline elements such as em or code add nothing.
var blockElements = map[string]bool{
	"address": true, "article": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dt": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true,
	"section": true, "td": true, "th": true, "tr": true, "ul": true,
}

// separate writes a word break into every element collecting text.
func separate(stack []*element) {
	for _, el := range stack {
		if el.text != nil {
			el.text.WriteByte(' ')
		}
	}
}

// element is an open tag on the stream stack.
type element struct {
	name    string
	attrs   []html.Attribute
	classes []string

	// text is non-nil when a handler asked to collect the element's text.
	text *strings.Builder
}

func newElement(tok html.Token) *element {
	el := &element{name: tok.Data, attrs: tok.Attr}
	if class, ok := el.attr("class"); ok {
		el.classes = strings.Fields(class)
	}
	return el
}

// attr retrieves an attribute value. Keys are already lower-cased by the tokenizer.
func (e *element) attr(key string) (string, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (e *element) hasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

func (e *element) hasAnyClass(classes ...string) bool {
	for _, c := range classes {
		if e.hasClass(c) {
			return true
		}
	}
	return false
}

// collect starts accumulating text found beneath the element.
func (e *element) collect() {
	if e.text == nil {
		e.text = &strings.Builder{}
	}
}

// collected returns the normalized text gathered for the element.
func (e *element) collected() string {
	if e == nil || e.text == nil {
		return ""
	}
	return cleanText(e.text.String())
}

// handler receives elements as the stream opens and closes them.
// depth is the number of ancestors still open.
type handler interface {
	open(el *element, depth int)
	close(el *element, depth int)
}

// stream tokenizes r and reports every element to h.
// Unbalanced end tags are tolerated: an end tag closes the nearest open
// element with the same name and everything opened after it, and stray end
// tags are ignored. Elements still open at EOF are closed in reverse order.
func stream(r io.Reader, h handler) error {
	z := html.NewTokenizer(r)
	stack := make([]*element, 0, 16)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			for i := len(stack) - 1; i >= 0; i-- {
				h.close(stack[i], i)
			}
			return nil

		case html.StartTagToken, html.SelfClosingTagToken:
			el := newElement(z.Token())
			if blockElements[el.name] {
				separate(stack)
			}
			h.open(el, len(stack))
			if tt == html.SelfClosingTagToken || voidElements[el.name] {
				h.close(el, len(stack))
				continue
			}
			stack = append(stack, el)

		case html.EndTagToken:
			name, _ := z.TagName()
			i := len(stack) - 1
			for i >= 0 && stack[i].name != string(name) {
				i--
			}
			if i < 0 {
				continue
			}
			for j := len(stack) - 1; j >= i; j-- {
				h.close(stack[j], j)
			}
			stack = stack[:i]
			if blockElements[string(name)] {
				separate(stack)
			}

		case html.TextToken:
			if len(stack) > 0 {
				if top := stack[len(stack)-1].name; top == "script" || top == "style" {
					continue
				}
			}
			text := z.Text()
			for _, el := range stack {
				if el.text != nil {
					el.text.Write(text)
				}
			}
		}
	}
}
