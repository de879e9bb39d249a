// Package htmldom is an in-memory page DOM over golang.org/x/net/html.
// It implements the highlighter's page ports for static and scripted pages:
// the CLI loads HTML files into it, and tests drive mutations and in-page
// navigation through it.
package htmldom

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bnema/linkmark/internal/application/port"
)

// ErrDetached is returned when mutating an element no longer in the document.
var ErrDetached = errors.New("htmldom: element is detached")

// ErrNoMatch is returned when a selector matches nothing.
var ErrNoMatch = errors.New("htmldom: selector matched nothing")

const linkSelector = "a[href]"

// Document is a parsed HTML page. All methods are safe for concurrent use;
// observer and navigation callbacks run on the goroutine that caused them,
// after the document lock has been released.
type Document struct {
	mu   sync.Mutex
	root *html.Node
	url  string

	ids    map[*html.Node]port.ElementID
	nextID port.ElementID

	nextSub   int
	observers map[int]port.MutationCallback
	navSubs   map[int]func(port.NavigationEvent)
}

var (
	_ port.Document         = (*Document)(nil)
	_ port.NavigationSource = (*Document)(nil)
)

// Parse reads an HTML page. baseURL resolves relative links.
func Parse(r io.Reader, baseURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{
		root:      root,
		url:       baseURL,
		ids:       make(map[*html.Node]port.ElementID),
		observers: make(map[int]port.MutationCallback),
		navSubs:   make(map[int]func(port.NavigationEvent)),
	}, nil
}

// ParseString is Parse over a string.
func ParseString(s, baseURL string) (*Document, error) {
	return Parse(strings.NewReader(s), baseURL)
}

func (d *Document) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

func (d *Document) Links() []port.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.linksBelow(d.root, false)
}

// Query returns the elements matching a CSS selector in document order.
func (d *Document) Query(selector string) []port.Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []port.Element
	goquery.NewDocumentFromNode(d.root).Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, d.elementLocked(s.Get(0)))
	})
	return out
}

// linksBelow collects a[href] under n, including n itself when self is set.
// Caller holds d.mu.
func (d *Document) linksBelow(n *html.Node, self bool) []port.Element {
	var out []port.Element
	if self && isLink(n) {
		out = append(out, d.elementLocked(n))
	}
	goquery.NewDocumentFromNode(n).Find(linkSelector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, d.elementLocked(s.Get(0)))
	})
	return out
}

// elementLocked wraps n, assigning it a stable id. Caller holds d.mu.
func (d *Document) elementLocked(n *html.Node) *Element {
	id, ok := d.ids[n]
	if !ok {
		d.nextID++
		id = d.nextID
		d.ids[n] = id
	}
	return &Element{doc: d, node: n, id: id}
}

func (d *Document) ObserveChildList(fn port.MutationCallback) (func(), error) {
	if fn == nil {
		return nil, errors.New("htmldom: observer callback cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.body() == nil {
		return nil, errors.New("htmldom: document has no body")
	}

	d.nextSub++
	id := d.nextSub
	d.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.observers, id)
			d.mu.Unlock()
		})
	}, nil
}

func (d *Document) SubscribeNavigation(fn func(port.NavigationEvent)) func() {
	if fn == nil {
		return func() {}
	}

	d.mu.Lock()
	d.nextSub++
	id := d.nextSub
	d.navSubs[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.navSubs, id)
			d.mu.Unlock()
		})
	}
}

func (d *Document) InjectStyle(id, css string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing := d.findByID(id); existing != nil {
		removeChildren(existing)
		existing.AppendChild(&html.Node{Type: html.TextNode, Data: css})
		return nil
	}

	head := d.head()
	if head == nil {
		return errors.New("htmldom: document has no head")
	}

	style := &html.Node{
		Type:     html.ElementNode,
		Data:     "style",
		DataAtom: atom.Style,
		Attr:     []html.Attribute{{Key: "id", Val: id}},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.AppendChild(style)
	return nil
}

func (d *Document) RemoveStyle(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n := d.findByID(id); n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	return nil
}

// Style returns the text of the <style> element with the given id.
func (d *Document) Style(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.findByID(id)
	if n == nil {
		return "", false
	}
	return textContent(n), true
}

// Render writes the current document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the document, or returns an empty string on failure.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

func (d *Document) findByID(id string) *html.Node {
	sel := goquery.NewDocumentFromNode(d.root).Find("#" + id)
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

func (d *Document) head() *html.Node {
	return firstElement(d.root, atom.Head)
}

func (d *Document) body() *html.Node {
	return firstElement(d.root, atom.Body)
}

func firstElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func isLink(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.A {
		return false
	}
	_, ok := getAttr(n, "href")
	return ok
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// detachLocked removes n from its parent and forgets every id handed out
// inside it. Caller holds d.mu.
func (d *Document) detachLocked(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	d.forgetLocked(n)
}

func (d *Document) forgetLocked(n *html.Node) {
	if len(d.ids) == 0 {
		return
	}
	delete(d.ids, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forgetLocked(c)
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
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
