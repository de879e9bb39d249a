package htmldom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/bnema/linkmark/internal/application/port"
)

// Node is an inserted node handed to mutation observers.
type Node struct {
	doc  *Document
	node *html.Node
}

var _ port.Node = (*Node)(nil)

func (n *Node) IsElement() bool { return n.node.Type == html.ElementNode }

func (n *Node) ID() string {
	v, _ := n.Attribute("id")
	return v
}

func (n *Node) Attribute(name string) (string, bool) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return getAttr(n.node, name)
}

func (n *Node) HasClass(name string) bool {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	for _, c := range classList(n.node) {
		if c == name {
			return true
		}
	}
	return false
}

func (n *Node) Links() []port.Element {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if n.node.Type != html.ElementNode {
		return nil
	}
	return n.doc.linksBelow(n.node, true)
}

// AppendHTML parses fragment and appends it to the first element matching
// selector, then notifies child-list observers.
func (d *Document) AppendHTML(selector, fragment string) error {
	d.mu.Lock()
	parent := d.first(selector)
	if parent == nil {
		d.mu.Unlock()
		return fmt.Errorf("append to %q: %w", selector, ErrNoMatch)
	}

	added, err := d.appendFragment(parent, fragment)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	observers := d.observersLocked()
	d.mu.Unlock()

	notify(observers, port.MutationRecord{Added: added})
	return nil
}

// ReplaceBody swaps the whole body content, the way client-side routers
// render a new view.
func (d *Document) ReplaceBody(fragment string) error {
	d.mu.Lock()
	body := d.body()
	if body == nil {
		d.mu.Unlock()
		return fmt.Errorf("replace body: %w", ErrNoMatch)
	}

	for c := body.FirstChild; c != nil; c = body.FirstChild {
		d.detachLocked(c)
	}
	added, err := d.appendFragment(body, fragment)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	observers := d.observersLocked()
	d.mu.Unlock()

	notify(observers, port.MutationRecord{}, port.MutationRecord{Added: added})
	return nil
}

// Remove detaches every element matching selector.
func (d *Document) Remove(selector string) (int, error) {
	d.mu.Lock()
	var nodes []*html.Node
	goquery.NewDocumentFromNode(d.root).Find(selector).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, s.Get(0))
	})
	if len(nodes) == 0 {
		d.mu.Unlock()
		return 0, fmt.Errorf("remove %q: %w", selector, ErrNoMatch)
	}
	for _, n := range nodes {
		d.detachLocked(n)
	}
	observers := d.observersLocked()
	d.mu.Unlock()

	notify(observers, port.MutationRecord{})
	return len(nodes), nil
}

// PushState changes the page URL the way history.pushState does and emits
// a navigation event.
func (d *Document) PushState(url string) {
	d.navigate(port.NavigationPushState, url)
}

// ReplaceState is PushState without a new history entry.
func (d *Document) ReplaceState(url string) {
	d.navigate(port.NavigationReplaceState, url)
}

// Dispatch emits a framework navigation event such as turbolinks:load.
func (d *Document) Dispatch(kind port.NavigationKind) {
	d.navigate(kind, "")
}

func (d *Document) navigate(kind port.NavigationKind, url string) {
	d.mu.Lock()
	if url != "" {
		d.url = url
	}
	event := port.NavigationEvent{Kind: kind, URL: d.url}
	subs := make([]func(port.NavigationEvent), 0, len(d.navSubs))
	for _, fn := range d.navSubs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}

// appendFragment parses fragment in the context of parent and appends the
// resulting nodes. Caller holds d.mu.
func (d *Document) appendFragment(parent *html.Node, fragment string) ([]port.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	added := make([]port.Node, 0, len(nodes))
	for _, n := range nodes {
		parent.AppendChild(n)
		added = append(added, &Node{doc: d, node: n})
	}
	return added, nil
}

func (d *Document) first(selector string) *html.Node {
	sel := goquery.NewDocumentFromNode(d.root).Find(selector)
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

func (d *Document) observersLocked() []port.MutationCallback {
	out := make([]port.MutationCallback, 0, len(d.observers))
	for _, fn := range d.observers {
		out = append(out, fn)
	}
	return out
}

func notify(observers []port.MutationCallback, records ...port.MutationRecord) {
	for _, fn := range observers {
		fn(records)
	}
}
