package htmldom

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/bnema/linkmark/internal/application/port"
)

// Element is a handle to one element of a Document.
type Element struct {
	doc  *Document
	node *html.Node
	id   port.ElementID
}

var _ port.Element = (*Element)(nil)

func (e *Element) ID() port.ElementID { return e.id }

func (e *Element) Href() string {
	v, _ := e.Attribute("href")
	return v
}

func (e *Element) Connected() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.connectedLocked()
}

func (e *Element) connectedLocked() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// Visible approximates layout: the element and its ancestors must not be
// hidden, display:none, visibility:hidden or fully transparent.
func (e *Element) Visible() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if !e.connectedLocked() {
		return false
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if _, hidden := getAttr(n, "hidden"); hidden {
			return false
		}
		if style, ok := getAttr(n, "style"); ok && hiddenByStyle(style) {
			return false
		}
	}
	return true
}

func hiddenByStyle(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important")))
		switch {
		case prop == "display" && val == "none":
			return true
		case prop == "visibility" && val == "hidden":
			return true
		case prop == "opacity" && (val == "0" || val == "0.0"):
			return true
		}
	}
	return false
}

func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return textContent(e.node)
}

func (e *Element) Attribute(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return getAttr(e.node, name)
}

func (e *Element) SetAttribute(name, value string) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !e.connectedLocked() {
		return ErrDetached
	}
	setAttr(e.node, name, value)
	return nil
}

func (e *Element) RemoveAttribute(name string) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !e.connectedLocked() {
		return ErrDetached
	}
	removeAttr(e.node, name)
	return nil
}

func (e *Element) Classes() []string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return classList(e.node)
}

func (e *Element) AddClasses(names ...string) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !e.connectedLocked() {
		return ErrDetached
	}

	classes := classList(e.node)
	for _, name := range names {
		if name != "" && !slices.Contains(classes, name) {
			classes = append(classes, name)
		}
	}
	setClassList(e.node, classes)
	return nil
}

func (e *Element) RemoveClasses(names ...string) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !e.connectedLocked() {
		return ErrDetached
	}

	classes := slices.DeleteFunc(classList(e.node), func(c string) bool {
		return slices.Contains(names, c)
	})
	setClassList(e.node, classes)
	return nil
}

func classList(n *html.Node) []string {
	v, _ := getAttr(n, "class")
	return strings.Fields(v)
}

func setClassList(n *html.Node, classes []string) {
	if len(classes) == 0 {
		removeAttr(n, "class")
		return
	}
	setAttr(n, "class", strings.Join(classes, " "))
}

func getAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == name
	})
}
