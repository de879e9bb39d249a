package port

// ElementID is a stable identity for one element of a page. Side tables in
// the highlighter key on it instead of storing state on the element.
type ElementID uint64

// Element is a non-owning handle to a page anchor. The page owns the element;
// mutators return an error when the element can no longer be changed.
type Element interface {
	ID() ElementID
	// Href returns the raw href attribute.
	Href() string
	// Connected reports whether the element is still attached to the document.
	Connected() bool
	// Visible reports whether the element would be rendered.
	Visible() bool
	// Text returns the visible text content.
	Text() string

	Attribute(name string) (string, bool)
	SetAttribute(name, value string) error
	RemoveAttribute(name string) error

	Classes() []string
	AddClasses(names ...string) error
	RemoveClasses(names ...string) error
}

// Node is an inserted node reported by a child-list mutation.
type Node interface {
	// IsElement is false for text and comment nodes.
	IsElement() bool
	ID() string
	Attribute(name string) (string, bool)
	HasClass(name string) bool
	// Links returns the node itself when it is an anchor with an href,
	// followed by every a[href] below it, in document order.
	Links() []Element
}

// MutationRecord describes one child-list change below the observed root.
type MutationRecord struct {
	Added []Node
}

// MutationCallback receives a burst of mutation records.
type MutationCallback func(records []MutationRecord)

// Document is the page the highlighter works on.
type Document interface {
	// URL is the base URL used to resolve relative hrefs.
	URL() string
	// Links returns every a[href] element in document order.
	Links() []Element
	// ObserveChildList reports child-list changes anywhere below body.
	// The returned function disconnects the observer.
	ObserveChildList(fn MutationCallback) (disconnect func(), err error)
	// InjectStyle adds or replaces the <style> element with the given id.
	InjectStyle(id, css string) error
	// RemoveStyle removes the <style> element with the given id, if present.
	RemoveStyle(id string) error
}

// NavigationKind names an in-page navigation signal.
type NavigationKind string

const (
	NavigationPushState    NavigationKind = "pushState"
	NavigationReplaceState NavigationKind = "replaceState"
	NavigationTurbolinks   NavigationKind = "turbolinks:load"
	NavigationPjax         NavigationKind = "pjax:end"
)

// NavigationEvent is emitted when the page changes its logical location
// without a reload.
type NavigationEvent struct {
	Kind NavigationKind
	URL  string
}

// NavigationSource delivers in-page navigation signals.
type NavigationSource interface {
	SubscribeNavigation(fn func(NavigationEvent)) (unsubscribe func())
}
