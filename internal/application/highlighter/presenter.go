package highlighter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bnema/linkmark/internal/application/port"
	"github.com/bnema/linkmark/internal/domain/entity"
)

const ourLabelMarker = "visited"

// original holds what an element looked like before it was first marked.
type original struct {
	title    string
	hasTitle bool
	label    string
	hasLabel bool
	classes  []string
}

// Presenter applies and strips recency markers. Originals are kept in a
// side table keyed by element id. Not safe for concurrent use; the session
// only calls it from its loop.
type Presenter struct {
	originals       map[port.ElementID]*original
	preserveClasses bool
}

func NewPresenter(preserveClasses bool) *Presenter {
	return &Presenter{
		originals:       make(map[port.ElementID]*original),
		preserveClasses: preserveClasses,
	}
}

// SetPreserveClasses switches class reconciliation for later Apply calls.
func (p *Presenter) SetPreserveClasses(on bool) {
	p.preserveClasses = on
}

// Preserve snapshots el the first time it is seen. Later calls are no-ops.
func (p *Presenter) Preserve(el port.Element) {
	if _, ok := p.originals[el.ID()]; ok {
		return
	}
	o := &original{}
	o.title, o.hasTitle = el.Attribute("title")
	o.label, o.hasLabel = el.Attribute("aria-label")
	if p.preserveClasses {
		o.classes = slices.DeleteFunc(el.Classes(), IsMarkerClass)
	}
	p.originals[el.ID()] = o
}

// Preserved reports whether el has a snapshot.
func (p *Presenter) Preserved(el port.Element) bool {
	_, ok := p.originals[el.ID()]
	return ok
}

// Apply marks el with the verdict's category and writes the summary into
// its title and aria-label.
func (p *Presenter) Apply(el port.Element, v Verdict) error {
	p.Preserve(el)
	o := p.originals[el.ID()]

	if err := p.mark(el, v.Category, o); err != nil {
		return err
	}

	title := v.Summary
	if o.hasTitle && o.title != "" {
		title = o.title + " | " + v.Summary
	}
	if err := el.SetAttribute("title", title); err != nil {
		return &PresentationError{Element: el.ID(), Op: "set title", Err: err}
	}

	label := fmt.Sprintf("%s - %s", strings.TrimSpace(el.Text()), v.Summary)
	if err := el.SetAttribute("aria-label", label); err != nil {
		return &PresentationError{Element: el.ID(), Op: "set aria-label", Err: err}
	}
	return nil
}

// Mark sets the category classes only, leaving title and aria-label alone.
func (p *Presenter) Mark(el port.Element, c entity.Category) error {
	p.Preserve(el)
	return p.mark(el, c, p.originals[el.ID()])
}

func (p *Presenter) mark(el port.Element, c entity.Category, o *original) error {
	if err := el.RemoveClasses(MarkerClasses()...); err != nil {
		return &PresentationError{Element: el.ID(), Op: "remove markers", Err: err}
	}
	if p.preserveClasses && len(o.classes) > 0 {
		// union of the snapshot and whatever the page added since
		if err := el.AddClasses(o.classes...); err != nil {
			return &PresentationError{Element: el.ID(), Op: "merge classes", Err: err}
		}
	}
	if err := el.AddClasses(MarkerClass(c), HighlightedClass); err != nil {
		return &PresentationError{Element: el.ID(), Op: "add markers", Err: err}
	}
	return nil
}

// Strip removes every marker from el and, when el was preserved, restores
// its original title and aria-label. The side-table entry is discarded.
func (p *Presenter) Strip(el port.Element) error {
	o, ok := p.originals[el.ID()]
	delete(p.originals, el.ID())

	if !el.Connected() {
		return nil
	}
	if err := el.RemoveClasses(MarkerClasses()...); err != nil {
		return &PresentationError{Element: el.ID(), Op: "remove markers", Err: err}
	}

	if !ok {
		return nil
	}

	// labels the page set itself stay put
	if label, has := el.Attribute("aria-label"); has && strings.Contains(strings.ToLower(label), ourLabelMarker) {
		var err error
		if o.hasLabel {
			err = el.SetAttribute("aria-label", o.label)
		} else {
			err = el.RemoveAttribute("aria-label")
		}
		if err != nil {
			return &PresentationError{Element: el.ID(), Op: "restore aria-label", Err: err}
		}
	}

	var err error
	if o.hasTitle {
		err = el.SetAttribute("title", o.title)
	} else {
		err = el.RemoveAttribute("title")
	}
	if err != nil {
		return &PresentationError{Element: el.ID(), Op: "restore title", Err: err}
	}
	return nil
}

// Reset forgets every snapshot.
func (p *Presenter) Reset() {
	clear(p.originals)
}

// Len returns the number of preserved elements.
func (p *Presenter) Len() int {
	return len(p.originals)
}
