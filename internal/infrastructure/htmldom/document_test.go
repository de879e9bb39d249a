package htmldom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/linkmark/internal/application/port"
)

const page = `<!doctype html>
<html><head><title>t</title></head>
<body>
  <nav id="menu">
    <a href="/one" class="nav active" title="First">One</a>
    <a href="https://example.com/two">Two <b>bold</b></a>
    <a name="anchor-only">no href</a>
  </nav>
  <div hidden><a href="/hidden">hidden</a></div>
  <p style="display: none !important"><a href="/styled">styled</a></p>
  <a href="/faded" style="opacity:0">faded</a>
  <main id="content"></main>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page, "https://site.test/start")
	require.NoError(t, err)
	return doc
}

func hrefs(els []port.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.Href()
	}
	return out
}

func TestDocument_LinksInDocumentOrder(t *testing.T) {
	doc := mustParse(t)

	links := doc.Links()
	assert.Equal(t, []string{"/one", "https://example.com/two", "/hidden", "/styled", "/faded"}, hrefs(links))
	assert.Equal(t, "https://site.test/start", doc.URL())
}

func TestDocument_StableElementIDs(t *testing.T) {
	doc := mustParse(t)

	first := doc.Links()
	second := doc.Links()
	for i := range first {
		assert.Equal(t, first[i].ID(), second[i].ID())
	}
	assert.NotEqual(t, first[0].ID(), first[1].ID())
}

func TestElement_Visibility(t *testing.T) {
	doc := mustParse(t)
	links := doc.Links()

	assert.True(t, links[0].Visible())
	assert.True(t, links[1].Visible())
	assert.False(t, links[2].Visible(), "hidden ancestor")
	assert.False(t, links[3].Visible(), "display none ancestor")
	assert.False(t, links[4].Visible(), "opacity zero")
}

func TestElement_TextAndAttributes(t *testing.T) {
	doc := mustParse(t)
	el := doc.Links()[1]

	assert.Equal(t, "Two bold", el.Text())

	_, ok := el.Attribute("title")
	assert.False(t, ok)
	require.NoError(t, el.SetAttribute("title", "Second"))
	title, ok := el.Attribute("title")
	assert.True(t, ok)
	assert.Equal(t, "Second", title)

	require.NoError(t, el.RemoveAttribute("title"))
	_, ok = el.Attribute("title")
	assert.False(t, ok)
}

func TestElement_Classes(t *testing.T) {
	doc := mustParse(t)
	el := doc.Links()[0]

	assert.Equal(t, []string{"nav", "active"}, el.Classes())

	require.NoError(t, el.AddClasses("link-highlighter-week", "nav"))
	assert.Equal(t, []string{"nav", "active", "link-highlighter-week"}, el.Classes())

	require.NoError(t, el.RemoveClasses("active", "link-highlighter-week"))
	assert.Equal(t, []string{"nav"}, el.Classes())

	require.NoError(t, el.RemoveClasses("nav"))
	_, ok := el.Attribute("class")
	assert.False(t, ok, "empty class attribute is dropped")
}

func TestDocument_AppendHTMLNotifiesObservers(t *testing.T) {
	doc := mustParse(t)

	var got [][]port.MutationRecord
	disconnect, err := doc.ObserveChildList(func(records []port.MutationRecord) {
		got = append(got, records)
	})
	require.NoError(t, err)

	require.NoError(t, doc.AppendHTML("#content", `<section class="card"><a href="https://x.test">x</a></section>text`))
	require.Len(t, got, 1)
	require.Len(t, got[0], 1)

	added := got[0][0].Added
	require.Len(t, added, 2)
	assert.True(t, added[0].IsElement())
	assert.True(t, added[0].HasClass("card"))
	assert.Equal(t, []string{"https://x.test"}, hrefs(added[0].Links()))
	assert.False(t, added[1].IsElement())
	assert.Empty(t, added[1].Links())

	// the inserted link is now part of the document
	assert.Contains(t, hrefs(doc.Links()), "https://x.test")

	disconnect()
	disconnect()
	require.NoError(t, doc.AppendHTML("#content", `<a href="/later">later</a>`))
	assert.Len(t, got, 1)
}

func TestDocument_AppendedAnchorReportsItself(t *testing.T) {
	doc := mustParse(t)

	var added []port.Node
	_, err := doc.ObserveChildList(func(records []port.MutationRecord) {
		for _, r := range records {
			added = append(added, r.Added...)
		}
	})
	require.NoError(t, err)

	require.NoError(t, doc.AppendHTML("#content", `<a href="/direct" id="root">direct</a>`))
	require.Len(t, added, 1)
	assert.Equal(t, "root", added[0].ID())
	assert.Equal(t, []string{"/direct"}, hrefs(added[0].Links()))
}

func TestDocument_RemoveDetachesElements(t *testing.T) {
	doc := mustParse(t)
	el := doc.Links()[0]

	records := 0
	_, err := doc.ObserveChildList(func([]port.MutationRecord) { records++ })
	require.NoError(t, err)

	n, err := doc.Remove("#menu")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, records)

	assert.False(t, el.Connected())
	assert.False(t, el.Visible())
	assert.ErrorIs(t, el.AddClasses("x"), ErrDetached)

	_, err = doc.Remove("#menu")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestDocument_ReplaceBody(t *testing.T) {
	doc := mustParse(t)
	old := doc.Links()[0]

	require.NoError(t, doc.ReplaceBody(`<div id="root"><a href="/new">new</a></div>`))
	assert.False(t, old.Connected())
	assert.Equal(t, []string{"/new"}, hrefs(doc.Links()))

	doc.mu.Lock()
	tracked := len(doc.ids)
	doc.mu.Unlock()
	assert.Equal(t, 1, tracked, "ids of the replaced subtree are forgotten")
}

func TestDocument_RemoveForgetsDetachedIDs(t *testing.T) {
	doc := mustParse(t)
	before := len(doc.Links())

	_, err := doc.Remove("#menu")
	require.NoError(t, err)

	doc.mu.Lock()
	tracked := len(doc.ids)
	doc.mu.Unlock()
	assert.Equal(t, before-2, tracked, "both menu links are forgotten")
	assert.Len(t, doc.Links(), before-2)
}

func TestDocument_Styles(t *testing.T) {
	doc := mustParse(t)

	require.NoError(t, doc.InjectStyle("link-highlighter-styles", ".a{}"))
	require.NoError(t, doc.InjectStyle("link-highlighter-styles", ".b{}"))

	css, ok := doc.Style("link-highlighter-styles")
	require.True(t, ok)
	assert.Equal(t, ".b{}", css)
	assert.Equal(t, 1, len(doc.Query("style#link-highlighter-styles")))

	require.NoError(t, doc.RemoveStyle("link-highlighter-styles"))
	_, ok = doc.Style("link-highlighter-styles")
	assert.False(t, ok)
	require.NoError(t, doc.RemoveStyle("link-highlighter-styles"))
}

func TestDocument_Navigation(t *testing.T) {
	doc := mustParse(t)

	var events []port.NavigationEvent
	unsubscribe := doc.SubscribeNavigation(func(e port.NavigationEvent) { events = append(events, e) })

	doc.PushState("https://site.test/next")
	doc.Dispatch(port.NavigationTurbolinks)
	unsubscribe()
	doc.ReplaceState("https://site.test/ignored")

	require.Len(t, events, 2)
	assert.Equal(t, port.NavigationPushState, events[0].Kind)
	assert.Equal(t, "https://site.test/next", events[0].URL)
	assert.Equal(t, port.NavigationTurbolinks, events[1].Kind)
	assert.Equal(t, "https://site.test/ignored", doc.URL())
}

func TestDocument_RenderRoundTrip(t *testing.T) {
	doc := mustParse(t)
	require.NoError(t, doc.Links()[0].AddClasses("link-highlighter-today"))

	out := doc.String()
	assert.Contains(t, out, `class="nav active link-highlighter-today"`)
	assert.Contains(t, out, `<main id="content"></main>`)
}
