package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const recipePage = `<!doctype html>
<html>
<head>
  <title>Grandma's Goulash</title>
  <meta property="og:image" content="https://example.com/goulash.jpg">
  <style>body { color: red }</style>
  <script>window.tracking = true;</script>
</head>
<body>
  <nav><a href="/">Home</a><a href="/recipes">Recipes</a></nav>
  <article>
    <h1>Goulash</h1>
    <p>Serves 4.</p>
    <ul>
      <li>500 g beef</li>
      <li>2 onions</li>
    </ul>
    <ol>
      <li>Brown the beef.</li>
      <li>Add the onions.</li>
    </ol>
  </article>
  <footer>Copyright</footer>
</body>
</html>`

func TestHTMLTextExtractor_PlainText(t *testing.T) {
	e := NewHTMLTextExtractor(nil)
	text := e.PlainText(recipePage)

	assert.Contains(t, text, "Title: Grandma's Goulash")
	assert.Contains(t, text, "Image: https://example.com/goulash.jpg")
	assert.Contains(t, text, "500 g beef")
	assert.Contains(t, text, "Brown the beef.")
	assert.NotContains(t, text, "window.tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Recipes")
	assert.NotContains(t, text, "Copyright")

	// ingredients keep their reading order
	assert.Less(t, strings.Index(text, "500 g beef"), strings.Index(text, "2 onions"))
	assert.Less(t, strings.Index(text, "2 onions"), strings.Index(text, "Brown the beef."))
}

func TestHTMLTextExtractor_FallsBackToBody(t *testing.T) {
	e := NewHTMLTextExtractor(nil)
	text := e.PlainText(`<html><body><div><p>Mix flour and water.</p></div></body></html>`)
	assert.Contains(t, text, "Mix flour and water.")
	assert.NotContains(t, text, "Title:")
}

func TestHTMLTextExtractor_KeepsTextOutsideTeaserArticle(t *testing.T) {
	e := NewHTMLTextExtractor(nil)
	text := e.PlainText(`<html><body>
<article>Related: Chocolate Cake</article>
<div><h2>Ingredients</h2><ul><li>2 cups flour</li><li>1 large onion, diced</li></ul></div>
<div><h2>Method</h2><p>Knead the dough and bake it for forty minutes.</p></div>
</body></html>`)

	assert.Contains(t, text, "2 cups flour")
	assert.Contains(t, text, "Knead the dough")
	assert.Contains(t, text, "Related: Chocolate Cake")
	assert.Less(t, strings.Index(text, "Related: Chocolate Cake"), strings.Index(text, "2 cups flour"))
}

func TestHTMLTextExtractor_PicksLargestArticle(t *testing.T) {
	e := NewHTMLTextExtractor(nil)
	text := e.PlainText(`<html><body>
<article>Teaser</article>
<article><h1>Goulash</h1><ul><li>500 g beef</li><li>2 onions</li></ul><p>Brown the beef, add the onions and simmer for an hour.</p></article>
<footer>Copyright</footer>
</body></html>`)

	assert.Contains(t, text, "500 g beef")
	assert.NotContains(t, text, "Teaser")
	assert.NotContains(t, text, "Copyright")
}

func TestHTMLTextExtractor_EmptyInput(t *testing.T) {
	e := NewHTMLTextExtractor(nil)
	assert.Empty(t, e.PlainText(""))
	assert.Empty(t, e.PlainText("<html><head><title>Only a title</title></head><body><script>x()</script></body></html>"))
}

func TestCollapseBlankLines(t *testing.T) {
	assert.Equal(t, "a\n\nb", collapseBlankLines("\n\na  \n\n\n\t\nb\n\n"))
}
