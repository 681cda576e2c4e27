package content

import "github.com/microcosm-cc/bluemonday"

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "strong", "em", "u",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote",
	)
	p.AllowAttrs("class").Globally()
	return p
}

// Sanitize strips every element and attribute outside the article allow-list.
// Text content of removed elements is kept.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
