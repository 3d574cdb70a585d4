package types

import "github.com/microcosm-cc/bluemonday"

// previewPolicy is shared across all sanitize calls; bluemonday policies
// are safe for concurrent use once built.
var previewPolicy = bluemonday.UGCPolicy()

// SanitizePreview neutralizes any markup in p.Content when its content
// type claims to be HTML. Plugins are untrusted external processes; the
// daemon is the last point that can strip an injected <script> before the
// content reaches a UI's preview pane.
func SanitizePreview(p *Preview) {
	if p == nil || p.ContentType != "html" {
		return
	}
	p.Content = previewPolicy.Sanitize(p.Content)
}
