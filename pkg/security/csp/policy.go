// Package csp builds Content-Security-Policy header values.
package csp

import "strings"

// directiveOrder keeps Build output stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// Policy is a mutable set of CSP directives. Not safe for concurrent use.
type Policy struct {
	directives map[string][]string
	reportOnly bool
}

// New returns an empty policy.
func New() *Policy {
	return &Policy{directives: make(map[string][]string)}
}

// Directive sets the sources of a directive, replacing earlier values.
// Unknown directive names are ignored by Build.
func (p *Policy) Directive(name string, sources ...string) *Policy {
	p.directives[name] = sources
	return p
}

// ReportOnly switches the header to report-only mode.
func (p *Policy) ReportOnly(enabled bool) *Policy {
	p.reportOnly = enabled
	return p
}

// Build renders the header value, e.g. "default-src 'none'; frame-ancestors 'none'".
func (p *Policy) Build() string {
	parts := make([]string, 0, len(p.directives))
	for _, name := range directiveOrder {
		if src := p.directives[name]; len(src) > 0 {
			parts = append(parts, name+" "+strings.Join(src, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName is the header the value belongs in.
func (p *Policy) HeaderName() string {
	if p.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// APIPolicy denies everything a JSON API never needs.
func APIPolicy() *Policy {
	return New().
		Directive("default-src", "'none'").
		Directive("frame-ancestors", "'none'").
		Directive("base-uri", "'none'").
		Directive("form-action", "'none'")
}
