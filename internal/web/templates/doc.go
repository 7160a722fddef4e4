// Package templates renders the small HTML views served next to the JSON API.
//
// The components are written in .templ files; run `templ generate` after
// editing them.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate
