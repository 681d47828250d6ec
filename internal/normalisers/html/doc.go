// Package html provides a Normaliser for leases saved as web pages.
// It drops scripts and styles, keeps block structure as line breaks, and
// decodes entities.
package html
