// Package sections builds a structural description of a web page from
// its landmark elements (section, header, footer, main, nav, aside).
//
// The rendered text is fed to the vision oracle as the reference
// structure for the base page, so it calls out headings, link and image
// counts, and likely-animated regions per section in document order.
package sections
