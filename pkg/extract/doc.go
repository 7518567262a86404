// Package extract pulls gallery links, photo references and the next-page
// link out of archive markup.
//
// All knowledge of the site's markup lives in a Grammar: an ordered list of
// pattern to field rules plus the anchor text of the next-page link. The
// Parser applies it and never embeds pattern literals of its own.
package extract
