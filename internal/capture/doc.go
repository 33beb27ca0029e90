// Package capture takes full-page screenshots of web pages with headless
// Chrome.
//
// The [Capturer] interface keeps the rest of the pipeline independent of
// the browser: tests substitute a fake that writes fixture images.
package capture
