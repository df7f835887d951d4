// Package ui provides the embedded front-end assets for the relay server.
package ui

import (
	_ "embed"
)

// IndexHTML is the download page.
//
//go:embed index.html
var IndexHTML []byte

// AppJS is the front-end script: URL validation, the download fetch flow,
// and the blob save trigger.
//
//go:embed app.js
var AppJS []byte
