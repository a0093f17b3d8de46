// Package assets embeds the HTML templates, CSS styles and browser script
// used to render the cargo list.
//
// # Directory Structure
//
//	templates/
//	├── document.html   # document region (both render modes)
//	├── page.html       # full page wrapper for editor, print and export
//	├── preview.html    # print preview with an isolated frame
//	└── customize.html  # customization panel form
//	styles/
//	├── document.css    # region layout, grid/card switch, watermark
//	├── editor.css      # interactive page chrome and modal pages
//	└── print.css       # print surface and @page rules
//	scripts/
//	└── editor.js       # commit-on-blur and editor controls
//
// Asset names never include an extension or path component.
package assets
