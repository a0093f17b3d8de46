package cargolist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	fontSizePattern = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?(?:px|pt|em|rem|%)$`)
	fontNamePattern = regexp.MustCompile(`^[\p{L}\p{N} ,'"\-]+$`)
)

// safeAccentColor returns c when it is a hex color, the default accent otherwise.
func safeAccentColor(c string) string {
	c = strings.TrimSpace(c)
	if hexColorPattern.MatchString(c) {
		return c
	}
	return DefaultTheme().AccentColor
}

// safeFontFamily returns f when it only holds font-list characters.
func safeFontFamily(f string) string {
	f = strings.TrimSpace(f)
	if f != "" && len(f) <= 200 && fontNamePattern.MatchString(f) {
		return f
	}
	return DefaultTheme().FontFamily
}

// safeFontSize returns s when it is a plain CSS length.
func safeFontSize(s string) string {
	s = strings.TrimSpace(s)
	if fontSizePattern.MatchString(s) {
		return s
	}
	return DefaultTheme().FontSize
}

// NormalizeFontSize turns form input into a CSS length.
// A bare number becomes pixels ("14" -> "14px"); other values are kept.
func NormalizeFontSize(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return fmt.Sprintf("%dpx", n)
	}
	return s
}

// FontSizePixels returns the integer pixel value of a "<n>px" size, or 0.
func FontSizePixels(s string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// regionStyle is the inline style of the document root.
func regionStyle(t ThemeState) string {
	return fmt.Sprintf("font-family: %s; font-size: %s; --accent: %s;",
		safeFontFamily(t.FontFamily), safeFontSize(t.FontSize), safeAccentColor(t.AccentColor))
}

// headingStyle is the inline style shared by headings and table labels.
func headingStyle(t ThemeState) string {
	return "font-family: " + safeFontFamily(t.HeadingFontFamily) + ";"
}

// companyStyle colors the company name with the accent.
func companyStyle(t ThemeState) string {
	return headingStyle(t) + " color: " + safeAccentColor(t.AccentColor) + ";"
}

// footerStyle colors the footer with the accent.
func footerStyle(t ThemeState) string {
	return "color: " + safeAccentColor(t.AccentColor) + ";"
}

// buildBodyCSS applies the theme to the page body of standalone surfaces.
func buildBodyCSS(t ThemeState) string {
	return fmt.Sprintf("body { font-family: %s; font-size: %s; }\n",
		safeFontFamily(t.FontFamily), safeFontSize(t.FontSize))
}

// buildExportCSS returns the transient override applied to the document
// before rasterization: screen-only elements hidden, edit styling removed,
// fonts embedded.
func buildExportCSS(fontCSS, background string) string {
	var buf strings.Builder
	if fontCSS != "" {
		buf.WriteString("/* Embedded fonts */\n")
		buf.WriteString(fontCSS)
		buf.WriteString("\n")
	}
	fmt.Fprintf(&buf, `
/* Export overrides */
.%s { display: none !important; }
.%s { background: transparent !important; outline: none !important; cursor: auto !important; }
html, body { margin: 0; padding: 0; background: %s; }
#printable-document { box-shadow: none !important; border-radius: 0 !important; margin: 0 !important; }
`, ScreenOnlyClass, editableClass, background)
	return buf.String()
}

// injectCSS inserts a <style> block before </head>, after <body> when there
// is no head, or at the start of the document.
func injectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could close a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
