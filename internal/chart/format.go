package chart

const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatSVG  = "svg"
)

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatSVG:  "image/svg+xml",
}

// ContentType returns the MIME type for a supported export format.
func ContentType(format string) (string, bool) {
	ct, ok := contentTypes[format]
	return ct, ok
}
