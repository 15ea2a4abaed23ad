package security

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// LogoValidationResult contains the result of logo validation
type LogoValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	DetectedMIME string // Sniffed MIME type, without parameters
	Error        string // Error message if validation failed
}

// Magic byte signatures for accepted logo types, keyed by sniffed MIME
var magicBytes = map[string][][]byte{
	"image/jpeg": {{0xFF, 0xD8, 0xFF}},
	"image/png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	"image/gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	"image/webp": {{0x52, 0x49, 0x46, 0x46}},                                                   // RIFF header
}

// AllowedLogoMIMETypes lists what a stored logo may be. SVG is excluded: it can carry script.
var AllowedLogoMIMETypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// ValidateLogo performs 3-layer logo validation:
// 1. Size cap (empty files are rejected too)
// 2. Content sniffing; the client-claimed type is never trusted
// 3. Magic byte verification against the sniffed type
func ValidateLogo(data []byte, maxBytes int) LogoValidationResult {
	var result LogoValidationResult

	if len(data) == 0 {
		result.Error = "Logo file is empty"
		return result
	}
	if maxBytes > 0 && len(data) > maxBytes {
		result.Error = fmt.Sprintf("Logo must be at most %s", humanBytes(maxBytes))
		return result
	}

	detected := mimetype.Detect(data)
	result.DetectedMIME, _, _ = strings.Cut(detected.String(), ";")

	signatures, ok := magicBytes[result.DetectedMIME]
	if !ok {
		result.Error = "Logo must be a PNG, JPEG, GIF or WebP image"
		return result
	}
	if !hasSignature(data, signatures) {
		result.Error = "Logo content does not match its image type"
		return result
	}
	// RIFF alone also prefixes WAV and AVI.
	if result.DetectedMIME == "image/webp" && (len(data) < 12 || string(data[8:12]) != "WEBP") {
		result.Error = "Logo content does not match its image type"
		return result
	}

	result.Valid = true
	return result
}

func hasSignature(data []byte, signatures [][]byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
