package suggest

import (
	"regexp"

	"toolsapp/internal/domain"
)

// Detector maps a content pattern to the tool that handles it.
type Detector struct {
	Key        string
	Pattern    *regexp.Regexp
	Path       string
	Name       string
	Reason     string
	Confidence domain.Confidence
}

// DefaultDetectors returns the built-in detector table in declaration order.
// Declaration order breaks confidence ties.
func DefaultDetectors() []Detector {
	return []Detector{
		{
			Key:        "jwt",
			Pattern:    regexp.MustCompile(`^ey[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
			Path:       "/jwt-parser",
			Name:       "JWT Decoder",
			Reason:     "This looks like a JSON Web Token",
			Confidence: domain.ConfidenceHigh,
		},
		{
			Key:        "base64",
			Pattern:    regexp.MustCompile(`^[A-Za-z0-9+/]{20,}={0,2}$`),
			Path:       "/base64-string-converter",
			Name:       "Base64 Decoder",
			Reason:     "This appears to be Base64 encoded",
			Confidence: domain.ConfidenceMedium,
		},
		{
			Key:        "json",
			Pattern:    regexp.MustCompile(`^\s*[\{\[]`),
			Path:       "/json-prettify",
			Name:       "JSON Formatter",
			Reason:     "This is JSON data",
			Confidence: domain.ConfidenceHigh,
		},
		{
			Key:        "timestamp10",
			Pattern:    regexp.MustCompile(`^\d{10}$`),
			Path:       "/date-converter",
			Name:       "Timestamp Converter",
			Reason:     "This looks like a Unix timestamp (seconds)",
			Confidence: domain.ConfidenceHigh,
		},
		{
			Key:        "timestamp13",
			Pattern:    regexp.MustCompile(`^\d{13}$`),
			Path:       "/date-converter",
			Name:       "Timestamp Converter",
			Reason:     "This looks like a Unix timestamp (milliseconds)",
			Confidence: domain.ConfidenceHigh,
		},
		{
			Key:        "uuid",
			Pattern:    regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`),
			Path:       "/uuid-generator",
			Name:       "UUID Generator",
			Reason:     "This is a UUID/GUID",
			Confidence: domain.ConfidenceHigh,
		},
		{
			Key:        "url",
			Pattern:    regexp.MustCompile(`^https?://[^\s]+$`),
			Path:       "/url-parser",
			Name:       "URL Parser",
			Reason:     "This is a URL",
			Confidence: domain.ConfidenceMedium,
		},
		{
			Key:        "email",
			Pattern:    regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
			Path:       "/email-normalizer",
			Name:       "Email Normalizer",
			Reason:     "This is an email address",
			Confidence: domain.ConfidenceMedium,
		},
		{
			Key:        "ipAddress",
			Pattern:    regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`),
			Path:       "/ipv4-address-converter",
			Name:       "IPv4 Converter",
			Reason:     "This is an IP address",
			Confidence: domain.ConfidenceMedium,
		},
		{
			Key:        "hexColor",
			Pattern:    regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`),
			Path:       "/color-converter",
			Name:       "Color Converter",
			Reason:     "This is a hex color",
			Confidence: domain.ConfidenceHigh,
		},
		{
			Key:        "binary",
			Pattern:    regexp.MustCompile(`^[01\s]{8,}$`),
			Path:       "/text-to-binary",
			Name:       "Binary Converter",
			Reason:     "This looks like binary data",
			Confidence: domain.ConfidenceMedium,
		},
	}
}
