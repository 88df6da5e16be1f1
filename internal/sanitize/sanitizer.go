package sanitize

// Sanitizer matches text against a set of credential patterns.
type Sanitizer struct {
	patterns []Pattern
}

// New returns a Sanitizer using the built-in patterns.
func New() *Sanitizer {
	return &Sanitizer{patterns: SecretPatterns()}
}

// NewWithPatterns returns a Sanitizer using patterns.
func NewWithPatterns(patterns []Pattern) *Sanitizer {
	return &Sanitizer{patterns: patterns}
}

// Detect returns the name of the first pattern found in text.
func (s *Sanitizer) Detect(text string) (string, bool) {
	for _, p := range s.patterns {
		if p.Regex.MatchString(text) {
			return p.Name, true
		}
	}
	return "", false
}

// Redact replaces every credential in text with its placeholder.
func (s *Sanitizer) Redact(text string) string {
	for _, p := range s.patterns {
		text = p.Regex.ReplaceAllString(text, p.Replacement)
	}
	return text
}
