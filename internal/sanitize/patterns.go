// Package sanitize recognises credentials in clipboard text so they are
// kept out of the on-disk history.
package sanitize

import "regexp"

// Pattern is a named credential matcher. Replacement may refer to the
// pattern's capture groups.
type Pattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

func pattern(name, expr, replacement string) Pattern {
	return Pattern{Name: name, Regex: regexp.MustCompile(expr), Replacement: replacement}
}

// Order matters to Detect: the first match names the clip.
var secretPatterns = []Pattern{
	pattern("AWS Access Key", `AKIA[0-9A-Z]{16}`, "[AWS_ACCESS_KEY_REDACTED]"),
	pattern("AWS Secret Key", `(?i)(aws_secret_access_key|secret_access_key)\s*[=:]\s*\S+`, "$1=[AWS_SECRET_REDACTED]"),
	pattern("JWT Token", `eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`, "[JWT_REDACTED]"),
	pattern("Slack Token", `xox[baprs]-[0-9a-zA-Z-]+`, "[SLACK_TOKEN_REDACTED]"),
	pattern("PEM Block", `-----BEGIN [A-Z ]+-----[\s\S]+?-----END [A-Z ]+-----`, "[PEM_BLOCK_REDACTED]"),
	pattern("Generic Secret", `(?i)(password|passwd|token|secret|api_key)\s*[=:]\s*\S+`, "$1=[REDACTED]"),
	pattern("GitHub Token", `gh[pousr]_[A-Za-z0-9]{36}`, "[GITHUB_TOKEN_REDACTED]"),
	pattern("GitLab Token", `glpat-[A-Za-z0-9_-]{20}`, "[GITLAB_TOKEN_REDACTED]"),
	pattern("Google API Key", `AIza[0-9A-Za-z_-]{35}`, "[GOOGLE_API_KEY_REDACTED]"),
	pattern("Stripe Key", `[sr]k_live_[0-9a-zA-Z]{24,}`, "[STRIPE_KEY_REDACTED]"),
	pattern("Private Key Inline", `(?i)(private[_-]?key)\s*[=:]\s*\S+`, "$1=[PRIVATE_KEY_REDACTED]"),
	pattern("Bearer Token (JWT)", `(?i)bearer\s+[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`, "Bearer [TOKEN_REDACTED]"),
	pattern("Bearer Token (Generic)", `(?i)bearer\s+[A-Za-z0-9_-]{20,}`, "Bearer [TOKEN_REDACTED]"),
	pattern("Basic Auth", `(?i)basic\s+[A-Za-z0-9+/=]{20,}`, "Basic [CREDENTIALS_REDACTED]"),
	pattern("Password URL", `[a-zA-Z][a-zA-Z0-9+.-]*://[^\s:/@]+:[^\s/@]+@`, "[URL_CREDENTIALS_REDACTED]@"),
}

// SecretPatterns returns a copy of the built-in patterns.
func SecretPatterns() []Pattern {
	return append([]Pattern(nil), secretPatterns...)
}
