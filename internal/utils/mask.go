package utils

const maskTail = "*****"

// MaskSecret keeps the first four characters of s for log output and
// hides the rest. Short values are masked entirely.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return maskTail
	}
	return s[:4] + maskTail
}
