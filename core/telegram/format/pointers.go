package format

// DerefString returns *s, or def when s is nil or blank.
func DerefString(s *string, def string) string {
	if s != nil && *s != "" {
		return *s
	}
	return def
}
