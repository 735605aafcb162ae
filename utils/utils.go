package utils

func InString(hay []string, needle string) bool {
	for _, x := range hay {
		if x == needle {
			return true
		}
	}

	return false
}

// Returns the first non empty string.
func FirstNonEmpty(in ...string) string {
	for _, i := range in {
		if i != "" {
			return i
		}
	}
	return ""
}
