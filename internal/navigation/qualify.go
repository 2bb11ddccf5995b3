package navigation

import "strings"

const watchPath = "youtube.com/watch"

// Qualifies reports whether url is a video watch page.
func Qualifies(url string) bool {
	return strings.Contains(url, watchPath)
}
