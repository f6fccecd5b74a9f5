package recipe

import (
	"strings"

	"github.com/dgallion1/recipeview/internal/dom"
	"golang.org/x/net/html"
)

// listSourceLine finds the source line an unordered list starts on: the
// first bullet line ("- ", "* " or "+ ") whose trimmed text contains the
// trimmed text of the list's first item. It returns fallback when no line
// matches. Lists sharing the wording of their first item resolve to the
// first such line.
func listSourceLine(source string, list *html.Node, fallback int) int {
	var first string
	if li := dom.FindFirst(list, dom.ByTag("li")); li != nil {
		first = strings.TrimSpace(dom.TextContent(li))
	}
	for n, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if !isBulletLine(line) {
			continue
		}
		if strings.Contains(line, first) {
			return n
		}
	}
	return fallback
}

func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "- ") ||
		strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "+ ")
}
