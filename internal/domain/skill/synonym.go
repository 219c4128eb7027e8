package skill

// Aliases maps a canonical skill token to the spellings that collapse onto it.
var Aliases = map[string][]string{
	"react":      {"react", "reactjs", "react.js"},
	"typescript": {"typescript", "ts", "type script"},
	"javascript": {"javascript", "js", "ecmascript"},
	"node.js":    {"node", "nodejs", "node.js", "node js"},
	"d3":         {"d3", "d3.js", "d3js"},
	"mongodb":    {"mongodb", "mongo"},
	"express":    {"express", "expressjs", "express.js"},
	"jest":       {"jest"},
	"tailwind":   {"tailwind", "tailwindcss", "tailwind css"},
	"websocket":  {"websocket", "websockets"},
	"chart.js":   {"chart.js", "chartjs"},
	"postgresql": {"postgresql", "postgres", "psql"},
	"go":         {"go", "golang"},
	"vue":        {"vue", "vuejs", "vue.js"},
	"next.js":    {"next", "nextjs", "next.js"},
	"kubernetes": {"kubernetes", "k8s"},
	"figma":      {"figma"},
}

var canonicalByAlias = buildAliasIndex(Aliases)

func buildAliasIndex(groups map[string][]string) map[string]string {
	out := make(map[string]string, len(groups)*3)
	for canonical, variants := range groups {
		out[canonical] = canonical
		for _, v := range variants {
			out[v] = canonical
		}
	}
	return out
}

// Canonical returns the canonical token for a lowercased, trimmed skill.
func Canonical(token string) string {
	if c, ok := canonicalByAlias[token]; ok {
		return c
	}
	return token
}

func isAlias(token string) bool {
	_, ok := canonicalByAlias[token]
	return ok
}
