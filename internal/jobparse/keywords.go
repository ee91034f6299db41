package jobparse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// vocabulary maps every accepted spelling to the canonical skill name.
// Multi-word spellings are matched on consecutive tokens.
var vocabulary = buildVocabulary(map[string][]string{
	"Go":               {"go", "golang"},
	"Python":           {"python"},
	"Java":             {"java"},
	"Kotlin":           {"kotlin"},
	"Rust":             {"rust"},
	"C++":              {"c++", "cpp"},
	"C#":               {"c#", "csharp"},
	".NET":             {".net", "dotnet"},
	"JavaScript":       {"javascript", "js", "ecmascript"},
	"TypeScript":       {"typescript", "ts"},
	"Node.js":          {"node.js", "nodejs", "node"},
	"React":            {"react", "react.js", "reactjs"},
	"React Native":     {"react native"},
	"Vue.js":           {"vue", "vue.js", "vuejs"},
	"Angular":          {"angular"},
	"PHP":              {"php"},
	"Ruby":             {"ruby"},
	"Rails":            {"rails", "ruby on rails"},
	"Django":           {"django"},
	"Spring":           {"spring", "spring boot"},
	"SQL":              {"sql"},
	"PostgreSQL":       {"postgresql", "postgres"},
	"MySQL":            {"mysql"},
	"MongoDB":          {"mongodb", "mongo"},
	"Redis":            {"redis"},
	"Kafka":            {"kafka"},
	"RabbitMQ":         {"rabbitmq"},
	"Elasticsearch":    {"elasticsearch"},
	"Docker":           {"docker"},
	"Kubernetes":       {"kubernetes", "k8s"},
	"Terraform":        {"terraform"},
	"AWS":              {"aws", "amazon web services"},
	"GCP":              {"gcp", "google cloud"},
	"Azure":            {"azure"},
	"Linux":            {"linux"},
	"Git":              {"git"},
	"CI/CD":            {"ci/cd", "cicd", "ci cd"},
	"gRPC":             {"grpc"},
	"GraphQL":          {"graphql"},
	"REST":             {"rest api", "restful"},
	"Microservices":    {"microservices", "microservice"},
	"Machine Learning": {"machine learning", "ml"},
	"Swift":            {"swift"},
	"Flutter":          {"flutter"},
	"Scala":            {"scala"},
	"Figma":            {"figma"},
})

// ambiguous spellings are also everyday words ("go the extra mile",
// "react quickly", "spring 2025"). They count only when written capitalized,
// and a capitalized one that opens a sentence must also stand alone as a
// list item ("- Go", "Go, Rust").
var ambiguous = map[string]struct{}{
	"go": {}, "node": {}, "react": {}, "vue": {}, "spring": {}, "swift": {},
	"rust": {}, "ruby": {}, "rails": {}, "flutter": {}, "angular": {}, "azure": {},
}

// maxPhraseTokens is the longest spelling in the vocabulary, in tokens.
const maxPhraseTokens = 3

func buildVocabulary(canonical map[string][]string) map[string]string {
	out := make(map[string]string)
	for name, spellings := range canonical {
		for _, s := range spellings {
			out[joinTokens(tokenize(s))] = name
		}
	}
	return out
}

type token struct {
	text          string // lowercased
	capital       bool
	opensSentence bool
	closesItem    bool // followed by a list delimiter, a line break or the end of text
}

func joinTokens(tokens []token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.text
	}
	return strings.Join(parts, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '/'
}

// tokenize splits text on anything that is not a letter, digit or one of
// + # . / so that "c++", "c#", "node.js" and "ci/cd" survive. Trailing dots
// are dropped and end the sentence.
func tokenize(text string) []token {
	var (
		out     []token
		word    strings.Builder
		opens   = true
		pending = -1
	)
	settle := func(closes bool) {
		if pending >= 0 {
			out[pending].closesItem = closes
			pending = -1
		}
	}
	flush := func() {
		raw := word.String()
		word.Reset()
		if raw == "" {
			return
		}
		if w := strings.TrimRight(raw, "./"); w != "" {
			first, _ := utf8.DecodeRuneInString(w)
			out = append(out, token{text: strings.ToLower(w), capital: unicode.IsUpper(first), opensSentence: opens})
			pending = len(out) - 1
			opens = false
		}
		if strings.HasSuffix(raw, ".") {
			settle(true)
			opens = true
		}
	}
	for _, r := range text {
		if isWordRune(r) {
			word.WriteRune(r)
			continue
		}
		flush()
		if r == '\n' || !unicode.IsSpace(r) {
			settle(strings.ContainsRune(",;:()\n", r))
		}
		if strings.ContainsRune("!?:\n", r) {
			opens = true
		}
	}
	flush()
	settle(true)
	return out
}

// ExtractKeywords returns the canonical names of known technologies found in
// text, in order of first appearance, without duplicates. Longer phrases win
// over their prefixes ("react native" over "react").
func ExtractKeywords(text string) []string {
	return extractKeywords(text, false)
}

// extractKeywords with loose set accepts any capitalized ambiguous spelling,
// which suits short texts such as titles ("Go Developer").
func extractKeywords(text string, loose bool) []string {
	tokens := tokenize(text)
	seen := make(map[string]struct{})
	out := make([]string, 0)

	for i := 0; i < len(tokens); {
		matched := 0
		for n := maxPhraseTokens; n >= 1; n-- {
			if i+n > len(tokens) {
				continue
			}
			phrase := joinTokens(tokens[i : i+n])
			name, ok := vocabulary[phrase]
			if !ok {
				continue
			}
			if n == 1 && !acceptSingle(tokens[i], loose) {
				continue
			}
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				out = append(out, name)
			}
			matched = n
			break
		}
		if matched == 0 {
			matched = 1
		}
		i += matched
	}
	return out
}

func acceptSingle(t token, loose bool) bool {
	if _, ok := ambiguous[t.text]; !ok {
		return true
	}
	if !t.capital {
		return false
	}
	return loose || !t.opensSentence || t.closesItem
}

// mergeKeywords appends the names of b missing from a.
func mergeKeywords(a, b []string) []string {
	out := append(make([]string, 0, len(a)+len(b)), a...)
	seen := make(map[string]struct{}, len(a))
	for _, k := range a {
		seen[k] = struct{}{}
	}
	for _, k := range b {
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
