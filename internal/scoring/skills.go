package scoring

import (
	"regexp"
	"strings"
)

var reSkillJunk = regexp.MustCompile(`[^\p{L}\p{N}+#]+`)

// NormalizeSkill lowercases and trims a skill name and strips everything but
// letters, digits, '+' and '#'. "Node.js" and "node js" both become "nodejs";
// "C++" and "C#" stay distinct.
func NormalizeSkill(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return reSkillJunk.ReplaceAllString(s, "")
}

// skillSet is an insertion-ordered set of normalized skills that remembers the
// first original spelling of each entry for display.
type skillSet struct {
	order   []string
	display map[string]string
}

func newSkillSet(lists ...[]string) *skillSet {
	s := &skillSet{display: make(map[string]string)}
	for _, l := range lists {
		for _, name := range l {
			s.add(name)
		}
	}
	return s
}

func (s *skillSet) add(name string) {
	key := NormalizeSkill(name)
	if key == "" {
		return
	}
	if _, ok := s.display[key]; ok {
		return
	}
	s.display[key] = strings.TrimSpace(name)
	s.order = append(s.order, key)
}

func (s *skillSet) has(key string) bool {
	_, ok := s.display[key]
	return ok
}

func (s *skillSet) len() int { return len(s.order) }

// intersect returns the display names of entries of s also present in other,
// in s's order.
func (s *skillSet) intersect(other *skillSet) []string {
	out := make([]string, 0)
	for _, k := range s.order {
		if other.has(k) {
			out = append(out, s.display[k])
		}
	}
	return out
}

// minus returns the display names of entries of s absent from other,
// in s's order.
func (s *skillSet) minus(other *skillSet) []string {
	out := make([]string, 0)
	for _, k := range s.order {
		if !other.has(k) {
			out = append(out, s.display[k])
		}
	}
	return out
}

// ratioScore is matched/total*100, or 100 when the category is empty.
func ratioScore(matched, total int) int {
	if total == 0 {
		return 100
	}
	return roundInt(float64(matched) / float64(total) * 100)
}
