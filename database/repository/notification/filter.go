package notificationRepo

import (
	"regexp"
	"strings"

	"civicdesk/departments"
	"civicdesk/models"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	// broadPattern flags messages and types that look department related.
	broadPattern = "department|assigned|assignment|task|issue|problem"
	// broadTitlePattern is the narrower title check of the broad filter.
	broadTitlePattern = "department"
)

// Filter selects notifications for the department read path. With Department
// empty it is the broad filter, otherwise the narrow one. Type, when set, is
// ANDed onto either. All user supplied text is escaped before it reaches a
// pattern, so any input is a plain substring search.
type Filter struct {
	Department string
	Type       string
}

// Broad reports whether the filter runs in broad mode.
func (f Filter) Broad() bool {
	return strings.TrimSpace(f.Department) == ""
}

// namesPattern matches any canonical department name.
func namesPattern() string {
	quoted := make([]string, 0, 10)
	for _, n := range departments.Names() {
		quoted = append(quoted, regexp.QuoteMeta(n))
	}
	return strings.Join(quoted, "|")
}

func regexDoc(pattern string) bson.M {
	return bson.M{"$regex": pattern, "$options": "i"}
}

// BSON renders the filter as a Mongo query document.
func (f Filter) BSON() bson.M {
	var or []bson.M
	if f.Broad() {
		names := namesPattern()
		or = []bson.M{
			{"message": regexDoc(broadPattern)},
			{"type": regexDoc(broadPattern)},
			{"title": regexDoc(broadTitlePattern)},
			{"message": regexDoc(names)},
			{"title": regexDoc(names)},
			{"recipient.name": regexDoc(names)},
			{"department": regexDoc(names)},
		}
	} else {
		dept := regexp.QuoteMeta(strings.TrimSpace(f.Department))
		or = []bson.M{
			{"message": regexDoc(dept)},
			{"title": regexDoc(dept)},
			{"recipient.name": regexDoc(dept)},
			{"department": regexDoc(dept)},
		}
	}

	if f.Type == "" {
		return bson.M{"$or": or}
	}
	return bson.M{"$and": []bson.M{
		{"$or": or},
		{"type": regexDoc(regexp.QuoteMeta(f.Type))},
	}}
}

// Matcher evaluates a Filter in memory with the same patterns BSON sends to Mongo.
type Matcher struct {
	broad  bool
	main   *regexp.Regexp
	title  *regexp.Regexp
	names  *regexp.Regexp
	typeRe *regexp.Regexp
}

// Matcher compiles the filter. Escaping guarantees the patterns are valid.
func (f Filter) Matcher() *Matcher {
	m := &Matcher{broad: f.Broad()}
	if m.broad {
		m.main = regexp.MustCompile("(?i)" + broadPattern)
		m.title = regexp.MustCompile("(?i)" + broadTitlePattern)
		m.names = regexp.MustCompile("(?i)" + namesPattern())
	} else {
		m.main = regexp.MustCompile("(?i)" + regexp.QuoteMeta(strings.TrimSpace(f.Department)))
	}
	if f.Type != "" {
		m.typeRe = regexp.MustCompile("(?i)" + regexp.QuoteMeta(f.Type))
	}
	return m
}

// Match reports whether n satisfies the filter.
func (m *Matcher) Match(n models.Notification) bool {
	if m.typeRe != nil && !m.typeRe.MatchString(n.Type) {
		return false
	}
	if m.broad {
		if m.main.MatchString(n.Message) || m.main.MatchString(n.Type) || m.title.MatchString(n.Title) {
			return true
		}
		return anyMatch(m.names, n.Message, n.Title, n.Recipient.Name, n.Department)
	}
	return anyMatch(m.main, n.Message, n.Title, n.Recipient.Name, n.Department)
}

func anyMatch(re *regexp.Regexp, texts ...string) bool {
	for _, t := range texts {
		if t != "" && re.MatchString(t) {
			return true
		}
	}
	return false
}
