// Package classify guesses a category and a timing bucket for a free-text
// line. It is a pure keyword table: no state, no errors.
package classify

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Category groups tasks for display.
type Category string

const (
	Groceries Category = "Groceries"
	Calls     Category = "Calls"
	Errands   Category = "Errands"
	Kids      Category = "Kids"
	Home      Category = "Home"
	Meals     Category = "Meals"
	Admin     Category = "Admin"
	Ideas     Category = "Someday/Ideas"
)

// Fallback is returned when no keyword group matches.
const Fallback = Ideas

// AllCategories returns every category in priority order.
func AllCategories() []Category {
	out := make([]Category, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.category)
	}
	return out
}

// ParseCategory matches raw case-insensitively against the known categories.
// "ideas" and "someday" are accepted for Someday/Ideas.
func ParseCategory(raw string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", nil
	}
	switch v {
	case "ideas", "someday":
		return Ideas, nil
	}
	for _, c := range AllCategories() {
		if strings.ToLower(string(c)) == v {
			return c, nil
		}
	}
	return "", fmt.Errorf("classify: unknown category %q", raw)
}

// UnmarshalJSON accepts any casing of a known category and maps unknown
// values to Fallback rather than failing the whole document.
func (c *Category) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseCategory(raw)
	if err != nil {
		*c = Fallback
		return nil
	}
	*c = parsed
	return nil
}

// Bucket is the timing guess for a new line.
type Bucket string

const (
	Today Bucket = "Today"
	Later Bucket = "Later"
)

// Result is the classification of one line.
type Result struct {
	Category Category `json:"category"`
	Bucket   Bucket   `json:"bucket"`
}

type group struct {
	category Category
	keywords []string
}

// groups are checked in order and the first hit wins. The order is a
// priority, not a best match: "pick up milk" is Groceries, not Errands.
var groups = []group{
	{Groceries, []string{"grocery", "groceries", "milk", "eggs", "bread", "butter", "cheese", "produce", "fruit", "veggies", "buy", "costco", "supermarket"}},
	{Calls, []string{"call", "phone", "text ", "email", "voicemail", "ring up", "reply to", "follow up with"}},
	{Errands, []string{"pick up", "pickup", "drop off", "return", "post office", "bank", "pharmacy", "dry clean", "car wash", "oil change", "errand"}},
	{Kids, []string{"kid", "school", "homework", "daycare", "teacher", "permission slip", "playdate", "practice", "recital", "diaper"}},
	{Home, []string{"clean", "laundry", "vacuum", "dishes", "trash", "recycling", "fix", "repair", "yard", "garden", "mow", "organize"}},
	{Meals, []string{"dinner", "lunch", "breakfast", "recipe", "cook", "meal", "bake", "grill", "prep"}},
	{Admin, []string{"pay", "bill", "tax", "insurance", "renew", "form", "appointment", "schedule", "invoice", "budget", "passport", "register"}},
	{Ideas, []string{"idea", "maybe", "someday", "research", "learn", "try", "read", "watch", "podcast"}},
}

var urgent = []string{"today", "asap", "tonight"}

// Classify maps a raw line to a category and a bucket guess.
func Classify(line string) Result {
	text := strings.ToLower(line)
	return Result{
		Category: CategoryOf(text),
		Bucket:   BucketOf(text),
	}
}

// CategoryOf returns the first keyword group matching line.
func CategoryOf(line string) Category {
	text := strings.ToLower(line)
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(text, kw) {
				return g.category
			}
		}
	}
	return Fallback
}

// BucketOf returns Today when line carries an urgency keyword.
func BucketOf(line string) Bucket {
	text := strings.ToLower(line)
	for _, kw := range urgent {
		if strings.Contains(text, kw) {
			return Today
		}
	}
	return Later
}

// Lines splits a brain dump into trimmed, non-empty lines. Leading list
// markers ("-", "*", "•", "[ ]") are dropped.
func Lines(dump string) []string {
	var out []string
	for _, raw := range strings.Split(dump, "\n") {
		line := stripMarkers(strings.TrimSpace(raw))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

var (
	listMarkers = []string{"[ ]", "- ", "* ", "• "}
	numbering   = regexp.MustCompile(`^\d+[.)]\s+`)
)

func stripMarkers(line string) string {
	for {
		trimmed := line
		for _, marker := range listMarkers {
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, marker))
		}
		trimmed = numbering.ReplaceAllString(trimmed, "")
		if trimmed == line {
			return line
		}
		line = trimmed
	}
}
