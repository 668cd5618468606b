package summary

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NoneMentioned is the literal a section carries when no transcript line
// matched its keywords
const NoneMentioned = "None mentioned"

// Category is one row of the classifier table: a labeled section, the
// keywords that route a line into it, and a cap on retained lines.
// Keeping the classifier as data means new sections need no control-flow
// changes.
type Category struct {
	Key      string   `yaml:"key"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
	Cap      int      `yaml:"cap"`
}

// DefaultCategories returns the built-in seven-section classifier table
func DefaultCategories() []Category {
	return []Category{
		{
			Key:      "symptoms",
			Label:    "SYMPTOMS",
			Keywords: []string{"pain", "fever", "cough", "symptom", "feel", "ache", "nausea", "dizzy", "tired", "sore", "rash"},
			Cap:      5,
		},
		{
			Key:      "history",
			Label:    "MEDICAL HISTORY",
			Keywords: []string{"history", "previous", "chronic", "allerg", "surgery", "years ago", "family"},
			Cap:      3,
		},
		{
			Key:      "diagnosis",
			Label:    "DIAGNOSIS/ASSESSMENT",
			Keywords: []string{"diagnose", "diagnosis", "condition", "illness", "infection", "assessment"},
			Cap:      3,
		},
		{
			Key:      "medications",
			Label:    "MEDICATIONS",
			Keywords: []string{"medication", "medicine", "prescribe", "pill", "tablet", "dose", "antibiotic"},
			Cap:      5,
		},
		{
			Key:      "plan",
			Label:    "TREATMENT PLAN",
			Keywords: []string{"treatment", "therapy", "rest", "recommend", "drink", "avoid", "exercise"},
			Cap:      4,
		},
		{
			Key:      "follow_up",
			Label:    "FOLLOW-UP ACTIONS",
			Keywords: []string{"follow", "appointment", "next", "come back", "return", "week", "schedule"},
			Cap:      4,
		},
		{
			Key:      "concerns",
			Label:    "KEY CONCERNS",
			Keywords: []string{"concern", "worried", "worry", "urgent", "emergency", "worse", "warning"},
			Cap:      3,
		},
	}
}

// LoadCategories reads a classifier table override from a YAML file
func LoadCategories(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword table: %w", err)
	}

	var categories []Category
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse keyword table: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("keyword table %s defines no categories", path)
	}

	return categories, nil
}

// Section is one named part of a report: the category label plus the
// lines classified into it, or the none literal when nothing matched
type Section struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Lines []string `json:"lines"`
}

// Classify routes each transcript line into every category whose keyword
// set it matches, capped per category. Continuation lines (the indented
// translations) and blank lines are skipped.
func Classify(categories []Category, transcript string) []Section {
	lines := strings.Split(transcript, "\n")

	sections := make([]Section, 0, len(categories))
	for _, category := range categories {
		section := Section{Key: category.Key, Label: category.Label}

		for _, line := range lines {
			if len(section.Lines) >= category.Cap {
				break
			}
			if strings.TrimSpace(line) == "" || isContinuation(line) {
				continue
			}

			lowered := strings.ToLower(line)
			for _, keyword := range category.Keywords {
				if strings.Contains(lowered, keyword) {
					section.Lines = append(section.Lines, line)
					break
				}
			}
		}

		if len(section.Lines) == 0 {
			section.Lines = []string{NoneMentioned}
		}
		sections = append(sections, section)
	}

	return sections
}

// isContinuation reports whether a transcript line is an indented
// translation continuation rather than a spoken line
func isContinuation(line string) bool {
	return strings.HasPrefix(line, "  (")
}
