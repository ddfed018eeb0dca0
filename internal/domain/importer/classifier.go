package importer

import (
	"strings"

	"github.com/jbrukh/bayesian"

	"github.com/hirosato/bookkeeper/internal/domain/ledger"
)

// Classifier suggests categories for imported rows based on the operator's
// existing reviewed transactions, trained on description and vendor words.
type Classifier struct {
	classifier *bayesian.Classifier
	classes    []bayesian.Class
}

// TrainClassifier trains a category classifier on txns. Returns nil when
// the data has fewer than two distinct categories, in which case suggestion
// is disabled.
func TrainClassifier(txns []ledger.Transaction) *Classifier {
	byCategory := make(map[string][]string)
	for _, t := range txns {
		words := tokenize(t.Description + " " + t.Vendor)
		if len(words) == 0 {
			continue
		}
		byCategory[t.Category] = append(byCategory[t.Category], words...)
	}
	if len(byCategory) < 2 {
		return nil
	}

	classes := make([]bayesian.Class, 0, len(byCategory))
	for cat := range byCategory {
		classes = append(classes, bayesian.Class(cat))
	}
	c := bayesian.NewClassifier(classes...)
	for cat, words := range byCategory {
		c.Learn(words, bayesian.Class(cat))
	}
	return &Classifier{classifier: c, classes: classes}
}

// Suggest returns the most likely category for a description.
func (c *Classifier) Suggest(description string) (string, bool) {
	if c == nil {
		return "", false
	}
	words := tokenize(description)
	if len(words) == 0 {
		return "", false
	}
	_, likely, _ := c.classifier.LogScores(words)
	return string(c.classes[likely]), true
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
