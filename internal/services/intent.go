package services

import (
	"strings"

	"github.com/railsahayak/complaint-server/internal/models"
)

// Classifier maps an utterance onto an intent. Every input yields one.
type Classifier interface {
	Classify(utterance string) models.Intent
}

type keywordRule struct {
	intent   models.Intent
	keywords []string
}

// KeywordClassifier matches lower-cased substrings; the first rule with a hit wins.
type KeywordClassifier struct {
	rules []keywordRule
}

// NewKeywordClassifier returns the default rule set in priority order:
// status/track, then file/complaint, then greetings.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{rules: []keywordRule{
		{intent: models.IntentComplaintStatus, keywords: []string{"status", "track", "स्थिति"}},
		{intent: models.IntentFileComplaint, keywords: []string{"file", "complaint", "शिकायत"}},
		{intent: models.IntentGreeting, keywords: []string{"hello", "hi", "नमस्ते"}},
	}}
}

// Classify implements Classifier. The raw utterance is matched, untrimmed,
// so "hi" also hits inside longer words such as "this".
func (c *KeywordClassifier) Classify(utterance string) models.Intent {
	lower := strings.ToLower(utterance)
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return models.IntentGeneral
}
