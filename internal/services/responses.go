package services

import (
	"github.com/railsahayak/complaint-server/internal/models"
)

// Greeting seeds every new conversation log
const Greeting = "नमस्ते! मैं RailSahayak AI असिस्टेंट हूं। आपकी शिकायत में कैसे मदद कर सकता हूं? / " +
	"Hello! I'm RailSahayak AI Assistant. How can I help you with your complaint today?"

// ResponseTable holds the canned reply for each (intent, language) pair.
// General is answered from a separate fallback pair.
type ResponseTable struct {
	replies  map[models.Intent]map[models.Language]string
	fallback map[models.Language]string
}

// DefaultResponses returns the built-in English/Hindi replies
func DefaultResponses() *ResponseTable {
	return &ResponseTable{
		replies: map[models.Intent]map[models.Language]string{
			models.IntentGreeting: {
				models.LanguageEnglish: "Hello! I'm here to help you with your railway complaints. You can ask me about complaint status, filing procedures, or any other railway-related queries.",
				models.LanguageHindi:   "नमस्ते! मैं आपकी रेलवे शिकायतों में मदद करने के लिए यहां हूं। आप मुझसे शिकायत की स्थिति, फाइलिंग प्रक्रिया, या किसी अन्य रेलवे संबंधी प्रश्न के बारे में पूछ सकते हैं।",
			},
			models.IntentComplaintStatus: {
				models.LanguageEnglish: "To check your complaint status, please provide your complaint ID (e.g., RC001). I can also help you track complaints via PNR number or phone number.",
				models.LanguageHindi:   "अपनी शिकायत की स्थिति जांचने के लिए, कृपया अपनी शिकायत आईडी (जैसे RC001) प्रदान करें। मैं पीएनआर नंबर या फोन नंबर के माध्यम से शिकायतों को ट्रैक करने में भी मदद कर सकता हूं।",
			},
			models.IntentFileComplaint: {
				models.LanguageEnglish: "I can help you file a complaint! Please tell me: 1) Type of issue 2) Train number 3) Coach/seat details 4) Brief description. I'll guide you through the process.",
				models.LanguageHindi:   "मैं आपको शिकायत दर्ज करने में मदद कर सकता हूं! कृपया मुझे बताएं: 1) समस्या का प्रकार 2) ट्रेन नंबर 3) कोच/सीट विवरण 4) संक्षिप्त विवरण। मैं आपको प्रक्रिया के माध्यम से मार्गदर्शन करूंगा।",
			},
		},
		fallback: map[models.Language]string{
			models.LanguageEnglish: "I understand. Could you provide more details? I'll be better able to assist you.",
			models.LanguageHindi:   "मैं समझ गया। क्या आप अधिक विवरण दे सकते हैं? मैं आपकी बेहतर सहायता कर सकूंगा।",
		},
	}
}

// Reply selects the text for intent in lang. Unknown languages read as English.
func (t *ResponseTable) Reply(intent models.Intent, lang models.Language) string {
	if !lang.Valid() {
		lang = models.LanguageEnglish
	}
	if byLang, ok := t.replies[intent]; ok {
		return byLang[lang]
	}
	return t.fallback[lang]
}

// QuickActions are the prefill shortcuts shown under the chat input.
// They only fill the input; sending still goes through the classifier.
func QuickActions() []models.QuickAction {
	return []models.QuickAction{
		{Label: "Check Status", Text: "Check my complaint status"},
		{Label: "File Complaint", Text: "I want to file a complaint"},
		{Label: "Train Info", Text: "Get train information"},
	}
}
