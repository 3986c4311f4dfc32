package allowlist

// defaultTerms are domain and document words that must survive redaction
// verbatim. Several of them are also common Hebrew surnames or given names
// when read out of context, which is why they sit ahead of name detection.
var defaultTerms = []string{
	// clinical scores and conditions
	"CVA", "FIM", "MMSE", "COPD", "Diabetes", "Mellitus",
	"סוכרת", "איסכמי", "המיספרה",
	// functional status
	"עצמאי", "חלקי", "תקין", "לקוי",
	// treatments
	"פיזיותרפיה", "שיקום", "ריפוי", "בעיסוק",
	// section headers and labels
	"אבחנות", "אבחנה", "אבח", "עיקריות", "המלצות", "סיכום", "ותוכנית",
	"טיפול", "תרופתי", "בדיקה", "גופנית", "מקור", "הפניה", "פרטים", "אישיים",
	"תאריך", "קבלה", "שחרור", "בקבלה", "בשחרור", "לידה", "מגדר", "גיל",
	// measurements
	"משקל", "מטר", "בציוני", "יום",
	// letter boilerplate
	"בברכה",
}
