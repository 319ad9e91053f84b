// Package rules holds the keyword corpora and thresholds driving the
// classification pipeline. All heuristic string data lives here, in one
// versioned structure, so the classifier and image filter stay free of
// scattered literals.
package rules

import (
	"github.com/omerhaim/origindaily/internal/constants"
	"github.com/omerhaim/origindaily/internal/domain"
)

// Thresholds are the numeric knobs of the article classifier.
type Thresholds struct {
	StrongIndicatorWeight int
	KeywordWeight         int
	NonHumanRatioMax      float64
	AcceptScore           int
	MinYear               int
	MaxYear               int
}

// Ruleset is the full heuristic configuration. Treat instances as read-only.
type Ruleset struct {
	Version string

	// Article classification
	HumanKeywords             []string
	NonHumanKeywords          []string
	StrongHumanIndicators     []string
	HumanCategoryFragments    []string
	NonHumanCategoryFragments []string
	Thresholds                Thresholds

	// Image URL classification
	FaceKeywords         []string
	NonFaceKeywords      []string
	HumanFilenameParts   []string
	NonFaceFilenameParts []string

	// Search corpora
	ArabicSurnames  []string
	MizrahiSurnames []string
	ArabCategories  []string
	MizrahiCategories []string
}

// Surnames returns the surname corpus for a group.
func (r *Ruleset) Surnames(g domain.Group) []string {
	if g == domain.GroupArab {
		return r.ArabicSurnames
	}
	return r.MizrahiSurnames
}

// Categories returns the category search terms for a group.
func (r *Ruleset) Categories(g domain.Group) []string {
	if g == domain.GroupArab {
		return r.ArabCategories
	}
	return r.MizrahiCategories
}

// Default returns the production ruleset.
func Default() *Ruleset {
	return &Ruleset{
		Version: "2025-04",

		HumanKeywords: []string{
			"נולד", "נולדה", "פוליטיקאי", "פוליטיקאית", "שחקן", "שחקנית",
			"זמר", "זמרת", "עיתונאי", "עיתונאית", "סופר", "סופרת", "מנהל", "מנהלת",
			"חבר כנסת", "חברת כנסת", "ראש ממשלה", "שופט", "שופטת",
			"פרופסור", "דוקטור", "רופא", "רופאה", "מדען", "מדענית", "אמן", "אמנית",
			"יליד", "ילידת", "בוגר", "בוגרת", "פעיל", "פעילה", "ביוגרפיה",
		},

		NonHumanKeywords: []string{
			"מושב", "קיבוץ", "עיר", "כפר", "יישוב", "חברה", "ארגון", "מוסד",
			"בית ספר", "אוניברסיטה", "מכללה", "מסעדה", "חנות", "מלון",
			"אתר", "פארק", "שמורה", "בניין", "אנציקלופדיה", "מילון", "ספר",
			"סרט", "תוכנית", "להקה", "מפלגה", "תיאטרון", "מוזיאון",
			"חמולת", "חמולה", "משפחת", "שבט", "איבר", "חלק גוף",
			"מאכל", "תבשיל", "מוצר", "מכשיר", "אזור", "מחוז", "חג",
			"אירוע", "פסטיבל", "טורניר", "מחלה", "תסמונת", "תופעה", "מקצוע",
		},

		StrongHumanIndicators: []string{
			" נולד ב", " נולדה ב",
			" הוא איש ", " היא אישה ",
			" החל את הקריירה שלו", " החלה את הקריירה שלה",
			" בוגר ", " בוגרת ",
			" סיים את לימודיו", " סיימה את לימודיה",
			" התחתן ", " התחתנה ",
			" הוא בנו של ", " היא בתו של ",
			" אביו של ", " אמו של ",
			" הוא פוליטיקאי ", " היא פוליטיקאית ",
			" שיחק בסרט ", " שיחקה בסרט ",
			" הופיע בתוכנית ", " הופיעה בתוכנית ",
			" נפטר ", " נפטרה ",
			" התחנך ", " התחנכה ",
			" הצטרף ל", " הצטרפה ל",
			" גדל ב", " גדלה ב",
		},

		HumanCategoryFragments: []string{
			"אישים", "אנשים", "ילידי", "נולדים", "פוליטיקאים", "שחקנים", "זמרים",
			"סופרים", "אמנים", "עיתונאים", "רופאים", "מדענים", "מנהלים",
			"חברי כנסת", "שרים", "שופטים", "עורכי דין", "מוזיקאים", "במאים",
			"מנהיגים", "רבנים", "ספורטאים", "כדורגלנים", "מאמנים",
		},

		NonHumanCategoryFragments: []string{
			"מבנים", "מקומות", "ארגונים", "חברות", "סרטים", "אלבומים",
			"ספרים", "חמולות", "משפחות", "מוצרים", "חבל ארץ", "תופעות",
			"מחלות", "ערים", "יישובים", "כפרים", "מושבים",
		},

		Thresholds: Thresholds{
			StrongIndicatorWeight: constants.ClassifierConfig.StrongIndicatorWeight,
			KeywordWeight:         constants.ClassifierConfig.KeywordWeight,
			NonHumanRatioMax:      constants.ClassifierConfig.NonHumanRatioMax,
			AcceptScore:           constants.ClassifierConfig.AcceptScore,
			MinYear:               constants.ClassifierConfig.MinYear,
			MaxYear:               constants.ClassifierConfig.MaxYear,
		},

		FaceKeywords: []string{
			"portrait", "face", "headshot", "profile", "דיוקן", "פנים", "פורטרט", "תמונת_פספורט",
			"official", "רשמי", "photo", "צילום", "press", "עיתונות", "closeup", "תקריב",
			"politician", "פוליטיקאי", "actor", "שחקן", "actress", "שחקנית", "singer", "זמר",
			"interview", "ראיון", "speaking", "נואם", "ceremony", "טקס", "conference", "כנס",
			"candidate", "מועמד", "minister", "שר", "deputy", "חבר_כנסת", "parliament", "כנסת",
			"professor", "פרופסור", "doctor", "דוקטור", "judge", "שופט", "lawyer", "עורך_דין",
		},

		NonFaceKeywords: []string{
			"logo", "symbol", "map", "diagram", "לוגו", "סמל", "מפה", "תרשים", "flag", "דגל",
			"icon", "אייקון", "building", "בניין", "house", "landscape", "נוף",
			"document", "מסמך", "coat_of_arms", "סמל_רשמי", "emblem", "medal", "מדליה",
			"banner", "sign", "poster", "כרזה", "chart", "טבלה", "graph", "גרף",
			"product", "book", "location", "מיקום", "site", "cover", "כריכה",
			"food", "מזון", "dish", "מאכל", "device", "מכשיר", "tool", "stamp", "בול",
		},

		HumanFilenameParts: []string{
			"interview", "speaking", "portrait", "official", "press", "visit", "meeting",
		},

		NonFaceFilenameParts: []string{
			"signature", "autograph", "חתימה", "symbol", "logo",
		},

		ArabicSurnames: []string{
			"אבו-רביעה", "טיבי", "עודה", "זחאלקה", "ג׳בארין", "מחאמיד", "דראושה",
			"נאסר", "חטיב", "בשארה", "עואד", "זועבי", "מנסור", "חמדאן", "חוסיין",
			"מסארווה", "עאבד", "חלאילה", "עבאס", "סעדי", "סולימאן", "ריאן",
			"עספור", "מחאג׳נה", "אבו גאנם", "קעדאן", "ג׳בארה", "כנאנה", "שאהין",
			"סלאח", "חאג׳", "מסארוה", "דקה", "תאיה", "טאהא", "יאסין", "זיאדנה",
		},

		MizrahiSurnames: []string{
			"פרץ", "אוחנה", "ביטון", "אבוטבול", "אזולאי", "אלמליח", "חזן", "אלקבץ",
			"מימון", "בוזגלו", "מכלוף", "אוחיון", "דהן", "אברג׳יל", "עמר", "דרעי",
			"מועלם", "תורג׳מן", "אלבז", "זגורי", "מזרחי", "חדד", "בן שטרית",
			"אמסלם", "סויסה", "אוזן", "פינטו", "גבאי", "אטיאס", "חביב",
			"לוי", "מלכה", "חמו", "אלקיים", "סבג", "סבן", "טולדנו", "כהן", "נחום",
		},

		ArabCategories: []string{
			"קטגוריה:חברי_כנסת_ערבים",
			"קטגוריה:שחקני_כדורגל_ערבים_ישראלים",
			"קטגוריה:שחקנים_ערבים_ישראלים",
			"קטגוריה:עיתונאים_ערבים_ישראלים",
			"קטגוריה:אישים_ערבים_ישראלים",
			"קטגוריה:זמרים_ערבים_ישראלים",
			"קטגוריה:שופטים_ערבים_בישראל",
		},

		MizrahiCategories: []string{
			"קטגוריה:יהודים_מזרחים",
			"קטגוריה:זמרים_מזרחיים",
			"קטגוריה:פוליטיקאים_מזרחים_בישראל",
			"קטגוריה:שחקנים_יהודים_מזרחים",
			"קטגוריה:מוזיקאים_מזרחיים",
			"קטגוריה:אישים_יהודים_מזרחים",
			"קטגוריה:אמנים_מזרחיים",
		},
	}
}
