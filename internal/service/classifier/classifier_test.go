package classifier

import (
	"testing"

	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/rules"
)

func newTestClassifier() *Classifier {
	return New(rules.Default(), zap.NewNop())
}

func TestClassifyAcceptsPolitician(t *testing.T) {
	c := newTestClassifier()

	res := c.Classify(
		"אחמד טיבי",
		"אחמד טיבי נולד בשנת 1958 בטייבה. הוא פוליטיקאי ערבי ישראלי וחבר כנסת.",
		[]string{"קטגוריה:חברי כנסת ערבים"},
	)

	if !res.IsHuman {
		t.Fatalf("expected human, got rejection: %s", res.Reason)
	}
	if res.BirthYear == nil || *res.BirthYear != 1958 {
		t.Fatalf("expected birth year 1958, got %v", res.BirthYear)
	}
}

func TestClassifyAcceptsBiographyWithoutCategories(t *testing.T) {
	c := newTestClassifier()

	res := c.Classify("פלוני", "פלוני נולד ב-1975 בתל אביב, הוא פוליטיקאי ישראלי.", nil)
	if !res.IsHuman {
		t.Fatalf("expected human, got rejection: %s", res.Reason)
	}
	if res.BirthYear == nil || *res.BirthYear != 1975 {
		t.Fatalf("expected birth year 1975, got %v", res.BirthYear)
	}
}

func TestClassifyRejectsCityByCategory(t *testing.T) {
	c := newTestClassifier()

	// The extract mentions people, but the category settles it first.
	res := c.Classify(
		"טייבה",
		"טייבה היא עיר במחוז המרכז. נולדו בה אישים רבים.",
		[]string{"קטגוריה:ערים בישראל"},
	)

	if res.IsHuman {
		t.Fatal("expected city article to be rejected")
	}
}

func TestClassifyRejectsWithoutPositiveEvidence(t *testing.T) {
	c := newTestClassifier()

	res := c.Classify("אבגד", "טקסט ללא שום רמז רלוונטי.", nil)
	if res.IsHuman {
		t.Fatal("expected rejection with zero human score")
	}
	if res.Reason != "no positive evidence" {
		t.Fatalf("unexpected reason: %s", res.Reason)
	}
}

func TestClassifyRejectsWhenNonHumanDominates(t *testing.T) {
	c := newTestClassifier()

	// One human keyword against several settlement terms.
	res := c.Classify(
		"כפר קטן",
		"הכפר נולד מתוך יישוב חקלאי ליד מושב ותיק.",
		nil,
	)
	if res.IsHuman {
		t.Fatal("expected rejection when non-human terms dominate")
	}
}

func TestClassifyRejectsInsufficientScoreWithoutCategory(t *testing.T) {
	c := newTestClassifier()

	// A single weak keyword, no categories: below the acceptance score.
	res := c.Classify("פלוני", "פלוני הוא זמר.", nil)
	if res.IsHuman {
		t.Fatalf("expected rejection, got acceptance: %s", res.Reason)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newTestClassifier()
	title := "אמיר פרץ"
	extract := "אמיר פרץ נולד בשנת 1952 במרוקו. הוא פוליטיקאי ישראלי וחבר כנסת לשעבר."
	cats := []string{"קטגוריה:חברי כנסת"}

	first := c.Classify(title, extract, cats)
	second := c.Classify(title, extract, cats)

	if first.IsHuman != second.IsHuman || first.Reason != second.Reason {
		t.Fatalf("classification not deterministic: %+v vs %+v", first, second)
	}
}

func TestExtractBirthYear(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name    string
		extract string
		want    int
		none    bool
	}{
		{"explicit phrase", "הוא נולד בשנת 1948 בחיפה", 1948, false},
		{"feminine form", "היא נולדה בשנת 1967", 1967, false},
		{"birth with place", "נולד ב-1975 בתל אביב", 1975, false},
		{"parenthetical span", "דוד לוי (1937-2021) היה פוליטיקאי", 1937, false},
		{"yelid form", "יליד 1956, גדל בירושלים", 1956, false},
		{"standalone year", "בשנת 1989 עלה לארץ", 1989, false},
		{"out of range low", "נולד בשנת 1512", 0, true},
		{"out of range high", "נולד בשנת 2150", 0, true},
		{"no year", "נולד בעיר קטנה", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ExtractBirthYear(tt.extract)
			if tt.none {
				if got != nil {
					t.Fatalf("expected no year, got %d", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a year, got nil")
			}
			if *got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, *got)
			}
		})
	}
}

func TestClassifyWithMinBirthYear(t *testing.T) {
	c := newTestClassifier()
	cats := []string{"קטגוריה:אישים ישראלים"}

	t.Run("rejects missing year", func(t *testing.T) {
		res := c.ClassifyWithMinBirthYear("פלוני", "פלוני הוא פוליטיקאי וחבר כנסת. הוא איש ציבור ותיק.", cats, 1850)
		if res.IsHuman {
			t.Fatal("expected rejection without a birth year")
		}
	})

	t.Run("rejects early year", func(t *testing.T) {
		res := c.ClassifyWithMinBirthYear("פלוני", "פלוני נולד בשנת 1820. הוא פוליטיקאי וחבר כנסת.", cats, 1850)
		if res.IsHuman {
			t.Fatal("expected rejection for birth year below the minimum")
		}
	})

	t.Run("accepts valid year", func(t *testing.T) {
		res := c.ClassifyWithMinBirthYear("פלוני", "פלוני נולד בשנת 1958. הוא פוליטיקאי וחבר כנסת.", cats, 1850)
		if !res.IsHuman {
			t.Fatalf("expected acceptance: %s", res.Reason)
		}
		if res.BirthYear == nil || *res.BirthYear != 1958 {
			t.Fatalf("expected birth year 1958, got %v", res.BirthYear)
		}
	})
}
