package study

import (
	"strings"
	"testing"
)

func TestTextIDIsStableAndShort(t *testing.T) {
	a := textID("photosynthesis notes")
	b := textID("photosynthesis notes")
	c := textID("different material")

	if a != b {
		t.Fatalf("expected identical ids for identical text, got %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("expected different ids for different text")
	}
	if len(a) != textIDLength {
		t.Fatalf("expected %d-char id, got %d (%q)", textIDLength, len(a), a)
	}
}

func validQuizSet() QuizSet {
	set := QuizSet{}
	for i := 0; i < requiredQuizQuestions; i++ {
		answers := make([]QuizAnswer, requiredMCQAnswers)
		for j := range answers {
			answers[j] = QuizAnswer{Text: "option", IsCorrect: j == 0}
		}
		set.MCQ = append(set.MCQ, MCQItem{Question: "q", Answers: answers, Explanation: "because"})
		set.QuickQA = append(set.QuickQA, QuickQAItem{Question: "q", CorrectAnswer: "a", Explanation: "because"})
		set.Flashcards = append(set.Flashcards, FlashcardItem{Question: "q", CorrectAnswer: "a", Explanation: "because"})
	}
	return set
}

func TestValidateQuizSet(t *testing.T) {
	set := validQuizSet()
	if err := validateQuizSet(&set); err != nil {
		t.Fatalf("expected valid quiz set, got %v", err)
	}

	short := validQuizSet()
	short.MCQ = short.MCQ[:9]
	if err := validateQuizSet(&short); err == nil {
		t.Fatalf("expected error for 9 MCQ questions")
	}

	wrongAnswers := validQuizSet()
	wrongAnswers.MCQ[3].Answers = wrongAnswers.MCQ[3].Answers[:3]
	if err := validateQuizSet(&wrongAnswers); err == nil {
		t.Fatalf("expected error for MCQ with 3 answers")
	}

	twoCorrect := validQuizSet()
	twoCorrect.MCQ[0].Answers[1].IsCorrect = true
	if err := validateQuizSet(&twoCorrect); err == nil {
		t.Fatalf("expected error for MCQ with 2 correct answers")
	}

	noCorrect := validQuizSet()
	noCorrect.MCQ[0].Answers[0].IsCorrect = false
	if err := validateQuizSet(&noCorrect); err == nil {
		t.Fatalf("expected error for MCQ with no correct answer")
	}
}

func TestValidateNotes(t *testing.T) {
	notes := []NoteItem{
		{Title: "Cell structure", KeyPoints: []string{"membrane"}},
		{Title: "Mitosis", KeyPoints: []string{"phases"}},
	}
	if err := validateNotes(notes); err != nil {
		t.Fatalf("expected valid notes, got %v", err)
	}

	if err := validateNotes(notes[:1]); err == nil {
		t.Fatalf("expected error for a single note")
	}

	empty := []NoteItem{
		{Title: "", KeyPoints: []string{"x"}},
		{Title: "ok", KeyPoints: []string{"y"}},
	}
	if err := validateNotes(empty); err == nil {
		t.Fatalf("expected error for empty title")
	}

	noPoints := []NoteItem{
		{Title: "a", KeyPoints: nil},
		{Title: "b", KeyPoints: []string{"y"}},
	}
	if err := validateNotes(noPoints); err == nil {
		t.Fatalf("expected error for missing key points")
	}
}

func TestValidateExplanationSet(t *testing.T) {
	set := ExplanationSet{
		Explanations:       []ConceptExplanation{{Concept: "Gravity", Explanation: "Pulls things down"}},
		StudyTips:          []string{"a", "b", "c", "d"},
		LearningApproaches: []string{"a", "b", "c", "d"},
	}
	if err := validateExplanationSet(&set); err != nil {
		t.Fatalf("expected valid explanation set, got %v", err)
	}

	noConcepts := set
	noConcepts.Explanations = nil
	if err := validateExplanationSet(&noConcepts); err == nil {
		t.Fatalf("expected error for empty explanations")
	}

	wrongTips := set
	wrongTips.StudyTips = []string{"a", "b"}
	if err := validateExplanationSet(&wrongTips); err == nil {
		t.Fatalf("expected error for 2 study tips")
	}

	// More than five concepts are trimmed rather than rejected.
	many := ExplanationSet{
		StudyTips:          []string{"a", "b", "c", "d"},
		LearningApproaches: []string{"a", "b", "c", "d"},
	}
	for i := 0; i < 7; i++ {
		many.Explanations = append(many.Explanations, ConceptExplanation{Concept: "c", Explanation: "e"})
	}
	if err := validateExplanationSet(&many); err != nil {
		t.Fatalf("expected trimmed set to validate, got %v", err)
	}
	if len(many.Explanations) != maxExplanationConcepts {
		t.Fatalf("expected explanations trimmed to %d, got %d", maxExplanationConcepts, len(many.Explanations))
	}
}

func TestBuildPromptsCarryContent(t *testing.T) {
	text := "The mitochondria is the powerhouse of the cell."

	for name, build := range map[string]func(string) (string, string){
		"summary":      buildSummaryPrompt,
		"explanations": buildExplanationsPrompt,
		"quiz":         buildQuizPrompt,
		"notes":        buildNotesPrompt,
	} {
		system, prompt := build(text)
		if system == "" {
			t.Fatalf("%s: expected a system prompt", name)
		}
		if !strings.Contains(prompt, text) {
			t.Fatalf("%s: prompt does not carry the content", name)
		}
		if !strings.Contains(prompt, "<<<CONTENT") {
			t.Fatalf("%s: prompt is missing the content fence", name)
		}
	}
}

func TestWrapContentTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", maxPromptContentRunes+100)
	prompt := wrapContent(long)
	if strings.Contains(prompt, long) {
		t.Fatalf("expected long content to be truncated")
	}
	if !strings.Contains(prompt, "...") {
		t.Fatalf("expected truncation marker")
	}
}
