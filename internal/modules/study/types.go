package study

// SummaryResult is returned by the process-image endpoint. The text_id
// references the cached extraction for follow-up generation calls.
type SummaryResult struct {
	Summary string `json:"summary"`
	TextID  string `json:"text_id"`
}

// ConceptExplanation is one key concept with its plain-language explanation.
type ConceptExplanation struct {
	Concept     string `json:"concept"`
	Explanation string `json:"explanation"`
}

// ExplanationSet is the generate-explanations payload: up to five concepts
// plus four study tips and four learning approaches.
type ExplanationSet struct {
	Explanations       []ConceptExplanation `json:"explanations"`
	StudyTips          []string             `json:"studyTips"`
	LearningApproaches []string             `json:"learningApproaches"`
}

// QuizAnswer is a single multiple-choice option.
type QuizAnswer struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// MCQItem has exactly four answers with exactly one marked correct.
type MCQItem struct {
	Question    string       `json:"question"`
	Answers     []QuizAnswer `json:"answers"`
	Explanation string       `json:"explanation"`
}

// QuickQAItem is a short-answer question with accepted alternatives.
type QuickQAItem struct {
	Question            string   `json:"question"`
	CorrectAnswer       string   `json:"correct_answer"`
	Explanation         string   `json:"explanation"`
	OtherCorrectOptions []string `json:"other_correct_options"`
}

// FlashcardItem is a front/back style prompt for memorization.
type FlashcardItem struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctanswer"`
	Explanation   string `json:"explanation"`
}

// QuizSet is the generate-quiz payload: a pool of ten questions per format.
type QuizSet struct {
	MCQ        []MCQItem       `json:"MCQ"`
	QuickQA    []QuickQAItem   `json:"QuickQA"`
	Flashcards []FlashcardItem `json:"Flashcards"`
}

// NoteItem is one structured study note.
type NoteItem struct {
	Title         string   `json:"title"`
	Subject       string   `json:"subject"`
	Description   string   `json:"description"`
	Content       string   `json:"content"`
	KeyPoints     []string `json:"keyPoints"`
	Difficulty    string   `json:"difficulty"`
	EstimatedTime string   `json:"estimatedTime"`
	LastUpdated   string   `json:"lastUpdated"`
}

// NotesSet is the generate-notes payload: exactly two notes.
type NotesSet struct {
	ID    string     `json:"id"`
	Notes []NoteItem `json:"notes"`
}

type generateDTO struct {
	TextID string `json:"text_id" binding:"required"`
}
