// Package study implements the AI study pipeline: image upload → vision
// extraction → cached text → summary, explanations, quiz, and notes
// generation.
package study
