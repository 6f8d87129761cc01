// Package domain defines the core business entities of the quiz generation
// service: the trackable Task that represents one generation job from
// submission to terminal outcome, and the Quiz structure it produces.
package domain
