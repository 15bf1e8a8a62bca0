// Package processor drives the phrase pipeline: audio generation,
// translation and flashcard creation, for both single phrases and
// batch files.
package processor
