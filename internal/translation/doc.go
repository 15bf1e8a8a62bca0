// Package translation provides Japanese to English translation services
// using LLM completion APIs (OpenAI or Gemini). It includes translation
// caching for batch operations and file persistence for translated phrases.
package translation
