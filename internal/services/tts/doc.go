// Package tts wraps an OpenAI-compatible speech synthesis endpoint and
// writes generated mp3 files into the audio cache.
package tts
