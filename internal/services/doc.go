// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so failures are
//     classified consistently (bad data vs missing feature vs flaky API).
//   - Subpackages holding the concrete clients for the external
//     capabilities: chat completion (textgen), speech synthesis (tts), and
//     image search (imagesearch).
//
// Use these helpers when wiring new stage logic so error handling stays
// uniform across the pipeline.
package services
