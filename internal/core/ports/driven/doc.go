// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Extracts text from one document format
//   - NormaliserRegistry: Detects the format and produces a NormalizedDocument
//   - BaselineStore: Baseline profile persistence
//   - RosterProvider: Candidate authors for a class
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RosterStore: Roster management. Without it rosters are read-only.
//   - AssignmentStore: Records batch outcomes. Without it outcomes live only
//     in the returned BatchState.
//   - AIScorer: Machine-learned AI probability. Without it comparisons carry
//     no AI probability.
//   - LanguageDetector: Without it every non-empty text is reported as "en".
//   - MetricsRecorder: Engine telemetry.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
