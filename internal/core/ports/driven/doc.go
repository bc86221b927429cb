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
//   - ContentSource: Fetches bounded pages of a text's content
//   - TOCSource: Fetches the full table of contents of a text
//   - ConfigStore: Application configuration
//
// # View Handles
//
// The reading view is rendered by a driving adapter (the TUI) but the core
// needs to observe and steer it. The adapter passes explicit handles in at
// construction instead of the core looking containers up by name:
//
//   - ViewIndex: "is this id rendered" and scroll-into-view
//   - Viewport: geometry of the viewport and its annotated elements
//   - RenderWaiter: lets the view catch up after the tree changed
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LocationStore: Shareable reading location. Without it, navigation
//     targets are not persisted.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
