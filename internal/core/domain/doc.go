// Package domain defines the core reading entities for Lectern.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Segment: The smallest addressable unit of text content
//   - Section: A named node grouping segments and child sections
//   - ContentPage: One bounded window of a text, anchored at a segment
//   - TableOfContents: The full structural skeleton of a text
//   - NavigationTarget: A section or segment the reader wants to reach
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
