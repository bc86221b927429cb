// Package services implements the driving port interfaces.
// Services contain the reading engine: page merging, bidirectional
// pagination, active-section detection, TOC expansion and navigation,
// tied together per reading pane by ReadingSession.
//
// Services are pure Go with no CGO and talk to the outside world only
// through driven ports.
package services
