// Package building contains the operating-mode state machine of a single building.
//
// Controller validates and applies mode transitions, drives the lighting, door and
// fire alarm managers when a mode is entered, and aggregates their status reports
// to decide when an engineer must be called. All collaborators are optional; work
// that needs a missing collaborator is skipped.
package building
