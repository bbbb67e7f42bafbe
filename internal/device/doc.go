// Package device provides in-memory lighting, door and fire alarm managers.
//
// Each manager owns a fixed bank of numbered devices that can be marked faulty.
// A faulty device ignores commands and reports FAULT in the manager status line,
// which lets the building controller be exercised without real hardware.
package device
