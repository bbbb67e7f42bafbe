// Package controller wires a building controller process: it loads settings,
// builds the in-memory device managers and the notification clients, and runs
// a script of steps (mode changes, status reports, fault injection) against the
// controller.
package controller
