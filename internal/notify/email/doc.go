// Package email sends operator emails for the building controller.
//
// PostmarkSender delivers through the Postmark transactional API; LogSender only
// writes the message to the log and is used when no Postmark credentials are set.
// Both implement building.EmailNotifier.
package email
