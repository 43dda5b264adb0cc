// Package fluentdoc retrieves sections of the ANSYS Fluent documentation
// from the access-controlled ANSYS Help portal. It resolves a topic query
// or a known content path to a versioned portal URL, drives a browsing
// session past the portal's bot-detection layer, and extracts the rendered
// section text, falling back to an unauthenticated mirror when the primary
// source is persistently blocked.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, sqlite/, goquery/).
package fluentdoc
