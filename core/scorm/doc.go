// Package scorm implements the client side of the SCORM 1.2 runtime
// contract: locating the tracking API a hosting page exposes to embedded
// content, sequencing the initialize/terminate lifecycle, and forwarding
// get/set/commit calls with uniform results when no host is reachable
// (standalone/preview mode).
package scorm
