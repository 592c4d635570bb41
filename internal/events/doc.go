// Package events defines the venue event payloads carried over the
// realtime stream.
//
// Every stream frame names its event; Decode maps known names onto typed
// payloads and passes everything else through as KindUnknown so new
// server events never break consumers.
package events
