// Package main provides the entry point for the Evolution instance
// admin tool. It manages messaging-channel instances through their
// lifecycle (registration, connection handshake, persona assignment,
// teardown), keeping a locally persisted registry reconciled with
// the remote gateway's view.
package main
