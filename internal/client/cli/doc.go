// Package cli implements the interactive Librarium client: a REPL over
// the catalog service with live updates folded into the local cache.
//
// Commands
//
//	Anonymous:
//	  - books [genre]  — list books, optionally filtered by genre
//	  - authors        — list authors with their book counts
//	  - genres         — list every genre in the catalog
//	  - login          — authenticate
//	  - register       — create an account
//	  - watch          — start folding live bookAdded events into the views
//	  - help, exit
//
//	Signed in, additionally:
//	  - recommend      — books in your favorite genre
//	  - add            — add a book (interactive prompts)
//	  - editborn       — set an author's birth year
//	  - me             — show the signed-in account
//	  - logout         — end the session and clear local state
package cli
