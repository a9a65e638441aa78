// Package cli implements the OSP interactive command-line client.
//
// # Overview
//
// The CLI is a small REPL over three routes: sign-in, account and media.
// Commands that need a session (whoami, account, media, comment) are guarded:
// without a stored access token the REPL sends the user to sign-in instead.
//
// # Commands
//
//	help                 show available commands
//	signin               sign in with username and password
//	social <provider>    sign in with a google or apple id token
//	whoami               show the identity of the current session
//	account              delete the account (asks for confirmation)
//	media <id>           open a media item with its comments
//	comment <text>       comment on the open media item
//	signout              sign out
//	exit | quit          leave the program
//
// Failed actions print the message from the service layer and, where it makes
// sense, offer to retry through a closure that re-runs the same action.
//
// # Testability
//
// Input helpers are reached through package-level variables (getSimpleText,
// getPassword, confirm) and REPL output through printlnFn, so tests can stub
// them. The REPL itself depends only on execIface.
package cli
