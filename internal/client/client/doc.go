// Package client is the authenticated HTTP/JSON client for the OSP API.
//
// # Overview
//
// Every call goes through (*Client).Do. It attaches the stored access token
// as a bearer credential, sends the JSON body and classifies the response:
//
//   - 2xx with a JSON body: the raw body.
//   - 2xx with no body (204, Content-Length: 0, empty): "{}".
//   - any other status: *HTTPError carrying the status, the body and a
//     human-readable message.
//   - no response: *NetworkError, matching ErrNetwork.
//
// # Token refresh
//
// A 401 on a first attempt triggers a refresh through the client's
// refresh.Coordinator: concurrent 401s share one POST /auth/refresh-token and
// each caller replays its own request once with the new token. A 401 on the
// replay is returned as is. When no refresh token is stored, or the refresh
// call fails, the session is logged out and every waiter gets an error
// matching ErrRefreshExhausted.
//
// # Concurrency
//
// A Client is safe for concurrent use.
package client
