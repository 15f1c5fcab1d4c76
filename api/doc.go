// Package api is the HTTP shell over the search engine and route planner.
//
// Two endpoints exist: /api/v1/search for a plain hybrid search and
// /api/v2/search for multi-intent queries that go through the intent
// parser and the route optimizer. Both refuse requests with 503 until the
// engine has built its indices, so clients can tell "not ready" from
// "no results".
package api
