// Package v2ex provides a Go client for the V2EX API v2.
//
// # Overview
//
// The client authenticates with a personal access token and exposes one
// method per API operation: notifications, the authenticated member's
// profile, personal access tokens, nodes, topics, and replies. Each call is
// a single request/response round trip; there are no retries, no backoff,
// and no request queuing.
//
// # Quick Start
//
// Create a token at https://www.v2ex.com/settings/tokens, then:
//
//	client, err := v2ex.New(token)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	member, err := client.GetMember(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(member.Result.Username)
//
// # Application-Level Failures
//
// The API reports its own failures (unknown node, invalid notification id)
// as well-formed bodies whose embedded status carries success=false. These
// decode normally and are returned as results, not errors:
//
//	resp, err := client.GetNode(ctx, "no-such-node")
//	if err != nil {
//		// transport or decoding failure
//	}
//	if !resp.Success {
//		// API-level failure; resp.Message explains why
//	}
//
// # Rate Limits
//
// Every response carries the API's rate-limit window in its headers. The
// client records them as a side effect of each call; read the current
// window at any time, from any goroutine, without blocking in-flight
// requests:
//
//	window := client.RateLimit().Snapshot()
//	fmt.Printf("remaining %d of %d, resets in %ds\n",
//		window.Remaining, window.Limit, window.Reset)
//
// # Concurrency
//
// A single Client may be shared freely across goroutines. Calls do not
// block one another; the rate-limit tracker is the only shared mutable
// state and is updated with per-cell atomics.
package v2ex
