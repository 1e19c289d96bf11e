// Package types defines the request and response shapes of the V2EX API v2.
//
// Response types embed Status so the wire form stays a single flat JSON
// object; endpoint payloads live under the "result" key. Fields the API may
// omit or send as null are pointers so absence round-trips without error.
package types

import (
	"encoding/json"
	"strconv"
)

// Status is the envelope the API wraps around every response.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Member is a V2EX member profile.
//
// The social-profile fields are optional on the wire; the avatar fields have
// appeared as both required and optional across API revisions, so they are
// treated as optional here and decode to "" when missing.
type Member struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	URL      string  `json:"url"`
	Website  *string `json:"website,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
	PSN      *string `json:"psn,omitempty"`
	GitHub   *string `json:"github,omitempty"`
	BTC      *string `json:"btc,omitempty"`
	Location *string `json:"location,omitempty"`
	Tagline  *string `json:"tagline,omitempty"`
	Bio      *string `json:"bio,omitempty"`

	AvatarMini   string `json:"avatar_mini,omitempty"`
	AvatarNormal string `json:"avatar_normal,omitempty"`
	AvatarLarge  string `json:"avatar_large,omitempty"`

	Created      int64 `json:"created"`
	LastModified int64 `json:"last_modified"`
}

// MemberResponse is the response to GET /member.
// Unlike the other endpoints this envelope carries no "message" field.
type MemberResponse struct {
	Success bool   `json:"success"`
	Result  Member `json:"result"`
}

// NotificationsResponse is the response to GET /notifications.
// The result payload's element shape is not finalized upstream, so only the
// envelope is decoded.
type NotificationsResponse struct {
	Status
}

// DeleteNotificationResponse is the response to DELETE /notifications/{id}.
type DeleteNotificationResponse struct {
	Status
}

// TokenScope controls what a personal access token may do.
type TokenScope string

const (
	// TokenScopeEverything grants the token full API access.
	TokenScopeEverything TokenScope = "everything"
	// TokenScopeRegular grants API access except creating new tokens.
	TokenScopeRegular TokenScope = "regular"
)

// TokenExpiration is a token lifetime, in seconds. The API accepts only the
// four enumerated values.
type TokenExpiration int64

const (
	TokenExpiration30Days  TokenExpiration = 2592000
	TokenExpiration60Days  TokenExpiration = 5184000
	TokenExpiration90Days  TokenExpiration = 7776000
	TokenExpiration180Days TokenExpiration = 15552000
)

// CreateTokenRequest describes a token to mint via POST /tokens.
type CreateTokenRequest struct {
	Scope      TokenScope
	Expiration TokenExpiration
}

// MarshalJSON encodes the request in the API's wire form, which carries both
// values as strings: {"scope":"regular","expiration":"2592000"}.
func (r CreateTokenRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Scope      string `json:"scope"`
		Expiration string `json:"expiration"`
	}{
		Scope:      string(r.Scope),
		Expiration: strconv.FormatInt(int64(r.Expiration), 10),
	})
}

// Token describes a personal access token. GET /token returns the detail
// fields; POST /tokens returns only Token itself.
type Token struct {
	Token       string `json:"token,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Expiration  int64  `json:"expiration,omitempty"`
	GoodForDays int    `json:"good_for_days,omitempty"`
	TotalUsed   uint64 `json:"total_used,omitempty"`
	LastUsed    int64  `json:"last_used,omitempty"`
	Created     int64  `json:"created,omitempty"`
}

// TokenResponse is the response to GET /token and POST /tokens.
type TokenResponse struct {
	Status
	Result Token `json:"result"`
}

// Node is a V2EX node (a topic category, addressed by its slug name).
type Node struct {
	ID           uint64 `json:"id"`
	URL          string `json:"url"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Header       string `json:"header"`
	Footer       string `json:"footer"`
	Avatar       string `json:"avatar"`
	Topics       int    `json:"topics"`
	Created      int64  `json:"created"`
	LastModified int64  `json:"last_modified"`
}

// NodeResponse is the response to GET /nodes/{name}.
type NodeResponse struct {
	Status
	Result Node `json:"result"`
}

// Topic holds the summary fields of a topic, as returned in listings.
type Topic struct {
	ID              uint64 `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	ContentRendered string `json:"content_rendered"`
	Syntax          int    `json:"syntax"`
	URL             string `json:"url"`
	Replies         int    `json:"replies"`
	LastReplyBy     string `json:"last_reply_by"`
	Created         int64  `json:"created"`
	LastModified    int64  `json:"last_modified"`
	LastTouched     int64  `json:"last_touched"`
}

// NodeTopicsResponse is the response to GET /nodes/{name}/topics.
type NodeTopicsResponse struct {
	Status
	Result []Topic `json:"result"`
}

// Supplement is an appendix the author added to a topic after posting.
type Supplement struct {
	ID              uint64 `json:"id"`
	Content         string `json:"content"`
	ContentRendered string `json:"content_rendered"`
	Syntax          int    `json:"syntax"`
	Created         int64  `json:"created"`
}

// TopicDetail is a full topic: the summary fields flat at the top level,
// with the authoring member, owning node, and any supplements nested.
type TopicDetail struct {
	Topic
	Member      Member       `json:"member"`
	Node        Node         `json:"node"`
	Supplements []Supplement `json:"supplements,omitempty"`
}

// TopicResponse is the response to GET /topics/{id}.
type TopicResponse struct {
	Status
	Result TopicDetail `json:"result"`
}

// Reply is one reply in a topic's thread.
type Reply struct {
	ID              uint64 `json:"id"`
	Content         string `json:"content"`
	ContentRendered string `json:"content_rendered"`
	Created         int64  `json:"created"`
	Member          Member `json:"member"`
}

// TopicRepliesResponse is the response to GET /topics/{id}/replies.
type TopicRepliesResponse struct {
	Status
	Result []Reply `json:"result"`
}
