// Package jwt seals the persisted portal user into a signed token so that a record edited
// outside the application decodes as malformed instead of granting another role.
//
// [Manager] implements session.Codec. Tokens carry no expiry: a session lasts until logout.
package jwt
