package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// This file decodes credential payloads WITHOUT verifying the signature. The
// output is for client-side convenience only (display, routing, pre-filling
// query parameters). The backend is the sole authority on who the caller is;
// nothing here may ever feed an authorization decision.

// DecodePayload splits the credential, base64url-decodes the payload segment
// and parses it as JSON. The signature is not checked. Returns
// ErrMalformedCredential when the credential does not have the expected
// segment structure or the payload is not valid base64/JSON.
func DecodePayload(credential string) (map[string]any, error) {
	parser := new(jwt.Parser)
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	return map[string]any(claims), nil
}

// RoleFromCredential extracts the role claim from an unverified credential
// payload. The claim has historically been either a plain string or a nested
// {"role": "..."} object; both are accepted. Returns "" with a nil error when
// the payload decodes but carries no role.
func RoleFromCredential(credential string) (string, error) {
	claims, err := DecodePayload(credential)
	if err != nil {
		return "", err
	}
	switch v := claims["role"].(type) {
	case string:
		return v, nil
	case map[string]any:
		if role, ok := v["role"].(string); ok {
			return role, nil
		}
	}
	return "", nil
}

// ResolveIdentityEmail resolves the caller's email, trying the cached profile
// snapshot first and falling back to the sub/email claims of the credential
// payload. Returns ErrIdentityUnavailable when both sources are exhausted;
// it never returns an empty email with a nil error, so callers cannot
// silently proceed with an empty query parameter.
func ResolveIdentityEmail(snapshot map[string]any, credential string) (string, error) {
	if snapshot != nil {
		if email, ok := snapshot["email"].(string); ok && email != "" {
			return email, nil
		}
	}
	if credential != "" {
		claims, err := DecodePayload(credential)
		if err == nil {
			if sub, ok := claims["sub"].(string); ok && sub != "" {
				return sub, nil
			}
			if email, ok := claims["email"].(string); ok && email != "" {
				return email, nil
			}
		}
	}
	return "", ErrIdentityUnavailable
}
