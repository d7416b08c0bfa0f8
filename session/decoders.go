package session

import "encoding/json"

// The credential storage format changed across versions of the issuing
// service. Old sessions must not be force-logged-out by a client update, so
// reads tolerate every encoding ever written:
//
//	{"token":{"token":"<jwt>","role":"EMPLOYER"}}   sign-up response, stored verbatim
//	{"token":{"token":"<jwt>","role":{"role":...}}} same, with the nested role variant
//	"\"<jwt>\""                                     JSON-quoted plain string
//	{"token":"<jwt>"}                               flat object
//	<jwt>                                           raw credential (current format)
//
// Each decoder is a pure function over the stored text; they are tried in
// order and the first match wins. Keeping the list explicit makes the
// tolerated shapes auditable and independently testable.
type credentialDecoder func(raw string) (string, bool)

var credentialDecoders = []credentialDecoder{
	decodeNestedToken,
	decodeQuotedString,
	decodeFlatToken,
}

// DecodeStoredCredential normalizes a stored credential value to the bare
// bearer string. Text that matches none of the historical JSON encodings is
// returned unchanged: it is already a plain credential.
func DecodeStoredCredential(raw string) string {
	for _, decode := range credentialDecoders {
		if token, ok := decode(raw); ok && token != "" {
			return token
		}
	}
	return raw
}

// decodeNestedToken handles {"token":{"token":"...", ...}}.
func decodeNestedToken(raw string) (string, bool) {
	var wrapper struct {
		Token struct {
			Token string `json:"token"`
		} `json:"token"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
		return "", false
	}
	return wrapper.Token.Token, wrapper.Token.Token != ""
}

// decodeQuotedString handles a JSON-encoded plain string.
func decodeQuotedString(raw string) (string, bool) {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return "", false
	}
	return s, s != ""
}

// decodeFlatToken handles {"token":"..."} where token is a plain string.
func decodeFlatToken(raw string) (string, bool) {
	var wrapper struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
		return "", false
	}
	return wrapper.Token, wrapper.Token != ""
}
