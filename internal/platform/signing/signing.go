// Package signing produces and verifies the HMAC query signatures the HLS
// proxy requires on every manifest and segment URL.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Signer struct {
	Secret []byte
}

type Signed struct {
	URL string
	Exp int64
	UID string
	Sig string
	Hdr string // base64 JSON of upstream headers, optional
}

func New(secret string) *Signer {
	return &Signer{Secret: []byte(secret)}
}

func (s *Signer) Sign(rawURL, userID string, exp time.Time) Signed {
	sig := s.signValue(rawURL, userID, exp.Unix())
	return Signed{URL: rawURL, Exp: exp.Unix(), UID: userID, Sig: sig}
}

// SignWithHeaders is Sign plus an opaque header blob the proxy replays on the
// upstream request. Headers are not covered by the signature.
func (s *Signer) SignWithHeaders(rawURL, userID string, exp time.Time, headers map[string]string) Signed {
	signed := s.Sign(rawURL, userID, exp)
	if len(headers) > 0 {
		if b, err := json.Marshal(headers); err == nil {
			signed.Hdr = base64.RawURLEncoding.EncodeToString(b)
		}
	}
	return signed
}

func (s *Signer) Verify(rawURL, userID string, exp int64, sig string) bool {
	if time.Now().Unix() > exp {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(s.signValue(rawURL, userID, exp)))
}

func (s *Signer) signValue(rawURL, userID string, exp int64) string {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write([]byte(rawURL))
	mac.Write([]byte("|"))
	mac.Write([]byte(userID))
	mac.Write([]byte("|"))
	mac.Write([]byte(strconv.FormatInt(exp, 10)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func BuildSignedURL(base string, signed Signed) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("url", signed.URL)
	q.Set("exp", strconv.FormatInt(signed.Exp, 10))
	q.Set("uid", signed.UID)
	q.Set("sig", signed.Sig)
	if signed.Hdr != "" {
		q.Set("hdr", signed.Hdr)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func ExtractSigned(query url.Values) (string, string, int64, string, error) {
	rawURL := strings.TrimSpace(query.Get("url"))
	uid := strings.TrimSpace(query.Get("uid"))
	expStr := strings.TrimSpace(query.Get("exp"))
	sig := strings.TrimSpace(query.Get("sig"))
	if rawURL == "" || uid == "" || expStr == "" || sig == "" {
		return "", "", 0, "", fmt.Errorf("missing signed params")
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return "", "", 0, "", err
	}
	return rawURL, uid, exp, sig, nil
}

// ExtractHeaders decodes the hdr blob; nil when absent or malformed.
func ExtractHeaders(query url.Values) map[string]string {
	raw := strings.TrimSpace(query.Get("hdr"))
	if raw == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}
