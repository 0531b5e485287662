package signing

import (
	"net/url"
	"testing"
	"time"
)

func TestSignAndVerify(t *testing.T) {
	s := New("secret")
	exp := time.Now().Add(time.Hour)
	signed := s.Sign("https://cdn.example/index.m3u8", "viewer-1", exp)

	if !s.Verify(signed.URL, signed.UID, signed.Exp, signed.Sig) {
		t.Fatal("valid signature rejected")
	}
	if s.Verify("https://cdn.example/other.m3u8", signed.UID, signed.Exp, signed.Sig) {
		t.Fatal("signature accepted for a different URL")
	}
	if s.Verify(signed.URL, "viewer-2", signed.Exp, signed.Sig) {
		t.Fatal("signature accepted for a different uid")
	}
	if New("other").Verify(signed.URL, signed.UID, signed.Exp, signed.Sig) {
		t.Fatal("signature accepted under a different secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := New("secret")
	signed := s.Sign("https://cdn.example/seg.ts", "viewer-1", time.Now().Add(-time.Minute))
	if s.Verify(signed.URL, signed.UID, signed.Exp, signed.Sig) {
		t.Fatal("expired signature accepted")
	}
}

func TestBuildAndExtractRoundTrip(t *testing.T) {
	s := New("secret")
	signed := s.Sign("https://cdn.example/index.m3u8?a=1", "viewer-1", time.Now().Add(time.Hour))

	built, err := BuildSignedURL("https://proxy.example/hls", signed)
	if err != nil {
		t.Fatalf("BuildSignedURL: %v", err)
	}
	u, err := url.Parse(built)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rawURL, uid, exp, sig, err := ExtractSigned(u.Query())
	if err != nil {
		t.Fatalf("ExtractSigned: %v", err)
	}
	if rawURL != signed.URL || uid != signed.UID || exp != signed.Exp || sig != signed.Sig {
		t.Fatalf("round trip changed params: %q %q %d %q", rawURL, uid, exp, sig)
	}
	if !s.Verify(rawURL, uid, exp, sig) {
		t.Fatal("extracted params do not verify")
	}
}

func TestExtractSignedRequiresAllParams(t *testing.T) {
	q := url.Values{}
	q.Set("url", "https://cdn.example/x")
	q.Set("uid", "viewer-1")
	if _, _, _, _, err := ExtractSigned(q); err == nil {
		t.Fatal("missing exp/sig accepted")
	}
	q.Set("exp", "not-a-number")
	q.Set("sig", "abc")
	if _, _, _, _, err := ExtractSigned(q); err == nil {
		t.Fatal("non-numeric exp accepted")
	}
}

func TestHeaderBlobRoundTrip(t *testing.T) {
	s := New("secret")
	headers := map[string]string{"Referer": "https://player.example/", "Origin": "https://player.example"}
	signed := s.SignWithHeaders("https://cdn.example/x", "viewer-1", time.Now().Add(time.Hour), headers)
	if signed.Hdr == "" {
		t.Fatal("Hdr empty")
	}

	built, err := BuildSignedURL("https://proxy.example/hls", signed)
	if err != nil {
		t.Fatalf("BuildSignedURL: %v", err)
	}
	u, _ := url.Parse(built)
	got := ExtractHeaders(u.Query())
	if got["Referer"] != headers["Referer"] || got["Origin"] != headers["Origin"] {
		t.Fatalf("headers = %v", got)
	}

	if got := ExtractHeaders(url.Values{}); got != nil {
		t.Fatalf("absent hdr should be nil, got %v", got)
	}
	bad := url.Values{}
	bad.Set("hdr", "!!!not-base64!!!")
	if got := ExtractHeaders(bad); got != nil {
		t.Fatalf("malformed hdr should be nil, got %v", got)
	}
}
