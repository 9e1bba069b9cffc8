package auth

import "testing"

func TestHashPassword(t *testing.T) {
	// Digest is deterministic SHA-256 hex, so old snapshots keep verifying.
	const want = "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8" // sha256("password")
	if got := HashPassword("password"); got != want {
		t.Fatalf("HashPassword=%q want=%q", got, want)
	}
	if HashPassword("a") == HashPassword("b") {
		t.Fatal("different inputs hashed equal")
	}
}

func TestCheckPassword(t *testing.T) {
	h := HashPassword("sesame")
	if !CheckPassword(h, "sesame") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(h, "Sesame") {
		t.Fatal("wrong password accepted")
	}
	if CheckPassword("", "sesame") {
		t.Fatal("empty hash accepted")
	}
	if CheckPassword(h, "") {
		t.Fatal("empty password accepted")
	}
}
