package auth

import "testing"

func TestPasswordRoundtrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("kopi-tubruk")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "kopi-tubruk" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "kopi-tubruk") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
