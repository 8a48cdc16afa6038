package session

import "math/rand"

const (
	codeLength   = 4
	codeAttempts = 100
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// GenerateCode returns a random session code not reported as taken. After
// codeAttempts collisions the last candidate is returned regardless.
func GenerateCode(taken func(string) bool) string {
	code := randomCode()
	for i := 1; i < codeAttempts && taken(code); i++ {
		code = randomCode()
	}
	return code
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
