package validate

import (
	"crypto/rand"
	"math/big"
)

var passwordGroups = []string{
	"abcdefghijklmnopqrstuvwxyz",
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"0123456789",
	Symbols,
}

// SuggestPassword returns a random password that passes Password. Its length
// is a multiple of four between 8 and 28, with an equal share drawn from
// lower case letters, upper case letters, digits and symbols.
func SuggestPassword() (string, error) {
	perGroup, err := randInt(6)
	if err != nil {
		return "", err
	}
	perGroup += 2

	out := make([]byte, 0, perGroup*len(passwordGroups))
	for _, g := range passwordGroups {
		for i := 0; i < perGroup; i++ {
			n, err := randInt(len(g))
			if err != nil {
				return "", err
			}
			out = append(out, g[n])
		}
	}

	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
