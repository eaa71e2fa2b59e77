package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	WallIDPrefix    = "wall"
	ProjectIDPrefix = "project"
)

// publicIDSpace is the number of distinct ids per prefix: a five digit
// block in [10000, 99999] times a four digit block in [1000, 9999].
var publicIDSpace = big.NewInt(90000 * 9000)

// NewPublicID returns a human-readable id such as "wall-12345-6789".
// Collisions are possible; inserts retry on unique violations.
func NewPublicID(prefix string) (string, error) {
	n, err := rand.Int(rand.Reader, publicIDSpace)
	if err != nil {
		return "", fmt.Errorf("public id: %w", err)
	}
	v := n.Int64()
	return fmt.Sprintf("%s-%05d-%04d", prefix, 10000+v/9000, 1000+v%9000), nil
}
