//go:build !race

package content

func passwordHashCost() int {
	return BcryptCost
}
