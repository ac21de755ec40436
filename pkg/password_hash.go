package pkg

import "golang.org/x/crypto/bcrypt"

// DefaultPasswordCost matches the cost used for the admin hash in existing deployments.
const DefaultPasswordCost = 10

func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return BytesToString(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
