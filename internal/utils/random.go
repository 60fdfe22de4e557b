package utils

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
	"strings"
)

var firstNames = []string{
	"Giulia", "Marco", "Sofia", "Luca", "Chiara", "Matteo", "Alice", "Davide", "Elena", "Paolo",
	"Sara", "Andrea", "Martina", "Federico", "Anna", "Simone", "Laura", "Tommaso", "Irene", "Nicola",
}
var lastNames = []string{
	"Rossi", "Bianchi", "Romano", "Colombo", "Ricci", "Marino", "Greco", "Bruno", "Gallo", "Conti",
	"Costa", "Giordano", "Mancini", "Rizzo", "Lombardi", "Moretti", "Barbieri", "Fontana",
}

func GenerateRandomName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

// GenerateEmailFromName lowercases the name, joins its parts with a dot and appends up to
// three digits so seeded accounts rarely collide.
func GenerateEmailFromName(name string, domainName string) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local + "@" + domainName
}

var courseYears = []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "5th Year"}

func GenerateRandomCourseYear() string {
	return courseYears[rand.Intn(len(courseYears))]
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

// GenerateRandomPassword returns a password drawn from crypto/rand.
func GenerateRandomPassword(length int) (string, error) {
	limit := big.NewInt(int64(len(letters)))
	password := make([]rune, length)
	for i := range password {
		n, err := crand.Int(crand.Reader, limit)
		if err != nil {
			return "", err
		}
		password[i] = letters[n.Int64()]
	}
	return string(password), nil
}

var base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

const shortIDLength = 9

// GenerateShortID returns a 9 character base36 token used for checklist items and comments.
// It is generated before the owning project is written, and the store keeps it as is.
func GenerateShortID() string {
	id := make([]byte, shortIDLength)
	for i := range id {
		id[i] = base36[rand.Intn(len(base36))]
	}
	return string(id)
}
