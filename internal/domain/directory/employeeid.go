package directory

import (
	"context"
	"fmt"
	"math/rand"
)

const (
	employeeIDPrefix = "EMP"
	idLetters        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxIDAttempts    = 32
)

// GenerateEmployeeID produces an ID of the form EMP + two letters + four
// digits, retrying on collision. The retry count is bounded; after exhausting
// it the generator widens to an eight-digit suffix, where a collision would
// require a directory far beyond this system's scale.
func GenerateEmployeeID(ctx context.Context, exists func(ctx context.Context, id string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := randomEmployeeID(4)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := randomEmployeeID(8)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrIDSpaceBusy
}

func randomEmployeeID(digits int) string {
	letters := string(idLetters[rand.Intn(len(idLetters))]) + string(idLetters[rand.Intn(len(idLetters))])
	low := pow10(digits - 1)
	number := low + rand.Intn(9*low)
	return fmt.Sprintf("%s%s%d", employeeIDPrefix, letters, number)
}

func pow10(n int) int {
	out := 1
	for i := 0; i < n; i++ {
		out *= 10
	}
	return out
}
