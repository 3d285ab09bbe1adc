package id

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// Format returns a transaction number like "PY00005".
func Format(kind model.TransactionKind, seq int) string {
	return fmt.Sprintf("%s%05d", kind, seq)
}

// Parse splits a transaction number into its kind prefix and sequence.
func Parse(number string) (model.TransactionKind, int, error) {
	i := 0
	for i < len(number) && unicode.IsUpper(rune(number[i])) {
		i++
	}
	if i == 0 || i == len(number) {
		return "", 0, fmt.Errorf("invalid transaction number %q", number)
	}

	seq, err := strconv.Atoi(number[i:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid sequence in transaction number %q: %w", number, err)
	}
	return model.TransactionKind(number[:i]), seq, nil
}
