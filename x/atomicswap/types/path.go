package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"cosmossdk.io/errors"
)

const pathSegments = 9

// OrderPath encodes the route of an order: the local channel/port pair, the
// counterparty channel/port pair and the swap sequence.
func OrderPath(sourceChannel, sourcePort, destChannel, destPort string, sequence uint64) string {
	return fmt.Sprintf("channel/%s/port/%s/channel/%s/port/%s/%d",
		sourceChannel, sourcePort, destChannel, destPort, sequence)
}

// OrderID derives the order identifier from its path.
func OrderID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}

// MakerChannel returns the channel the maker chain uses for this order.
func MakerChannel(path string) (string, error) {
	parts, err := splitPath(path)
	if err != nil {
		return "", err
	}
	return parts[1], nil
}

// TakerChannel returns the channel the taker chain uses for this order.
func TakerChannel(path string) (string, error) {
	parts, err := splitPath(path)
	if err != nil {
		return "", err
	}
	return parts[5], nil
}

func splitPath(path string) ([]string, error) {
	parts := strings.Split(path, "/")
	if len(parts) != pathSegments ||
		parts[0] != "channel" || parts[2] != "port" ||
		parts[4] != "channel" || parts[6] != "port" {
		return nil, errors.Wrapf(ErrInvalidPath, "%q", path)
	}
	if _, err := strconv.ParseUint(parts[8], 10, 64); err != nil {
		return nil, errors.Wrapf(ErrInvalidPath, "bad sequence in %q", path)
	}
	for _, p := range []string{parts[1], parts[3], parts[5], parts[7]} {
		if p == "" {
			return nil, errors.Wrapf(ErrInvalidPath, "empty identifier in %q", path)
		}
	}
	return parts, nil
}
