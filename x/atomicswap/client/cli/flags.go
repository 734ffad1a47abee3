package cli

// Flag constants for atomic swap CLI commands
const (
	FlagSnapshot = "snapshot"
	FlagLimit    = "limit"
	FlagReverse  = "reverse"
	FlagArchived = "archived"
)

// Flag constants for atomic swap tx commands
const (
	FlagAmount = "amount"
	FlagOutput = "output"
)
